package store

import (
	"context"

	"github.com/carelog/summary-api/internal/domain"
	"github.com/google/uuid"
)

// PatientStore defines the interface for patient data persistence.
type PatientStore interface {
	// Create saves a new patient to the store.
	// It handles domain validation internally.
	// Returns validation errors from the domain Patient if data is invalid.
	Create(ctx context.Context, patient *domain.Patient) error

	// GetByID retrieves a patient by their unique ID.
	// Returns ErrPatientNotFound if the patient does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Patient, error)

	// List retrieves patients ordered by creation time, newest first.
	// Returns an empty slice if the store is empty.
	List(ctx context.Context, limit, offset int) ([]*domain.Patient, error)

	// Delete removes a patient and, through the schema's cascade, their notes.
	// Returns ErrPatientNotFound if the patient does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// NoteStore defines the interface for clinical note persistence.
type NoteStore interface {
	// Create saves a new note to the store.
	// Returns ErrPatientNotFound if the referenced patient does not exist.
	Create(ctx context.Context, note *domain.Note) error

	// ListByPatient retrieves all notes for the given patient ordered by
	// note timestamp ascending. Returns an empty slice when the patient
	// has no notes.
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]domain.Note, error)
}
