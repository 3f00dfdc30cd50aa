package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/carelog/summary-api/internal/domain"
	"github.com/carelog/summary-api/internal/store"
	"github.com/google/uuid"
)

// PatientService manages patient records.
type PatientService struct {
	patients store.PatientStore
	logger   *slog.Logger
}

// NewPatientService creates a PatientService.
func NewPatientService(patients store.PatientStore, logger *slog.Logger) *PatientService {
	return &PatientService{patients: patients, logger: logger}
}

// Create validates and stores a new patient.
func (s *PatientService) Create(ctx context.Context, name string, dateOfBirth time.Time) (*domain.Patient, error) {
	patient, err := domain.NewPatient(name, dateOfBirth)
	if err != nil {
		return nil, err
	}

	if err := s.patients.Create(ctx, patient); err != nil {
		return nil, wrapError("create_patient", "storing patient", err)
	}

	s.logger.InfoContext(ctx, "patient created", slog.String("patient_id", patient.ID.String()))
	return patient, nil
}

// Get retrieves a patient by ID.
func (s *PatientService) Get(ctx context.Context, id uuid.UUID) (*domain.Patient, error) {
	patient, err := s.patients.GetByID(ctx, id)
	if err != nil {
		return nil, wrapError("get_patient", "loading patient", err)
	}
	return patient, nil
}

// List returns patients ordered newest first.
func (s *PatientService) List(ctx context.Context, limit, offset int) ([]*domain.Patient, error) {
	patients, err := s.patients.List(ctx, limit, offset)
	if err != nil {
		return nil, wrapError("list_patients", "listing patients", err)
	}
	return patients, nil
}

// Delete removes a patient and their notes.
func (s *PatientService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.patients.Delete(ctx, id); err != nil {
		return wrapError("delete_patient", "deleting patient", err)
	}

	s.logger.InfoContext(ctx, "patient deleted", slog.String("patient_id", id.String()))
	return nil
}
