package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/carelog/summary-api/internal/domain"
	"github.com/carelog/summary-api/internal/redact"
	"github.com/carelog/summary-api/internal/store"
	"github.com/google/uuid"
)

// NoteService manages clinical notes.
type NoteService struct {
	patients store.PatientStore
	notes    store.NoteStore
	logger   *slog.Logger
}

// NewNoteService creates a NoteService.
func NewNoteService(patients store.PatientStore, notes store.NoteStore, logger *slog.Logger) *NoteService {
	return &NoteService{patients: patients, notes: notes, logger: logger}
}

// Create validates and stores a new note for an existing patient.
func (s *NoteService) Create(
	ctx context.Context,
	patientID uuid.UUID,
	content string,
	noteTimestamp time.Time,
) (*domain.Note, error) {
	if _, err := s.patients.GetByID(ctx, patientID); err != nil {
		return nil, wrapError("create_note", "loading patient", err)
	}

	note, err := domain.NewNote(patientID, content, noteTimestamp)
	if err != nil {
		return nil, err
	}

	if err := s.notes.Create(ctx, note); err != nil {
		return nil, wrapError("create_note", "storing note", err)
	}

	s.logger.InfoContext(ctx, "note created",
		slog.String("note_id", note.ID.String()),
		slog.String("patient_id", patientID.String()),
		slog.String("content", redact.Note(note.Content)))
	return note, nil
}

// ListByPatient returns a patient's notes ordered oldest first.
func (s *NoteService) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]domain.Note, error) {
	if _, err := s.patients.GetByID(ctx, patientID); err != nil {
		return nil, wrapError("list_notes", "loading patient", err)
	}

	notes, err := s.notes.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, wrapError("list_notes", "listing notes", err)
	}
	return notes, nil
}
