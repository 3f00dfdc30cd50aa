package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for Note
var (
	ErrEmptyNoteID        = errors.New("note ID cannot be empty")
	ErrEmptyNotePatientID = errors.New("note patient ID cannot be empty")
	ErrEmptyNoteContent   = errors.New("note content cannot be empty")
	ErrEmptyNoteTimestamp = errors.New("note timestamp cannot be empty")
)

// Note represents a clinical note taken for a patient at a point in time.
type Note struct {
	ID            uuid.UUID `json:"id"`
	PatientID     uuid.UUID `json:"patient_id"`
	Content       string    `json:"content"`
	NoteTimestamp time.Time `json:"note_timestamp"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewNote creates a new Note for the given patient.
// It generates a new UUID for the note ID and sets the creation timestamp.
// Returns an error if validation fails.
func NewNote(patientID uuid.UUID, content string, noteTimestamp time.Time) (*Note, error) {
	note := &Note{
		ID:            uuid.New(),
		PatientID:     patientID,
		Content:       content,
		NoteTimestamp: noteTimestamp,
		CreatedAt:     time.Now().UTC(),
	}

	if err := note.Validate(); err != nil {
		return nil, err
	}

	return note, nil
}

// Validate checks if the Note has valid data.
// Returns an error if any field fails validation.
func (n *Note) Validate() error {
	if n.ID == uuid.Nil {
		return ErrEmptyNoteID
	}

	if n.PatientID == uuid.Nil {
		return ErrEmptyNotePatientID
	}

	if n.Content == "" {
		return ErrEmptyNoteContent
	}

	if n.NoteTimestamp.IsZero() {
		return ErrEmptyNoteTimestamp
	}

	return nil
}
