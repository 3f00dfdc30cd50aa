package postgres

import (
	"context"
	"fmt"

	"github.com/carelog/summary-api/internal/domain"
	"github.com/carelog/summary-api/internal/store"
	"github.com/google/uuid"
)

// NoteStore implements store.NoteStore over SQL.
type NoteStore struct {
	db store.DBTX
}

// NewNoteStore creates a NoteStore.
func NewNoteStore(db store.DBTX) *NoteStore {
	return &NoteStore{db: db}
}

var _ store.NoteStore = (*NoteStore)(nil)

// Create implements store.NoteStore.Create. The referenced patient must
// exist; the foreign key rejects orphan notes.
func (s *NoteStore) Create(ctx context.Context, note *domain.Note) error {
	if err := note.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO notes (id, patient_id, content, note_timestamp, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(ctx, query,
		note.ID.String(),
		note.PatientID.String(),
		note.Content,
		note.NoteTimestamp,
		note.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting note: %w", err)
	}
	return nil
}

// ListByPatient implements store.NoteStore.ListByPatient.
func (s *NoteStore) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]domain.Note, error) {
	query := `
		SELECT id, patient_id, content, note_timestamp, created_at
		FROM notes
		WHERE patient_id = $1
		ORDER BY note_timestamp ASC
	`
	rows, err := s.db.QueryContext(ctx, query, patientID.String())
	if err != nil {
		return nil, fmt.Errorf("listing notes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var notes []domain.Note
	for rows.Next() {
		var note domain.Note
		if err := rows.Scan(
			&note.ID,
			&note.PatientID,
			&note.Content,
			&note.NoteTimestamp,
			&note.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning note row: %w", err)
		}
		notes = append(notes, note)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating note rows: %w", err)
	}
	return notes, nil
}
