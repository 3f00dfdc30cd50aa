package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carelog/summary-api/internal/domain"
	"github.com/carelog/summary-api/internal/store"
	"github.com/google/uuid"
)

// PatientStore implements store.PatientStore over SQL.
type PatientStore struct {
	db store.DBTX
}

// NewPatientStore creates a PatientStore. The connection is initialized
// and managed by the caller.
func NewPatientStore(db store.DBTX) *PatientStore {
	return &PatientStore{db: db}
}

var _ store.PatientStore = (*PatientStore)(nil)

// Create implements store.PatientStore.Create.
func (s *PatientStore) Create(ctx context.Context, patient *domain.Patient) error {
	if err := patient.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO patients (id, name, date_of_birth, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(ctx, query,
		patient.ID.String(),
		patient.Name,
		patient.DateOfBirth,
		patient.CreatedAt,
		patient.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting patient: %w", err)
	}
	return nil
}

// GetByID implements store.PatientStore.GetByID.
func (s *PatientStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Patient, error) {
	query := `
		SELECT id, name, date_of_birth, created_at, updated_at
		FROM patients
		WHERE id = $1
	`
	var patient domain.Patient
	err := s.db.QueryRowContext(ctx, query, id.String()).Scan(
		&patient.ID,
		&patient.Name,
		&patient.DateOfBirth,
		&patient.CreatedAt,
		&patient.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrPatientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying patient: %w", err)
	}
	return &patient, nil
}

// List implements store.PatientStore.List.
func (s *PatientStore) List(ctx context.Context, limit, offset int) ([]*domain.Patient, error) {
	query := `
		SELECT id, name, date_of_birth, created_at, updated_at
		FROM patients
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := s.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing patients: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var patients []*domain.Patient
	for rows.Next() {
		var patient domain.Patient
		if err := rows.Scan(
			&patient.ID,
			&patient.Name,
			&patient.DateOfBirth,
			&patient.CreatedAt,
			&patient.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning patient row: %w", err)
		}
		patients = append(patients, &patient)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating patient rows: %w", err)
	}
	return patients, nil
}

// Delete implements store.PatientStore.Delete. Notes are removed through
// the schema's cascade.
func (s *PatientStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM patients WHERE id = $1`, id.String())
	if err != nil {
		return fmt.Errorf("deleting patient: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading rows affected: %w", err)
	}
	if affected == 0 {
		return store.ErrPatientNotFound
	}
	return nil
}
