package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/carelog/summary-api/internal/domain"
	"github.com/carelog/summary-api/internal/job"
	"github.com/carelog/summary-api/internal/store"
	"github.com/google/uuid"
)

// JobStore implements job.Store over SQL. Claim uses a guarded
// single-statement UPDATE so concurrent claimers, in this process or in
// separate worker processes sharing the database, never receive the same
// job.
type JobStore struct {
	db store.DBTX
}

// NewJobStore creates a JobStore.
func NewJobStore(db store.DBTX) *JobStore {
	return &JobStore{db: db}
}

var _ job.Store = (*JobStore)(nil)

const jobColumns = `id, patient_id, audience, max_length, status, result, error_message, created_at, updated_at`

// Create implements job.Store.Create.
func (s *JobStore) Create(ctx context.Context, j *job.Job) error {
	result, err := encodeResult(j.Result)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO summary_jobs (` + jobColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = s.db.ExecContext(ctx, query,
		j.ID.String(),
		j.PatientID.String(),
		string(j.Audience),
		j.MaxLength,
		string(j.Status),
		result,
		j.Error,
		j.CreatedAt,
		j.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting job: %w", err)
	}
	return nil
}

// GetByID implements job.Store.GetByID.
func (s *JobStore) GetByID(ctx context.Context, id uuid.UUID) (*job.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM summary_jobs WHERE id = $1`
	j, err := scanJob(s.db.QueryRowContext(ctx, query, id.String()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, job.ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying job: %w", err)
	}
	return j, nil
}

// Claim implements job.Store.Claim. The inner SELECT picks the oldest
// pending job; the outer status guard re-checks it so a concurrent claim
// of the same row loses and sees no rows.
func (s *JobStore) Claim(ctx context.Context) (*job.Job, error) {
	query := `
		UPDATE summary_jobs
		SET status = $1, updated_at = $2
		WHERE id = (
			SELECT id FROM summary_jobs
			WHERE status = $3
			ORDER BY created_at ASC
			LIMIT 1
		)
		AND status = $3
		RETURNING ` + jobColumns
	j, err := scanJob(s.db.QueryRowContext(ctx, query,
		string(job.StatusProcessing),
		time.Now().UTC(),
		string(job.StatusPending),
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, job.ErrNoPendingJobs
	}
	if err != nil {
		return nil, fmt.Errorf("claiming job: %w", err)
	}
	return j, nil
}

// MarkCompleted implements job.Store.MarkCompleted.
func (s *JobStore) MarkCompleted(ctx context.Context, id uuid.UUID, result *domain.SummaryResult) error {
	encoded, err := encodeResult(result)
	if err != nil {
		return err
	}

	query := `
		UPDATE summary_jobs
		SET status = $1, result = $2, updated_at = $3
		WHERE id = $4 AND status = $5
	`
	return s.guardedTransition(ctx, id, query,
		string(job.StatusCompleted), encoded, time.Now().UTC(), id.String(), string(job.StatusProcessing))
}

// MarkFailed implements job.Store.MarkFailed.
func (s *JobStore) MarkFailed(ctx context.Context, id uuid.UUID, detail string) error {
	query := `
		UPDATE summary_jobs
		SET status = $1, error_message = $2, updated_at = $3
		WHERE id = $4 AND status = $5
	`
	return s.guardedTransition(ctx, id, query,
		string(job.StatusFailed), detail, time.Now().UTC(), id.String(), string(job.StatusProcessing))
}

// MarkCancelled implements job.Store.MarkCancelled.
func (s *JobStore) MarkCancelled(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE summary_jobs
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4
	`
	return s.guardedTransition(ctx, id, query,
		string(job.StatusCancelled), time.Now().UTC(), id.String(), string(job.StatusPending))
}

// guardedTransition runs a status-guarded UPDATE and maps a zero-row
// result to the right sentinel: the job either does not exist or is not
// in the required source status.
func (s *JobStore) guardedTransition(ctx context.Context, id uuid.UUID, query string, args ...any) error {
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating job status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading rows affected: %w", err)
	}
	if affected > 0 {
		return nil
	}

	var exists int
	err = s.db.QueryRowContext(ctx, `SELECT 1 FROM summary_jobs WHERE id = $1`, id.String()).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return job.ErrJobNotFound
	}
	if err != nil {
		return fmt.Errorf("checking job existence: %w", err)
	}
	return job.ErrInvalidTransition
}

// Delete implements job.Store.Delete.
func (s *JobStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM summary_jobs WHERE id = $1`, id.String())
	if err != nil {
		return fmt.Errorf("deleting job: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading rows affected: %w", err)
	}
	if affected == 0 {
		return job.ErrJobNotFound
	}
	return nil
}

// DeleteExpired implements job.Store.DeleteExpired.
func (s *JobStore) DeleteExpired(ctx context.Context, cutoff time.Time) (int, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM summary_jobs WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("deleting expired jobs: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reading rows affected: %w", err)
	}
	return int(affected), nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*job.Job, error) {
	var (
		j         job.Job
		audience  string
		status    string
		resultRaw sql.NullString
	)
	if err := row.Scan(
		&j.ID,
		&j.PatientID,
		&audience,
		&j.MaxLength,
		&status,
		&resultRaw,
		&j.Error,
		&j.CreatedAt,
		&j.UpdatedAt,
	); err != nil {
		return nil, err
	}

	j.Audience = domain.Audience(audience)
	j.Status = job.Status(status)

	if resultRaw.Valid && resultRaw.String != "" {
		var result domain.SummaryResult
		if err := json.Unmarshal([]byte(resultRaw.String), &result); err != nil {
			return nil, fmt.Errorf("decoding job result: %w", err)
		}
		j.Result = &result
	}
	return &j, nil
}

func encodeResult(result *domain.SummaryResult) (sql.NullString, error) {
	if result == nil {
		return sql.NullString{}, nil
	}
	raw, err := json.Marshal(result)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("encoding job result: %w", err)
	}
	return sql.NullString{String: string(raw), Valid: true}, nil
}
