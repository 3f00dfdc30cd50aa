package job

import (
	"context"
	"time"

	"github.com/carelog/summary-api/internal/domain"
	"github.com/google/uuid"
)

// Store persists job records. Implementations must make Claim atomic:
// under concurrent claimers each pending job is handed to exactly one.
type Store interface {
	// Create persists a new pending job.
	Create(ctx context.Context, j *Job) error

	// GetByID retrieves a job. Returns ErrJobNotFound if absent.
	GetByID(ctx context.Context, id uuid.UUID) (*Job, error)

	// Claim atomically moves the oldest pending job to processing and
	// returns it. Returns ErrNoPendingJobs when none is pending.
	Claim(ctx context.Context) (*Job, error)

	// MarkCompleted moves a processing job to completed with its result.
	// Returns ErrInvalidTransition if the job is not processing and
	// ErrJobNotFound if it is absent.
	MarkCompleted(ctx context.Context, id uuid.UUID, result *domain.SummaryResult) error

	// MarkFailed moves a processing job to failed with an error detail.
	// Same guarantees as MarkCompleted.
	MarkFailed(ctx context.Context, id uuid.UUID, detail string) error

	// MarkCancelled moves a pending job to cancelled.
	// Returns ErrInvalidTransition if the job is not pending.
	MarkCancelled(ctx context.Context, id uuid.UUID) error

	// Delete removes a job record. Returns ErrJobNotFound if absent.
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteExpired removes all jobs created before the cutoff, in any
	// status, and returns how many were removed.
	DeleteExpired(ctx context.Context, cutoff time.Time) (int, error)
}
