package job

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/carelog/summary-api/internal/config"
	"github.com/carelog/summary-api/internal/domain"
	"github.com/google/uuid"
)

// Metrics receives job lifecycle events. The prometheus implementation
// lives in internal/metrics; tests use the no-op default.
type Metrics interface {
	// CountJob records one job reaching the given status.
	CountJob(status string)
}

type noopMetrics struct{}

func (noopMetrics) CountJob(string) {}

// Manager enforces the job lifecycle over a Store: submission, claiming,
// guarded terminal transitions, polling, and TTL eviction. Submitting
// never touches the generation backend.
type Manager struct {
	store   Store
	ttl     time.Duration
	metrics Metrics
	logger  *slog.Logger
	now     func() time.Time
}

// NewManager creates a Manager. metrics may be nil.
func NewManager(store Store, cfg config.JobsConfig, metrics Metrics, logger *slog.Logger) *Manager {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &Manager{
		store:   store,
		ttl:     cfg.TTL(),
		metrics: metrics,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Submit validates the request and persists a new pending job. The job ID
// is returned immediately; generation happens later in a worker.
func (m *Manager) Submit(ctx context.Context, patientID uuid.UUID, req domain.SummaryRequest) (*Job, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	j := NewJob(patientID, req)
	if err := m.store.Create(ctx, j); err != nil {
		return nil, err
	}

	m.metrics.CountJob(string(StatusPending))
	m.logger.InfoContext(ctx, "job submitted",
		slog.String("job_id", j.ID.String()),
		slog.String("patient_id", patientID.String()))
	return j, nil
}

// Claim hands the oldest pending job to the caller, atomically marking it
// processing. Returns ErrNoPendingJobs when the queue is empty.
func (m *Manager) Claim(ctx context.Context) (*Job, error) {
	j, err := m.store.Claim(ctx)
	if err != nil {
		return nil, err
	}

	m.metrics.CountJob(string(StatusProcessing))
	return j, nil
}

// Complete moves a processing job to completed with its result.
func (m *Manager) Complete(ctx context.Context, id uuid.UUID, result *domain.SummaryResult) error {
	if err := m.store.MarkCompleted(ctx, id, result); err != nil {
		return err
	}

	m.metrics.CountJob(string(StatusCompleted))
	m.logger.InfoContext(ctx, "job completed", slog.String("job_id", id.String()))
	return nil
}

// Fail moves a processing job to failed with an error detail.
func (m *Manager) Fail(ctx context.Context, id uuid.UUID, detail string) error {
	if err := m.store.MarkFailed(ctx, id, detail); err != nil {
		return err
	}

	m.metrics.CountJob(string(StatusFailed))
	m.logger.WarnContext(ctx, "job failed",
		slog.String("job_id", id.String()),
		slog.String("detail", detail))
	return nil
}

// Cancel moves a pending job to cancelled. A job already claimed by a
// worker cannot be cancelled.
func (m *Manager) Cancel(ctx context.Context, id uuid.UUID) error {
	if err := m.store.MarkCancelled(ctx, id); err != nil {
		return err
	}

	m.metrics.CountJob(string(StatusCancelled))
	m.logger.InfoContext(ctx, "job cancelled", slog.String("job_id", id.String()))
	return nil
}

// Poll retrieves the current job state. An expired record is evicted on
// read and reported as ErrJobNotFound, so pollers cannot observe a job
// past its TTL.
func (m *Manager) Poll(ctx context.Context, id uuid.UUID) (*Job, error) {
	j, err := m.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if j.ExpiredAt(m.now(), m.ttl) {
		if err := m.store.Delete(ctx, id); err != nil && !errors.Is(err, ErrJobNotFound) {
			m.logger.WarnContext(ctx, "evicting expired job failed",
				slog.String("job_id", id.String()),
				slog.String("error", err.Error()))
		}
		return nil, ErrJobNotFound
	}

	return j, nil
}

// Sweep evicts every job past its TTL and returns how many were removed.
func (m *Manager) Sweep(ctx context.Context) (int, error) {
	removed, err := m.store.DeleteExpired(ctx, m.now().Add(-m.ttl))
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		m.logger.InfoContext(ctx, "expired jobs evicted", slog.Int("count", removed))
	}
	return removed, nil
}
