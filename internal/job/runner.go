package job

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/carelog/summary-api/internal/config"
	"github.com/carelog/summary-api/internal/domain"
	"github.com/google/uuid"
)

// Summarizer executes the generation work for one claimed job. It is
// implemented by service.SummaryService.
type Summarizer interface {
	Generate(ctx context.Context, patientID uuid.UUID, req domain.SummaryRequest) (*domain.SummaryResult, error)
}

// Runner drives a pool of workers that claim pending jobs from the
// manager and execute them, plus a periodic sweeper that evicts expired
// records. Multiple runners may share one SQL-backed store; the store's
// claim atomicity keeps them from stepping on each other.
type Runner struct {
	manager    *Manager
	summarizer Summarizer
	cfg        config.JobsConfig
	logger     *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRunner creates a Runner.
func NewRunner(manager *Manager, summarizer Summarizer, cfg config.JobsConfig, logger *slog.Logger) *Runner {
	ctx, cancel := context.WithCancel(context.Background())
	return &Runner{
		manager:    manager,
		summarizer: summarizer,
		cfg:        cfg,
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Start launches the worker and sweeper goroutines.
func (r *Runner) Start() {
	for i := 0; i < r.cfg.WorkerCount; i++ {
		r.wg.Add(1)
		go r.worker(i)
	}

	r.wg.Add(1)
	go r.sweeper()

	r.logger.Info("job runner started",
		slog.Int("worker_count", r.cfg.WorkerCount),
		slog.Duration("poll_interval", r.cfg.PollInterval()))
}

// Stop signals all goroutines and waits for in-flight jobs to finish.
func (r *Runner) Stop() {
	r.cancel()
	r.wg.Wait()
	r.logger.Info("job runner stopped")
}

func (r *Runner) worker(id int) {
	defer r.wg.Done()

	logger := r.logger.With(slog.Int("worker", id))
	ticker := newTicker(r.cfg.PollInterval())
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			return
		default:
		}

		j, err := r.manager.Claim(r.ctx)
		switch {
		case err == nil:
			r.process(logger, j)
			continue
		case errors.Is(err, ErrNoPendingJobs):
			// Idle; wait for the next poll tick.
		default:
			logger.Warn("claiming job failed", slog.String("error", err.Error()))
		}

		select {
		case <-r.ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// terminalWriteTimeout bounds the store write that records a finished job.
const terminalWriteTimeout = 10 * time.Second

func (r *Runner) process(logger *slog.Logger, j *Job) {
	logger.Info("processing job",
		slog.String("job_id", j.ID.String()),
		slog.String("patient_id", j.PatientID.String()))

	result, err := r.summarizer.Generate(r.ctx, j.PatientID, j.Request())

	// The terminal write runs on its own context: a shutdown that cancels
	// r.ctx mid-job must not strand the record in processing.
	writeCtx, cancel := context.WithTimeout(context.Background(), terminalWriteTimeout)
	defer cancel()

	if err != nil {
		if failErr := r.manager.Fail(writeCtx, j.ID, err.Error()); failErr != nil {
			logger.Warn("marking job failed was rejected",
				slog.String("job_id", j.ID.String()),
				slog.String("error", failErr.Error()))
		}
		return
	}

	if err := r.manager.Complete(writeCtx, j.ID, result); err != nil {
		logger.Warn("marking job completed was rejected",
			slog.String("job_id", j.ID.String()),
			slog.String("error", err.Error()))
	}
}

// newTicker guards against a zero interval from an unvalidated config.
func newTicker(d time.Duration) *time.Ticker {
	if d <= 0 {
		d = time.Second
	}
	return time.NewTicker(d)
}

func (r *Runner) sweeper() {
	defer r.wg.Done()

	ticker := newTicker(r.cfg.SweepInterval())
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			return
		case <-ticker.C:
			if _, err := r.manager.Sweep(r.ctx); err != nil {
				r.logger.Warn("sweeping expired jobs failed", slog.String("error", err.Error()))
			}
		}
	}
}
