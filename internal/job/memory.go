package job

import (
	"context"
	"sync"
	"time"

	"github.com/carelog/summary-api/internal/domain"
	"github.com/google/uuid"
)

// MemoryStore is an in-memory Store for single-process deployments and
// tests. All methods are safe for concurrent use.
type MemoryStore struct {
	mu   sync.Mutex
	jobs map[uuid.UUID]*Job
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{jobs: make(map[uuid.UUID]*Job)}
}

// Create persists a new job.
func (s *MemoryStore) Create(_ context.Context, j *Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *j
	s.jobs[j.ID] = &copied
	return nil
}

// GetByID retrieves a copy of the job.
func (s *MemoryStore) GetByID(_ context.Context, id uuid.UUID) (*Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[id]
	if !ok {
		return nil, ErrJobNotFound
	}
	copied := *j
	return &copied, nil
}

// Claim moves the oldest pending job to processing under the store lock,
// so concurrent claimers never receive the same job.
func (s *MemoryStore) Claim(_ context.Context) (*Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var oldest *Job
	for _, j := range s.jobs {
		if j.Status != StatusPending {
			continue
		}
		if oldest == nil || j.CreatedAt.Before(oldest.CreatedAt) {
			oldest = j
		}
	}
	if oldest == nil {
		return nil, ErrNoPendingJobs
	}

	oldest.Status = StatusProcessing
	oldest.UpdatedAt = time.Now().UTC()

	copied := *oldest
	return &copied, nil
}

// MarkCompleted moves a processing job to completed.
func (s *MemoryStore) MarkCompleted(_ context.Context, id uuid.UUID, result *domain.SummaryResult) error {
	return s.transition(id, StatusCompleted, func(j *Job) {
		j.Result = result
	})
}

// MarkFailed moves a processing job to failed.
func (s *MemoryStore) MarkFailed(_ context.Context, id uuid.UUID, detail string) error {
	return s.transition(id, StatusFailed, func(j *Job) {
		j.Error = detail
	})
}

// MarkCancelled moves a pending job to cancelled.
func (s *MemoryStore) MarkCancelled(_ context.Context, id uuid.UUID) error {
	return s.transition(id, StatusCancelled, nil)
}

func (s *MemoryStore) transition(id uuid.UUID, next Status, apply func(*Job)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[id]
	if !ok {
		return ErrJobNotFound
	}
	if !j.Status.CanTransitionTo(next) {
		return ErrInvalidTransition
	}

	j.Status = next
	j.UpdatedAt = time.Now().UTC()
	if apply != nil {
		apply(j)
	}
	return nil
}

// Delete removes a job record.
func (s *MemoryStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[id]; !ok {
		return ErrJobNotFound
	}
	delete(s.jobs, id)
	return nil
}

// DeleteExpired removes all jobs created before the cutoff.
func (s *MemoryStore) DeleteExpired(_ context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, j := range s.jobs {
		if j.CreatedAt.Before(cutoff) {
			delete(s.jobs, id)
			removed++
		}
	}
	return removed, nil
}
