package job

import (
	"time"

	"github.com/carelog/summary-api/internal/domain"
	"github.com/google/uuid"
)

// Status represents the lifecycle state of a summary generation job.
type Status string

// Job lifecycle states
const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusCancelled  Status = "cancelled"
)

// Terminal reports whether no further transition is possible from s.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether the state machine permits moving from s
// to next. Transitions are never reversed: pending may become processing
// or cancelled, processing may become completed or failed, and terminal
// states accept nothing.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusProcessing || next == StatusCancelled
	case StatusProcessing:
		return next == StatusCompleted || next == StatusFailed
	default:
		return false
	}
}

// rank orders statuses for monotonicity checks. Terminal states share the
// top rank because exactly one of them is ever reached.
func (s Status) rank() int {
	switch s {
	case StatusPending:
		return 0
	case StatusProcessing:
		return 1
	default:
		return 2
	}
}

// AtLeast reports whether s is equal to or later than prev in the
// lifecycle order. Pollers use this to assert non-decreasing status.
func (s Status) AtLeast(prev Status) bool {
	return s.rank() >= prev.rank()
}

// Job is one unit of deferred summary generation work.
type Job struct {
	ID        uuid.UUID `json:"id"`
	PatientID uuid.UUID `json:"patient_id"`

	// Request parameters captured at submission time.
	Audience  domain.Audience `json:"audience"`
	MaxLength int             `json:"max_length"`

	Status Status `json:"status"`

	// Result is set when Status is completed; Error when failed.
	Result *domain.SummaryResult `json:"result,omitempty"`
	Error  string                `json:"error,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewJob creates a pending job for the given patient and request.
func NewJob(patientID uuid.UUID, req domain.SummaryRequest) *Job {
	now := time.Now().UTC()
	return &Job{
		ID:        uuid.New(),
		PatientID: patientID,
		Audience:  req.Audience,
		MaxLength: req.MaxLength,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Request reconstructs the SummaryRequest captured at submission.
func (j *Job) Request() domain.SummaryRequest {
	return domain.SummaryRequest{Audience: j.Audience, MaxLength: j.MaxLength}
}

// ExpiredAt reports whether the job's record is evictable at the given
// time under the given TTL. Eviction applies regardless of status.
func (j *Job) ExpiredAt(now time.Time, ttl time.Duration) bool {
	return now.Sub(j.CreatedAt) > ttl
}
