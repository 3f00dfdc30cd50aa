package job

import "errors"

// Sentinel errors returned by the job store and manager.
var (
	// ErrJobNotFound indicates the job does not exist or has been evicted.
	ErrJobNotFound = errors.New("job not found")

	// ErrNoPendingJobs indicates there was no pending job to claim.
	ErrNoPendingJobs = errors.New("no pending jobs")

	// ErrInvalidTransition indicates the requested status change is not
	// permitted by the state machine. The losing side of a completion
	// race observes this error.
	ErrInvalidTransition = errors.New("invalid status transition")
)
