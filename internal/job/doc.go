// Package job implements the asynchronous summary generation lifecycle:
// a job record with a monotonic status state machine, a store interface
// with in-memory and SQL implementations, a manager enforcing transitions
// and time-to-live, and a worker runner that claims and executes jobs.
package job
