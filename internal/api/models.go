package api

import (
	"time"

	"github.com/carelog/summary-api/internal/domain"
	"github.com/carelog/summary-api/internal/job"
)

// CreatePatientRequest is the request body for registering a patient.
type CreatePatientRequest struct {
	Name        string `json:"name" validate:"required"`
	DateOfBirth string `json:"date_of_birth" validate:"required"`
}

// CreateNoteRequest is the request body for adding a clinical note.
type CreateNoteRequest struct {
	Content       string `json:"content" validate:"required"`
	NoteTimestamp string `json:"note_timestamp" validate:"required"`
}

// PatientResponse is the API representation of a patient.
type PatientResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	DateOfBirth string    `json:"date_of_birth"`
	MRN         string    `json:"mrn"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewPatientResponse converts a domain patient to its API shape.
func NewPatientResponse(p *domain.Patient) PatientResponse {
	return PatientResponse{
		ID:          p.ID.String(),
		Name:        p.Name,
		DateOfBirth: p.DateOfBirth.Format("2006-01-02"),
		MRN:         p.MRN(),
		CreatedAt:   p.CreatedAt,
	}
}

// NoteResponse is the API representation of a clinical note.
type NoteResponse struct {
	ID            string    `json:"id"`
	PatientID     string    `json:"patient_id"`
	Content       string    `json:"content"`
	NoteTimestamp time.Time `json:"note_timestamp"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewNoteResponse converts a domain note to its API shape.
func NewNoteResponse(n *domain.Note) NoteResponse {
	return NoteResponse{
		ID:            n.ID.String(),
		PatientID:     n.PatientID.String(),
		Content:       n.Content,
		NoteTimestamp: n.NoteTimestamp,
		CreatedAt:     n.CreatedAt,
	}
}

// SummaryResponse is the body of a synchronous summary request.
type SummaryResponse struct {
	Patient   PatientHeadingResponse `json:"patient"`
	Summary   string                 `json:"summary"`
	NoteCount int                    `json:"note_count"`
	Audience  string                 `json:"audience"`
}

// PatientHeadingResponse identifies the patient a summary describes.
type PatientHeadingResponse struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
	MRN  string `json:"mrn"`
}

// NewSummaryResponse converts a summary result to its API shape.
func NewSummaryResponse(result *domain.SummaryResult, audience domain.Audience) SummaryResponse {
	return SummaryResponse{
		Patient: PatientHeadingResponse{
			Name: result.Heading.Name,
			Age:  result.Heading.Age,
			MRN:  result.Heading.MRN,
		},
		Summary:   result.Summary,
		NoteCount: result.NoteCount,
		Audience:  string(audience),
	}
}

// AsyncSubmitResponse acknowledges an asynchronous summary submission.
type AsyncSubmitResponse struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}

// JobResponse is the poll-time view of an asynchronous summary job.
type JobResponse struct {
	JobID     string `json:"job_id"`
	PatientID string `json:"patient_id"`
	Status    string `json:"status"`

	// Result stays null until the job completes.
	Result    *SummaryResponse `json:"result"`
	Error     string           `json:"error,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// NewJobResponse converts a job to its API shape. The result is present
// only for completed jobs, the error only for failed ones.
func NewJobResponse(j *job.Job) JobResponse {
	resp := JobResponse{
		JobID:     j.ID.String(),
		PatientID: j.PatientID.String(),
		Status:    string(j.Status),
		Error:     j.Error,
		CreatedAt: j.CreatedAt,
		UpdatedAt: j.UpdatedAt,
	}
	if j.Result != nil {
		result := NewSummaryResponse(j.Result, j.Audience)
		resp.Result = &result
	}
	return resp
}
