package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/carelog/summary-api/internal/api/shared"
	"github.com/carelog/summary-api/internal/domain"
	"github.com/carelog/summary-api/internal/job"
	"github.com/carelog/summary-api/internal/service"
)

// SummaryHandler serves synchronous summary generation and the
// asynchronous submit/poll job endpoints.
type SummaryHandler struct {
	summaries *service.SummaryService
	patients  *service.PatientService
	jobs      *job.Manager
	logger    *slog.Logger
}

// NewSummaryHandler creates a SummaryHandler.
func NewSummaryHandler(
	summaries *service.SummaryService,
	patients *service.PatientService,
	jobs *job.Manager,
	logger *slog.Logger,
) *SummaryHandler {
	return &SummaryHandler{summaries: summaries, patients: patients, jobs: jobs, logger: logger}
}

// Generate handles GET /patients/{id}/summary. A valid request for an
// existing patient always returns 200 with a summary; backend failures
// are absorbed by the rule-based fallback.
func (h *SummaryHandler) Generate(w http.ResponseWriter, r *http.Request) {
	patientID, ok := parsePatientID(w, r)
	if !ok {
		return
	}

	req, ok := parseSummaryRequest(w, r)
	if !ok {
		return
	}

	result, err := h.summaries.Generate(r.Context(), patientID, req)
	if err != nil {
		shared.RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewSummaryResponse(result, req.Audience))
}

// SubmitAsync handles POST /patients/{id}/summary/async. The patient is
// checked at submission time so a bad ID fails fast rather than inside a
// worker; generation itself is deferred.
func (h *SummaryHandler) SubmitAsync(w http.ResponseWriter, r *http.Request) {
	patientID, ok := parsePatientID(w, r)
	if !ok {
		return
	}

	req, ok := parseSummaryRequest(w, r)
	if !ok {
		return
	}

	if _, err := h.patients.Get(r.Context(), patientID); err != nil {
		shared.RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	j, err := h.jobs.Submit(r.Context(), patientID, req)
	if err != nil {
		shared.RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusAccepted, AsyncSubmitResponse{
		JobID:  j.ID.String(),
		Status: "queued",
	})
}

// PollJob handles GET /patients/{id}/summary/jobs/{job_id}. A job that
// belongs to a different patient is reported as not found, the same as a
// missing or expired one.
func (h *SummaryHandler) PollJob(w http.ResponseWriter, r *http.Request) {
	patientID, ok := parsePatientID(w, r)
	if !ok {
		return
	}

	jobID, err := uuid.Parse(chi.URLParam(r, "job_id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid job ID", err)
		return
	}

	j, err := h.jobs.Poll(r.Context(), jobID)
	if err != nil {
		shared.RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}
	if j.PatientID != patientID {
		shared.RespondWithError(w, r, http.StatusNotFound, "Job not found", job.ErrJobNotFound)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewJobResponse(j))
}

// parseSummaryRequest builds a SummaryRequest from the audience and
// max_length query parameters. Defaults apply only when a parameter is
// absent; an explicit value outside the supported range is rejected, as
// is one that does not parse as an integer.
func parseSummaryRequest(w http.ResponseWriter, r *http.Request) (domain.SummaryRequest, bool) {
	maxLength := 0
	if raw := r.URL.Query().Get("max_length"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < domain.MinSummaryLength || v > domain.MaxSummaryLength {
			shared.RespondWithError(w, r, http.StatusBadRequest,
				"max_length must be an integer between 100 and 2000", domain.ErrInvalidMaxLength)
			return domain.SummaryRequest{}, false
		}
		maxLength = v
	}

	req, err := domain.NewSummaryRequest(domain.Audience(r.URL.Query().Get("audience")), maxLength)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, GetSafeErrorMessage(err), err)
		return domain.SummaryRequest{}, false
	}
	return req, true
}
