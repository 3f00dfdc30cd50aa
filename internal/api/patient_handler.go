package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/carelog/summary-api/internal/api/shared"
	"github.com/carelog/summary-api/internal/service"
)

// Listing bounds for GET /patients.
const (
	defaultPatientPageSize = 50
	maxPatientPageSize     = 200
)

// PatientHandler serves the patient management endpoints.
type PatientHandler struct {
	patients *service.PatientService
	logger   *slog.Logger
}

// NewPatientHandler creates a PatientHandler.
func NewPatientHandler(patients *service.PatientService, logger *slog.Logger) *PatientHandler {
	return &PatientHandler{patients: patients, logger: logger}
}

// Create handles POST /patients.
func (h *PatientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreatePatientRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Name and date_of_birth are required", err)
		return
	}

	dob, err := time.Parse("2006-01-02", req.DateOfBirth)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "date_of_birth must be formatted YYYY-MM-DD", err)
		return
	}

	patient, err := h.patients.Create(r.Context(), req.Name, dob)
	if err != nil {
		shared.RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, NewPatientResponse(patient))
}

// Get handles GET /patients/{id}.
func (h *PatientHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePatientID(w, r)
	if !ok {
		return
	}

	patient, err := h.patients.Get(r.Context(), id)
	if err != nil {
		shared.RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewPatientResponse(patient))
}

// List handles GET /patients.
func (h *PatientHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", defaultPatientPageSize)
	if limit < 1 || limit > maxPatientPageSize {
		limit = defaultPatientPageSize
	}
	offset := queryInt(r, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	patients, err := h.patients.List(r.Context(), limit, offset)
	if err != nil {
		shared.RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	responses := make([]PatientResponse, 0, len(patients))
	for _, p := range patients {
		responses = append(responses, NewPatientResponse(p))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// Delete handles DELETE /patients/{id}. Deleting a patient removes their
// notes as well.
func (h *PatientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePatientID(w, r)
	if !ok {
		return
	}

	if err := h.patients.Delete(r.Context(), id); err != nil {
		shared.RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// parsePatientID extracts and parses the {id} route parameter, responding
// with 400 on a malformed value.
func parsePatientID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid patient ID", err)
		return uuid.Nil, false
	}
	return id, true
}

// queryInt reads an integer query parameter, falling back to def when the
// parameter is absent or malformed.
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}
