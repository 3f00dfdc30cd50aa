package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/carelog/summary-api/internal/api/shared"
	"github.com/carelog/summary-api/internal/service"
)

// NoteHandler serves the clinical note endpoints.
type NoteHandler struct {
	notes  *service.NoteService
	logger *slog.Logger
}

// NewNoteHandler creates a NoteHandler.
func NewNoteHandler(notes *service.NoteService, logger *slog.Logger) *NoteHandler {
	return &NoteHandler{notes: notes, logger: logger}
}

// Create handles POST /patients/{id}/notes.
func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	patientID, ok := parsePatientID(w, r)
	if !ok {
		return
	}

	var req CreateNoteRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Content and note_timestamp are required", err)
		return
	}

	ts, err := time.Parse(time.RFC3339, req.NoteTimestamp)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "note_timestamp must be RFC 3339", err)
		return
	}

	note, err := h.notes.Create(r.Context(), patientID, req.Content, ts)
	if err != nil {
		shared.RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, NewNoteResponse(note))
}

// List handles GET /patients/{id}/notes. Notes are returned oldest first.
func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	patientID, ok := parsePatientID(w, r)
	if !ok {
		return
	}

	notes, err := h.notes.ListByPatient(r.Context(), patientID)
	if err != nil {
		shared.RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	responses := make([]NoteResponse, 0, len(notes))
	for i := range notes {
		responses = append(responses, NewNoteResponse(&notes[i]))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}
