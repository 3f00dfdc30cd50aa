package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/carelog/summary-api/internal/api/middleware"
	"github.com/carelog/summary-api/internal/api/shared"
	"github.com/carelog/summary-api/internal/job"
	"github.com/carelog/summary-api/internal/service"
)

// RouterConfig carries the dependencies the router wires into handlers.
// MetricsMiddleware and MetricsHandler may be nil, in which case the
// /metrics endpoint is not mounted.
type RouterConfig struct {
	Patients  *service.PatientService
	Notes     *service.NoteService
	Summaries *service.SummaryService
	Jobs      *job.Manager

	MetricsMiddleware func(http.Handler) http.Handler
	MetricsHandler    http.Handler

	Logger *slog.Logger
}

// NewRouter builds the service's chi router with all routes and
// middleware attached.
func NewRouter(cfg RouterConfig) chi.Router {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	r := chi.NewRouter()

	r.Use(middleware.Trace(log))
	r.Use(chimiddleware.Recoverer)
	if cfg.MetricsMiddleware != nil {
		r.Use(cfg.MetricsMiddleware)
	}

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		shared.RespondWithJSON(w, req, http.StatusOK, map[string]string{"status": "ok"})
	})

	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	patientHandler := NewPatientHandler(cfg.Patients, log)
	noteHandler := NewNoteHandler(cfg.Notes, log)
	summaryHandler := NewSummaryHandler(cfg.Summaries, cfg.Patients, cfg.Jobs, log)

	r.Route("/patients", func(r chi.Router) {
		r.Post("/", patientHandler.Create)
		r.Get("/", patientHandler.List)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", patientHandler.Get)
			r.Delete("/", patientHandler.Delete)

			r.Post("/notes", noteHandler.Create)
			r.Get("/notes", noteHandler.List)

			r.Get("/summary", summaryHandler.Generate)
			r.Post("/summary/async", summaryHandler.SubmitAsync)
			r.Get("/summary/jobs/{job_id}", summaryHandler.PollJob)
		})
	})

	return r
}
