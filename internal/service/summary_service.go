package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/carelog/summary-api/internal/config"
	"github.com/carelog/summary-api/internal/domain"
	"github.com/carelog/summary-api/internal/generation"
	"github.com/carelog/summary-api/internal/prompt"
	"github.com/carelog/summary-api/internal/soap"
	"github.com/carelog/summary-api/internal/store"
	"github.com/google/uuid"
)

// GenerationMetrics receives instrumentation events from the orchestrator.
// The prometheus implementation lives in internal/metrics; tests use the
// no-op default.
type GenerationMetrics interface {
	// ObserveGeneration records one backend call's duration.
	ObserveGeneration(backend string, seconds float64)

	// CountFallback records one fall-through to the rule-based extractor.
	CountFallback(backend string, kind string)

	// CountSummary records one completed summary by audience and mode
	// ("backend", "fallback", or "empty" for patients with no notes).
	CountSummary(audience string, mode string)
}

// noopMetrics is used when no recorder is provided.
type noopMetrics struct{}

func (noopMetrics) ObserveGeneration(string, float64) {}
func (noopMetrics) CountFallback(string, string)      {}
func (noopMetrics) CountSummary(string, string)       {}

// SummaryService composes prompt construction, backend invocation, and the
// rule-based fallback into one summary result. It is stateless per call
// and safe for concurrent use.
type SummaryService struct {
	patients  store.PatientStore
	notes     store.NoteStore
	generator generation.Generator
	cfg       config.SummaryConfig
	metrics   GenerationMetrics
	logger    *slog.Logger
	now       func() time.Time
}

// NewSummaryService creates a SummaryService. metrics may be nil.
func NewSummaryService(
	patients store.PatientStore,
	notes store.NoteStore,
	generator generation.Generator,
	cfg config.SummaryConfig,
	metrics GenerationMetrics,
	logger *slog.Logger,
) *SummaryService {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &SummaryService{
		patients:  patients,
		notes:     notes,
		generator: generator,
		cfg:       cfg,
		metrics:   metrics,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Generate produces a summary for the given patient. It fails only for an
// unknown patient or an invalid request; every backend failure is absorbed
// by the fallback extractor so a valid request always yields a result.
func (s *SummaryService) Generate(
	ctx context.Context,
	patientID uuid.UUID,
	req domain.SummaryRequest,
) (*domain.SummaryResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	patient, err := s.patients.GetByID(ctx, patientID)
	if err != nil {
		return nil, wrapError("generate_summary", "loading patient", err)
	}

	notes, err := s.notes.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, wrapError("generate_summary", "loading notes", err)
	}

	now := s.now()
	heading := domain.PatientHeading{
		Name: patient.Name,
		Age:  patient.Age(now),
		MRN:  patient.MRN(),
	}

	if len(notes) == 0 {
		s.metrics.CountSummary(string(req.Audience), "empty")
		return &domain.SummaryResult{
			Heading:   heading,
			Summary:   truncate(fmt.Sprintf("No clinical notes available for %s.", patient.Name), req.MaxLength),
			NoteCount: 0,
		}, nil
	}

	text, genErr := s.generateWithRetry(ctx, prompt.Build(patient, notes, req, now), req.MaxLength)
	mode := "backend"
	if genErr != nil {
		kind := generation.KindOf(genErr)
		s.logger.WarnContext(ctx, "backend generation failed, using fallback",
			slog.String("backend", s.generator.Name()),
			slog.String("kind", string(kind)),
			slog.String("patient_id", patientID.String()))
		s.metrics.CountFallback(s.generator.Name(), string(kind))
		text = soap.Extract(notes, req.Audience, req.MaxLength)
		mode = "fallback"
	}

	s.metrics.CountSummary(string(req.Audience), mode)
	return &domain.SummaryResult{
		Heading:   heading,
		Summary:   truncate(text, req.MaxLength),
		NoteCount: len(notes),
	}, nil
}

// generateWithRetry calls the backend under the safety ceiling, retrying
// retryable failure kinds up to the configured attempt budget with a fixed
// delay between attempts.
func (s *SummaryService) generateWithRetry(ctx context.Context, promptText string, maxLength int) (string, error) {
	attempts := s.cfg.MaxRetries + 1

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, s.cfg.Ceiling())
		start := time.Now()
		text, err := s.generator.Generate(callCtx, promptText, maxLength)
		cancel()
		s.metrics.ObserveGeneration(s.generator.Name(), time.Since(start).Seconds())

		if err == nil {
			return text, nil
		}
		lastErr = err

		kind := generation.KindOf(err)
		s.logger.WarnContext(ctx, "backend attempt failed",
			slog.String("backend", s.generator.Name()),
			slog.String("kind", string(kind)),
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", attempts))

		if !kind.Retryable() || attempt == attempts {
			return "", err
		}

		select {
		case <-time.After(s.cfg.RetryDelay()):
		case <-ctx.Done():
			return "", generation.NewError(generation.FailureTimeout, "caller context done during retry wait", ctx.Err())
		}
	}

	return "", lastErr
}

// truncate caps text at maxLength bytes without splitting a multibyte
// rune at the cap.
func truncate(text string, maxLength int) string {
	if len(text) <= maxLength {
		return text
	}
	for maxLength > 0 && !utf8.RuneStart(text[maxLength]) {
		maxLength--
	}
	return strings.TrimSpace(text[:maxLength])
}
