package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.CountSummary("clinician", "backend")
	m.CountSummary("clinician", "backend")
	m.CountSummary("family", "fallback")
	m.CountFallback("local", "unreachable")
	m.CountJob("pending")
	m.CountJob("completed")
	m.ObserveGeneration("local", 0.25)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.summaries.WithLabelValues("clinician", "backend")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.summaries.WithLabelValues("family", "fallback")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.fallbacks.WithLabelValues("local", "unreachable")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.jobs.WithLabelValues("pending")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.jobs.WithLabelValues("completed")))
}

func TestHTTPMiddlewareRecordsRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMiddleware(reg)

	router := chi.NewRouter()
	router.Use(m.Handler)
	router.Get("/patients/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/patients/123", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1),
		testutil.ToFloat64(m.requests.WithLabelValues("200", "GET", "/patients/{id}")))
}
