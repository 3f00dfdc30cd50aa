package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carelog/summary-api/internal/api/shared"
	"github.com/carelog/summary-api/internal/platform/logger"
)

func TestTraceAttachesContextLogger(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	var traceID string
	handler := Trace(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID = shared.GetTraceID(r.Context())
		logger.FromContext(r.Context()).Info("handled")
	}))

	req := httptest.NewRequest(http.MethodGet, "/patients", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	require.NotEmpty(t, traceID)
	assert.Contains(t, buf.String(), "request started")
	assert.Contains(t, buf.String(), "handled")

	// Both lines carry the trace ID via the request-scoped logger.
	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		assert.Contains(t, string(line), traceID)
	}
}

func TestTraceGeneratesDistinctIDs(t *testing.T) {
	base := slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil))

	seen := map[string]bool{}
	handler := Trace(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen[shared.GetTraceID(r.Context())] = true
	}))

	for i := 0; i < 5; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	}
	assert.Len(t, seen, 5)
}
