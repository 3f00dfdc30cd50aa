package gemini

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/carelog/summary-api/internal/config"
	"github.com/carelog/summary-api/internal/generation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestNewGeneratorValidation(t *testing.T) {
	ctx := context.Background()

	_, err := NewGenerator(ctx, config.GeminiConfig{Model: "gemini-2.0-flash"}, discardLogger())
	assert.Error(t, err)

	_, err = NewGenerator(ctx, config.GeminiConfig{APIKey: "k"}, discardLogger())
	assert.Error(t, err)
}

func TestNewGeneratorName(t *testing.T) {
	gen, err := NewGenerator(context.Background(), config.GeminiConfig{
		APIKey:         "test-key",
		Model:          "gemini-2.0-flash",
		Temperature:    0.3,
		TopP:           1.0,
		TimeoutSeconds: 5,
	}, discardLogger())
	require.NoError(t, err)
	assert.Equal(t, "hosted-b", gen.Name())
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want generation.FailureKind
	}{
		{"forbidden", genai.APIError{Code: http.StatusForbidden, Message: "denied"}, generation.FailureAuth},
		{"rate limited", genai.APIError{Code: http.StatusTooManyRequests, Message: "quota"}, generation.FailureRateLimited},
		{"server error", genai.APIError{Code: http.StatusInternalServerError, Message: "boom"}, generation.FailureUnreachable},
		{"deadline", context.DeadlineExceeded, generation.FailureTimeout},
		{"plain error", assert.AnError, generation.FailureUnreachable},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, classify(tc.err).Kind)
		})
	}
}
