package platform

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/carelog/summary-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backendConfig(name string) config.BackendConfig {
	return config.BackendConfig{
		Name: name,
		Ollama: config.OllamaConfig{
			URL:            "http://localhost:11434",
			Model:          "llama3.2",
			TimeoutSeconds: 5,
		},
		OpenAI: config.OpenAIConfig{
			APIKey:         "test-key",
			Model:          "gpt-4o-mini",
			TimeoutSeconds: 5,
		},
		Gemini: config.GeminiConfig{
			APIKey:         "test-key",
			Model:          "gemini-2.0-flash",
			TimeoutSeconds: 5,
		},
	}
}

func TestNewGeneratorVariants(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	for _, name := range []string{config.BackendLocal, config.BackendHostedA, config.BackendHostedB} {
		t.Run(name, func(t *testing.T) {
			gen, err := NewGenerator(context.Background(), backendConfig(name), logger)
			require.NoError(t, err)
			assert.Equal(t, name, gen.Name())
		})
	}
}

func TestNewGeneratorUnknownBackend(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	_, err := NewGenerator(context.Background(), backendConfig("hosted-c"), logger)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown backend")
}
