// Package platform wires external infrastructure: the generation backend
// variants, database access, and structured logging.
package platform

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/carelog/summary-api/internal/config"
	"github.com/carelog/summary-api/internal/generation"
	"github.com/carelog/summary-api/internal/platform/gemini"
	"github.com/carelog/summary-api/internal/platform/ollama"
	"github.com/carelog/summary-api/internal/platform/openai"
)

// NewGenerator constructs the generation backend named in cfg.Name.
// An unknown name is a configuration error; it surfaces here at startup,
// never at request time. No retry or fallback logic lives in this layer.
func NewGenerator(ctx context.Context, cfg config.BackendConfig, logger *slog.Logger) (generation.Generator, error) {
	switch cfg.Name {
	case config.BackendLocal:
		return ollama.NewGenerator(cfg.Ollama, logger)
	case config.BackendHostedA:
		return openai.NewGenerator(cfg.OpenAI, logger)
	case config.BackendHostedB:
		return gemini.NewGenerator(ctx, cfg.Gemini, logger)
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Name)
	}
}
