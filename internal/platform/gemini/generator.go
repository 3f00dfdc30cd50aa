// Package gemini implements the "hosted-b" generation backend against the
// Google Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/carelog/summary-api/internal/config"
	"github.com/carelog/summary-api/internal/generation"
	"google.golang.org/genai"
)

// systemInstruction frames every completion request.
const systemInstruction = "You are a medical assistant that creates clear, accurate patient summaries."

// Generator calls the Gemini API.
type Generator struct {
	client *genai.Client
	cfg    config.GeminiConfig
	logger *slog.Logger
}

// NewGenerator creates a Generator from the hosted-b configuration.
func NewGenerator(ctx context.Context, cfg config.GeminiConfig, logger *slog.Logger) (*Generator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("gemini model is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: cfg.Timeout()},
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &Generator{
		client: client,
		cfg:    cfg,
		logger: logger.With(slog.String("backend", "hosted-b")),
	}, nil
}

// Name returns the backend variant name.
func (g *Generator) Name() string {
	return config.BackendHostedB
}

// Generate sends one non-streaming content request. The token budget is
// derived from the requested character limit.
func (g *Generator) Generate(ctx context.Context, prompt string, maxLength int) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.cfg.Model, genai.Text(prompt),
		&genai.GenerateContentConfig{
			Temperature:       genai.Ptr(g.cfg.Temperature),
			TopP:              genai.Ptr(g.cfg.TopP),
			MaxOutputTokens:   int32(maxLength / 2),
			SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
		})
	if err != nil {
		genErr := classify(err)
		g.logger.WarnContext(ctx, "gemini request failed",
			slog.String("kind", string(genErr.Kind)),
			slog.String("error", err.Error()))
		return "", genErr
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return "", generation.NewError(generation.FailureMalformedResponse, "response has no candidates", nil)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", generation.NewError(generation.FailureMalformedResponse, "empty response text", nil)
	}
	return text, nil
}

// classify maps genai errors onto failure kinds. API errors carry the HTTP
// status code; anything else is a transport failure.
func classify(err error) *generation.Error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return generation.ClassifyStatus(apiErr.Code)
	}
	return generation.ClassifyTransport(err)
}
