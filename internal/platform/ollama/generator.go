// Package ollama implements the "local" generation backend against a
// self-hosted Ollama instance.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/carelog/summary-api/internal/config"
	"github.com/carelog/summary-api/internal/generation"
)

// generateRequest is the JSON body for POST /api/generate.
type generateRequest struct {
	Model   string  `json:"model"`
	Prompt  string  `json:"prompt"`
	Stream  bool    `json:"stream"`
	Options options `json:"options"`
}

// options carries the sampling parameters Ollama accepts per request.
type options struct {
	Temperature float32 `json:"temperature"`
	TopP        float32 `json:"top_p"`
	TopK        int     `json:"top_k,omitempty"`
	NumCtx      int     `json:"num_ctx,omitempty"`
	NumPredict  int     `json:"num_predict"`
}

// generateResponse is the JSON returned by POST /api/generate when
// stream is false.
type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// Generator calls a local Ollama instance over HTTP.
type Generator struct {
	baseURL    string
	cfg        config.OllamaConfig
	httpClient *http.Client
	logger     *slog.Logger
}

// NewGenerator creates a Generator targeting the configured Ollama base URL.
func NewGenerator(cfg config.OllamaConfig, logger *slog.Logger) (*Generator, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("ollama URL is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("ollama model is required")
	}

	return &Generator{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		cfg:     cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout(),
		},
		logger: logger.With(slog.String("backend", "local")),
	}, nil
}

// Name returns the backend variant name.
func (g *Generator) Name() string {
	return config.BackendLocal
}

// Generate sends one non-streaming completion request to /api/generate.
// When num_predict is not configured, the token budget is derived from
// maxLength.
func (g *Generator) Generate(ctx context.Context, prompt string, maxLength int) (string, error) {
	numPredict := g.cfg.NumPredict
	if numPredict == 0 {
		numPredict = maxLength / 2
	}

	body, err := json.Marshal(generateRequest{
		Model:  g.cfg.Model,
		Prompt: prompt,
		Stream: false,
		Options: options{
			Temperature: g.cfg.Temperature,
			TopP:        g.cfg.TopP,
			TopK:        g.cfg.TopK,
			NumCtx:      g.cfg.NumCtx,
			NumPredict:  numPredict,
		},
	})
	if err != nil {
		return "", generation.NewError(generation.FailureMalformedResponse, "encoding request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", generation.NewError(generation.FailureUnreachable, "creating request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		genErr := generation.ClassifyTransport(err)
		g.logger.WarnContext(ctx, "ollama request failed",
			slog.String("kind", string(genErr.Kind)),
			slog.String("error", err.Error()))
		return "", genErr
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		genErr := generation.ClassifyStatus(resp.StatusCode)
		g.logger.WarnContext(ctx, "ollama returned non-OK status",
			slog.Int("status", resp.StatusCode),
			slog.String("kind", string(genErr.Kind)))
		return "", genErr
	}

	var gr generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return "", generation.NewError(generation.FailureMalformedResponse, "decoding response", err)
	}

	text := strings.TrimSpace(gr.Response)
	if text == "" {
		return "", generation.NewError(generation.FailureMalformedResponse, "empty response text", nil)
	}
	return text, nil
}
