// Package openai implements the "hosted-a" generation backend against the
// OpenAI chat completion API.
package openai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/carelog/summary-api/internal/config"
	"github.com/carelog/summary-api/internal/generation"
	openai "github.com/sashabaranov/go-openai"
)

// systemMessage frames every completion request.
const systemMessage = "You are a medical assistant that creates clear, accurate patient summaries."

// Generator calls the OpenAI chat completion API.
type Generator struct {
	client *openai.Client
	cfg    config.OpenAIConfig
	logger *slog.Logger
}

// NewGenerator creates a Generator from the hosted-a configuration.
// An API key is required; BaseURL may point at a compatible proxy.
func NewGenerator(cfg config.OpenAIConfig, logger *slog.Logger) (*Generator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("openai model is required")
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout()}

	return &Generator{
		client: openai.NewClientWithConfig(clientCfg),
		cfg:    cfg,
		logger: logger.With(slog.String("backend", "hosted-a")),
	}, nil
}

// Name returns the backend variant name.
func (g *Generator) Name() string {
	return config.BackendHostedA
}

// Generate sends one chat completion request. The token budget is derived
// from the requested character limit.
func (g *Generator) Generate(ctx context.Context, prompt string, maxLength int) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemMessage},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: g.cfg.Temperature,
		TopP:        g.cfg.TopP,
		MaxTokens:   maxLength / 2,
	})
	if err != nil {
		genErr := classify(err)
		g.logger.WarnContext(ctx, "openai request failed",
			slog.String("kind", string(genErr.Kind)),
			slog.String("error", err.Error()))
		return "", genErr
	}

	if len(resp.Choices) == 0 {
		return "", generation.NewError(generation.FailureMalformedResponse, "response has no choices", nil)
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", generation.NewError(generation.FailureMalformedResponse, "empty response text", nil)
	}
	return text, nil
}

// classify maps go-openai errors onto failure kinds. API and request
// errors carry the HTTP status; anything else is a transport failure.
func classify(err error) *generation.Error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return generation.ClassifyStatus(apiErr.HTTPStatusCode)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return generation.ClassifyStatus(reqErr.HTTPStatusCode)
	}

	return generation.ClassifyTransport(err)
}
