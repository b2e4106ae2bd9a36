// Package openai implements the answer generation provider on top of the
// OpenAI chat completions API.
package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/raglab/raglab-api/internal/domain"
	"github.com/raglab/raglab-api/internal/metrics"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gpt-4.1-mini"

const (
	systemPrompt = "You are a helpful AI assistant."
	promptPrefix = "Answer the following question clearly and concisely:\n\n"

	// Low temperature keeps answers deterministic enough for QA flows.
	temperature = 0.2
)

// Chat is an answer provider using the OpenAI chat completions API.
// When no API key is configured the client stays nil and every call
// fails fast without touching the network.
type Chat struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// Config holds the chat provider settings.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Logger  *zap.Logger
}

// NewChat creates an OpenAI chat provider.
func NewChat(cfg *Config) *Chat {
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	c := &Chat{
		model:  model,
		logger: cfg.Logger,
	}
	if cfg.APIKey != "" {
		clientCfg := openai.DefaultConfig(cfg.APIKey)
		if cfg.BaseURL != "" {
			clientCfg.BaseURL = cfg.BaseURL
		}
		c.client = openai.NewClientWithConfig(clientCfg)
	}
	return c
}

// Answer generates an answer for the query with transport-level metrics.
func (c *Chat) Answer(ctx context.Context, query string) (domain.ChatResult, error) {
	if c.client == nil {
		metrics.ChatRequestsTotal.WithLabelValues(c.model, "error").Inc()
		metrics.ChatErrorsTotal.WithLabelValues(c.model, "not_configured").Inc()
		return domain.ChatResult{}, domain.NewError(domain.CodeAIError, "OPENAI_API_KEY is not configured")
	}

	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: promptPrefix + query},
		},
		Temperature: temperature,
	}

	start := time.Now()

	resp, err := c.client.CreateChatCompletion(ctx, req)

	duration := time.Since(start)

	if err != nil {
		metrics.ChatRequestsTotal.WithLabelValues(c.model, "error").Inc()
		metrics.ChatErrorsTotal.WithLabelValues(c.model, "api_error").Inc()
		return domain.ChatResult{}, upstreamError(err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		metrics.ChatRequestsTotal.WithLabelValues(c.model, "error").Inc()
		metrics.ChatErrorsTotal.WithLabelValues(c.model, "empty_response").Inc()
		return domain.ChatResult{}, domain.NewError(domain.CodeAIError, "OpenAI response was invalid")
	}

	metrics.ChatRequestsTotal.WithLabelValues(c.model, "success").Inc()
	metrics.ChatRequestDuration.WithLabelValues(c.model).Observe(duration.Seconds())

	result := domain.ChatResult{
		Answer: strings.TrimSpace(resp.Choices[0].Message.Content),
		Model:  c.model,
	}

	if usage := resp.Usage; usage.TotalTokens > 0 {
		result.PromptTokens = intPtr(usage.PromptTokens)
		result.CompletionTokens = intPtr(usage.CompletionTokens)
		result.TotalTokens = intPtr(usage.TotalTokens)

		metrics.ChatTokensTotal.WithLabelValues(c.model, "prompt").Add(float64(usage.PromptTokens))
		metrics.ChatTokensTotal.WithLabelValues(c.model, "completion").Add(float64(usage.CompletionTokens))
		metrics.ChatTokensTotal.WithLabelValues(c.model, "total").Add(float64(usage.TotalTokens))
	}

	return result, nil
}

// upstreamError converts a client error into an AI_UPSTREAM_ERROR keeping
// a human-readable detail from the API response.
func upstreamError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return domain.NewError(domain.CodeAIUpstreamError,
			fmt.Sprintf("OpenAI request failed: %s", apiErr.Message)).WithCause(err)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return domain.NewError(domain.CodeAIUpstreamError,
			fmt.Sprintf("OpenAI request failed: status %d", reqErr.HTTPStatusCode)).WithCause(err)
	}

	return domain.NewError(domain.CodeAIUpstreamError,
		fmt.Sprintf("OpenAI request failed: %s", err.Error())).WithCause(err)
}

func intPtr(v int) *int { return &v }
