// Package llm wraps the Groq OpenAI-compatible completion API behind
// the plan generation contract.
package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/qwikplan/backend/pkg/logger"
	"github.com/qwikplan/backend/pkg/plan"
)

var (
	// ErrNotConfigured is returned when no API key is set
	ErrNotConfigured = errors.New("completion service not configured")
	// ErrUnavailable is returned when the provider is unreachable or timed out
	ErrUnavailable = errors.New("completion service unavailable")
	// ErrUpstreamRateLimited is returned when the provider itself reports
	// rate limiting, distinct from our own admission control
	ErrUpstreamRateLimited = errors.New("completion service rate limited")
)

// Config for the Groq client
type Config struct {
	APIKey      string
	BaseURL     string  // default: https://api.groq.com/openai/v1
	Model       string  // default: llama-3.1-8b-instant
	Temperature float32 // default: 1.0
	MaxTokens   int     // default: 2000
	Timeout     time.Duration
}

// GroqClient generates raw plan text from the completion API
type GroqClient struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	timeout     time.Duration
	configured  bool
	log         logger.Logger
}

// NewGroqClient creates a new Groq client
func NewGroqClient(cfg Config, log logger.Logger) *GroqClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.groq.com/openai/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "llama-3.1-8b-instant"
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 1.0
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 2000
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if log == nil {
		log = logger.Default()
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = cfg.BaseURL

	return &GroqClient{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		timeout:     cfg.Timeout,
		configured:  cfg.APIKey != "",
		log:         log,
	}
}

// Generate invokes the completion API with the strict plan prompt and
// returns the raw text of the first choice. The call is non-streamed,
// JSON-biased and bounded by the configured timeout.
func (c *GroqClient) Generate(ctx context.Context, req plan.Request) (string, error) {
	if !c.configured {
		return "", ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	chatReq := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildUserPrompt(req)},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, chatReq)
	duration := time.Since(start)

	if err != nil {
		classified := classifyError(err)
		c.log.Error("completion request failed",
			"model", c.model, "duration", duration.String(), "error", err)
		return "", classified
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty response", ErrUnavailable)
	}

	c.log.Info("completion request finished",
		"model", c.model, "tokens", resp.Usage.TotalTokens, "duration", duration.String())

	return resp.Choices[0].Message.Content, nil
}

// classifyError maps transport and provider failures onto the two
// outcomes the pipeline distinguishes
func classifyError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == 429 {
		return fmt.Errorf("%w: %v", ErrUpstreamRateLimited, err)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode == 429 {
		return fmt.Errorf("%w: %v", ErrUpstreamRateLimited, err)
	}

	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
