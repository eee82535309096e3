package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"github.com/maadv/parecer/internal/common"
	"github.com/maadv/parecer/internal/interfaces"
)

// ClaudeProvider generates legal analyses through the Anthropic API.
// Text-only: media attachments require a provider with a file store,
// so jobs carrying audio or video are routed to Gemini or rejected.
type ClaudeProvider struct {
	config  *common.ClaudeConfig
	logger  arbor.ILogger
	client  anthropic.Client
	limiter *rate.Limiter
}

// NewClaudeProvider creates a Claude provider. An empty apiKey falls
// back to the configured key.
func NewClaudeProvider(config *common.ClaudeConfig, apiKey string, logger arbor.ILogger) (*ClaudeProvider, error) {
	if apiKey == "" {
		apiKey = config.APIKey
	}
	if apiKey == "" {
		return nil, fmt.Errorf("Anthropic API key is required (set PARECER_CLAUDE_API_KEY or claude.api_key in config)")
	}

	interval, err := time.ParseDuration(config.RateLimit)
	if err != nil {
		return nil, fmt.Errorf("invalid rate limit duration '%s': %w", config.RateLimit, err)
	}

	client := anthropic.NewClient(
		option.WithAPIKey(apiKey),
	)

	logger.Debug().
		Str("model", config.Model).
		Int("max_tokens", config.MaxTokens).
		Msg("Claude provider initialized")

	return &ClaudeProvider{
		config:  config,
		logger:  logger,
		client:  client,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
	}, nil
}

// Name returns the provider identifier
func (p *ClaudeProvider) Name() string {
	return "claude"
}

// Model returns the configured model identifier
func (p *ClaudeProvider) Model() string {
	return p.config.Model
}

// SupportsFiles reports that Claude has no file store for media
func (p *ClaudeProvider) SupportsFiles() bool {
	return false
}

// GenerateContent runs one generation call with rate limiting and
// retries
func (p *ClaudeProvider) GenerateContent(ctx context.Context, req *interfaces.ContentRequest) (*interfaces.ContentResponse, error) {
	if req.Prompt == "" {
		return nil, fmt.Errorf("prompt cannot be empty")
	}
	if len(req.Files) > 0 {
		return nil, fmt.Errorf("claude provider does not accept media attachments")
	}

	temp := p.config.Temperature
	if req.Temperature != nil {
		temp = *req.Temperature
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.config.Model),
		MaxTokens: int64(p.config.MaxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	}
	if temp > 0 {
		params.Temperature = anthropic.Float(float64(temp))
	}
	if req.SystemPrompt != "" {
		params.System = []anthropic.TextBlockParam{
			{Text: req.SystemPrompt},
		}
	}

	startTime := time.Now()
	p.logger.Debug().
		Str("model", p.config.Model).
		Int("prompt_length", len(req.Prompt)).
		Msg("Starting Claude generation")

	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait failed: %w", err)
	}

	var resp *anthropic.Message
	var apiErr error
	retryConfig := NewDefaultRetryConfig()

	for attempt := 0; attempt <= retryConfig.MaxRetries; attempt++ {
		resp, apiErr = p.client.Messages.New(ctx, params)
		if apiErr == nil {
			break
		}

		if attempt == retryConfig.MaxRetries {
			break
		}

		backoff := time.Duration(attempt+1) * 2 * time.Second
		if IsRateLimitError(apiErr) {
			backoff = retryConfig.CalculateBackoff(attempt, 0)
		}

		p.logger.Warn().
			Int("attempt", attempt+1).
			Dur("backoff", backoff).
			Err(apiErr).
			Msg("Retrying Claude API call")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}

	if apiErr != nil {
		return nil, fmt.Errorf("Claude API call failed after %d retries: %w", retryConfig.MaxRetries, apiErr)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return nil, fmt.Errorf("empty response from Claude API")
	}

	p.logger.Info().
		Str("model", p.config.Model).
		Int("response_length", text.Len()).
		Dur("duration", time.Since(startTime)).
		Msg("Claude generation completed")

	return &interfaces.ContentResponse{
		Text:     text.String(),
		Provider: "claude",
		Model:    p.config.Model,
	}, nil
}

// UploadFile always fails: Claude has no file store
func (p *ClaudeProvider) UploadFile(ctx context.Context, path, mimeType string) (*interfaces.FileRef, error) {
	return nil, fmt.Errorf("claude provider does not support file uploads")
}

// DeleteFile is a no-op for Claude
func (p *ClaudeProvider) DeleteFile(ctx context.Context, ref *interfaces.FileRef) error {
	return nil
}
