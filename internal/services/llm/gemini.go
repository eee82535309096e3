package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/maadv/parecer/internal/common"
	"github.com/maadv/parecer/internal/interfaces"
)

// GeminiProvider generates legal analyses through the Gemini API.
// Supports media attachments through the Files API: uploads are
// polled until the remote copy finishes processing.
type GeminiProvider struct {
	config      *common.GeminiConfig
	logger      arbor.ILogger
	client      *genai.Client
	limiter     *rate.Limiter
	timeout     time.Duration
	pollEvery   time.Duration
	pollTimeout time.Duration
}

// NewGeminiProvider creates a Gemini provider. An empty apiKey falls
// back to the configured key; a missing key is an error surfaced at
// dispatch, not at startup.
func NewGeminiProvider(ctx context.Context, config *common.GeminiConfig, apiKey string, logger arbor.ILogger) (*GeminiProvider, error) {
	if apiKey == "" {
		apiKey = config.APIKey
	}
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required (set PARECER_GEMINI_API_KEY or gemini.api_key in config)")
	}

	timeout, err := time.ParseDuration(config.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid timeout duration '%s': %w", config.Timeout, err)
	}
	interval, err := time.ParseDuration(config.RateLimit)
	if err != nil {
		return nil, fmt.Errorf("invalid rate limit duration '%s': %w", config.RateLimit, err)
	}
	pollEvery, err := time.ParseDuration(config.FilePollEvery)
	if err != nil {
		return nil, fmt.Errorf("invalid file poll interval '%s': %w", config.FilePollEvery, err)
	}
	pollTimeout, err := time.ParseDuration(config.FilePollTimeout)
	if err != nil {
		return nil, fmt.Errorf("invalid file poll timeout '%s': %w", config.FilePollTimeout, err)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	logger.Debug().
		Str("model", config.Model).
		Dur("timeout", timeout).
		Dur("rate_limit", interval).
		Bool("search_grounding", config.SearchGrounding).
		Msg("Gemini provider initialized")

	return &GeminiProvider{
		config:      config,
		logger:      logger,
		client:      client,
		limiter:     rate.NewLimiter(rate.Every(interval), 1),
		timeout:     timeout,
		pollEvery:   pollEvery,
		pollTimeout: pollTimeout,
	}, nil
}

// Name returns the provider identifier
func (p *GeminiProvider) Name() string {
	return "gemini"
}

// Model returns the configured model identifier
func (p *GeminiProvider) Model() string {
	return p.config.Model
}

// SupportsFiles reports that Gemini accepts media uploads
func (p *GeminiProvider) SupportsFiles() bool {
	return true
}

// GenerateContent runs one generation call with rate limiting and
// rate-limit-aware retries
func (p *GeminiProvider) GenerateContent(ctx context.Context, req *interfaces.ContentRequest) (*interfaces.ContentResponse, error) {
	if req.Prompt == "" {
		return nil, fmt.Errorf("prompt cannot be empty")
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	parts := make([]*genai.Part, 0, len(req.Files)+1)
	for _, file := range req.Files {
		parts = append(parts, genai.NewPartFromURI(file.URI, file.MIMEType))
	}
	parts = append(parts, genai.NewPartFromText(req.Prompt))

	contents := []*genai.Content{{
		Role:  genai.RoleUser,
		Parts: parts,
	}}

	temp := p.config.Temperature
	if req.Temperature != nil {
		temp = *req.Temperature
	}

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(temp),
	}
	if req.SystemPrompt != "" {
		config.SystemInstruction = genai.NewContentFromText(req.SystemPrompt, genai.RoleUser)
	}

	// The search tool and enforced JSON output are mutually exclusive:
	// with grounding on, the prompt carries the output contract and the
	// decoder repairs any drift
	if p.config.SearchGrounding {
		config.Tools = []*genai.Tool{
			{GoogleSearch: &genai.GoogleSearch{}},
		}
	} else {
		config.ResponseMIMEType = "application/json"
	}

	startTime := time.Now()
	p.logger.Debug().
		Str("model", p.config.Model).
		Int("prompt_length", len(req.Prompt)).
		Int("file_count", len(req.Files)).
		Msg("Starting Gemini generation")

	if err := p.limiter.Wait(timeoutCtx); err != nil {
		return nil, fmt.Errorf("rate limiter wait failed: %w", err)
	}

	var resp *genai.GenerateContentResponse
	var apiErr error
	retryConfig := NewDefaultRetryConfig()

	for attempt := 0; attempt <= retryConfig.MaxRetries; attempt++ {
		resp, apiErr = p.client.Models.GenerateContent(timeoutCtx, p.config.Model, contents, config)
		if apiErr == nil {
			break
		}

		if attempt == retryConfig.MaxRetries {
			break
		}

		var backoff time.Duration
		if IsRateLimitError(apiErr) {
			apiDelay := ExtractRetryDelay(apiErr)
			backoff = retryConfig.CalculateBackoff(attempt, apiDelay)
		} else {
			backoff = time.Duration(attempt+1) * 2 * time.Second
		}

		p.logger.Warn().
			Int("attempt", attempt+1).
			Dur("backoff", backoff).
			Err(apiErr).
			Msg("Retrying Gemini API call")

		select {
		case <-timeoutCtx.Done():
			return nil, timeoutCtx.Err()
		case <-time.After(backoff):
		}
	}

	if apiErr != nil {
		return nil, fmt.Errorf("Gemini API call failed after %d retries: %w", retryConfig.MaxRetries, apiErr)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("empty response from Gemini API")
	}
	responseText := resp.Text()
	if responseText == "" {
		return nil, fmt.Errorf("empty text in Gemini response")
	}

	p.logger.Info().
		Str("model", p.config.Model).
		Int("response_length", len(responseText)).
		Dur("duration", time.Since(startTime)).
		Msg("Gemini generation completed")

	return &interfaces.ContentResponse{
		Text:     responseText,
		Provider: "gemini",
		Model:    p.config.Model,
	}, nil
}

// UploadFile pushes a local file to the Gemini Files API and polls
// until the remote copy leaves the processing state
func (p *GeminiProvider) UploadFile(ctx context.Context, path, mimeType string) (*interfaces.FileRef, error) {
	p.logger.Debug().
		Str("path", path).
		Str("mime_type", mimeType).
		Msg("Uploading file to Gemini")

	file, err := p.client.Files.UploadFromPath(ctx, path, &genai.UploadFileConfig{
		MIMEType: mimeType,
	})
	if err != nil {
		return nil, fmt.Errorf("file upload failed: %w", err)
	}

	file, err = p.waitForFileActive(ctx, file)
	if err != nil {
		// Remote copy exists but is unusable, drop it
		if delErr := p.deleteByName(ctx, file.Name); delErr != nil {
			p.logger.Warn().Err(delErr).Str("file", file.Name).Msg("Failed to delete unusable upload")
		}
		return nil, err
	}

	p.logger.Debug().
		Str("file", file.Name).
		Str("uri", file.URI).
		Msg("File active on Gemini")

	return &interfaces.FileRef{
		Name:     file.Name,
		URI:      file.URI,
		MIMEType: mimeType,
	}, nil
}

// waitForFileActive polls the remote file state until it is ready for
// generation. Audio and video uploads stay in processing for a while
// after the bytes land.
func (p *GeminiProvider) waitForFileActive(ctx context.Context, file *genai.File) (*genai.File, error) {
	deadline := time.Now().Add(p.pollTimeout)
	ticker := time.NewTicker(p.pollEvery)
	defer ticker.Stop()

	for {
		switch file.State {
		case genai.FileStateActive:
			return file, nil
		case genai.FileStateFailed:
			return file, fmt.Errorf("remote processing failed for file %s", file.Name)
		}

		if time.Now().After(deadline) {
			return file, fmt.Errorf("timed out waiting for file %s to become active", file.Name)
		}

		select {
		case <-ctx.Done():
			return file, ctx.Err()
		case <-ticker.C:
		}

		updated, err := p.client.Files.Get(ctx, file.Name, nil)
		if err != nil {
			return file, fmt.Errorf("failed to poll file state: %w", err)
		}
		file = updated
	}
}

// DeleteFile removes a provider-side upload
func (p *GeminiProvider) DeleteFile(ctx context.Context, ref *interfaces.FileRef) error {
	if ref == nil || ref.Name == "" {
		return nil
	}
	return p.deleteByName(ctx, ref.Name)
}

func (p *GeminiProvider) deleteByName(ctx context.Context, name string) error {
	if _, err := p.client.Files.Delete(ctx, name, nil); err != nil {
		return fmt.Errorf("failed to delete remote file %s: %w", name, err)
	}
	return nil
}
