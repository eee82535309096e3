package interfaces

import (
	"context"
)

// FileRef identifies a file uploaded to a provider's file store
type FileRef struct {
	// Name is the provider-side handle used for polling and deletion
	Name string
	// URI is the reference embedded in generation requests
	URI string
	// MIMEType is the declared content type of the upload
	MIMEType string
}

// ContentRequest describes one generation call
type ContentRequest struct {
	// SystemPrompt carries role and output-contract instructions
	SystemPrompt string
	// Prompt is the user-facing content: facts, extracted documents
	Prompt string
	// Files are provider-side uploads attached to the prompt
	Files []FileRef
	// Temperature overrides the provider default when non-nil
	Temperature *float32
}

// ContentResponse is the raw provider output before decoding
type ContentResponse struct {
	Text     string
	Provider string
	Model    string
}

// LLMProvider generates analysis content from a composed request.
// Implementations own rate limiting and transient-error retries;
// callers treat a returned error as terminal for the job.
type LLMProvider interface {
	// GenerateContent runs one generation call and returns the raw text
	GenerateContent(ctx context.Context, req *ContentRequest) (*ContentResponse, error)

	// UploadFile pushes a local file to the provider's file store and
	// blocks until the remote copy is ready for generation
	UploadFile(ctx context.Context, path, mimeType string) (*FileRef, error)

	// DeleteFile removes a provider-side upload. Best effort: callers
	// log failures and move on.
	DeleteFile(ctx context.Context, ref *FileRef) error

	// SupportsFiles reports whether the provider accepts media uploads
	SupportsFiles() bool

	// Name returns the provider identifier ("gemini", "claude")
	Name() string

	// Model returns the configured model identifier
	Model() string
}
