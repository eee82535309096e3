package interfaces

import (
	"context"

	"github.com/maadv/parecer/internal/models"
)

// MediaNormalizer prepares audio and video attachments for provider
// upload. Oversized files are re-encoded to a smaller temp file;
// files already within bounds pass through untouched.
type MediaNormalizer interface {
	// Normalize returns the attachment ready for upload. When a new
	// temp file was produced, the returned attachment points at it and
	// the caller owns its cleanup.
	Normalize(ctx context.Context, att *models.Attachment) (*models.Attachment, error)

	// Available reports whether the encoder binary can be invoked
	Available() bool
}
