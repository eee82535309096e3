package media

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/ternarybob/arbor"

	"github.com/maadv/parecer/internal/common"
	"github.com/maadv/parecer/internal/interfaces"
	"github.com/maadv/parecer/internal/models"
)

// Normalizer re-encodes oversized audio and video attachments with
// ffmpeg before provider upload. Files within the size bound pass
// through untouched, as does everything when ffmpeg is missing:
// the provider then decides whether the original is acceptable.
type Normalizer struct {
	config  *common.MediaConfig
	logger  arbor.ILogger
	tempDir string
	runner  commandRunner
}

// commandRunner abstracts process execution for tests
type commandRunner interface {
	Run(ctx context.Context, name string, args ...string) error
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s failed: %w (stderr: %s)", name, err, truncate(stderr.String(), 300))
	}
	return nil
}

// Compile-time assertion
var _ interfaces.MediaNormalizer = (*Normalizer)(nil)

// NewNormalizer creates a media normalizer
func NewNormalizer(config *common.MediaConfig, tempDir string, logger arbor.ILogger) *Normalizer {
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	return &Normalizer{
		config:  config,
		logger:  logger,
		tempDir: tempDir,
		runner:  execRunner{},
	}
}

// Available reports whether the ffmpeg binary can be invoked
func (n *Normalizer) Available() bool {
	_, err := exec.LookPath(n.config.FFmpegPath)
	return err == nil
}

// Normalize returns the attachment ready for upload. Oversized audio
// is downmixed to mono 16kHz mp3; oversized video is scaled to 480p.
// The returned attachment points at a new temp file when re-encoding
// happened; the caller owns its cleanup.
func (n *Normalizer) Normalize(ctx context.Context, att *models.Attachment) (*models.Attachment, error) {
	if att.Kind != models.AttachmentAudio && att.Kind != models.AttachmentVideo {
		return att, nil
	}
	if att.Size <= n.config.MaxUploadBytes {
		return att, nil
	}
	if !n.Available() {
		n.logger.Warn().
			Str("filename", att.Filename).
			Int64("size", att.Size).
			Msg("ffmpeg unavailable, uploading oversized media as-is")
		return att, nil
	}

	var outPath string
	var args []string
	switch att.Kind {
	case models.AttachmentAudio:
		outPath = filepath.Join(n.tempDir, opaqueName(att.Path)+".mp3")
		args = []string{
			"-y", "-i", att.Path,
			"-vn", "-ac", "1", "-ar", "16000", "-b:a", "48k",
			outPath,
		}
	case models.AttachmentVideo:
		outPath = filepath.Join(n.tempDir, opaqueName(att.Path)+".mp4")
		args = []string{
			"-y", "-i", att.Path,
			"-vf", "scale=-2:480", "-b:v", "500k",
			"-ac", "1", "-b:a", "64k",
			outPath,
		}
	}

	n.logger.Debug().
		Str("filename", att.Filename).
		Int64("size", att.Size).
		Str("kind", string(att.Kind)).
		Msg("Re-encoding oversized media attachment")

	if err := n.runner.Run(ctx, n.config.FFmpegPath, args...); err != nil {
		os.Remove(outPath)
		return nil, fmt.Errorf("media normalization failed for %s: %w", att.Filename, err)
	}

	info, err := os.Stat(outPath)
	if err != nil {
		return nil, fmt.Errorf("normalized output missing for %s: %w", att.Filename, err)
	}

	n.logger.Info().
		Str("filename", att.Filename).
		Int64("original_size", att.Size).
		Int64("normalized_size", info.Size()).
		Msg("Media attachment normalized")

	normalized := *att
	normalized.Path = outPath
	normalized.Size = info.Size()
	if att.Kind == models.AttachmentAudio {
		normalized.MIMEType = "audio/mpeg"
	} else {
		normalized.MIMEType = "video/mp4"
	}
	return &normalized, nil
}

// opaqueName derives the re-encode output name from the temp input
// name, keeping client filenames off the filesystem
func opaqueName(inputPath string) string {
	base := filepath.Base(inputPath)
	if ext := filepath.Ext(base); ext != "" {
		base = base[:len(base)-len(ext)]
	}
	return base + "_norm"
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
