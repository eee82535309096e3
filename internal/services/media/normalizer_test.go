package media

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maadv/parecer/internal/common"
	"github.com/maadv/parecer/internal/models"
)

type fakeRunner struct {
	called bool
	args   []string
	output string
	err    error
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) error {
	f.called = true
	f.args = args
	if f.err != nil {
		return f.err
	}
	// Last arg is the output path
	return os.WriteFile(args[len(args)-1], []byte(f.output), 0644)
}

func newTestNormalizer(t *testing.T, maxBytes int64) (*Normalizer, *fakeRunner) {
	t.Helper()
	runner := &fakeRunner{output: "encoded"}
	n := NewNormalizer(&common.MediaConfig{
		FFmpegPath:     "true", // always on PATH, keeps Available() honest
		MaxUploadBytes: maxBytes,
	}, t.TempDir(), common.GetLogger())
	n.runner = runner
	return n, runner
}

func writeTempMedia(t *testing.T, size int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "upload_123.bin")
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0644))
	return path
}

func TestNormalize_PassthroughPDF(t *testing.T) {
	n, runner := newTestNormalizer(t, 10)

	att := &models.Attachment{Filename: "inicial.pdf", Kind: models.AttachmentPDF, Size: 100}
	out, err := n.Normalize(context.Background(), att)
	require.NoError(t, err)
	assert.Same(t, att, out)
	assert.False(t, runner.called)
}

func TestNormalize_PassthroughUnderLimit(t *testing.T) {
	n, runner := newTestNormalizer(t, 1024)

	att := &models.Attachment{Filename: "audio.mp3", Kind: models.AttachmentAudio, Size: 512}
	out, err := n.Normalize(context.Background(), att)
	require.NoError(t, err)
	assert.Same(t, att, out)
	assert.False(t, runner.called)
}

func TestNormalize_ReencodesOversizedAudio(t *testing.T) {
	n, runner := newTestNormalizer(t, 10)

	path := writeTempMedia(t, 100)
	att := &models.Attachment{
		Filename: "audiencia.wav",
		Path:     path,
		Kind:     models.AttachmentAudio,
		Size:     100,
		MIMEType: "audio/wav",
	}

	out, err := n.Normalize(context.Background(), att)
	require.NoError(t, err)
	assert.True(t, runner.called)
	assert.NotEqual(t, att.Path, out.Path)
	assert.Equal(t, "audio/mpeg", out.MIMEType)
	assert.Equal(t, int64(len("encoded")), out.Size)
	assert.Contains(t, runner.args, "-ar")

	// Original attachment untouched
	assert.Equal(t, "audio/wav", att.MIMEType)
}

func TestNormalize_ReencodesOversizedVideo(t *testing.T) {
	n, runner := newTestNormalizer(t, 10)

	path := writeTempMedia(t, 100)
	att := &models.Attachment{
		Filename: "audiencia.mov",
		Path:     path,
		Kind:     models.AttachmentVideo,
		Size:     100,
	}

	out, err := n.Normalize(context.Background(), att)
	require.NoError(t, err)
	assert.Equal(t, "video/mp4", out.MIMEType)
	assert.Contains(t, runner.args, "scale=-2:480")
}

func TestNormalize_EncoderFailure(t *testing.T) {
	n, runner := newTestNormalizer(t, 10)
	runner.err = assert.AnError

	path := writeTempMedia(t, 100)
	att := &models.Attachment{Filename: "a.mp3", Path: path, Kind: models.AttachmentAudio, Size: 100}

	_, err := n.Normalize(context.Background(), att)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "media normalization failed")
}

func TestNormalize_FFmpegMissing(t *testing.T) {
	runner := &fakeRunner{}
	n := NewNormalizer(&common.MediaConfig{
		FFmpegPath:     "definitely-not-a-real-binary-xyz",
		MaxUploadBytes: 10,
	}, t.TempDir(), common.GetLogger())
	n.runner = runner

	att := &models.Attachment{Filename: "a.mp3", Kind: models.AttachmentAudio, Size: 100}
	out, err := n.Normalize(context.Background(), att)
	require.NoError(t, err)
	assert.Same(t, att, out)
	assert.False(t, runner.called)
	assert.False(t, n.Available())
}
