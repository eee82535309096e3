// -----------------------------------------------------------------------
// PDF Extractor Service - Extract text content from PDF documents
// Uses pdfcpu for Go-native PDF processing
// -----------------------------------------------------------------------

package pdf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/ternarybob/arbor"

	"github.com/maadv/parecer/internal/interfaces"
)

// Extractor implements the PDFExtractor interface using pdfcpu.
// PDF attachments are turned into prompt text locally so they never
// leave the server as raw documents.
type Extractor struct {
	logger  arbor.ILogger
	tempDir string
}

// Compile-time interface assertion
var _ interfaces.PDFExtractor = (*Extractor)(nil)

// NewExtractor creates a new PDF extractor service
func NewExtractor(logger arbor.ILogger) *Extractor {
	tempDir := filepath.Join(os.TempDir(), "parecer-pdf")
	os.MkdirAll(tempDir, 0755)

	return &Extractor{
		logger:  logger,
		tempDir: tempDir,
	}
}

// ExtractText extracts all text from the PDF at path
func (e *Extractor) ExtractText(ctx context.Context, path string) (string, error) {
	conf := model.NewDefaultConfiguration()
	pdfCtx, err := api.ReadContextFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read PDF context: %w", err)
	}
	pageCount := pdfCtx.PageCount

	// pdfcpu extracts per-page content files into a directory
	outDir, err := os.MkdirTemp(e.tempDir, "pages_")
	if err != nil {
		return "", fmt.Errorf("failed to create extraction directory: %w", err)
	}
	defer os.RemoveAll(outDir)

	if err := api.ExtractContentFile(path, outDir, nil, conf); err != nil {
		return "", fmt.Errorf("failed to extract PDF content: %w", err)
	}

	files, _ := os.ReadDir(outDir)
	pageTexts := make(map[int]string)
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		content, err := os.ReadFile(filepath.Join(outDir, file.Name()))
		if err != nil {
			continue
		}
		var pageNum int
		if _, err := fmt.Sscanf(file.Name(), "Content_page_%d", &pageNum); err == nil {
			pageTexts[pageNum] = string(content)
		} else if _, err := fmt.Sscanf(file.Name(), "page_%d", &pageNum); err == nil {
			pageTexts[pageNum] = string(content)
		}
	}

	var fullText strings.Builder
	for pageNum := 1; pageNum <= pageCount; pageNum++ {
		text, ok := pageTexts[pageNum]
		if !ok {
			continue
		}
		if fullText.Len() > 0 {
			fullText.WriteString("\n\n--- Page ")
			fullText.WriteString(fmt.Sprintf("%d", pageNum))
			fullText.WriteString(" ---\n\n")
		}
		fullText.WriteString(text)
	}

	e.logger.Debug().
		Str("path", filepath.Base(path)).
		Int("page_count", pageCount).
		Int("text_length", fullText.Len()).
		Msg("Extracted PDF text")

	return fullText.String(), nil
}
