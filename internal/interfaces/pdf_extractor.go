package interfaces

import (
	"context"
)

// PDFExtractor extracts text content from PDF documents so it can be
// inlined into the analysis prompt instead of uploaded to the
// provider.
type PDFExtractor interface {
	// ExtractText extracts all text from the PDF at path.
	// Returns the concatenated text of all pages.
	ExtractText(ctx context.Context, path string) (string, error)
}
