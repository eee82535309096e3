package interfaces

import (
	"github.com/maadv/parecer/internal/models"
)

// DocumentRenderer turns a legal draft into a formatted document.
// Rendering is pure: equal input yields byte-identical output.
type DocumentRenderer interface {
	// Render produces the document bytes for the given draft
	Render(req *models.DocumentRequest) ([]byte, error)

	// ContentType returns the MIME type of rendered output
	ContentType() string

	// Filename returns the suggested download filename
	Filename() string
}
