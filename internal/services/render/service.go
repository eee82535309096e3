package render

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/ternarybob/arbor"

	"github.com/maadv/parecer/internal/interfaces"
	"github.com/maadv/parecer/internal/models"
)

// Layout constants for the A4 legal document
const (
	bodyFontSize    = 12.0
	headerFontSize  = 14.0
	infoFontSize    = 9.0
	lineHeight      = 7.0
	firstLineIndent = 12.0
	paragraphGap    = 2.0
)

// pinnedDate keeps output byte-identical for equal input: fpdf embeds
// the creation date in the document trailer
var pinnedDate = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// Service renders legal drafts to PDF documents
type Service struct {
	logger arbor.ILogger
}

// Compile-time assertion
var _ interfaces.DocumentRenderer = (*Service)(nil)

// NewService creates a new document render service
func NewService(logger arbor.ILogger) *Service {
	return &Service{
		logger: logger,
	}
}

// ContentType returns the PDF MIME type
func (s *Service) ContentType() string {
	return "application/pdf"
}

// Filename returns the suggested download filename
func (s *Service) Filename() string {
	return "peca_processual.pdf"
}

// Render produces the formatted document: an optional centered signer
// letterhead, then the draft body as justified paragraphs with a
// first-line indent. Empty lines in the draft separate paragraphs.
func (s *Service) Render(req *models.DocumentRequest) ([]byte, error) {
	if strings.TrimSpace(req.TextoPeca) == "" {
		return nil, fmt.Errorf("texto_peca cannot be empty")
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(pinnedDate)
	pdf.SetModificationDate(pinnedDate)
	pdf.SetTitle("Peca Processual", true)
	pdf.SetMargins(25, 25, 25)
	pdf.SetAutoPageBreak(true, 25)
	pdf.AddPage()

	// Core fonts are cp1252, Portuguese text needs translation
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	if strings.TrimSpace(req.AdvogadoNome) != "" {
		s.writeLetterhead(pdf, tr, req)
	}

	pdf.SetFont("Arial", "", bodyFontSize)
	for _, paragraph := range strings.Split(req.TextoPeca, "\n") {
		paragraph = strings.TrimSpace(paragraph)
		if paragraph == "" {
			continue
		}
		s.writeParagraph(pdf, tr(paragraph))
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		s.logger.Error().Err(err).Msg("Failed to generate PDF output")
		return nil, fmt.Errorf("failed to generate PDF output: %w", err)
	}

	s.logger.Debug().
		Int("pdf_size", buf.Len()).
		Bool("letterhead", req.AdvogadoNome != "").
		Msg("Document rendered")

	return buf.Bytes(), nil
}

// writeLetterhead draws the centered signer block: name in uppercase
// bold, the OAB and contact line below, then a rule
func (s *Service) writeLetterhead(pdf *fpdf.Fpdf, tr func(string) string, req *models.DocumentRequest) {
	pdf.SetFont("Arial", "B", headerFontSize)
	pdf.CellFormat(0, 8, tr(strings.ToUpper(strings.TrimSpace(req.AdvogadoNome))), "", 1, "C", false, 0, "")

	info := fmt.Sprintf("OAB: %s | %s", strings.TrimSpace(req.AdvogadoOAB), strings.TrimSpace(req.AdvogadoEndereco))
	pdf.SetFont("Arial", "I", infoFontSize)
	pdf.CellFormat(0, 5, tr(info), "", 1, "C", false, 0, "")

	pdf.Ln(2)
	left, _, right, _ := pdf.GetMargins()
	pageWidth, _ := pdf.GetPageSize()
	y := pdf.GetY()
	pdf.Line(left, y, pageWidth-right, y)
	pdf.Ln(8)
}

// writeParagraph renders one justified paragraph with a first-line
// indent. SplitText wraps the first line at the reduced width, the
// remainder flows at full width.
func (s *Service) writeParagraph(pdf *fpdf.Fpdf, text string) {
	left, _, right, _ := pdf.GetMargins()
	pageWidth, _ := pdf.GetPageSize()
	usable := pageWidth - left - right

	lines := pdf.SplitText(text, usable-firstLineIndent)
	if len(lines) == 0 {
		return
	}

	pdf.SetX(left + firstLineIndent)
	pdf.MultiCell(usable-firstLineIndent, lineHeight, lines[0], "", "J", false)
	if len(lines) > 1 {
		pdf.SetX(left)
		rest := strings.Join(lines[1:], " ")
		pdf.MultiCell(usable, lineHeight, rest, "", "J", false)
	}
	pdf.Ln(paragraphGap)
}
