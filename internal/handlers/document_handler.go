package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"

	"github.com/maadv/parecer/internal/common"
	"github.com/maadv/parecer/internal/interfaces"
	"github.com/maadv/parecer/internal/models"
)

// maxDocumentBytes bounds the document request body
const maxDocumentBytes = 10 << 20

type DocumentHandler struct {
	renderer interfaces.DocumentRenderer
	validate *validator.Validate
	logger   arbor.ILogger
}

func NewDocumentHandler(renderer interfaces.DocumentRenderer) *DocumentHandler {
	return &DocumentHandler{
		renderer: renderer,
		validate: validator.New(),
		logger:   common.GetLogger(),
	}
}

// GerarDocumentoHandler renders a legal draft into a downloadable
// document. Also mounted at the legacy /gerar_docx path.
func (h *DocumentHandler) GerarDocumentoHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxDocumentBytes)

	var req models.DocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if isBodyTooLarge(err) {
			WriteError(w, http.StatusRequestEntityTooLarge, "request body is too large")
			return
		}
		WriteError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	if err := h.validate.Struct(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "texto_peca is required")
		return
	}

	document, err := h.renderer.Render(&req)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to render document")
		WriteError(w, http.StatusInternalServerError, "failed to render document")
		return
	}

	w.Header().Set("Content-Type", h.renderer.ContentType())
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", h.renderer.Filename()))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(document)))
	w.WriteHeader(http.StatusOK)
	w.Write(document)
}
