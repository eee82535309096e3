package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maadv/parecer/internal/models"
)

type fakeRenderer struct {
	renderErr error
	lastReq   *models.DocumentRequest
}

func (f *fakeRenderer) Render(req *models.DocumentRequest) ([]byte, error) {
	f.lastReq = req
	if f.renderErr != nil {
		return nil, f.renderErr
	}
	return []byte("%PDF-1.4 fake"), nil
}

func (f *fakeRenderer) ContentType() string { return "application/pdf" }
func (f *fakeRenderer) Filename() string    { return "peca_processual.pdf" }

func TestGerarDocumentoHandler(t *testing.T) {
	renderer := &fakeRenderer{}
	handler := NewDocumentHandler(renderer)

	payload := `{
		"texto_peca": "EXCELENTISSIMO SENHOR DOUTOR JUIZ",
		"advogado_nome": "Maria Silva",
		"advogado_oab": "SP 123456",
		"advogado_endereco": "Av. Paulista, 1000"
	}`
	req := httptest.NewRequest(http.MethodPost, "/gerar_documento", strings.NewReader(payload))
	rec := httptest.NewRecorder()

	handler.GerarDocumentoHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "peca_processual.pdf")
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))

	require.NotNil(t, renderer.lastReq)
	assert.Equal(t, "Maria Silva", renderer.lastReq.AdvogadoNome)
}

func TestGerarDocumentoHandler_MissingText(t *testing.T) {
	handler := NewDocumentHandler(&fakeRenderer{})

	req := httptest.NewRequest(http.MethodPost, "/gerar_documento", strings.NewReader(`{"advogado_nome": "Maria"}`))
	rec := httptest.NewRecorder()

	handler.GerarDocumentoHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGerarDocumentoHandler_InvalidJSON(t *testing.T) {
	handler := NewDocumentHandler(&fakeRenderer{})

	req := httptest.NewRequest(http.MethodPost, "/gerar_documento", strings.NewReader("texto_peca=oi"))
	rec := httptest.NewRecorder()

	handler.GerarDocumentoHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGerarDocumentoHandler_RenderFailure(t *testing.T) {
	handler := NewDocumentHandler(&fakeRenderer{renderErr: fmt.Errorf("font missing")})

	req := httptest.NewRequest(http.MethodPost, "/gerar_documento", strings.NewReader(`{"texto_peca": "texto"}`))
	rec := httptest.NewRecorder()

	handler.GerarDocumentoHandler(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestGerarDocumentoHandler_RejectsWrongMethod(t *testing.T) {
	handler := NewDocumentHandler(&fakeRenderer{})

	req := httptest.NewRequest(http.MethodGet, "/gerar_documento", nil)
	rec := httptest.NewRecorder()

	handler.GerarDocumentoHandler(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
