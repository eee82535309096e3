package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/maadv/parecer/internal/models"
)

func TestBuildSystemPrompt(t *testing.T) {
	prompt := BuildSystemPrompt("Direito do Consumidor", true)

	assert.Contains(t, prompt, "Direito do Consumidor")
	assert.Contains(t, prompt, "Português do Brasil")
	assert.Contains(t, prompt, "Google Search")
	assert.Contains(t, prompt, "resumo_estrategico")
	assert.Contains(t, prompt, "base_legal")
	assert.Contains(t, prompt, "jurisprudencia")
	assert.Contains(t, prompt, "doutrina")
	assert.Contains(t, prompt, "linha_do_tempo")
	assert.Contains(t, prompt, "peca_processual")
}

func TestBuildSystemPrompt_NoSearch(t *testing.T) {
	prompt := BuildSystemPrompt("Direito Penal", false)

	assert.NotContains(t, prompt, "Google Search")
	assert.Contains(t, prompt, "NÃO invente")
}

func TestBuildUserPrompt(t *testing.T) {
	req := &models.AnalysisRequest{FatosDoCaso: "O autor comprou um veículo com defeito."}
	prompt := BuildUserPrompt(req, "--- inicial.pdf ---\nconteudo", 0)

	assert.Contains(t, prompt, "DOCUMENTOS DO PROCESSO")
	assert.Contains(t, prompt, "inicial.pdf")
	assert.Contains(t, prompt, "FATOS DO CASO:")
	assert.Contains(t, prompt, "O autor comprou um veículo com defeito.")
	assert.NotContains(t, prompt, "MÍDIA")
	assert.NotContains(t, prompt, "CONTEXTO PROCESSUAL")
}

func TestBuildUserPrompt_NoDocuments(t *testing.T) {
	prompt := BuildUserPrompt(&models.AnalysisRequest{FatosDoCaso: "fatos"}, "   ", 0)

	assert.NotContains(t, prompt, "DOCUMENTOS DO PROCESSO")
	assert.Contains(t, prompt, "FATOS DO CASO:")
}

func TestBuildUserPrompt_WithMedia(t *testing.T) {
	prompt := BuildUserPrompt(&models.AnalysisRequest{FatosDoCaso: "fatos"}, "", 2)

	assert.Contains(t, prompt, "ARQUIVOS DE MÍDIA ANEXADOS: 2")
	assert.Contains(t, prompt, "Transcreva")
}

func TestBuildUserPrompt_CourtContext(t *testing.T) {
	req := &models.AnalysisRequest{
		FatosDoCaso: "fatos",
		Juiz:        "Dr. João Pereira",
		Tribunal:    "TJSP",
	}
	prompt := BuildUserPrompt(req, "", 0)

	assert.Contains(t, prompt, "CONTEXTO PROCESSUAL")
	assert.Contains(t, prompt, "Tribunal: TJSP")
	assert.Contains(t, prompt, "Dr. João Pereira")
}
