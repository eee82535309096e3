package analysis

import (
	"fmt"
	"strings"

	"github.com/maadv/parecer/internal/models"
)

// Prompt assembly for the legal analysis call. The system prompt pins
// the persona, the language and the output contract; the user prompt
// carries extracted documents and the case facts.

const opinionSchema = `{
    "resumo_estrategico": "texto do resumo claro, direto e persuasivo",
    "base_legal": ["Artigo X da Lei Y: Explicação", "Artigo Z..."],
    "jurisprudencia": ["Tribunal (ex: STJ) - Tema/Súmula: Explicação", "TJSP..."],
    "doutrina": ["Nome do Autor: Resumo do entendimento", "Outro Autor..."],
    "linha_do_tempo": ["Data ou marco processual: Descrição do evento", "..."],
    "peca_processual": "Texto COMPLETO da peça processual com quebras de linha (\n)."
}`

// BuildSystemPrompt composes the persona and contract instructions
// for the given legal area. The search directive is only issued when
// the provider call actually carries the search tool.
func BuildSystemPrompt(areaDireito string, searchGrounding bool) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Você é um advogado sênior, jurista renomado e pesquisador especialista em %s no Brasil.\n", areaDireito)
	b.WriteString("Sua missão é atuar na ETAPA 1 de um caso: A Pesquisa e Análise Processual Estratégica.\n\n")
	b.WriteString("DIRETRIZES OBRIGATÓRIAS:\n")
	b.WriteString("1. Responda ESTRITAMENTE em Português do Brasil (PT-BR).\n")
	b.WriteString("2. Utilize vernáculo jurídico adequado, formal e profissional.\n")
	if searchGrounding {
		b.WriteString("3. Você TEM ACESSO À INTERNET através do Google Search. É OBRIGATÓRIO buscar jurisprudência real, atualizada e verídica. NÃO invente números.\n")
	} else {
		b.WriteString("3. Cite apenas jurisprudência real e consolidada. NÃO invente números de processos ou súmulas.\n")
	}
	b.WriteString("\nResponda EXCLUSIVAMENTE em formato JSON com a seguinte estrutura exata:\n")
	b.WriteString(opinionSchema)
	b.WriteString("\n")

	return b.String()
}

// BuildUserPrompt composes the case content: procedural context,
// extracted document text, a note for attached media, then the facts
func BuildUserPrompt(req *models.AnalysisRequest, documentText string, mediaCount int) string {
	var b strings.Builder

	if req.Tribunal != "" || req.Juiz != "" {
		b.WriteString("CONTEXTO PROCESSUAL:\n")
		if req.Tribunal != "" {
			fmt.Fprintf(&b, "Tribunal: %s\n", req.Tribunal)
		}
		if req.Juiz != "" {
			fmt.Fprintf(&b, "Juízo/Magistrado: %s\n", req.Juiz)
		}
		b.WriteString("\n")
	}

	if strings.TrimSpace(documentText) != "" {
		b.WriteString("--- DOCUMENTOS DO PROCESSO ---\n")
		b.WriteString(documentText)
		b.WriteString("\n--- FIM ---\n\n")
	}

	if mediaCount > 0 {
		fmt.Fprintf(&b, "ARQUIVOS DE MÍDIA ANEXADOS: %d arquivo(s) de áudio/vídeo acompanham este caso. Transcreva e considere integralmente o conteúdo falado na análise.\n\n", mediaCount)
	}

	b.WriteString("FATOS DO CASO:\n")
	b.WriteString(req.FatosDoCaso)

	return b.String()
}
