package analysis

import (
	"encoding/json"
	"strings"

	"github.com/maadv/parecer/internal/models"
)

// DecodeOutcome records how far the decoder had to go
type DecodeOutcome string

const (
	// DecodeStrict means the response parsed as-is
	DecodeStrict DecodeOutcome = "strict"
	// DecodeRepaired means a truncation suffix completed the JSON
	DecodeRepaired DecodeOutcome = "repaired"
	// DecodeDegraded means nothing parsed and a placeholder carries
	// the raw text
	DecodeDegraded DecodeOutcome = "degraded"
)

// RecoveryMarker flags a degraded opinion so clients can detect it
const RecoveryMarker = "[RECUPERACAO AUTOMATICA]"

// repairSuffixes complete the most common truncation points of a
// streamed JSON object: mid-string, mid-array, mid-object. Ordered
// from the deepest cut to the shallowest.
var repairSuffixes = []string{`"`, `"}`, `"]`, `"]}`, `]}`, `}`, `]`}

// DecodeOpinion turns raw provider output into a LegalOpinion.
// Never fails: a response that resists strict parsing and truncation
// repair degrades to a placeholder opinion carrying the raw text, so
// the job still reaches done with whatever the provider produced.
func DecodeOpinion(raw string) (*models.LegalOpinion, DecodeOutcome) {
	cleaned := stripCodeFences(raw)

	var opinion models.LegalOpinion
	if err := json.Unmarshal([]byte(cleaned), &opinion); err == nil && !opinion.IsEmpty() {
		return &opinion, DecodeStrict
	}

	for _, suffix := range repairSuffixes {
		candidate := cleaned + suffix
		var repaired models.LegalOpinion
		if err := json.Unmarshal([]byte(candidate), &repaired); err == nil && !repaired.IsEmpty() {
			return &repaired, DecodeRepaired
		}
	}

	// Raw text lands in the summary field, marker first, so polling
	// clients always find the salvaged content in the same place
	return &models.LegalOpinion{
		ResumoEstrategico: RecoveryMarker + "\n\n" + strings.TrimSpace(raw),
		PecaProcessual:    "A peça processual não pôde ser extraída automaticamente da resposta. Consulte o resumo estratégico para o conteúdo recuperado.",
		Recovered:         true,
	}, DecodeDegraded
}

// stripCodeFences removes a surrounding markdown code fence, with or
// without a language tag
func stripCodeFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	// Drop the language tag line ("json", "JSON", ...)
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		firstLine := strings.TrimSpace(s[:idx])
		if len(firstLine) <= 10 && !strings.ContainsAny(firstLine, "{}[]") {
			s = s[idx+1:]
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
