package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// LegalOpinion is the structured result of a case analysis.
// Field names follow the Brazilian legal-opinion schema the analysis
// prompt demands from the provider.
type LegalOpinion struct {
	ResumoEstrategico string   `json:"resumo_estrategico"`
	BaseLegal         []string `json:"base_legal"`
	Jurisprudencia    []string `json:"jurisprudencia"`
	Doutrina          []string `json:"doutrina"`
	LinhaDoTempo      []string `json:"linha_do_tempo,omitempty"`
	PecaProcessual    string   `json:"peca_processual"`

	// Recovered is set when the provider response resisted structured
	// parsing and the raw text was salvaged instead
	Recovered bool `json:"recovered,omitempty"`
}

// opinionWire tolerates the shape drift seen in provider output:
// list fields sometimes arrive as a single string, and peca_processual
// sometimes arrives as an array of paragraphs.
type opinionWire struct {
	ResumoEstrategico flexText  `json:"resumo_estrategico"`
	BaseLegal         flexLines `json:"base_legal"`
	Jurisprudencia    flexLines `json:"jurisprudencia"`
	Doutrina          flexLines `json:"doutrina"`
	LinhaDoTempo      flexLines `json:"linha_do_tempo"`
	PecaProcessual    flexText  `json:"peca_processual"`
	Recovered         bool      `json:"recovered"`
}

// UnmarshalJSON accepts both the canonical shape and the tolerated
// transport variants.
func (o *LegalOpinion) UnmarshalJSON(data []byte) error {
	var wire opinionWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	o.ResumoEstrategico = string(wire.ResumoEstrategico)
	o.BaseLegal = wire.BaseLegal
	o.Jurisprudencia = wire.Jurisprudencia
	o.Doutrina = wire.Doutrina
	o.LinhaDoTempo = wire.LinhaDoTempo
	o.PecaProcessual = string(wire.PecaProcessual)
	o.Recovered = wire.Recovered
	return nil
}

// IsEmpty reports whether the opinion carries no usable content
func (o *LegalOpinion) IsEmpty() bool {
	return o.ResumoEstrategico == "" &&
		len(o.BaseLegal) == 0 &&
		len(o.Jurisprudencia) == 0 &&
		len(o.Doutrina) == 0 &&
		len(o.LinhaDoTempo) == 0 &&
		o.PecaProcessual == ""
}

// flexText decodes a JSON string, or an array of strings joined as
// paragraphs.
type flexText string

func (t *flexText) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = flexText(s)
		return nil
	}
	var parts []string
	if err := json.Unmarshal(data, &parts); err == nil {
		*t = flexText(strings.Join(parts, "\n\n"))
		return nil
	}
	return fmt.Errorf("expected string or string array, got %s", truncateForError(data))
}

// flexLines decodes a JSON string array, or a bare string as a
// single-element list.
type flexLines []string

func (l *flexLines) UnmarshalJSON(data []byte) error {
	var parts []string
	if err := json.Unmarshal(data, &parts); err == nil {
		*l = parts
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "" {
			*l = nil
		} else {
			*l = []string{s}
		}
		return nil
	}
	return fmt.Errorf("expected string array or string, got %s", truncateForError(data))
}

func truncateForError(data []byte) string {
	const max = 40
	if len(data) > max {
		return string(data[:max]) + "..."
	}
	return string(data)
}
