package common

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedactError(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain ascii", "upload failed: connection reset", "upload failed: connection reset"},
		{"strips non-ascii", "falha na análise", "falha na anlise"},
		{"strips control bytes", "bad\x1b[31mcolor\x1b[0m", "bad[31mcolor[0m"},
		{"keeps newlines and tabs", "line1\n\tline2", "line1\n\tline2"},
		{"empty becomes placeholder", "", "internal error"},
		{"only non-ascii becomes placeholder", "ééé", "internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RedactError(tt.input))
		})
	}
}

func TestRedactError_Bounded(t *testing.T) {
	long := strings.Repeat("x", 2000)
	out := RedactError(long)
	assert.Len(t, out, maxErrorMessageLen+3)
	assert.True(t, strings.HasSuffix(out, "..."))
}
