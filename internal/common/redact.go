package common

import "strings"

// maxErrorMessageLen bounds error text surfaced to API clients.
const maxErrorMessageLen = 500

// RedactError normalizes an error message for client display:
// non-ASCII bytes are stripped so provider responses cannot smuggle
// control sequences or markup into the status payload, and the
// result is bounded.
func RedactError(msg string) string {
	var b strings.Builder
	b.Grow(len(msg))
	for _, r := range msg {
		if r >= 32 && r < 127 || r == '\n' || r == '\t' {
			b.WriteRune(r)
		}
	}
	out := strings.TrimSpace(b.String())
	if len(out) > maxErrorMessageLen {
		out = out[:maxErrorMessageLen] + "..."
	}
	if out == "" {
		out = "internal error"
	}
	return out
}
