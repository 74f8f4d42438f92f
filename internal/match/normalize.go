// Package match scores extracted item names against the canonical catalog
// and decides whether a candidate maps to an existing item.
package match

import "strings"

// Normalize lowercases s, collapses runs of whitespace, and strips
// punctuation that OCR renders inconsistently. Normalized names are the
// comparison form for scoring and the identity form for catalog lookups.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	lastSpace := true
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastSpace = false
		case r == ' ' || r == '\t' || r == '-' || r == '_' || r == '/':
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
		}
		// Everything else (periods, apostrophes, commas) drops out.
	}

	return strings.TrimRight(b.String(), " ")
}
