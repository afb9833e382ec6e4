package text

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalize returns s in Unicode NFC form with zero-width characters removed,
// runs of whitespace collapsed to a single space and the ends trimmed.
// Extraction services frequently emit decomposed accents and hard spaces.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	s = norm.NFC.String(s)

	var sb strings.Builder
	sb.Grow(len(s))
	space := false
	for _, r := range s {
		if isZeroWidth(r) {
			continue
		}
		if unicode.IsSpace(r) {
			space = true
			continue
		}
		if space && sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		space = false
		sb.WriteRune(r)
	}
	return sb.String()
}

// JoinWords joins non-empty parts with a single space
func JoinWords(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}

func isZeroWidth(r rune) bool {
	switch r {
	case '\u200b', '\u200c', '\u200d', '\u2060', '\ufeff', '\u00ad':
		return true
	}
	return false
}
