package layout

import (
	"regexp"
	"strings"
)

// Default new-item cues. Regulatory text starts sub-clauses with these at
// small vertical offsets, so they force a paragraph break.
var (
	parenthesizedCue = regexp.MustCompile(`^\(\s*[A-Za-z0-9]{1,4}\s*\)`)
	numberedCue      = regexp.MustCompile(`^\d{1,3}(\.\d{1,3})*\.(\s|$)`)
	capsLabelCue     = regexp.MustCompile(`^[A-Z][A-Z0-9&'/ -]*[A-Z]:`)
)

// DefaultCuePatterns returns the patterns that mark the start of a new item
func DefaultCuePatterns() []*regexp.Regexp {
	return []*regexp.Regexp{parenthesizedCue, numberedCue, capsLabelCue}
}

// hasCue reports whether s starts with one of the patterns
func hasCue(s string, patterns []*regexp.Regexp) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	for _, p := range patterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}
