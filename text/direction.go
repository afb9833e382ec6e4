package text

import (
	"golang.org/x/text/unicode/bidi"
)

// Direction represents the writing direction of text.
// It is used to mark right-to-left paragraphs in rendered output.
type Direction int

const (
	// LTR (Left-to-Right) for Latin, Cyrillic, CJK, etc.
	LTR Direction = iota
	// RTL (Right-to-Left) for Arabic, Hebrew, etc.
	RTL
	// Neutral for numbers, punctuation, etc.
	Neutral
)

// String returns a string representation of the direction ("LTR", "RTL", or "Neutral").
func (d Direction) String() string {
	switch d {
	case LTR:
		return "LTR"
	case RTL:
		return "RTL"
	case Neutral:
		return "Neutral"
	default:
		return "Unknown"
	}
}

// DetectDirection analyzes a string and returns its dominant text direction
// based on the Unicode bidi class of each character. It counts strong
// directional characters and returns the direction with the higher count,
// or Neutral if no strong directional characters are present.
func DetectDirection(s string) Direction {
	ltrCount := 0
	rtlCount := 0

	for _, r := range s {
		switch GetCharDirection(r) {
		case LTR:
			ltrCount++
		case RTL:
			rtlCount++
		}
	}

	if ltrCount == 0 && rtlCount == 0 {
		return Neutral
	}
	if rtlCount > ltrCount {
		return RTL
	}
	return LTR
}

// GetCharDirection returns the inherent direction of a single character:
// strong left-to-right (bidi class L), strong right-to-left (R, AL), or
// Neutral for everything else (digits, separators, marks, punctuation).
func GetCharDirection(r rune) Direction {
	props, _ := bidi.LookupRune(r)
	switch props.Class() {
	case bidi.L:
		return LTR
	case bidi.R, bidi.AL:
		return RTL
	default:
		return Neutral
	}
}

// IsRTL reports whether the dominant direction of s is right-to-left
func IsRTL(s string) bool {
	return DetectDirection(s) == RTL
}
