// Package text provides the text helpers used while reconstructing
// documents: Unicode normalization of extracted strings and detection of
// the dominant writing direction.
//
// # Normalization
//
// [Normalize] converts text to NFC, drops zero-width characters and
// collapses whitespace. Every element is normalized once on intake so that
// later stages can join strings with a single space.
//
// # Direction
//
// [DetectDirection] counts strong left-to-right and right-to-left
// characters using their Unicode bidi class:
//
//	dir := text.DetectDirection("שלום world")
//	if dir == text.RTL {
//	    // render with dir="rtl"
//	}
package text
