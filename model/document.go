package model

import "strings"

// Document is a reconstructed document: blocks in reading order plus the
// summary metadata computed by the serializer.
type Document struct {
	Blocks    []Block
	PageCount int

	// Metadata is passed through unchanged from the extraction service
	Metadata map[string]string
}

// NewDocument creates a new empty document
func NewDocument() *Document {
	return &Document{
		Blocks:   make([]Block, 0),
		Metadata: make(map[string]string),
	}
}

// Append adds blocks to the end of the document
func (d *Document) Append(blocks ...Block) {
	d.Blocks = append(d.Blocks, blocks...)
}

// IsEmpty reports whether the document produced no content blocks
func (d *Document) IsEmpty() bool {
	for _, b := range d.Blocks {
		if b.Kind() != BlockKindPageBreak {
			return false
		}
	}
	return true
}

// ExtractText returns all text content concatenated, one block per line group
func (d *Document) ExtractText() string {
	var sb strings.Builder
	for _, b := range d.Blocks {
		if tb, ok := b.(TextBlock); ok {
			sb.WriteString(tb.GetText())
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}

// Headings returns all heading blocks in document order
func (d *Document) Headings() []*Heading {
	var headings []*Heading
	for _, b := range d.Blocks {
		if h, ok := b.(*Heading); ok {
			headings = append(headings, h)
		}
	}
	return headings
}

// Tables returns all table blocks in document order
func (d *Document) Tables() []*Table {
	var tables []*Table
	for _, b := range d.Blocks {
		if t, ok := b.(*Table); ok {
			tables = append(tables, t)
		}
	}
	return tables
}

// ElementIDs returns the ids absorbed by all blocks, in block order
func (d *Document) ElementIDs() []int {
	var ids []int
	for _, b := range d.Blocks {
		ids = append(ids, b.Info().ElementIDs...)
	}
	return ids
}

// Stats returns block counts for the document
func (d *Document) Stats() Stats {
	var s Stats
	for _, b := range d.Blocks {
		switch b.Kind() {
		case BlockKindHeading:
			s.Headings++
		case BlockKindParagraph:
			s.Paragraphs++
		case BlockKindListItem:
			s.ListItems++
		case BlockKindTable:
			s.Tables++
		case BlockKindFigure:
			s.Figures++
		case BlockKindPageBreak:
			s.PageBreaks++
		}
	}
	s.Pages = d.PageCount
	return s
}

// Stats holds block counts for a document
type Stats struct {
	Pages      int `json:"pages"`
	Headings   int `json:"headings"`
	Paragraphs int `json:"paragraphs"`
	ListItems  int `json:"list_items"`
	Tables     int `json:"tables"`
	Figures    int `json:"figures"`
	PageBreaks int `json:"page_breaks"`
}

// TableOfContents returns headings organized as a document outline
func (d *Document) TableOfContents() []TOCEntry {
	var toc []TOCEntry
	for _, h := range d.Headings() {
		toc = append(toc, TOCEntry{
			Level:  h.Level,
			Text:   h.Text,
			Page:   h.Page,
			Anchor: h.Anchor,
		})
	}
	return toc
}

// TOCEntry represents an entry in the table of contents
type TOCEntry struct {
	Level  int    // Heading level (1-6)
	Text   string // Heading text
	Page   int    // Page index (0-based)
	Anchor int    // Block anchor, 0 when blocks are not numbered
}
