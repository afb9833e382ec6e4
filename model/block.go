package model

import "strings"

// BlockKind represents the type of an output block
type BlockKind int

const (
	BlockKindUnknown BlockKind = iota
	BlockKindHeading
	BlockKindParagraph
	BlockKindListItem
	BlockKindTable
	BlockKindFigure
	BlockKindPageBreak
)

func (k BlockKind) String() string {
	switch k {
	case BlockKindHeading:
		return "heading"
	case BlockKindParagraph:
		return "paragraph"
	case BlockKindListItem:
		return "list-item"
	case BlockKindTable:
		return "table"
	case BlockKindFigure:
		return "figure"
	case BlockKindPageBreak:
		return "page-break"
	default:
		return "unknown"
	}
}

// BlockInfo is the placement data shared by all blocks. ElementIDs records
// which input elements the block absorbed; it is provenance, not ownership.
type BlockInfo struct {
	Page       int
	Position   int
	ElementIDs []int
	Anchor     int // 0 when blocks are not numbered
}

// Block is one unit of the reconstructed document
type Block interface {
	Kind() BlockKind
	Info() *BlockInfo
}

// TextBlock is a block with plain text content
type TextBlock interface {
	Block
	GetText() string
}

// Heading represents a heading or document title
type Heading struct {
	BlockInfo
	Level   int // 1-6
	Text    string
	IsTitle bool
	Style   *TextStyle
}

func (h *Heading) Kind() BlockKind  { return BlockKindHeading }
func (h *Heading) Info() *BlockInfo { return &h.BlockInfo }
func (h *Heading) GetText() string  { return h.Text }

// Paragraph represents a paragraph made of one or more lines
type Paragraph struct {
	BlockInfo
	Lines []string
	RTL   bool
}

func (p *Paragraph) Kind() BlockKind  { return BlockKindParagraph }
func (p *Paragraph) Info() *BlockInfo { return &p.BlockInfo }
func (p *Paragraph) GetText() string  { return strings.Join(p.Lines, "\n") }

// ListItem represents a merged list label and body
type ListItem struct {
	BlockInfo
	Label   string
	Body    string
	Text    string
	Ordered bool
	Level   int // 0 = top level
}

func (l *ListItem) Kind() BlockKind  { return BlockKindListItem }
func (l *ListItem) Info() *BlockInfo { return &l.BlockInfo }
func (l *ListItem) GetText() string  { return l.Text }

// Figure represents a figure; the caption is the only content carried through
type Figure struct {
	BlockInfo
	Caption string
}

func (f *Figure) Kind() BlockKind  { return BlockKindFigure }
func (f *Figure) Info() *BlockInfo { return &f.BlockInfo }
func (f *Figure) GetText() string  { return f.Caption }

// PageBreak separates the last block of one page from the first of the next
type PageBreak struct {
	BlockInfo
	FromPage int
	ToPage   int
}

func (b *PageBreak) Kind() BlockKind  { return BlockKindPageBreak }
func (b *PageBreak) Info() *BlockInfo { return &b.BlockInfo }

// TextStyle represents text styling carried through from font attributes
type TextStyle struct {
	Bold     bool
	Italic   bool
	FontSize float64
	Family   string
	Color    *Color
}

// IsZero reports whether the style carries no attributes
func (s *TextStyle) IsZero() bool {
	return s == nil || (!s.Bold && !s.Italic && s.FontSize == 0 && s.Family == "" && s.Color == nil)
}

// StyleFromFont converts optional font attributes into a TextStyle
func StyleFromFont(f *Font) *TextStyle {
	if f == nil {
		return nil
	}
	s := &TextStyle{
		Bold:     f.IsBold(),
		Italic:   f.Italic,
		FontSize: f.Size,
		Family:   f.Family,
	}
	if s.IsZero() {
		return nil
	}
	return s
}

// Color represents an RGB color
type Color struct {
	R, G, B uint8
}
