package layout

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/tsawler/docstruct/model"
	"github.com/tsawler/docstruct/text"
)

// ParagraphConfig holds configuration for paragraph and line segmentation
type ParagraphConfig struct {
	// LineThreshold is the vertical delta (points) above which an element
	// starts a new line. Default: 1.5
	LineThreshold float64

	// ParagraphThreshold is the vertical delta (points) above which an
	// element starts a new paragraph. Default: 18.0
	ParagraphThreshold float64

	// MarginTolerance is how far (points) left of the current line start an
	// element on a new line must snap back to start a new paragraph.
	// Default: 36.0
	MarginTolerance float64

	// ContinueAcrossPages keeps a paragraph open over a page change when the
	// last line has no terminal punctuation and the next text starts in
	// lowercase
	ContinueAcrossPages bool
}

// DefaultParagraphConfig returns sensible default configuration
func DefaultParagraphConfig() ParagraphConfig {
	return ParagraphConfig{
		LineThreshold:       1.5,
		ParagraphThreshold:  18.0,
		MarginTolerance:     36.0,
		ContinueAcrossPages: true,
	}
}

// Segmenter groups the elements left after table and list reconstruction
// into headings, figures and paragraphs. It is sequential by nature: every
// decision depends on the element before it.
type Segmenter struct {
	config ParagraphConfig
}

// NewSegmenter creates a segmenter with default configuration
func NewSegmenter() *Segmenter {
	return &Segmenter{
		config: DefaultParagraphConfig(),
	}
}

// NewSegmenterWithConfig creates a segmenter with custom configuration
func NewSegmenterWithConfig(config ParagraphConfig) *Segmenter {
	return &Segmenter{
		config: config,
	}
}

// breakKind is the segmentation decision for one element
type breakKind int

const (
	sameLine breakKind = iota
	newLine
	newParagraph
)

// paragraphBuilder accumulates the lines of one open paragraph
type paragraphBuilder struct {
	para      *model.Paragraph
	line      []string
	prev      *model.ClassifiedElement
	lineStart float64
}

func (b *paragraphBuilder) add(e *model.ClassifiedElement, k breakKind) {
	if k == newLine && len(b.line) > 0 {
		b.flushLine()
	}
	if len(b.line) == 0 {
		b.lineStart = e.EffectiveX
	}
	b.line = append(b.line, e.Text)
	b.para.ElementIDs = append(b.para.ElementIDs, e.ID)
	b.prev = e
}

func (b *paragraphBuilder) flushLine() {
	if len(b.line) > 0 {
		b.para.Lines = append(b.para.Lines, text.JoinWords(b.line...))
		b.line = nil
	}
}

func (b *paragraphBuilder) lastText() string {
	if len(b.line) > 0 {
		return b.line[len(b.line)-1]
	}
	if n := len(b.para.Lines); n > 0 {
		return b.para.Lines[n-1]
	}
	return ""
}

// Segment returns blocks in reading order for the given elements, which
// must already be in reading order. Elements with empty text are absorbed
// into the open paragraph, or the next block when none is open. Only
// elements with consecutive positions share a paragraph.
func (s *Segmenter) Segment(elements []model.ClassifiedElement) ([]model.Block, []model.Warning) {
	var (
		blocks   []model.Block
		warnings []model.Warning
		cur      *paragraphBuilder
		pending  []int
	)

	closeParagraph := func() {
		if cur == nil {
			return
		}
		cur.flushLine()
		cur.para.RTL = text.IsRTL(cur.para.GetText())
		blocks = append(blocks, cur.para)
		cur = nil
	}
	emit := func(b model.Block) {
		b.Info().ElementIDs = append(pending, b.Info().ElementIDs...)
		pending = nil
		blocks = append(blocks, b)
	}

	split := false
	for i := range elements {
		e := &elements[i]

		// A gap in positions means an earlier stage claimed the elements
		// in between, so the open paragraph cannot continue past them.
		if i > 0 && e.Position > elements[i-1].Position+1 {
			split = true
		}

		if e.Text == "" && e.Role != model.RoleFigure {
			if cur != nil {
				cur.para.ElementIDs = append(cur.para.ElementIDs, e.ID)
			} else {
				pending = append(pending, e.ID)
			}
			continue
		}

		switch e.Role {
		case model.RoleTitle, model.RoleHeading1, model.RoleHeading2:
			closeParagraph()
			emit(newHeading(e))
			continue
		case model.RoleFigure:
			closeParagraph()
			emit(&model.Figure{BlockInfo: blockInfo(e), Caption: e.Text})
			continue
		}

		if !e.HasBounds() {
			warnings = append(warnings, model.Warning{
				Kind:      model.WarningGeometryMissing,
				ElementID: e.ID,
				Page:      e.Page,
				Message:   "no bounds, continuing the current line",
			})
		}

		k := newParagraph
		if cur != nil && !split {
			k = s.decide(cur, e)
		}
		split = false
		if k == newParagraph {
			closeParagraph()
			cur = &paragraphBuilder{para: &model.Paragraph{BlockInfo: model.BlockInfo{
				Page:       e.Page,
				Position:   e.Position,
				ElementIDs: pending,
			}}}
			pending = nil
		}
		cur.add(e, k)
	}
	closeParagraph()

	if len(pending) > 0 {
		if n := len(blocks); n > 0 {
			info := blocks[n-1].Info()
			info.ElementIDs = append(info.ElementIDs, pending...)
		} else {
			first := elements[0]
			blocks = append(blocks, &model.Paragraph{BlockInfo: model.BlockInfo{
				Page:       first.Page,
				Position:   first.Position,
				ElementIDs: pending,
			}})
		}
	}

	return blocks, warnings
}

// decide compares an element with the previous element of the open
// paragraph
func (s *Segmenter) decide(cur *paragraphBuilder, e *model.ClassifiedElement) breakKind {
	prev := cur.prev
	if e.Cue {
		return newParagraph
	}
	if prev.Page != e.Page {
		if s.config.ContinueAcrossPages && continuesSentence(cur.lastText(), e.Text) {
			return newLine
		}
		return newParagraph
	}
	if !e.HasBounds() {
		return sameLine
	}

	dy := math.Abs(prev.EffectiveY - e.EffectiveY)
	dx := e.EffectiveX - cur.lineStart
	switch {
	case dy > s.config.ParagraphThreshold:
		return newParagraph
	case dy > s.config.LineThreshold && dx < -s.config.MarginTolerance:
		return newParagraph
	case dy > s.config.LineThreshold:
		return newLine
	default:
		return sameLine
	}
}

// continuesSentence reports whether next reads as the continuation of a
// sentence left open by prev
func continuesSentence(prev, next string) bool {
	prev = strings.TrimSpace(prev)
	if prev == "" || next == "" {
		return false
	}
	last, _ := utf8.DecodeLastRuneInString(prev)
	if strings.ContainsRune(".!?:;", last) {
		return false
	}
	first, _ := utf8.DecodeRuneInString(next)
	return unicode.IsLower(first)
}

func newHeading(e *model.ClassifiedElement) *model.Heading {
	level := e.HeadingLevel
	if level < 1 {
		level = 1
	}
	return &model.Heading{
		BlockInfo: blockInfo(e),
		Level:     level,
		Text:      e.Text,
		IsTitle:   e.Role == model.RoleTitle,
		Style:     model.StyleFromFont(e.Font),
	}
}

func blockInfo(e *model.ClassifiedElement) model.BlockInfo {
	return model.BlockInfo{
		Page:       e.Page,
		Position:   e.Position,
		ElementIDs: []int{e.ID},
	}
}
