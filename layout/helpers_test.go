package layout

import (
	"testing"

	"github.com/tsawler/docstruct/model"
)

// elemOpt customizes a test element
type elemOpt func(*model.PositionedElement)

// newElem returns an element on page with a 100x10 box whose bottom edge
// is at y
func newElem(id, page int, path, text string, y float64, opts ...elemOpt) model.PositionedElement {
	b := model.NewBBoxFromCorners(72, y, 172, y+10)
	e := model.PositionedElement{ID: id, Page: page, Path: path, Text: text, Bounds: &b}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

func atX(x float64) elemOpt {
	return func(e *model.PositionedElement) {
		if e.Bounds != nil {
			e.Bounds.X = x
		}
	}
}

func noBounds() elemOpt {
	return func(e *model.PositionedElement) { e.Bounds = nil }
}

func withCell(row, col, rowSpan, colSpan int) elemOpt {
	return func(e *model.PositionedElement) {
		r, c := row, col
		e.Cell = &model.CellAttrs{RowIndex: &r, ColIndex: &c, RowSpan: rowSpan, ColSpan: colSpan}
	}
}

func withTable(rows int) elemOpt {
	return func(e *model.PositionedElement) {
		e.Table = &model.TableAttrs{DeclaredRowCount: rows}
	}
}

// prepare orders and classifies elements the way the analyzer does
func prepare(t *testing.T, elements ...model.PositionedElement) []model.ClassifiedElement {
	t.Helper()
	ordered := NewReadingOrderDetector().Detect(elements).Elements
	NewClassifier().ClassifyAll(ordered)
	return ordered
}

// texts returns the text of every block
func texts(blocks []model.Block) []string {
	out := make([]string, 0, len(blocks))
	for _, b := range blocks {
		if tb, ok := b.(model.TextBlock); ok {
			out = append(out, tb.GetText())
			continue
		}
		out = append(out, "<"+b.Kind().String()+">")
	}
	return out
}
