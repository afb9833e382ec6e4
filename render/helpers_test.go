package render

import (
	"strconv"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/docstruct/model"
)

// sampleDocument covers every block kind
func sampleDocument() *model.Document {
	doc := model.NewDocument()
	doc.PageCount = 2
	doc.Metadata["title"] = "Track Safety Manual"
	doc.Metadata["author"] = "Rail Authority"

	doc.Append(
		&model.Heading{BlockInfo: model.BlockInfo{Page: 0, Position: 0, ElementIDs: []int{0}}, Level: 1, Text: "Manual", IsTitle: true},
		&model.Paragraph{BlockInfo: model.BlockInfo{Page: 0, Position: 1, ElementIDs: []int{1, 2}}, Lines: []string{"first line", "second line"}},
		&model.Table{
			BlockInfo: model.BlockInfo{Page: 0, Position: 3, ElementIDs: []int{3, 4, 5}},
			ColCount:  2,
			Rows: [][]model.Cell{
				{
					{Text: "Name", Row: 0, Col: 0, RowSpan: 1, ColSpan: 1, IsHeader: true},
					{Text: "Age", Row: 0, Col: 1, RowSpan: 1, ColSpan: 1, IsHeader: true},
				},
				{
					{Text: "Alice", Row: 1, Col: 0, RowSpan: 2, ColSpan: 1, Style: model.CellStyle{BackgroundColor: &model.Color{R: 255, G: 255}}},
					{Text: "30", Row: 1, Col: 1, RowSpan: 1, ColSpan: 1},
				},
				{
					{Row: 2, Col: 1, RowSpan: 1, ColSpan: 1, Placeholder: true},
				},
			},
		},
		&model.ListItem{BlockInfo: model.BlockInfo{Page: 0, Position: 6, ElementIDs: []int{6, 7}}, Label: "(a)", Body: "Inspect track", Text: "(a) Inspect track", Ordered: true},
		&model.ListItem{BlockInfo: model.BlockInfo{Page: 0, Position: 8, ElementIDs: []int{8, 9}}, Label: "(i)", Body: "Rails", Text: "(i) Rails", Ordered: true, Level: 1},
		&model.ListItem{BlockInfo: model.BlockInfo{Page: 0, Position: 10, ElementIDs: []int{10, 11}}, Label: "(b)", Body: "Report faults", Text: "(b) Report faults", Ordered: true},
		&model.Figure{BlockInfo: model.BlockInfo{Page: 0, Position: 12, ElementIDs: []int{12}}, Caption: "Figure 1"},
		&model.PageBreak{BlockInfo: model.BlockInfo{Page: 1, Position: 13}, FromPage: 0, ToPage: 1},
		&model.Heading{BlockInfo: model.BlockInfo{Page: 1, Position: 13, ElementIDs: []int{13}}, Level: 3, Text: "Scope"},
		&model.Paragraph{BlockInfo: model.BlockInfo{Page: 1, Position: 14, ElementIDs: []int{14}}, Lines: []string{"שלום עולם"}, RTL: true},
	)
	return doc
}

// numbered assigns anchors 1..N to content blocks
func numbered(doc *model.Document) *model.Document {
	anchor := 0
	for _, b := range doc.Blocks {
		if b.Kind() == model.BlockKindPageBreak {
			continue
		}
		anchor++
		b.Info().Anchor = anchor
	}
	return doc
}

func parse(t *testing.T, s string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	require.NoError(t, err)
	return doc
}

// tableWidths lays the rendered rows onto a grid, honouring rowspan and
// colspan, and returns the occupied width of every row
func tableWidths(table *goquery.Selection) []int {
	var occupied []map[int]bool
	grow := func(r int) {
		for len(occupied) <= r {
			occupied = append(occupied, map[int]bool{})
		}
	}

	table.Find("tr").Each(func(r int, tr *goquery.Selection) {
		grow(r)
		col := 0
		tr.Children().Each(func(_ int, cell *goquery.Selection) {
			for occupied[r][col] {
				col++
			}
			rs, cs := span(cell, "rowspan"), span(cell, "colspan")
			for dr := 0; dr < rs; dr++ {
				grow(r + dr)
				for dc := 0; dc < cs; dc++ {
					occupied[r+dr][col+dc] = true
				}
			}
			col += cs
		})
	})

	rows := table.Find("tr").Length()
	widths := make([]int, rows)
	for r := 0; r < rows; r++ {
		widths[r] = len(occupied[r])
	}
	return widths
}

func span(cell *goquery.Selection, name string) int {
	v, ok := cell.Attr(name)
	if !ok {
		return 1
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 1
	}
	return n
}
