package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/docstruct/model"
)

func TestDefaultParagraphConfig(t *testing.T) {
	config := DefaultParagraphConfig()
	assert.Equal(t, 1.5, config.LineThreshold)
	assert.Equal(t, 18.0, config.ParagraphThreshold)
	assert.Equal(t, 36.0, config.MarginTolerance)
	assert.True(t, config.ContinueAcrossPages)
}

// A 2pt delta continues the paragraph on a new line, a 78pt
// delta starts a new paragraph
func TestSegmenter_LineAndParagraphBreaks(t *testing.T) {
	elements := prepare(t,
		newElem(0, 0, "//Document/P", "first line", 500),
		newElem(1, 0, "//Document/P", "second line", 498),
		newElem(2, 0, "//Document/P", "new paragraph", 420),
	)

	blocks, warnings := NewSegmenter().Segment(elements)

	assert.Empty(t, warnings)
	require.Len(t, blocks, 2)
	first := blocks[0].(*model.Paragraph)
	assert.Equal(t, []string{"first line", "second line"}, first.Lines)
	assert.Equal(t, []int{0, 1}, first.ElementIDs)
	second := blocks[1].(*model.Paragraph)
	assert.Equal(t, []string{"new paragraph"}, second.Lines)
}

func TestSegmenter_SameLineJoinsWithSpace(t *testing.T) {
	elements := prepare(t,
		newElem(0, 0, "//Document/P/Span", "The operator", 500, atX(72)),
		newElem(1, 0, "//Document/P/Span", "shall stop.", 500.5, atX(160)),
	)

	blocks, _ := NewSegmenter().Segment(elements)

	require.Len(t, blocks, 1)
	assert.Equal(t, []string{"The operator shall stop."}, blocks[0].(*model.Paragraph).Lines)
}

func TestSegmenter_MarginSnapBackStartsParagraph(t *testing.T) {
	elements := prepare(t,
		newElem(0, 0, "//Document/P", "indented quote", 500, atX(150)),
		newElem(1, 0, "//Document/P", "back at margin", 488, atX(72)),
		newElem(2, 0, "//Document/P", "wrapped", 476, atX(72)),
	)

	blocks, _ := NewSegmenter().Segment(elements)

	assert.Equal(t, []string{"indented quote", "back at margin\nwrapped"}, texts(blocks))
}

func TestSegmenter_CueForcesParagraph(t *testing.T) {
	elements := prepare(t,
		newElem(0, 0, "//Document/P", "The following apply:", 500),
		newElem(1, 0, "//Document/P", "(a) speed limits", 499),
		newElem(2, 0, "//Document/P", "NOTE: see annex", 488),
	)

	blocks, _ := NewSegmenter().Segment(elements)

	assert.Equal(t, []string{"The following apply:", "(a) speed limits", "NOTE: see annex"}, texts(blocks))
}

func TestSegmenter_MissingGeometryContinuesLine(t *testing.T) {
	elements := prepare(t,
		newElem(0, 0, "//Document/P", "Trains must", 500),
		newElem(1, 0, "//Document/P", "slow down", 0, noBounds()),
		newElem(2, 0, "//Document/P", "Next paragraph", 400),
	)

	blocks, warnings := NewSegmenter().Segment(elements)

	assert.Equal(t, []string{"Trains must slow down", "Next paragraph"}, texts(blocks))
	require.Len(t, warnings, 1)
	assert.Equal(t, model.WarningGeometryMissing, warnings[0].Kind)
	assert.Equal(t, 1, warnings[0].ElementID)
}

func TestSegmenter_HeadingsAndFiguresStandAlone(t *testing.T) {
	elements := prepare(t,
		newElem(0, 0, "//Document/Title", "Manual", 750),
		newElem(1, 0, "//Document/P", "intro", 700),
		newElem(2, 0, "//Document/H3", "Detail", 699),
		newElem(3, 0, "//Document/P", "more", 698),
		newElem(4, 0, "//Document/Figure", "", 600),
	)

	blocks, _ := NewSegmenter().Segment(elements)

	require.Len(t, blocks, 5)
	title := blocks[0].(*model.Heading)
	assert.True(t, title.IsTitle)
	assert.Equal(t, 1, title.Level)
	assert.Equal(t, "intro", blocks[1].(*model.Paragraph).GetText())
	assert.Equal(t, 3, blocks[2].(*model.Heading).Level)
	assert.Equal(t, "more", blocks[3].(*model.Paragraph).GetText())
	assert.Equal(t, model.BlockKindFigure, blocks[4].Kind())
}

func TestSegmenter_EmptyElementsAreAbsorbed(t *testing.T) {
	elements := prepare(t,
		newElem(0, 0, "//Document/Sect", "", 720),
		newElem(1, 0, "//Document/P", "body", 700),
		newElem(2, 0, "//Document/P", "", 699),
		newElem(3, 0, "//Document/H1", "", 400),
	)

	blocks, _ := NewSegmenter().Segment(elements)

	require.Len(t, blocks, 1)
	assert.ElementsMatch(t, []int{0, 1, 2, 3}, blocks[0].Info().ElementIDs)
}

func TestSegmenter_OnlyEmptyElements(t *testing.T) {
	elements := prepare(t,
		newElem(0, 0, "//Document/Table", "", 720),
		newElem(1, 0, "//Document/Sect", "", 700),
	)

	blocks, _ := NewSegmenter().Segment(elements)

	require.Len(t, blocks, 1)
	assert.Equal(t, []int{0, 1}, blocks[0].Info().ElementIDs)
	assert.Empty(t, blocks[0].(*model.Paragraph).Lines)
}

func TestSegmenter_PageChange(t *testing.T) {
	tests := []struct {
		name string
		next string
		keep bool
		want int
	}{
		{"sentence continues", "continues here", true, 1},
		{"capitalized start", "New sentence", true, 2},
		{"continuation disabled", "continues here", false, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultParagraphConfig()
			config.ContinueAcrossPages = tt.keep

			elements := prepare(t,
				newElem(0, 0, "//Document/P", "the train shall", 60),
				newElem(1, 1, "//Document/P", tt.next, 740),
			)

			blocks, _ := NewSegmenterWithConfig(config).Segment(elements)
			assert.Len(t, blocks, tt.want)
		})
	}
}

func TestSegmenter_RightToLeft(t *testing.T) {
	elements := prepare(t,
		newElem(0, 0, "//Document/P", "שלום עולם", 500),
	)

	blocks, _ := NewSegmenter().Segment(elements)

	require.Len(t, blocks, 1)
	assert.True(t, blocks[0].(*model.Paragraph).RTL)
}

func TestSegmenter_OrphanCellIsText(t *testing.T) {
	e := prepare(t, newElem(0, 0, "//Document/Table/TR/TD", "stray", 500, withCell(0, 0, 1, 1)))
	require.Equal(t, model.RoleTableCell, e[0].Role)

	blocks, _ := NewSegmenter().Segment(e)

	assert.Equal(t, []string{"stray"}, texts(blocks))
}

func TestSegmenter_PositionGapSplitsParagraph(t *testing.T) {
	elements := prepare(t,
		newElem(0, 0, "//Document/P", "before", 500),
		newElem(1, 0, "//Document/P", "", 499),
		newElem(2, 0, "//Document/P", "after", 498),
	)
	// Position 1 is taken by an earlier stage; the empty element that
	// follows the gap does not bridge it
	elements[1].Position = 2
	elements[2].Position = 3

	blocks, _ := NewSegmenter().Segment(elements)

	assert.Equal(t, []string{"before", "after"}, texts(blocks))
	assert.Equal(t, []int{0, 1}, blocks[0].Info().ElementIDs)
	assert.Equal(t, []int{2}, blocks[1].Info().ElementIDs)
}
