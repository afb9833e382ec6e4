package docstruct

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/docstruct/layout"
	"github.com/tsawler/docstruct/model"
	"github.com/tsawler/docstruct/source"
)

const samplePath = "testdata/structuredData.json"

func kinds(doc *model.Document) []model.BlockKind {
	out := make([]model.BlockKind, len(doc.Blocks))
	for i, b := range doc.Blocks {
		out[i] = b.Kind()
	}
	return out
}

func TestReconstruct_EmptyInput(t *testing.T) {
	doc, warnings, err := Reconstruct(nil)

	assert.ErrorIs(t, err, ErrEmptyInput)
	assert.Nil(t, doc)
	assert.Nil(t, warnings)
}

func TestReconstruct(t *testing.T) {
	row, col := 0, 0
	elements := []model.PositionedElement{
		{ID: 0, Page: 0, Path: "//Document/H1", Text: "Scope", Bounds: &model.BBox{X: 72, Y: 700, Width: 100, Height: 14}},
		{ID: 1, Page: 0, Path: "//Document/Table", Bounds: &model.BBox{X: 72, Y: 600, Width: 200, Height: 40}, Table: &model.TableAttrs{DeclaredRowCount: 1}},
		{ID: 2, Page: 0, Path: "//Document/Table/TR/TD", Text: "only cell", Bounds: &model.BBox{X: 72, Y: 620, Width: 200, Height: 20},
			Cell: &model.CellAttrs{RowIndex: &row, ColIndex: &col}},
	}

	doc, warnings, err := Reconstruct(elements)

	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, []model.BlockKind{model.BlockKindHeading, model.BlockKindTable}, kinds(doc))
	assert.Equal(t, "only cell", doc.Tables()[0].Rows[0][0].Text)
}

func TestOpen_Document(t *testing.T) {
	doc, warnings, err := Open(samplePath).Document(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []model.BlockKind{
		model.BlockKindHeading,
		model.BlockKindParagraph,
		model.BlockKindTable,
		model.BlockKindListItem,
		model.BlockKindFigure,
		model.BlockKindParagraph,
		model.BlockKindPageBreak,
		model.BlockKindHeading,
		model.BlockKindParagraph,
		model.BlockKindParagraph,
	}, kinds(doc))

	assert.Equal(t, "Track Safety Manual", doc.Blocks[0].(*model.Heading).Text)
	assert.Equal(t, []string{"This manual sets out", "the rules for track work."}, doc.Blocks[1].(*model.Paragraph).Lines)

	table := doc.Tables()[0]
	assert.Equal(t, "Name", table.Rows[0][0].Text)
	assert.Equal(t, "30", table.Rows[1][1].Text)
	assert.Equal(t, "#ffff00", table.Rows[0][0].Style.BackgroundColor.Hex())

	assert.Equal(t, "(a) Inspect track", doc.Blocks[3].(*model.ListItem).Text)
	assert.Equal(t, 2, doc.PageCount)
	assert.Equal(t, "1.6", doc.Metadata["pdf_version"])
	assert.Len(t, warnings, 2)
}

func TestOpen_MissingFile(t *testing.T) {
	_, _, err := Open("testdata/missing.json").Document(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading elements")
}

func TestFromSource_Nil(t *testing.T) {
	_, _, err := FromSource(nil).Document(context.Background())
	assert.Error(t, err)
}

func TestFromSource_Payload(t *testing.T) {
	payload := &source.Payload{
		Elements: []model.PositionedElement{{ID: 0, Path: "//Document/P", Text: "hello", Bounds: &model.BBox{Y: 10, Width: 10, Height: 10}}},
		Metadata: map[string]string{"title": "From service", "lang": "en"},
	}

	doc, _, err := FromSource(payload).
		WithMetadata(map[string]string{"title": "Override"}).
		Document(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "Override", doc.Metadata["title"])
	assert.Equal(t, "en", doc.Metadata["lang"])
	assert.Equal(t, "From service", payload.Metadata["title"], "payload metadata is not modified")
}

func TestExtractor_ChainIsImmutable(t *testing.T) {
	base := Open(samplePath)
	numbered := base.NumberBlocks().WithMetadata(map[string]string{"k": "v"})

	plain, _, err := base.Document(context.Background())
	require.NoError(t, err)
	anchored, _, err := numbered.Document(context.Background())
	require.NoError(t, err)

	assert.Zero(t, plain.Blocks[0].Info().Anchor)
	assert.Equal(t, 1, anchored.Blocks[0].Info().Anchor)
	assert.Empty(t, plain.Metadata["k"])
	assert.Equal(t, "v", anchored.Metadata["k"])
}

func TestExtractor_WithConfigKeepsNumbering(t *testing.T) {
	config := layout.DefaultAnalyzerConfig()
	config.ParagraphConfig.ParagraphThreshold = 5

	doc, _, err := Open(samplePath).NumberBlocks().WithConfig(config).Document(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, doc.Blocks[0].Info().Anchor)
	var paragraphs int
	for _, b := range doc.Blocks {
		if b.Kind() == model.BlockKindParagraph {
			paragraphs++
		}
	}
	assert.Equal(t, 5, paragraphs, "a 12pt gap now splits the first paragraph")
}

func TestExtractor_SequentialMatchesParallel(t *testing.T) {
	parallel, _, err := Open(samplePath).JSON(context.Background())
	require.NoError(t, err)
	sequential, _, err := Open(samplePath).Sequential().JSON(context.Background())
	require.NoError(t, err)

	assert.Equal(t, string(parallel), string(sequential))
}

func TestExtractor_HTML(t *testing.T) {
	html, warnings, err := Open(samplePath).NumberBlocks().Sanitize().Standalone().HTML(context.Background())
	require.NoError(t, err)

	assert.Len(t, warnings, 2)
	assert.True(t, strings.HasPrefix(html, "<!DOCTYPE html>"))
	assert.Contains(t, html, `<h1 class="title" id="block-1">Track Safety Manual</h1>`)
	assert.Contains(t, html, `<meta name="pdf_version" content="1.6"/>`)
	assert.Contains(t, html, `class="page-break"`)
}

func TestExtractor_Markdown(t *testing.T) {
	md, _, err := Open(samplePath).Markdown(context.Background())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(md, "# Track Safety Manual"), md)
	assert.Contains(t, md, "## Scope")
	assert.Contains(t, md, "Alice")
}

func TestExtractor_JSON(t *testing.T) {
	data, _, err := Open(samplePath).JSON(context.Background())
	require.NoError(t, err)

	var decoded struct {
		PageCount int `json:"page_count"`
		Blocks    []struct {
			Kind string `json:"kind"`
		} `json:"blocks"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, 2, decoded.PageCount)
	assert.Len(t, decoded.Blocks, 10)
	assert.Equal(t, "table", decoded.Blocks[2].Kind)
}

func TestExtractor_Text(t *testing.T) {
	text, _, err := Open(samplePath).Text(context.Background())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(text, "Track Safety Manual\n"))
	assert.Contains(t, text, "Name\tAge\nAlice\t30\n")
	assert.Contains(t, text, "\f")
	assert.True(t, strings.HasSuffix(text, "loose cell\n"))
}

func TestExtractor_Logger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, _, err := Open(samplePath).WithLogger(logger).Document(context.Background())
	require.NoError(t, err)

	var runs = map[string]bool{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var record map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &record))
		run, ok := record["run"].(string)
		require.True(t, ok, "record without run id: %s", line)
		runs[run] = true
	}
	assert.Len(t, runs, 1)
	assert.Contains(t, buf.String(), "reconstructed document")
}

func TestExtractor_Concurrent(t *testing.T) {
	ext := Open(samplePath).NumberBlocks()
	want, _, err := ext.HTML(context.Background())
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]string, 8)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], _, _ = ext.HTML(context.Background())
		}()
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
}

func TestExtractor_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := Open(samplePath).Document(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestMust(t *testing.T) {
	assert.Equal(t, 3, Must(3, nil))
	assert.Panics(t, func() { Must(0, errors.New("boom")) })

	assert.Equal(t, "x", MustResult("x", []Warning{{}}, nil))
	assert.Panics(t, func() { MustResult(Reconstruct(nil)) })
}

func TestFormatWarnings(t *testing.T) {
	warnings := []Warning{
		{Kind: model.WarningGeometryMissing, ElementID: 15, Page: 0, Message: "no bounds"},
		{Kind: model.WarningMalformedTableAttrs, ElementID: 18, Page: 1, Message: "cell without coordinates"},
		{Kind: model.WarningGeometryMissing, ElementID: 16, Page: 1, Message: "no bounds"},
	}

	assert.Empty(t, FormatWarnings(nil))
	assert.Equal(t,
		"page 0, element 15: geometry-missing: no bounds\n"+
			"page 1, element 18: malformed-table-attrs: cell without coordinates\n"+
			"page 1, element 16: geometry-missing: no bounds",
		FormatWarnings(warnings))

	assert.Equal(t, "no warnings", SummarizeWarnings(nil))
	assert.Equal(t, "1 warning (geometry-missing: 1)", SummarizeWarnings(warnings[:1]))
	assert.Equal(t, "3 warnings (geometry-missing: 2, malformed-table-attrs: 1)", SummarizeWarnings(warnings))
}
