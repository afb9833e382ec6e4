package source

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/docstruct/model"
)

func loadSample(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile("testdata/structuredData.json")
	require.NoError(t, err)
	return data
}

func TestDecode_Sample(t *testing.T) {
	payload, err := Decode(strings.NewReader(string(loadSample(t))))
	require.NoError(t, err)

	require.Len(t, payload.Elements, 19)
	for i, e := range payload.Elements {
		assert.Equal(t, i, e.ID)
	}

	title := payload.Elements[0]
	assert.Equal(t, "//Document/Title", title.Path)
	assert.Equal(t, "Track Safety Manual ", title.Text)
	require.NotNil(t, title.Bounds)
	assert.Equal(t, model.NewBBoxFromCorners(72, 740, 320.5, 762), *title.Bounds)
	require.NotNil(t, title.Font)
	assert.Equal(t, 20.0, title.Font.Size)
	assert.True(t, title.Font.IsBold())
	assert.Equal(t, "Arial", title.Font.Family)

	caption := payload.Elements[15]
	assert.Nil(t, caption.Bounds)
	assert.Equal(t, 9.0, caption.Font.Size)

	assert.Equal(t, 1, payload.Elements[16].Page)
}

func TestDecode_TableAttributes(t *testing.T) {
	payload, err := Decode(strings.NewReader(string(loadSample(t))))
	require.NoError(t, err)

	table := payload.Elements[3]
	require.NotNil(t, table.Table)
	assert.Equal(t, 2, table.Table.DeclaredRowCount)
	assert.Equal(t, 2, table.Table.DeclaredColCount)
	assert.Nil(t, table.Cell)

	header := payload.Elements[4]
	require.NotNil(t, header.Cell)
	assert.True(t, header.Cell.HasCoordinates())
	assert.Equal(t, 0, *header.Cell.RowIndex)
	assert.Equal(t, 0, *header.Cell.ColIndex)
	assert.Equal(t, &model.Color{R: 255, G: 255, B: 0}, header.Cell.BackgroundColor)

	second := payload.Elements[10]
	assert.Equal(t, 1, *second.Cell.RowIndex)
	assert.Equal(t, 1, *second.Cell.ColIndex)

	assert.Nil(t, payload.Elements[5].Cell, "text runs carry no cell attributes")

	loose := payload.Elements[18]
	require.NotNil(t, loose.Cell)
	assert.False(t, loose.Cell.HasCoordinates())
}

func TestDecode_Metadata(t *testing.T) {
	payload, err := Decode(strings.NewReader(string(loadSample(t))))
	require.NoError(t, err)

	assert.Equal(t, "1.6", payload.Metadata["pdf_version"])
	assert.Equal(t, "2", payload.Metadata["page_count"])
	assert.Equal(t, "false", payload.Metadata["is_encrypted"])
	assert.Equal(t, "en", payload.Metadata["language"])
}

func TestDecode_MetadataPassesThrough(t *testing.T) {
	payload, err := Decode(strings.NewReader(`{
		"extended_metadata": {"producer": "scanner"},
		"elements": [],
		"pages": [{"page_number": 0}, {"page_number": 1}, {"page_number": 2}]
	}`))
	require.NoError(t, err)

	assert.Empty(t, payload.Elements)
	assert.Equal(t, map[string]string{"producer": "scanner"}, payload.Metadata)
}

func TestDecode_CellWithoutAttributes(t *testing.T) {
	payload, err := Decode(strings.NewReader(`{"elements": [
		{"Page": 0, "Path": "//Document/Table/TR/TD[3]", "attributes": {"ColSpan": 2}},
		{"Page": 0, "Path": "//Document/Table/TR/TD[4]"}
	]}`))
	require.NoError(t, err)

	require.NotNil(t, payload.Elements[0].Cell)
	assert.Equal(t, 2, payload.Elements[0].Cell.ColSpan)
	assert.False(t, payload.Elements[0].Cell.HasCoordinates())
	assert.Nil(t, payload.Elements[1].Cell)
}

func TestDecode_ByteOrderMark(t *testing.T) {
	payload, err := Decode(strings.NewReader("\xef\xbb\xbf" + `{"elements": [{"Page": 0, "Path": "//Document/P", "Text": "x"}]}`))
	require.NoError(t, err)
	require.Len(t, payload.Elements, 1)
}

func TestDecode_Errors(t *testing.T) {
	tests := []string{
		``,
		`not json`,
		`{"elements": {"Path": "x"}}`,
	}
	for _, input := range tests {
		_, err := Decode(strings.NewReader(input))
		assert.Error(t, err, "input %q", input)
	}
}

func TestToColor(t *testing.T) {
	tests := []struct {
		rgb  []float64
		want *model.Color
	}{
		{[]float64{1, 0.5, 0}, &model.Color{R: 255, G: 128, B: 0}},
		{[]float64{2, -1, 0.2}, &model.Color{R: 255, G: 0, B: 51}},
		{[]float64{1, 1}, nil},
		{nil, nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, toColor(tt.rgb), "%v", tt.rgb)
	}
}
