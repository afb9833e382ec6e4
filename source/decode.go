package source

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/tsawler/docstruct/model"
)

// rawDocument mirrors the service's structuredData.json
type rawDocument struct {
	ExtendedMetadata map[string]any `json:"extended_metadata"`
	Elements         []rawElement   `json:"elements"`
}

type rawElement struct {
	Bounds     []float64      `json:"Bounds"`
	Page       int            `json:"Page"`
	Path       string         `json:"Path"`
	Text       string         `json:"Text"`
	TextSize   float64        `json:"TextSize"`
	Font       *rawFont       `json:"Font"`
	Attributes *rawAttributes `json:"attributes"`
}

type rawFont struct {
	Name       string `json:"name"`
	FamilyName string `json:"family_name"`
	Weight     int    `json:"weight"`
	Italic     bool   `json:"italic"`
}

type rawAttributes struct {
	RowIndex        *int      `json:"RowIndex"`
	ColIndex        *int      `json:"ColIndex"`
	RowSpan         int       `json:"RowSpan"`
	ColSpan         int       `json:"ColSpan"`
	NumRow          int       `json:"NumRow"`
	NumCol          int       `json:"NumCol"`
	BackgroundColor []float64 `json:"BackgroundColor"`
}

// Decode reads a structuredData.json document. Element IDs are the
// elements' indices in the response.
func Decode(r io.Reader) (*Payload, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading element stream: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	var raw rawDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding element stream: %w", err)
	}

	payload := &Payload{
		Elements: make([]model.PositionedElement, len(raw.Elements)),
		Metadata: flattenMetadata(raw.ExtendedMetadata),
	}
	for i := range raw.Elements {
		payload.Elements[i] = raw.Elements[i].element(i)
	}
	return payload, nil
}

func (e *rawElement) element(id int) model.PositionedElement {
	out := model.PositionedElement{
		ID:   id,
		Page: max(e.Page, 0),
		Path: e.Path,
		Text: e.Text,
	}

	if len(e.Bounds) == 4 {
		box := model.NewBBoxFromCorners(e.Bounds[0], e.Bounds[1], e.Bounds[2], e.Bounds[3])
		out.Bounds = &box
	}

	if e.Font != nil || e.TextSize > 0 {
		out.Font = &model.Font{Size: e.TextSize}
		if e.Font != nil {
			out.Font.Name = e.Font.Name
			out.Font.Family = e.Font.FamilyName
			out.Font.Weight = e.Font.Weight
			out.Font.Italic = e.Font.Italic
		}
	}

	if a := e.Attributes; a != nil {
		if a.NumRow > 0 || a.NumCol > 0 {
			out.Table = &model.TableAttrs{DeclaredRowCount: a.NumRow, DeclaredColCount: a.NumCol}
		}
		if a.RowIndex != nil || a.ColIndex != nil || isCellPath(e.Path) {
			out.Cell = &model.CellAttrs{
				RowIndex:        a.RowIndex,
				ColIndex:        a.ColIndex,
				RowSpan:         a.RowSpan,
				ColSpan:         a.ColSpan,
				BackgroundColor: toColor(a.BackgroundColor),
			}
		}
	}
	return out
}

func isCellPath(path string) bool {
	segments := model.SplitPath(path)
	if len(segments) == 0 {
		return false
	}
	name := segments[len(segments)-1].Name
	return name == "TD" || name == "TH"
}

// toColor converts an [r, g, b] triple in 0..1 to a Color
func toColor(rgb []float64) *model.Color {
	if len(rgb) != 3 {
		return nil
	}
	channel := func(v float64) uint8 {
		return uint8(math.Round(min(max(v, 0), 1) * 255))
	}
	return &model.Color{R: channel(rgb[0]), G: channel(rgb[1]), B: channel(rgb[2])}
}

// flattenMetadata converts the service metadata to strings. Nested
// values are kept as compact JSON.
func flattenMetadata(in map[string]any) map[string]string {
	out := make(map[string]string, len(in))
	for k, value := range in {
		switch v := value.(type) {
		case nil:
			continue
		case string:
			out[k] = v
		case bool:
			out[k] = strconv.FormatBool(v)
		case float64:
			out[k] = strconv.FormatFloat(v, 'f', -1, 64)
		default:
			data, err := json.Marshal(v)
			if err != nil {
				continue
			}
			out[k] = string(data)
		}
	}
	return out
}
