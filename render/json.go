package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/tsawler/docstruct/model"
)

// jsonDocument is the wire form of a document
type jsonDocument struct {
	PageCount int               `json:"page_count"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	Stats     model.Stats       `json:"stats"`
	Blocks    []jsonBlock       `json:"blocks"`
}

// jsonBlock is a tagged union over the block kinds. Kind selects which of
// the optional fields are set.
type jsonBlock struct {
	Kind       string `json:"kind"`
	Page       int    `json:"page"`
	Position   int    `json:"position"`
	Anchor     int    `json:"anchor,omitempty"`
	ElementIDs []int  `json:"element_ids"`

	Level   int      `json:"level,omitempty"`
	Title   bool     `json:"title,omitempty"`
	Text    string   `json:"text,omitempty"`
	Lines   []string `json:"lines,omitempty"`
	RTL     bool     `json:"rtl,omitempty"`
	Label   string   `json:"label,omitempty"`
	Body    string   `json:"body,omitempty"`
	Ordered bool     `json:"ordered,omitempty"`
	Caption string   `json:"caption,omitempty"`

	Columns int          `json:"columns,omitempty"`
	Rows    [][]jsonCell `json:"rows,omitempty"`

	FromPage *int `json:"from_page,omitempty"`
	ToPage   *int `json:"to_page,omitempty"`
}

type jsonCell struct {
	Text        string `json:"text"`
	Row         int    `json:"row"`
	Col         int    `json:"col"`
	RowSpan     int    `json:"row_span"`
	ColSpan     int    `json:"col_span"`
	Header      bool   `json:"header,omitempty"`
	Placeholder bool   `json:"placeholder,omitempty"`
	Background  string `json:"background,omitempty"`
}

// JSON renders the document as JSON
func JSON(doc *model.Document, opts Options) ([]byte, error) {
	out := jsonDocument{
		PageCount: doc.PageCount,
		Metadata:  doc.Metadata,
		Stats:     doc.Stats(),
		Blocks:    make([]jsonBlock, 0, len(doc.Blocks)),
	}
	for _, b := range doc.Blocks {
		out.Blocks = append(out.Blocks, toJSONBlock(b))
	}

	var data []byte
	var err error
	if opts.Indent {
		data, err = json.MarshalIndent(out, "", "  ")
	} else {
		data, err = json.Marshal(out)
	}
	if err != nil {
		return nil, fmt.Errorf("encoding document: %w", err)
	}
	return append(data, '\n'), nil
}

// WriteJSON writes the JSON rendering of doc to w
func WriteJSON(w io.Writer, doc *model.Document, opts Options) error {
	data, err := JSON(doc, opts)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func toJSONBlock(b model.Block) jsonBlock {
	info := b.Info()
	out := jsonBlock{
		Kind:       b.Kind().String(),
		Page:       info.Page,
		Position:   info.Position,
		Anchor:     info.Anchor,
		ElementIDs: info.ElementIDs,
	}
	if out.ElementIDs == nil {
		out.ElementIDs = []int{}
	}

	switch b := b.(type) {
	case *model.Heading:
		out.Level = b.Level
		out.Title = b.IsTitle
		out.Text = b.Text
	case *model.Paragraph:
		out.Lines = b.Lines
		out.RTL = b.RTL
	case *model.ListItem:
		out.Text = b.Text
		out.Label = b.Label
		out.Body = b.Body
		out.Ordered = b.Ordered
		out.Level = b.Level
	case *model.Figure:
		out.Caption = b.Caption
	case *model.Table:
		out.Columns = b.ColCount
		out.Rows = make([][]jsonCell, len(b.Rows))
		for i, row := range b.Rows {
			out.Rows[i] = make([]jsonCell, len(row))
			for j, c := range row {
				out.Rows[i][j] = jsonCell{
					Text:        c.Text,
					Row:         c.Row,
					Col:         c.Col,
					RowSpan:     c.RowSpan,
					ColSpan:     c.ColSpan,
					Header:      c.IsHeader,
					Placeholder: c.Placeholder,
				}
				if bg := c.Style.BackgroundColor; bg != nil {
					out.Rows[i][j].Background = bg.Hex()
				}
			}
		}
	case *model.PageBreak:
		out.FromPage = &b.FromPage
		out.ToPage = &b.ToPage
	}
	return out
}
