package render

import (
	"bytes"
	"fmt"
	"io"

	"github.com/tsawler/docstruct/model"
)

// Render writes doc to w in the given format
func Render(w io.Writer, doc *model.Document, format Format, opts Options) error {
	if doc == nil {
		return fmt.Errorf("render: nil document")
	}
	switch format {
	case FormatHTML:
		return WriteHTML(w, doc, opts)
	case FormatMarkdown:
		return WriteMarkdown(w, doc, opts)
	case FormatJSON:
		return WriteJSON(w, doc, opts)
	case FormatText:
		return WriteText(w, doc)
	}
	return fmt.Errorf("render: unsupported format %s", format)
}

// Bytes renders doc in the given format
func Bytes(doc *model.Document, format Format, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := Render(&buf, doc, format, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
