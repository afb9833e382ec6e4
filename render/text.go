package render

import (
	"io"
	"strings"

	"github.com/tsawler/docstruct/model"
)

// Text renders the document as plain text. Blocks are separated by a
// blank line, tables are tab separated and page breaks become a form feed.
func Text(doc *model.Document) string {
	var sb strings.Builder
	for i, b := range doc.Blocks {
		if i > 0 {
			sb.WriteString("\n")
		}
		switch b := b.(type) {
		case *model.PageBreak:
			sb.WriteString("\f\n")
		case *model.Table:
			sb.WriteString(b.GetText())
		case model.TextBlock:
			sb.WriteString(b.GetText())
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// WriteText writes the plain text rendering of doc to w
func WriteText(w io.Writer, doc *model.Document) error {
	_, err := io.WriteString(w, Text(doc))
	return err
}
