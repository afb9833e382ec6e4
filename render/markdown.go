package render

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"

	"github.com/tsawler/docstruct/model"
)

var markdownConverter = sync.OnceValue(func() *converter.Converter {
	return converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
})

// Markdown renders the document as Markdown by converting its HTML
// rendering. Standalone is ignored.
func Markdown(doc *model.Document, opts Options) (string, error) {
	opts.Standalone = false
	fragment, err := HTML(doc, opts)
	if err != nil {
		return "", err
	}
	md, err := markdownConverter().ConvertString(fragment)
	if err != nil {
		return "", fmt.Errorf("converting to markdown: %w", err)
	}
	return strings.TrimSpace(md) + "\n", nil
}

// WriteMarkdown writes the Markdown rendering of doc to w
func WriteMarkdown(w io.Writer, doc *model.Document, opts Options) error {
	md, err := Markdown(doc, opts)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, md)
	return err
}
