package render

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strconv"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/tsawler/docstruct/model"
)

var headingAtoms = [...]atom.Atom{atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6}

// HTML renders the document as an HTML fragment, or as a complete page
// when opts.Standalone is set.
func HTML(doc *model.Document, opts Options) (string, error) {
	var buf bytes.Buffer
	if err := WriteHTML(&buf, doc, opts); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WriteHTML writes the HTML rendering of doc to w
func WriteHTML(w io.Writer, doc *model.Document, opts Options) error {
	body, err := fragment(doc)
	if err != nil {
		return err
	}
	if opts.Sanitize {
		body = sanitizer().Sanitize(body)
	}
	if !opts.Standalone {
		_, err = io.WriteString(w, body)
		return err
	}

	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html>\n<html>\n")
	if err := html.Render(&buf, head(doc)); err != nil {
		return fmt.Errorf("rendering head: %w", err)
	}
	buf.WriteString("\n<body>\n")
	buf.WriteString(body)
	buf.WriteString("</body>\n</html>\n")
	_, err = w.Write(buf.Bytes())
	return err
}

// TableHTML renders a single table as an HTML fragment
func TableHTML(t *model.Table) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, tableNode(t)); err != nil {
		return "", fmt.Errorf("rendering table: %w", err)
	}
	return buf.String(), nil
}

// fragment renders every block, one top-level node per line
func fragment(doc *model.Document) (string, error) {
	var buf bytes.Buffer
	for _, n := range nodes(doc) {
		if err := html.Render(&buf, n); err != nil {
			return "", fmt.Errorf("rendering %s: %w", n.Data, err)
		}
		buf.WriteByte('\n')
	}
	return buf.String(), nil
}

// nodes converts the block sequence into top-level HTML nodes. Runs of
// consecutive list items are grouped into a single list.
func nodes(doc *model.Document) []*html.Node {
	var out []*html.Node
	var list listBuilder

	for _, b := range doc.Blocks {
		if item, ok := b.(*model.ListItem); ok {
			if root := list.add(item); root != nil {
				out = append(out, root)
			}
			continue
		}
		if root := list.close(); root != nil {
			out = append(out, root)
		}
		if n := blockNode(b); n != nil {
			out = append(out, n)
		}
	}
	if root := list.close(); root != nil {
		out = append(out, root)
	}
	return out
}

func blockNode(b model.Block) *html.Node {
	var n *html.Node
	switch b := b.(type) {
	case *model.Heading:
		n = headingNode(b)
	case *model.Paragraph:
		n = paragraphNode(b)
	case *model.Table:
		n = tableNode(b)
	case *model.Figure:
		n = figureNode(b)
	case *model.PageBreak:
		n = element(atom.Hr,
			attr("class", "page-break"),
			attr("data-from-page", strconv.Itoa(b.FromPage)),
			attr("data-to-page", strconv.Itoa(b.ToPage)))
	default:
		return nil
	}
	setAnchor(n, b.Info())
	return n
}

func headingNode(h *model.Heading) *html.Node {
	level := min(max(h.Level, 1), len(headingAtoms))
	n := element(headingAtoms[level-1])
	if h.IsTitle {
		n.Attr = append(n.Attr, attr("class", "title"))
	}
	// headings are bold already
	italic := h.Style != nil && h.Style.Italic
	n.AppendChild(styled(h.Text, &model.TextStyle{Italic: italic}))
	return n
}

func paragraphNode(p *model.Paragraph) *html.Node {
	n := element(atom.P)
	if p.RTL {
		n.Attr = append(n.Attr, attr("dir", "rtl"))
	}
	for i, line := range p.Lines {
		if i > 0 {
			n.AppendChild(element(atom.Br))
		}
		n.AppendChild(textNode(line))
	}
	return n
}

func tableNode(t *model.Table) *html.Node {
	table := element(atom.Table)
	rows := t.Rows
	if t.HasHeader() {
		thead := element(atom.Thead)
		thead.AppendChild(rowNode(rows[0]))
		table.AppendChild(thead)
		rows = rows[1:]
	}
	if len(rows) > 0 {
		tbody := element(atom.Tbody)
		for _, row := range rows {
			tbody.AppendChild(rowNode(row))
		}
		table.AppendChild(tbody)
	}
	return table
}

func rowNode(row []model.Cell) *html.Node {
	tr := element(atom.Tr)
	for i := range row {
		tr.AppendChild(cellNode(&row[i]))
	}
	return tr
}

func cellNode(c *model.Cell) *html.Node {
	n := element(atom.Td)
	if c.IsHeader {
		n = element(atom.Th)
	}
	if c.Placeholder {
		n.Attr = append(n.Attr, attr("class", "placeholder"))
		return n
	}
	if c.RowSpan > 1 {
		n.Attr = append(n.Attr, attr("rowspan", strconv.Itoa(c.RowSpan)))
	}
	if c.ColSpan > 1 {
		n.Attr = append(n.Attr, attr("colspan", strconv.Itoa(c.ColSpan)))
	}
	if bg := c.Style.BackgroundColor; bg != nil {
		n.Attr = append(n.Attr, attr("style", "background-color: "+bg.Hex()))
	}
	if c.Text != "" {
		n.AppendChild(styled(c.Text, c.Style.TextStyle))
	}
	return n
}

func figureNode(f *model.Figure) *html.Node {
	n := element(atom.Figure)
	n.AppendChild(element(atom.Div, attr("class", "figure-placeholder")))
	if f.Caption != "" {
		caption := element(atom.Figcaption)
		caption.AppendChild(textNode(f.Caption))
		n.AppendChild(caption)
	}
	return n
}

// styled wraps text in strong/em when the style asks for it
func styled(text string, style *model.TextStyle) *html.Node {
	n := textNode(text)
	if style == nil {
		return n
	}
	if style.Italic {
		em := element(atom.Em)
		em.AppendChild(n)
		n = em
	}
	if style.Bold {
		strong := element(atom.Strong)
		strong.AppendChild(n)
		n = strong
	}
	return n
}

// listBuilder groups consecutive list items into nested ul/ol elements.
// stack[i] is the open list at nesting level i.
type listBuilder struct {
	stack []*html.Node
}

// add appends item to the open list. When the item cannot continue the
// open list, the finished list is returned and a new one is started.
func (lb *listBuilder) add(item *model.ListItem) *html.Node {
	var done *html.Node
	if len(lb.stack) > 0 && item.Level == 0 && lb.stack[0].DataAtom != listAtom(item.Ordered) {
		done = lb.close()
	}
	if len(lb.stack) == 0 {
		lb.stack = []*html.Node{element(listAtom(item.Ordered))}
	}

	for item.Level > len(lb.stack)-1 {
		parent := lb.stack[len(lb.stack)-1]
		li := parent.LastChild
		if li == nil {
			li = element(atom.Li)
			parent.AppendChild(li)
		}
		nested := element(listAtom(item.Ordered))
		li.AppendChild(nested)
		lb.stack = append(lb.stack, nested)
	}
	lb.stack = lb.stack[:item.Level+1]
	lb.stack[item.Level].AppendChild(listItemNode(item))
	return done
}

// close returns the finished list, or nil when no list is open
func (lb *listBuilder) close() *html.Node {
	if len(lb.stack) == 0 {
		return nil
	}
	root := lb.stack[0]
	lb.stack = nil
	return root
}

func listAtom(ordered bool) atom.Atom {
	if ordered {
		return atom.Ol
	}
	return atom.Ul
}

func listItemNode(item *model.ListItem) *html.Node {
	li := element(atom.Li)
	setAnchor(li, &item.BlockInfo)
	if item.Label == "" {
		li.AppendChild(textNode(item.Text))
		return li
	}
	label := element(atom.Span, attr("class", "label"))
	label.AppendChild(textNode(item.Label))
	li.AppendChild(label)
	if item.Body != "" {
		li.AppendChild(textNode(" " + item.Body))
	}
	return li
}

// head builds the page head: charset, title and one meta tag per
// metadata key in sorted order
func head(doc *model.Document) *html.Node {
	n := element(atom.Head)
	n.AppendChild(element(atom.Meta, attr("charset", "utf-8")))

	title := element(atom.Title)
	title.AppendChild(textNode(documentTitle(doc)))
	n.AppendChild(title)

	keys := make([]string, 0, len(doc.Metadata))
	for k := range doc.Metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		n.AppendChild(element(atom.Meta, attr("name", k), attr("content", doc.Metadata[k])))
	}
	return n
}

// documentTitle prefers the metadata title, then the first title heading
func documentTitle(doc *model.Document) string {
	if t := doc.Metadata["title"]; t != "" {
		return t
	}
	for _, h := range doc.Headings() {
		if h.IsTitle {
			return h.Text
		}
	}
	return "Document"
}

func setAnchor(n *html.Node, info *model.BlockInfo) {
	if info.Anchor > 0 {
		n.Attr = append(n.Attr, attr("id", anchorID(info.Anchor)))
	}
}

func anchorID(anchor int) string {
	return "block-" + strconv.Itoa(anchor)
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func attr(key, val string) html.Attribute {
	return html.Attribute{Key: key, Val: val}
}
