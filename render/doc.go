// Package render turns a reconstructed document into markup.
//
// HTML is the primary output. The renderer builds a golang.org/x/net/html
// node tree for every block and serializes it with html.Render, so the
// output is always well formed and escaping is handled by the parser
// package:
//
//	html, err := render.HTML(doc, render.DefaultOptions())
//
// Markdown is produced by converting that HTML with html-to-markdown, JSON
// emits one typed object per block and Text emits the plain text content.
// All renderers are pure: rendering the same document twice produces
// byte-identical output.
//
// # Sanitizing
//
// With Options.Sanitize the HTML is passed through a bluemonday policy
// that keeps the structural markup produced here (tables with spans,
// figures, page breaks, block anchors) and drops anything else.
package render
