package render

import (
	"fmt"
	"strings"
)

// Format identifies an output format
type Format int

const (
	FormatHTML Format = iota
	FormatMarkdown
	FormatJSON
	FormatText
)

// String returns the canonical name of the format
func (f Format) String() string {
	switch f {
	case FormatHTML:
		return "html"
	case FormatMarkdown:
		return "markdown"
	case FormatJSON:
		return "json"
	case FormatText:
		return "text"
	default:
		return "unknown"
	}
}

// Extension returns the file extension for the format, including the dot
func (f Format) Extension() string {
	switch f {
	case FormatHTML:
		return ".html"
	case FormatMarkdown:
		return ".md"
	case FormatJSON:
		return ".json"
	default:
		return ".txt"
	}
}

// ContentType returns the MIME type for the format
func (f Format) ContentType() string {
	switch f {
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatJSON:
		return "application/json"
	default:
		return "text/plain; charset=utf-8"
	}
}

// ParseFormat parses a format name. Common aliases are accepted.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "html", "htm":
		return FormatHTML, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	case "text", "txt", "plain":
		return FormatText, nil
	}
	return FormatHTML, fmt.Errorf("unknown format %q", s)
}
