package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/tsawler/docstruct"
	"github.com/tsawler/docstruct/model"
	"github.com/tsawler/docstruct/render"
)

// ReconstructInput is the input schema for the reconstruct tool.
type ReconstructInput struct {
	Path         string `json:"path" jsonschema:"path to a structuredData.json file or a zip archive holding one"`
	Format       string `json:"format,omitempty" jsonschema:"output format: html, markdown, json or text (default markdown)"`
	NumberBlocks bool   `json:"number_blocks,omitempty" jsonschema:"number blocks so they can be cited by anchor"`
}

// ReconstructOutput is the output schema for the reconstruct tool.
type ReconstructOutput struct {
	Format   string      `json:"format"`
	Content  string      `json:"content"`
	Stats    model.Stats `json:"stats"`
	Warnings []string    `json:"warnings,omitempty"`
}

// OutlineInput is the input schema for the outline tool.
type OutlineInput struct {
	Path string `json:"path" jsonschema:"path to a structuredData.json file or a zip archive holding one"`
}

// OutlineOutput is the output schema for the outline tool.
type OutlineOutput struct {
	Headings []OutlineEntry `json:"headings"`
	Count    int            `json:"count"`
}

// OutlineEntry is one heading of the outline.
type OutlineEntry struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
	Page  int    `json:"page"`
	Title bool   `json:"title,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "reconstruct",
		Description: "Rebuild a readable document (headings, paragraphs, lists, tables) from a PDF extraction result",
	}, s.handleReconstruct)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "outline",
		Description: "List the headings of a PDF extraction result in reading order",
	}, s.handleOutline)
}

// handleReconstruct handles the reconstruct tool invocation.
func (s *Server) handleReconstruct(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ReconstructInput,
) (*mcp.CallToolResult, ReconstructOutput, error) {
	name := input.Format
	if name == "" {
		name = render.FormatMarkdown.String()
	}
	format, err := render.ParseFormat(name)
	if err != nil {
		return nil, ReconstructOutput{}, err
	}

	ext := s.extractor(input.Path)
	if input.NumberBlocks {
		ext = ext.NumberBlocks()
	}
	doc, warnings, err := ext.Document(ctx)
	if err != nil {
		return nil, ReconstructOutput{}, fmt.Errorf("reconstructing %s: %w", input.Path, err)
	}

	content, err := render.Bytes(doc, format, s.cfg.RenderOptions())
	if err != nil {
		return nil, ReconstructOutput{}, err
	}

	output := ReconstructOutput{
		Format:  format.String(),
		Content: string(content),
		Stats:   doc.Stats(),
	}
	for _, w := range warnings {
		output.Warnings = append(output.Warnings, w.String())
	}
	return nil, output, nil
}

// handleOutline handles the outline tool invocation.
func (s *Server) handleOutline(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input OutlineInput,
) (*mcp.CallToolResult, OutlineOutput, error) {
	doc, _, err := s.extractor(input.Path).Document(ctx)
	if err != nil {
		return nil, OutlineOutput{}, fmt.Errorf("reconstructing %s: %w", input.Path, err)
	}

	output := OutlineOutput{Headings: []OutlineEntry{}}
	for _, h := range doc.Headings() {
		output.Headings = append(output.Headings, OutlineEntry{
			Level: h.Level,
			Text:  h.Text,
			Page:  h.Page,
			Title: h.IsTitle,
		})
	}
	output.Count = len(output.Headings)
	return nil, output, nil
}

func (s *Server) extractor(path string) *docstruct.Extractor {
	return docstruct.Open(path).
		WithConfig(s.cfg.AnalyzerConfig()).
		WithLogger(s.logger)
}
