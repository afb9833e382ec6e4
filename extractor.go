package docstruct

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"time"

	"github.com/google/uuid"

	"github.com/tsawler/docstruct/layout"
	"github.com/tsawler/docstruct/model"
	"github.com/tsawler/docstruct/render"
	"github.com/tsawler/docstruct/source"
)

// Extractor provides a fluent interface for reconstructing documents.
// Each configuration method returns a new Extractor instance, making it
// safe for concurrent use and allowing method chaining.
type Extractor struct {
	// Input: a source, or elements already in memory
	src      source.Source
	elements []model.PositionedElement

	// Configuration
	options ExtractOptions

	// Accumulated error (fail-fast)
	err error
}

// clone creates a shallow copy of the Extractor with a deep copy of options.
func (e *Extractor) clone() *Extractor {
	return &Extractor{
		src:      e.src,
		elements: e.elements,
		options:  e.options.clone(),
		err:      e.err,
	}
}

// ============================================================================
// Configuration Methods (return new Extractor instance)
// ============================================================================

// WithConfig replaces the pipeline configuration. Options set by other
// chain methods (block numbering, logger) are applied on top of it.
//
// Example:
//
//	config := layout.DefaultAnalyzerConfig()
//	config.ParagraphConfig.ParagraphThreshold = 24
//	doc, _, err := docstruct.Open("result.json").WithConfig(config).Document(ctx)
func (e *Extractor) WithConfig(config layout.AnalyzerConfig) *Extractor {
	newExt := e.clone()
	numbered := newExt.options.config.NumberBlocks
	newExt.options.config = config
	newExt.options.config.NumberBlocks = config.NumberBlocks || numbered
	return newExt
}

// WithMetadata adds document metadata. Keys set here override the
// metadata reported by the extraction service. Multiple calls are
// cumulative.
func (e *Extractor) WithMetadata(metadata map[string]string) *Extractor {
	newExt := e.clone()
	if newExt.options.metadata == nil {
		newExt.options.metadata = make(map[string]string, len(metadata))
	}
	maps.Copy(newExt.options.metadata, metadata)
	return newExt
}

// NumberBlocks assigns anchors 1..N to content blocks. HTML output
// carries them as id="block-N".
func (e *Extractor) NumberBlocks() *Extractor {
	newExt := e.clone()
	newExt.options.config.NumberBlocks = true
	return newExt
}

// Sanitize passes HTML and Markdown output through the sanitizing policy.
func (e *Extractor) Sanitize() *Extractor {
	newExt := e.clone()
	newExt.options.render.Sanitize = true
	return newExt
}

// Standalone makes HTML output a complete page with a head carrying the
// document metadata.
func (e *Extractor) Standalone() *Extractor {
	newExt := e.clone()
	newExt.options.render.Standalone = true
	return newExt
}

// WithRenderOptions replaces the rendering options.
func (e *Extractor) WithRenderOptions(opts render.Options) *Extractor {
	newExt := e.clone()
	newExt.options.render = opts
	return newExt
}

// Sequential builds tables one at a time instead of in parallel.
func (e *Extractor) Sequential() *Extractor {
	newExt := e.clone()
	newExt.options.config.TableConfig.Parallel = false
	return newExt
}

// WithLogger sets the logger for the run. Each run adds a "run" attribute
// with a fresh id. Nil uses slog.Default().
func (e *Extractor) WithLogger(logger *slog.Logger) *Extractor {
	newExt := e.clone()
	newExt.options.logger = logger
	return newExt
}

// ============================================================================
// Terminal Operations (execute the pipeline and return results)
// ============================================================================

// Analyze runs the pipeline and returns the full analysis result,
// including the classified elements in reading order.
func (e *Extractor) Analyze(ctx context.Context) (*layout.AnalysisResult, error) {
	if e.err != nil {
		return nil, e.err
	}

	elements, metadata, err := e.load(ctx)
	if err != nil {
		return nil, err
	}

	logger := e.options.logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("run", uuid.NewString())

	config := e.options.config
	config.Logger = logger

	start := time.Now()
	result, err := layout.NewAnalyzerWithConfig(config).Analyze(ctx, elements, metadata)
	if err != nil {
		logger.Debug("reconstruction failed", "elements", len(elements), "error", err)
		return nil, err
	}

	stats := result.Document.Stats()
	logger.Debug("reconstructed document",
		"elements", len(elements),
		"blocks", len(result.Document.Blocks),
		"pages", stats.Pages,
		"tables", stats.Tables,
		"warnings", len(result.Warnings),
		"elapsed", time.Since(start))
	return result, nil
}

// Document runs the pipeline and returns the reconstructed document.
//
// Returns the document, the warnings recovered during processing, and an
// error if reconstruction failed. Warnings indicate non-fatal issues
// (e.g., a table cell without coordinates) where reconstruction
// succeeded but results may be imperfect.
//
// Example:
//
//	doc, warnings, err := docstruct.Open("structuredData.json").Document(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, h := range doc.Headings() {
//	    fmt.Println(h.Level, h.Text)
//	}
func (e *Extractor) Document(ctx context.Context) (*model.Document, []Warning, error) {
	result, err := e.Analyze(ctx)
	if err != nil {
		return nil, nil, err
	}
	return result.Document, result.Warnings, nil
}

// HTML runs the pipeline and renders the document as HTML.
func (e *Extractor) HTML(ctx context.Context) (string, []Warning, error) {
	data, warnings, err := e.renderBytes(ctx, render.FormatHTML)
	return string(data), warnings, err
}

// Markdown runs the pipeline and renders the document as Markdown.
func (e *Extractor) Markdown(ctx context.Context) (string, []Warning, error) {
	data, warnings, err := e.renderBytes(ctx, render.FormatMarkdown)
	return string(data), warnings, err
}

// JSON runs the pipeline and renders the document as JSON.
func (e *Extractor) JSON(ctx context.Context) ([]byte, []Warning, error) {
	return e.renderBytes(ctx, render.FormatJSON)
}

// Text runs the pipeline and returns the plain text of the document.
func (e *Extractor) Text(ctx context.Context) (string, []Warning, error) {
	data, warnings, err := e.renderBytes(ctx, render.FormatText)
	return string(data), warnings, err
}

// Render runs the pipeline and writes the document to w in the given
// format.
func (e *Extractor) Render(ctx context.Context, w io.Writer, format render.Format) ([]Warning, error) {
	doc, warnings, err := e.Document(ctx)
	if err != nil {
		return nil, err
	}
	if err := render.Render(w, doc, format, e.options.render); err != nil {
		return warnings, fmt.Errorf("rendering %s: %w", format, err)
	}
	return warnings, nil
}

func (e *Extractor) renderBytes(ctx context.Context, format render.Format) ([]byte, []Warning, error) {
	var buf bytes.Buffer
	warnings, err := e.Render(ctx, &buf, format)
	if err != nil {
		return nil, warnings, err
	}
	return buf.Bytes(), warnings, nil
}

// load returns the elements and metadata for the run
func (e *Extractor) load(ctx context.Context) ([]model.PositionedElement, map[string]string, error) {
	elements := e.elements
	metadata := make(map[string]string)

	if e.src != nil {
		payload, err := e.src.Load(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("loading elements: %w", err)
		}
		elements = payload.Elements
		maps.Copy(metadata, payload.Metadata)
	}
	maps.Copy(metadata, e.options.metadata)
	return elements, metadata, nil
}
