package layout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/tsawler/docstruct/model"
	"github.com/tsawler/docstruct/tables"
)

// ErrEmptyInput is returned when there are no elements to reconstruct
var ErrEmptyInput = errors.New("layout: empty element stream")

// AnalyzerConfig holds configuration for every stage of the pipeline
type AnalyzerConfig struct {
	// Reading order configuration
	ReadingOrderConfig ReadingOrderConfig

	// Classification configuration
	ClassifierConfig ClassifierConfig

	// Table reconstruction configuration
	TableConfig tables.Config

	// List merging configuration
	ListConfig ListConfig

	// Paragraph segmentation configuration
	ParagraphConfig ParagraphConfig

	// NumberBlocks assigns anchors 1..N to content blocks
	NumberBlocks bool

	// Logger receives stage summaries at debug level. Nil uses slog.Default().
	Logger *slog.Logger
}

// DefaultAnalyzerConfig returns a configuration with sensible defaults for
// every stage
func DefaultAnalyzerConfig() AnalyzerConfig {
	return AnalyzerConfig{
		ReadingOrderConfig: DefaultReadingOrderConfig(),
		ClassifierConfig:   DefaultClassifierConfig(),
		TableConfig:        tables.DefaultConfig(),
		ListConfig:         DefaultListConfig(),
		ParagraphConfig:    DefaultParagraphConfig(),
	}
}

// AnalysisResult holds the reconstructed document and what was recovered
// along the way
type AnalysisResult struct {
	Document *model.Document

	// Warnings lists every locally recovered anomaly, in stage order
	Warnings []model.Warning

	// Elements are the classified elements in reading order
	Elements []model.ClassifiedElement
}

// Analyzer runs the reconstruction pipeline: ordering, classification,
// tables, lists, paragraphs and final assembly
type Analyzer struct {
	config AnalyzerConfig
	logger *slog.Logger
}

// NewAnalyzer creates an analyzer with default configuration
func NewAnalyzer() *Analyzer {
	return NewAnalyzerWithConfig(DefaultAnalyzerConfig())
}

// NewAnalyzerWithConfig creates an analyzer with custom configuration
func NewAnalyzerWithConfig(config AnalyzerConfig) *Analyzer {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{config: config, logger: logger}
}

// Analyze reconstructs a document from elements. Only an empty input is an
// error; every other anomaly is recovered and reported as a warning.
// Metadata is copied into the document unchanged.
func (a *Analyzer) Analyze(ctx context.Context, elements []model.PositionedElement, metadata map[string]string) (*AnalysisResult, error) {
	if len(elements) == 0 {
		return nil, ErrEmptyInput
	}

	// Stage 1: reading order
	ordering := NewReadingOrderDetectorWithConfig(a.config.ReadingOrderConfig).Detect(elements)
	classified := ordering.Elements

	// Stage 2: classification
	warnings := NewClassifierWithConfig(a.config.ClassifierConfig).ClassifyAll(classified)
	a.logger.Debug("classified elements", "elements", len(classified), "pages", ordering.PageCount)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 3: tables
	tbls, remaining, tableWarnings, err := tables.NewReconstructorWithConfig(a.config.TableConfig).Reconstruct(ctx, classified)
	if err != nil {
		return nil, fmt.Errorf("reconstructing tables: %w", err)
	}
	warnings = append(warnings, tableWarnings...)

	// Stage 4: lists
	items, remaining, listWarnings := NewListMergerWithConfig(a.config.ListConfig).Merge(remaining)
	warnings = append(warnings, listWarnings...)

	// Stage 5: paragraphs
	blocks, segWarnings := NewSegmenterWithConfig(a.config.ParagraphConfig).Segment(remaining)
	warnings = append(warnings, segWarnings...)

	a.logger.Debug("built blocks",
		"tables", len(tbls),
		"list_items", len(items),
		"segments", len(blocks),
	)

	for _, t := range tbls {
		blocks = append(blocks, t)
	}
	for _, item := range items {
		blocks = append(blocks, item)
	}

	// Stage 6: assembly
	doc := a.assemble(blocks, ordering.PageCount, metadata)

	for _, w := range warnings {
		a.logger.Debug("recovered", "kind", w.Kind.String(), "element", w.ElementID, "page", w.Page, "msg", w.Message)
	}

	return &AnalysisResult{
		Document: doc,
		Warnings: warnings,
		Elements: classified,
	}, nil
}

// assemble orders blocks by (page, position), inserts one page break per
// page transition and numbers content blocks when configured
func (a *Analyzer) assemble(blocks []model.Block, pageCount int, metadata map[string]string) *model.Document {
	sort.SliceStable(blocks, func(i, j int) bool {
		bi, bj := blocks[i].Info(), blocks[j].Info()
		if bi.Page != bj.Page {
			return bi.Page < bj.Page
		}
		return bi.Position < bj.Position
	})

	doc := model.NewDocument()
	doc.PageCount = pageCount
	for k, v := range metadata {
		doc.Metadata[k] = v
	}

	anchor := 0
	for i, b := range blocks {
		info := b.Info()
		if i > 0 {
			prev := blocks[i-1].Info()
			if prev.Page != info.Page {
				doc.Append(&model.PageBreak{
					BlockInfo: model.BlockInfo{Page: info.Page, Position: info.Position},
					FromPage:  prev.Page,
					ToPage:    info.Page,
				})
			}
		}
		if a.config.NumberBlocks {
			anchor++
			info.Anchor = anchor
		}
		doc.Append(b)
	}
	return doc
}
