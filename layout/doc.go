// Package layout reconstructs document structure from a flat stream of
// positioned elements.
//
// The extraction service reports every piece of content as an element with
// a page, an optional bounding box, a structural path and its text. This
// package orders those elements, assigns each a role from its path, and
// groups them into headings, paragraphs, list items, tables and figures.
//
// # Layout Analysis
//
// The [Analyzer] runs every stage in order:
//
//	analyzer := layout.NewAnalyzer()
//	result, err := analyzer.Analyze(ctx, elements, metadata)
//	if errors.Is(err, layout.ErrEmptyInput) {
//	    // nothing to reconstruct
//	}
//
// Each stage takes the elements nobody has claimed yet and returns its
// blocks plus what it left behind, so an element ends up in exactly one
// block.
//
// # Stages
//
//   - [ReadingOrderDetector] - sorts by page, then top to bottom
//   - [Classifier] - assigns a [model.Role] from the element path
//   - [tables.Reconstructor] - resolves table containers into matrices
//   - [ListMerger] - pairs list labels with their bodies
//   - [Segmenter] - splits the rest into lines and paragraphs
//
// The analyzer then orders all blocks by (page, position) and inserts a
// page break between blocks on different pages.
//
// # Configuration
//
// Each stage can be configured independently:
//
//	config := layout.DefaultAnalyzerConfig()
//	config.ParagraphConfig.ParagraphThreshold = 24
//	config.ListConfig.LookAhead = 10
//	config.NumberBlocks = true
//	analyzer := layout.NewAnalyzerWithConfig(config)
//
// # Warnings
//
// Malformed table cells, list labels without a body and elements without
// geometry are recovered locally and reported in [AnalysisResult.Warnings].
package layout
