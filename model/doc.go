// Package model provides the data structures shared by every stage of
// document reconstruction.
//
// # Input
//
// The extraction service produces a flat stream of [PositionedElement]
// values: a page index, an optional [BBox], a structural path, raw text and
// optional [Font], [CellAttrs] and [TableAttrs]. Classification turns each
// one into a [ClassifiedElement] carrying a [Role].
//
// # Output
//
// Reconstruction produces a [Document] holding [Block] values in reading
// order. The concrete block types are:
//
//   - [Heading] - titles and headings (levels 1-6)
//   - [Paragraph] - one or more lines of text
//   - [ListItem] - a list label merged with its body
//   - [Table] - a rectangular matrix of [Cell] values with row/column spans
//   - [Figure] - a figure placeholder with its caption
//   - [PageBreak] - the boundary between two source pages
//
// Every block embeds [BlockInfo], which records the page and reading
// position it was anchored at and the ids of the elements it absorbed.
//
// # Warnings
//
// Anomalies that are recovered locally are reported as [Warning] values
// rather than errors.
package model
