// Package tables rebuilds tables from the container and cell elements of a
// classified element stream.
//
// The extraction service reports a table as one container element plus one
// element per cell carrying explicit matrix coordinates. Cell text usually
// arrives as separate runs below the cell's path. A [Reconstructor] groups
// the elements of each container by path, joins the runs into their cells
// and resolves the matrix:
//
//	rec := tables.NewReconstructor()
//	tbls, remaining, warnings, err := rec.Reconstruct(ctx, elements)
//
// # Matrix
//
// Tables are resolved in a dense rows x cols arena with a parallel covered
// grid. The column count is derived from the cells (1 + max(colIndex +
// colSpan - 1)); the row count is the larger of the declared row count and
// the highest row index plus one. Once finalized, every coordinate is
// either a rendered cell, a position covered by an earlier cell's span, or
// an explicit placeholder, so every row of a [model.Table] has the same
// width.
//
// Spans that would run past the matrix, or into a coordinate already
// covered, are clipped. The matrix never grows past Config.MaxRows by
// Config.MaxCols; cells placed beyond it are returned to the pool as text
// with a MalformedTableAttrs warning. A cell placed at a taken coordinate gives its text
// to the cell that owns it.
//
// # Configuration
//
//	config := tables.DefaultConfig()
//	config.Parallel = false
//	rec := tables.NewReconstructorWithConfig(config)
//
// Independent tables are built concurrently when Parallel is set; the
// result is ordered by reading position either way.
package tables
