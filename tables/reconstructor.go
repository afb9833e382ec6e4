package tables

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/tsawler/docstruct/model"
	"github.com/tsawler/docstruct/text"
)

// Config holds reconstructor configuration
type Config struct {
	// HeaderCellMarker is the path segment that marks a header cell.
	// Default: "TH"
	HeaderCellMarker string

	// Parallel builds independent tables concurrently
	Parallel bool

	// MaxWorkers bounds the number of tables built at once. Default: 4
	MaxWorkers int

	// MaxRows bounds the matrix height. Cells at or past it are treated as
	// text and declared row counts are clamped to it. Default: 5000
	MaxRows int

	// MaxCols bounds the matrix width. Cells at or past it are treated as
	// text and spans are clipped to it. Default: 256
	MaxCols int
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		HeaderCellMarker: "TH",
		Parallel:         true,
		MaxWorkers:       4,
		MaxRows:          5000,
		MaxCols:          256,
	}
}

// limits returns the matrix bounds, falling back to the defaults for unset
// values
func (c Config) limits() (rows, cols int) {
	d := DefaultConfig()
	rows, cols = c.MaxRows, c.MaxCols
	if rows <= 0 {
		rows = d.MaxRows
	}
	if cols <= 0 {
		cols = d.MaxCols
	}
	return rows, cols
}

// Reconstructor turns table containers and their descendant cells into
// table blocks
type Reconstructor struct {
	config Config
}

// NewReconstructor creates a reconstructor with default configuration
func NewReconstructor() *Reconstructor {
	return &Reconstructor{config: DefaultConfig()}
}

// NewReconstructorWithConfig creates a reconstructor with custom configuration
func NewReconstructorWithConfig(config Config) *Reconstructor {
	return &Reconstructor{config: config}
}

// group is one table container with everything found below its path
type group struct {
	container    model.ClassifiedElement
	declaredRows int
	absorbed     []int // duplicate container ids
	members      []model.ClassifiedElement
}

// Reconstruct builds one table per distinct container path. It returns the
// tables ordered by position and the elements it did not absorb, still in
// reading order. Elements below a container but outside every cell are
// left in the pool when they carry text, as are cells outside the matrix
// bounds.
func (r *Reconstructor) Reconstruct(ctx context.Context, elements []model.ClassifiedElement) ([]*model.Table, []model.ClassifiedElement, []model.Warning, error) {
	groups, byPath := r.collectContainers(elements)
	if len(groups) == 0 {
		return nil, elements, nil, nil
	}

	var remaining []model.ClassifiedElement
	for _, e := range elements {
		if e.Role == model.RoleTableContainer {
			continue
		}
		if g := deepestAncestor(model.CanonicalPath(e.Path), byPath); g >= 0 {
			groups[g].members = append(groups[g].members, e)
			continue
		}
		remaining = append(remaining, e)
	}

	tables := make([]*model.Table, len(groups))
	leftovers := make([][]model.ClassifiedElement, len(groups))
	rejected := make([][]model.Warning, len(groups))
	build := func(i int) {
		tables[i], leftovers[i], rejected[i] = r.build(groups[i])
	}

	if r.config.Parallel && len(groups) > 1 {
		eg, egCtx := errgroup.WithContext(ctx)
		if r.config.MaxWorkers > 0 {
			eg.SetLimit(r.config.MaxWorkers)
		}
		for i := range groups {
			eg.Go(func() error {
				if err := egCtx.Err(); err != nil {
					return err
				}
				build(i)
				return nil
			})
		}
		if err := eg.Wait(); err != nil {
			return nil, nil, nil, err
		}
	} else {
		for i := range groups {
			if err := ctx.Err(); err != nil {
				return nil, nil, nil, err
			}
			build(i)
		}
	}

	var warnings []model.Warning
	for i, l := range leftovers {
		remaining = append(remaining, l...)
		warnings = append(warnings, rejected[i]...)
	}
	sort.SliceStable(remaining, func(i, j int) bool { return remaining[i].Position < remaining[j].Position })
	sort.SliceStable(tables, func(i, j int) bool { return tables[i].Position < tables[j].Position })

	return tables, remaining, warnings, nil
}

// collectContainers returns one group per canonical container path, in
// reading order. Later containers with an already seen path are absorbed
// into the first.
func (r *Reconstructor) collectContainers(elements []model.ClassifiedElement) ([]*group, map[string]int) {
	var groups []*group
	byPath := make(map[string]int)
	for _, e := range elements {
		if e.Role != model.RoleTableContainer {
			continue
		}
		path := model.CanonicalPath(e.Path)
		if i, ok := byPath[path]; ok {
			groups[i].absorbed = append(groups[i].absorbed, e.ID)
			if e.Table != nil {
				groups[i].declaredRows = max(groups[i].declaredRows, e.Table.DeclaredRowCount)
			}
			continue
		}
		byPath[path] = len(groups)
		g := &group{container: e}
		if e.Table != nil {
			g.declaredRows = e.Table.DeclaredRowCount
		}
		groups = append(groups, g)
	}
	return groups, byPath
}

// deepestAncestor walks up path and returns the value stored for the first
// strict ancestor found in index, or -1
func deepestAncestor(path string, index map[string]int) int {
	for i := len(path) - 1; i > 2; i-- {
		if path[i] != '/' {
			continue
		}
		if v, ok := index[path[:i]]; ok {
			return v
		}
	}
	return -1
}

// build resolves one group into a table
func (r *Reconstructor) build(g *group) (*model.Table, []model.ClassifiedElement, []model.Warning) {
	table := &model.Table{
		BlockInfo: model.BlockInfo{
			Page:       g.container.Page,
			Position:   g.container.Position,
			ElementIDs: append([]int{g.container.ID}, g.absorbed...),
		},
	}

	maxRows, maxCols := r.config.limits()

	// Cells first, so runs can find their owner by path
	var (
		cells    []*cellBuilder
		warnings []model.Warning
	)
	cellByPath := make(map[string]int)
	for i := range g.members {
		e := &g.members[i]
		if e.Position < table.Position {
			table.Position, table.Page = e.Position, e.Page
		}
		if e.Role != model.RoleTableCell {
			continue
		}
		if row, col := *e.Cell.RowIndex, *e.Cell.ColIndex; row >= maxRows || col >= maxCols {
			e.Role = model.RolePlainText
			warnings = append(warnings, model.Warning{
				Kind:      model.WarningMalformedTableAttrs,
				ElementID: e.ID,
				Page:      e.Page,
				Message:   fmt.Sprintf("cell %s at (%d, %d) is outside the %dx%d table limit, treated as text", e.Path, row, col, maxRows, maxCols),
			})
			continue
		}
		path := model.CanonicalPath(e.Path)
		if _, ok := cellByPath[path]; !ok {
			cellByPath[path] = len(cells)
		}
		cells = append(cells, &cellBuilder{elem: e, header: r.isHeaderCell(path)})
	}

	var leftover []model.ClassifiedElement
	for i := range g.members {
		e := &g.members[i]
		if e.Role == model.RoleTableCell {
			table.ElementIDs = append(table.ElementIDs, e.ID)
			continue
		}
		owner := deepestAncestor(model.CanonicalPath(e.Path), cellByPath)
		if owner < 0 {
			if e.Text != "" {
				leftover = append(leftover, *e)
				continue
			}
			table.ElementIDs = append(table.ElementIDs, e.ID)
			continue
		}
		table.ElementIDs = append(table.ElementIDs, e.ID)
		cells[owner].runs = append(cells[owner].runs, e)
	}

	if len(cells) == 0 {
		return table, leftover, warnings
	}

	rows, cols := min(g.declaredRows, maxRows), 0
	for _, c := range cells {
		row, col := *c.elem.Cell.RowIndex, *c.elem.Cell.ColIndex
		rows = max(rows, row+1)
		cols = max(cols, min(col+span(c.elem.Cell.ColSpan), maxCols))
	}

	m := newMatrix(rows, cols)
	for _, c := range cells {
		m.place(c.cell())
	}
	table.Rows = m.finalize()
	table.ColCount = cols
	return table, leftover, warnings
}

func (r *Reconstructor) isHeaderCell(path string) bool {
	for _, s := range model.SplitPath(path) {
		if s.Name == r.config.HeaderCellMarker {
			return true
		}
	}
	return false
}

// cellBuilder collects a cell element and the text runs below it
type cellBuilder struct {
	elem   *model.ClassifiedElement
	runs   []*model.ClassifiedElement
	header bool
}

// cell returns the matrix cell. Run text is joined with single spaces in
// reading order after the cell's own text.
func (b *cellBuilder) cell() model.Cell {
	parts := make([]string, 0, len(b.runs)+1)
	parts = append(parts, b.elem.Text)
	font := b.elem.Font
	for _, run := range b.runs {
		parts = append(parts, run.Text)
		if font == nil {
			font = run.Font
		}
	}

	attrs := b.elem.Cell
	return model.Cell{
		Text:     text.JoinWords(parts...),
		Row:      *attrs.RowIndex,
		Col:      *attrs.ColIndex,
		RowSpan:  span(attrs.RowSpan),
		ColSpan:  span(attrs.ColSpan),
		IsHeader: b.header,
		Style: model.CellStyle{
			BackgroundColor: attrs.BackgroundColor,
			TextStyle:       model.StyleFromFont(font),
		},
	}
}

// span defaults a missing or invalid span to 1
func span(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
