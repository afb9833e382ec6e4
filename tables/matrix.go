package tables

import (
	"github.com/tsawler/docstruct/model"
	"github.com/tsawler/docstruct/text"
)

// matrix is the dense arena a table is resolved in. Every coordinate holds
// at most one placed cell; covered marks coordinates claimed by an earlier
// cell's span once the matrix is finalized.
type matrix struct {
	rows, cols int
	cells      [][]*model.Cell
	covered    [][]bool
}

// newMatrix allocates a rows x cols matrix
func newMatrix(rows, cols int) *matrix {
	m := &matrix{
		rows:    rows,
		cols:    cols,
		cells:   make([][]*model.Cell, rows),
		covered: make([][]bool, rows),
	}
	for r := 0; r < rows; r++ {
		m.cells[r] = make([]*model.Cell, cols)
		m.covered[r] = make([]bool, cols)
	}
	return m
}

// place stores a cell at its coordinate. When the coordinate is already
// taken the first cell wins and the newcomer's text is appended to it.
func (m *matrix) place(cell model.Cell) {
	if cell.Row < 0 || cell.Row >= m.rows || cell.Col < 0 || cell.Col >= m.cols {
		return
	}
	if existing := m.cells[cell.Row][cell.Col]; existing != nil {
		existing.Text = text.JoinWords(existing.Text, cell.Text)
		existing.IsHeader = existing.IsHeader || cell.IsHeader
		return
	}
	c := cell
	m.cells[cell.Row][cell.Col] = &c
}

// finalize walks the matrix row by row and returns the rendered rows.
// Covered coordinates are skipped; a placed cell found under another
// cell's span gives its text to the covering cell. Spans are clipped to the
// matrix and to coordinates already covered, so no two rendered cells
// overlap. Empty uncovered coordinates become placeholders.
func (m *matrix) finalize() [][]model.Cell {
	if m.rows == 0 || m.cols == 0 {
		return nil
	}

	type slot struct{ row, idx int }
	owner := make([][]slot, m.rows)
	for r := range owner {
		owner[r] = make([]slot, m.cols)
	}

	out := make([][]model.Cell, m.rows)
	for r := 0; r < m.rows; r++ {
		for c := 0; c < m.cols; c++ {
			if m.covered[r][c] {
				if lost := m.cells[r][c]; lost != nil && lost.Text != "" {
					o := owner[r][c]
					out[o.row][o.idx].Text = text.JoinWords(out[o.row][o.idx].Text, lost.Text)
				}
				continue
			}

			cell := m.cells[r][c]
			if cell == nil {
				out[r] = append(out[r], model.Cell{Row: r, Col: c, RowSpan: 1, ColSpan: 1, Placeholder: true})
				continue
			}

			rowSpan, colSpan := m.clip(r, c, cell.RowSpan, cell.ColSpan)
			rendered := *cell
			rendered.RowSpan, rendered.ColSpan = rowSpan, colSpan
			out[r] = append(out[r], rendered)

			s := slot{row: r, idx: len(out[r]) - 1}
			for dr := 0; dr < rowSpan; dr++ {
				for dc := 0; dc < colSpan; dc++ {
					if dr == 0 && dc == 0 {
						continue
					}
					m.covered[r+dr][c+dc] = true
					owner[r+dr][c+dc] = s
				}
			}
		}
	}
	return out
}

// clip bounds a span starting at (r, c) by the matrix edges and by
// coordinates already covered
func (m *matrix) clip(r, c, rowSpan, colSpan int) (int, int) {
	rowSpan = max(1, min(rowSpan, m.rows-r))
	colSpan = max(1, min(colSpan, m.cols-c))

	for dc := 1; dc < colSpan; dc++ {
		if m.covered[r][c+dc] {
			colSpan = dc
			break
		}
	}
	for dr := 1; dr < rowSpan; dr++ {
		for dc := 0; dc < colSpan; dc++ {
			if m.covered[r+dr][c+dc] {
				return dr, colSpan
			}
		}
	}
	return rowSpan, colSpan
}
