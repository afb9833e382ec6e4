package model

import (
	"fmt"
	"strings"
)

// Table represents a reconstructed table. Rows hold only the cells that are
// rendered: positions covered by an earlier cell's span are omitted, so a
// row may be shorter than ColCount.
type Table struct {
	BlockInfo
	Rows     [][]Cell
	ColCount int
}

func (t *Table) Kind() BlockKind  { return BlockKindTable }
func (t *Table) Info() *BlockInfo { return &t.BlockInfo }
func (t *Table) GetText() string {
	var sb strings.Builder
	for _, row := range t.Rows {
		for j, cell := range row {
			sb.WriteString(cell.Text)
			if j < len(row)-1 {
				sb.WriteString("\t")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// RowCount returns the number of rows
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// IsEmpty reports whether the table has no rendered cells
func (t *Table) IsEmpty() bool {
	return len(t.Rows) == 0
}

// HasHeader reports whether the first row is made of header cells
func (t *Table) HasHeader() bool {
	if len(t.Rows) == 0 || len(t.Rows[0]) == 0 {
		return false
	}
	for _, c := range t.Rows[0] {
		if !c.IsHeader && !c.Placeholder {
			return false
		}
	}
	return true
}

// Width returns the number of matrix columns occupied by the row, counting
// column spans and cells carried down from earlier rows by row spans.
func (t *Table) Width(row int) int {
	if row < 0 || row >= len(t.Rows) {
		return 0
	}
	width := 0
	for _, c := range t.Rows[row] {
		width += c.ColSpan
	}
	for r := 0; r < row; r++ {
		for _, c := range t.Rows[r] {
			if c.RowSpan > 1 && r+c.RowSpan > row {
				width += c.ColSpan
			}
		}
	}
	return width
}

// ToMarkdown converts the table to markdown format. Spanned cells are
// repeated across the positions they cover since markdown has no spans.
func (t *Table) ToMarkdown() string {
	grid := t.expand()
	if len(grid) == 0 {
		return ""
	}

	var sb strings.Builder
	writeRow := func(row []string) {
		for _, text := range row {
			sb.WriteString("| ")
			sb.WriteString(strings.ReplaceAll(text, "\n", " "))
			sb.WriteString(" ")
		}
		sb.WriteString("|\n")
	}

	writeRow(grid[0])
	for range grid[0] {
		sb.WriteString("|---")
	}
	sb.WriteString("|\n")
	for _, row := range grid[1:] {
		writeRow(row)
	}
	return sb.String()
}

// ToCSV converts the table to CSV format
func (t *Table) ToCSV() string {
	var sb strings.Builder
	for _, row := range t.expand() {
		for j, text := range row {
			if strings.ContainsAny(text, ",\"\n") {
				text = "\"" + strings.ReplaceAll(text, "\"", "\"\"") + "\""
			}
			sb.WriteString(text)
			if j < len(row)-1 {
				sb.WriteString(",")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// expand lays the rendered cells back onto a full rows x ColCount grid,
// copying each cell's text into every position it spans.
func (t *Table) expand() [][]string {
	if len(t.Rows) == 0 || t.ColCount == 0 {
		return nil
	}
	grid := make([][]string, len(t.Rows))
	filled := make([][]bool, len(t.Rows))
	for i := range grid {
		grid[i] = make([]string, t.ColCount)
		filled[i] = make([]bool, t.ColCount)
	}
	for r, row := range t.Rows {
		col := 0
		for _, cell := range row {
			for col < t.ColCount && filled[r][col] {
				col++
			}
			if col >= t.ColCount {
				break
			}
			for dr := 0; dr < cell.RowSpan && r+dr < len(grid); dr++ {
				for dc := 0; dc < cell.ColSpan && col+dc < t.ColCount; dc++ {
					grid[r+dr][col+dc] = cell.Text
					filled[r+dr][col+dc] = true
				}
			}
			col += cell.ColSpan
		}
	}
	return grid
}

// Cell represents a table cell
type Cell struct {
	Text     string
	Row      int
	Col      int
	RowSpan  int
	ColSpan  int
	IsHeader bool
	// Placeholder marks an explicit empty cell filling a matrix gap
	Placeholder bool
	Style       CellStyle
}

// CellStyle represents cell styling
type CellStyle struct {
	BackgroundColor *Color
	TextStyle       *TextStyle
}

// Hex returns the color as a CSS hex string
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
