package model

import "strings"

// directions in the order up, right, down, left
var directions = [4]Position{{-1, 0}, {0, 1}, {1, 0}, {0, -1}}

// NewGrid copies rows so later changes by the caller do not leak into the grid.
func NewGrid(rows [][]Cell) *Grid {
	matrix := make([][]Cell, 0, len(rows))
	width := 0
	for _, r := range rows {
		row := make([]Cell, len(r))
		copy(row, r)
		matrix = append(matrix, row)
		if len(row) > width {
			width = len(row)
		}
	}
	return &Grid{rows: matrix, width: width}
}

func (g *Grid) Rows() int { return len(g.rows) }

// Width is the length of the longest row.
func (g *Grid) Width() int { return g.width }

func (g *Grid) RowLen(r int) int {
	if r < 0 || r >= len(g.rows) {
		return 0
	}
	return len(g.rows[r])
}

// In reports whether p addresses a cell of its row, wall or not.
func (g *Grid) In(p Position) bool {
	return p.Row >= 0 && p.Row < len(g.rows) && p.Col >= 0 && p.Col < len(g.rows[p.Row])
}

// At returns a wall for positions outside the grid.
func (g *Grid) At(p Position) Cell {
	if !g.In(p) {
		return Cell{Kind: Wall}
	}
	return g.rows[p.Row][p.Col]
}

func (g *Grid) Passable(p Position) bool {
	return g.At(p).Kind != Wall
}

// Neighbors appends the passable orthogonal neighbours of p to dst.
func (g *Grid) Neighbors(dst []Position, p Position) []Position {
	for _, d := range directions {
		n := Position{p.Row + d.Row, p.Col + d.Col}
		if g.Passable(n) {
			dst = append(dst, n)
		}
	}
	return dst
}

// Index maps p to a dense row-major index in [0, Rows()*Width()).
func (g *Grid) Index(p Position) int {
	return p.Row*g.width + p.Col
}

func (g *Grid) Size() int { return len(g.rows) * g.width }

// Starts lists agent start cells in row-major order.
func (g *Grid) Starts() []Position {
	return g.find(Start)
}

// Keys lists key cells in row-major order.
func (g *Grid) Keys() []Position {
	return g.find(Key)
}

func (g *Grid) find(kind Kind) []Position {
	var found []Position
	for r, row := range g.rows {
		for c, cell := range row {
			if cell.Kind == kind {
				found = append(found, Position{r, c})
			}
		}
	}
	return found
}

// String renders the grid back to its text form.
func (g *Grid) String() string {
	var b strings.Builder
	for r, row := range g.rows {
		if r > 0 {
			b.WriteByte('\n')
		}
		for _, cell := range row {
			b.WriteByte(cell.Char())
		}
	}
	return b.String()
}

func (c Cell) Char() byte {
	switch c.Kind {
	case Open:
		return '.'
	case Start:
		return '@'
	case Key:
		return c.Symbol
	case Door:
		return c.Symbol - 'a' + 'A'
	default:
		return '#'
	}
}
