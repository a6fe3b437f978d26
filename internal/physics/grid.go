package physics

import "math"

// Grid is a uniform spatial hash for broad-phase collision detection in a
// wrapping world. Entities are inserted by position and index each frame,
// then candidates near a point are found via a 3x3 cell neighborhood.
//
// The cell size must be at least the maximum interaction distance between
// any two colliding objects, otherwise a potential collision can fall
// outside the neighborhood.
type Grid struct {
	cellSize    float64
	invCellSize float64
	cols        int
	rows        int
	cells       [][]int
}

// NewGrid creates a grid covering a world of the given dimensions.
func NewGrid(worldW, worldH, cellSize float64) *Grid {
	cols := int(math.Ceil(worldW / cellSize))
	rows := int(math.Ceil(worldH / cellSize))
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return &Grid{
		cellSize:    cellSize,
		invCellSize: 1.0 / cellSize,
		cols:        cols,
		rows:        rows,
		cells:       make([][]int, cols*rows),
	}
}

// Reset removes all items while keeping cell capacity for reuse.
func (g *Grid) Reset() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// Insert adds an item (identified by caller-side index) at a world position.
func (g *Grid) Insert(x, y float64, index int) {
	col, row := g.cellAt(x, y)
	i := row*g.cols + col
	g.cells[i] = append(g.cells[i], index)
}

// Nearby calls fn for each item index in the 3x3 neighborhood around the
// given position, wrapping across world edges. Iteration stops early if fn
// returns true.
func (g *Grid) Nearby(x, y float64, fn func(index int) bool) {
	col, row := g.cellAt(x, y)

	for dr := -1; dr <= 1; dr++ {
		r := row + dr
		if r < 0 {
			r += g.rows
		} else if r >= g.rows {
			r -= g.rows
		}
		base := r * g.cols

		for dc := -1; dc <= 1; dc++ {
			c := col + dc
			if c < 0 {
				c += g.cols
			} else if c >= g.cols {
				c -= g.cols
			}
			for _, idx := range g.cells[base+c] {
				if fn(idx) {
					return
				}
			}
		}
	}
}

// cellAt converts world coordinates to cell coordinates, clamped so that
// floating point drift at the world edge cannot index out of range.
func (g *Grid) cellAt(x, y float64) (col, row int) {
	col = int(x * g.invCellSize)
	if col < 0 {
		col = 0
	} else if col >= g.cols {
		col = g.cols - 1
	}
	row = int(y * g.invCellSize)
	if row < 0 {
		row = 0
	} else if row >= g.rows {
		row = g.rows - 1
	}
	return col, row
}
