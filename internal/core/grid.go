package core

import (
	"iter"
	"math/rand"

	"github.com/elektrokombinacija/gridmapf/internal/errors"
)

// Grid represents static terrain: dimensions plus a blocked flag per cell.
type Grid struct {
	width, height int
	blocked       []bool // row-major, index y*width+x
}

// NewGrid creates an obstacle-free grid.
func NewGrid(width, height int) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.Join(errors.ErrInvalidInput,
			errors.New("grid dimensions must be positive"))
	}
	return &Grid{
		width:   width,
		height:  height,
		blocked: make([]bool, width*height),
	}, nil
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// Size returns the number of cells.
func (g *Grid) Size() int { return g.width * g.height }

// InBounds reports whether c lies inside the grid.
func (g *Grid) InBounds(c Cell) bool {
	return c.X >= 0 && c.X < g.width && c.Y >= 0 && c.Y < g.height
}

// Blocked reports whether c is an obstacle. Out-of-bounds cells count as blocked.
func (g *Grid) Blocked(c Cell) bool {
	if !g.InBounds(c) {
		return true
	}
	return g.blocked[g.index(c)]
}

// Free reports whether c is in bounds and not blocked.
func (g *Grid) Free(c Cell) bool {
	return !g.Blocked(c)
}

func (g *Grid) index(c Cell) int {
	return c.Y*g.width + c.X
}

func (g *Grid) check(op string, c Cell) error {
	if !g.InBounds(c) {
		return errors.NewCellError(op, c.X, c.Y, g.width, g.height)
	}
	return nil
}

// SetObstacle blocks c.
func (g *Grid) SetObstacle(c Cell) error {
	if err := g.check("set obstacle", c); err != nil {
		return err
	}
	g.blocked[g.index(c)] = true
	return nil
}

// ClearObstacle unblocks c.
func (g *Grid) ClearObstacle(c Cell) error {
	if err := g.check("clear obstacle", c); err != nil {
		return err
	}
	g.blocked[g.index(c)] = false
	return nil
}

// Obstacles returns blocked cells in row-major order.
func (g *Grid) Obstacles() []Cell {
	var out []Cell
	for i, b := range g.blocked {
		if b {
			out = append(out, Cell{X: i % g.width, Y: i / g.width})
		}
	}
	return out
}

// Neighbors yields the in-bounds unblocked neighbors of c in the fixed order
// west, east, north, south.
func (g *Grid) Neighbors(c Cell) iter.Seq[Cell] {
	return func(yield func(Cell) bool) {
		for _, d := range Directions {
			n := c.Add(d)
			if g.Blocked(n) {
				continue
			}
			if !yield(n) {
				return
			}
		}
	}
}

// PopulateRandomObstacles blocks count distinct free cells chosen uniformly
// at random without replacement. Cells listed in reserved are never chosen.
// The same rng seed always yields the same obstacle set.
func (g *Grid) PopulateRandomObstacles(count int, rng *rand.Rand, reserved ...Cell) error {
	if count < 0 || count > g.Size() {
		return errors.Join(errors.ErrInvalidInput,
			errors.New("obstacle count exceeds grid size"))
	}
	if count == 0 {
		return nil
	}

	skip := make(map[Cell]bool, len(reserved))
	for _, c := range reserved {
		skip[c] = true
	}

	candidates := make([]Cell, 0, g.Size())
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			c := Cell{X: x, Y: y}
			if g.blocked[g.index(c)] || skip[c] {
				continue
			}
			candidates = append(candidates, c)
		}
	}
	if count > len(candidates) {
		return errors.Join(errors.ErrInvalidInput,
			errors.New("obstacle count exceeds free cells"))
	}

	// Partial Fisher-Yates: the first count slots become the sample.
	for i := 0; i < count; i++ {
		j := i + rng.Intn(len(candidates)-i)
		candidates[i], candidates[j] = candidates[j], candidates[i]
		g.blocked[g.index(candidates[i])] = true
	}
	return nil
}
