package core

import (
	"fmt"
	"strings"
)

// Path is a sequence of cells indexed by timestep.
type Path []Cell

// Cost returns the number of moves (waits included).
func (p Path) Cost() int {
	if len(p) == 0 {
		return 0
	}
	return len(p) - 1
}

// At returns the cell occupied at timestep t, holding at the last cell once
// the path has ended. ok is false only for an empty path or negative t.
func (p Path) At(t int) (c Cell, ok bool) {
	if len(p) == 0 || t < 0 {
		return Cell{}, false
	}
	if t >= len(p) {
		return p[len(p)-1], true
	}
	return p[t], true
}

// Last returns the final cell.
func (p Path) Last() Cell {
	return p[len(p)-1]
}

// Validate checks that every cell is free on g and every step is a wait or
// a single axis-aligned move.
func (p Path) Validate(g *Grid) error {
	for i, c := range p {
		if !g.InBounds(c) {
			return fmt.Errorf("step %d: cell %v out of bounds", i, c)
		}
		if g.Blocked(c) {
			return fmt.Errorf("step %d: cell %v is blocked", i, c)
		}
		if i > 0 && p[i-1] != c && !Adjacent(p[i-1], c) {
			return fmt.Errorf("step %d: %v -> %v is not a unit move", i, p[i-1], c)
		}
	}
	return nil
}

func (p Path) String() string {
	parts := make([]string, len(p))
	for i, c := range p {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
