// Package core defines domain models for grid multi-agent path planning.
package core

import "fmt"

// Cell is a grid coordinate. It is comparable and can key maps.
type Cell struct {
	X, Y int
}

// C is shorthand for Cell{X: x, Y: y}.
func C(x, y int) Cell {
	return Cell{X: x, Y: y}
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Add returns c shifted by d.
func (c Cell) Add(d Direction) Cell {
	off := d.Offset()
	return Cell{X: c.X + off.X, Y: c.Y + off.Y}
}

// Manhattan returns |x1-x2| + |y1-y2|.
func Manhattan(a, b Cell) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

// Adjacent reports whether a and b differ by one unit along one axis.
func Adjacent(a, b Cell) bool {
	return Manhattan(a, b) == 1
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Direction is one of the four axis-aligned moves.
type Direction int

const (
	West  Direction = iota // x-1
	East                   // x+1
	North                  // y-1
	South                  // y+1
)

// Directions lists moves in neighbor expansion order.
var Directions = [...]Direction{West, East, North, South}

func (d Direction) String() string {
	return [...]string{"West", "East", "North", "South"}[d]
}

// Offset returns the coordinate delta for d.
func (d Direction) Offset() Cell {
	switch d {
	case West:
		return Cell{X: -1}
	case East:
		return Cell{X: 1}
	case North:
		return Cell{Y: -1}
	case South:
		return Cell{Y: 1}
	default:
		return Cell{}
	}
}
