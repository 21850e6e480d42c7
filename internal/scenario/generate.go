package scenario

import (
	"fmt"
	"math/rand"

	"github.com/elektrokombinacija/gridmapf/internal/errors"
)

// Params defines a random scenario.
type Params struct {
	Name      string
	Width     int
	Height    int
	Agents    int
	Obstacles int
	Seed      int64
}

// Generate draws a random scenario. Every start and goal is a distinct
// cell, and the obstacles are left to Build so the document stays short.
// The same Params always produce the same scenario.
func Generate(p Params) (*File, error) {
	if p.Width <= 0 || p.Height <= 0 {
		return nil, errors.NewScenarioError("", fmt.Sprintf("grid must be positive, got %dx%d", p.Width, p.Height), nil)
	}
	if p.Agents < 0 || p.Obstacles < 0 {
		return nil, errors.NewScenarioError("", "agent and obstacle counts must not be negative", nil)
	}
	size := p.Width * p.Height
	if 2*p.Agents+p.Obstacles > size {
		return nil, errors.NewScenarioError("",
			fmt.Sprintf("%d agents and %d obstacles do not fit in %d cells", p.Agents, p.Obstacles, size), nil)
	}

	rng := rand.New(rand.NewSource(p.Seed))
	cells := rng.Perm(size)[:2*p.Agents]

	name := p.Name
	if name == "" {
		name = fmt.Sprintf("random-%dx%d-a%d-o%d-s%d", p.Width, p.Height, p.Agents, p.Obstacles, p.Seed)
	}
	f := &File{
		Name:   name,
		Width:  p.Width,
		Height: p.Height,
		Obstacles: Obstacles{
			Random: p.Obstacles,
			Seed:   p.Seed,
		},
		Agents: make([]AgentSpec, 0, p.Agents),
	}
	for i := 0; i < p.Agents; i++ {
		s, g := cells[2*i], cells[2*i+1]
		f.Agents = append(f.Agents, AgentSpec{
			Start: Point{X: s % p.Width, Y: s / p.Width},
			Goal:  Point{X: g % p.Width, Y: g / p.Width},
		})
	}
	return f, nil
}
