// Package algo implements single-agent search, conflict detection and the
// multi-agent conflict-resolution loop.
package algo

import (
	"context"
	"fmt"

	"github.com/elektrokombinacija/gridmapf/internal/core"
)

// Solver is the interface for multi-agent planners.
type Solver interface {
	// Solve returns index-aligned paths for every agent or a typed failure.
	Solve(ctx context.Context, inst *core.Instance) (*core.Solution, error)

	// Name returns the algorithm name.
	Name() string
}

// Conflict is a vertex conflict: two agents in the same cell at the same
// timestep. AgentA < AgentB always holds.
type Conflict struct {
	AgentA, AgentB core.AgentID
	Timestep       int
	Cell           core.Cell
}

func (c Conflict) String() string {
	return fmt.Sprintf("agents %d/%d at %v t=%d", c.AgentA, c.AgentB, c.Cell, c.Timestep)
}

// FindConflicts reports every simultaneous occupation between pairs of
// paths. Timesteps are compared only up to the shorter path's length: a path
// that has ended does not hold its last cell here. Swap conflicts are not
// detected. Results are ordered by pair then timestep, without deduplication.
func FindConflicts(paths []core.Path) []Conflict {
	var conflicts []Conflict
	for i := 0; i < len(paths); i++ {
		for j := i + 1; j < len(paths); j++ {
			a, b := paths[i], paths[j]
			n := min(len(a), len(b))
			for t := 0; t < n; t++ {
				if a[t] == b[t] {
					conflicts = append(conflicts, Conflict{
						AgentA:   core.AgentID(i),
						AgentB:   core.AgentID(j),
						Timestep: t,
						Cell:     a[t],
					})
				}
			}
		}
	}
	return conflicts
}

// HasConflicts reports whether FindConflicts would return anything, without
// allocating the full list.
func HasConflicts(paths []core.Path) bool {
	for i := 0; i < len(paths); i++ {
		for j := i + 1; j < len(paths); j++ {
			a, b := paths[i], paths[j]
			n := min(len(a), len(b))
			for t := 0; t < n; t++ {
				if a[t] == b[t] {
					return true
				}
			}
		}
	}
	return false
}
