package algo

import (
	"fmt"

	"github.com/elektrokombinacija/gridmapf/internal/core"
)

// BFSDistance returns the shortest 4-connected distance from start to goal,
// or false if goal is unreachable. It is the reference A* is checked against.
func BFSDistance(g *core.Grid, start, goal core.Cell) (int, bool) {
	if g.Blocked(start) || g.Blocked(goal) {
		return 0, false
	}
	dist := map[core.Cell]int{start: 0}
	queue := []core.Cell{start}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == goal {
			return dist[c], true
		}
		for n := range g.Neighbors(c) {
			if _, seen := dist[n]; seen {
				continue
			}
			dist[n] = dist[c] + 1
			queue = append(queue, n)
		}
	}
	return 0, false
}

// VerifySolution checks a solution against its instance: one path per
// agent, every path ending at its goal with legal unit moves, no vertex
// conflicts, and every path as short as BFS allows from its first cell.
func VerifySolution(inst *core.Instance, sol *core.Solution) error {
	if len(sol.Paths) != len(inst.Agents) {
		return fmt.Errorf("got %d paths for %d agents", len(sol.Paths), len(inst.Agents))
	}
	for i, p := range sol.Paths {
		if len(p) == 0 {
			return fmt.Errorf("agent %d: empty path", i)
		}
		if err := p.Validate(inst.Grid); err != nil {
			return fmt.Errorf("agent %d: %w", i, err)
		}
		if p.Last() != inst.Agents[i].Goal {
			return fmt.Errorf("agent %d: path ends at %v, goal is %v", i, p.Last(), inst.Agents[i].Goal)
		}
		want, ok := BFSDistance(inst.Grid, p[0], p.Last())
		if !ok || want != p.Cost() {
			return fmt.Errorf("agent %d: cost %d, shortest is %d", i, p.Cost(), want)
		}
	}
	if HasConflicts(sol.Paths) {
		cs := FindConflicts(sol.Paths)
		return fmt.Errorf("%d conflicts, first: %v", len(cs), cs[0])
	}
	return nil
}
