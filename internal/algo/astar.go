package algo

import (
	"container/heap"

	"github.com/elektrokombinacija/gridmapf/internal/core"
	"github.com/elektrokombinacija/gridmapf/internal/errors"
)

// astarNode for priority queue.
type astarNode struct {
	cell  core.Cell
	g     int // cost so far
	h     int // Manhattan distance to goal
	seq   int // insertion order, breaks (f, h) ties
	index int // heap index
}

func (n *astarNode) f() int { return n.g + n.h }

// astarHeap implements heap.Interface ordered by (f, h, seq).
type astarHeap []*astarNode

func (h astarHeap) Len() int { return len(h) }
func (h astarHeap) Less(i, j int) bool {
	a, b := h[i], h[j]
	if a.f() != b.f() {
		return a.f() < b.f()
	}
	if a.h != b.h {
		return a.h < b.h
	}
	return a.seq < b.seq
}
func (h astarHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}
func (h *astarHeap) Push(x any) {
	n := x.(*astarNode)
	n.index = len(*h)
	*h = append(*h, n)
}
func (h *astarHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	old[n-1] = nil
	*h = old[0 : n-1]
	return x
}

// SearchResult is the outcome of a single-agent search.
type SearchResult struct {
	Path     core.Path
	Cost     int
	Expanded int
}

// FindPath returns a minimum-cost 4-connected path from start to goal.
func FindPath(g *core.Grid, start, goal core.Cell) (core.Path, error) {
	res, err := Search(g, start, goal)
	if err != nil {
		return nil, err
	}
	return res.Path, nil
}

// Search runs A* with the Manhattan heuristic under unit edge cost. Start and
// goal must be free cells; violating that is reported as InvalidCell or
// BlockedEndpoint rather than as an unreachable goal. The grid is only read.
func Search(g *core.Grid, start, goal core.Cell) (SearchResult, error) {
	if err := core.CheckEndpoint(g, -1, "start", start); err != nil {
		return SearchResult{}, err
	}
	if err := core.CheckEndpoint(g, -1, "goal", goal); err != nil {
		return SearchResult{}, err
	}

	open := &astarHeap{}
	heap.Init(open)

	seq := 0
	push := func(c core.Cell, cost int) {
		heap.Push(open, &astarNode{cell: c, g: cost, h: core.Manhattan(c, goal), seq: seq})
		seq++
	}

	gScore := map[core.Cell]int{start: 0}
	cameFrom := make(map[core.Cell]core.Cell)
	closed := make(map[core.Cell]bool)
	push(start, 0)

	expanded := 0
	for open.Len() > 0 {
		current := heap.Pop(open).(*astarNode)

		if closed[current.cell] {
			continue
		}
		closed[current.cell] = true
		expanded++

		if current.cell == goal {
			return SearchResult{
				Path:     reconstructPath(cameFrom, start, goal),
				Cost:     current.g,
				Expanded: expanded,
			}, nil
		}

		tentative := current.g + 1
		for n := range g.Neighbors(current.cell) {
			if closed[n] {
				continue
			}
			if best, seen := gScore[n]; seen && tentative >= best {
				continue
			}
			gScore[n] = tentative
			cameFrom[n] = current.cell
			push(n, tentative)
		}
	}

	return SearchResult{Expanded: expanded}, &errors.UnreachableGoalError{
		Agent:    -1,
		StartX:   start.X,
		StartY:   start.Y,
		GoalX:    goal.X,
		GoalY:    goal.Y,
		Expanded: expanded,
	}
}

func reconstructPath(cameFrom map[core.Cell]core.Cell, start, goal core.Cell) core.Path {
	path := core.Path{goal}
	for c := goal; c != start; {
		c = cameFrom[c]
		path = append(path, c)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
