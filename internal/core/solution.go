package core

// Solution is a conflict-free set of paths, index-aligned with the agents.
type Solution struct {
	Paths    []Path
	Rounds   int // planning rounds used
	Makespan int // longest path cost
	SumCost  int // sum of path costs
}

// NewSolution wraps paths and computes summary costs.
func NewSolution(paths []Path, rounds int) *Solution {
	s := &Solution{Paths: paths, Rounds: rounds}
	s.ComputeCosts()
	return s
}

// ComputeCosts recalculates Makespan and SumCost.
func (s *Solution) ComputeCosts() {
	s.Makespan, s.SumCost = 0, 0
	for _, p := range s.Paths {
		c := p.Cost()
		s.SumCost += c
		if c > s.Makespan {
			s.Makespan = c
		}
	}
}

// Steps returns the number of playback timesteps, i.e. the longest path length.
func (s *Solution) Steps() int {
	n := 0
	for _, p := range s.Paths {
		if len(p) > n {
			n = len(p)
		}
	}
	return n
}
