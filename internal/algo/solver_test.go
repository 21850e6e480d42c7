package algo

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/elektrokombinacija/gridmapf/internal/core"
	mapferrors "github.com/elektrokombinacija/gridmapf/internal/errors"
	"github.com/elektrokombinacija/gridmapf/internal/scenario"
)

// createGrid creates an obstacle-free w x h grid.
func createGrid(t *testing.T, w, h int) *core.Grid {
	t.Helper()
	g, err := core.NewGrid(w, h)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

// createInstance builds an instance from (start, goal) pairs.
func createInstance(t *testing.T, g *core.Grid, pairs ...[2]core.Cell) *core.Instance {
	t.Helper()
	inst := core.NewInstance(g)
	for _, p := range pairs {
		if _, err := inst.AddAgent(p[0], p[1]); err != nil {
			t.Fatal(err)
		}
	}
	return inst
}

func TestFindConflicts_NoConflict(t *testing.T) {
	paths := []core.Path{
		{core.C(0, 0), core.C(1, 0), core.C(2, 0)},
		{core.C(0, 1), core.C(1, 1), core.C(2, 1)},
	}

	if cs := FindConflicts(paths); len(cs) != 0 {
		t.Errorf("expected no conflicts, got %v", cs)
	}
	if HasConflicts(paths) {
		t.Error("HasConflicts() = true, want false")
	}
}

func TestFindConflicts_VertexConflict(t *testing.T) {
	paths := []core.Path{
		{core.C(2, 5), core.C(2, 4), core.C(2, 3), core.C(2, 2), core.C(2, 1)},
		{core.C(5, 2), core.C(4, 2), core.C(3, 2), core.C(2, 2), core.C(1, 2)},
	}

	cs := FindConflicts(paths)
	if len(cs) != 1 {
		t.Fatalf("expected 1 conflict, got %v", cs)
	}
	want := Conflict{AgentA: 0, AgentB: 1, Timestep: 3, Cell: core.C(2, 2)}
	if cs[0] != want {
		t.Errorf("conflict = %+v, want %+v", cs[0], want)
	}
}

func TestFindConflicts_Multiple(t *testing.T) {
	paths := []core.Path{
		{core.C(0, 0), core.C(1, 0), core.C(2, 0)},
		{core.C(0, 1), core.C(1, 0), core.C(2, 0)},
		{core.C(3, 3), core.C(3, 2), core.C(2, 0)},
	}

	cs := FindConflicts(paths)
	// (0,1) at t=1 and t=2, (0,2) at t=2, (1,2) at t=2
	if len(cs) != 4 {
		t.Fatalf("expected 4 conflicts, got %d: %v", len(cs), cs)
	}
	for _, c := range cs {
		if c.AgentA >= c.AgentB {
			t.Errorf("conflict %v: AgentA must be < AgentB", c)
		}
	}
}

func TestFindConflicts_EndedPathIsNotHeld(t *testing.T) {
	// Agent 0 stops at (1,0) at t=1; agent 1 arrives there at t=2.
	paths := []core.Path{
		{core.C(0, 0), core.C(1, 0)},
		{core.C(3, 0), core.C(2, 0), core.C(1, 0)},
	}

	if cs := FindConflicts(paths); len(cs) != 0 {
		t.Errorf("expected no conflicts past the shorter path, got %v", cs)
	}
}

func TestFindConflicts_SwapNotDetected(t *testing.T) {
	paths := []core.Path{
		{core.C(0, 0), core.C(1, 0)},
		{core.C(1, 0), core.C(0, 0)},
	}

	if cs := FindConflicts(paths); len(cs) != 0 {
		t.Errorf("swap conflicts are out of scope, got %v", cs)
	}
}

func TestCoordinator_SingleAgent(t *testing.T) {
	inst := createInstance(t, createGrid(t, 5, 5), [2]core.Cell{core.C(0, 0), core.C(4, 4)})

	sol, err := NewCoordinator(10).Solve(context.Background(), inst)
	if err != nil {
		t.Fatal(err)
	}
	if len(sol.Paths[0]) != 9 || sol.Paths[0].Cost() != 8 {
		t.Errorf("path = %v, want 9 cells / cost 8", sol.Paths[0])
	}
	if sol.Rounds != 1 {
		t.Errorf("Rounds = %d, want 1", sol.Rounds)
	}
}

func TestCoordinator_CrossingAtDifferentTimes(t *testing.T) {
	inst := createInstance(t, createGrid(t, 6, 6),
		[2]core.Cell{core.C(2, 5), core.C(2, 0)}, // passes (2,2) at t=3
		[2]core.Cell{core.C(4, 2), core.C(0, 2)}, // passes (2,2) at t=2
	)

	sol, err := NewCoordinator(10).Solve(context.Background(), inst)
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	if sol.Rounds != 1 {
		t.Errorf("Rounds = %d, want 1", sol.Rounds)
	}
	if cs := FindConflicts(sol.Paths); len(cs) != 0 {
		t.Errorf("solution has conflicts: %v", cs)
	}
	if err := VerifySolution(inst, sol); err != nil {
		t.Errorf("VerifySolution() = %v", err)
	}
}

func TestCoordinator_SimultaneousOccupancy(t *testing.T) {
	inst := createInstance(t, createGrid(t, 6, 6),
		[2]core.Cell{core.C(2, 5), core.C(2, 0)},
		[2]core.Cell{core.C(5, 2), core.C(0, 2)},
	)

	trace := &TraceRecorder{}
	coord := NewCoordinator(4)
	coord.Observer = trace

	_, err := coord.Solve(context.Background(), inst)
	if !errors.Is(err, mapferrors.ErrRoundLimitExceeded) {
		t.Fatalf("Solve() error = %v, want ErrRoundLimitExceeded", err)
	}
	if errors.Is(err, mapferrors.ErrUnreachableGoal) {
		t.Error("round limit must be distinguishable from unreachable goal")
	}
	var rl *mapferrors.RoundLimitError
	if !errors.As(err, &rl) || rl.Rounds != 4 {
		t.Errorf("RoundLimitError = %+v, want Rounds=4", rl)
	}

	if len(trace.Rounds) != 4 {
		t.Fatalf("observed %d rounds, want 4", len(trace.Rounds))
	}
	first := trace.Rounds[0]
	want := Conflict{AgentA: 0, AgentB: 1, Timestep: 3, Cell: core.C(2, 2)}
	if len(first.Conflicts) != 1 || first.Conflicts[0] != want {
		t.Errorf("round 1 conflicts = %v, want [%v]", first.Conflicts, want)
	}

	second := trace.Rounds[1]
	if second.Starts[0] != core.C(2, 2) || second.Starts[1] != core.C(2, 2) {
		t.Errorf("round 2 starts = %v, want both (2,2)", second.Starts)
	}
	if second.Paths[0][0] != core.C(2, 2) {
		t.Errorf("round 2 path must begin at the effective start, got %v", second.Paths[0])
	}
	// True starts are untouched.
	if inst.Agents[0].Start != core.C(2, 5) {
		t.Errorf("agent start mutated: %v", inst.Agents[0].Start)
	}
}

func TestCoordinator_UnreachableAgent(t *testing.T) {
	g := createGrid(t, 5, 5)
	// Wall off (4,4).
	_ = g.SetObstacle(core.C(3, 4))
	_ = g.SetObstacle(core.C(4, 3))

	inst := createInstance(t, g,
		[2]core.Cell{core.C(0, 0), core.C(2, 0)},
		[2]core.Cell{core.C(0, 4), core.C(4, 4)},
	)

	sol, err := NewCoordinator(10).Solve(context.Background(), inst)
	if sol != nil {
		t.Errorf("expected no partial solution, got %+v", sol)
	}
	var ue *mapferrors.UnreachableGoalError
	if !errors.As(err, &ue) {
		t.Fatalf("Solve() error = %v, want UnreachableGoalError", err)
	}
	if ue.Agent != 1 {
		t.Errorf("Agent = %d, want 1", ue.Agent)
	}
}

func TestCoordinator_RejectsBlockedEndpoint(t *testing.T) {
	g := createGrid(t, 4, 4)
	inst := createInstance(t, g, [2]core.Cell{core.C(0, 0), core.C(3, 3)})
	_ = g.SetObstacle(core.C(3, 3))

	_, err := NewCoordinator(10).Solve(context.Background(), inst)
	if !errors.Is(err, mapferrors.ErrBlockedEndpoint) {
		t.Errorf("Solve() error = %v, want ErrBlockedEndpoint", err)
	}
}

func TestCoordinator_Canceled(t *testing.T) {
	inst := createInstance(t, createGrid(t, 5, 5), [2]core.Cell{core.C(0, 0), core.C(4, 4)})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewCoordinator(10).Solve(ctx, inst)
	if !errors.Is(err, mapferrors.ErrCanceled) {
		t.Errorf("error = %v, want ErrCanceled", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled in chain", err)
	}
}

func TestCoordinator_DefaultRoundCap(t *testing.T) {
	inst := createInstance(t, createGrid(t, 6, 6),
		[2]core.Cell{core.C(2, 5), core.C(2, 0)},
		[2]core.Cell{core.C(5, 2), core.C(0, 2)},
	)

	_, err := NewCoordinator(0).Solve(context.Background(), inst)
	var rl *mapferrors.RoundLimitError
	if !errors.As(err, &rl) || rl.Rounds != DefaultMaxRounds {
		t.Errorf("error = %v, want RoundLimitError after %d rounds", err, DefaultMaxRounds)
	}
}

func TestCoordinator_NoAgents(t *testing.T) {
	inst := core.NewInstance(createGrid(t, 3, 3))
	sol, err := NewCoordinator(1).Solve(context.Background(), inst)
	if err != nil {
		t.Fatal(err)
	}
	if len(sol.Paths) != 0 || sol.Makespan != 0 {
		t.Errorf("unexpected solution %+v", sol)
	}
}

func TestCoordinator_ParallelMatchesSequential(t *testing.T) {
	g := createGrid(t, 8, 8)
	for _, c := range []core.Cell{core.C(3, 3), core.C(3, 4), core.C(4, 3)} {
		_ = g.SetObstacle(c)
	}
	inst := createInstance(t, g,
		[2]core.Cell{core.C(0, 0), core.C(7, 0)},
		[2]core.Cell{core.C(0, 7), core.C(7, 7)},
		[2]core.Cell{core.C(0, 3), core.C(0, 5)},
		[2]core.Cell{core.C(7, 2), core.C(5, 2)},
	)

	seq, err := NewCoordinator(10).Solve(context.Background(), inst)
	if err != nil {
		t.Fatal(err)
	}

	par := NewCoordinator(10)
	par.Workers = 4
	got, err := par.Solve(context.Background(), inst)
	if err != nil {
		t.Fatal(err)
	}

	for i := range seq.Paths {
		if !slices.Equal(seq.Paths[i], got.Paths[i]) {
			t.Errorf("agent %d: parallel %v != sequential %v", i, got.Paths[i], seq.Paths[i])
		}
	}
}

func TestCoordinator_ImplementsSolver(t *testing.T) {
	var s Solver = NewCoordinator(1)
	if s.Name() == "" {
		t.Error("Name() is empty")
	}
}

func TestCoordinator_DeterministicAcrossRuns(t *testing.T) {
	for seed := int64(1); seed <= 8; seed++ {
		inst, err := scenario.Default(20, seed).Build()
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}

		run := func() (*TraceRecorder, error) {
			trace := &TraceRecorder{}
			coord := NewCoordinator(5)
			coord.Observer = trace
			_, err := coord.Solve(context.Background(), inst)
			return trace, err
		}
		first, err1 := run()
		second, err2 := run()

		if mapferrors.Reason(err1) != mapferrors.Reason(err2) {
			t.Fatalf("seed %d: outcomes differ: %v vs %v", seed, err1, err2)
		}
		if len(first.Rounds) != len(second.Rounds) {
			t.Fatalf("seed %d: %d rounds vs %d", seed, len(first.Rounds), len(second.Rounds))
		}
		for r := range first.Rounds {
			a, b := first.Rounds[r].Paths, second.Rounds[r].Paths
			for i := range a {
				if !slices.Equal(a[i], b[i]) {
					t.Errorf("seed %d round %d agent %d: %v != %v", seed, r+1, i, a[i], b[i])
				}
				if err := a[i].Validate(inst.Grid); err != nil {
					t.Errorf("seed %d round %d agent %d: %v", seed, r+1, i, err)
				}
			}
		}
	}
}

func TestObserverFunc(t *testing.T) {
	inst := createInstance(t, createGrid(t, 6, 6),
		[2]core.Cell{core.C(2, 5), core.C(2, 0)},
		[2]core.Cell{core.C(5, 2), core.C(0, 2)},
	)

	var rounds []int
	coord := NewCoordinator(3)
	coord.Observer = ObserverFunc(func(info RoundInfo) {
		rounds = append(rounds, info.Round)
	})
	_, _ = coord.Solve(context.Background(), inst)

	if !slices.Equal(rounds, []int{1, 2, 3}) {
		t.Errorf("observed rounds %v, want [1 2 3]", rounds)
	}
}

func TestTraceRecorder_Last(t *testing.T) {
	trace := &TraceRecorder{}
	if _, ok := trace.Last(); ok {
		t.Error("Last() on an empty trace should report false")
	}

	trace.OnRound(RoundInfo{Round: 1})
	trace.OnRound(RoundInfo{Round: 2, Conflicts: []Conflict{{AgentA: 0, AgentB: 1}}})
	last, ok := trace.Last()
	if !ok || last.Round != 2 || len(last.Conflicts) != 1 {
		t.Errorf("Last() = %+v, %v", last, ok)
	}
}

func TestVerifySolution_RejectsConflicts(t *testing.T) {
	inst := createInstance(t, createGrid(t, 3, 3),
		[2]core.Cell{core.C(1, 0), core.C(1, 2)},
		[2]core.Cell{core.C(0, 1), core.C(2, 1)},
	)
	sol := core.NewSolution([]core.Path{
		{core.C(1, 0), core.C(1, 1), core.C(1, 2)},
		{core.C(0, 1), core.C(1, 1), core.C(2, 1)},
	}, 1)

	err := VerifySolution(inst, sol)
	if err == nil {
		t.Fatal("VerifySolution() accepted paths that share (1,1) at t=1")
	}
	if !HasConflicts(sol.Paths) {
		t.Error("HasConflicts() = false, want true")
	}
}
