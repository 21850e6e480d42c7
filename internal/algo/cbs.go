package algo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"

	"github.com/elektrokombinacija/gridmapf/internal/core"
	"github.com/elektrokombinacija/gridmapf/internal/errors"
	"github.com/elektrokombinacija/gridmapf/internal/logging"
)

// DefaultMaxRounds bounds the resolution loop when MaxRounds is unset.
const DefaultMaxRounds = 100

// Coordinator resolves conflicts by re-planning every agent from an
// "effective start" that is moved onto the conflict cell after each round.
//
// This approximates conflict-based search without a constraint tree. It has
// no termination guarantee (a pair that collided share the same effective
// start next round, so they collide again at t=0) and no joint optimality.
// MaxRounds bounds the loop; ctx cancellation is checked between rounds.
type Coordinator struct {
	MaxRounds int
	Workers   int // >1 plans agents of a round concurrently
	Logger    *logging.Logger
	Observer  Observer
}

// NewCoordinator creates a coordinator with the given round cap.
func NewCoordinator(maxRounds int) *Coordinator {
	return &Coordinator{MaxRounds: maxRounds, Workers: 1}
}

func (c *Coordinator) Name() string { return "Coordinator-CBS" }

// Solve plans every agent, resolving conflicts in rounds until the paths
// are conflict-free or the round cap is reached.
func (c *Coordinator) Solve(ctx context.Context, inst *core.Instance) (*core.Solution, error) {
	if err := inst.Validate(); err != nil {
		return nil, err
	}

	maxRounds := c.MaxRounds
	if maxRounds <= 0 {
		maxRounds = DefaultMaxRounds
	}
	log := c.logger().WithRun(uuid.NewString())
	log.Info("planning started", "agents", len(inst.Agents), "max_rounds", maxRounds,
		"width", inst.Grid.Width(), "height", inst.Grid.Height())

	// Effective starts; true starts and goals on the agents never change.
	starts := make([]core.Cell, len(inst.Agents))
	for i, a := range inst.Agents {
		starts[i] = a.Start
	}

	remaining := 0
	for round := 1; round <= maxRounds; round++ {
		if err := ctx.Err(); err != nil {
			log.Warn("planning canceled", "round", round, "error", err)
			return nil, fmt.Errorf("%w after %d rounds: %w", errors.ErrCanceled, round-1, err)
		}

		paths, err := c.planRound(inst, starts, log.With("round", round))
		if err != nil {
			log.Warn("planning failed", "round", round, "error", err)
			return nil, err
		}

		conflicts := FindConflicts(paths)
		if c.Observer != nil {
			c.Observer.OnRound(RoundInfo{Round: round, Starts: starts, Paths: paths, Conflicts: conflicts})
		}

		if len(conflicts) == 0 {
			sol := core.NewSolution(paths, round)
			log.Info("planning solved", "rounds", round, "makespan", sol.Makespan, "sum_cost", sol.SumCost)
			return sol, nil
		}

		log.Debug("conflicts found", "round", round, "count", len(conflicts), "first", conflicts[0].String())
		for _, cf := range conflicts {
			starts[cf.AgentA] = paths[cf.AgentA][cf.Timestep]
			starts[cf.AgentB] = paths[cf.AgentB][cf.Timestep]
		}
		remaining = len(conflicts)
	}

	err := &errors.RoundLimitError{Rounds: maxRounds, Conflicts: remaining}
	log.Warn("planning failed", "error", err)
	return nil, err
}

// planRound searches every agent from its effective start to its goal. The
// first failing agent in index order determines the error.
func (c *Coordinator) planRound(inst *core.Instance, starts []core.Cell, log *logging.Logger) ([]core.Path, error) {
	paths := make([]core.Path, len(inst.Agents))
	plan := func(i int) error {
		res, err := Search(inst.Grid, starts[i], inst.Agents[i].Goal)
		if err != nil {
			var ue *errors.UnreachableGoalError
			if errors.As(err, &ue) {
				return ue.WithAgent(i)
			}
			return fmt.Errorf("agent %d: %w", i, err)
		}
		paths[i] = res.Path
		log.WithAgent(i).Debug("path planned", "cost", res.Cost, "expanded", res.Expanded)
		return nil
	}

	if c.Workers <= 1 || len(inst.Agents) < 2 {
		for i := range inst.Agents {
			if err := plan(i); err != nil {
				return nil, err
			}
		}
		return paths, nil
	}

	errs := make([]error, len(inst.Agents))
	p := pool.New().WithMaxGoroutines(c.Workers)
	for i := range inst.Agents {
		p.Go(func() {
			errs[i] = plan(i)
		})
	}
	p.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return paths, nil
}

func (c *Coordinator) logger() *logging.Logger {
	if c.Logger == nil {
		return logging.NopLogger()
	}
	return c.Logger
}
