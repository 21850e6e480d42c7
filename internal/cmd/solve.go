package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/elektrokombinacija/gridmapf/internal/algo"
	"github.com/elektrokombinacija/gridmapf/internal/config"
	"github.com/elektrokombinacija/gridmapf/internal/core"
	"github.com/elektrokombinacija/gridmapf/internal/errors"
	"github.com/elektrokombinacija/gridmapf/internal/playback"
	"github.com/elektrokombinacija/gridmapf/internal/render"
	"github.com/elektrokombinacija/gridmapf/internal/scenario"
)

type solveOptions struct {
	scenario string
	trace    bool
	show     bool
	verify   bool
	plain    bool
}

func newSolveCmd() *cobra.Command {
	opts := &solveOptions{}
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Plan paths for a scenario",
		Long: `Plan paths for every agent of a scenario and print the result.

Without --scenario the built-in 15x15 demo with three agents is used; its
obstacle count and seed come from scenario.obstacles and scenario.seed.
A run that ends without a solution exits non-zero and prints the reason:
unreachable-goal, round-limit-exceeded or canceled.`,
		Args:    cobra.NoArgs,
		PreRunE: bindPlannerFlags,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSolve(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.scenario, "scenario", "s", "", "scenario YAML file")
	f.BoolVar(&opts.trace, "trace", false, "print every planning round")
	f.BoolVar(&opts.show, "show", false, "replay the solution in the terminal")
	f.BoolVar(&opts.verify, "verify", false, "check the solution against BFS distances")
	f.BoolVar(&opts.plain, "plain", false, "ASCII output without colors")
	addPlannerFlags(cmd)

	return cmd
}

func runSolve(cmd *cobra.Command, opts *solveOptions) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Close()

	sc, err := loadScenario(opts.scenario, cfg)
	if err != nil {
		return err
	}
	inst, err := sc.Build()
	if err != nil {
		return err
	}

	ctx, cancel := plannerContext(cmd.Context(), cfg)
	defer cancel()

	coord := algo.NewCoordinator(cfg.Planner.MaxRounds)
	coord.Workers = cfg.Planner.Workers
	coord.Logger = logger
	trace := &algo.TraceRecorder{}
	coord.Observer = trace

	started := time.Now()
	sol, solveErr := coord.Solve(ctx, inst)
	elapsed := time.Since(started)

	out := cmd.OutOrStdout()
	theme := render.DefaultTheme()
	if opts.plain {
		theme = render.PlainTheme()
	}
	r := render.New(theme)

	fmt.Fprintf(out, "scenario %s: %dx%d, %d obstacles, %d agents\n",
		sc.Name, inst.Grid.Width(), inst.Grid.Height(), len(inst.Grid.Obstacles()), len(inst.Agents))
	fmt.Fprintln(out, r.Legend(inst))

	if opts.trace {
		printTrace(out, trace)
	}

	if solveErr != nil {
		if opts.show {
			fmt.Fprintln(out, r.Frame(inst, inst.Starts(), 0, 0))
		}
		fmt.Fprintf(out, "FAILED (%s) after %v\n", errors.Reason(solveErr), elapsed.Round(time.Microsecond))
		if last, ok := trace.Last(); ok && len(last.Conflicts) > 0 {
			fmt.Fprintf(out, "unresolved after round %d: %s\n", last.Round, last.Conflicts[0])
		}
		return solveErr
	}

	printSolution(out, sol, elapsed)

	if opts.verify {
		if err := algo.VerifySolution(inst, sol); err != nil {
			return fmt.Errorf("verification failed: %w", err)
		}
		fmt.Fprintln(out, "verified: paths valid, optimal per agent, conflict-free")
	}

	if opts.show {
		replay(out, r, inst, sol, time.Duration(cfg.Playback.FrameDelayMs)*time.Millisecond)
	}
	return nil
}

// loadScenario reads path, or builds the demo scenario when path is empty.
func loadScenario(path string, cfg *config.Config) (*scenario.File, error) {
	if path == "" {
		return scenario.Default(cfg.Scenario.Obstacles, cfg.Scenario.Seed), nil
	}
	return scenario.Load(appFs, path)
}

func plannerContext(parent context.Context, cfg *config.Config) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	if cfg.Planner.TimeoutSeconds > 0 {
		return context.WithTimeout(parent, time.Duration(cfg.Planner.TimeoutSeconds)*time.Second)
	}
	return context.WithCancel(parent)
}

func printTrace(out io.Writer, trace *algo.TraceRecorder) {
	for _, round := range trace.Rounds {
		fmt.Fprintf(out, "round %d: %d conflicts", round.Round, len(round.Conflicts))
		if len(round.Conflicts) > 0 {
			fmt.Fprintf(out, ", first %s", round.Conflicts[0])
		}
		fmt.Fprintln(out)
	}
}

func printSolution(out io.Writer, sol *core.Solution, elapsed time.Duration) {
	fmt.Fprintf(out, "SOLVED in %d rounds: makespan %d, sum of costs %d (%v)\n",
		sol.Rounds, sol.Makespan, sol.SumCost, elapsed.Round(time.Microsecond))
	for i, p := range sol.Paths {
		fmt.Fprintf(out, "  agent %d (cost %d): %s\n", i, p.Cost(), p)
	}
}

func replay(out io.Writer, r *render.Renderer, inst *core.Instance, sol *core.Solution, delay time.Duration) {
	makespan := playback.Makespan(sol.Paths)
	for t := 0; t <= makespan; t++ {
		fmt.Fprintln(out, r.Frame(inst, playback.PositionsAt(sol.Paths, t), t, makespan))
		fmt.Fprintln(out)
		if delay > 0 && t < makespan {
			time.Sleep(delay)
		}
	}
}
