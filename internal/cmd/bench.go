package cmd

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/cobra"

	"github.com/elektrokombinacija/gridmapf/internal/algo"
	"github.com/elektrokombinacija/gridmapf/internal/config"
	"github.com/elektrokombinacija/gridmapf/internal/errors"
	"github.com/elektrokombinacija/gridmapf/internal/logging"
	"github.com/elektrokombinacija/gridmapf/internal/scenario"
)

type benchOptions struct {
	genOptions
	runs     int
	parallel int
}

// benchResult is one CSV row.
type benchResult struct {
	RunID     string
	Seed      int64
	Width     int
	Height    int
	Agents    int
	Obstacles int
	Reason    string
	Rounds    int
	Makespan  int
	SumCost   int
	RuntimeMs float64
}

var benchHeader = []string{
	"run_id", "seed", "width", "height", "agents", "obstacles",
	"reason", "rounds", "makespan", "sum_cost", "runtime_ms",
}

func (r benchResult) record() []string {
	return []string{
		r.RunID,
		strconv.FormatInt(r.Seed, 10),
		strconv.Itoa(r.Width),
		strconv.Itoa(r.Height),
		strconv.Itoa(r.Agents),
		strconv.Itoa(r.Obstacles),
		r.Reason,
		strconv.Itoa(r.Rounds),
		strconv.Itoa(r.Makespan),
		strconv.Itoa(r.SumCost),
		strconv.FormatFloat(r.RuntimeMs, 'f', 3, 64),
	}
}

func newBenchCmd() *cobra.Command {
	opts := &benchOptions{}
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Solve a batch of random scenarios and report CSV",
		Long: `Generate one random scenario per seed, solve each, and write a CSV row
per run with the outcome, rounds used, makespan, sum of costs and runtime.

Seeds run from --seed to --seed+runs-1. --max-rounds and --workers override
planner.max_rounds and planner.workers for every run.`,
		Args:    cobra.NoArgs,
		PreRunE: bindPlannerFlags,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.IntVar(&opts.width, "width", 0, "grid width (default scenario.width)")
	f.IntVar(&opts.height, "height", 0, "grid height (default scenario.height)")
	f.IntVarP(&opts.agents, "agents", "n", 3, "agents per scenario")
	f.IntVar(&opts.obstacles, "obstacles", -1, "random obstacles (default scenario.obstacles)")
	f.Int64Var(&opts.seed, "seed", 0, "first seed (default scenario.seed)")
	f.StringVarP(&opts.out, "out", "o", "", "CSV file (default stdout)")
	f.IntVar(&opts.runs, "runs", 20, "number of scenarios")
	f.IntVarP(&opts.parallel, "parallel", "p", 1, "scenarios solved concurrently")
	addPlannerFlags(cmd)

	return cmd
}

func runBench(cmd *cobra.Command, opts *benchOptions) error {
	if opts.runs < 1 {
		return fmt.Errorf("--runs must be at least 1, got %d", opts.runs)
	}
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Close()

	base := opts.params(cmd, cfg.Scenario)
	results := make([]benchResult, opts.runs)
	errs := make([]error, opts.runs)

	p := pool.New().WithMaxGoroutines(max(opts.parallel, 1))
	for i := 0; i < opts.runs; i++ {
		params := base
		params.Seed = base.Seed + int64(i)
		p.Go(func() {
			results[i], errs[i] = benchRun(cmd.Context(), cfg, logger, params)
		})
	}
	p.Wait()

	if err := errors.Join(errs...); err != nil {
		return err
	}

	if opts.out != "" {
		err = writeBenchReport(opts.out, results)
	} else {
		err = writeBenchCSV(cmd.OutOrStdout(), results)
	}
	if err != nil {
		return err
	}

	solved := 0
	for _, r := range results {
		if r.Reason == "solved" {
			solved++
		}
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "solved %d/%d\n", solved, len(results))
	return nil
}

// benchRun solves one generated scenario. Planning failures are recorded
// in the result; only malformed input is returned as an error.
func benchRun(ctx context.Context, cfg *config.Config, logger *logging.Logger, params scenario.Params) (benchResult, error) {
	res := benchResult{
		RunID:     uuid.NewString(),
		Seed:      params.Seed,
		Width:     params.Width,
		Height:    params.Height,
		Agents:    params.Agents,
		Obstacles: params.Obstacles,
	}

	sc, err := scenario.Generate(params)
	if err != nil {
		return res, err
	}
	inst, err := sc.Build()
	if err != nil {
		return res, err
	}

	ctx, cancel := plannerContext(ctx, cfg)
	defer cancel()

	coord := algo.NewCoordinator(cfg.Planner.MaxRounds)
	coord.Workers = cfg.Planner.Workers
	coord.Logger = logger.With("bench_run", res.RunID, "seed", params.Seed)
	coord.Observer = algo.ObserverFunc(func(info algo.RoundInfo) {
		res.Rounds = info.Round
	})

	started := time.Now()
	sol, err := coord.Solve(ctx, inst)
	res.RuntimeMs = float64(time.Since(started).Microseconds()) / 1000
	res.Reason = errors.Reason(err)

	if err != nil {
		if errors.IsPlanningFailure(err) {
			return res, nil
		}
		return res, err
	}
	res.Makespan = sol.Makespan
	res.SumCost = sol.SumCost
	return res, nil
}

// writeBenchReport writes the CSV to path on appFs.
func writeBenchReport(path string, results []benchResult) error {
	file, err := appFs.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	if err := writeBenchCSV(file, results); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to write report: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close report: %w", err)
	}
	return nil
}

func writeBenchCSV(w io.Writer, results []benchResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(benchHeader); err != nil {
		return err
	}
	for _, r := range results {
		if err := cw.Write(r.record()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
