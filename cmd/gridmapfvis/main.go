// Command gridmapfvis plays back a planned solution in a window.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"gioui.org/app"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/elektrokombinacija/gridmapf/internal/algo"
	"github.com/elektrokombinacija/gridmapf/internal/config"
	"github.com/elektrokombinacija/gridmapf/internal/errors"
	"github.com/elektrokombinacija/gridmapf/internal/logging"
	"github.com/elektrokombinacija/gridmapf/internal/scenario"
	"github.com/elektrokombinacija/gridmapf/internal/vis"
)

func main() {
	var cfgFile, scenarioPath string

	root := &cobra.Command{
		Use:          "gridmapfvis",
		Short:        "Solve a scenario and replay it in a window",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Init(cfgFile); err != nil {
				return err
			}
			application, title, err := prepare(scenarioPath)
			if err != nil {
				return err
			}

			go func() {
				window := new(app.Window)
				w, h := application.WindowSize()
				window.Option(
					app.Title(title),
					app.Size(w, h),
				)
				if err := application.Run(window); err != nil {
					log.Fatal(err)
				}
				os.Exit(0)
			}()
			app.Main()
			return nil
		},
	}
	root.Flags().StringVarP(&cfgFile, "config", "c", "", "config file (default is $HOME/.config/gridmapf/config.yaml)")
	root.Flags().StringVarP(&scenarioPath, "scenario", "s", "", "scenario YAML file (default: built-in demo)")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// prepare solves the scenario and builds the window model. A planning
// failure still opens the window so the agents and obstacles can be seen.
func prepare(scenarioPath string) (*vis.App, string, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, "", err
	}
	logger, err := logging.NewLogger(cfg.Logging.Dir, cfg.Logging.Level)
	if err != nil {
		return nil, "", err
	}
	defer logger.Close()

	sc := scenario.Default(cfg.Scenario.Obstacles, cfg.Scenario.Seed)
	if scenarioPath != "" {
		if sc, err = scenario.Load(afero.NewOsFs(), scenarioPath); err != nil {
			return nil, "", err
		}
	}
	inst, err := sc.Build()
	if err != nil {
		return nil, "", err
	}

	ctx := context.Background()
	if cfg.Planner.TimeoutSeconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(cfg.Planner.TimeoutSeconds)*time.Second)
		defer cancel()
	}

	coord := algo.NewCoordinator(cfg.Planner.MaxRounds)
	coord.Workers = cfg.Planner.Workers
	coord.Logger = logger
	sol, err := coord.Solve(ctx, inst)
	if err != nil && !errors.IsPlanningFailure(err) {
		return nil, "", err
	}

	status := "FAILED: " + errors.Reason(err)
	if sol != nil {
		status = fmt.Sprintf("solved in %d rounds, makespan %d", sol.Rounds, sol.Makespan)
	}

	a := vis.NewApp(inst, sol, status, cfg.Playback.CellSize, time.Duration(cfg.Playback.FrameDelayMs)*time.Millisecond)
	return a, "gridmapf - " + sc.Name, nil
}
