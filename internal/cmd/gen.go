package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/elektrokombinacija/gridmapf/internal/config"
	"github.com/elektrokombinacija/gridmapf/internal/scenario"
)

type genOptions struct {
	width     int
	height    int
	agents    int
	obstacles int
	seed      int64
	out       string
}

func newGenCmd() *cobra.Command {
	opts := &genOptions{}
	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate a random scenario",
		Long: `Generate a random scenario and write it as YAML.

Grid size, obstacle count and seed default to the scenario section of the
configuration. The same flags always produce the same scenario.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGen(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.IntVar(&opts.width, "width", 0, "grid width (default scenario.width)")
	f.IntVar(&opts.height, "height", 0, "grid height (default scenario.height)")
	f.IntVarP(&opts.agents, "agents", "n", 3, "number of agents")
	f.IntVar(&opts.obstacles, "obstacles", -1, "random obstacles (default scenario.obstacles)")
	f.Int64Var(&opts.seed, "seed", 0, "random seed (default scenario.seed)")
	f.StringVarP(&opts.out, "out", "o", "", "output file (default stdout)")

	return cmd
}

// params fills unset options from the scenario configuration.
func (o *genOptions) params(cmd *cobra.Command, cfg config.ScenarioConfig) scenario.Params {
	p := scenario.Params{
		Width:     cfg.Width,
		Height:    cfg.Height,
		Agents:    o.agents,
		Obstacles: cfg.Obstacles,
		Seed:      cfg.Seed,
	}
	if o.width > 0 {
		p.Width = o.width
	}
	if o.height > 0 {
		p.Height = o.height
	}
	if o.obstacles >= 0 {
		p.Obstacles = o.obstacles
	}
	if cmd.Flags().Changed("seed") {
		p.Seed = o.seed
	}
	return p
}

func runGen(cmd *cobra.Command, opts *genOptions) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	sc, err := scenario.Generate(opts.params(cmd, cfg.Scenario))
	if err != nil {
		return err
	}
	// Reject scenarios whose random obstacles cannot be placed.
	if _, err := sc.Build(); err != nil {
		return err
	}

	if opts.out == "" {
		data, err := yaml.Marshal(sc)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}

	if err := scenario.Save(appFs, opts.out, sc); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d agents, %d obstacles)\n", opts.out, len(sc.Agents), sc.Obstacles.Random)
	return nil
}
