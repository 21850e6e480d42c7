// Package cmd implements the gridmapf command line.
package cmd

import (
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/elektrokombinacija/gridmapf/internal/config"
	"github.com/elektrokombinacija/gridmapf/internal/logging"
)

// appFs is where scenarios and CSV reports are read and written.
var appFs afero.Fs = afero.NewOsFs()

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "gridmapf",
		Short: "Multi-agent path planning on 4-connected grids",
		Long: `gridmapf plans collision-free paths for several agents on a grid with
obstacles. Each agent is routed with A*, vertex conflicts between the paths
are detected and resolved in rounds, and the result can be replayed in the
terminal or exported for benchmarking.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return config.Init(viper.GetString("config"))
		},
	}

	root.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/gridmapf/config.yaml)")
	_ = viper.BindPFlag("config", root.PersistentFlags().Lookup("config"))

	root.AddCommand(newSolveCmd(), newGenCmd(), newBenchCmd(), newConfigCmd())
	return root
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

// plannerFlags maps planner override flags to their config keys.
var plannerFlags = map[string]string{
	"max-rounds": "planner.max_rounds",
	"workers":    "planner.workers",
}

func addPlannerFlags(cmd *cobra.Command) {
	cmd.Flags().Int("max-rounds", 0, "override planner.max_rounds")
	cmd.Flags().Int("workers", 0, "override planner.workers")
}

// bindPlannerFlags binds the running command's planner flags. viper holds
// one flag per key, so solve and bench bind at run time.
func bindPlannerFlags(cmd *cobra.Command, args []string) error {
	for name, key := range plannerFlags {
		if err := viper.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
			return err
		}
	}
	return nil
}

// setup loads the validated configuration and opens the logger it names.
func setup() (*config.Config, *logging.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.NewLogger(cfg.Logging.Dir, cfg.Logging.Level)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}
