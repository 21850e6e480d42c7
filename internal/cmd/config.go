package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/elektrokombinacija/gridmapf/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "View or create gridmapf configuration",
		Long: `View or create gridmapf configuration.

Without arguments, displays the effective configuration. Every key can be
overridden from the environment, e.g. GRIDMAPF_PLANNER_MAX_ROUNDS=50.`,
		RunE: runConfigShow,
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE:  runConfigShow,
	}

	path := &cobra.Command{
		Use:   "path",
		Short: "Show the config file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), config.ConfigFile())
			return nil
		},
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create a default config file",
		Long:  `Create a default config file at ~/.config/gridmapf/config.yaml with all available options.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigInit(cmd, config.ConfigFile(), force)
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")

	cmd.AddCommand(show, path, initCmd)
	return cmd
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if used := viper.ConfigFileUsed(); used != "" {
		fmt.Fprintf(out, "# config file: %s\n", used)
	} else {
		fmt.Fprintln(out, "# config file: (none - using defaults)")
	}

	data, err := yaml.Marshal(settings(cfg))
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}

func runConfigInit(cmd *cobra.Command, path string, force bool) error {
	exists, err := afero.Exists(appFs, path)
	if err != nil {
		return err
	}
	if exists && !force {
		return fmt.Errorf("config file already exists at %s (use --force to overwrite)", path)
	}

	data, err := yaml.Marshal(settings(config.Default()))
	if err != nil {
		return err
	}
	if err := appFs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := afero.WriteFile(appFs, path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
	return nil
}

// settings lays cfg out under the same keys viper reads.
func settings(cfg *config.Config) map[string]any {
	return map[string]any{
		"planner": map[string]any{
			"max_rounds":      cfg.Planner.MaxRounds,
			"workers":         cfg.Planner.Workers,
			"timeout_seconds": cfg.Planner.TimeoutSeconds,
		},
		"logging": map[string]any{
			"level": cfg.Logging.Level,
			"dir":   cfg.Logging.Dir,
		},
		"playback": map[string]any{
			"frame_delay_ms": cfg.Playback.FrameDelayMs,
			"cell_size":      cfg.Playback.CellSize,
		},
		"scenario": map[string]any{
			"width":     cfg.Scenario.Width,
			"height":    cfg.Scenario.Height,
			"obstacles": cfg.Scenario.Obstacles,
			"seed":      cfg.Scenario.Seed,
		},
	}
}
