package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. GRIDMAPF_PLANNER_MAX_ROUNDS.
const EnvPrefix = "GRIDMAPF"

// Config represents the complete gridmapf configuration
type Config struct {
	Planner  PlannerConfig  `mapstructure:"planner"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Playback PlaybackConfig `mapstructure:"playback"`
	Scenario ScenarioConfig `mapstructure:"scenario"`
}

// PlannerConfig controls the conflict-resolution loop
type PlannerConfig struct {
	// MaxRounds caps resolution rounds before failing (default: 100)
	MaxRounds int `mapstructure:"max_rounds"`
	// Workers plans agents of one round concurrently when > 1 (default: 1)
	Workers int `mapstructure:"workers"`
	// TimeoutSeconds aborts planning after this many seconds, 0 = no timeout
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

// LoggingConfig controls structured logging
type LoggingConfig struct {
	// Level is one of "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level"`
	// Dir is where gridmapf.log is written; empty logs to stderr
	Dir string `mapstructure:"dir"`
}

// PlaybackConfig controls solution playback in the terminal and window
type PlaybackConfig struct {
	// FrameDelayMs is the pause between timesteps (default: 500)
	FrameDelayMs int `mapstructure:"frame_delay_ms"`
	// CellSize is the window cell edge in dp (default: 40)
	CellSize int `mapstructure:"cell_size"`
}

// ScenarioConfig sizes generated scenarios and seeds the built-in demo
type ScenarioConfig struct {
	// Width of generated grids (default: 15)
	Width int `mapstructure:"width"`
	// Height of generated grids (default: 15)
	Height int `mapstructure:"height"`
	// Obstacles is the number of random obstacles (default: 20)
	Obstacles int `mapstructure:"obstacles"`
	// Seed for random obstacle placement (default: 1)
	Seed int64 `mapstructure:"seed"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Planner: PlannerConfig{
			MaxRounds:      100,
			Workers:        1,
			TimeoutSeconds: 0,
		},
		Logging: LoggingConfig{
			Level: "info",
			Dir:   "",
		},
		Playback: PlaybackConfig{
			FrameDelayMs: 500,
			CellSize:     40,
		},
		Scenario: ScenarioConfig{
			Width:     15,
			Height:    15,
			Obstacles: 20,
			Seed:      1,
		},
	}
}

// SetDefaults registers default values with viper.
func SetDefaults() {
	defaults := Default()

	viper.SetDefault("planner.max_rounds", defaults.Planner.MaxRounds)
	viper.SetDefault("planner.workers", defaults.Planner.Workers)
	viper.SetDefault("planner.timeout_seconds", defaults.Planner.TimeoutSeconds)

	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.dir", defaults.Logging.Dir)

	viper.SetDefault("playback.frame_delay_ms", defaults.Playback.FrameDelayMs)
	viper.SetDefault("playback.cell_size", defaults.Playback.CellSize)

	viper.SetDefault("scenario.width", defaults.Scenario.Width)
	viper.SetDefault("scenario.height", defaults.Scenario.Height)
	viper.SetDefault("scenario.obstacles", defaults.Scenario.Obstacles)
	viper.SetDefault("scenario.seed", defaults.Scenario.Seed)
}

// Init wires viper to the config file, the environment and the defaults.
// An empty cfgFile searches the config directory and the working directory.
// A config file missing from the search path is not an error; an explicit
// cfgFile that cannot be read or parsed is.
func Init(cfgFile string) error {
	SetDefaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(ConfigDir())
		viper.AddConfigPath(".")
	}

	viper.SetEnvPrefix(EnvPrefix)
	// planner.max_rounds is read from GRIDMAPF_PLANNER_MAX_ROUNDS
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

// Load reads the configuration from viper and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "gridmapf")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".gridmapf"
	}
	return filepath.Join(home, ".config", "gridmapf")
}

// ConfigFile returns the default config file path.
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}
