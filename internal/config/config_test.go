package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func TestDefault_IsValid(t *testing.T) {
	if errs := Default().Validate(); len(errs) != 0 {
		t.Errorf("Default().Validate() = %v", errs)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"zero rounds", func(c *Config) { c.Planner.MaxRounds = 0 }, "planner.max_rounds"},
		{"zero workers", func(c *Config) { c.Planner.Workers = 0 }, "planner.workers"},
		{"negative timeout", func(c *Config) { c.Planner.TimeoutSeconds = -1 }, "planner.timeout_seconds"},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"tiny cells", func(c *Config) { c.Playback.CellSize = 2 }, "playback.cell_size"},
		{"too many obstacles", func(c *Config) { c.Scenario.Obstacles = 1000 }, "scenario.obstacles"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			errs := cfg.Validate()
			if len(errs) != 1 {
				t.Fatalf("got %d errors, want 1: %v", len(errs), errs)
			}
			if errs[0].Field != tt.field {
				t.Errorf("Field = %q, want %q", errs[0].Field, tt.field)
			}
		})
	}
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{
		{Field: "a", Value: 1, Message: "bad"},
		{Field: "b", Value: 2, Message: "worse"},
	}
	msg := errs.Error()
	if !strings.HasPrefix(msg, "2 validation errors:") {
		t.Errorf("Error() = %q", msg)
	}
	if ValidationErrors(nil).Error() != "" {
		t.Error("empty ValidationErrors should render empty")
	}
}

func TestLoad_FromFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "planner:\n  max_rounds: 7\n  workers: 3\nlogging:\n  level: debug\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	SetDefaults()
	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Planner.MaxRounds != 7 || cfg.Planner.Workers != 3 {
		t.Errorf("planner = %+v", cfg.Planner)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("level = %q", cfg.Logging.Level)
	}
	// Untouched sections keep defaults.
	if cfg.Scenario.Width != 15 || cfg.Playback.FrameDelayMs != 500 {
		t.Errorf("defaults lost: %+v %+v", cfg.Scenario, cfg.Playback)
	}
}

func TestLoad_Invalid(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	SetDefaults()
	viper.Set("planner.max_rounds", 0)

	if _, err := Load(); err == nil {
		t.Error("Load() accepted max_rounds = 0")
	}
}

func TestConfigDir_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got := ConfigDir(); got != filepath.Join("/tmp/xdg", "gridmapf") {
		t.Errorf("ConfigDir() = %q", got)
	}
}

func TestInit_EnvOverride(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("GRIDMAPF_PLANNER_MAX_ROUNDS", "9")
	t.Setenv("GRIDMAPF_LOGGING_LEVEL", "warn")

	if err := Init(""); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Planner.MaxRounds != 9 || cfg.Logging.Level != "warn" {
		t.Errorf("env not applied: %+v %+v", cfg.Planner, cfg.Logging)
	}
	if cfg.Planner.Workers != 1 {
		t.Errorf("workers = %d, want default 1", cfg.Planner.Workers)
	}
}

func TestInit_ExplicitFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	path := filepath.Join(t.TempDir(), "custom.yaml")
	if err := os.WriteFile(path, []byte("scenario:\n  seed: 42\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := Init(path); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Scenario.Seed != 42 {
		t.Errorf("seed = %d, want 42", cfg.Scenario.Seed)
	}
	if viper.ConfigFileUsed() != path {
		t.Errorf("ConfigFileUsed() = %q", viper.ConfigFileUsed())
	}
}

func TestInit_ExplicitFileErrors(t *testing.T) {
	dir := t.TempDir()
	malformed := filepath.Join(dir, "malformed.yaml")
	if err := os.WriteFile(malformed, []byte("planner:\n  max_rounds: [7\n"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
	}{
		{"malformed", malformed},
		{"missing", filepath.Join(dir, "typo.yaml")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Reset()
			t.Cleanup(viper.Reset)

			err := Init(tt.path)
			if err == nil {
				t.Fatalf("Init(%q) should fail", tt.path)
			}
			if !strings.Contains(err.Error(), "failed to read config") {
				t.Errorf("error = %v", err)
			}
		})
	}
}

func TestInit_SearchPathMissingIsFine(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	if err := Init(""); err != nil {
		t.Fatalf("Init() = %v, want nil without a config file", err)
	}
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Planner.MaxRounds != 100 {
		t.Errorf("max_rounds = %d, want default 100", cfg.Planner.MaxRounds)
	}
}
