package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/elektrokombinacija/gridmapf/internal/logging"
)

// ValidationError describes a single invalid configuration value
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// Validate checks every field and returns all problems found.
func (c *Config) Validate() []ValidationError {
	var errs []ValidationError

	if c.Planner.MaxRounds < 1 {
		errs = append(errs, ValidationError{"planner.max_rounds", c.Planner.MaxRounds, "must be at least 1"})
	}
	if c.Planner.Workers < 1 {
		errs = append(errs, ValidationError{"planner.workers", c.Planner.Workers, "must be at least 1"})
	}
	if c.Planner.TimeoutSeconds < 0 {
		errs = append(errs, ValidationError{"planner.timeout_seconds", c.Planner.TimeoutSeconds, "must not be negative"})
	}

	if !slices.Contains(logging.ValidLevels(), strings.ToUpper(c.Logging.Level)) {
		errs = append(errs, ValidationError{"logging.level", c.Logging.Level,
			"must be one of " + strings.ToLower(strings.Join(logging.ValidLevels(), ", "))})
	}

	if c.Playback.FrameDelayMs < 0 {
		errs = append(errs, ValidationError{"playback.frame_delay_ms", c.Playback.FrameDelayMs, "must not be negative"})
	}
	if c.Playback.CellSize < 4 {
		errs = append(errs, ValidationError{"playback.cell_size", c.Playback.CellSize, "must be at least 4"})
	}

	if c.Scenario.Width < 1 || c.Scenario.Height < 1 {
		errs = append(errs, ValidationError{"scenario.width/height",
			fmt.Sprintf("%dx%d", c.Scenario.Width, c.Scenario.Height), "must be positive"})
	}
	if c.Scenario.Obstacles < 0 || c.Scenario.Obstacles > c.Scenario.Width*c.Scenario.Height {
		errs = append(errs, ValidationError{"scenario.obstacles", c.Scenario.Obstacles, "must fit in the grid"})
	}

	return errs
}
