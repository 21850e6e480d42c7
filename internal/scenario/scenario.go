// Package scenario reads and writes planning problems as YAML documents.
//
// A scenario looks like:
//
//	name: demo
//	width: 15
//	height: 15
//	obstacles:
//	  cells: [[3, 4], [3, 5]]
//	  random: 20
//	  seed: 1
//	agents:
//	  - start: [1, 1]
//	    goal: [10, 9]
//
// Explicit cells are blocked first, then `random` further cells are drawn
// with the given seed. Random obstacles never land on an agent endpoint.
package scenario

import (
	"fmt"
	"math/rand"
	"path/filepath"
	"strconv"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/elektrokombinacija/gridmapf/internal/core"
	"github.com/elektrokombinacija/gridmapf/internal/errors"
)

// File is the on-disk scenario document.
type File struct {
	Name      string      `yaml:"name,omitempty"`
	Width     int         `yaml:"width"`
	Height    int         `yaml:"height"`
	Obstacles Obstacles   `yaml:"obstacles,omitempty"`
	Agents    []AgentSpec `yaml:"agents"`
}

// Obstacles lists fixed blocked cells plus an optional random count.
type Obstacles struct {
	Cells  []Point `yaml:"cells,omitempty"`
	Random int     `yaml:"random,omitempty"`
	Seed   int64   `yaml:"seed,omitempty"`
}

// AgentSpec is one agent's start and goal.
type AgentSpec struct {
	Start Point `yaml:"start"`
	Goal  Point `yaml:"goal"`
}

// Point is a cell written as a two-element flow sequence, e.g. [3, 4].
type Point struct {
	X, Y int
}

// Cell converts p to a core.Cell.
func (p Point) Cell() core.Cell {
	return core.C(p.X, p.Y)
}

// PointOf converts a core.Cell to a Point.
func PointOf(c core.Cell) Point {
	return Point{X: c.X, Y: c.Y}
}

// UnmarshalYAML decodes [x, y].
func (p *Point) UnmarshalYAML(value *yaml.Node) error {
	var xy []int
	if err := value.Decode(&xy); err != nil {
		return err
	}
	if len(xy) != 2 {
		return fmt.Errorf("line %d: want [x, y], got %d values", value.Line, len(xy))
	}
	p.X, p.Y = xy[0], xy[1]
	return nil
}

// MarshalYAML encodes p as a flow sequence.
func (p Point) MarshalYAML() (any, error) {
	return &yaml.Node{
		Kind:  yaml.SequenceNode,
		Style: yaml.FlowStyle,
		Content: []*yaml.Node{
			{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(p.X)},
			{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(p.Y)},
		},
	}, nil
}

// Parse decodes a scenario document.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.NewScenarioError("", "invalid yaml", errors.Join(errors.ErrInvalidInput, err))
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Load reads and decodes the scenario at path.
func Load(fs afero.Fs, path string) (*File, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		var se *errors.ScenarioError
		if errors.As(err, &se) {
			se.Path = path
		}
		return nil, err
	}
	return f, nil
}

// Save encodes f and writes it to path, creating parent directories.
func Save(fs afero.Fs, path string, f *File) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to encode scenario: %w", err)
	}
	if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create scenario directory: %w", err)
	}
	if err := afero.WriteFile(fs, path, data, 0644); err != nil {
		return fmt.Errorf("failed to write scenario: %w", err)
	}
	return nil
}

// Validate checks the fields that do not need a grid to verify.
func (f *File) Validate() error {
	if f.Width <= 0 || f.Height <= 0 {
		return errors.NewScenarioError("", fmt.Sprintf("grid must be positive, got %dx%d", f.Width, f.Height), nil)
	}
	if f.Obstacles.Random < 0 {
		return errors.NewScenarioError("", "obstacles.random must not be negative", nil)
	}
	return nil
}

// Build constructs the instance the scenario describes.
func (f *File) Build() (*core.Instance, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	g, err := core.NewGrid(f.Width, f.Height)
	if err != nil {
		return nil, err
	}

	for _, p := range f.Obstacles.Cells {
		if err := g.SetObstacle(p.Cell()); err != nil {
			return nil, errors.NewScenarioError("", "bad obstacle", err)
		}
	}

	reserved := make([]core.Cell, 0, 2*len(f.Agents))
	for _, a := range f.Agents {
		reserved = append(reserved, a.Start.Cell(), a.Goal.Cell())
	}
	if f.Obstacles.Random > 0 {
		rng := rand.New(rand.NewSource(f.Obstacles.Seed))
		if err := g.PopulateRandomObstacles(f.Obstacles.Random, rng, reserved...); err != nil {
			return nil, errors.NewScenarioError("", "cannot place random obstacles", err)
		}
	}

	inst := core.NewInstance(g)
	for _, a := range f.Agents {
		if _, err := inst.AddAgent(a.Start.Cell(), a.Goal.Cell()); err != nil {
			return nil, err
		}
	}
	return inst, nil
}

// Default returns the three-agent demo on a 15x15 grid.
func Default(obstacles int, seed int64) *File {
	return &File{
		Name:   "demo",
		Width:  15,
		Height: 15,
		Obstacles: Obstacles{
			Random: obstacles,
			Seed:   seed,
		},
		Agents: []AgentSpec{
			{Start: Point{1, 1}, Goal: Point{10, 9}},
			{Start: Point{14, 14}, Goal: Point{3, 4}},
			{Start: Point{1, 14}, Goal: Point{7, 2}},
		},
	}
}

// FromInstance captures inst as a scenario with every obstacle explicit.
func FromInstance(name string, inst *core.Instance) *File {
	f := &File{
		Name:   name,
		Width:  inst.Grid.Width(),
		Height: inst.Grid.Height(),
	}
	for _, c := range inst.Grid.Obstacles() {
		f.Obstacles.Cells = append(f.Obstacles.Cells, PointOf(c))
	}
	for _, a := range inst.Agents {
		f.Agents = append(f.Agents, AgentSpec{Start: PointOf(a.Start), Goal: PointOf(a.Goal)})
	}
	return f
}
