// Package playback steps through a solved plan one timestep at a time.
package playback

import (
	"time"

	"github.com/elektrokombinacija/gridmapf/internal/core"
)

// PositionsAt returns where each agent stands at timestep t. An agent
// whose path has ended waits on its last cell. Paths must hold at least
// the start cell: an empty path has no position and reports the zero Cell.
func PositionsAt(paths []core.Path, t int) []core.Cell {
	out := make([]core.Cell, len(paths))
	for i, p := range paths {
		out[i], _ = p.At(t)
	}
	return out
}

// Makespan is the last timestep at which any agent still moves.
func Makespan(paths []core.Path) int {
	m := 0
	for _, p := range paths {
		if len(p)-1 > m {
			m = len(p) - 1
		}
	}
	return m
}

// Player manages timestep playback.
type Player struct {
	Paths   []core.Path
	Step    int           // Current timestep
	MaxStep int           // Makespan of Paths
	Delay   time.Duration // Time per timestep while playing
	Playing bool

	now        func() time.Time
	lastUpdate time.Time
	carry      time.Duration
}

// NewPlayer creates a paused player at timestep 0.
func NewPlayer(paths []core.Path, delay time.Duration) *Player {
	if delay <= 0 {
		delay = time.Millisecond
	}
	return &Player{
		Paths:   paths,
		MaxStep: Makespan(paths),
		Delay:   delay,
		now:     time.Now,
	}
}

// Positions returns the agent cells at the current timestep.
func (p *Player) Positions() []core.Cell {
	return PositionsAt(p.Paths, p.Step)
}

// Done reports whether the last timestep is showing.
func (p *Player) Done() bool {
	return p.Step >= p.MaxStep
}

// TogglePlay toggles playback on/off.
func (p *Player) TogglePlay() {
	if p.Playing {
		p.Pause()
		return
	}
	if p.Done() {
		p.Step = 0
	}
	p.Play()
}

// Play starts playback.
func (p *Player) Play() {
	p.Playing = true
	p.lastUpdate = p.now()
	p.carry = 0
}

// Pause stops playback.
func (p *Player) Pause() {
	p.Playing = false
}

// Reset rewinds to timestep 0 and pauses.
func (p *Player) Reset() {
	p.Step = 0
	p.Playing = false
}

// Advance moves forward by however many timesteps the elapsed wall time
// covers. It reports whether the step changed.
func (p *Player) Advance() bool {
	if !p.Playing {
		return false
	}

	now := p.now()
	p.carry += now.Sub(p.lastUpdate)
	p.lastUpdate = now

	before := p.Step
	for p.carry >= p.Delay && !p.Done() {
		p.carry -= p.Delay
		p.Step++
	}
	if p.Done() {
		p.Playing = false
	}
	return p.Step != before
}

// SetStep jumps to timestep t, clamped to [0, MaxStep].
func (p *Player) SetStep(t int) {
	p.Step = max(0, min(t, p.MaxStep))
}

// StepForward pauses and moves one timestep ahead.
func (p *Player) StepForward() {
	p.Pause()
	p.SetStep(p.Step + 1)
}

// StepBack pauses and moves one timestep back.
func (p *Player) StepBack() {
	p.Pause()
	p.SetStep(p.Step - 1)
}

// Progress returns current progress as 0-1.
func (p *Player) Progress() float64 {
	if p.MaxStep <= 0 {
		return 0
	}
	return float64(p.Step) / float64(p.MaxStep)
}
