// Package render draws grid frames for the terminal.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/elektrokombinacija/gridmapf/internal/core"
)

const agentGlyphs = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Theme holds the glyphs and styles used for each kind of cell.
type Theme struct {
	EmptyGlyph    string
	ObstacleGlyph string
	GoalGlyph     string
	CollideGlyph  string

	Empty    lipgloss.Style
	Obstacle lipgloss.Style
	Collide  lipgloss.Style
	Header   lipgloss.Style

	// Agents colors agent i with Agents[i % len(Agents)].
	Agents []lipgloss.Color
}

// DefaultTheme returns the standard terminal palette.
func DefaultTheme() Theme {
	return Theme{
		EmptyGlyph:    "·",
		ObstacleGlyph: "█",
		GoalGlyph:     "◎",
		CollideGlyph:  "!",

		Empty:    lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Obstacle: lipgloss.NewStyle().Foreground(lipgloss.Color("248")),
		Collide:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		Header:   lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true),

		Agents: []lipgloss.Color{"#E06C75", "#98C379", "#61AFEF", "#E5C07B", "#C678DD", "#56B6C2"},
	}
}

// PlainTheme uses ASCII glyphs and no styling.
func PlainTheme() Theme {
	return Theme{
		EmptyGlyph:    ".",
		ObstacleGlyph: "#",
		GoalGlyph:     "*",
		CollideGlyph:  "!",
	}
}

// Renderer draws frames with a fixed theme.
type Renderer struct {
	theme Theme
}

// New creates a renderer.
func New(theme Theme) *Renderer {
	return &Renderer{theme: theme}
}

// AgentGlyph is the single-character label for agent i.
func AgentGlyph(i int) string {
	return string(agentGlyphs[i%len(agentGlyphs)])
}

func (r *Renderer) agentStyle(i int) lipgloss.Style {
	if len(r.theme.Agents) == 0 {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Foreground(r.theme.Agents[i%len(r.theme.Agents)]).Bold(true)
}

// Grid draws inst with agents at positions. Goals are shown where no agent
// stands; two agents on one cell are drawn as a collision.
func (r *Renderer) Grid(inst *core.Instance, positions []core.Cell) string {
	g := inst.Grid

	occupant := make(map[core.Cell]int, len(positions))
	for i, c := range positions {
		if _, taken := occupant[c]; taken {
			occupant[c] = -1
			continue
		}
		occupant[c] = i
	}
	goalOf := make(map[core.Cell]int, len(inst.Agents))
	for i, a := range inst.Agents {
		goalOf[a.Goal] = i
	}

	var sb strings.Builder
	for y := 0; y < g.Height(); y++ {
		cells := make([]string, 0, g.Width())
		for x := 0; x < g.Width(); x++ {
			c := core.C(x, y)
			var glyph string
			switch who, ok := occupant[c]; {
			case ok && who < 0:
				glyph = r.theme.Collide.Render(r.theme.CollideGlyph)
			case ok:
				glyph = r.agentStyle(who).Render(AgentGlyph(who))
			case g.Blocked(c):
				glyph = r.theme.Obstacle.Render(r.theme.ObstacleGlyph)
			default:
				if i, isGoal := goalOf[c]; isGoal {
					glyph = r.agentStyle(i).Render(r.theme.GoalGlyph)
				} else {
					glyph = r.theme.Empty.Render(r.theme.EmptyGlyph)
				}
			}
			cells = append(cells, glyph)
		}
		sb.WriteString(strings.Join(cells, " "))
		if y < g.Height()-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// Frame draws one playback timestep with a header line.
func (r *Renderer) Frame(inst *core.Instance, positions []core.Cell, t, makespan int) string {
	header := r.theme.Header.Render(fmt.Sprintf("t=%d/%d", t, makespan))
	return lipgloss.JoinVertical(lipgloss.Left, header, r.Grid(inst, positions))
}

// Legend lists each agent's glyph, start and goal.
func (r *Renderer) Legend(inst *core.Instance) string {
	lines := make([]string, 0, len(inst.Agents))
	for i, a := range inst.Agents {
		lines = append(lines, fmt.Sprintf("%s agent %d: %v -> %v",
			r.agentStyle(i).Render(AgentGlyph(i)), a.ID, a.Start, a.Goal))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
