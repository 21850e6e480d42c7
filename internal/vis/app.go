// Package vis implements a Gio window that plays back a planned solution.
package vis

import (
	"fmt"
	"image"
	"image/color"
	"time"

	"gioui.org/app"
	"gioui.org/io/event"
	"gioui.org/io/key"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget/material"

	"github.com/elektrokombinacija/gridmapf/internal/core"
	"github.com/elektrokombinacija/gridmapf/internal/playback"
)

// App is the playback window.
type App struct {
	inst   *core.Instance
	status string
	player *playback.Player
	theme  *material.Theme
	cell   unit.Dp
}

// NewApp creates a window model for inst. A nil solution shows the agents
// parked on their starts; status is printed in the footer either way.
func NewApp(inst *core.Instance, sol *core.Solution, status string, cellSize int, frameDelay time.Duration) *App {
	var paths []core.Path
	if sol != nil {
		paths = sol.Paths
	} else {
		for _, a := range inst.Agents {
			paths = append(paths, core.Path{a.Start})
		}
	}

	return &App{
		inst:   inst,
		status: status,
		player: playback.NewPlayer(paths, frameDelay),
		theme:  material.NewTheme(),
		cell:   unit.Dp(cellSize),
	}
}

// WindowSize returns a window size that fits the whole grid.
func (a *App) WindowSize() (unit.Dp, unit.Dp) {
	w := a.cell*unit.Dp(a.inst.Grid.Width()) + 2*margin
	h := a.cell*unit.Dp(a.inst.Grid.Height()) + 2*margin + footerHeight
	return w, h
}

// Run starts the application event loop.
func (a *App) Run(w *app.Window) error {
	var ops op.Ops

	tag := new(int)

	for {
		switch e := w.Event().(type) {
		case app.DestroyEvent:
			return e.Err

		case app.FrameEvent:
			gtx := app.NewContext(&ops, e)

			for {
				ev, ok := gtx.Event(key.Filter{Focus: tag})
				if !ok {
					break
				}
				if ke, ok := ev.(key.Event); ok && ke.State == key.Press {
					a.handleKeyEvent(ke)
				}
			}

			event.Op(gtx.Ops, tag)

			a.layout(gtx)
			e.Frame(gtx.Ops)

			if a.player.Playing {
				a.player.Advance()
				w.Invalidate()
			}
		}
	}
}

func (a *App) handleKeyEvent(e key.Event) {
	switch e.Name {
	case key.NameSpace:
		a.player.TogglePlay()
	case key.NameLeftArrow:
		a.player.StepBack()
	case key.NameRightArrow:
		a.player.StepForward()
	case key.NameHome:
		a.player.Reset()
	case key.NameEnd:
		a.player.Pause()
		a.player.SetStep(a.player.MaxStep)
	}
}

func (a *App) layout(gtx layout.Context) layout.Dimensions {
	paint.Fill(gtx.Ops, colorBackground)

	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
			return layout.UniformInset(margin).Layout(gtx, a.layoutGrid)
		}),
		layout.Rigid(a.layoutFooter),
	)
}

func (a *App) layoutGrid(gtx layout.Context) layout.Dimensions {
	g := a.inst.Grid
	size := gtx.Dp(a.cell)
	// Shrink cells when the window is smaller than the grid.
	if fit := min(gtx.Constraints.Max.X/g.Width(), gtx.Constraints.Max.Y/g.Height()); fit < size {
		size = max(fit, 2)
	}

	drawGrid(gtx, g, size)
	for i, p := range a.player.Paths {
		drawTrail(gtx, p, size, fade(AgentColor(i)))
	}
	for i, ag := range a.inst.Agents {
		drawGoal(gtx, ag.Goal, size, AgentColor(i))
	}
	for i, c := range a.player.Positions() {
		drawAgent(gtx, a.theme, c, size, i)
	}

	return layout.Dimensions{Size: image.Pt(size*g.Width(), size*g.Height())}
}

func (a *App) layoutFooter(gtx layout.Context) layout.Dimensions {
	height := gtx.Dp(footerHeight)
	width := gtx.Constraints.Max.X
	paint.FillShape(gtx.Ops, colorPanel, clip.Rect(image.Rect(0, 0, width, height)).Op())

	// Progress bar along the top edge.
	fill := int(float64(width) * a.player.Progress())
	paint.FillShape(gtx.Ops, colorProgress, clip.Rect(image.Rect(0, 0, fill, 3)).Op())

	msg := fmt.Sprintf("t=%d/%d   %s   [space] play  [←/→] step  [home] reset",
		a.player.Step, a.player.MaxStep, a.status)
	label := material.Label(a.theme, 13, msg)
	label.Color = colorText

	gtx.Constraints = layout.Exact(image.Pt(width, height))
	layout.Inset{Top: 12, Left: margin}.Layout(gtx, label.Layout)
	return layout.Dimensions{Size: image.Pt(width, height)}
}

const (
	margin       = unit.Dp(16)
	footerHeight = unit.Dp(44)
)

var (
	colorBackground = color.NRGBA{R: 30, G: 30, B: 35, A: 255}
	colorPanel      = color.NRGBA{R: 35, G: 38, B: 42, A: 255}
	colorProgress   = color.NRGBA{R: 100, G: 180, B: 255, A: 255}
	colorText       = color.NRGBA{R: 220, G: 220, B: 225, A: 255}
)
