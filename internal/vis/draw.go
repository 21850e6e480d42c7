package vis

import (
	"image"
	"image/color"
	"math"
	"strconv"

	"gioui.org/f32"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/widget/material"

	"github.com/elektrokombinacija/gridmapf/internal/core"
)

var (
	colorCell     = color.NRGBA{R: 45, G: 48, B: 54, A: 255}
	colorObstacle = color.NRGBA{R: 120, G: 120, B: 128, A: 255}

	agentPalette = []color.NRGBA{
		{R: 224, G: 108, B: 117, A: 255},
		{R: 152, G: 195, B: 121, A: 255},
		{R: 97, G: 175, B: 239, A: 255},
		{R: 229, G: 192, B: 123, A: 255},
		{R: 198, G: 120, B: 221, A: 255},
		{R: 86, G: 182, B: 194, A: 255},
	}
)

// AgentColor returns the draw color for agent i.
func AgentColor(i int) color.NRGBA {
	return agentPalette[i%len(agentPalette)]
}

func fade(c color.NRGBA) color.NRGBA {
	c.A = 90
	return c
}

func cellRect(c core.Cell, size int) image.Rectangle {
	return image.Rect(c.X*size, c.Y*size, (c.X+1)*size, (c.Y+1)*size)
}

func cellCenter(c core.Cell, size int) (float32, float32) {
	half := float32(size) / 2
	return float32(c.X*size) + half, float32(c.Y*size) + half
}

func drawGrid(gtx layout.Context, g *core.Grid, size int) {
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			c := core.C(x, y)
			col := colorCell
			if g.Blocked(c) {
				col = colorObstacle
			}
			// The one pixel gap forms the grid lines.
			paint.FillShape(gtx.Ops, col, clip.Rect(cellRect(c, size).Inset(1)).Op())
		}
	}
}

func drawTrail(gtx layout.Context, p core.Path, size int, col color.NRGBA) {
	width := max(float32(size)/8, 1)
	for t := 1; t < len(p); t++ {
		x1, y1 := cellCenter(p[t-1], size)
		x2, y2 := cellCenter(p[t], size)
		drawLine(gtx, x1, y1, x2, y2, width, col)
	}
}

func drawGoal(gtx layout.Context, c core.Cell, size int, col color.NRGBA) {
	r := cellRect(c, size).Inset(size / 4)
	paint.FillShape(gtx.Ops, col, clip.Stroke{
		Path:  clip.RRect{Rect: r}.Path(gtx.Ops),
		Width: max(float32(size)/12, 1),
	}.Op())
}

func drawAgent(gtx layout.Context, th *material.Theme, c core.Cell, size, i int) {
	cx, cy := cellCenter(c, size)
	drawFilledCircle(gtx, cx, cy, float32(size)*0.38, AgentColor(i))

	label := material.Label(th, 12, strconv.Itoa(i))
	label.Color = color.NRGBA{R: 20, G: 20, B: 24, A: 255}
	label.Alignment = text.Middle

	r := cellRect(c, size)
	defer op.Offset(image.Pt(r.Min.X, r.Min.Y+size/2-gtx.Sp(12)*2/3)).Push(gtx.Ops).Pop()
	gtx.Constraints = layout.Exact(image.Pt(size, size))
	label.Layout(gtx)
}

func drawLine(gtx layout.Context, x1, y1, x2, y2, width float32, col color.NRGBA) {
	dx := x2 - x1
	dy := y2 - y1
	length := float32(math.Sqrt(float64(dx*dx + dy*dy)))
	if length < 0.1 {
		return
	}

	dx /= length
	dy /= length
	px := -dy * width / 2
	py := dx * width / 2

	var path clip.Path
	path.Begin(gtx.Ops)
	path.MoveTo(f32.Pt(x1+px, y1+py))
	path.LineTo(f32.Pt(x2+px, y2+py))
	path.LineTo(f32.Pt(x2-px, y2-py))
	path.LineTo(f32.Pt(x1-px, y1-py))
	path.Close()

	paint.FillShape(gtx.Ops, col, clip.Outline{Path: path.End()}.Op())
}

func drawFilledCircle(gtx layout.Context, cx, cy, radius float32, col color.NRGBA) {
	var path clip.Path
	path.Begin(gtx.Ops)
	path.MoveTo(f32.Pt(cx+radius, cy))

	segments := 16
	for i := 1; i <= segments; i++ {
		angle := float64(i) * 2 * math.Pi / float64(segments)
		path.LineTo(f32.Pt(cx+radius*float32(math.Cos(angle)), cy+radius*float32(math.Sin(angle))))
	}
	path.Close()

	paint.FillShape(gtx.Ops, col, clip.Outline{Path: path.End()}.Op())
}
