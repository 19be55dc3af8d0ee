package app

import (
	"image/color"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// plotMark is one machine rendered in principal-axis space.
type plotMark struct {
	X, Y   float64
	Radius float32
	Color  color.Color
	Best   bool
}

// scatterPlot draws the (PC1, PC2) cloud on a Fyne canvas. The best machine
// is starred; tapping near a mark reports its index via OnTapped.
type scatterPlot struct {
	widget.BaseWidget

	mu       sync.Mutex
	marks    []plotMark
	xLabel   string
	yLabel   string
	lastSize fyne.Size

	OnTapped func(idx int)
}

const plotPadding = float32(28)

func newScatterPlot() *scatterPlot {
	p := &scatterPlot{}
	p.ExtendBaseWidget(p)
	return p
}

// SetData replaces the rendered marks and axis captions.
func (p *scatterPlot) SetData(marks []plotMark, xLabel, yLabel string) {
	p.mu.Lock()
	p.marks = append([]plotMark(nil), marks...)
	p.xLabel = xLabel
	p.yLabel = yLabel
	p.mu.Unlock()
	p.Refresh()
}

// Tapped selects the nearest mark within a small hit radius.
func (p *scatterPlot) Tapped(e *fyne.PointEvent) {
	p.mu.Lock()
	marks := p.marks
	size := p.lastSize
	p.mu.Unlock()
	if p.OnTapped == nil || len(marks) == 0 || size.Width == 0 {
		return
	}
	bounds := markBounds(marks)
	best, bestDist := -1, float32(24*24)
	for i, m := range marks {
		pos := dataToScreen(m.X, m.Y, bounds, size)
		dx := pos.X - e.Position.X
		dy := pos.Y - e.Position.Y
		d := dx*dx + dy*dy
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	if best >= 0 {
		p.OnTapped(best)
	}
}

func (p *scatterPlot) CreateRenderer() fyne.WidgetRenderer {
	r := &scatterRenderer{plot: p}
	r.bg = canvas.NewRectangle(color.NRGBA{R: 0xfa, G: 0xfa, B: 0xfa, A: 0xff})
	r.xAxis = canvas.NewLine(color.NRGBA{R: 0xbd, G: 0xbd, B: 0xbd, A: 0xff})
	r.yAxis = canvas.NewLine(color.NRGBA{R: 0xbd, G: 0xbd, B: 0xbd, A: 0xff})
	r.xText = canvas.NewText("", theme.Color(theme.ColorNameForeground))
	r.xText.TextSize = 12
	r.yText = canvas.NewText("", theme.Color(theme.ColorNameForeground))
	r.yText.TextSize = 12
	return r
}

type scatterRenderer struct {
	plot    *scatterPlot
	bg      *canvas.Rectangle
	xAxis   *canvas.Line
	yAxis   *canvas.Line
	xText   *canvas.Text
	yText   *canvas.Text
	markers []fyne.CanvasObject
}

func (r *scatterRenderer) MinSize() fyne.Size {
	return fyne.NewSize(420, 320)
}

func (r *scatterRenderer) Layout(size fyne.Size) {
	r.plot.mu.Lock()
	r.plot.lastSize = size
	marks := r.plot.marks
	xLabel := r.plot.xLabel
	yLabel := r.plot.yLabel
	r.plot.mu.Unlock()

	r.bg.Resize(size)
	r.bg.Move(fyne.NewPos(0, 0))

	mid := dataToScreen(0, 0, markBounds(marks), size)
	r.xAxis.Position1 = fyne.NewPos(plotPadding, mid.Y)
	r.xAxis.Position2 = fyne.NewPos(size.Width-plotPadding, mid.Y)
	r.yAxis.Position1 = fyne.NewPos(mid.X, plotPadding)
	r.yAxis.Position2 = fyne.NewPos(mid.X, size.Height-plotPadding)

	r.xText.Text = xLabel
	r.xText.Move(fyne.NewPos(size.Width-r.xText.MinSize().Width-4, mid.Y+4))
	r.yText.Text = yLabel
	r.yText.Move(fyne.NewPos(mid.X+6, 4))

	r.markers = r.markers[:0]
	bounds := markBounds(marks)
	for _, m := range marks {
		pos := dataToScreen(m.X, m.Y, bounds, size)
		radius := m.Radius
		if radius < 4 {
			radius = 4
		}
		circle := canvas.NewCircle(m.Color)
		circle.Resize(fyne.NewSize(radius*2, radius*2))
		circle.Move(fyne.NewPos(pos.X-radius, pos.Y-radius))
		r.markers = append(r.markers, circle)
		if m.Best {
			star := canvas.NewText("★", color.NRGBA{R: 0xd3, G: 0x2f, B: 0x2f, A: 0xff})
			star.TextSize = radius*2 + 6
			starSize := star.MinSize()
			star.Move(fyne.NewPos(pos.X-starSize.Width/2, pos.Y-starSize.Height/2))
			r.markers = append(r.markers, star)
		}
	}
}

func (r *scatterRenderer) Refresh() {
	r.Layout(r.plot.Size())
	canvas.Refresh(r.plot)
}

func (r *scatterRenderer) Objects() []fyne.CanvasObject {
	objects := []fyne.CanvasObject{r.bg, r.xAxis, r.yAxis, r.xText, r.yText}
	return append(objects, r.markers...)
}

func (r *scatterRenderer) Destroy() {}

type plotBounds struct {
	minX, maxX, minY, maxY float64
}

// markBounds pads the data extent so marks never sit on the border and a
// degenerate extent still has a usable span.
func markBounds(marks []plotMark) plotBounds {
	b := plotBounds{minX: -1, maxX: 1, minY: -1, maxY: 1}
	if len(marks) == 0 {
		return b
	}
	b.minX, b.maxX = marks[0].X, marks[0].X
	b.minY, b.maxY = marks[0].Y, marks[0].Y
	for _, m := range marks[1:] {
		b.minX = minFloat(b.minX, m.X)
		b.maxX = maxFloat(b.maxX, m.X)
		b.minY = minFloat(b.minY, m.Y)
		b.maxY = maxFloat(b.maxY, m.Y)
	}
	padX := (b.maxX - b.minX) * 0.15
	padY := (b.maxY - b.minY) * 0.15
	if padX == 0 {
		padX = 1
	}
	if padY == 0 {
		padY = 1
	}
	b.minX -= padX
	b.maxX += padX
	b.minY -= padY
	b.maxY += padY
	return b
}

func dataToScreen(x, y float64, b plotBounds, size fyne.Size) fyne.Position {
	w := size.Width - 2*plotPadding
	h := size.Height - 2*plotPadding
	if w <= 0 || h <= 0 {
		return fyne.NewPos(plotPadding, plotPadding)
	}
	fx := (x - b.minX) / (b.maxX - b.minX)
	fy := (y - b.minY) / (b.maxY - b.minY)
	// Screen Y grows downward; data Y grows upward.
	return fyne.NewPos(plotPadding+float32(fx)*w, plotPadding+(1-float32(fy))*h)
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
