package threshold

import (
	"image/color"
	"image/draw"
)

// Observer receives the outcome of a computation as it is produced. Events
// arrive in row-major order from a single goroutine: Start once, then the
// classification of row y followed by the edges of row y-2, and finally the
// edges of the last marked row.
type Observer interface {
	Start(g Geometry, maxValue int)
	Classified(x, y int, filled bool)
	Edge(x, y int)
}

type nopObserver struct{}

func (nopObserver) Start(Geometry, int)       {}
func (nopObserver) Classified(int, int, bool) {}
func (nopObserver) Edge(int, int)             {}

// CanvasRenderer paints the computation onto a caller-owned image at source
// resolution: blank pixels white, filled pixels black, edges green. Each
// output pixel lands on the source pixel it was sampled from.
type CanvasRenderer struct {
	dst   draw.Image
	geom  Geometry
	blank color.Color
	fill  color.Color
	edge  color.Color
}

func NewCanvasRenderer(dst draw.Image) *CanvasRenderer {
	return &CanvasRenderer{dst: dst}
}

func (c *CanvasRenderer) Start(g Geometry, maxValue int) {
	c.geom = g
	c.blank = level(maxValue, maxValue, maxValue, maxValue)
	c.fill = level(0, 0, 0, maxValue)
	c.edge = level(0, maxValue, 0, maxValue)
}

func (c *CanvasRenderer) Classified(x, y int, filled bool) {
	if filled {
		c.set(x, y, c.fill)
	} else {
		c.set(x, y, c.blank)
	}
}

func (c *CanvasRenderer) Edge(x, y int) {
	c.set(x, y, c.edge)
}

func (c *CanvasRenderer) set(x, y int, col color.Color) {
	sx, sy := c.geom.SourcePoint(x, y)
	b := c.dst.Bounds()
	c.dst.Set(b.Min.X+sx, b.Min.Y+sy, col)
}

// level converts channel values in [0, maxValue] to a colour.
func level(r, g, b, maxValue int) color.Color {
	if maxValue <= 0 {
		maxValue = 255
	}
	scale := func(v int) uint16 { return uint16(v * 0xffff / maxValue) }
	return color.RGBA64{R: scale(r), G: scale(g), B: scale(b), A: 0xffff}
}
