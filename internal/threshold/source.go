package threshold

// Source is the image the engine reads. Intensity must be valid for every
// coordinate in [0, Width()) x [0, Height()).
type Source interface {
	Width() int
	Height() int
	Channels() int
	MaxValue() int
	Intensity(x, y int) int
}

// Gray is a row-major 8-bit single channel buffer with stride W.
type Gray struct {
	Pix  []byte
	W, H int
}

func NewGray(w, h int) Gray {
	return Gray{Pix: make([]byte, w*h), W: w, H: h}
}

func (g Gray) Width() int    { return g.W }
func (g Gray) Height() int   { return g.H }
func (g Gray) Channels() int { return 1 }
func (g Gray) MaxValue() int { return 255 }

func (g Gray) Intensity(x, y int) int { return int(g.Pix[y*g.W+x]) }

// At makes Gray a Sampler so the scale 1 path indexes the buffer directly.
func (g Gray) At(x, y int) int { return int(g.Pix[y*g.W+x]) }

func (g Gray) Set(x, y int, v byte) { g.Pix[y*g.W+x] = v }

// RGB is an interleaved 8-bit three channel buffer. Its intensity is the sum
// of the channels, which is why the offset is multiplied by Channels().
type RGB struct {
	Pix  []byte
	W, H int
}

func (c RGB) Width() int    { return c.W }
func (c RGB) Height() int   { return c.H }
func (c RGB) Channels() int { return 3 }
func (c RGB) MaxValue() int { return 255 }

func (c RGB) Intensity(x, y int) int {
	i := (y*c.W + x) * 3
	return int(c.Pix[i]) + int(c.Pix[i+1]) + int(c.Pix[i+2])
}
