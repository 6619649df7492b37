package threshold

import (
	"fmt"

	"tagedge/internal/config"
)

// Geometry is the working resolution of one computation. Output pixel (x, y)
// samples the source around (int(x*Scale), int(y*Scale)).
type Geometry struct {
	Width  int
	Height int
	Scale  float64
	Span   int
}

// Resolve picks the working resolution for a srcW x srcH source.
//
// The source is used as is when native scaling is requested (the image
// library has already resized it), when ScaleSize is below the window size,
// or when the source already fits in ScaleSize. Otherwise the longer side is
// brought to ScaleSize and Span pixels are cropped from the far edges so the
// averaging sampler never reads past the source.
func Resolve(srcW, srcH int, cfg config.Config) (Geometry, error) {
	size := cfg.WindowSize
	if srcW <= size || srcH <= size {
		return Geometry{}, fmt.Errorf("%w: window %d, source %dx%d", ErrWindowTooLarge, size, srcW, srcH)
	}

	g := Geometry{Width: srcW, Height: srcH, Scale: 1}
	if cfg.NativeScale || cfg.ScaleSize < size {
		return g, nil
	}

	scale := float64(max(srcW, srcH)) / float64(cfg.ScaleSize)
	if scale <= 1 {
		return g, nil
	}

	span := int(scale / 2)
	g = Geometry{
		Width:  int(float64(srcW)/scale) - span,
		Height: int(float64(srcH)/scale) - span,
		Scale:  scale,
		Span:   span,
	}

	if g.Width <= size || g.Height <= size {
		return Geometry{}, fmt.Errorf("%w: window %d, working resolution %dx%d (scale %.3f)",
			ErrWindowTooLarge, size, g.Width, g.Height, scale)
	}

	return g, nil
}

// SourcePoint maps an output coordinate to the source pixel it is sampled
// around.
func (g Geometry) SourcePoint(x, y int) (int, int) {
	return int(float64(x) * g.Scale), int(float64(y) * g.Scale)
}
