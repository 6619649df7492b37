package imaging

import (
	"fmt"
	"image"

	"tagedge/internal/threshold"

	xdraw "golang.org/x/image/draw"
)

// Resizer scales gray buffers with an x/image interpolator. The zero value
// uses bilinear interpolation.
type Resizer struct {
	Interpolator xdraw.Interpolator
}

func (r Resizer) Resize(g threshold.Gray, width, height int) (threshold.Gray, error) {
	if width <= 0 || height <= 0 {
		return threshold.Gray{}, fmt.Errorf("invalid target size %dx%d", width, height)
	}

	interp := r.Interpolator
	if interp == nil {
		interp = xdraw.BiLinear
	}

	dst := image.NewGray(image.Rect(0, 0, width, height))
	src := GrayImage(g)
	interp.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)

	return threshold.Gray{Pix: dst.Pix, W: width, H: height}, nil
}

// FitWithin returns the size of a w x h image scaled so its longer side is
// limit, or w, h unchanged when it already fits.
func FitWithin(w, h, limit int) (int, int) {
	longer := max(w, h)
	if limit <= 0 || longer <= limit {
		return w, h
	}
	return max(1, w*limit/longer), max(1, h*limit/longer)
}
