package imaging

import (
	"image"
	"image/color"

	"tagedge/internal/threshold"

	xdraw "golang.org/x/image/draw"
)

var edgeColor = color.RGBA{0, 255, 0, 255}

// GrayImage wraps g without copying.
func GrayImage(g threshold.Gray) *image.Gray {
	return &image.Gray{Pix: g.Pix, Stride: g.W, Rect: image.Rect(0, 0, g.W, g.H)}
}

// EdgeImage draws the edge map at working resolution, black edges on white.
func EdgeImage(res *threshold.Result) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, res.Width, res.Height))
	for i, e := range res.Edges {
		if !e {
			img.Pix[i] = 255
		}
	}
	return img
}

// ClassificationImage draws filled pixels black and blank ones white. It
// returns nil when the result carries no classification.
func ClassificationImage(res *threshold.Result) *image.Gray {
	if res.Filled == nil {
		return nil
	}

	img := image.NewGray(image.Rect(0, 0, res.Width, res.Height))
	for i, f := range res.Filled {
		if !f {
			img.Pix[i] = 255
		}
	}
	return img
}

// DebugCanvas is the source-sized canvas a threshold.CanvasRenderer paints
// on, cleared to the gray source so unsampled pixels stay recognisable.
func DebugCanvas(src threshold.Gray) *image.RGBA {
	canvas := image.NewRGBA(image.Rect(0, 0, src.W, src.H))
	xdraw.Draw(canvas, canvas.Bounds(), GrayImage(src), image.Point{}, xdraw.Src)
	return canvas
}

// Overlay paints the edge map over src, scaled back to source resolution.
// Filled pixels are darkened when the result carries a classification.
func Overlay(src image.Image, res *threshold.Result) *image.RGBA {
	b := src.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(out, out.Bounds(), src, b.Min, xdraw.Src)

	layer := image.NewRGBA(image.Rect(0, 0, res.Width, res.Height))
	for i, e := range res.Edges {
		x, y := i%res.Width, i/res.Width
		switch {
		case e:
			layer.SetRGBA(x, y, edgeColor)
		case res.Filled != nil && res.Filled[i]:
			layer.SetRGBA(x, y, color.RGBA{A: 96})
		}
	}

	target := image.Rect(0, 0,
		min(b.Dx(), int(float64(res.Width)*res.Scale)),
		min(b.Dy(), int(float64(res.Height)*res.Scale)))
	xdraw.NearestNeighbor.Scale(out, target, layer, layer.Bounds(), xdraw.Over, nil)

	return out
}
