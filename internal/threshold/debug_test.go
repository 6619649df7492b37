package threshold

import (
	"image"
	"image/color"
	"testing"
)

func TestCanvasRenderer(t *testing.T) {
	src := blobs(60, 45, 9)
	canvas := image.NewRGBA(image.Rect(0, 0, src.W, src.H))

	res, err := mustEngine(t, testConfig(10), WithObserver(NewCanvasRenderer(canvas))).Run(src)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	white := color.RGBA{255, 255, 255, 255}
	black := color.RGBA{0, 0, 0, 255}
	green := color.RGBA{0, 255, 0, 255}

	for y := 0; y < res.Height; y++ {
		for x := 0; x < res.Width; x++ {
			want := white
			switch i := y*res.Width + x; {
			case res.Edges[i]:
				want = green
			case res.Filled[i]:
				want = black
			}

			if got := canvas.RGBAAt(x, y); got != want {
				t.Fatalf("pixel (%d, %d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestCanvasRendererScalesCoordinates(t *testing.T) {
	canvas := image.NewRGBA(image.Rect(0, 0, 100, 100))
	r := NewCanvasRenderer(canvas)
	r.Start(Geometry{Width: 30, Height: 30, Scale: 3, Span: 1}, 255)

	r.Classified(2, 5, true)
	r.Edge(4, 1)

	if got := canvas.RGBAAt(6, 15); got != (color.RGBA{0, 0, 0, 255}) {
		t.Errorf("filled pixel drawn as %v", got)
	}
	if got := canvas.RGBAAt(12, 3); got != (color.RGBA{0, 255, 0, 255}) {
		t.Errorf("edge pixel drawn as %v", got)
	}
}

func TestLevelUsesMaxValue(t *testing.T) {
	c := color.RGBA64Model.Convert(level(128, 0, 256, 256)).(color.RGBA64)
	if c.R != 0x7fff || c.G != 0 || c.B != 0xffff {
		t.Errorf("level = %+v", c)
	}
}
