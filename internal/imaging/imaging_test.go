package imaging

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"tagedge/internal/threshold"
)

func gradient(w, h int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8((x + y) % 256)})
		}
	}
	return img
}

func TestEncodeDecodeFormats(t *testing.T) {
	src := gradient(24, 16)

	for _, format := range []string{"png", "bmp", "tiff"} {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Encode(&buf, src, format); err != nil {
				t.Fatalf("Encode: %v", err)
			}

			g, err := Decoder{}.Decode(buf.Bytes())
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if g.W != 24 || g.H != 16 {
				t.Fatalf("decoded %dx%d", g.W, g.H)
			}
			for y := 0; y < 16; y++ {
				for x := 0; x < 24; x++ {
					if got, want := g.At(x, y), int(src.GrayAt(x, y).Y); got != want {
						t.Fatalf("pixel (%d, %d) = %d, want %d", x, y, got, want)
					}
				}
			}
		})
	}
}

func TestEncodeRejectsUnknownFormat(t *testing.T) {
	if err := Encode(&bytes.Buffer{}, gradient(2, 2), "webp"); err == nil {
		t.Error("Encode accepted webp")
	}
}

func TestDecodeGarbage(t *testing.T) {
	if _, err := (Decoder{}).Decode([]byte("not an image")); err == nil {
		t.Error("Decode accepted garbage")
	}
}

func TestToGrayFromRGBA(t *testing.T) {
	img := image.NewRGBA(image.Rect(5, 5, 8, 7))
	img.SetRGBA(5, 5, color.RGBA{255, 255, 255, 255})

	g := ToGray(img)
	if g.W != 3 || g.H != 2 {
		t.Fatalf("size %dx%d, want 3x2", g.W, g.H)
	}
	if g.At(0, 0) != 255 || g.At(1, 0) != 0 {
		t.Errorf("unexpected pixels %v", g.Pix)
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]string{
		"edges.PNG":  "png",
		"a/b.jpeg":   "jpeg",
		"x.jpg":      "jpeg",
		"scan.tif":   "tiff",
		"frame.bmp":  "bmp",
		"noext":      "png",
		"image.webp": "png",
	}
	for path, want := range tests {
		if got := FormatFromPath(path); got != want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestResizer(t *testing.T) {
	g := ToGray(gradient(40, 20))

	out, err := Resizer{}.Resize(g, 20, 10)
	if err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if out.W != 20 || out.H != 10 || len(out.Pix) != 200 {
		t.Fatalf("resized to %dx%d with %d bytes", out.W, out.H, len(out.Pix))
	}

	if _, err := (Resizer{}).Resize(g, 0, 10); err == nil {
		t.Error("Resize accepted a zero width")
	}
}

func TestFitWithin(t *testing.T) {
	tests := []struct{ w, h, limit, wantW, wantH int }{
		{640, 480, 320, 320, 240},
		{480, 640, 320, 240, 320},
		{100, 50, 320, 100, 50},
		{100, 50, 0, 100, 50},
	}
	for _, tt := range tests {
		if w, h := FitWithin(tt.w, tt.h, tt.limit); w != tt.wantW || h != tt.wantH {
			t.Errorf("FitWithin(%d, %d, %d) = %d, %d", tt.w, tt.h, tt.limit, w, h)
		}
	}
}

func TestEdgeAndClassificationImages(t *testing.T) {
	res := &threshold.Result{
		Geometry: threshold.Geometry{Width: 2, Height: 2, Scale: 1},
		Edges:    []bool{true, false, false, false},
		Filled:   []bool{true, true, false, false},
	}

	edges := EdgeImage(res)
	if edges.GrayAt(0, 0).Y != 0 || edges.GrayAt(1, 0).Y != 255 {
		t.Errorf("edge image pixels %v", edges.Pix)
	}

	cls := ClassificationImage(res)
	if cls.GrayAt(1, 0).Y != 0 || cls.GrayAt(0, 1).Y != 255 {
		t.Errorf("classification image pixels %v", cls.Pix)
	}

	res.Filled = nil
	if ClassificationImage(res) != nil {
		t.Error("classification image without classification")
	}
}

func TestOverlayScalesEdges(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 8, 8))
	res := &threshold.Result{
		Geometry: threshold.Geometry{Width: 4, Height: 4, Scale: 2},
		Edges:    make([]bool, 16),
	}
	res.Edges[1*4+2] = true

	out := Overlay(src, res)
	for _, p := range []image.Point{{4, 2}, {5, 2}, {4, 3}, {5, 3}} {
		if got := out.RGBAAt(p.X, p.Y); got != edgeColor {
			t.Errorf("overlay at %v = %v, want green", p, got)
		}
	}
	if got := out.RGBAAt(0, 0); got != (color.RGBA{0, 0, 0, 255}) {
		t.Errorf("overlay at (0, 0) = %v, want source pixel", got)
	}
}

func TestDebugCanvasStartsFromSource(t *testing.T) {
	g := ToGray(gradient(6, 4))
	canvas := DebugCanvas(g)

	if got := canvas.RGBAAt(3, 2); got != (color.RGBA{5, 5, 5, 255}) {
		t.Errorf("canvas at (3, 2) = %v", got)
	}
}
