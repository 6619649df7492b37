package pipeline

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"tagedge/internal/config"
	"tagedge/internal/threshold"
)

// boardPNG encodes a w x h board of 16 pixel squares.
func boardPNG(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if ((x/16)+(y/16))%2 == 0 {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func testConfig() config.Config {
	cfg := config.Default()
	cfg.WindowSize = 17
	cfg.Offset = 0
	cfg.ScaleSize = 0
	return cfg
}

func newCoordinator(t *testing.T, cfg config.Config, opts ...Option) *Coordinator {
	t.Helper()

	c, err := NewCoordinator(cfg, nil, opts...)
	if err != nil {
		t.Fatalf("NewCoordinator: %v", err)
	}
	return c
}

func TestProcessRoundTrip(t *testing.T) {
	c := newCoordinator(t, testConfig())

	img, err := c.LoadBytes(boardPNG(t, 128, 96), "board.png")
	if err != nil {
		t.Fatalf("LoadBytes: %v", err)
	}
	if img.Width != 128 || img.Height != 96 || img.Format != "png" {
		t.Fatalf("loaded %+v", img)
	}

	data, err := c.Process(context.Background())
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if data.Result.Scale != 1 || data.Result.EdgeCount() == 0 {
		t.Fatalf("unexpected result %+v with %d edges", data.Result.Geometry, data.Result.EdgeCount())
	}

	var buf bytes.Buffer
	if err := c.SaveEdges(&buf, "png"); err != nil {
		t.Fatalf("SaveEdges: %v", err)
	}
	edges, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode saved edges: %v", err)
	}
	if edges.Bounds().Dx() != 128 || edges.Bounds().Dy() != 96 {
		t.Errorf("saved edge map is %v", edges.Bounds())
	}

	buf.Reset()
	if err := c.SaveOverlay(&buf, "bmp"); err != nil {
		t.Errorf("SaveOverlay: %v", err)
	}

	if err := c.SaveDebug(&buf, "png"); !errors.Is(err, ErrNoDebugImage) {
		t.Errorf("SaveDebug without visual debug = %v", err)
	}
	if err := c.SaveClassification(&buf, "png"); err == nil {
		t.Error("SaveClassification succeeded without KeepClassification")
	}
}

func TestVisualDebugAndClassification(t *testing.T) {
	cfg := testConfig()
	cfg.VisualDebug = true
	cfg.KeepClassification = true
	c := newCoordinator(t, cfg)

	if _, err := c.LoadBytes(boardPNG(t, 64, 64), "board"); err != nil {
		t.Fatal(err)
	}
	data, err := c.Process(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if data.Debug == nil || data.Debug.Bounds().Dx() != 64 {
		t.Fatalf("debug canvas missing or wrong size")
	}

	var buf bytes.Buffer
	if err := c.SaveDebug(&buf, "tiff"); err != nil {
		t.Errorf("SaveDebug: %v", err)
	}
	if err := c.SaveClassification(&buf, "png"); err != nil {
		t.Errorf("SaveClassification: %v", err)
	}
}

func TestNativeScaling(t *testing.T) {
	cfg := testConfig()
	cfg.ScaleSize = 64
	cfg.NativeScale = true
	c := newCoordinator(t, cfg)

	if _, err := c.LoadBytes(boardPNG(t, 256, 128), "big.png"); err != nil {
		t.Fatal(err)
	}
	data, err := c.Process(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if data.Input.W != 64 || data.Input.H != 32 {
		t.Errorf("native scaling produced %dx%d, want 64x32", data.Input.W, data.Input.H)
	}
	if data.Result.Scale != 1 {
		t.Errorf("engine scale = %v after native scaling", data.Result.Scale)
	}
}

func TestEngineScaling(t *testing.T) {
	cfg := testConfig()
	cfg.WindowSize = 8
	cfg.ScaleSize = 64
	c := newCoordinator(t, cfg)

	if _, err := c.LoadBytes(boardPNG(t, 256, 128), "big.png"); err != nil {
		t.Fatal(err)
	}
	data, err := c.Process(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if data.Result.Scale != 4 || data.Result.Width != 62 || data.Result.Height != 30 {
		t.Errorf("geometry %+v", data.Result.Geometry)
	}
}

type recordingResizer struct {
	calls int
}

func (r *recordingResizer) Resize(g threshold.Gray, w, h int) (threshold.Gray, error) {
	r.calls++
	return threshold.NewGray(w, h), nil
}

type failingDecoder struct{}

func (failingDecoder) Decode([]byte) (threshold.Gray, error) {
	return threshold.Gray{}, errors.New("unsupported")
}

func TestOptionsAreUsed(t *testing.T) {
	cfg := testConfig()
	cfg.ScaleSize = 64
	cfg.NativeScale = true

	resizer := &recordingResizer{}
	c := newCoordinator(t, cfg, WithDecoder(failingDecoder{}), WithResizer(resizer))

	if _, err := c.LoadBytes(boardPNG(t, 128, 128), "x.png"); err != nil {
		t.Fatalf("fallback decoder not used: %v", err)
	}
	if _, err := c.Process(context.Background()); err != nil {
		t.Fatal(err)
	}
	if resizer.calls != 1 {
		t.Errorf("resizer called %d times", resizer.calls)
	}
}

func TestErrors(t *testing.T) {
	c := newCoordinator(t, testConfig())

	if _, err := c.Process(context.Background()); !errors.Is(err, ErrNoImage) {
		t.Errorf("Process without image = %v", err)
	}
	if err := c.SaveEdges(&bytes.Buffer{}, "png"); !errors.Is(err, ErrNotProcessed) {
		t.Errorf("SaveEdges before Process = %v", err)
	}
	if _, err := c.LoadBytes([]byte("garbage"), "x.png"); err == nil {
		t.Error("garbage decoded")
	}

	if _, err := c.LoadBytes(boardPNG(t, 64, 64), "x.png"); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Process(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Process with cancelled context = %v", err)
	}

	// A window wider than the image surfaces the engine error.
	cfg := testConfig()
	cfg.WindowSize = 64
	if err := c.SetConfig(cfg); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Process(context.Background()); !errors.Is(err, threshold.ErrWindowTooLarge) {
		t.Errorf("Process with oversized window = %v", err)
	}

	cfg.WindowSize = 0
	if err := c.SetConfig(cfg); !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("SetConfig accepted window 0: %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.png")
	if err := os.WriteFile(path, boardPNG(t, 64, 48), 0o600); err != nil {
		t.Fatal(err)
	}

	c := newCoordinator(t, testConfig())
	img, err := c.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if img.Name != "board.png" || img.Width != 64 {
		t.Errorf("loaded %+v", img)
	}

	if _, err := c.LoadFile(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("LoadFile of a missing file succeeded")
	}
	c.Shutdown()
	if c.Original() != nil {
		t.Error("Shutdown kept the source")
	}
}
