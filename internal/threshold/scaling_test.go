package threshold

import (
	"errors"
	"testing"

	"tagedge/internal/config"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name       string
		srcW, srcH int
		mutate     func(*config.Config)
		want       Geometry
	}{
		{
			name: "halved",
			srcW: 640, srcH: 480,
			want: Geometry{Width: 319, Height: 239, Scale: 2, Span: 1},
		},
		{
			name: "fractional scale",
			srcW: 1000, srcH: 500,
			want: Geometry{Width: 319, Height: 159, Scale: 3.125, Span: 1},
		},
		{
			name: "portrait",
			srcW: 480, srcH: 1280,
			want: Geometry{Width: 118, Height: 318, Scale: 4, Span: 2},
		},
		{
			name: "native scaling keeps source",
			srcW: 640, srcH: 480,
			mutate: func(c *config.Config) { c.NativeScale = true },
			want:   Geometry{Width: 640, Height: 480, Scale: 1},
		},
		{
			name: "scale size below window",
			srcW: 640, srcH: 480,
			mutate: func(c *config.Config) { c.ScaleSize = 32 },
			want:   Geometry{Width: 640, Height: 480, Scale: 1},
		},
		{
			name: "scaling disabled",
			srcW: 640, srcH: 480,
			mutate: func(c *config.Config) { c.ScaleSize = 0 },
			want:   Geometry{Width: 640, Height: 480, Scale: 1},
		},
		{
			name: "source within target",
			srcW: 300, srcH: 200,
			want: Geometry{Width: 300, Height: 200, Scale: 1},
		},
		{
			name: "source equal to target",
			srcW: 320, srcH: 100,
			want: Geometry{Width: 320, Height: 100, Scale: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			if tt.mutate != nil {
				tt.mutate(&cfg)
			}

			got, err := Resolve(tt.srcW, tt.srcH, cfg)
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if got != tt.want {
				t.Errorf("Resolve(%d, %d) = %+v, want %+v", tt.srcW, tt.srcH, got, tt.want)
			}
		})
	}
}

func TestResolveWindowTooLarge(t *testing.T) {
	tests := []struct {
		name       string
		srcW, srcH int
		window     int
		scaleSize  int
	}{
		{"width equals window", 48, 100, 48, 320},
		{"height below window", 100, 20, 48, 320},
		{"working resolution too small", 2000, 100, 48, 64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.WindowSize = tt.window
			cfg.ScaleSize = tt.scaleSize

			if _, err := Resolve(tt.srcW, tt.srcH, cfg); !errors.Is(err, ErrWindowTooLarge) {
				t.Errorf("Resolve(%d, %d) = %v, want ErrWindowTooLarge", tt.srcW, tt.srcH, err)
			}
		})
	}
}

func TestResolveKeepsSamplesInsideSource(t *testing.T) {
	for _, dims := range [][2]int{{640, 480}, {1000, 500}, {333, 777}, {1920, 1080}, {401, 399}} {
		cfg := config.Default()
		cfg.WindowSize = 16
		cfg.ScaleSize = 64

		g, err := Resolve(dims[0], dims[1], cfg)
		if err != nil {
			t.Fatalf("Resolve(%v): %v", dims, err)
		}

		sx, sy := g.SourcePoint(g.Width-1, g.Height-1)
		if sx+g.Span >= dims[0] || sy+g.Span >= dims[1] {
			t.Errorf("%v: last sample (%d, %d) span %d leaves the source", dims, sx, sy, g.Span)
		}
		if sx0, _ := g.SourcePoint(1, 1); sx0-g.Span < 0 {
			t.Errorf("%v: sample at column 1 reaches column %d", dims, sx0-g.Span)
		}
	}
}
