package threshold

import "testing"

// columnRamp has intensity equal to the column index modulo 256.
func columnRamp(w, h int) Gray {
	g := NewGray(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			g.Set(x, y, byte(x%256))
		}
	}
	return g
}

func TestNearestSampler(t *testing.T) {
	src := columnRamp(200, 100)
	s := nearestSampler{src: src, scale: 2.5}

	tests := []struct{ x, y, want int }{
		{0, 0, 0},
		{1, 1, 2},
		{3, 7, 7},
		{10, 2, 25},
	}
	for _, tt := range tests {
		if got := s.At(tt.x, tt.y); got != tt.want {
			t.Errorf("At(%d, %d) = %d, want %d", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestAverageSampler(t *testing.T) {
	t.Run("ramp keeps the centre value", func(t *testing.T) {
		src := columnRamp(200, 100)
		s := averageSampler{src: src, scale: 4, span: 2}

		for _, p := range [][2]int{{3, 5}, {1, 1}, {20, 10}} {
			want := int(float64(p[0]) * 4)
			if got := s.At(p[0], p[1]); got != want {
				t.Errorf("At(%d, %d) = %d, want %d", p[0], p[1], got, want)
			}
		}
	})

	t.Run("cross mean", func(t *testing.T) {
		src := NewGray(20, 20)
		// Centre (8, 8) with span 1: row samples 7..9, column samples 7..9.
		src.Set(7, 8, 30)
		src.Set(8, 8, 60)
		src.Set(9, 8, 90)
		src.Set(8, 7, 12)
		src.Set(8, 9, 18)

		s := averageSampler{src: src, scale: 4, span: 1}
		want := (30 + 60 + 90 + 12 + 60 + 18) / 6
		if got := s.At(2, 2); got != want {
			t.Errorf("At(2, 2) = %d, want %d", got, want)
		}
	})

	t.Run("first row and column use nearest", func(t *testing.T) {
		src := NewGray(20, 20)
		src.Set(8, 0, 200)
		src.Set(0, 8, 100)

		s := averageSampler{src: src, scale: 4, span: 1}
		if got := s.At(2, 0); got != 200 {
			t.Errorf("At(2, 0) = %d, want 200", got)
		}
		if got := s.At(0, 2); got != 100 {
			t.Errorf("At(0, 2) = %d, want 100", got)
		}
	})
}

func TestRGBIntensitySumsChannels(t *testing.T) {
	src := RGB{Pix: make([]byte, 2*2*3), W: 2, H: 2}
	copy(src.Pix[3:6], []byte{10, 20, 30})

	if got := src.Intensity(1, 0); got != 60 {
		t.Errorf("Intensity(1, 0) = %d, want 60", got)
	}
	if got := (sourceSampler{src: src}).At(1, 0); got != 60 {
		t.Errorf("sourceSampler.At(1, 0) = %d, want 60", got)
	}
}
