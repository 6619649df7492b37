package conversion

import (
	"fmt"
	"image"

	"tagedge/internal/opencv/safe"

	"gocv.io/x/gocv"
)

// ResizeArea shrinks src to width x height with area interpolation.
func ResizeArea(src *safe.Mat, width, height int, tracker safe.MemoryTracker) (*safe.Mat, error) {
	if err := safe.ValidateMatForOperation(src, "ResizeArea"); err != nil {
		return nil, err
	}

	dst, err := safe.NewMatWithTracker(height, width, src.Type(), tracker, "resized")
	if err != nil {
		return nil, fmt.Errorf("failed to create destination Mat: %w", err)
	}

	err = src.Apply(func(s gocv.Mat) error {
		return dst.Apply(func(d gocv.Mat) error {
			gocv.Resize(s, &d, image.Pt(width, height), 0, 0, gocv.InterpolationArea)
			if d.Rows() != height || d.Cols() != width {
				return fmt.Errorf("got %dx%d", d.Cols(), d.Rows())
			}
			return nil
		})
	})
	if err != nil {
		dst.Close()
		return nil, fmt.Errorf("resize to %dx%d failed: %w", width, height, err)
	}

	return dst, nil
}
