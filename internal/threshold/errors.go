package threshold

import "errors"

var (
	// ErrWindowTooLarge is returned when the window is not strictly smaller
	// than the image on both axes, at source or at working resolution.
	ErrWindowTooLarge = errors.New("window size not smaller than image")

	// ErrWorkerFailed wraps a panic recovered from a classification worker.
	ErrWorkerFailed = errors.New("threshold worker failed")
)
