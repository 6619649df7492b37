package pipeline

import (
	"context"
	"fmt"
	"image"
	"time"

	"tagedge/internal/config"
	"tagedge/internal/imaging"
	"tagedge/internal/logger"
	"tagedge/internal/threshold"
)

// Resizer scales a gray buffer to an exact size.
type Resizer interface {
	Resize(g threshold.Gray, width, height int) (threshold.Gray, error)
}

type imageProcessor struct {
	resizer Resizer
	logger  logger.Logger
}

// Process runs the engine on input. The context is checked before and after
// the run; the engine itself is not interruptible.
func (p *imageProcessor) Process(ctx context.Context, input *ImageData, cfg config.Config) (*EdgeData, error) {
	if input == nil {
		return nil, ErrNoImage
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()

	source, err := p.nativeScale(input.Gray, cfg)
	if err != nil {
		return nil, err
	}

	opts := []threshold.Option{threshold.WithLogger(p.logger)}

	var canvas *image.RGBA
	if cfg.VisualDebug {
		canvas = imaging.DebugCanvas(source)
		opts = append(opts, threshold.WithObserver(threshold.NewCanvasRenderer(canvas)))
	}

	engine, err := threshold.New(cfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create threshold engine: %w", err)
	}

	result, err := engine.Run(source)
	if err != nil {
		return nil, fmt.Errorf("edge extraction failed: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data := &EdgeData{
		Input:    source,
		Result:   result,
		Edges:    imaging.EdgeImage(result),
		Debug:    canvas,
		Duration: time.Since(start),
	}

	p.logger.Info("ImageProcessor", "processing completed", map[string]interface{}{
		"input_size":  fmt.Sprintf("%dx%d", input.Width, input.Height),
		"grid_width":  result.Width,
		"grid_height": result.Height,
		"scale":       result.Scale,
		"edges":       result.EdgeCount(),
		"duration":    data.Duration,
	})

	return data, nil
}

// nativeScale shrinks g to fit ScaleSize before the engine sees it when
// native scaling is selected. The engine then runs at scale 1.
func (p *imageProcessor) nativeScale(g threshold.Gray, cfg config.Config) (threshold.Gray, error) {
	if !cfg.NativeScale || cfg.ScaleSize < cfg.WindowSize {
		return g, nil
	}

	w, h := imaging.FitWithin(g.W, g.H, cfg.ScaleSize)
	if w == g.W && h == g.H {
		return g, nil
	}

	scaled, err := p.resizer.Resize(g, w, h)
	if err != nil {
		return threshold.Gray{}, fmt.Errorf("native scaling to %dx%d failed: %w", w, h, err)
	}

	p.logger.Debug("ImageProcessor", "native scaling applied", map[string]interface{}{
		"from": fmt.Sprintf("%dx%d", g.W, g.H),
		"to":   fmt.Sprintf("%dx%d", w, h),
	})

	return scaled, nil
}
