// Package threshold turns a grayscale image into the edge map consumed by tag
// border extraction. Every output pixel is classified as filled or blank
// against the mean of its local window, and filled pixels bordering a blank
// one are marked as edges.
package threshold

import (
	"fmt"
	"time"

	"tagedge/internal/config"
	"tagedge/internal/logger"
)

const component = "threshold"

// Result is the outcome of one computation. Edges and Filled are row-major
// Width x Height buffers owned by the caller.
type Result struct {
	Geometry
	Edges []bool

	// Filled is nil unless the engine was built WithClassification or
	// Config.KeepClassification is set.
	Filled []bool
}

func (r *Result) Edge(x, y int) bool { return r.Edges[y*r.Width+x] }

// EdgeCount returns the number of edge pixels.
func (r *Result) EdgeCount() int {
	n := 0
	for _, e := range r.Edges {
		if e {
			n++
		}
	}
	return n
}

type Engine struct {
	cfg      config.Config
	log      logger.Logger
	observer Observer
	keep     bool

	// general routes Gray sources through the Sampler interface instead of
	// the direct buffer path.
	general bool
}

type Option func(*Engine)

func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithObserver installs o for every subsequent Run. An Observer is not safe
// to share between concurrent runs.
func WithObserver(o Observer) Option {
	return func(e *Engine) { e.observer = o }
}

// WithClassification keeps the filled/blank buffer in the Result.
func WithClassification() Option {
	return func(e *Engine) { e.keep = true }
}

func New(cfg config.Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:  cfg,
		log:  logger.Nop(),
		keep: cfg.KeepClassification,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

func (e *Engine) Config() config.Config { return e.cfg }

// Run computes the edge map of src. It fails with ErrWindowTooLarge before
// allocating anything when the window does not fit the image, and with
// ErrWorkerFailed when a worker panics. A failed run returns no Result.
func (e *Engine) Run(src Source) (*Result, error) {
	start := time.Now()

	g, err := Resolve(src.Width(), src.Height(), e.cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve geometry: %w", err)
	}

	offset := e.cfg.Offset * src.Channels() * e.cfg.RGBFactor
	j := newJob(g, e.cfg.WindowSize, offset)
	segs := plan(g.Height, e.cfg.WindowSize, e.cfg.Workers)

	if e.cfg.Debug {
		e.log.Debug(component, "resolved geometry", map[string]interface{}{
			"source_width":  src.Width(),
			"source_height": src.Height(),
			"width":         g.Width,
			"height":        g.Height,
			"scale":         g.Scale,
			"span":          g.Span,
			"scale_type":    e.cfg.ScaleType().String(),
			"segments":      len(segs),
		})
	}

	if e.observer != nil {
		e.observer.Start(g, src.MaxValue())
	}

	if err := e.dispatch(j, src, segs); err != nil {
		e.log.Error(component, err, map[string]interface{}{"workers": len(segs)})
		return nil, err
	}

	res := &Result{Geometry: g, Edges: j.edges}
	if e.keep {
		res.Filled = j.filled
	}

	if e.cfg.Debug {
		e.log.Debug(component, "edge map ready", map[string]interface{}{
			"edges":    res.EdgeCount(),
			"duration": time.Since(start),
		})
	}

	return res, nil
}

// dispatch picks the sampler once per run and instantiates the generic
// pipeline with it.
func (e *Engine) dispatch(j *job, src Source, segs []segment) error {
	g := j.geom

	if g.Scale == 1 {
		if !e.general {
			switch gray := src.(type) {
			case Gray:
				return observe(j, gray, e.observer, segs)
			case *Gray:
				return observe(j, *gray, e.observer, segs)
			}
		}
		return observe(j, sourceSampler{src: src}, e.observer, segs)
	}

	if e.cfg.FastScale {
		return observe(j, nearestSampler{src: src, scale: g.Scale}, e.observer, segs)
	}
	return observe(j, averageSampler{src: src, scale: g.Scale, span: g.Span}, e.observer, segs)
}

// observe keeps the no-op observer a concrete type so its calls vanish.
func observe[S Sampler](j *job, s S, o Observer, segs []segment) error {
	if o == nil {
		return execute(j, s, nopObserver{}, segs)
	}
	return execute(j, s, o, segs)
}
