package pipeline

import (
	"context"
	"errors"
	"image"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"tagedge/internal/config"
	"tagedge/internal/imaging"
	"tagedge/internal/logger"
	"tagedge/internal/threshold"
)

var (
	ErrNoImage      = errors.New("no image loaded")
	ErrNotProcessed = errors.New("image not processed")
	ErrNoDebugImage = errors.New("visual debug was not enabled for the last run")
)

// ImageData is a decoded source at full resolution.
type ImageData struct {
	Gray   threshold.Gray
	Width  int
	Height int
	Format string
	Name   string
}

func (d *ImageData) Image() image.Image { return imaging.GrayImage(d.Gray) }

// EdgeData is the outcome of one Process call.
type EdgeData struct {
	// Input is the buffer the engine ran on, after native scaling.
	Input    threshold.Gray
	Result   *threshold.Result
	Edges    *image.Gray
	Debug    *image.RGBA
	Duration time.Duration
}

// Overlay draws the edges over the processed input.
func (d *EdgeData) Overlay() *image.RGBA {
	return imaging.Overlay(imaging.GrayImage(d.Input), d.Result)
}

// MemoryReporter summarises native allocations at shutdown.
type MemoryReporter interface {
	Report(limit int)
}

type Option func(*Coordinator)

// WithDecoder tries d before the Go image decoders.
func WithDecoder(d Decoder) Option {
	return func(c *Coordinator) {
		c.loader.decoders = append([]Decoder{d}, c.loader.decoders...)
	}
}

// WithResizer replaces the Go resizer used for native scaling.
func WithResizer(r Resizer) Option {
	return func(c *Coordinator) { c.processor.resizer = r }
}

func WithEdgeEncoder(e EdgeEncoder) Option {
	return func(c *Coordinator) { c.saver.encoder = e }
}

func WithMemoryReporter(r MemoryReporter) Option {
	return func(c *Coordinator) { c.reporter = r }
}

// Coordinator holds the current source and edge map of a session. It is safe
// for concurrent use; Process calls are serialised.
type Coordinator struct {
	mu        sync.RWMutex
	cfg       config.Config
	original  *ImageData
	processed *EdgeData
	logger    logger.Logger
	loader    *imageLoader
	processor *imageProcessor
	saver     *imageSaver
	reporter  MemoryReporter
}

func NewCoordinator(cfg config.Config, log logger.Logger, opts ...Option) (*Coordinator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Nop()
	}

	c := &Coordinator{
		cfg:       cfg,
		logger:    log,
		loader:    &imageLoader{decoders: []Decoder{imaging.Decoder{}}, logger: log},
		processor: &imageProcessor{resizer: imaging.Resizer{}, logger: log},
		saver:     &imageSaver{logger: log},
	}
	for _, opt := range opts {
		opt(c)
	}

	log.Info("PipelineCoordinator", "initialized", map[string]interface{}{
		"decoders": len(c.loader.decoders),
	})
	return c, nil
}

func (c *Coordinator) Config() config.Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cfg
}

// SetConfig replaces the configuration used by later Process calls.
func (c *Coordinator) SetConfig(cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.cfg = cfg
	return nil
}

func (c *Coordinator) LoadFile(path string) (*ImageData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return c.LoadReader(f, filepath.Base(path))
}

func (c *Coordinator) LoadReader(reader io.Reader, name string) (*ImageData, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	return c.LoadBytes(data, name)
}

// LoadBytes decodes data and makes it the current source, dropping any
// previous edge map.
func (c *Coordinator) LoadBytes(data []byte, name string) (*ImageData, error) {
	start := time.Now()

	imageData, err := c.loader.LoadFromBytes(data, name)
	if err != nil {
		c.logger.Error("PipelineCoordinator", err, map[string]interface{}{
			"operation": "load_image",
			"name":      name,
		})
		return nil, err
	}

	c.mu.Lock()
	c.original = imageData
	c.processed = nil
	c.mu.Unlock()

	c.logger.Info("PipelineCoordinator", "image loaded", map[string]interface{}{
		"width":     imageData.Width,
		"height":    imageData.Height,
		"format":    imageData.Format,
		"load_time": time.Since(start),
	})

	return imageData, nil
}

func (c *Coordinator) Process(ctx context.Context) (*EdgeData, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.original == nil {
		return nil, ErrNoImage
	}

	data, err := c.processor.Process(ctx, c.original, c.cfg)
	if err != nil {
		c.logger.Error("PipelineCoordinator", err, map[string]interface{}{
			"operation": "process",
		})
		return nil, err
	}

	c.processed = data
	return data, nil
}

func (c *Coordinator) Original() *ImageData {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.original
}

func (c *Coordinator) Processed() *EdgeData {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.processed
}

func (c *Coordinator) SaveEdges(w io.Writer, format string) error {
	data := c.Processed()
	if data == nil {
		return ErrNotProcessed
	}
	return c.saver.SaveEdges(w, data, format)
}

func (c *Coordinator) SaveDebug(w io.Writer, format string) error {
	data := c.Processed()
	if data == nil {
		return ErrNotProcessed
	}
	if data.Debug == nil {
		return ErrNoDebugImage
	}
	return c.saver.SaveImage(w, data.Debug, format)
}

func (c *Coordinator) SaveOverlay(w io.Writer, format string) error {
	data := c.Processed()
	if data == nil {
		return ErrNotProcessed
	}
	return c.saver.SaveImage(w, data.Overlay(), format)
}

// SaveClassification writes the filled/blank map. It needs
// KeepClassification in the configuration of the last run.
func (c *Coordinator) SaveClassification(w io.Writer, format string) error {
	data := c.Processed()
	if data == nil {
		return ErrNotProcessed
	}

	img := imaging.ClassificationImage(data.Result)
	if img == nil {
		return errors.New("classification was not kept for the last run")
	}
	return c.saver.SaveImage(w, img, format)
}

func (c *Coordinator) Shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.logger.Info("PipelineCoordinator", "shutdown started", nil)

	c.original = nil
	c.processed = nil
	if c.reporter != nil {
		c.reporter.Report(5)
	}

	c.logger.Info("PipelineCoordinator", "shutdown completed", nil)
}
