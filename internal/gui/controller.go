package gui

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"tagedge/internal/gui/widgets"
	"tagedge/internal/imaging"
	"tagedge/internal/logger"
	"tagedge/internal/pipeline"

	"fyne.io/fyne/v2"
)

const processTimeout = 60 * time.Second

type Controller struct {
	view        *View
	coordinator *pipeline.Coordinator
	logger      logger.Logger

	mu               sync.RWMutex
	processingActive bool

	processCancel context.CancelFunc
}

func NewController(coord *pipeline.Coordinator, log logger.Logger) *Controller {
	return &Controller{
		coordinator: coord,
		logger:      log,
	}
}

func (c *Controller) SetView(view *View) {
	c.view = view
	c.syncParameters()
}

func (c *Controller) syncParameters() {
	params := c.coordinator.Config().Params()
	fyne.Do(func() {
		c.view.UpdateParameterPanel(params)
	})
}

func (c *Controller) LoadImage() {
	c.view.ShowFileDialog(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			c.handleError("File selection error", err)
			return
		}
		if reader == nil {
			return
		}

		c.updateStatus("Loading image...")

		go func() {
			defer reader.Close()

			start := time.Now()
			imageData, loadErr := c.coordinator.LoadReader(reader, reader.URI().Name())

			fyne.Do(func() {
				if loadErr != nil {
					c.handleError("Image load error", loadErr)
					c.updateStatus("Ready")
					return
				}

				c.view.SetResultImage(c.view.SelectedView(), nil)
				c.view.SetSourceImage(imageData.Image())
				c.view.SetStats(0, 0, 0, 0, 0)
				c.updateStatus("Image loaded")

				c.view.GetMainContainer().Refresh()

				c.logger.Info("Controller", "image loaded", map[string]interface{}{
					"width":     imageData.Width,
					"height":    imageData.Height,
					"format":    imageData.Format,
					"load_time": time.Since(start),
				})
			})
		}()
	})
}

// SaveImage writes the result view currently on screen.
func (c *Controller) SaveImage() {
	if c.coordinator.Processed() == nil {
		c.handleError("Save error", pipeline.ErrNotProcessed)
		return
	}
	view := c.view.SelectedView()

	c.view.ShowSaveDialog(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			c.handleError("File save error", err)
			return
		}
		if writer == nil {
			return
		}

		ext := strings.ToLower(writer.URI().Extension())
		if ext == "" {
			c.showFormatSelectionDialog(writer, view)
			return
		}

		c.saveWithWriter(writer, view, imaging.FormatFromPath(writer.URI().Path()))
	})
}

// ChangeView swaps the right pane to another rendering of the last result.
func (c *Controller) ChangeView(view string) {
	data := c.coordinator.Processed()
	if data == nil {
		c.view.SetResultImage(view, nil)
		return
	}
	c.view.SetResultImage(view, resultImage(view, data))
}

// UpdateParameter applies one panel change to the coordinator configuration.
// A rejected value is reported and the panel is reset to the active settings.
func (c *Controller) UpdateParameter(name string, value interface{}) {
	cfg := c.coordinator.Config()

	err := cfg.Set(name, value)
	if err == nil {
		err = c.coordinator.SetConfig(cfg)
	}
	if err != nil {
		c.handleError("Parameter update error", err)
		c.syncParameters()
		return
	}

	c.logger.Debug("Controller", "parameter updated", map[string]interface{}{
		"name":  name,
		"value": value,
	})
}

func (c *Controller) ProcessImage() {
	if c.isProcessing() {
		return
	}

	if c.coordinator.Original() == nil {
		c.handleError("Processing error", pipeline.ErrNoImage)
		return
	}

	c.setProcessing(true)
	c.view.SetProcessing(true)
	c.updateStatus("Processing...")

	ctx, cancel := context.WithTimeout(context.Background(), processTimeout)
	c.mu.Lock()
	c.processCancel = cancel
	c.mu.Unlock()

	go func() {
		defer func() {
			c.setProcessing(false)
			fyne.Do(func() {
				c.view.SetProcessing(false)
			})
			cancel()
		}()

		data, err := c.coordinator.Process(ctx)

		fyne.Do(func() {
			if err != nil {
				c.handleError("Processing error", err)
				c.updateStatus("Processing failed")
				return
			}

			view := c.view.SelectedView()
			c.view.SetResultImage(view, resultImage(view, data))
			c.view.SetStats(data.Result.EdgeCount(), data.Result.Width, data.Result.Height,
				data.Result.Scale, data.Duration)
			c.updateStatus("Processing completed")

			c.logger.Info("Controller", "processing completed", map[string]interface{}{
				"width":           data.Result.Width,
				"height":          data.Result.Height,
				"edges":           data.Result.EdgeCount(),
				"processing_time": data.Duration,
			})
		})
	}()
}

func resultImage(view string, data *pipeline.EdgeData) image.Image {
	switch view {
	case widgets.ViewOverlay:
		return data.Overlay()
	case widgets.ViewDebug:
		if data.Debug == nil {
			return nil
		}
		return data.Debug
	case widgets.ViewClassification:
		if img := imaging.ClassificationImage(data.Result); img != nil {
			return img
		}
		return nil
	default:
		return data.Edges
	}
}

func (c *Controller) save(w io.Writer, view, format string) error {
	switch view {
	case widgets.ViewOverlay:
		return c.coordinator.SaveOverlay(w, format)
	case widgets.ViewDebug:
		return c.coordinator.SaveDebug(w, format)
	case widgets.ViewClassification:
		return c.coordinator.SaveClassification(w, format)
	default:
		return c.coordinator.SaveEdges(w, format)
	}
}

func (c *Controller) CancelProcessing() {
	c.mu.Lock()
	if c.processCancel != nil {
		c.processCancel()
	}
	c.mu.Unlock()
}

func (c *Controller) updateStatus(status string) {
	c.view.SetStatus(status)
}

func (c *Controller) handleError(title string, err error) {
	c.logger.Error("Controller", err, map[string]interface{}{
		"title": title,
	})

	fyne.Do(func() {
		c.view.ShowError(title, err)
	})
}

func (c *Controller) isProcessing() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.processingActive
}

func (c *Controller) setProcessing(active bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.processingActive = active
}

func (c *Controller) Shutdown() {
	c.CancelProcessing()
	c.logger.Info("Controller", "shutdown completed", nil)
}

func (c *Controller) showFormatSelectionDialog(writer fyne.URIWriteCloser, view string) {
	originalPath := writer.URI().Path()
	writer.Close()

	if err := os.Remove(originalPath); err != nil {
		c.logger.Debug("Controller", "failed to remove empty file", map[string]interface{}{
			"path":  originalPath,
			"error": err.Error(),
		})
	}

	fyne.Do(func() {
		c.view.ShowFormatSelectionDialog(func(format string, confirmed bool) {
			if !confirmed {
				return
			}

			c.saveWithFormat(originalPath, view, strings.ToLower(format))
		})
	})
}

func (c *Controller) saveWithFormat(imagePath, view, format string) {
	c.updateStatus("Saving image...")

	go func() {
		ext := "." + format
		if format == "jpeg" {
			ext = ".jpg"
		}
		finalPath := imagePath + ext

		file, err := os.Create(finalPath)
		if err != nil {
			c.handleError("File create error", err)
			return
		}

		saveErr := c.save(file, view, format)
		if closeErr := file.Close(); saveErr == nil {
			saveErr = closeErr
		}

		fyne.Do(func() {
			c.finishSave(finalPath, view, saveErr)
		})
	}()
}

func (c *Controller) saveWithWriter(writer fyne.URIWriteCloser, view, format string) {
	c.updateStatus("Saving image...")

	go func() {
		saveErr := c.save(writer, view, format)
		if closeErr := writer.Close(); saveErr == nil {
			saveErr = closeErr
		}

		fyne.Do(func() {
			c.finishSave(writer.URI().Path(), view, saveErr)
		})
	}()
}

func (c *Controller) finishSave(path, view string, err error) {
	if err != nil {
		if errors.Is(err, pipeline.ErrNoDebugImage) {
			err = fmt.Errorf("%w; enable Visual Debug and process again", err)
		}
		c.handleError("Image save error", err)
		c.updateStatus("Save failed")
		return
	}

	c.updateStatus("Image saved")
	c.logger.Info("Controller", "image saved", map[string]interface{}{
		"path": path,
		"view": view,
	})
}
