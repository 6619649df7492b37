package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"tagedge/internal/imaging"
	"tagedge/internal/logger"
	"tagedge/internal/threshold"
)

// Decoder turns encoded image bytes into an 8-bit gray buffer.
type Decoder interface {
	Decode(data []byte) (threshold.Gray, error)
}

type imageLoader struct {
	decoders []Decoder
	logger   logger.Logger
}

// LoadFromBytes tries every decoder in order and keeps the first success.
func (l *imageLoader) LoadFromBytes(data []byte, name string) (*ImageData, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty image data")
	}

	var (
		gray threshold.Gray
		errs []error
	)
	for _, d := range l.decoders {
		g, err := d.Decode(data)
		if err == nil {
			gray = g
			break
		}
		errs = append(errs, err)
	}
	if gray.Pix == nil {
		return nil, fmt.Errorf("no decoder accepted %q: %w", name, errors.Join(errs...))
	}

	_, sniffed, _ := image.DecodeConfig(bytes.NewReader(data))
	imageData := &ImageData{
		Gray:   gray,
		Width:  gray.W,
		Height: gray.H,
		Format: determineActualFormat(strings.ToLower(filepath.Ext(name)), sniffed),
		Name:   name,
	}

	l.logger.Info("ImageLoader", "image loaded", map[string]interface{}{
		"name":   name,
		"width":  imageData.Width,
		"height": imageData.Height,
		"format": imageData.Format,
	})

	return imageData, nil
}

func determineActualFormat(extension, sniffed string) string {
	switch extension {
	case ".tiff", ".tif":
		return "tiff"
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".png":
		return "png"
	case ".bmp":
		return "bmp"
	case ".gif":
		return "gif"
	case ".pgm", ".pnm", ".ppm":
		return "pnm"
	default:
		if sniffed != "" {
			return sniffed
		}
		return "unknown"
	}
}

var _ Decoder = imaging.Decoder{}
