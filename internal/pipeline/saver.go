package pipeline

import (
	"fmt"
	"image"
	"io"
	"strings"

	"tagedge/internal/imaging"
	"tagedge/internal/logger"
	"tagedge/internal/threshold"
)

// EdgeEncoder encodes an edge map directly, bypassing the image package.
type EdgeEncoder interface {
	EncodeEdges(res *threshold.Result, format string) ([]byte, error)
}

type imageSaver struct {
	encoder EdgeEncoder
	logger  logger.Logger
}

func (s *imageSaver) SaveEdges(writer io.Writer, data *EdgeData, format string) error {
	if data == nil {
		return ErrNotProcessed
	}

	format = normalizeFormat(format)

	if s.encoder != nil {
		encoded, err := s.encoder.EncodeEdges(data.Result, format)
		if err == nil {
			if _, err := writer.Write(encoded); err != nil {
				return fmt.Errorf("failed to write edge map: %w", err)
			}
			s.logger.Info("ImageSaver", "edge map saved", map[string]interface{}{
				"format":  format,
				"encoder": "native",
			})
			return nil
		}

		s.logger.Warning("ImageSaver", "native encoder failed, using Go encoder", map[string]interface{}{
			"format": format,
			"error":  err.Error(),
		})
	}

	return s.SaveImage(writer, data.Edges, format)
}

func (s *imageSaver) SaveImage(writer io.Writer, img image.Image, format string) error {
	if img == nil {
		return fmt.Errorf("no image to save")
	}

	format = normalizeFormat(format)
	if err := imaging.Encode(writer, img, format); err != nil {
		s.logger.Error("ImageSaver", err, map[string]interface{}{
			"format": format,
		})
		return err
	}

	s.logger.Info("ImageSaver", "image saved", map[string]interface{}{
		"format": format,
		"width":  img.Bounds().Dx(),
		"height": img.Bounds().Dy(),
	})

	return nil
}

func normalizeFormat(format string) string {
	switch f := strings.ToLower(strings.TrimPrefix(format, ".")); f {
	case "":
		return "png"
	case "jpg":
		return "jpeg"
	case "tif":
		return "tiff"
	default:
		return f
	}
}
