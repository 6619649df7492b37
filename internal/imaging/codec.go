// Package imaging converts between Go images and the buffers of the
// threshold engine, and renders results for saving and display.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"tagedge/internal/threshold"

	"golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/tiff"
)

// Decoder decodes with the image package and the x/image bmp and tiff
// codecs.
type Decoder struct{}

func (Decoder) Decode(data []byte) (threshold.Gray, error) {
	img, _, err := Decode(data)
	if err != nil {
		return threshold.Gray{}, err
	}
	return ToGray(img), nil
}

func Decode(data []byte) (image.Image, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	return img, format, nil
}

// ToGray converts img to an 8-bit gray buffer with the luma weights of the
// image/color package.
func ToGray(img image.Image) threshold.Gray {
	if g, ok := img.(*image.Gray); ok && g.Stride == g.Rect.Dx() {
		pix := make([]byte, len(g.Pix))
		copy(pix, g.Pix)
		return threshold.Gray{Pix: pix, W: g.Rect.Dx(), H: g.Rect.Dy()}
	}

	b := img.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(dst, dst.Bounds(), img, b.Min, xdraw.Src)
	return threshold.Gray{Pix: dst.Pix, W: b.Dx(), H: b.Dy()}
}

// FormatFromPath maps a file extension to an encoder format name. Unknown
// extensions yield "png".
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".bmp":
		return "bmp"
	case ".tif", ".tiff":
		return "tiff"
	default:
		return "png"
	}
}

func Encode(w io.Writer, img image.Image, format string) error {
	var err error
	switch strings.ToLower(format) {
	case "jpeg", "jpg":
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: 95})
	case "bmp":
		err = bmp.Encode(w, img)
	case "tiff", "tif":
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	case "png", "":
		err = png.Encode(w, img)
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}

	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", format, err)
	}
	return nil
}
