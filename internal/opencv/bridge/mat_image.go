package bridge

import (
	"fmt"

	"tagedge/internal/logger"
	"tagedge/internal/opencv/conversion"
	"tagedge/internal/opencv/safe"
	"tagedge/internal/threshold"

	"gocv.io/x/gocv"
)

// Codec decodes and resizes images with OpenCV. It satisfies the decoder and
// resizer hooks of the pipeline.
type Codec struct {
	tracker safe.MemoryTracker
	logger  logger.Logger
}

func NewCodec(tracker safe.MemoryTracker, log logger.Logger) *Codec {
	if log == nil {
		log = logger.Nop()
	}
	return &Codec{tracker: tracker, logger: log}
}

// Decode reads any format OpenCV understands into an 8-bit gray buffer.
func (c *Codec) Decode(data []byte) (threshold.Gray, error) {
	mat, err := gocv.IMDecode(data, gocv.IMReadColor)
	if err != nil {
		return threshold.Gray{}, fmt.Errorf("failed to decode image with OpenCV: %w", err)
	}

	color, err := safe.Adopt(mat, c.tracker, "decoded")
	if err != nil {
		return threshold.Gray{}, fmt.Errorf("OpenCV could not decode image: %w", err)
	}
	defer color.Close()

	gray, err := conversion.ConvertToGrayscale(color, c.tracker)
	if err != nil {
		return threshold.Gray{}, err
	}
	defer gray.Close()

	c.logger.Debug("OpenCVCodec", "image decoded", map[string]interface{}{
		"width":  gray.Cols(),
		"height": gray.Rows(),
	})

	return MatToGray(gray)
}

// Resize scales g to width x height with area interpolation.
func (c *Codec) Resize(g threshold.Gray, width, height int) (threshold.Gray, error) {
	src, err := GrayToMat(g, c.tracker, "resize_source")
	if err != nil {
		return threshold.Gray{}, err
	}
	defer src.Close()

	dst, err := conversion.ResizeArea(src, width, height, c.tracker)
	if err != nil {
		return threshold.Gray{}, err
	}
	defer dst.Close()

	return MatToGray(dst)
}

func MatToGray(mat *safe.Mat) (threshold.Gray, error) {
	if err := safe.ValidateMatForOperation(mat, "MatToGray"); err != nil {
		return threshold.Gray{}, err
	}

	if mat.Type() != gocv.MatTypeCV8UC1 {
		return threshold.Gray{}, fmt.Errorf("MatToGray needs CV_8UC1, got %v", mat.Type())
	}

	data, err := mat.Bytes()
	if err != nil {
		return threshold.Gray{}, err
	}

	w, h := mat.Cols(), mat.Rows()
	if len(data) != w*h {
		return threshold.Gray{}, fmt.Errorf("Mat %dx%d returned %d bytes", w, h, len(data))
	}

	return threshold.Gray{Pix: data, W: w, H: h}, nil
}

func GrayToMat(g threshold.Gray, tracker safe.MemoryTracker, tag string) (*safe.Mat, error) {
	return safe.NewMatFromBytes(g.H, g.W, gocv.MatTypeCV8UC1, g.Pix, tracker, tag)
}

// EdgesToMat renders an edge map as black edges on white.
func EdgesToMat(res *threshold.Result, tracker safe.MemoryTracker) (*safe.Mat, error) {
	data := make([]byte, len(res.Edges))
	for i, e := range res.Edges {
		if !e {
			data[i] = 255
		}
	}
	return safe.NewMatFromBytes(res.Height, res.Width, gocv.MatTypeCV8UC1, data, tracker, "edges")
}

// EncodeEdges encodes the edge map with OpenCV in format ("png", "bmp",
// "tiff" or anything else OpenCV knows by extension).
func (c *Codec) EncodeEdges(res *threshold.Result, format string) ([]byte, error) {
	ext := gocv.FileExt("." + format)
	if format == "jpeg" {
		ext = gocv.JPEGFileExt
	}

	mat, err := EdgesToMat(res, c.tracker)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	var out []byte
	err = mat.Apply(func(m gocv.Mat) error {
		buf, err := gocv.IMEncode(ext, m)
		if err != nil {
			return err
		}
		defer buf.Close()

		out = append([]byte(nil), buf.GetBytes()...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode edge map: %w", err)
	}
	return out, nil
}
