package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/webp"
)

// Image formats understood by the PDF canvas.
const (
	FormatPNG = "PNG"
	FormatJPG = "JPG"
)

// DefaultMaxPixels caps the decoded size of an image at 25 megapixels.
const DefaultMaxPixels = 25_000_000

// ErrTooManyPixels is returned when an image header announces more pixels than allowed.
var ErrTooManyPixels = errors.New("image exceeds pixel limit")

// Image is a decoded image ready to embed. Width and Height are in pixels.
type Image struct {
	Data   []byte
	Format string
	Width  int
	Height int
}

type codec struct {
	name   string
	config func(io.Reader) (image.Config, error)
	decode func(io.Reader) (image.Image, error) // nil when the bytes are embedded as is
}

var codecs = map[string]codec{
	"image/jpeg": {name: "jpeg", config: jpeg.DecodeConfig},
	"image/png":  {name: "png", config: png.DecodeConfig, decode: png.Decode},
	"image/webp": {name: "webp", config: webp.DecodeConfig, decode: webp.Decode},
}

// Decode sniffs data and prepares it for embedding. JPEG is passed through; PNG and WebP
// are re-encoded as non-interlaced 8-bit PNG. The header is checked against maxPixels
// (DefaultMaxPixels when not positive) before any pixel data is decoded.
func Decode(data []byte, maxPixels int) (*Image, error) {
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}

	mtype := mimetype.Detect(data)
	var c codec
	found := false
	for mime, candidate := range codecs {
		if mtype.Is(mime) {
			c, found = candidate, true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("unsupported image type %s", mtype.String())
	}

	cfg, err := c.config(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c.name, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%s: empty image", c.name)
	}
	if int64(cfg.Width)*int64(cfg.Height) > int64(maxPixels) {
		return nil, fmt.Errorf("%s: %dx%d: %w", c.name, cfg.Width, cfg.Height, ErrTooManyPixels)
	}

	if c.decode == nil {
		return &Image{Data: data, Format: FormatJPG, Width: cfg.Width, Height: cfg.Height}, nil
	}

	src, err := c.decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c.name, err)
	}
	return normalize(src)
}

func normalize(src image.Image) (*Image, error) {
	b := src.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("empty image")
	}

	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return &Image{Data: buf.Bytes(), Format: FormatPNG, Width: b.Dx(), Height: b.Dy()}, nil
}
