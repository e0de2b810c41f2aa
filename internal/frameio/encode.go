package frameio

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
)

// ErrFormat is returned for an unsupported output format.
var ErrFormat = errors.New("frameio: unsupported output format")

// Format is an output image encoding.
type Format string

const (
	FormatWebP Format = "webp"
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
)

// ParseFormat accepts a format name with or without a leading dot.
func ParseFormat(s string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(s), ".") {
	case "webp", "":
		return FormatWebP, nil
	case "png":
		return FormatPNG, nil
	case "jpg", "jpeg":
		return FormatJPEG, nil
	}
	return "", fmt.Errorf("%w: %q", ErrFormat, s)
}

// Ext returns the file extension for the format, without the dot.
func (f Format) Ext() string {
	if f == FormatJPEG {
		return "jpg"
	}
	return string(f)
}

// Encoder writes frames in one format. Quality applies to JPEG only; WebP
// output is lossless.
type Encoder struct {
	Format  Format
	Quality int
}

// Encode writes img to w.
func (e Encoder) Encode(w io.Writer, img image.Image) error {
	switch e.Format {
	case FormatWebP, "":
		return nativewebp.Encode(w, img, nil)
	case FormatPNG:
		return png.Encode(w, img)
	case FormatJPEG:
		q := e.Quality
		if q <= 0 || q > 100 {
			q = jpeg.DefaultQuality
		}
		return jpeg.Encode(w, img, &jpeg.Options{Quality: q})
	}
	return fmt.Errorf("%w: %q", ErrFormat, e.Format)
}

// WriteFile encodes img to path, creating parent directories.
func (e Encoder) WriteFile(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("frameio: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("frameio: %w", err)
	}
	if err := e.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("frameio: encode %s: %w", path, err)
	}
	return f.Close()
}
