package imaging

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/pthm-cable/gator/field"
)

// Supported output formats.
const (
	FormatPNG  = "png"
	FormatTIFF = "tiff"
	FormatBMP  = "bmp"
)

// ErrUnknownFormat is returned for unsupported image formats.
var ErrUnknownFormat = errors.New("unknown image format")

// Render colours slice z of f with ramp. Samples are expected in [0,1].
func Render(f *field.Field, z int, ramp *Ramp) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.W, f.H))
	src := f.Slice(z)
	for y := 0; y < f.H; y++ {
		row := src[y*f.W : (y+1)*f.W]
		off := y * img.Stride
		for x, v := range row {
			c := ramp.At(v)
			img.Pix[off+4*x] = c.R
			img.Pix[off+4*x+1] = c.G
			img.Pix[off+4*x+2] = c.B
			img.Pix[off+4*x+3] = c.A
		}
	}
	return img
}

// Gray16 renders slice z of f as 16-bit grayscale, clamping to [0,1].
func Gray16(f *field.Field, z int) *image.Gray16 {
	img := image.NewGray16(image.Rect(0, 0, f.W, f.H))
	src := f.Slice(z)
	for y := 0; y < f.H; y++ {
		for x := 0; x < f.W; x++ {
			v := src[y*f.W+x]
			switch {
			case v != v || v < 0:
				v = 0
			case v > 1:
				v = 1
			}
			img.SetGray16(x, y, color.Gray16{Y: uint16(v*65535 + 0.5)})
		}
	}
	return img
}

// FormatFromPath returns the format implied by a file extension.
func FormatFromPath(path string) (string, error) {
	return normalizeFormat(strings.TrimPrefix(filepath.Ext(path), "."))
}

func normalizeFormat(format string) (string, error) {
	switch strings.ToLower(format) {
	case "png":
		return FormatPNG, nil
	case "tif", "tiff":
		return FormatTIFF, nil
	case "bmp":
		return FormatBMP, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// Ext returns the file extension for format, including the dot.
func Ext(format string) string {
	f, err := normalizeFormat(format)
	if err != nil {
		return ""
	}
	return "." + f
}

// Encode writes img to w in the given format.
func Encode(w io.Writer, img image.Image, format string) error {
	f, err := normalizeFormat(format)
	if err != nil {
		return err
	}

	switch f {
	case FormatPNG:
		err = png.Encode(w, img)
	case FormatTIFF:
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	case FormatBMP:
		err = bmp.Encode(w, img)
	}
	if err != nil {
		return fmt.Errorf("encoding %s: %w", f, err)
	}
	return nil
}
