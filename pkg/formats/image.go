package formats

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"strings"

	"golang.org/x/image/bmp"
)

// ErrUnknownImageFormat is returned for raster formats we cannot write.
var ErrUnknownImageFormat = errors.New("unknown image format")

// ImageFormat names a raster encoding for occupancy maps.
type ImageFormat string

// Supported raster encodings. PGM is what map_server expects by default.
const (
	ImagePGM ImageFormat = "pgm"
	ImagePNG ImageFormat = "png"
	ImageBMP ImageFormat = "bmp"
)

// ParseImageFormat maps a config value or file extension to an ImageFormat.
func ParseImageFormat(s string) (ImageFormat, error) {
	switch f := ImageFormat(strings.TrimPrefix(strings.ToLower(s), ".")); f {
	case ImagePGM, ImagePNG, ImageBMP:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownImageFormat, s)
}

// Extension returns the file extension including the dot.
func (f ImageFormat) Extension() string {
	return "." + string(f)
}

// EncodeImage writes img in the given format.
func EncodeImage(w io.Writer, img *image.Gray, f ImageFormat) error {
	switch f {
	case ImagePGM:
		return EncodePGM(w, img)
	case ImagePNG:
		return png.Encode(w, img)
	case ImageBMP:
		return bmp.Encode(w, img)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownImageFormat, string(f))
	}
}
