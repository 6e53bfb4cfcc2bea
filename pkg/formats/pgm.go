package formats

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"strconv"
)

// PGM format errors.
var (
	ErrInvalidPGMMagic  = errors.New("invalid PGM magic: expected 'P5'")
	ErrInvalidPGMHeader = errors.New("invalid PGM header")
	ErrTruncatedPGMData = errors.New("truncated PGM data")
)

// EncodePGM writes img as a binary (P5) portable graymap with maxval 255.
// Rows are written top to bottom, which is the order map_server reads them.
func EncodePGM(w io.Writer, img *image.Gray) error {
	b := img.Bounds()
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P5\n%d %d\n255\n", b.Dx(), b.Dy()); err != nil {
		return fmt.Errorf("writing PGM header: %w", err)
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		off := img.PixOffset(b.Min.X, y)
		if _, err := bw.Write(img.Pix[off : off+b.Dx()]); err != nil {
			return fmt.Errorf("writing PGM row %d: %w", y-b.Min.Y, err)
		}
	}
	return bw.Flush()
}

// DecodePGM reads a binary (P5) graymap with maxval <= 255.
// Comment lines in the header are ignored.
func DecodePGM(data []byte) (*image.Gray, error) {
	if len(data) < 2 || !bytes.Equal(data[:2], []byte("P5")) {
		return nil, ErrInvalidPGMMagic
	}

	pos := 2
	var header [3]int
	for i := range header {
		tok, next, err := nextPGMToken(data, pos)
		if err != nil {
			return nil, err
		}
		v, err := strconv.Atoi(tok)
		if err != nil || v <= 0 {
			return nil, fmt.Errorf("%w: bad value %q", ErrInvalidPGMHeader, tok)
		}
		header[i] = v
		pos = next
	}
	width, height, maxval := header[0], header[1], header[2]
	if maxval > 255 {
		return nil, fmt.Errorf("%w: 16-bit maxval %d not supported", ErrInvalidPGMHeader, maxval)
	}

	// exactly one whitespace byte separates the header from the raster
	pos++
	need := width * height
	if pos > len(data) || len(data)-pos < need {
		return nil, fmt.Errorf("%w: need %d bytes", ErrTruncatedPGMData, need)
	}

	img := image.NewGray(image.Rect(0, 0, width, height))
	copy(img.Pix, data[pos:pos+need])
	return img, nil
}

// nextPGMToken returns the next whitespace-delimited header token starting at
// pos, and the offset just past it.
func nextPGMToken(data []byte, pos int) (string, int, error) {
	for pos < len(data) {
		c := data[pos]
		switch {
		case c == '#':
			for pos < len(data) && data[pos] != '\n' {
				pos++
			}
		case isPGMSpace(c):
			pos++
		default:
			start := pos
			for pos < len(data) && !isPGMSpace(data[pos]) {
				pos++
			}
			return string(data[start:pos]), pos, nil
		}
	}
	return "", pos, fmt.Errorf("%w: header ends early", ErrInvalidPGMHeader)
}

func isPGMSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}
