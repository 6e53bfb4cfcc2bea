// Package encoding provides text decoding for geometry documents that are not UTF-8.
package encoding

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// ErrUnsupportedCharset is returned for encoding labels x/text does not know.
var ErrUnsupportedCharset = errors.New("unsupported charset")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CharsetReader returns a reader converting input from the named encoding
// to UTF-8. Its signature matches xml.Decoder.CharsetReader, so cadastral GML
// exports declared as ISO-8859-1 or windows-1252 decode transparently.
func CharsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedCharset, label)
	}
	return transform.NewReader(input, enc.NewDecoder()), nil
}

// TrimBOM removes a leading UTF-8 byte order mark.
func TrimBOM(data []byte) []byte {
	return bytes.TrimPrefix(data, utf8BOM)
}
