package formats

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Faultbox/navframe/pkg/math"
)

// OBJ format errors.
var (
	ErrMalformedVertex = errors.New("malformed vertex record")
)

// DefaultOBJPrecision is the number of decimals written for rewritten vertices.
const DefaultOBJPrecision = 6

// RecordKind distinguishes vertex records from everything else.
type RecordKind uint8

// Record kinds.
const (
	RecordOpaque RecordKind = iota // vt, vn, f, usemtl, comments, blank lines, malformed v
	RecordVertex                   // v x y z [extra...]
)

// String returns a human-readable record kind.
func (k RecordKind) String() string {
	switch k {
	case RecordOpaque:
		return "Opaque"
	case RecordVertex:
		return "Vertex"
	default:
		return fmt.Sprintf("Unknown(%d)", k)
	}
}

// Record is one line of an OBJ file.
type Record struct {
	Kind   RecordKind
	Line   int    // 1-based source line number
	Raw    string // source text without the line terminator
	EOL    string // "\n", "\r\n" or "" for a final unterminated line
	Vertex math.Vec3
	Extra  []string // vertex components after x y z (w, colours), kept verbatim

	rewritten bool
}

// RecordParseWarning reports a record that was kept verbatim instead of parsed.
type RecordParseWarning struct {
	Line int
	Text string
	Err  error
}

func (w RecordParseWarning) Error() string {
	return fmt.Sprintf("line %d: %v: %q", w.Line, w.Err, w.Text)
}

func (w RecordParseWarning) Unwrap() error { return w.Err }

// OBJ is a structured Wavefront OBJ text: an ordered list of records in
// which vertices are parsed and everything else is opaque.
type OBJ struct {
	Header    []string // comment lines written before the first record
	Records   []Record
	Precision int // decimals for rewritten vertices
	Warnings  []RecordParseWarning
}

// ParseOBJ parses OBJ text. Malformed vertex lines are kept as opaque
// records and reported in Warnings; ParseOBJ never fails on content.
func ParseOBJ(data []byte) *OBJ {
	obj := &OBJ{Precision: DefaultOBJPrecision}
	if len(data) == 0 {
		return obj
	}

	lineNo := 0
	for len(data) > 0 {
		lineNo++
		var line []byte
		eol := ""
		if i := bytes.IndexByte(data, '\n'); i >= 0 {
			line, data = data[:i], data[i+1:]
			eol = "\n"
			if n := len(line); n > 0 && line[n-1] == '\r' {
				line = line[:n-1]
				eol = "\r\n"
			}
		} else {
			line, data = data, nil
		}

		rec := Record{Kind: RecordOpaque, Line: lineNo, Raw: string(line), EOL: eol}
		if isVertexLine(rec.Raw) {
			v, extra, err := parseVertex(rec.Raw)
			if err != nil {
				obj.Warnings = append(obj.Warnings, RecordParseWarning{Line: lineNo, Text: rec.Raw, Err: err})
			} else {
				rec.Kind = RecordVertex
				rec.Vertex = v
				rec.Extra = extra
			}
		}
		obj.Records = append(obj.Records, rec)
	}
	return obj
}

// ParseOBJFile parses an OBJ file from disk.
func ParseOBJFile(path string) (*OBJ, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading OBJ file: %w", err)
	}
	return ParseOBJ(data), nil
}

// isVertexLine matches "v" followed by whitespace, not vt/vn/vp.
func isVertexLine(s string) bool {
	s = strings.TrimLeft(s, " \t")
	return len(s) > 1 && s[0] == 'v' && (s[1] == ' ' || s[1] == '\t')
}

func parseVertex(s string) (math.Vec3, []string, error) {
	fields := strings.Fields(s)
	if len(fields) < 4 {
		return math.Vec3{}, nil, fmt.Errorf("%w: expected 3 coordinates, got %d", ErrMalformedVertex, len(fields)-1)
	}

	var xyz [3]float64
	for i := 0; i < 3; i++ {
		f, err := strconv.ParseFloat(fields[i+1], 64)
		if err != nil {
			return math.Vec3{}, nil, fmt.Errorf("%w: coordinate %d: %v", ErrMalformedVertex, i, err)
		}
		xyz[i] = f
	}

	v := math.Vec3{X: xyz[0], Y: xyz[1], Z: xyz[2]}
	if !v.IsFinite() {
		return math.Vec3{}, nil, fmt.Errorf("%w: non-finite coordinate", ErrMalformedVertex)
	}

	var extra []string
	if len(fields) > 4 {
		extra = append(extra, fields[4:]...)
	}
	return v, extra, nil
}

// VertexCount returns the number of parsed vertex records.
func (o *OBJ) VertexCount() int {
	n := 0
	for i := range o.Records {
		if o.Records[i].Kind == RecordVertex {
			n++
		}
	}
	return n
}

// Vertices returns the parsed vertices in file order.
func (o *OBJ) Vertices() []math.Vec3 {
	verts := make([]math.Vec3, 0, len(o.Records))
	for i := range o.Records {
		if o.Records[i].Kind == RecordVertex {
			verts = append(verts, o.Records[i].Vertex)
		}
	}
	return verts
}

// Bounds returns the AABB of all parsed vertices.
func (o *OBJ) Bounds() math.Bounds3 {
	b := math.EmptyBounds3()
	for i := range o.Records {
		if o.Records[i].Kind == RecordVertex {
			b = b.Extend(o.Records[i].Vertex)
		}
	}
	return b
}

// SetVertex replaces the vertex of record i. The record is re-formatted on encode.
func (o *OBJ) SetVertex(i int, v math.Vec3) {
	rec := &o.Records[i]
	if rec.Kind != RecordVertex {
		panic(fmt.Sprintf("formats: record %d is %s, not a vertex", i, rec.Kind))
	}
	rec.Vertex = v
	rec.rewritten = true
}

// Clone returns a deep copy.
func (o *OBJ) Clone() *OBJ {
	out := &OBJ{
		Header:    append([]string(nil), o.Header...),
		Records:   make([]Record, len(o.Records)),
		Precision: o.Precision,
		Warnings:  append([]RecordParseWarning(nil), o.Warnings...),
	}
	for i, rec := range o.Records {
		rec.Extra = append([]string(nil), rec.Extra...)
		out.Records[i] = rec
	}
	return out
}

// newline returns the terminator used for header lines.
func (o *OBJ) newline() string {
	for i := range o.Records {
		if o.Records[i].EOL != "" {
			return o.Records[i].EOL
		}
	}
	return "\n"
}

// Encode serializes the OBJ. Records that were never rewritten are emitted
// byte-for-byte as read.
func (o *OBJ) Encode() []byte {
	var buf bytes.Buffer
	nl := o.newline()
	for _, h := range o.Header {
		buf.WriteString(h)
		buf.WriteString(nl)
	}
	for i := range o.Records {
		rec := &o.Records[i]
		if rec.rewritten {
			buf.WriteString(o.formatVertex(rec))
		} else {
			buf.WriteString(rec.Raw)
		}
		buf.WriteString(rec.EOL)
	}
	return buf.Bytes()
}

// WriteFile encodes the OBJ to path, creating parent directories.
func (o *OBJ) WriteFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	if err := os.WriteFile(path, o.Encode(), 0644); err != nil {
		return fmt.Errorf("writing OBJ file: %w", err)
	}
	return nil
}

func (o *OBJ) formatVertex(rec *Record) string {
	var sb strings.Builder
	sb.WriteString("v ")
	sb.WriteString(FormatFloat(rec.Vertex.X, o.Precision))
	sb.WriteByte(' ')
	sb.WriteString(FormatFloat(rec.Vertex.Y, o.Precision))
	sb.WriteByte(' ')
	sb.WriteString(FormatFloat(rec.Vertex.Z, o.Precision))
	for _, e := range rec.Extra {
		sb.WriteByte(' ')
		sb.WriteString(e)
	}
	return sb.String()
}

// FormatFloat formats f with fixed decimals and no negative zero.
func FormatFloat(f float64, prec int) string {
	s := strconv.FormatFloat(f, 'f', prec, 64)
	if strings.HasPrefix(s, "-") && strings.Trim(s[1:], "0.") == "" {
		return s[1:]
	}
	return s
}
