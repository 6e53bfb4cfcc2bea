package formats

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/paulmach/orb"

	"github.com/Faultbox/navframe/pkg/encoding"
	"github.com/Faultbox/navframe/pkg/geo"
)

// GML format errors.
var (
	ErrInvalidGML = errors.New("invalid GML document")
)

// gmlElement is one open element while streaming a GML document.
type gmlElement struct {
	name string
	srs  string
	dim  int
}

// gmlRing accumulates the coordinates of one exterior ring.
type gmlRing struct {
	pts orb.Ring
	srs string
	bad bool
}

// ParseGML extracts the exterior ring of every gml:Polygon and gml:PolygonPatch
// in document order. MultiSurface, MultiPolygon and CompositeSurface members are
// reached naturally because their children are polygons. Interior rings are ignored.
// Coordinates may be given as posList, a pos sequence or GML2 coordinates.
func ParseGML(r io.Reader) (geo.PolygonSet, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return geo.PolygonSet{}, fmt.Errorf("reading GML: %w", err)
	}
	dec := xml.NewDecoder(bytes.NewReader(encoding.TrimBOM(data)))
	dec.CharsetReader = encoding.CharsetReader

	var (
		set     geo.PolygonSet
		stack   []gmlElement
		ring    *gmlRing
		text    strings.Builder
		capture string // local name of the coordinate element being read
		attrs   []xml.Attr
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return geo.PolygonSet{}, fmt.Errorf("%w: %v", ErrInvalidGML, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			el := gmlElement{name: t.Name.Local}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				el.srs, el.dim = parent.srs, parent.dim
			}
			for _, a := range t.Attr {
				switch a.Name.Local {
				case "srsName":
					el.srs = a.Value
				case "srsDimension":
					if d, err := strconv.Atoi(a.Value); err == nil && d >= 2 {
						el.dim = d
					}
				}
			}

			switch el.name {
			case "exterior", "outerBoundaryIs":
				if len(stack) > 0 && isGMLSurface(stack[len(stack)-1].name) && ring == nil {
					ring = &gmlRing{srs: el.srs}
				}
			case "posList", "pos", "coordinates":
				if ring != nil {
					capture = el.name
					attrs = t.Attr
					text.Reset()
				}
			}
			stack = append(stack, el)

		case xml.CharData:
			if capture != "" {
				text.Write(t)
			}

		case xml.EndElement:
			if len(stack) == 0 {
				return geo.PolygonSet{}, fmt.Errorf("%w: unbalanced element %s", ErrInvalidGML, t.Name.Local)
			}
			el := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			switch {
			case capture != "" && el.name == capture:
				pts, err := parseGMLCoordinates(capture, text.String(), el.dim, attrs)
				if err != nil {
					ring.bad = true
				} else {
					ring.pts = append(ring.pts, pts...)
				}
				capture = ""
			case ring != nil && (el.name == "exterior" || el.name == "outerBoundaryIs"):
				if ring.bad || len(ring.pts) == 0 {
					set.Skipped++
				} else {
					set.Add(geo.Polygon{Ring: geo.CloseRing(ring.pts), CRS: geo.NormalizeCRS(ring.srs)})
				}
				ring = nil
			}
		}
	}

	return set, nil
}

// ParseGMLFile parses a GML file from disk.
func ParseGMLFile(path string) (geo.PolygonSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return geo.PolygonSet{}, fmt.Errorf("reading GML file: %w", err)
	}
	defer f.Close()
	return ParseGML(f)
}

func isGMLSurface(name string) bool {
	return name == "Polygon" || name == "PolygonPatch"
}

func parseGMLCoordinates(kind, text string, dim int, attrs []xml.Attr) ([]orb.Point, error) {
	if dim < 2 {
		dim = 2
	}

	if kind == "coordinates" {
		cs, ts := ",", " "
		for _, a := range attrs {
			switch a.Name.Local {
			case "cs":
				cs = a.Value
			case "ts":
				ts = a.Value
			}
		}
		return parseGML2Coordinates(text, cs, ts)
	}

	fields := strings.Fields(text)
	if kind == "pos" {
		// a single position; its own dimension is the number of values
		dim = len(fields)
		if dim < 2 {
			return nil, fmt.Errorf("%w: pos with %d values", ErrInvalidGML, dim)
		}
	}
	if len(fields)%dim != 0 {
		return nil, fmt.Errorf("%w: %d values is not a multiple of dimension %d", ErrInvalidGML, len(fields), dim)
	}

	pts := make([]orb.Point, 0, len(fields)/dim)
	for i := 0; i < len(fields); i += dim {
		x, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidGML, err)
		}
		y, err := strconv.ParseFloat(fields[i+1], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidGML, err)
		}
		pts = append(pts, orb.Point{x, y})
	}
	return pts, nil
}

func parseGML2Coordinates(text, cs, ts string) ([]orb.Point, error) {
	var tuples []string
	if strings.TrimSpace(ts) == "" {
		tuples = strings.Fields(text)
	} else {
		tuples = strings.Split(strings.TrimSpace(text), ts)
	}

	pts := make([]orb.Point, 0, len(tuples))
	for _, tuple := range tuples {
		tuple = strings.TrimSpace(tuple)
		if tuple == "" {
			continue
		}
		parts := strings.Split(tuple, cs)
		if len(parts) < 2 {
			return nil, fmt.Errorf("%w: coordinate tuple %q", ErrInvalidGML, tuple)
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidGML, err)
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidGML, err)
		}
		pts = append(pts, orb.Point{x, y})
	}
	return pts, nil
}
