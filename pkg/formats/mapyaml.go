package formats

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidMapYAML is returned when a map sidecar cannot be decoded.
var ErrInvalidMapYAML = errors.New("invalid map YAML")

// MapYAML is the occupancy map sidecar read by Nav2's map_server.
// Field order is the key order on disk.
type MapYAML struct {
	Image          string     `yaml:"image"`
	Mode           string     `yaml:"mode"`
	Resolution     float64    `yaml:"resolution"`
	Origin         [3]float64 `yaml:"origin,flow"`
	Negate         int        `yaml:"negate"`
	OccupiedThresh float64    `yaml:"occupied_thresh"`
	FreeThresh     float64    `yaml:"free_thresh"`
}

// EncodeMapYAML writes m as a map sidecar document.
func EncodeMapYAML(w io.Writer, m MapYAML) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("encoding map YAML: %w", err)
	}
	return enc.Close()
}

// WriteMapYAMLFile writes the sidecar to path.
func WriteMapYAMLFile(path string, m MapYAML) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating map YAML: %w", err)
	}
	if err := EncodeMapYAML(f, m); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ParseMapYAML decodes a sidecar document.
func ParseMapYAML(data []byte) (MapYAML, error) {
	var m MapYAML
	if err := yaml.Unmarshal(data, &m); err != nil {
		return MapYAML{}, fmt.Errorf("%w: %v", ErrInvalidMapYAML, err)
	}
	if m.Image == "" || m.Resolution <= 0 {
		return MapYAML{}, fmt.Errorf("%w: image and a positive resolution are required", ErrInvalidMapYAML)
	}
	return m, nil
}

// ParseMapYAMLFile decodes a sidecar document from disk.
func ParseMapYAMLFile(path string) (MapYAML, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return MapYAML{}, fmt.Errorf("reading map YAML: %w", err)
	}
	return ParseMapYAML(data)
}
