package frame

import (
	"fmt"
	gomath "math"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/navframe/pkg/math"
)

// Descriptor defines the local frame shared by the mesh and the occupancy map.
// A point in the frame is
//
//	local = (x - OriginX, y - OriginY, z - ZDatum + AdditionalZOffset)
//
// Once computed it is read-only; every consumer must use the same value.
type Descriptor struct {
	OriginX           float64 `yaml:"origin_x"`
	OriginY           float64 `yaml:"origin_y"`
	ZDatum            float64 `yaml:"z_datum"`
	AdditionalZOffset float64 `yaml:"additional_z_offset"`
	CRS               string  `yaml:"crs,omitempty"`
}

// Origin returns the world position of the local (0, 0).
func (d Descriptor) Origin() math.Vec2 {
	return d.datum().XY()
}

// datum is the world point that maps to local (0, 0, AdditionalZOffset).
func (d Descriptor) datum() math.Vec3 {
	return math.Vec3{X: d.OriginX, Y: d.OriginY, Z: d.ZDatum}
}

// ToLocal maps a world point into the frame. The offset is added after the
// datum shift so the lowest vertex lands on AdditionalZOffset exactly.
func (d Descriptor) ToLocal(p math.Vec3) math.Vec3 {
	local := p.Sub(d.datum())
	local.Z += d.AdditionalZOffset
	return local
}

// ToWorld maps a local point back to world coordinates.
func (d Descriptor) ToWorld(p math.Vec3) math.Vec3 {
	world := p.Add(d.datum())
	world.Z -= d.AdditionalZOffset
	return world
}

// Validate checks that every field is a real number.
func (d Descriptor) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"origin_x", d.OriginX},
		{"origin_y", d.OriginY},
		{"z_datum", d.ZDatum},
		{"additional_z_offset", d.AdditionalZOffset},
	} {
		if gomath.IsNaN(f.v) || gomath.IsInf(f.v, 0) {
			return fmt.Errorf("%w: %s is %v", ErrInvalidDescriptor, f.name, f.v)
		}
	}
	return nil
}

// Save writes the descriptor as YAML, creating parent directories.
func (d Descriptor) Save(path string) error {
	data, err := yaml.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshaling frame descriptor: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating frame dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing frame descriptor: %w", err)
	}
	return nil
}

// LoadDescriptor reads a descriptor written by Save.
func LoadDescriptor(path string) (*Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading frame descriptor: %w", err)
	}
	var d Descriptor
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDescriptor, err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}
