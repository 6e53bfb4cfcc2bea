package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/navframe/internal/config"
	"github.com/Faultbox/navframe/pkg/frame"
	"github.com/Faultbox/navframe/pkg/occupancy"
)

// ManifestFileName is written at the end of a full run.
const ManifestFileName = "manifest.yaml"

// Manifest records what a run consumed and produced.
type Manifest struct {
	RunID     string             `yaml:"run_id"`
	CreatedAt time.Time          `yaml:"created_at"`
	Inputs    config.InputConfig `yaml:"inputs"`
	Frame     frame.Descriptor   `yaml:"frame"`
	Map       ManifestMap        `yaml:"map"`
	Outputs   []string           `yaml:"outputs"`
}

// ManifestMap summarizes the raster.
type ManifestMap struct {
	Width      int        `yaml:"width"`
	Height     int        `yaml:"height"`
	Resolution float64    `yaml:"resolution"`
	Origin     [3]float64 `yaml:"origin,flow"`
	CanvasMin  [2]float64 `yaml:"canvas_min,flow"`
	CanvasMax  [2]float64 `yaml:"canvas_max,flow"`
	FreeCells  int        `yaml:"free_cells"`
	Drawn      int        `yaml:"polygons_drawn"`
	Warnings   int        `yaml:"warnings"`
}

func newManifest(cfg *config.Config, norm *NormalizeOutput, mapOut *MapOutput) *Manifest {
	m := mapOut.Map
	man := &Manifest{
		RunID:     uuid.NewString(),
		CreatedAt: time.Now().UTC().Truncate(time.Second),
		Inputs:    cfg.Input,
		Frame:     norm.Result.Descriptor,
		Map: ManifestMap{
			Width:      m.Grid.Width,
			Height:     m.Grid.Height,
			Resolution: m.Resolution,
			Origin:     m.Metadata.Origin,
			CanvasMin:  [2]float64{m.Canvas.Min[0], m.Canvas.Min[1]},
			CanvasMax:  [2]float64{m.Canvas.Max[0], m.Canvas.Max[1]},
			FreeCells:  m.Grid.Count()[occupancy.CellFree],
			Drawn:      m.Drawn,
			Warnings:   len(m.Warnings),
		},
	}
	for _, path := range []string{norm.MeshPath, norm.FramePath, mapOut.ImagePath, mapOut.YAMLPath, mapOut.PreviewPath} {
		if path != "" {
			man.Outputs = append(man.Outputs, filepath.Base(path))
		}
	}
	return man
}

// Save writes the manifest as YAML.
func (m *Manifest) Save(path string) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}

// LoadManifest reads a manifest written by Save.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	if _, err := uuid.Parse(m.RunID); err != nil {
		return nil, fmt.Errorf("parsing manifest: run_id: %w", err)
	}
	return &m, nil
}
