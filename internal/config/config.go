// Package config handles navframe configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"github.com/Faultbox/navframe/internal/logger"
	"github.com/Faultbox/navframe/pkg/formats"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all pipeline settings.
type Config struct {
	Input   InputConfig   `yaml:"input"`
	Frame   FrameConfig   `yaml:"frame"`
	Map     MapConfig     `yaml:"map"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

// InputConfig holds source file paths.
type InputConfig struct {
	Mesh      string `yaml:"mesh"`       // OBJ in a projected CRS
	Bounds    string `yaml:"bounds"`     // canvas-defining polygons
	FreeSpace string `yaml:"free_space"` // traversable polygons
	Frame     string `yaml:"frame"`      // existing frame.yaml, for map-only runs
}

// FrameConfig holds mesh normalization settings.
type FrameConfig struct {
	ZOffset   float64 `yaml:"z_offset"`
	Precision int     `yaml:"precision"`
	CRS       string  `yaml:"crs"`
	Header    bool    `yaml:"header"`
}

// MapConfig holds occupancy map settings.
type MapConfig struct {
	Resolution     float64 `yaml:"resolution"`
	Padding        float64 `yaml:"padding"`
	Negate         int     `yaml:"negate"`
	OccupiedThresh float64 `yaml:"occupied_thresh"`
	FreeThresh     float64 `yaml:"free_thresh"`
	Mode           string  `yaml:"mode"`
	ImageFormat    string  `yaml:"image_format"`
}

// OutputConfig holds output locations.
type OutputConfig struct {
	Dir         string `yaml:"dir"`
	ModelName   string `yaml:"model_name"`
	MapBasename string `yaml:"map_basename"`
	Preview     bool   `yaml:"preview"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Frame: FrameConfig{
			ZOffset:   0,
			Precision: formats.DefaultOBJPrecision,
			Header:    true,
		},
		Map: MapConfig{
			Resolution:     0.05,
			Padding:        5.0,
			Negate:         0,
			OccupiedThresh: 0.65,
			FreeThresh:     0.25,
			Mode:           "trinary",
			ImageFormat:    string(formats.ImagePGM),
		},
		Output: OutputConfig{
			Dir:         "output",
			ModelName:   "model.obj",
			MapBasename: "map",
			Preview:     false,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate checks values that would otherwise fail deep inside a run.
func (c *Config) Validate() error {
	var errs []error
	if !(c.Map.Resolution > 0) {
		errs = append(errs, fmt.Errorf("map.resolution must be positive, got %v", c.Map.Resolution))
	}
	if !(c.Map.Padding >= 0) {
		errs = append(errs, fmt.Errorf("map.padding must be non-negative, got %v", c.Map.Padding))
	}
	if c.Map.Negate != 0 && c.Map.Negate != 1 {
		errs = append(errs, fmt.Errorf("map.negate must be 0 or 1, got %d", c.Map.Negate))
	}
	if _, err := formats.ParseImageFormat(c.Map.ImageFormat); err != nil {
		errs = append(errs, fmt.Errorf("map.image_format: %w", err))
	}
	if c.Frame.Precision < 0 || c.Frame.Precision > 12 {
		errs = append(errs, fmt.Errorf("frame.precision must be in [0, 12], got %d", c.Frame.Precision))
	}
	if c.Output.ModelName == "" || c.Output.MapBasename == "" {
		errs = append(errs, errors.New("output.model_name and output.map_basename are required"))
	}
	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("logging.level: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}
