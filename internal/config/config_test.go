package config

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Map defaults match map_server conventions
	if cfg.Map.Resolution != 0.05 {
		t.Errorf("expected resolution 0.05, got %v", cfg.Map.Resolution)
	}
	if cfg.Map.Padding != 5.0 {
		t.Errorf("expected padding 5.0, got %v", cfg.Map.Padding)
	}
	if cfg.Map.OccupiedThresh != 0.65 || cfg.Map.FreeThresh != 0.25 {
		t.Errorf("expected thresholds 0.65/0.25, got %v/%v", cfg.Map.OccupiedThresh, cfg.Map.FreeThresh)
	}
	if cfg.Map.Mode != "trinary" {
		t.Errorf("expected mode trinary, got %s", cfg.Map.Mode)
	}
	if cfg.Map.ImageFormat != "pgm" {
		t.Errorf("expected image format pgm, got %s", cfg.Map.ImageFormat)
	}

	// Frame defaults
	if cfg.Frame.Precision != 6 {
		t.Errorf("expected precision 6, got %d", cfg.Frame.Precision)
	}
	if !cfg.Frame.Header {
		t.Error("expected header to be enabled by default")
	}

	// Output defaults
	if cfg.Output.ModelName != "model.obj" {
		t.Errorf("expected model name model.obj, got %s", cfg.Output.ModelName)
	}
	if cfg.Output.MapBasename != "map" {
		t.Errorf("expected map basename map, got %s", cfg.Output.MapBasename)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "navframe.yaml")

	yamlContent := `
input:
  mesh: data/model_utm.obj
  bounds: data/parcel.gml
  free_space: data/walkable.geojson

frame:
  z_offset: 0.2
  crs: EPSG:25832

map:
  resolution: 0.1
  padding: 2.5
  image_format: png

output:
  dir: build/site
  preview: true

logging:
  level: debug
  log_file: navframe.log
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Input.Mesh != "data/model_utm.obj" || cfg.Input.FreeSpace != "data/walkable.geojson" {
		t.Errorf("unexpected input section: %+v", cfg.Input)
	}
	if cfg.Frame.ZOffset != 0.2 || cfg.Frame.CRS != "EPSG:25832" {
		t.Errorf("unexpected frame section: %+v", cfg.Frame)
	}
	if cfg.Map.Resolution != 0.1 || cfg.Map.Padding != 2.5 || cfg.Map.ImageFormat != "png" {
		t.Errorf("unexpected map section: %+v", cfg.Map)
	}
	if !cfg.Output.Preview || cfg.Output.Dir != "build/site" {
		t.Errorf("unexpected output section: %+v", cfg.Output)
	}

	// Unset values keep their defaults
	if cfg.Map.FreeThresh != 0.25 {
		t.Errorf("expected default free_thresh, got %v", cfg.Map.FreeThresh)
	}
	if cfg.Output.ModelName != "model.obj" {
		t.Errorf("expected default model name, got %s", cfg.Output.ModelName)
	}
	if !cfg.Frame.Header {
		t.Error("expected default header setting to survive the merge")
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(configPath, []byte("map: [unclosed"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	if err := loadFromFile(Default(), configPath); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if err := loadFromFile(Default(), "/nonexistent/navframe.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	dir := ConfigDir()
	if dir == "" {
		t.Fatal("ConfigDir returned empty string")
	}
	if !strings.Contains(dir, "navframe") {
		t.Errorf("ConfigDir should be app specific, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	chdir(t, tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	if err := os.WriteFile(filepath.Join(tmpDir, "navframe.yaml"), []byte("map:\n  padding: 1\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}
	if path := findConfigFile(); path == "" {
		t.Error("expected to find navframe.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		verify func(*testing.T, *Config)
	}{
		{
			name: "debug flag",
			args: []string{"-debug"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
		},
		{
			name: "input paths",
			args: []string{"-mesh", "a.obj", "-bounds", "b.gml", "-free", "c.shp", "-frame", "f.yaml"},
			verify: func(t *testing.T, cfg *Config) {
				want := InputConfig{Mesh: "a.obj", Bounds: "b.gml", FreeSpace: "c.shp", Frame: "f.yaml"}
				if cfg.Input != want {
					t.Errorf("expected %+v, got %+v", want, cfg.Input)
				}
			},
		},
		{
			name: "explicit zero overrides",
			args: []string{"-padding", "0", "-z-offset", "0"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Map.Padding != 0 {
					t.Errorf("expected padding 0, got %v", cfg.Map.Padding)
				}
			},
		},
		{
			name: "map and output",
			args: []string{"-resolution", "0.1", "-format", "bmp", "-out", "dist", "-preview", "-crs", "EPSG:25833"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Map.Resolution != 0.1 || cfg.Map.ImageFormat != "bmp" {
					t.Errorf("unexpected map section: %+v", cfg.Map)
				}
				if cfg.Output.Dir != "dist" || !cfg.Output.Preview {
					t.Errorf("unexpected output section: %+v", cfg.Output)
				}
				if cfg.Frame.CRS != "EPSG:25833" {
					t.Errorf("expected crs EPSG:25833, got %s", cfg.Frame.CRS)
				}
			},
		},
		{
			name: "unset flags leave defaults",
			args: nil,
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Map.Padding != 5.0 || cfg.Output.Dir != "output" {
					t.Errorf("defaults changed: %+v %+v", cfg.Map, cfg.Output)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := flag.NewFlagSet("test", flag.ContinueOnError)
			flags := BindFlags(fs)
			if err := fs.Parse(tt.args); err != nil {
				t.Fatalf("parse: %v", err)
			}

			cfg := Default()
			flags.apply(cfg)
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "navframe.yaml")

	yamlContent := `
map:
  resolution: 0.2
  padding: 1.5
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	flags := BindFlags(fs)
	if err := fs.Parse([]string{"-config", configPath, "-resolution", "0.5"}); err != nil {
		t.Fatalf("parse: %v", err)
	}

	cfg, err := Load(flags)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Resolution from flag, padding from file
	if cfg.Map.Resolution != 0.5 {
		t.Errorf("expected resolution 0.5 from flag, got %v", cfg.Map.Resolution)
	}
	if cfg.Map.Padding != 1.5 {
		t.Errorf("expected padding 1.5 from file, got %v", cfg.Map.Padding)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	flags := BindFlags(fs)
	chdir(t, t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	if err := fs.Parse([]string{"-resolution", "-1", "-format", "tiff"}); err != nil {
		t.Fatalf("parse: %v", err)
	}

	_, err := Load(flags)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	for _, want := range []string{"map.resolution", "map.image_format"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %q in %v", want, err)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negate", func(c *Config) { c.Map.Negate = 3 }},
		{"padding", func(c *Config) { c.Map.Padding = -0.5 }},
		{"precision", func(c *Config) { c.Frame.Precision = 20 }},
		{"model name", func(c *Config) { c.Output.ModelName = "" }},
		{"log level", func(c *Config) { c.Logging.Level = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "navframe.yaml")

	cfg := Default()
	cfg.Input.Mesh = "model_utm.obj"
	cfg.Map.Resolution = 0.1
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("failed to reload config: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", loaded, cfg)
	}
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}
