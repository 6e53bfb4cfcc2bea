package config

import "flag"

// Flags are the command-line overrides shared by every navframe subcommand.
// Only flags the user actually set are applied.
type Flags struct {
	fs *flag.FlagSet

	Config      string
	Debug       bool
	Mesh        string
	Bounds      string
	FreeSpace   string
	Frame       string
	OutDir      string
	ZOffset     float64
	CRS         string
	Resolution  float64
	Padding     float64
	ImageFormat string
	Preview     bool
}

// BindFlags registers the override flags on fs.
func BindFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{fs: fs}
	fs.StringVar(&f.Config, "config", "", "Path to config file")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.StringVar(&f.Mesh, "mesh", "", "Input OBJ mesh")
	fs.StringVar(&f.Bounds, "bounds", "", "Bounds polygons (GML, GeoJSON or Shapefile)")
	fs.StringVar(&f.FreeSpace, "free", "", "Free-space polygons (GML, GeoJSON or Shapefile)")
	fs.StringVar(&f.Frame, "frame", "", "Existing frame.yaml to align the map to")
	fs.StringVar(&f.OutDir, "out", "", "Output directory")
	fs.Float64Var(&f.ZOffset, "z-offset", 0, "Additional Z offset after datum shift")
	fs.StringVar(&f.CRS, "crs", "", "Source CRS recorded in the frame descriptor")
	fs.Float64Var(&f.Resolution, "resolution", 0, "Map resolution in meters per cell")
	fs.Float64Var(&f.Padding, "padding", 0, "Map padding in meters")
	fs.StringVar(&f.ImageFormat, "format", "", "Map image format: pgm, png or bmp")
	fs.BoolVar(&f.Preview, "preview", false, "Write a preview PNG")
	return f
}

// ConfigPath returns the explicit config path if provided via -config.
func (f *Flags) ConfigPath() string {
	if f == nil {
		return ""
	}
	return f.Config
}

// apply copies explicitly set flags over cfg.
func (f *Flags) apply(cfg *Config) {
	if f == nil || f.fs == nil {
		return
	}
	f.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "debug":
			if f.Debug {
				cfg.Logging.Level = "debug"
			}
		case "mesh":
			cfg.Input.Mesh = f.Mesh
		case "bounds":
			cfg.Input.Bounds = f.Bounds
		case "free":
			cfg.Input.FreeSpace = f.FreeSpace
		case "frame":
			cfg.Input.Frame = f.Frame
		case "out":
			cfg.Output.Dir = f.OutDir
		case "z-offset":
			cfg.Frame.ZOffset = f.ZOffset
		case "crs":
			cfg.Frame.CRS = f.CRS
		case "resolution":
			cfg.Map.Resolution = f.Resolution
		case "padding":
			cfg.Map.Padding = f.Padding
		case "format":
			cfg.Map.ImageFormat = f.ImageFormat
		case "preview":
			cfg.Output.Preview = f.Preview
		}
	})
}
