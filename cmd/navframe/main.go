// navframe aligns a georeferenced OBJ mesh and a Nav2 occupancy map to one
// local frame.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/navframe/internal/config"
	"github.com/Faultbox/navframe/internal/logger"
	"github.com/Faultbox/navframe/internal/pipeline"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		printUsage(stderr)
		return 1
	}

	command := args[0]
	args = args[1:]

	var cmd func(*pipeline.Pipeline, io.Writer) error
	switch command {
	case "normalize", "norm":
		cmd = cmdNormalize
	case "map":
		cmd = cmdMap
	case "run":
		cmd = cmdRun
	case "inspect", "info":
		cmd = cmdInspect
	case "help", "-h", "--help":
		printUsage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", command)
		printUsage(stderr)
		return 1
	}

	fs := flag.NewFlagSet("navframe "+command, flag.ContinueOnError)
	fs.SetOutput(stderr)
	flags := config.BindFlags(fs)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer logger.Sync()

	p := pipeline.New(cfg, logger.Named(command))
	if err := cmd(p, stdout); err != nil {
		logger.Log.Error("command failed", zap.String("command", command), zap.Error(err))
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `navframe - align a mesh and an occupancy map to one local frame

Usage:
  navframe <command> [options]

Commands:
  normalize   Move the mesh into its local frame; writes model.obj and frame.yaml
  map         Rasterize free-space polygons; writes map image and map.yaml
  run         normalize, then map in the same frame; writes manifest.yaml
  inspect     Print what the configured inputs contain
  help        Show this help

Options (all commands):
  -config <file>      Config file (default ./navframe.yaml)
  -mesh <file.obj>    Input mesh in a projected CRS
  -bounds <file>      Bounds polygons (.gml, .geojson, .shp)
  -free <file>        Free-space polygons (.gml, .geojson, .shp)
  -frame <frame.yaml> Align the map to an existing frame
  -out <dir>          Output directory
  -z-offset <m>       Additional Z offset
  -resolution <m>     Map resolution
  -padding <m>        Map padding
  -format <fmt>       Map image format: pgm, png, bmp
  -preview            Write preview.png
  -debug              Debug logging

Examples:
  navframe run -mesh model_utm.obj -bounds parcel.gml -free walkable.gml -out build
  navframe normalize -mesh model_utm.obj -z-offset 0.2
  navframe map -bounds parcel.gml -free walkable.gml -frame build/frame.yaml
  navframe inspect -mesh model_utm.obj -bounds parcel.gml`)
}

func cmdNormalize(p *pipeline.Pipeline, w io.Writer) error {
	out, err := p.Normalize()
	if err != nil {
		return err
	}
	d := out.Result.Descriptor
	fmt.Fprintf(w, "Mesh:   %s\n", out.MeshPath)
	fmt.Fprintf(w, "Frame:  %s\n", out.FramePath)
	fmt.Fprintf(w, "Origin: %.6f %.6f, z datum %.6f\n", d.OriginX, d.OriginY, d.ZDatum)
	if n := len(out.Result.Warnings); n > 0 {
		fmt.Fprintf(w, "Warnings: %d malformed vertex records kept verbatim\n", n)
	}
	return nil
}

func cmdMap(p *pipeline.Pipeline, w io.Writer) error {
	out, err := p.BuildMap(nil)
	if err != nil {
		return err
	}
	printMap(w, out)
	return nil
}

func cmdRun(p *pipeline.Pipeline, w io.Writer) error {
	man, err := p.Run()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Run:     %s\n", man.RunID)
	fmt.Fprintf(w, "Origin:  %.6f %.6f, z datum %.6f\n", man.Frame.OriginX, man.Frame.OriginY, man.Frame.ZDatum)
	fmt.Fprintf(w, "Map:     %dx%d at %g m, origin %v\n", man.Map.Width, man.Map.Height, man.Map.Resolution, man.Map.Origin)
	for _, o := range man.Outputs {
		fmt.Fprintf(w, "  %s\n", o)
	}
	return nil
}

func cmdInspect(p *pipeline.Pipeline, w io.Writer) error {
	rep, err := p.Inspect()
	if err != nil {
		return err
	}
	_, err = rep.WriteTo(w)
	return err
}

func printMap(w io.Writer, out *pipeline.MapOutput) {
	m := out.Map
	fmt.Fprintf(w, "Image:   %s (%dx%d)\n", out.ImagePath, m.Grid.Width, m.Grid.Height)
	fmt.Fprintf(w, "Sidecar: %s\n", out.YAMLPath)
	fmt.Fprintf(w, "Origin:  %v\n", m.Metadata.Origin)
	fmt.Fprintf(w, "Drawn:   %d polygons\n", m.Drawn)
	if out.PreviewPath != "" {
		fmt.Fprintf(w, "Preview: %s\n", out.PreviewPath)
	}
	for _, warn := range m.Warnings {
		fmt.Fprintf(w, "Warning: %v\n", warn)
	}
}
