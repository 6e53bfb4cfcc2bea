// Package pipeline runs the navframe steps against files on disk:
// mesh normalization, occupancy map building, preview and manifest.
package pipeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/navframe/internal/config"
	"github.com/Faultbox/navframe/internal/preview"
	"github.com/Faultbox/navframe/pkg/formats"
	"github.com/Faultbox/navframe/pkg/frame"
	"github.com/Faultbox/navframe/pkg/geo"
	"github.com/Faultbox/navframe/pkg/occupancy"
)

// Pipeline errors.
var (
	ErrMissingInput = errors.New("missing input")
)

// FrameFileName is the descriptor written next to the normalized mesh.
const FrameFileName = "frame.yaml"

// PreviewFileName is the debug picture written when output.preview is set.
const PreviewFileName = "preview.png"

// Pipeline executes steps using a loaded config. It is not safe to run two
// pipelines against the same output directory at once.
type Pipeline struct {
	cfg *config.Config
	log *zap.Logger
}

// New creates a pipeline. A nil logger discards output.
func New(cfg *config.Config, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{cfg: cfg, log: log}
}

// NormalizeOutput is the result of the mesh step.
type NormalizeOutput struct {
	Result    *frame.Result
	MeshPath  string
	FramePath string
}

// Normalize reads the input mesh, moves it into its local frame and writes
// the mesh and frame.yaml to the output directory.
func (p *Pipeline) Normalize() (*NormalizeOutput, error) {
	if p.cfg.Input.Mesh == "" {
		return nil, fmt.Errorf("%w: input.mesh", ErrMissingInput)
	}

	mesh, err := formats.ParseOBJFile(p.cfg.Input.Mesh)
	if err != nil {
		return nil, err
	}
	p.log.Debug("mesh loaded",
		zap.String("path", p.cfg.Input.Mesh),
		zap.Int("records", len(mesh.Records)),
		zap.Int("vertices", mesh.VertexCount()))

	res, err := frame.Normalize(mesh, frame.Options{
		AdditionalZOffset: p.cfg.Frame.ZOffset,
		Precision:         p.cfg.Frame.Precision,
		Header:            p.cfg.Frame.Header,
		CRS:               geo.NormalizeCRS(p.cfg.Frame.CRS),
	})
	if err != nil {
		return nil, fmt.Errorf("normalizing %s: %w", p.cfg.Input.Mesh, err)
	}
	for _, w := range res.Warnings {
		p.log.Warn("vertex record kept verbatim",
			zap.Int("line", w.Line),
			zap.String("text", w.Text),
			zap.Error(w.Err))
	}

	out := &NormalizeOutput{
		Result:    res,
		MeshPath:  filepath.Join(p.cfg.Output.Dir, p.cfg.Output.ModelName),
		FramePath: filepath.Join(p.cfg.Output.Dir, FrameFileName),
	}
	if err := res.Mesh.WriteFile(out.MeshPath); err != nil {
		return nil, err
	}
	if err := res.Descriptor.Save(out.FramePath); err != nil {
		return nil, err
	}

	p.log.Info("mesh normalized",
		zap.String("output", out.MeshPath),
		zap.Float64("origin_x", res.Descriptor.OriginX),
		zap.Float64("origin_y", res.Descriptor.OriginY),
		zap.Float64("z_datum", res.Descriptor.ZDatum),
		zap.Stringer("bounds", res.Bounds))
	return out, nil
}

// MapOutput is the result of the map step.
type MapOutput struct {
	Map         *occupancy.Map
	Descriptor  *frame.Descriptor
	ImagePath   string
	YAMLPath    string
	PreviewPath string
}

// BuildMap rasterizes the configured polygons. desc aligns the map to a mesh
// frame; when nil, input.frame is loaded if set, otherwise the map origin is
// in world coordinates.
func (p *Pipeline) BuildMap(desc *frame.Descriptor) (*MapOutput, error) {
	if p.cfg.Input.Bounds == "" {
		return nil, fmt.Errorf("%w: input.bounds", ErrMissingInput)
	}
	if desc == nil && p.cfg.Input.Frame != "" {
		loaded, err := frame.LoadDescriptor(p.cfg.Input.Frame)
		if err != nil {
			return nil, err
		}
		desc = loaded
	}

	bounds, err := formats.LoadPolygons(p.cfg.Input.Bounds)
	if err != nil {
		return nil, fmt.Errorf("loading bounds: %w", err)
	}
	p.logPolygons("bounds", p.cfg.Input.Bounds, bounds)

	var free geo.PolygonSet
	if p.cfg.Input.FreeSpace != "" {
		free, err = formats.LoadPolygons(p.cfg.Input.FreeSpace)
		if err != nil {
			return nil, fmt.Errorf("loading free space: %w", err)
		}
		p.logPolygons("free space", p.cfg.Input.FreeSpace, free)
	}
	p.checkCRS(desc, bounds, free)

	imgFormat, err := formats.ParseImageFormat(p.cfg.Map.ImageFormat)
	if err != nil {
		return nil, err
	}
	imageName := p.cfg.Output.MapBasename + imgFormat.Extension()

	m, err := occupancy.Build(bounds, free, occupancy.Params{
		Resolution: p.cfg.Map.Resolution,
		Padding:    p.cfg.Map.Padding,
		Frame:      desc,
		Thresholds: occupancy.Thresholds{
			Negate:   p.cfg.Map.Negate,
			Occupied: p.cfg.Map.OccupiedThresh,
			Free:     p.cfg.Map.FreeThresh,
		},
		ImageName: imageName,
		Mode:      p.cfg.Map.Mode,
	})
	if err != nil {
		return nil, fmt.Errorf("building map: %w", err)
	}
	for _, w := range m.Warnings {
		p.log.Warn("free space not drawn", zap.Int("polygon", w.Index), zap.String("reason", w.Reason))
	}

	out := &MapOutput{
		Map:        m,
		Descriptor: desc,
		ImagePath:  filepath.Join(p.cfg.Output.Dir, imageName),
		YAMLPath:   filepath.Join(p.cfg.Output.Dir, p.cfg.Output.MapBasename+".yaml"),
	}
	if err := writeImage(out.ImagePath, m, imgFormat); err != nil {
		return nil, err
	}
	if err := formats.WriteMapYAMLFile(out.YAMLPath, m.Metadata); err != nil {
		return nil, err
	}

	if p.cfg.Output.Preview {
		out.PreviewPath = filepath.Join(p.cfg.Output.Dir, PreviewFileName)
		opts := preview.DefaultOptions()
		opts.Title = p.cfg.Output.MapBasename
		if desc != nil {
			opts.Origin = desc.Origin()
		}
		layers := []preview.Layer{
			{Name: "bounds", Polygons: bounds},
			{Name: "free space", Polygons: free, Free: true},
		}
		if err := preview.Render(m, layers, out.PreviewPath, opts); err != nil {
			return nil, err
		}
	}

	counts := m.Grid.Count()
	p.log.Info("map written",
		zap.String("image", out.ImagePath),
		zap.Int("width", m.Grid.Width),
		zap.Int("height", m.Grid.Height),
		zap.Int("free_cells", counts[occupancy.CellFree]),
		zap.Int("polygons_drawn", m.Drawn),
		zap.Float64s("origin", m.Metadata.Origin[:]))
	return out, nil
}

// Run normalizes the mesh, builds the map in the same frame and writes the
// manifest.
func (p *Pipeline) Run() (*Manifest, error) {
	norm, err := p.Normalize()
	if err != nil {
		return nil, err
	}
	desc := norm.Result.Descriptor

	mapOut, err := p.BuildMap(&desc)
	if err != nil {
		return nil, err
	}

	man := newManifest(p.cfg, norm, mapOut)
	path := filepath.Join(p.cfg.Output.Dir, ManifestFileName)
	if err := man.Save(path); err != nil {
		return nil, err
	}
	p.log.Info("run complete", zap.String("run_id", man.RunID), zap.String("manifest", path))
	return man, nil
}

func (p *Pipeline) logPolygons(kind, path string, set geo.PolygonSet) {
	p.log.Debug("polygons loaded",
		zap.String("kind", kind),
		zap.String("path", path),
		zap.Stringer("format", formats.DetectPolygonFormat(path)),
		zap.Int("polygons", set.Len()),
		zap.Int("vertices", set.VertexCount()),
		zap.String("crs", set.CRS()))
	if set.Skipped > 0 {
		p.log.Warn("geometries skipped while loading",
			zap.String("kind", kind),
			zap.String("path", path),
			zap.Int("skipped", set.Skipped))
	}
}

// checkCRS warns when inputs are tagged with different reference systems.
// The map is still built: tags are often missing or spelled inconsistently.
func (p *Pipeline) checkCRS(desc *frame.Descriptor, sets ...geo.PolygonSet) {
	want := ""
	if desc != nil {
		want = desc.CRS
	}
	for _, s := range sets {
		got := s.CRS()
		switch {
		case got == "":
		case want == "":
			want = got
		case !strings.EqualFold(got, want):
			p.log.Warn("inputs use different CRS tags", zap.String("expected", want), zap.String("found", got))
		}
	}
}

func writeImage(path string, m *occupancy.Map, f formats.ImageFormat) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating map image: %w", err)
	}
	if err := formats.EncodeImage(file, m.Grid.Image(), f); err != nil {
		file.Close()
		return fmt.Errorf("encoding map image: %w", err)
	}
	return file.Close()
}
