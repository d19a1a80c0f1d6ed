package main

import (
	"fmt"

	"github.com/chazu/polymesh/pkg/config"
	"github.com/chazu/polymesh/pkg/engine"
	"github.com/chazu/polymesh/pkg/format"
	"github.com/chazu/polymesh/pkg/kernel"
	"github.com/chazu/polymesh/pkg/kernel/sdfx"
	"github.com/chazu/polymesh/pkg/logging"
	"github.com/chazu/polymesh/pkg/mesh"
)

// PositionAttribute names the vertex position attribute in mesh files.
const PositionAttribute = "position"

// App ties the scripting engine and the SDF kernel to one configuration.
// Every subcommand goes through it.
type App struct {
	cfg    *config.Config
	engine *engine.Engine
	kernel *sdfx.SdfxKernel
}

// EvalErrorData is a located script error or warning.
type EvalErrorData struct {
	Line    int
	Col     int
	Message string
}

func (e EvalErrorData) String() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// EvalResult is the outcome of running a mesh script. Mesh is nil when
// Errors is not empty.
type EvalResult struct {
	Mesh      *mesh.Mesh
	Positions *mesh.VertexAttribute[[3]float64]
	Value     string
	Errors    []EvalErrorData
	Warnings  []EvalErrorData
}

// NewApp creates an App from cfg.
func NewApp(cfg *config.Config) *App {
	return &App{
		cfg:    cfg,
		engine: engine.NewEngine(engine.WithTimeout(cfg.EngineTimeout())),
		kernel: sdfx.New(
			sdfx.WithCells(cfg.Tessellate.Cells),
			sdfx.WithWeldEpsilon(cfg.Tessellate.WeldEpsilon),
		),
	}
}

// Evaluate runs a mesh script and collects its errors and warnings.
func (a *App) Evaluate(source string) EvalResult {
	var result EvalResult

	res, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{Line: e.Line, Col: e.Col, Message: e.Message})
		}
		return result
	}

	for _, w := range res.Warnings {
		result.Warnings = append(result.Warnings, EvalErrorData{Line: w.Line, Col: w.Col, Message: w.Message})
	}
	result.Mesh = res.Mesh
	result.Positions = res.Positions
	result.Value = res.Value
	return result
}

// Shape builds a primitive solid from its dimensions: box x y z,
// sphere r, or cylinder height r.
func (a *App) Shape(name string, dims []float64) (kernel.Solid, error) {
	want := map[string]int{"box": 3, "sphere": 1, "cylinder": 2}
	n, ok := want[name]
	if !ok {
		return nil, fmt.Errorf("unknown shape %q (valid: box, sphere, cylinder)", name)
	}
	if len(dims) != n {
		return nil, fmt.Errorf("%s takes %d dimensions, got %d", name, n, len(dims))
	}
	for _, d := range dims {
		if d <= 0 {
			return nil, fmt.Errorf("%s dimensions must be positive, got %g", name, d)
		}
	}
	switch name {
	case "box":
		return a.kernel.Box(dims[0], dims[1], dims[2]), nil
	case "sphere":
		return a.kernel.Sphere(dims[0], 0), nil
	default:
		return a.kernel.Cylinder(dims[0], dims[1], 0), nil
	}
}

// Mesh tessellates s into a welded half-edge mesh.
func (a *App) Mesh(s kernel.Solid) (*kernel.Built, error) {
	b, err := a.kernel.Mesh(s)
	if err != nil {
		return nil, err
	}
	if b.Skipped > 0 {
		logging.Warn("non-manifold triangles skipped", "count", b.Skipped)
	}
	return b, nil
}

// Save writes m with its positions using the configured compression.
func (a *App) Save(path string, m *mesh.Mesh, pos *mesh.VertexAttribute[[3]float64]) error {
	opts := []format.Option{format.WithCompression(a.cfg.Compression())}
	if pos != nil {
		opts = append(opts, format.WithAttribute(PositionAttribute, pos))
	}
	return format.WriteFile(path, m, opts...)
}

// Load reads a mesh file. Positions is nil when the file has none.
func (a *App) Load(path string) (*format.File, *mesh.VertexAttribute[[3]float64], error) {
	f, err := format.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	for _, info := range f.Attributes() {
		if info.Name != PositionAttribute {
			continue
		}
		pos, err := format.LoadAttribute[mesh.VertexIndex](f, PositionAttribute, [3]float64{})
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", path, err)
		}
		return f, pos, nil
	}
	return f, nil, nil
}
