package main

import (
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/chazu/polymesh/pkg/format"
	"github.com/chazu/polymesh/pkg/mesh"
)

var infoCmd = &cobra.Command{
	Use:   "info <file...>",
	Short: "Print statistics about mesh files",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runInfo,
}

// meshInfo summarizes one mesh file.
type meshInfo struct {
	Path        string
	Compression format.Compression
	Attributes  []format.AttributeInfo

	Vertices, Edges, Faces, Halfedges int
	Removed                           [4]int // per mesh.Kind
	Boundary                          int
	Euler                             int
	Compact                           bool

	MinValence, MaxValence int
	MeanValence            float64

	Bounds *[2][3]float64
}

func runInfo(cmd *cobra.Command, args []string) error {
	app := NewApp(cfg)
	infos := make([]meshInfo, len(args))

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range args {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			info, err := describe(app, path)
			if err != nil {
				return err
			}
			infos[i] = info
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, info := range infos {
		info.print(out)
	}
	return nil
}

func describe(app *App, path string) (meshInfo, error) {
	f, pos, err := app.Load(path)
	if err != nil {
		return meshInfo{}, err
	}
	m := f.Mesh
	info := meshInfo{
		Path:        path,
		Compression: f.Compression,
		Attributes:  f.Attributes(),
		Vertices:    m.VertexCount(),
		Edges:       m.EdgeCount(),
		Faces:       m.FaceCount(),
		Halfedges:   m.HalfedgeCount(),
		Removed: [4]int{
			mesh.KindVertex:   m.RemovedVertexCount(),
			mesh.KindFace:     m.RemovedFaceCount(),
			mesh.KindEdge:     m.RemovedEdgeCount(),
			mesh.KindHalfedge: m.RemovedHalfedgeCount(),
		},
		Boundary: mesh.Count(m.BoundaryHalfedges()),
		Euler:    m.VertexCount() - m.EdgeCount() + m.FaceCount(),
		Compact:  m.IsCompact(),
	}

	valence := mesh.NewVertexAttribute(m, 0)
	defer valence.Release()
	valence.Compute(m.Valence)
	if lo, hi, ok := mesh.MinMax(valence); ok {
		info.MinValence, info.MaxValence = lo, hi
		info.MeanValence = float64(mesh.Sum(valence)) / float64(m.VertexCount())
	}

	if pos != nil {
		first := true
		var b [2][3]float64
		for v := range m.Vertices() {
			p := pos.At(v)
			if first {
				b = [2][3]float64{p, p}
				first = false
				continue
			}
			for i := range p {
				b[0][i] = min(b[0][i], p[i])
				b[1][i] = max(b[1][i], p[i])
			}
		}
		if !first {
			info.Bounds = &b
		}
	}
	return info, nil
}

func (info meshInfo) print(w io.Writer) {
	fmt.Fprintf(w, "%s\n", info.Path)
	fmt.Fprintf(w, "  compression: %s\n", info.Compression)
	fmt.Fprintf(w, "  vertices:    %d (%d removed)\n", info.Vertices, info.Removed[mesh.KindVertex])
	fmt.Fprintf(w, "  edges:       %d (%d removed)\n", info.Edges, info.Removed[mesh.KindEdge])
	fmt.Fprintf(w, "  faces:       %d (%d removed)\n", info.Faces, info.Removed[mesh.KindFace])
	fmt.Fprintf(w, "  halfedges:   %d (%d on the boundary)\n", info.Halfedges, info.Boundary)
	fmt.Fprintf(w, "  euler:       %d\n", info.Euler)
	fmt.Fprintf(w, "  compact:     %t\n", info.Compact)
	if info.Vertices > 0 {
		fmt.Fprintf(w, "  valence:     min %d, max %d, mean %.2f\n", info.MinValence, info.MaxValence, info.MeanValence)
	}
	if info.Bounds != nil {
		lo, hi := info.Bounds[0], info.Bounds[1]
		fmt.Fprintf(w, "  bounds:      [%g %g %g] - [%g %g %g]\n", lo[0], lo[1], lo[2], hi[0], hi[1], hi[2])
	}
	for _, a := range info.Attributes {
		fmt.Fprintf(w, "  attribute:   %s (%s, %s, %d bytes)\n", a.Name, a.Kind, a.Type, a.Size)
	}
}
