package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chazu/polymesh/pkg/logging"
	"github.com/chazu/polymesh/pkg/tessellate"
)

var (
	compactOutput      string
	compactTriangulate bool
)

var compactCmd = &cobra.Command{
	Use:   "compact <in> -o <out>",
	Short: "Drop removed slots from a mesh file",
	Long: `Reads a mesh, optionally fans every polygon into triangles, removes
the tombstoned slots and writes the result. Vertex positions follow their
vertices.`,
	Args: cobra.ExactArgs(1),
	RunE: runCompact,
}

func init() {
	compactCmd.Flags().StringVarP(&compactOutput, "output", "o", "", "output file (required)")
	compactCmd.Flags().BoolVar(&compactTriangulate, "triangulate", false, "triangulate polygons first")
	_ = compactCmd.MarkFlagRequired("output")
}

func runCompact(cmd *cobra.Command, args []string) error {
	app := NewApp(cfg)
	f, pos, err := app.Load(args[0])
	if err != nil {
		return err
	}
	m := f.Mesh
	if vs := m.Check(); len(vs) > 0 {
		return fmt.Errorf("%s: refusing to compact an inconsistent mesh: %s", args[0], vs[0].Error())
	}

	cuts := 0
	if compactTriangulate {
		cuts = tessellate.Triangulate(m)
	}
	before := m.AllVertexCount() + m.AllEdgeCount() + m.AllFaceCount()
	m.Compactify()
	after := m.AllVertexCount() + m.AllEdgeCount() + m.AllFaceCount()
	logging.Debug("mesh compacted", "path", args[0], "cuts", cuts, "dropped", before-after)

	if err := app.Save(compactOutput, m, pos); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d vertices, %d edges, %d faces -> %s\n",
		args[0], m.VertexCount(), m.EdgeCount(), m.FaceCount(), compactOutput)
	return nil
}
