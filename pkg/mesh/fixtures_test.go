package mesh

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

func addVertices(m *Mesh, n int) []VertexIndex {
	first := m.AddVertices(n)
	vs := make([]VertexIndex, n)
	for i := range vs {
		vs[i] = first + VertexIndex(i)
	}
	return vs
}

func addFaces(t *testing.T, m *Mesh, vs []VertexIndex, faces [][]int) []FaceIndex {
	t.Helper()
	out := make([]FaceIndex, 0, len(faces))
	for _, face := range faces {
		loop := make([]VertexIndex, len(face))
		for i, k := range face {
			loop[i] = vs[k]
		}
		require.True(t, m.CanAddFace(loop...), "CanAddFace(%v)", loop)
		f := m.AddFace(loop...)
		require.True(t, f.IsValid(), "AddFace(%v)", loop)
		out = append(out, f)
	}
	return out
}

func requireConsistent(t *testing.T, m *Mesh) {
	t.Helper()
	require.Empty(t, m.Check())
}

func tetrahedron(t *testing.T) (*Mesh, []VertexIndex) {
	m := New()
	vs := addVertices(m, 4)
	addFaces(t, m, vs, [][]int{{0, 2, 1}, {0, 1, 3}, {1, 2, 3}, {0, 3, 2}})
	return m, vs
}

func cube(t *testing.T) (*Mesh, []VertexIndex) {
	m := New()
	vs := addVertices(m, 8)
	addFaces(t, m, vs, [][]int{
		{0, 3, 2, 1}, {4, 5, 6, 7},
		{0, 1, 5, 4}, {1, 2, 6, 5},
		{2, 3, 7, 6}, {3, 0, 4, 7},
	})
	return m, vs
}

// twoTriangles is the unit square split along the 0-2 diagonal.
func twoTriangles(t *testing.T) (*Mesh, []VertexIndex) {
	m := New()
	vs := addVertices(m, 4)
	addFaces(t, m, vs, [][]int{{0, 1, 2}, {0, 2, 3}})
	return m, vs
}

// grid builds nx*ny quads over (nx+1)*(ny+1) vertices.
func grid(t *testing.T, nx, ny int) (*Mesh, []VertexIndex) {
	m := New()
	vs := addVertices(m, (nx+1)*(ny+1))
	id := func(x, y int) int { return y*(nx+1) + x }
	var faces [][]int
	for y := range ny {
		for x := range nx {
			faces = append(faces, []int{id(x, y), id(x+1, y), id(x+1, y+1), id(x, y+1)})
		}
	}
	addFaces(t, m, vs, faces)
	return m, vs
}

// corners returns the vertices of f rotated so the smallest comes first.
func corners(m *Mesh, f FaceIndex) []VertexIndex {
	vs := Collect(m.Face(f).Vertices())
	i := slices.Index(vs, slices.Min(vs))
	return slices.Concat(vs[i:], vs[:i])
}

// faceSet lists the corners of every live face in a canonical order.
func faceSet(m *Mesh) [][]VertexIndex {
	var out [][]VertexIndex
	for f := range m.Faces() {
		out = append(out, corners(m, f))
	}
	slices.SortFunc(out, func(a, b []VertexIndex) int { return slices.Compare(a, b) })
	return out
}

func euler(m *Mesh) int {
	return m.VertexCount() - m.EdgeCount() + m.FaceCount()
}
