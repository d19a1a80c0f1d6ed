// Package tessellate turns polygon meshes into triangle meshes and exports
// them as triangle soups. Triangulation is purely topological: polygons are
// fanned with FaceCut and no geometry is consulted.
package tessellate

import (
	"errors"
	"fmt"

	"github.com/chazu/polymesh/pkg/kernel"
	"github.com/chazu/polymesh/pkg/logging"
	"github.com/chazu/polymesh/pkg/mesh"
)

// ErrNotTriangulated is returned by ToSoup for meshes with non-triangle faces.
var ErrNotTriangulated = errors.New("tessellate: mesh has non-triangle faces")

// Triangulate cuts every face with more than three sides into triangles and
// returns the number of cuts made. A face is fanned from the first corner
// whose diagonal is not already an edge of the mesh; faces without such a
// corner are left as they are.
func Triangulate(m *mesh.Mesh) int {
	cuts := 0
	// Faces created by the cuts are triangles, so a snapshot of the
	// original faces is enough.
	for _, f := range mesh.Collect(m.Faces()) {
		for m.FaceSize(f) > 3 {
			h0, ok := fanStart(m, f)
			if !ok {
				logging.Warn("face left untriangulated", "face", f, "size", m.FaceSize(f))
				break
			}
			m.FaceCut(f, h0, m.Next(m.Next(h0)))
			cuts++
		}
	}
	return cuts
}

// fanStart finds a halfedge h of f such that to(h) and the corner two steps
// further on are not yet connected.
func fanStart(m *mesh.Mesh, f mesh.FaceIndex) (mesh.HalfedgeIndex, bool) {
	for h := range m.Face(f).Halfedges() {
		far := m.ToVertex(m.Next(m.Next(h)))
		if !m.FindHalfedge(m.ToVertex(h), far).IsValid() {
			return h, true
		}
	}
	return mesh.InvalidHalfedge, false
}

// ToSoup exports the faces of a triangle mesh with the given vertex
// positions. Soup vertices are numbered in mesh order, skipping removed and
// isolated vertices.
func ToSoup(m *mesh.Mesh, positions *mesh.VertexAttribute[[3]float64]) (*kernel.Soup, error) {
	if positions.Mesh() != m {
		return nil, errors.New("tessellate: positions belong to another mesh")
	}
	remap := make(map[mesh.VertexIndex]uint32, m.VertexCount())
	soup := &kernel.Soup{
		Positions: make([]float64, 0, 3*m.VertexCount()),
		Indices:   make([]uint32, 0, 3*m.FaceCount()),
	}
	for v := range m.Vertices() {
		if m.IsIsolated(v) {
			continue
		}
		remap[v] = uint32(len(remap))
		p := positions.At(v)
		soup.Positions = append(soup.Positions, p[:]...)
	}
	for f := range m.Faces() {
		if n := m.FaceSize(f); n != 3 {
			return nil, fmt.Errorf("%w: face %v has %d sides", ErrNotTriangulated, f, n)
		}
		for v := range m.Face(f).Vertices() {
			soup.Indices = append(soup.Indices, remap[v])
		}
	}
	return soup, nil
}
