package mesh

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoveFace(t *testing.T) {
	m, vs := tetrahedron(t)
	f := FaceIndex(0)
	m.RemoveFace(f)

	assert.True(t, m.IsFaceRemoved(f))
	assert.Equal(t, 3, m.FaceCount())
	assert.Equal(t, 6, m.EdgeCount())
	assert.Equal(t, 3, Count(m.BoundaryHalfedges()))
	for _, v := range vs[:3] {
		assert.True(t, m.IsBoundaryVertex(v))
	}
	assert.False(t, m.IsBoundaryVertex(vs[3]))
	for g := range m.Faces() {
		assert.True(t, m.IsBoundaryFace(g))
	}
	requireConsistent(t, m)
}

func TestRemoveEdge(t *testing.T) {
	m, vs := twoTriangles(t)
	e := m.FindHalfedge(vs[0], vs[2]).Edge()
	m.RemoveEdge(e)

	assert.Zero(t, m.FaceCount())
	assert.Equal(t, 4, m.EdgeCount())
	assert.Equal(t, 1, m.RemovedEdgeCount())
	for _, v := range vs {
		assert.Equal(t, 2, m.Valence(v))
	}
	requireConsistent(t, m)
}

func TestRemoveEdgeIsolatesEndpoints(t *testing.T) {
	m := New()
	vs := addVertices(m, 2)
	h := m.AddOrGetEdge(vs[0], vs[1])
	assert.Equal(t, h, m.AddOrGetEdge(vs[0], vs[1]))
	assert.Equal(t, h^1, m.AddOrGetEdge(vs[1], vs[0]))
	requireConsistent(t, m)

	m.RemoveEdge(h.Edge())
	assert.True(t, m.IsIsolated(vs[0]))
	assert.True(t, m.IsIsolated(vs[1]))
	requireConsistent(t, m)
}

func TestRemoveVertex(t *testing.T) {
	m, _ := grid(t, 2, 2)
	center := VertexIndex(4)
	m.RemoveVertex(center)

	assert.True(t, m.IsVertexRemoved(center))
	assert.Equal(t, 8, m.VertexCount())
	assert.Zero(t, m.FaceCount())
	assert.Equal(t, 8, m.EdgeCount())
	requireConsistent(t, m)
}

func TestHalfedgeSplitAndMerge(t *testing.T) {
	m := New()
	vs := addVertices(m, 3)
	f := m.AddFace(vs...)
	before := faceSet(m)

	h := m.FindHalfedge(vs[0], vs[1])
	v := m.AddVertex()
	h2 := m.HalfedgeSplit(h, v)

	assert.Equal(t, v, m.ToVertex(h))
	assert.Equal(t, v, m.FromVertex(h2))
	assert.Equal(t, vs[1], m.ToVertex(h2))
	assert.Equal(t, f, m.HalfedgeFace(h2))
	assert.Equal(t, 4, m.FaceSize(f))
	assert.Equal(t, 2, m.Valence(v))
	assert.True(t, m.IsBoundaryVertex(v))
	requireConsistent(t, m)

	require.True(t, m.CanMerge(h2))
	m.HalfedgeMerge(h2)
	assert.Equal(t, 3, m.FaceSize(f))
	assert.Equal(t, vs[1], m.ToVertex(h))
	assert.Equal(t, before, faceSet(m))
	requireConsistent(t, m)

	m.Compactify()
	assert.Equal(t, 3, m.AllVertexCount())
	assert.Equal(t, 3, m.AllEdgeCount())
	requireConsistent(t, m)
}

func TestSplitDanglingEdge(t *testing.T) {
	m := New()
	vs := addVertices(m, 2)
	h := m.AddOrGetEdge(vs[0], vs[1])
	v := m.HalfedgeSplitNew(h)
	assert.Equal(t, 2, m.EdgeCount())
	assert.Equal(t, 2, m.Valence(v))
	assert.Equal(t, 1, m.Valence(vs[1]))
	requireConsistent(t, m)
}

func TestCanMergeRejectsTriangles(t *testing.T) {
	m, vs := tetrahedron(t)
	assert.False(t, m.CanMerge(m.FindHalfedge(vs[0], vs[1])))
	assert.False(t, m.CanMerge(InvalidHalfedge))
}

func TestEdgeSplitAndTriangulate(t *testing.T) {
	tests := []struct {
		name      string
		from, to  int
		wantFaces int
		wantEdges int
	}{
		{name: "interior edge", from: 0, to: 2, wantFaces: 4, wantEdges: 8},
		{name: "boundary edge", from: 0, to: 1, wantFaces: 3, wantEdges: 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, vs := twoTriangles(t)
			e := m.FindHalfedge(vs[tt.from], vs[tt.to]).Edge()
			v := m.AddVertex()
			m.EdgeSplitAndTriangulate(e, v)

			assert.Equal(t, 5, m.VertexCount())
			assert.Equal(t, tt.wantFaces, m.FaceCount())
			assert.Equal(t, tt.wantEdges, m.EdgeCount())
			for f := range m.Faces() {
				assert.Equal(t, 3, m.FaceSize(f))
			}
			requireConsistent(t, m)
		})
	}
}

func TestFaceCut(t *testing.T) {
	m, vs := grid(t, 1, 1)
	f := FaceIndex(0)
	h0 := m.FindHalfedge(vs[0], vs[1])
	h1 := m.Next(m.Next(h0))
	hn := m.FaceCut(f, h0, h1)

	assert.Equal(t, vs[1], m.FromVertex(hn))
	assert.Equal(t, vs[2], m.ToVertex(hn))
	assert.Equal(t, 2, m.FaceCount())
	assert.Equal(t, f, m.HalfedgeFace(hn))
	for g := range m.Faces() {
		assert.Equal(t, 3, m.FaceSize(g))
		assert.True(t, m.IsBoundaryFace(g))
	}
	requireConsistent(t, m)
}

func TestFaceCutRejectsExistingEdge(t *testing.T) {
	m := New()
	vs := addVertices(m, 4)
	fs := addFaces(t, m, vs, [][]int{{0, 1, 2, 3}, {0, 3, 2}})
	h0 := m.FindHalfedge(vs[3], vs[0])
	h1 := m.FindHalfedge(vs[1], vs[2])

	requireAssertion(t, "FaceCut", func() { m.FaceCut(fs[0], h0, h1) })
	assert.Equal(t, 5, m.EdgeCount())
	assert.Equal(t, 2, m.FaceCount())
	requireConsistent(t, m)
}

func TestFaceSplit(t *testing.T) {
	m, _ := cube(t)
	f := FaceIndex(0)
	v := m.FaceSplitNew(f)

	assert.Equal(t, 9, m.VertexCount())
	assert.Equal(t, 9, m.FaceCount())
	assert.Equal(t, 16, m.EdgeCount())
	assert.Equal(t, 4, m.Valence(v))
	assert.Equal(t, 3, m.FaceSize(f))
	assert.Equal(t, 2, euler(m))
	requireConsistent(t, m)
}

func TestFaceFill(t *testing.T) {
	m, _ := cube(t)
	rep := m.FaceHalfedge(0)
	m.RemoveFace(0)
	requireConsistent(t, m)

	f := m.FaceFill(rep)
	assert.Equal(t, 6, m.FaceCount())
	assert.Equal(t, 4, m.FaceSize(f))
	assert.Zero(t, Count(m.BoundaryHalfedges()))
	requireConsistent(t, m)
}

func TestFaceFillRejectsWireEdge(t *testing.T) {
	m := New()
	vs := addVertices(m, 2)
	h := m.AddOrGetEdge(vs[0], vs[1])

	requireAssertion(t, "FaceFill", func() { m.FaceFill(h) })
	assert.Zero(t, m.FaceCount())
	requireConsistent(t, m)
}

func TestHalfedgeCollapseBoundaryEdge(t *testing.T) {
	cases := []struct {
		name     string
		from, to int
	}{
		{"0 to 1", 0, 1},
		{"1 to 0", 1, 0},
		{"1 to 2", 1, 2},
		{"2 to 1", 2, 1},
		{"2 to 3", 2, 3},
		{"3 to 2", 3, 2},
		{"3 to 0", 3, 0},
		{"0 to 3", 0, 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m, vs := twoTriangles(t)
			h := m.FindHalfedge(vs[tc.from], vs[tc.to])
			require.True(t, m.IsBoundaryEdge(h.Edge()))
			require.True(t, m.CanCollapse(h))

			m.HalfedgeCollapse(h)
			assert.Equal(t, 3, m.VertexCount())
			assert.True(t, m.IsVertexRemoved(vs[tc.from]))
			assert.Equal(t, 1, m.FaceCount())
			assert.Equal(t, 3, m.EdgeCount())
			requireConsistent(t, m)
		})
	}
}

func TestHalfedgeCollapseExposesNeighborFace(t *testing.T) {
	// closed fan around 0 with one extra triangle behind 2-3
	m := New()
	vs := addVertices(m, 6)
	addFaces(t, m, vs, [][]int{{0, 1, 2}, {0, 2, 3}, {0, 3, 4}, {0, 4, 1}, {3, 2, 5}})
	h := m.FindHalfedge(vs[0], vs[1])
	require.True(t, m.CanCollapse(h))

	m.HalfedgeCollapse(h)
	assert.True(t, m.IsVertexRemoved(vs[0]))
	assert.Equal(t, 3, m.FaceCount())
	// the face that was 0-2-3 now sits on the boundary edge 2-1
	f := m.HalfedgeFace(m.FindHalfedge(vs[1], vs[2]))
	require.True(t, f.IsValid())
	assert.True(t, m.IsBoundaryHalfedge(m.FaceHalfedge(f).Opposite()))
	requireConsistent(t, m)
}

func TestCanCollapseRejectsSharedPolygon(t *testing.T) {
	// the hexagon holds 0 and 3 apart while the quad joins them
	m := New()
	vs := addVertices(m, 6)
	addFaces(t, m, vs, [][]int{{0, 1, 2, 3, 4, 5}, {0, 5, 4, 3}})
	h := m.FindHalfedge(vs[3], vs[0])
	require.True(t, h.IsValid())
	assert.False(t, m.CanCollapse(h))
	assert.False(t, m.CanCollapse(h.Opposite()))
}

func TestHalfedgeCollapseInterior(t *testing.T) {
	m, _ := grid(t, 2, 2)
	m.FaceSplitNew(0)
	m.FaceSplitNew(1)
	m.FaceSplitNew(2)
	m.FaceSplitNew(3)
	requireConsistent(t, m)

	center := VertexIndex(4)
	var h HalfedgeIndex = InvalidHalfedge
	for x := range m.Vertex(center).Outgoing() {
		if m.CanCollapse(x) {
			h = x
			break
		}
	}
	require.True(t, h.IsValid())
	v0 := m.FromVertex(h)
	faces := m.FaceCount()

	m.HalfedgeCollapse(h)
	assert.True(t, m.IsVertexRemoved(v0))
	assert.Equal(t, faces-2, m.FaceCount())
	requireConsistent(t, m)
}

func TestHalfedgeCollapseDangling(t *testing.T) {
	m := New()
	vs := addVertices(m, 3)
	h := m.AddOrGetEdge(vs[0], vs[1])
	m.AddOrGetEdge(vs[1], vs[2])

	require.True(t, m.CanCollapse(h))
	m.HalfedgeCollapse(h)
	assert.Equal(t, 2, m.VertexCount())
	assert.Equal(t, 1, m.EdgeCount())
	requireConsistent(t, m)

	last := m.FindHalfedge(vs[1], vs[2])
	m.HalfedgeCollapse(last)
	assert.True(t, m.IsIsolated(vs[2]))
	requireConsistent(t, m)
}

func TestCanCollapseRejectsTetrahedron(t *testing.T) {
	m, vs := tetrahedron(t)
	assert.False(t, m.CanCollapse(m.FindHalfedge(vs[0], vs[1])))
}

func TestVertexCollapse(t *testing.T) {
	m, _ := grid(t, 2, 2)
	m.FaceSplitNew(0)
	requireConsistent(t, m)

	center := VertexIndex(4)
	f := m.VertexCollapse(center)
	require.True(t, f.IsValid())
	assert.Equal(t, 8, m.FaceSize(f))
	assert.Equal(t, 3, m.FaceCount())
	requireConsistent(t, m)

	iso := m.AddVertex()
	assert.False(t, m.VertexCollapse(iso).IsValid())
	assert.True(t, m.IsVertexRemoved(iso))
}

func TestEdgeFlip(t *testing.T) {
	m, vs := twoTriangles(t)
	e := m.FindHalfedge(vs[0], vs[2]).Edge()
	require.True(t, m.CanFlip(e))
	before := faceSet(m)

	m.EdgeFlip(e)
	assert.False(t, m.FindHalfedge(vs[0], vs[2]).IsValid())
	assert.True(t, m.FindHalfedge(vs[1], vs[3]).IsValid())
	for f := range m.Faces() {
		assert.Equal(t, 3, m.FaceSize(f))
	}
	requireConsistent(t, m)

	require.True(t, m.CanRotatePrev(e))
	m.EdgeRotatePrev(e)
	assert.Equal(t, before, faceSet(m))
	requireConsistent(t, m)
}

func TestCanFlipRejectsBoundary(t *testing.T) {
	m, vs := twoTriangles(t)
	assert.False(t, m.CanFlip(m.FindHalfedge(vs[0], vs[1]).Edge()))
}

func TestEdgeRotateQuads(t *testing.T) {
	m, vs := grid(t, 2, 1)
	e := m.FindHalfedge(vs[1], vs[4]).Edge()
	require.True(t, m.CanRotateNext(e))
	before := faceSet(m)

	m.EdgeRotateNext(e)
	for f := range m.Faces() {
		assert.Equal(t, 4, m.FaceSize(f))
	}
	requireConsistent(t, m)

	m.EdgeRotatePrev(e)
	assert.Equal(t, before, faceSet(m))
	requireConsistent(t, m)
}

func TestHalfedgeRotate(t *testing.T) {
	m, vs := grid(t, 2, 1)
	h := m.FindHalfedge(vs[1], vs[4])
	require.True(t, m.CanHalfedgeRotateNext(h))
	before := faceSet(m)
	fa, fb := m.HalfedgeFace(h), m.HalfedgeFace(h^1)

	m.HalfedgeRotateNext(h)
	assert.Equal(t, vs[3], m.ToVertex(h))
	assert.Equal(t, 3, m.FaceSize(fa))
	assert.Equal(t, 5, m.FaceSize(fb))
	requireConsistent(t, m)

	require.True(t, m.CanHalfedgeRotatePrev(h))
	m.HalfedgeRotatePrev(h)
	assert.Equal(t, vs[4], m.ToVertex(h))
	assert.Equal(t, before, faceSet(m))
	requireConsistent(t, m)
}

// Random face insertions and removals on a small vertex pool. Every accepted
// insertion must succeed and leave the mesh consistent.
func TestCanAddFaceImpliesAddFace(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	m := New()
	vs := addVertices(m, 7)
	added := 0
	for i := 0; i < 2000; i++ {
		if m.FaceCount() > 0 && rng.Intn(5) == 0 {
			faces := Collect(m.Faces())
			m.RemoveFace(faces[rng.Intn(len(faces))])
			requireConsistent(t, m)
			continue
		}
		perm := rng.Perm(len(vs))
		n := 3 + rng.Intn(2)
		loop := make([]VertexIndex, n)
		for j := range loop {
			loop[j] = vs[perm[j]]
		}
		if !m.CanAddFace(loop...) {
			continue
		}
		f := m.AddFace(loop...)
		require.True(t, f.IsValid())
		added++
		requireConsistent(t, m)
	}
	require.Positive(t, added)

	m.Compactify()
	assert.True(t, m.IsCompact())
	requireConsistent(t, m)
}
