package mesh

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranspositions(t *testing.T) {
	tests := []struct {
		name string
		perm []int32
	}{
		{"identity", []int32{0, 1, 2, 3}},
		{"single swap", []int32{1, 0, 2}},
		{"three cycle", []int32{1, 2, 0}},
		{"two cycles", []int32{2, 3, 0, 4, 1}},
		{"compaction shape", []int32{0, 2, 4, 5, 1, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := make([]int32, len(tt.perm))
			for i := range a {
				a[i] = int32(i)
			}
			swaps := transpositions(tt.perm)
			applySwaps(a, swaps)
			if diff := cmp.Diff(tt.perm, a); diff != "" {
				t.Errorf("permuted array mismatch (-want +got):\n%s", diff)
			}
			cycles := 0
			seen := make([]bool, len(tt.perm))
			for i := range tt.perm {
				if seen[i] {
					continue
				}
				cycles++
				for j := int32(i); !seen[j]; j = tt.perm[j] {
					seen[j] = true
				}
			}
			assert.Len(t, swaps, len(tt.perm)-cycles)
		})
	}
}

func TestCompactify(t *testing.T) {
	m, vs := grid(t, 3, 3)
	vid := NewVertexAttribute(m, int32(-1))
	vid.Compute(func(v VertexIndex) int32 { return int32(v) })
	hid := NewHalfedgeAttribute(m, [2]int32{-1, -1})
	hid.Compute(func(h HalfedgeIndex) [2]int32 {
		return [2]int32{int32(m.FromVertex(h)), int32(m.ToVertex(h))}
	})

	m.RemoveVertex(vs[5])
	m.RemoveFace(8)
	m.RemoveVertex(vs[0])
	require.False(t, m.IsCompact())

	// describe faces by original vertex ids so the comparison survives renumbering
	describe := func() [][]VertexIndex {
		out := faceSet(m)
		for _, f := range out {
			for i, v := range f {
				f[i] = VertexIndex(vid.At(v))
			}
		}
		return out
	}
	before := describe()
	counts := [4]int{m.VertexCount(), m.FaceCount(), m.EdgeCount(), m.HalfedgeCount()}

	m.Compactify()

	assert.True(t, m.IsCompact())
	assert.Equal(t, counts, [4]int{m.AllVertexCount(), m.AllFaceCount(), m.AllEdgeCount(), m.AllHalfedgeCount()})
	assert.Equal(t, counts, [4]int{m.VertexCount(), m.FaceCount(), m.EdgeCount(), m.HalfedgeCount()})
	for v := range m.AllVertices() {
		assert.False(t, m.IsVertexRemoved(v))
	}
	for e := range m.AllEdges() {
		assert.False(t, m.IsEdgeRemoved(e))
	}
	for f := range m.AllFaces() {
		assert.False(t, m.IsFaceRemoved(f))
	}
	requireConsistent(t, m)

	if diff := cmp.Diff(before, describe()); diff != "" {
		t.Errorf("faces changed by compaction (-before +after):\n%s", diff)
	}

	// surviving vertices keep their relative order
	prev := int32(-1)
	for v := range m.Vertices() {
		assert.Greater(t, vid.At(v), prev)
		prev = vid.At(v)
	}
	for h := range m.Halfedges() {
		want := [2]int32{vid.At(m.FromVertex(h)), vid.At(m.ToVertex(h))}
		assert.Equal(t, want, hid.At(h))
	}
}

func TestCompactifyIsNoopWhenCompact(t *testing.T) {
	m, _ := cube(t)
	before := faceSet(m)
	m.Compactify()
	assert.Equal(t, before, faceSet(m))
	assert.True(t, m.IsCompact())
}

func TestCompactifyThenGrow(t *testing.T) {
	m, vs := cube(t)
	m.RemoveVertex(vs[6])
	m.Compactify()
	requireConsistent(t, m)

	for _, h := range Collect(m.BoundaryHalfedges()) {
		if m.IsBoundaryHalfedge(h) {
			m.FaceFill(h)
		}
	}
	assert.Zero(t, Count(m.BoundaryHalfedges()))
	assert.Equal(t, 2, euler(m))
	requireConsistent(t, m)
}
