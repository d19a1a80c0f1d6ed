package mesh

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttributeFollowsGrowth(t *testing.T) {
	m := New()
	ids := NewVertexAttribute(m, int32(-1))
	assert.Zero(t, ids.Len())

	for i := range 100 {
		v := m.AddVertex()
		ids.Set(v, int32(i))
	}
	assert.Equal(t, 100, ids.Len())
	for v := range m.Vertices() {
		assert.Equal(t, int32(v), ids.At(v))
	}

	late := NewVertexAttribute(m, "x")
	assert.Equal(t, "x", late.At(99))
	assert.Equal(t, 2, m.AttributeCount(KindVertex))
}

func TestAttributeRemovedSlotsHoldDefault(t *testing.T) {
	m, vs := twoTriangles(t)
	weight := NewEdgeAttribute(m, 1.0)
	side := NewHalfedgeAttribute(m, 0)
	area := NewFaceAttribute(m, 0.0)
	weight.Compute(func(e EdgeIndex) float64 { return float64(e) + 10 })
	side.Compute(func(h HalfedgeIndex) int { return int(h&1) + 1 })
	area.Apply(func(_ FaceIndex, a *float64) { *a = 0.5 })

	h := m.FindHalfedge(vs[0], vs[2])
	m.RemoveEdge(h.Edge())

	assert.Equal(t, 1.0, weight.At(h.Edge()))
	assert.Zero(t, side.At(h))
	assert.Zero(t, side.At(h^1))
	assert.Zero(t, area.At(0))
	assert.Zero(t, area.At(1))
	assert.Equal(t, 5, weight.Len())
}

func TestAttributeClearAndExport(t *testing.T) {
	m, _ := cube(t)
	tag := NewFaceAttribute(m, "none")
	tag.Compute(func(f FaceIndex) string { return f.String() })
	assert.Equal(t, []string{"f0", "f1", "f2", "f3", "f4", "f5"}, tag.ToSlice())

	*tag.Ptr(2) = "changed"
	assert.Equal(t, "changed", tag.At(2))

	tag.Clear()
	for _, s := range tag.ToSlice() {
		assert.Equal(t, "none", s)
	}

	m.Clear()
	assert.Zero(t, tag.Len())
	m.AddFace(addVertices(m, 3)...)
	assert.Equal(t, "none", tag.At(0))
}

func TestAttributeCopyTo(t *testing.T) {
	m, _ := cube(t)
	src := NewVertexAttribute(m, 0)
	src.Compute(func(v VertexIndex) int { return int(v) * int(v) })

	c := m.Copy()
	dst := NewVertexAttribute(c, -1)
	src.CopyTo(dst)
	assert.Equal(t, src.ToSlice(), dst.ToSlice())
	assert.Zero(t, c.AttributeCount(KindFace))
}

func TestMap(t *testing.T) {
	m, _ := grid(t, 2, 2)
	valence := NewVertexAttribute(m, 0)
	valence.Compute(m.Valence)
	even := Map(valence, false, func(n int) bool { return n%2 == 0 })
	for v := range m.Vertices() {
		assert.Equal(t, m.Valence(v)%2 == 0, even.At(v))
	}
}

func TestSumMinMax(t *testing.T) {
	m, vs := grid(t, 2, 2)
	valence := NewVertexAttribute(m, 0)
	valence.Compute(m.Valence)

	assert.Equal(t, 24, Sum(valence))
	lo, hi, ok := MinMax(valence)
	require.True(t, ok)
	assert.Equal(t, 2, lo)
	assert.Equal(t, 4, hi)

	m.RemoveVertex(vs[4])
	valence.Compute(m.Valence)
	assert.Equal(t, 16, Sum(valence))

	_, _, ok = MinMax(NewFaceAttribute(New(), 1.5))
	assert.False(t, ok)
}

func TestAttributeRelease(t *testing.T) {
	m := New()
	a := NewVertexAttribute(m, 0)
	b := NewVertexAttribute(m, 0)
	require.Equal(t, 2, m.AttributeCount(KindVertex))

	a.Release()
	a.Release()
	assert.False(t, a.Attached())
	assert.Equal(t, 1, m.AttributeCount(KindVertex))

	// the freed slot is reused without disturbing b
	c := NewVertexAttribute(m, 7)
	m.AddVertices(3)
	assert.Equal(t, 3, b.Len())
	assert.Equal(t, 7, c.At(2))
	assert.Equal(t, 2, m.AttributeCount(KindVertex))
}

func TestUnreachableAttributeIsDropped(t *testing.T) {
	m := New()
	func() {
		tmp := NewFaceAttribute(m, [16]float64{})
		tmp.Clear()
	}()
	for i := 0; i < 5 && m.AttributeCount(KindFace) > 0; i++ {
		runtime.GC()
	}
	assert.Zero(t, m.AttributeCount(KindFace))

	vs := addVertices(m, 3)
	assert.True(t, m.AddFace(vs...).IsValid())
}
