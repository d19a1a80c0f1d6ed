package mesh

import (
	"errors"
	"fmt"
)

// ErrInvalidTopology is returned by FromTopology for arrays that do not
// describe a consistent mesh.
var ErrInvalidTopology = errors.New("mesh: invalid topology")

// Topology is a flat copy of the connectivity arrays, laid out the way
// serializers store them. Removed vertices have outgoing -2 and isolated
// vertices -1; removed faces have halfedge -1; removed edges have to-vertex
// -1 on both halfedges.
type Topology struct {
	HalfedgeFace   []int32
	HalfedgeTo     []int32
	HalfedgeNext   []int32
	HalfedgePrev   []int32
	FaceHalfedge   []int32
	VertexOutgoing []int32
}

// Snapshot copies the connectivity of every allocated slot.
func (m *Mesh) Snapshot() Topology {
	n := 2 * m.nEdges
	t := Topology{
		HalfedgeFace:   make([]int32, n),
		HalfedgeTo:     make([]int32, n),
		HalfedgeNext:   make([]int32, n),
		HalfedgePrev:   make([]int32, n),
		FaceHalfedge:   make([]int32, m.nFaces),
		VertexOutgoing: make([]int32, m.nVertices),
	}
	for h := range n {
		t.HalfedgeFace[h] = int32(m.hFace[h])
		t.HalfedgeTo[h] = int32(m.hTo[h])
		t.HalfedgeNext[h] = int32(m.hNext[h])
		t.HalfedgePrev[h] = int32(m.hPrev[h])
	}
	for f := range m.nFaces {
		t.FaceHalfedge[f] = int32(m.fHalfedge[f])
	}
	for v := range m.nVertices {
		switch m.vState[v] {
		case VertexValid:
			t.VertexOutgoing[v] = int32(m.vOut[v])
		case VertexIsolated:
			t.VertexOutgoing[v] = encodedIsolated
		default:
			t.VertexOutgoing[v] = encodedRemoved
		}
	}
	return t
}

// FromTopology rebuilds a mesh from a snapshot and verifies it with Check.
func FromTopology(t Topology) (*Mesh, error) {
	n := len(t.HalfedgeTo)
	if n%2 != 0 || len(t.HalfedgeFace) != n || len(t.HalfedgeNext) != n || len(t.HalfedgePrev) != n {
		return nil, fmt.Errorf("%w: halfedge arrays have mismatched or odd lengths", ErrInvalidTopology)
	}
	nv, nf := len(t.VertexOutgoing), len(t.FaceHalfedge)
	inRange := func(x int32, size int) bool { return x >= -1 && int(x) < size }

	m := New()
	m.Reserve(nv, nf, n/2)
	m.nVertices, m.nFaces, m.nEdges = nv, nf, n/2

	for h := range n {
		to, face, next, prev := t.HalfedgeTo[h], t.HalfedgeFace[h], t.HalfedgeNext[h], t.HalfedgePrev[h]
		if !inRange(to, nv) || !inRange(face, nf) || !inRange(next, n) || !inRange(prev, n) {
			return nil, fmt.Errorf("%w: halfedge %d references out of range", ErrInvalidTopology, h)
		}
		m.hTo[h], m.hFace[h] = VertexIndex(to), FaceIndex(face)
		m.hNext[h], m.hPrev[h] = HalfedgeIndex(next), HalfedgeIndex(prev)
	}
	for e := range m.nEdges {
		if !m.hTo[2*e].IsValid() {
			m.hFace[2*e], m.hFace[2*e+1] = InvalidFace, InvalidFace
			m.hTo[2*e+1] = InvalidVertex
			m.removedEdges++
		}
	}
	for f, h := range t.FaceHalfedge {
		if !inRange(h, n) {
			return nil, fmt.Errorf("%w: face %d references out of range", ErrInvalidTopology, f)
		}
		m.fHalfedge[f] = HalfedgeIndex(h)
		if h < 0 {
			m.removedFaces++
		}
	}
	for v, h := range t.VertexOutgoing {
		switch {
		case h == encodedRemoved:
			m.vState[v], m.vOut[v] = VertexRemoved, InvalidHalfedge
			m.removedVertices++
		case h == encodedIsolated:
			m.vState[v], m.vOut[v] = VertexIsolated, InvalidHalfedge
		case h >= 0 && int(h) < n:
			m.vState[v], m.vOut[v] = VertexValid, HalfedgeIndex(h)
		default:
			return nil, fmt.Errorf("%w: vertex %d has outgoing %d", ErrInvalidTopology, v, h)
		}
	}
	if vs := m.Check(); len(vs) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTopology, vs[0])
	}
	return m, nil
}
