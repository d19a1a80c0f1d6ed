package mesh

import "iter"

// ---------------------------------------------------------------------------
// Read access
// ---------------------------------------------------------------------------

func (m *Mesh) ToVertex(h HalfedgeIndex) VertexIndex { return m.hTo[h] }
func (m *Mesh) FromVertex(h HalfedgeIndex) VertexIndex { return m.hTo[h^1] }
func (m *Mesh) HalfedgeFace(h HalfedgeIndex) FaceIndex { return m.hFace[h] }
func (m *Mesh) Next(h HalfedgeIndex) HalfedgeIndex { return m.hNext[h] }
func (m *Mesh) Prev(h HalfedgeIndex) HalfedgeIndex { return m.hPrev[h] }
func (m *Mesh) IsBoundaryHalfedge(h HalfedgeIndex) bool { return !m.hFace[h].IsValid() }
func (m *Mesh) FaceHalfedge(f FaceIndex) HalfedgeIndex { return m.fHalfedge[f] }
func (m *Mesh) RotateCW(h HalfedgeIndex) HalfedgeIndex { return m.hNext[h^1] }
func (m *Mesh) RotateCCW(h HalfedgeIndex) HalfedgeIndex { return m.hPrev[h] ^ 1 }
func (m *Mesh) IsBoundaryEdge(e EdgeIndex) bool {
	return m.IsBoundaryHalfedge(e.Halfedge(0)) || m.IsBoundaryHalfedge(e.Halfedge(1))
}

// Outgoing returns the representative outgoing halfedge of v, or
// InvalidHalfedge when v is isolated or removed.
func (m *Mesh) Outgoing(v VertexIndex) HalfedgeIndex {
	if m.vState[v] != VertexValid {
		return InvalidHalfedge
	}
	return m.vOut[v]
}

// IsBoundaryVertex reports whether v has a free outgoing halfedge or no edge
// at all. The representative outgoing halfedge is free whenever any is.
func (m *Mesh) IsBoundaryVertex(v VertexIndex) bool {
	switch m.vState[v] {
	case VertexIsolated:
		return true
	case VertexValid:
		return m.IsBoundaryHalfedge(m.vOut[v])
	}
	return false
}

// IsBoundaryFace reports whether f touches a free halfedge. The face
// representative points at such a halfedge whenever one exists.
func (m *Mesh) IsBoundaryFace(f FaceIndex) bool {
	return m.IsBoundaryHalfedge(m.fHalfedge[f] ^ 1)
}

// Valence counts the edges incident to v.
func (m *Mesh) Valence(v VertexIndex) int {
	n := 0
	for range m.outgoing(v) {
		n++
	}
	return n
}

// FaceSize counts the halfedges of the boundary loop of f.
func (m *Mesh) FaceSize(f FaceIndex) int {
	n := 0
	for range m.faceLoop(m.fHalfedge[f]) {
		n++
	}
	return n
}

// FindHalfedge returns the halfedge from -> to, or InvalidHalfedge.
func (m *Mesh) FindHalfedge(from, to VertexIndex) HalfedgeIndex {
	for h := range m.outgoing(from) {
		if m.hTo[h] == to {
			return h
		}
	}
	return InvalidHalfedge
}

// ---------------------------------------------------------------------------
// Write access
// ---------------------------------------------------------------------------

func (m *Mesh) connect(a, b HalfedgeIndex) {
	m.hNext[a] = b
	m.hPrev[b] = a
}

func (m *Mesh) setOutgoing(v VertexIndex, h HalfedgeIndex) {
	if h.IsValid() {
		m.vState[v] = VertexValid
		m.vOut[v] = h
		return
	}
	m.vState[v] = VertexIsolated
	m.vOut[v] = InvalidHalfedge
}

// ---------------------------------------------------------------------------
// Bounded walks
// ---------------------------------------------------------------------------

// walkLimit bounds every cyclic walk; no valid cycle is longer than the
// number of allocated halfedges.
func (m *Mesh) walkLimit() int {
	return 2*m.nEdges + 1
}

func (m *Mesh) corrupted(what string, at HalfedgeIndex) {
	expectf(false, "%s: walk from %v does not close, mesh is corrupted or non-manifold", what, at)
}

// loop_ yields the next-cycle starting at start. An invalid start yields
// nothing.
func (m *Mesh) faceLoop(start HalfedgeIndex) iter.Seq[HalfedgeIndex] {
	return func(yield func(HalfedgeIndex) bool) {
		if !start.IsValid() {
			return
		}
		limit := m.walkLimit()
		h := start
		for steps := 0; ; steps++ {
			if assertionsEnabled && steps > limit {
				m.corrupted("face loop", start)
				return
			}
			if !yield(h) {
				return
			}
			h = m.hNext[h]
			if h == start {
				return
			}
		}
	}
}

// outgoing yields the outgoing halfedges of v in rotation order, starting at
// its representative.
func (m *Mesh) outgoing(v VertexIndex) iter.Seq[HalfedgeIndex] {
	return func(yield func(HalfedgeIndex) bool) {
		if m.vState[v] != VertexValid {
			return
		}
		start := m.vOut[v]
		limit := m.walkLimit()
		h := start
		for steps := 0; ; steps++ {
			if assertionsEnabled && steps > limit {
				m.corrupted("vertex rotation", start)
				return
			}
			if !yield(h) {
				return
			}
			h = m.RotateCW(h)
			if h == start {
				return
			}
		}
	}
}
