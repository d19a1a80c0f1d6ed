package mesh

// CanCollapse reports whether HalfedgeCollapse(h) keeps the mesh a valid
// 2-manifold. It checks the link condition and rejects collapses that would
// pinch a boundary or flatten a tetrahedron.
func (m *Mesh) CanCollapse(h HalfedgeIndex) bool {
	if !m.IsValidHalfedge(h) {
		return false
	}
	o := h ^ 1
	v0, v1 := m.hTo[o], m.hTo[h]
	hn, hp := m.hNext[h], m.hPrev[h]
	on, op := m.hNext[o], m.hPrev[o]

	// dangling edges always collapse
	if hn == o || on == h {
		return true
	}

	w0, w1 := InvalidVertex, InvalidVertex
	if f := m.hFace[h]; f.IsValid() && m.hNext[hn] == hp {
		w0 = m.hTo[hn]
		if m.IsBoundaryHalfedge(hn^1) && m.IsBoundaryHalfedge(hp^1) {
			return false
		}
	}
	if f := m.hFace[o]; f.IsValid() && m.hNext[on] == op {
		w1 = m.hTo[on]
		if m.IsBoundaryHalfedge(on^1) && m.IsBoundaryHalfedge(op^1) {
			return false
		}
	}
	if w0.IsValid() && w0 == w1 {
		return false
	}
	if m.IsBoundaryVertex(v0) && m.IsBoundaryVertex(v1) && !m.IsBoundaryEdge(h.Edge()) {
		return false
	}

	// link condition: common neighbors are exactly the collapsed triangles' tips
	for x := range m.outgoing(v0) {
		u := m.hTo[x]
		if u == v1 || u == w0 || u == w1 {
			continue
		}
		if m.FindHalfedge(u, v1).IsValid() {
			return false
		}
	}

	// a third face holding both ends would visit v1 twice
	for x := range m.outgoing(v0) {
		f := m.hFace[x]
		if !f.IsValid() || f == m.hFace[h] || f == m.hFace[o] {
			continue
		}
		for y := range m.faceLoop(m.fHalfedge[f]) {
			if m.hTo[y] == v1 {
				return false
			}
		}
	}

	if w0.IsValid() && w1.IsValid() && m.FindHalfedge(w0, w1).IsValid() &&
		m.Valence(w0) == 3 && m.Valence(w1) == 3 {
		return false
	}
	return true
}

// HalfedgeCollapse merges the origin of h into its destination. Triangles
// next to h degenerate and are removed together with one of their edges.
// Callers check CanCollapse first; the primitive does not.
func (m *Mesh) HalfedgeCollapse(h HalfedgeIndex) {
	expect(m.IsValidHalfedge(h), "HalfedgeCollapse on invalid halfedge")
	o := h ^ 1
	v0, v1 := m.hTo[o], m.hTo[h]
	hn, hp := m.hNext[h], m.hPrev[h]
	on, op := m.hNext[o], m.hPrev[o]

	switch {
	case hn == o && on == h:
		// isolated edge
		m.setOutgoing(v1, InvalidHalfedge)

	case on == h:
		// v0 hangs off the edge alone
		m.connect(op, hn)
		if m.vOut[v1] == o {
			m.vOut[v1] = hn
		}
		if f := m.hFace[h]; f.IsValid() {
			if r := m.fHalfedge[f]; r == h || r == o {
				m.fHalfedge[f] = hn
			}
			m.fixFaceBoundary(f)
		}
		m.fixVertexBoundary(v1)

	case hn == o:
		// v1 hangs off the edge alone
		for x := range m.outgoing(v0) {
			if x != h {
				m.hTo[x^1] = v1
			}
		}
		m.connect(hp, on)
		m.setOutgoing(v1, on)
		if f := m.hFace[h]; f.IsValid() {
			if r := m.fHalfedge[f]; r == h || r == o {
				m.fHalfedge[f] = on
			}
			m.fixFaceBoundary(f)
		}
		m.fixVertexBoundary(v1)

	default:
		m.collapseGeneral(h)
		return
	}
	m.setVertexRemoved(v0)
	m.setEdgeRemoved(h.Edge())
}

func (m *Mesh) collapseGeneral(h HalfedgeIndex) {
	o := h ^ 1
	v0, v1 := m.hTo[o], m.hTo[h]
	hn, hp := m.hNext[h], m.hPrev[h]
	on, op := m.hNext[o], m.hPrev[o]
	fh, fo := m.hFace[h], m.hFace[o]

	incoming := make([]HalfedgeIndex, 0, 8)
	for x := range m.outgoing(v0) {
		if x != h {
			incoming = append(incoming, x^1)
		}
	}

	triH := fh.IsValid() && m.hNext[hn] == hp
	triO := fo.IsValid() && m.hNext[on] == op

	// plain splices first, so the triangle rewiring below reads their result
	if !triH {
		m.connect(hp, hn)
		if fh.IsValid() && m.fHalfedge[fh] == h {
			m.fHalfedge[fh] = hn
		}
	}
	if !triO {
		m.connect(op, on)
		if fo.IsValid() && m.fHalfedge[fo] == o {
			m.fHalfedge[fo] = on
		}
	}

	var w0, w1 VertexIndex = InvalidVertex, InvalidVertex
	var gh, gt FaceIndex = InvalidFace, InvalidFace
	if triH {
		// hp replaces the opposite of hn
		w0 = m.hTo[hn]
		t := hn ^ 1
		gh = m.hFace[t]
		m.hFace[hp] = gh
		m.connect(m.hPrev[t], hp)
		m.connect(hp, m.hNext[t])
		if gh.IsValid() && m.fHalfedge[gh] == t {
			m.fHalfedge[gh] = hp
		}
		if m.vOut[w0] == t {
			m.vOut[w0] = hp
		}
	}
	if triO {
		// on replaces the opposite of op
		w1 = m.hTo[on]
		t := op ^ 1
		gt = m.hFace[t]
		m.hFace[on] = gt
		m.connect(m.hPrev[t], on)
		m.connect(on, m.hNext[t])
		if gt.IsValid() && m.fHalfedge[gt] == t {
			m.fHalfedge[gt] = on
		}
		if m.vOut[w1] == op {
			m.vOut[w1] = on ^ 1
		}
	}

	for _, x := range incoming {
		m.hTo[x] = v1
	}
	switch {
	case triH:
		m.setOutgoing(v1, hp^1)
	case triO && hn == op^1:
		// hn dies with the o-side triangle
		m.setOutgoing(v1, on)
	default:
		m.setOutgoing(v1, hn)
	}
	m.fixVertexBoundary(v1)
	if triH {
		m.fixVertexBoundary(w0)
		m.fixFaceBoundary(gh)
		// hp may now be free, exposing the face across it
		m.fixFaceBoundary(m.hFace[hp^1])
	} else {
		m.fixFaceBoundary(fh)
	}
	if triO {
		m.fixVertexBoundary(w1)
		m.fixFaceBoundary(gt)
		m.fixFaceBoundary(m.hFace[on^1])
	} else {
		m.fixFaceBoundary(fo)
	}

	m.setVertexRemoved(v0)
	m.setEdgeRemoved(h.Edge())
	if triH {
		m.setFaceRemoved(fh)
		m.setEdgeRemoved(hn.Edge())
	}
	if triO {
		m.setFaceRemoved(fo)
		m.setEdgeRemoved(op.Edge())
	}
}

// VertexCollapse removes v and closes the hole left behind with a single
// face. Isolated vertices are simply removed. Boundary vertices are not
// supported.
func (m *Mesh) VertexCollapse(v VertexIndex) FaceIndex {
	expect(m.IsValidVertex(v), "VertexCollapse on invalid vertex")
	if m.IsIsolated(v) {
		m.RemoveVertex(v)
		return InvalidFace
	}
	expect(!m.IsBoundaryVertex(v), "VertexCollapse on a boundary vertex")
	ring := m.hNext[m.vOut[v]]
	m.RemoveVertex(v)
	return m.FaceFill(ring)
}
