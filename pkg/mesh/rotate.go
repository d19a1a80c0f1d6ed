package mesh

// Rotations move an interior edge one step around the quad formed by its two
// faces. Face sizes are preserved by the edge rotations; the halfedge
// rotations move one boundary halfedge from one face to the other.

// CanRotateNext reports whether EdgeRotateNext(e) is legal.
func (m *Mesh) CanRotateNext(e EdgeIndex) bool {
	if !m.IsValidEdge(e) || m.IsBoundaryEdge(e) {
		return false
	}
	h0, h1 := e.Halfedge(0), e.Halfedge(1)
	if m.Valence(m.hTo[h0]) < 3 || m.Valence(m.hTo[h1]) < 3 {
		return false
	}
	c, d := m.hTo[m.hNext[h0]], m.hTo[m.hNext[h1]]
	return c != d && !m.FindHalfedge(d, c).IsValid()
}

// CanRotatePrev reports whether EdgeRotatePrev(e) is legal.
func (m *Mesh) CanRotatePrev(e EdgeIndex) bool {
	if !m.IsValidEdge(e) || m.IsBoundaryEdge(e) {
		return false
	}
	h0, h1 := e.Halfedge(0), e.Halfedge(1)
	if m.Valence(m.hTo[h0]) < 3 || m.Valence(m.hTo[h1]) < 3 {
		return false
	}
	c, d := m.FromVertex(m.hPrev[h0]), m.FromVertex(m.hPrev[h1])
	return c != d && !m.FindHalfedge(c, d).IsValid()
}

// CanFlip reports whether EdgeFlip(e) is legal.
func (m *Mesh) CanFlip(e EdgeIndex) bool {
	if !m.IsValidEdge(e) || m.IsBoundaryEdge(e) {
		return false
	}
	return m.FaceSize(m.hFace[e.Halfedge(0)]) == 3 &&
		m.FaceSize(m.hFace[e.Halfedge(1)]) == 3 &&
		m.CanRotateNext(e)
}

// EdgeRotateNext moves both ends of e forward along their faces.
func (m *Mesh) EdgeRotateNext(e EdgeIndex) {
	expect(m.IsValidEdge(e), "EdgeRotateNext on invalid edge")
	expect(!m.IsBoundaryEdge(e), "EdgeRotateNext on boundary edge")
	h0, h1 := e.Halfedge(0), e.Halfedge(1)
	a, b := m.hTo[h1], m.hTo[h0]
	expect(m.Valence(a) > 2 && m.Valence(b) > 2, "EdgeRotateNext needs endpoint valence above 2")

	f0, f1 := m.hFace[h0], m.hFace[h1]
	n0, p0 := m.hNext[h0], m.hPrev[h0]
	n1, p1 := m.hNext[h1], m.hPrev[h1]
	nn0, nn1 := m.hNext[n0], m.hNext[n1]

	m.hTo[h0] = m.hTo[n0]
	m.hTo[h1] = m.hTo[n1]

	m.connect(p0, n1)
	m.connect(n1, h0)
	m.connect(h0, nn0)
	m.connect(p1, n0)
	m.connect(n0, h1)
	m.connect(h1, nn1)

	m.hFace[n1] = f0
	m.hFace[n0] = f1

	if m.vOut[a] == h0 {
		m.vOut[a] = n1
	}
	if m.vOut[b] == h1 {
		m.vOut[b] = n0
	}
	if m.fHalfedge[f0] == n0 {
		m.fHalfedge[f0] = h0
	}
	if m.fHalfedge[f1] == n1 {
		m.fHalfedge[f1] = h1
	}
	m.fixFaceBoundary(f0)
	m.fixFaceBoundary(f1)
}

// EdgeRotatePrev is the inverse of EdgeRotateNext.
func (m *Mesh) EdgeRotatePrev(e EdgeIndex) {
	expect(m.IsValidEdge(e), "EdgeRotatePrev on invalid edge")
	expect(!m.IsBoundaryEdge(e), "EdgeRotatePrev on boundary edge")
	h0, h1 := e.Halfedge(0), e.Halfedge(1)
	a, b := m.hTo[h1], m.hTo[h0]
	expect(m.Valence(a) > 2 && m.Valence(b) > 2, "EdgeRotatePrev needs endpoint valence above 2")

	f0, f1 := m.hFace[h0], m.hFace[h1]
	n0, p0 := m.hNext[h0], m.hPrev[h0]
	n1, p1 := m.hNext[h1], m.hPrev[h1]
	pp0, pp1 := m.hPrev[p0], m.hPrev[p1]

	m.hTo[h0] = m.FromVertex(p1)
	m.hTo[h1] = m.FromVertex(p0)

	m.connect(pp0, h0)
	m.connect(h0, p1)
	m.connect(p1, n0)
	m.connect(pp1, h1)
	m.connect(h1, p0)
	m.connect(p0, n1)

	m.hFace[p1] = f0
	m.hFace[p0] = f1

	if m.vOut[a] == h0 {
		m.vOut[a] = n1
	}
	if m.vOut[b] == h1 {
		m.vOut[b] = n0
	}
	if m.fHalfedge[f0] == p0 {
		m.fHalfedge[f0] = h0
	}
	if m.fHalfedge[f1] == p1 {
		m.fHalfedge[f1] = h1
	}
	m.fixFaceBoundary(f0)
	m.fixFaceBoundary(f1)
}

// EdgeFlip turns the diagonal of two adjacent triangles.
func (m *Mesh) EdgeFlip(e EdgeIndex) {
	expect(m.IsValidEdge(e) && !m.IsBoundaryEdge(e), "EdgeFlip on invalid or boundary edge")
	expect(m.FaceSize(m.hFace[e.Halfedge(0)]) == 3 && m.FaceSize(m.hFace[e.Halfedge(1)]) == 3,
		"EdgeFlip needs two triangles")
	m.EdgeRotateNext(e)
}

// CanHalfedgeRotateNext reports whether HalfedgeRotateNext(h) is legal.
func (m *Mesh) CanHalfedgeRotateNext(h HalfedgeIndex) bool {
	if !m.IsValidHalfedge(h) || m.IsBoundaryEdge(h.Edge()) {
		return false
	}
	if m.FaceSize(m.hFace[h]) <= 3 || m.Valence(m.hTo[h]) < 3 {
		return false
	}
	a, c := m.FromVertex(h), m.hTo[m.hNext[h]]
	return a != c && !m.FindHalfedge(a, c).IsValid()
}

// CanHalfedgeRotatePrev reports whether HalfedgeRotatePrev(h) is legal.
func (m *Mesh) CanHalfedgeRotatePrev(h HalfedgeIndex) bool {
	if !m.IsValidHalfedge(h) || m.IsBoundaryEdge(h.Edge()) {
		return false
	}
	o := h ^ 1
	if m.FaceSize(m.hFace[o]) <= 3 || m.Valence(m.hTo[h]) < 3 {
		return false
	}
	a, b := m.FromVertex(h), m.FromVertex(m.hPrev[o])
	return a != b && !m.FindHalfedge(a, b).IsValid()
}

// HalfedgeRotateNext moves the destination of h one step forward along its
// face. The face of h loses a halfedge to the opposite face.
func (m *Mesh) HalfedgeRotateNext(h HalfedgeIndex) {
	expect(m.IsValidHalfedge(h) && !m.IsBoundaryEdge(h.Edge()), "HalfedgeRotateNext on invalid or boundary edge")
	expect(m.FaceSize(m.hFace[h]) > 3, "HalfedgeRotateNext would degenerate a face")
	o := h ^ 1
	b := m.hTo[h]
	f0, f1 := m.hFace[h], m.hFace[o]
	n := m.hNext[h]
	nn := m.hNext[n]
	op := m.hPrev[o]

	m.hTo[h] = m.hTo[n]
	m.connect(h, nn)
	m.connect(op, n)
	m.connect(n, o)
	m.hFace[n] = f1

	if m.vOut[b] == o {
		m.vOut[b] = n
	}
	if m.fHalfedge[f0] == n {
		m.fHalfedge[f0] = h
	}
	m.fixFaceBoundary(f0)
	m.fixFaceBoundary(f1)
}

// HalfedgeRotatePrev is the inverse of HalfedgeRotateNext.
func (m *Mesh) HalfedgeRotatePrev(h HalfedgeIndex) {
	expect(m.IsValidHalfedge(h) && !m.IsBoundaryEdge(h.Edge()), "HalfedgeRotatePrev on invalid or boundary edge")
	o := h ^ 1
	expect(m.FaceSize(m.hFace[o]) > 3, "HalfedgeRotatePrev would degenerate a face")
	c := m.hTo[h]
	f0, f1 := m.hFace[h], m.hFace[o]
	nn := m.hNext[h]
	po := m.hPrev[o]
	ppo := m.hPrev[po]

	m.hTo[h] = m.FromVertex(po)
	m.connect(ppo, o)
	m.connect(h, po)
	m.connect(po, nn)
	m.hFace[po] = f0

	if m.vOut[c] == o {
		m.vOut[c] = nn
	}
	if m.fHalfedge[f1] == po {
		m.fHalfedge[f1] = o
	}
	m.fixFaceBoundary(f0)
	m.fixFaceBoundary(f1)
}
