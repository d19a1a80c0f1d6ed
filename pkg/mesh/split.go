package mesh

// HalfedgeSplit inserts the isolated vertex v in the middle of h and returns
// the new halfedge that continues h towards its old destination. No face is
// added.
func (m *Mesh) HalfedgeSplit(h HalfedgeIndex, v VertexIndex) HalfedgeIndex {
	expect(m.IsValidHalfedge(h), "HalfedgeSplit on invalid halfedge")
	expect(m.IsValidVertex(v) && m.IsIsolated(v), "HalfedgeSplit needs an isolated vertex")

	h0, h1 := h, h^1
	v0 := m.hTo[h0]
	f0, f1 := m.hFace[h0], m.hFace[h1]
	n0, p1 := m.hNext[h0], m.hPrev[h1]

	h2 := m.allocEdge(v, v0)
	h3 := h2 ^ 1
	if n0 == h1 {
		n0 = h3
	}
	if p1 == h0 {
		p1 = h2
	}

	m.hFace[h2], m.hFace[h3] = f0, f1
	m.hTo[h0] = v
	m.connect(h0, h2)
	m.connect(h2, n0)
	m.connect(p1, h3)
	m.connect(h3, h1)

	if m.vOut[v0] == h1 {
		m.vOut[v0] = h3
	}
	if !f1.IsValid() {
		m.setOutgoing(v, h1)
	} else {
		m.setOutgoing(v, h2)
	}
	return h2
}

// HalfedgeSplitNew splits h at a fresh vertex and returns that vertex.
func (m *Mesh) HalfedgeSplitNew(h HalfedgeIndex) VertexIndex {
	v := m.AddVertex()
	m.HalfedgeSplit(h, v)
	return v
}

// EdgeSplit splits e at v. See HalfedgeSplit.
func (m *Mesh) EdgeSplit(e EdgeIndex, v VertexIndex) HalfedgeIndex {
	return m.HalfedgeSplit(e.Halfedge(0), v)
}

// EdgeSplitAndTriangulate splits e at v and cuts each adjacent triangle in
// two. Both faces next to e must be triangles or absent.
func (m *Mesh) EdgeSplitAndTriangulate(e EdgeIndex, v VertexIndex) {
	h0 := e.Halfedge(0)
	h1 := h0 ^ 1
	f0, f1 := m.hFace[h0], m.hFace[h1]
	expect(!f0.IsValid() || m.FaceSize(f0) == 3, "EdgeSplitAndTriangulate on a non-triangle face")
	expect(!f1.IsValid() || m.FaceSize(f1) == 3, "EdgeSplitAndTriangulate on a non-triangle face")

	h2 := m.EdgeSplit(e, v)
	h3 := h2 ^ 1
	if f0.IsValid() {
		m.FaceCut(f0, h0, m.hNext[h2])
	}
	if f1.IsValid() {
		m.FaceCut(f1, h3, m.hNext[h1])
	}
}

// FaceCut splits f along a new edge from to(h0) to to(h1). The part that
// contains h0 keeps f; the other part gets a new face. It returns the new
// halfedge leaving to(h0).
func (m *Mesh) FaceCut(f FaceIndex, h0, h1 HalfedgeIndex) HalfedgeIndex {
	expect(m.IsValidFace(f), "FaceCut on invalid face")
	expect(m.hFace[h0] == f && m.hFace[h1] == f, "FaceCut halfedges are not on the face")
	expect(h0 != h1 && m.hNext[h0] != h1 && m.hNext[h1] != h0, "FaceCut halfedges are adjacent")

	v0, v1 := m.hTo[h0], m.hTo[h1]
	if assertionsEnabled && m.FindHalfedge(v0, v1).IsValid() {
		fail("FaceCut would duplicate an existing edge")
		return InvalidHalfedge
	}
	n0, n1 := m.hNext[h0], m.hNext[h1]

	hn0 := m.allocEdge(v0, v1)
	hn1 := hn0 ^ 1
	m.connect(h0, hn0)
	m.connect(hn0, n1)
	m.connect(h1, hn1)
	m.connect(hn1, n0)

	m.hFace[hn0] = f
	m.fHalfedge[f] = h0

	g := m.allocFace()
	m.fHalfedge[g] = hn1
	for h := range m.faceLoop(hn1) {
		m.hFace[h] = g
	}
	m.fixFaceBoundary(f)
	m.fixFaceBoundary(g)
	return hn0
}

// FaceSplit fans f around the isolated vertex v, producing one triangle per
// boundary halfedge of f. f is reused for the first triangle.
func (m *Mesh) FaceSplit(f FaceIndex, v VertexIndex) {
	expect(m.IsValidFace(f), "FaceSplit on invalid face")
	expect(m.IsValidVertex(v) && m.IsIsolated(v), "FaceSplit needs an isolated vertex")

	ring := make([]HalfedgeIndex, 0, 8)
	for h := range m.faceLoop(m.fHalfedge[f]) {
		ring = append(ring, h)
	}
	k := len(ring)
	// spokes[i] runs from v to the origin of ring[i]
	spokes := make([]HalfedgeIndex, k)
	for i, h := range ring {
		spokes[i] = m.allocEdge(v, m.FromVertex(h))
	}
	for i, h := range ring {
		out := spokes[i]
		in := spokes[(i+1)%k] ^ 1
		face := f
		if i > 0 {
			face = m.allocFace()
		}
		m.connect(h, in)
		m.connect(in, out)
		m.connect(out, h)
		m.hFace[h], m.hFace[in], m.hFace[out] = face, face, face
		m.fHalfedge[face] = h
	}
	m.setOutgoing(v, spokes[0])
}

// FaceSplitNew fans f around a fresh vertex and returns that vertex.
func (m *Mesh) FaceSplitNew(f FaceIndex) VertexIndex {
	v := m.AddVertex()
	m.FaceSplit(f, v)
	return v
}

// FaceFill closes the free loop through h with a new face.
func (m *Mesh) FaceFill(h HalfedgeIndex) FaceIndex {
	expect(m.IsValidHalfedge(h) && m.IsBoundaryHalfedge(h), "FaceFill needs a free halfedge")
	if assertionsEnabled && Count(m.faceLoop(h)) < 3 {
		fail("FaceFill needs a loop of at least three halfedges")
		return InvalidFace
	}
	f := m.allocFace()
	m.fHalfedge[f] = h
	for x := range m.faceLoop(h) {
		m.hFace[x] = f
	}
	for x := range m.faceLoop(h) {
		m.fixVertexBoundary(m.hTo[x])
		if of := m.hFace[x^1]; of.IsValid() {
			m.fixFaceBoundary(of)
		}
	}
	m.fixFaceBoundary(f)
	return f
}

// CanMerge reports whether HalfedgeMerge(h) keeps the mesh valid: the origin
// has valence 2, no face degenerates and no duplicate edge appears.
func (m *Mesh) CanMerge(h HalfedgeIndex) bool {
	if !m.IsValidHalfedge(h) {
		return false
	}
	v := m.FromVertex(h)
	if m.Valence(v) != 2 {
		return false
	}
	p := m.hPrev[h]
	u, w := m.FromVertex(p), m.hTo[h]
	if u == w || m.FindHalfedge(u, w).IsValid() {
		return false
	}
	for _, f := range [2]FaceIndex{m.hFace[h], m.hFace[h^1]} {
		if f.IsValid() && m.FaceSize(f) <= 3 {
			return false
		}
	}
	return true
}

// HalfedgeMerge removes the valence-2 vertex at the origin of h, joining its
// two edges into one. It is the inverse of HalfedgeSplit.
func (m *Mesh) HalfedgeMerge(h HalfedgeIndex) {
	expect(m.IsValidHalfedge(h), "HalfedgeMerge on invalid halfedge")
	v := m.FromVertex(h)
	expect(m.Valence(v) == 2, "HalfedgeMerge needs a valence-2 origin")

	o := h ^ 1
	p := m.hPrev[h]
	w := m.hTo[h]
	nh, po := m.hNext[h], m.hPrev[o]
	if nh == o {
		nh = p ^ 1
	}
	if po == h {
		po = p
	}

	m.hTo[p] = w
	m.connect(p, nh)
	m.connect(po, p^1)

	if f := m.hFace[h]; f.IsValid() && m.fHalfedge[f] == h {
		m.fHalfedge[f] = p
	}
	if f := m.hFace[o]; f.IsValid() && m.fHalfedge[f] == o {
		m.fHalfedge[f] = p ^ 1
	}
	if m.vOut[w] == o {
		m.vOut[w] = p ^ 1
	}
	m.setVertexRemoved(v)
	m.setEdgeRemoved(h.Edge())
}
