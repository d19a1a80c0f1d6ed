package mesh

// ---------------------------------------------------------------------------
// Adjacency helpers
// ---------------------------------------------------------------------------

// findFreeIncident returns a free halfedge ending at v, or InvalidHalfedge.
func (m *Mesh) findFreeIncident(v VertexIndex) HalfedgeIndex {
	if m.vState[v] != VertexValid {
		return InvalidHalfedge
	}
	in := m.vOut[v] ^ 1
	return m.findFreeIncidentBetween(in, in)
}

// findFreeIncidentBetween scans the incoming halfedges of one vertex from
// begin up to but excluding end. Passing begin == end scans the whole ring.
func (m *Mesh) findFreeIncidentBetween(begin, end HalfedgeIndex) HalfedgeIndex {
	limit := m.walkLimit()
	h := begin
	for steps := 0; ; steps++ {
		if assertionsEnabled && steps > limit {
			m.corrupted("free incident search", begin)
			return InvalidHalfedge
		}
		if m.IsBoundaryHalfedge(h) {
			return h
		}
		h = m.hNext[h] ^ 1
		if h == end {
			return InvalidHalfedge
		}
	}
}

// makeAdjacent splices the rotation around to(in) so that next(in) == out.
// Both halfedges must be free. It fails when no free slot exists to park the
// halfedges currently between them.
func (m *Mesh) makeAdjacent(in, out HalfedgeIndex) bool {
	b := m.hNext[in]
	d := m.hPrev[out]
	if b == out {
		return true
	}
	g := m.findFreeIncidentBetween(out^1, in)
	if !g.IsValid() {
		return false
	}
	h := m.hNext[g]
	m.connect(in, out)
	m.connect(g, b)
	m.connect(d, h)
	return true
}

// fixVertexBoundary points the outgoing reference of v at a free halfedge if
// one exists.
func (m *Mesh) fixVertexBoundary(v VertexIndex) {
	if m.vState[v] != VertexValid || m.IsBoundaryHalfedge(m.vOut[v]) {
		return
	}
	for h := range m.outgoing(v) {
		if m.IsBoundaryHalfedge(h) {
			m.vOut[v] = h
			return
		}
	}
}

// fixFaceBoundary points the representative of f at a halfedge whose
// opposite is free, if one exists.
func (m *Mesh) fixFaceBoundary(f FaceIndex) {
	if !f.IsValid() || m.IsBoundaryHalfedge(m.fHalfedge[f]^1) {
		return
	}
	for h := range m.faceLoop(m.fHalfedge[f]) {
		if m.IsBoundaryHalfedge(h ^ 1) {
			m.fHalfedge[f] = h
			return
		}
	}
}

// AddOrGetEdge returns the halfedge from -> to, creating a free edge when the
// vertices are not adjacent yet.
func (m *Mesh) AddOrGetEdge(from, to VertexIndex) HalfedgeIndex {
	expect(m.IsValidVertex(from) && m.IsValidVertex(to), "AddOrGetEdge on invalid vertex")
	expect(from != to, "AddOrGetEdge would create a loop edge")
	if h := m.FindHalfedge(from, to); h.IsValid() {
		return h
	}
	// look up free slots before the new edge becomes one
	inFrom := m.findFreeIncident(from)
	inTo := m.findFreeIncident(to)
	expect(m.IsIsolated(from) || inFrom.IsValid(), "AddOrGetEdge at a vertex without free slot (non-manifold)")
	expect(m.IsIsolated(to) || inTo.IsValid(), "AddOrGetEdge at a vertex without free slot (non-manifold)")

	h := m.allocEdge(from, to)
	o := h ^ 1
	if inFrom.IsValid() {
		next := m.hNext[inFrom]
		m.connect(inFrom, h)
		m.connect(o, next)
	} else {
		m.setOutgoing(from, h)
	}
	if inTo.IsValid() {
		next := m.hNext[inTo]
		m.connect(inTo, o)
		m.connect(h, next)
	} else {
		m.setOutgoing(to, o)
	}
	return h
}

// ---------------------------------------------------------------------------
// Face insertion
// ---------------------------------------------------------------------------

// CanAddFace reports whether AddFace with the same vertices would succeed
// without breaking manifoldness. It does not modify the mesh.
func (m *Mesh) CanAddFace(vs ...VertexIndex) bool {
	n := len(vs)
	if n < 3 {
		return false
	}
	for i, v := range vs {
		if !m.IsValidVertex(v) || !m.IsBoundaryVertex(v) {
			return false
		}
		if hasDuplicate(vs, i) {
			return false
		}
	}
	hs := make([]HalfedgeIndex, n)
	for i := range vs {
		h := m.FindHalfedge(vs[i], vs[(i+1)%n])
		if h.IsValid() && !m.IsBoundaryHalfedge(h) {
			return false
		}
		hs[i] = h
	}
	for i := range hs {
		in, out := hs[(i+n-1)%n], hs[i]
		if !in.IsValid() || !out.IsValid() || m.hNext[in] == out {
			continue
		}
		if !m.findFreeIncidentBetween(out^1, in).IsValid() {
			return false
		}
	}
	return true
}

func hasDuplicate(vs []VertexIndex, i int) bool {
	for j := i + 1; j < len(vs); j++ {
		if vs[j] == vs[i] {
			return true
		}
	}
	return false
}

// CanAddFaceHalfedges is CanAddFace for a loop given as halfedges.
func (m *Mesh) CanAddFaceHalfedges(hs ...HalfedgeIndex) bool {
	n := len(hs)
	if n < 3 {
		return false
	}
	for i, h := range hs {
		if !m.IsValidHalfedge(h) || !m.IsBoundaryHalfedge(h) {
			return false
		}
		if m.hTo[h] != m.FromVertex(hs[(i+1)%n]) {
			return false
		}
	}
	vs := make([]VertexIndex, n)
	for i, h := range hs {
		vs[i] = m.FromVertex(h)
	}
	return m.CanAddFace(vs...)
}

// AddFace inserts a face bounded by the given vertex loop, creating missing
// edges. Use CanAddFace or TryAddFace for untrusted input.
func (m *Mesh) AddFace(vs ...VertexIndex) FaceIndex {
	expect(len(vs) >= 3, "AddFace needs at least three vertices")
	if assertionsEnabled && !m.CanAddFace(vs...) {
		fail("AddFace would break manifoldness or repeats a vertex")
		return InvalidFace
	}
	n := len(vs)
	loop := m.loop[:0]
	for i := range vs {
		loop = append(loop, m.AddOrGetEdge(vs[i], vs[(i+1)%n]))
	}
	m.loop = loop
	return m.addFaceLoop(loop)
}

// AddFaceHalfedges inserts a face bounded by existing free halfedges that
// form a chain.
func (m *Mesh) AddFaceHalfedges(hs ...HalfedgeIndex) FaceIndex {
	expect(len(hs) >= 3, "AddFaceHalfedges needs at least three halfedges")
	if assertionsEnabled && !m.CanAddFaceHalfedges(hs...) {
		fail("AddFaceHalfedges would break manifoldness")
		return InvalidFace
	}
	m.loop = append(m.loop[:0], hs...)
	return m.addFaceLoop(m.loop)
}

// TryAddFace adds the face when feasible and returns InvalidFace otherwise.
func (m *Mesh) TryAddFace(vs ...VertexIndex) FaceIndex {
	if !m.CanAddFace(vs...) {
		return InvalidFace
	}
	return m.AddFace(vs...)
}

func (m *Mesh) addFaceLoop(loop []HalfedgeIndex) FaceIndex {
	n := len(loop)
	for i := range loop {
		ok := m.makeAdjacent(loop[i], loop[(i+1)%n])
		expectf(ok, "AddFace: no free slot at vertex %v (non-manifold)", m.hTo[loop[i]])
	}
	f := m.allocFace()
	for _, h := range loop {
		m.hFace[h] = f
	}
	m.fHalfedge[f] = loop[0]
	for _, h := range loop {
		m.fixVertexBoundary(m.hTo[h])
		if of := m.hFace[h^1]; of.IsValid() {
			m.fixFaceBoundary(of)
		}
	}
	m.fixFaceBoundary(f)
	return f
}

// ---------------------------------------------------------------------------
// Removal
// ---------------------------------------------------------------------------

// RemoveFace tombstones f and turns its loop into free halfedges. Edges and
// vertices stay.
func (m *Mesh) RemoveFace(f FaceIndex) {
	expect(m.IsValidFace(f), "RemoveFace on invalid face")
	for h := range m.faceLoop(m.fHalfedge[f]) {
		m.hFace[h] = InvalidFace
		m.setOutgoing(m.hTo[h^1], h)
		if of := m.hFace[h^1]; of.IsValid() {
			m.fHalfedge[of] = h ^ 1
		}
	}
	m.setFaceRemoved(f)
}

// RemoveEdge removes the faces next to e, then tombstones e. Endpoints that
// lose their last edge become isolated.
func (m *Mesh) RemoveEdge(e EdgeIndex) {
	expect(m.IsValidEdge(e), "RemoveEdge on invalid edge")
	h0, h1 := e.Halfedge(0), e.Halfedge(1)
	if f := m.hFace[h0]; f.IsValid() {
		m.RemoveFace(f)
	}
	if f := m.hFace[h1]; f.IsValid() {
		m.RemoveFace(f)
	}

	a, b := m.hTo[h1], m.hTo[h0]
	n0, p0 := m.hNext[h0], m.hPrev[h0]
	n1, p1 := m.hNext[h1], m.hPrev[h1]

	if m.vOut[b] == h1 {
		if n0 == h1 {
			m.setOutgoing(b, InvalidHalfedge)
		} else {
			m.setOutgoing(b, n0)
		}
	}
	if m.vOut[a] == h0 {
		if n1 == h0 {
			m.setOutgoing(a, InvalidHalfedge)
		} else {
			m.setOutgoing(a, n1)
		}
	}
	m.connect(p1, n0)
	m.connect(p0, n1)
	m.setEdgeRemoved(e)
}

// RemoveVertex removes every edge at v, then tombstones v.
func (m *Mesh) RemoveVertex(v VertexIndex) {
	expect(m.IsValidVertex(v), "RemoveVertex on invalid vertex")
	limit := m.walkLimit()
	for steps := 0; m.vState[v] == VertexValid; steps++ {
		if assertionsEnabled && steps > limit {
			m.corrupted("RemoveVertex", m.vOut[v])
			return
		}
		m.RemoveEdge(m.vOut[v].Edge())
	}
	m.setVertexRemoved(v)
}
