package mesh

import "github.com/chazu/polymesh/pkg/logging"

const minCapacity = 16

// noCopy triggers the vet copylocks check. A Mesh is identified by its
// address; copying it would detach registered attributes.
type noCopy struct{}

func (*noCopy) Lock() {}
func (*noCopy) Unlock() {}

// Mesh is the topology store. Create one with New and always pass it by
// pointer.
type Mesh struct {
	noCopy noCopy

	vOut   []HalfedgeIndex
	vState []VertexState

	fHalfedge []HalfedgeIndex

	hTo   []VertexIndex
	hFace []FaceIndex
	hNext []HalfedgeIndex
	hPrev []HalfedgeIndex

	nVertices, nFaces, nEdges int

	removedVertices, removedFaces, removedEdges int

	attrs [kindCount]registry

	loop []HalfedgeIndex
}

// New returns an empty mesh.
func New() *Mesh {
	return &Mesh{}
}

// ---------------------------------------------------------------------------
// Counts
// ---------------------------------------------------------------------------

func (m *Mesh) AllVertexCount() int { return m.nVertices }
func (m *Mesh) AllFaceCount() int { return m.nFaces }
func (m *Mesh) AllEdgeCount() int { return m.nEdges }
func (m *Mesh) AllHalfedgeCount() int { return 2 * m.nEdges }

func (m *Mesh) RemovedVertexCount() int { return m.removedVertices }
func (m *Mesh) RemovedFaceCount() int { return m.removedFaces }
func (m *Mesh) RemovedEdgeCount() int { return m.removedEdges }
func (m *Mesh) RemovedHalfedgeCount() int { return 2 * m.removedEdges }

func (m *Mesh) VertexCount() int { return m.nVertices - m.removedVertices }
func (m *Mesh) FaceCount() int { return m.nFaces - m.removedFaces }
func (m *Mesh) EdgeCount() int { return m.nEdges - m.removedEdges }
func (m *Mesh) HalfedgeCount() int { return 2 * m.EdgeCount() }

// IsCompact reports whether no primitive of any kind is tombstoned.
func (m *Mesh) IsCompact() bool {
	return m.removedVertices == 0 && m.removedFaces == 0 && m.removedEdges == 0
}

// IsEmpty reports whether the mesh holds no valid primitive.
func (m *Mesh) IsEmpty() bool {
	return m.VertexCount() == 0 && m.FaceCount() == 0 && m.EdgeCount() == 0
}

// ---------------------------------------------------------------------------
// Capacity
// ---------------------------------------------------------------------------

func grownCapacity(old int) int {
	return max(2*old, minCapacity)
}

func growSlice[T any](s []T, n int) []T {
	out := make([]T, n)
	copy(out, s)
	return out
}

// Reserve ensures capacity for at least the given numbers of vertices, faces
// and edges without further reallocation.
func (m *Mesh) Reserve(vertices, faces, edges int) {
	if vertices > len(m.vState) {
		m.resizeVertices(vertices)
	}
	if faces > len(m.fHalfedge) {
		m.resizeFaces(faces)
	}
	if edges > len(m.hTo)/2 {
		m.resizeEdges(edges)
	}
}

func (m *Mesh) resizeVertices(n int) {
	m.vOut = growSlice(m.vOut, n)
	m.vState = growSlice(m.vState, n)
}

func (m *Mesh) resizeFaces(n int) {
	m.fHalfedge = growSlice(m.fHalfedge, n)
}

func (m *Mesh) resizeEdges(n int) {
	m.hTo = growSlice(m.hTo, 2*n)
	m.hFace = growSlice(m.hFace, 2*n)
	m.hNext = growSlice(m.hNext, 2*n)
	m.hPrev = growSlice(m.hPrev, 2*n)
}

// ShrinkToFit drops unused capacity of the topology arrays and of every
// registered attribute.
func (m *Mesh) ShrinkToFit() {
	m.resizeVertices(m.nVertices)
	m.resizeFaces(m.nFaces)
	m.resizeEdges(m.nEdges)
	m.attrs[KindVertex].shrink(m.nVertices)
	m.attrs[KindFace].shrink(m.nFaces)
	m.attrs[KindEdge].shrink(m.nEdges)
	m.attrs[KindHalfedge].shrink(2 * m.nEdges)
}

// ---------------------------------------------------------------------------
// Lifecycle
// ---------------------------------------------------------------------------

// Clear removes every primitive but keeps capacity and attribute
// registrations. All attribute slots return to their defaults.
func (m *Mesh) Clear() {
	m.nVertices, m.nFaces, m.nEdges = 0, 0, 0
	m.removedVertices, m.removedFaces, m.removedEdges = 0, 0, 0
	for k := range m.attrs {
		m.attrs[k].resetAll()
	}
}

// Reset clears the mesh and releases all capacity.
func (m *Mesh) Reset() {
	m.Clear()
	m.ShrinkToFit()
}

// Copy returns a new mesh with the same topology. Attributes are not copied;
// use Attribute.CopyTo for that.
func (m *Mesh) Copy() *Mesh {
	c := New()
	c.CopyFrom(m)
	return c
}

// CopyFrom replaces the topology of m with that of src, keeping the
// attributes registered on m. Attribute values are reset to defaults.
func (m *Mesh) CopyFrom(src *Mesh) {
	if m == src {
		return
	}
	m.Clear()
	m.Reserve(src.nVertices, src.nFaces, src.nEdges)
	m.nVertices, m.nFaces, m.nEdges = src.nVertices, src.nFaces, src.nEdges
	m.removedVertices, m.removedFaces, m.removedEdges = src.removedVertices, src.removedFaces, src.removedEdges
	copy(m.vOut, src.vOut[:src.nVertices])
	copy(m.vState, src.vState[:src.nVertices])
	copy(m.fHalfedge, src.fHalfedge[:src.nFaces])
	n := 2 * src.nEdges
	copy(m.hTo, src.hTo[:n])
	copy(m.hFace, src.hFace[:n])
	copy(m.hNext, src.hNext[:n])
	copy(m.hPrev, src.hPrev[:n])
	m.attrs[KindVertex].ensure(m.nVertices)
	m.attrs[KindFace].ensure(m.nFaces)
	m.attrs[KindEdge].ensure(m.nEdges)
	m.attrs[KindHalfedge].ensure(n)
	logging.Debug("mesh copied", "vertices", m.VertexCount(), "faces", m.FaceCount(), "edges", m.EdgeCount())
}

// ---------------------------------------------------------------------------
// Allocation
// ---------------------------------------------------------------------------

// AddVertex appends an isolated vertex.
func (m *Mesh) AddVertex() VertexIndex {
	if m.nVertices == len(m.vState) {
		m.resizeVertices(grownCapacity(len(m.vState)))
	}
	v := VertexIndex(m.nVertices)
	m.nVertices++
	m.vState[v] = VertexIsolated
	m.vOut[v] = InvalidHalfedge
	m.attrs[KindVertex].ensure(m.nVertices)
	return v
}

// AddVertices appends n isolated vertices and returns the first index.
func (m *Mesh) AddVertices(n int) VertexIndex {
	expect(n >= 0, "negative vertex count")
	first := VertexIndex(m.nVertices)
	if m.nVertices+n > len(m.vState) {
		m.resizeVertices(max(m.nVertices+n, grownCapacity(len(m.vState))))
	}
	for i := 0; i < n; i++ {
		m.vState[m.nVertices] = VertexIsolated
		m.vOut[m.nVertices] = InvalidHalfedge
		m.nVertices++
	}
	m.attrs[KindVertex].ensure(m.nVertices)
	return first
}

func (m *Mesh) allocFace() FaceIndex {
	if m.nFaces == len(m.fHalfedge) {
		m.resizeFaces(grownCapacity(len(m.fHalfedge)))
	}
	f := FaceIndex(m.nFaces)
	m.nFaces++
	m.fHalfedge[f] = InvalidHalfedge
	m.attrs[KindFace].ensure(m.nFaces)
	return f
}

// allocEdge appends an edge with halfedge 2e pointing to 'to' and 2e+1 to
// 'from'. Both halfedges are boundary and wired to each other.
func (m *Mesh) allocEdge(from, to VertexIndex) HalfedgeIndex {
	if 2*m.nEdges == len(m.hTo) {
		m.resizeEdges(grownCapacity(len(m.hTo) / 2))
	}
	e := EdgeIndex(m.nEdges)
	m.nEdges++
	h0, h1 := e.Halfedge(0), e.Halfedge(1)
	m.hTo[h0], m.hTo[h1] = to, from
	m.hFace[h0], m.hFace[h1] = InvalidFace, InvalidFace
	m.connect(h0, h1)
	m.connect(h1, h0)
	m.attrs[KindEdge].ensure(m.nEdges)
	m.attrs[KindHalfedge].ensure(2 * m.nEdges)
	return h0
}

// ---------------------------------------------------------------------------
// Tombstones
// ---------------------------------------------------------------------------

func (m *Mesh) setVertexRemoved(v VertexIndex) {
	expect(m.vState[v] != VertexRemoved, "vertex already removed")
	m.vState[v] = VertexRemoved
	m.vOut[v] = InvalidHalfedge
	m.removedVertices++
	m.attrs[KindVertex].reset(int(v))
}

func (m *Mesh) setFaceRemoved(f FaceIndex) {
	expect(m.fHalfedge[f].IsValid(), "face already removed")
	m.fHalfedge[f] = InvalidHalfedge
	m.removedFaces++
	m.attrs[KindFace].reset(int(f))
}

func (m *Mesh) setEdgeRemoved(e EdgeIndex) {
	h0, h1 := e.Halfedge(0), e.Halfedge(1)
	expect(m.hTo[h0].IsValid(), "edge already removed")
	m.hTo[h0], m.hTo[h1] = InvalidVertex, InvalidVertex
	m.hFace[h0], m.hFace[h1] = InvalidFace, InvalidFace
	m.removedEdges++
	m.attrs[KindEdge].reset(int(e))
	m.attrs[KindHalfedge].reset(int(h0))
	m.attrs[KindHalfedge].reset(int(h1))
}

// ---------------------------------------------------------------------------
// Primitive state
// ---------------------------------------------------------------------------

// ContainsVertex reports whether v addresses an allocated slot, removed or not.
func (m *Mesh) ContainsVertex(v VertexIndex) bool { return v.IsValid() && int(v) < m.nVertices }
func (m *Mesh) ContainsFace(f FaceIndex) bool { return f.IsValid() && int(f) < m.nFaces }
func (m *Mesh) ContainsEdge(e EdgeIndex) bool { return e.IsValid() && int(e) < m.nEdges }
func (m *Mesh) ContainsHalfedge(h HalfedgeIndex) bool {
	return h.IsValid() && int(h) < 2*m.nEdges
}

func (m *Mesh) IsVertexRemoved(v VertexIndex) bool { return m.vState[v] == VertexRemoved }
func (m *Mesh) IsFaceRemoved(f FaceIndex) bool { return !m.fHalfedge[f].IsValid() }
func (m *Mesh) IsEdgeRemoved(e EdgeIndex) bool { return !m.hTo[e.Halfedge(0)].IsValid() }
func (m *Mesh) IsHalfedgeRemoved(h HalfedgeIndex) bool { return !m.hTo[h].IsValid() }

// IsValidVertex reports whether v addresses a live vertex.
func (m *Mesh) IsValidVertex(v VertexIndex) bool {
	return m.ContainsVertex(v) && !m.IsVertexRemoved(v)
}

func (m *Mesh) IsValidFace(f FaceIndex) bool {
	return m.ContainsFace(f) && !m.IsFaceRemoved(f)
}

func (m *Mesh) IsValidEdge(e EdgeIndex) bool {
	return m.ContainsEdge(e) && !m.IsEdgeRemoved(e)
}

func (m *Mesh) IsValidHalfedge(h HalfedgeIndex) bool {
	return m.ContainsHalfedge(h) && !m.IsHalfedgeRemoved(h)
}

func (m *Mesh) VertexState(v VertexIndex) VertexState { return m.vState[v] }
func (m *Mesh) IsIsolated(v VertexIndex) bool { return m.vState[v] == VertexIsolated }
