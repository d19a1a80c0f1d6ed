package mesh

// Handles pair an index with the mesh it belongs to. They are plain values;
// a handle stays meaningful until the next Compactify.

type VertexHandle struct {
	Mesh *Mesh
	Idx  VertexIndex
}

type FaceHandle struct {
	Mesh *Mesh
	Idx  FaceIndex
}

type EdgeHandle struct {
	Mesh *Mesh
	Idx  EdgeIndex
}

type HalfedgeHandle struct {
	Mesh *Mesh
	Idx  HalfedgeIndex
}

func (m *Mesh) Vertex(v VertexIndex) VertexHandle { return VertexHandle{m, v} }
func (m *Mesh) Face(f FaceIndex) FaceHandle { return FaceHandle{m, f} }
func (m *Mesh) Edge(e EdgeIndex) EdgeHandle { return EdgeHandle{m, e} }
func (m *Mesh) Halfedge(h HalfedgeIndex) HalfedgeHandle { return HalfedgeHandle{m, h} }

// ---------------------------------------------------------------------------
// VertexHandle
// ---------------------------------------------------------------------------

// IsValid reports whether the handle addresses a live vertex.
func (v VertexHandle) IsValid() bool { return v.Mesh != nil && v.Mesh.IsValidVertex(v.Idx) }
func (v VertexHandle) IsRemoved() bool { return v.Mesh.IsVertexRemoved(v.Idx) }
func (v VertexHandle) IsIsolated() bool { return v.Mesh.IsIsolated(v.Idx) }
func (v VertexHandle) IsBoundary() bool { return v.Mesh.IsBoundaryVertex(v.Idx) }
func (v VertexHandle) State() VertexState { return v.Mesh.VertexState(v.Idx) }
func (v VertexHandle) Valence() int { return v.Mesh.Valence(v.Idx) }

// AnyOutgoing returns the representative outgoing halfedge, invalid when the
// vertex is isolated.
func (v VertexHandle) AnyOutgoing() HalfedgeHandle {
	return HalfedgeHandle{v.Mesh, v.Mesh.Outgoing(v.Idx)}
}

// HalfedgeTo returns the halfedge from v to w, invalid if the vertices are
// not adjacent.
func (v VertexHandle) HalfedgeTo(w VertexHandle) HalfedgeHandle {
	return HalfedgeHandle{v.Mesh, v.Mesh.FindHalfedge(v.Idx, w.Idx)}
}

// ---------------------------------------------------------------------------
// FaceHandle
// ---------------------------------------------------------------------------

func (f FaceHandle) IsValid() bool { return f.Mesh != nil && f.Mesh.IsValidFace(f.Idx) }
func (f FaceHandle) IsRemoved() bool { return f.Mesh.IsFaceRemoved(f.Idx) }
func (f FaceHandle) IsBoundary() bool { return f.Mesh.IsBoundaryFace(f.Idx) }
func (f FaceHandle) Size() int { return f.Mesh.FaceSize(f.Idx) }

func (f FaceHandle) AnyHalfedge() HalfedgeHandle {
	return HalfedgeHandle{f.Mesh, f.Mesh.FaceHalfedge(f.Idx)}
}

// ---------------------------------------------------------------------------
// EdgeHandle
// ---------------------------------------------------------------------------

func (e EdgeHandle) IsValid() bool { return e.Mesh != nil && e.Mesh.IsValidEdge(e.Idx) }
func (e EdgeHandle) IsRemoved() bool { return e.Mesh.IsEdgeRemoved(e.Idx) }
func (e EdgeHandle) IsBoundary() bool { return e.Mesh.IsBoundaryEdge(e.Idx) }

func (e EdgeHandle) Halfedge(side int) HalfedgeHandle {
	return HalfedgeHandle{e.Mesh, e.Idx.Halfedge(side)}
}

func (e EdgeHandle) VertexA() VertexHandle { return e.Halfedge(0).VertexFrom() }
func (e EdgeHandle) VertexB() VertexHandle { return e.Halfedge(0).VertexTo() }
func (e EdgeHandle) FaceA() FaceHandle { return e.Halfedge(0).Face() }
func (e EdgeHandle) FaceB() FaceHandle { return e.Halfedge(1).Face() }

// ---------------------------------------------------------------------------
// HalfedgeHandle
// ---------------------------------------------------------------------------

func (h HalfedgeHandle) IsValid() bool { return h.Mesh != nil && h.Mesh.IsValidHalfedge(h.Idx) }
func (h HalfedgeHandle) IsRemoved() bool { return h.Mesh.IsHalfedgeRemoved(h.Idx) }
func (h HalfedgeHandle) IsBoundary() bool { return h.Mesh.IsBoundaryHalfedge(h.Idx) }

func (h HalfedgeHandle) Next() HalfedgeHandle { return HalfedgeHandle{h.Mesh, h.Mesh.Next(h.Idx)} }
func (h HalfedgeHandle) Prev() HalfedgeHandle { return HalfedgeHandle{h.Mesh, h.Mesh.Prev(h.Idx)} }
func (h HalfedgeHandle) Opposite() HalfedgeHandle { return HalfedgeHandle{h.Mesh, h.Idx.Opposite()} }
func (h HalfedgeHandle) Edge() EdgeHandle { return EdgeHandle{h.Mesh, h.Idx.Edge()} }
func (h HalfedgeHandle) Face() FaceHandle { return FaceHandle{h.Mesh, h.Mesh.HalfedgeFace(h.Idx)} }
func (h HalfedgeHandle) VertexTo() VertexHandle { return VertexHandle{h.Mesh, h.Mesh.ToVertex(h.Idx)} }
func (h HalfedgeHandle) VertexFrom() VertexHandle { return VertexHandle{h.Mesh, h.Mesh.FromVertex(h.Idx)} }

// RotateCW returns the next outgoing halfedge around the origin vertex.
func (h HalfedgeHandle) RotateCW() HalfedgeHandle { return HalfedgeHandle{h.Mesh, h.Mesh.RotateCW(h.Idx)} }

// RotateCCW is the inverse of RotateCW.
func (h HalfedgeHandle) RotateCCW() HalfedgeHandle { return HalfedgeHandle{h.Mesh, h.Mesh.RotateCCW(h.Idx)} }
