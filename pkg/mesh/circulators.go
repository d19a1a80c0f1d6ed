package mesh

import "iter"

// Circulators walk a local neighborhood starting from the representative
// reference of a handle and stop when they return to it.

// Outgoing yields the halfedges leaving v in rotation order.
func (v VertexHandle) Outgoing() iter.Seq[HalfedgeIndex] {
	return v.Mesh.outgoing(v.Idx)
}

// Incoming yields the halfedges arriving at v.
func (v VertexHandle) Incoming() iter.Seq[HalfedgeIndex] {
	return func(yield func(HalfedgeIndex) bool) {
		for h := range v.Mesh.outgoing(v.Idx) {
			if !yield(h ^ 1) {
				return
			}
		}
	}
}

func (v VertexHandle) AdjacentVertices() iter.Seq[VertexIndex] {
	return func(yield func(VertexIndex) bool) {
		m := v.Mesh
		for h := range m.outgoing(v.Idx) {
			if !yield(m.hTo[h]) {
				return
			}
		}
	}
}

func (v VertexHandle) Edges() iter.Seq[EdgeIndex] {
	return func(yield func(EdgeIndex) bool) {
		for h := range v.Mesh.outgoing(v.Idx) {
			if !yield(h.Edge()) {
				return
			}
		}
	}
}

// Faces yields the faces around v. Gaps in the fan are skipped.
func (v VertexHandle) Faces() iter.Seq[FaceIndex] {
	return func(yield func(FaceIndex) bool) {
		m := v.Mesh
		for h := range m.outgoing(v.Idx) {
			if f := m.hFace[h]; f.IsValid() && !yield(f) {
				return
			}
		}
	}
}

// Halfedges yields the boundary loop of f.
func (f FaceHandle) Halfedges() iter.Seq[HalfedgeIndex] {
	return f.Mesh.faceLoop(f.Mesh.fHalfedge[f.Idx])
}

// Vertices yields the corners of f, starting at the origin of its
// representative halfedge.
func (f FaceHandle) Vertices() iter.Seq[VertexIndex] {
	return func(yield func(VertexIndex) bool) {
		m := f.Mesh
		for h := range m.faceLoop(m.fHalfedge[f.Idx]) {
			if !yield(m.hTo[h^1]) {
				return
			}
		}
	}
}

func (f FaceHandle) Edges() iter.Seq[EdgeIndex] {
	return func(yield func(EdgeIndex) bool) {
		for h := range f.Mesh.faceLoop(f.Mesh.fHalfedge[f.Idx]) {
			if !yield(h.Edge()) {
				return
			}
		}
	}
}

// AdjacentFaces yields the faces across each boundary halfedge of f. Free
// halfedges are skipped.
func (f FaceHandle) AdjacentFaces() iter.Seq[FaceIndex] {
	return func(yield func(FaceIndex) bool) {
		m := f.Mesh
		for h := range m.faceLoop(m.fHalfedge[f.Idx]) {
			if g := m.hFace[h^1]; g.IsValid() && !yield(g) {
				return
			}
		}
	}
}

// Loop yields the next-cycle through h: a face loop or a free chain.
func (h HalfedgeHandle) Loop() iter.Seq[HalfedgeIndex] {
	return h.Mesh.faceLoop(h.Idx)
}
