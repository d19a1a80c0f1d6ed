package mesh

import "iter"

// Vertices yields every live vertex. Removed slots are skipped.
func (m *Mesh) Vertices() iter.Seq[VertexIndex] {
	return func(yield func(VertexIndex) bool) {
		for i := range m.nVertices {
			if m.vState[i] != VertexRemoved && !yield(VertexIndex(i)) {
				return
			}
		}
	}
}

// AllVertices yields every allocated vertex slot, removed ones included.
func (m *Mesh) AllVertices() iter.Seq[VertexIndex] {
	return func(yield func(VertexIndex) bool) {
		for i := range m.nVertices {
			if !yield(VertexIndex(i)) {
				return
			}
		}
	}
}

func (m *Mesh) Faces() iter.Seq[FaceIndex] {
	return func(yield func(FaceIndex) bool) {
		for i := range m.nFaces {
			if m.fHalfedge[i].IsValid() && !yield(FaceIndex(i)) {
				return
			}
		}
	}
}

func (m *Mesh) AllFaces() iter.Seq[FaceIndex] {
	return func(yield func(FaceIndex) bool) {
		for i := range m.nFaces {
			if !yield(FaceIndex(i)) {
				return
			}
		}
	}
}

func (m *Mesh) Edges() iter.Seq[EdgeIndex] {
	return func(yield func(EdgeIndex) bool) {
		for i := range m.nEdges {
			if m.hTo[2*i].IsValid() && !yield(EdgeIndex(i)) {
				return
			}
		}
	}
}

func (m *Mesh) AllEdges() iter.Seq[EdgeIndex] {
	return func(yield func(EdgeIndex) bool) {
		for i := range m.nEdges {
			if !yield(EdgeIndex(i)) {
				return
			}
		}
	}
}

func (m *Mesh) Halfedges() iter.Seq[HalfedgeIndex] {
	return func(yield func(HalfedgeIndex) bool) {
		for i := range 2 * m.nEdges {
			if m.hTo[i].IsValid() && !yield(HalfedgeIndex(i)) {
				return
			}
		}
	}
}

func (m *Mesh) AllHalfedges() iter.Seq[HalfedgeIndex] {
	return func(yield func(HalfedgeIndex) bool) {
		for i := range 2 * m.nEdges {
			if !yield(HalfedgeIndex(i)) {
				return
			}
		}
	}
}

// BoundaryHalfedges yields the live free halfedges.
func (m *Mesh) BoundaryHalfedges() iter.Seq[HalfedgeIndex] {
	return func(yield func(HalfedgeIndex) bool) {
		for h := range m.Halfedges() {
			if m.IsBoundaryHalfedge(h) && !yield(h) {
				return
			}
		}
	}
}

// Collect drains a sequence into a slice.
func Collect[T any](seq iter.Seq[T]) []T {
	var out []T
	for x := range seq {
		out = append(out, x)
	}
	return out
}

// Count drains a sequence and counts its elements.
func Count[T any](seq iter.Seq[T]) int {
	n := 0
	for range seq {
		n++
	}
	return n
}
