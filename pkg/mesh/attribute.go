package mesh

import "weak"

// Attribute is a dense per-primitive array registered with a mesh. Its length
// always covers every allocated slot, removed ones included; removed slots
// hold the default value.
//
// Attributes are created through the factories (NewVertexAttribute and
// friends), follow every growth, removal and compaction of their mesh, and
// stop doing so after Release or once they become unreachable.
type Attribute[I Index, T any] struct {
	mesh     *Mesh
	data     []T
	def      T
	slot     int
	gen      uint32
	attached bool
}

type (
	VertexAttribute[T any]   = Attribute[VertexIndex, T]
	FaceAttribute[T any]     = Attribute[FaceIndex, T]
	EdgeAttribute[T any]     = Attribute[EdgeIndex, T]
	HalfedgeAttribute[T any] = Attribute[HalfedgeIndex, T]
)

func NewVertexAttribute[T any](m *Mesh, def T) *VertexAttribute[T] {
	return newAttribute[VertexIndex](m, def)
}

func NewFaceAttribute[T any](m *Mesh, def T) *FaceAttribute[T] {
	return newAttribute[FaceIndex](m, def)
}

func NewEdgeAttribute[T any](m *Mesh, def T) *EdgeAttribute[T] {
	return newAttribute[EdgeIndex](m, def)
}

func NewHalfedgeAttribute[T any](m *Mesh, def T) *HalfedgeAttribute[T] {
	return newAttribute[HalfedgeIndex](m, def)
}

// NewAttribute is the generic factory behind the per-kind constructors.
func NewAttribute[I Index, T any](m *Mesh, def T) *Attribute[I, T] {
	return newAttribute[I](m, def)
}

func newAttribute[I Index, T any](m *Mesh, def T) *Attribute[I, T] {
	var zero I
	k := zero.Kind()
	r := &m.attrs[k]
	a := &Attribute[I, T]{mesh: m, def: def}
	a.data = make([]T, max(r.capacity, m.allCount(k)))
	a.fillDefault(a.data)
	wp := weak.Make(a)
	a.slot, a.gen = r.register(func() observer {
		if p := wp.Value(); p != nil {
			return p
		}
		return nil
	})
	a.attached = true
	return a
}

func (a *Attribute[I, T]) fillDefault(s []T) {
	for i := range s {
		s[i] = a.def
	}
}

func (a *Attribute[I, T]) kind() Kind {
	var zero I
	return zero.Kind()
}

// Mesh returns the mesh the attribute belongs to.
func (a *Attribute[I, T]) Mesh() *Mesh { return a.mesh }

// Default returns the value held by fresh and removed slots.
func (a *Attribute[I, T]) Default() T { return a.def }

// Len is the number of addressable slots, equal to the mesh's all-count.
func (a *Attribute[I, T]) Len() int { return a.mesh.allCount(a.kind()) }

// Attached reports whether the attribute still follows its mesh.
func (a *Attribute[I, T]) Attached() bool { return a.attached }

func (a *Attribute[I, T]) checkIndex(i I) {
	expect(a.attached, "attribute used after Release")
	expectf(i.IsValid() && int(i) < a.Len(), "attribute index %d out of range [0,%d)", int32(i), a.Len())
}

func (a *Attribute[I, T]) At(i I) T {
	a.checkIndex(i)
	return a.data[i]
}

// Ptr returns a pointer to the slot of i. It is invalidated by any mesh
// growth or compaction.
func (a *Attribute[I, T]) Ptr(i I) *T {
	a.checkIndex(i)
	return &a.data[i]
}

func (a *Attribute[I, T]) Set(i I, v T) {
	a.checkIndex(i)
	a.data[i] = v
}

// Clear resets every slot to the default value.
func (a *Attribute[I, T]) Clear() {
	a.fillDefault(a.data)
}

// Compute assigns fn(i) to every valid primitive.
func (a *Attribute[I, T]) Compute(fn func(I) T) {
	k := a.kind()
	for i := range a.Len() {
		if !a.mesh.isRemoved(k, i) {
			a.data[i] = fn(I(i))
		}
	}
}

// Apply calls fn on the slot of every valid primitive.
func (a *Attribute[I, T]) Apply(fn func(I, *T)) {
	k := a.kind()
	for i := range a.Len() {
		if !a.mesh.isRemoved(k, i) {
			fn(I(i), &a.data[i])
		}
	}
}

// CopyTo copies values index by index into dst, which may belong to another
// mesh. Only the common prefix of both lengths is copied.
func (a *Attribute[I, T]) CopyTo(dst *Attribute[I, T]) {
	n := min(a.Len(), dst.Len())
	copy(dst.data[:n], a.data[:n])
}

// FromSlice copies vals into the slots, up to the shorter of both lengths.
func (a *Attribute[I, T]) FromSlice(vals []T) {
	expect(a.attached, "attribute used after Release")
	copy(a.data[:a.Len()], vals)
}

// ToSlice exports a copy of all slots, removed ones included.
func (a *Attribute[I, T]) ToSlice() []T {
	out := make([]T, a.Len())
	copy(out, a.data)
	return out
}

// Release detaches the attribute from its mesh. Further access asserts.
func (a *Attribute[I, T]) Release() {
	if !a.attached {
		return
	}
	a.mesh.attrs[a.kind()].unregister(a.slot, a.gen)
	a.attached = false
	a.data = nil
}

// Map returns a new attribute holding fn applied to every valid slot of src.
// Removed slots hold def.
func Map[I Index, T, U any](src *Attribute[I, T], def U, fn func(T) U) *Attribute[I, U] {
	dst := newAttribute[I](src.mesh, def)
	dst.Compute(func(i I) U { return fn(src.data[i]) })
	return dst
}

// ---------------------------------------------------------------------------
// observer
// ---------------------------------------------------------------------------

func (a *Attribute[I, T]) resize(n int) {
	data := make([]T, n)
	c := copy(data, a.data)
	a.fillDefault(data[c:])
	a.data = data
}

func (a *Attribute[I, T]) reset(i int) {
	if i < len(a.data) {
		a.data[i] = a.def
	}
}

func (a *Attribute[I, T]) resetAll() {
	a.fillDefault(a.data)
}

func (a *Attribute[I, T]) permute(swaps []swap) {
	for _, s := range swaps {
		a.data[s.a], a.data[s.b] = a.data[s.b], a.data[s.a]
	}
}

// ---------------------------------------------------------------------------

// AllCount returns the number of allocated slots of kind k.
func (m *Mesh) AllCount(k Kind) int { return m.allCount(k) }

func (m *Mesh) allCount(k Kind) int {
	switch k {
	case KindVertex:
		return m.nVertices
	case KindFace:
		return m.nFaces
	case KindEdge:
		return m.nEdges
	case KindHalfedge:
		return 2 * m.nEdges
	}
	return 0
}

func (m *Mesh) isRemoved(k Kind, i int) bool {
	switch k {
	case KindVertex:
		return m.IsVertexRemoved(VertexIndex(i))
	case KindFace:
		return m.IsFaceRemoved(FaceIndex(i))
	case KindEdge:
		return m.IsEdgeRemoved(EdgeIndex(i))
	case KindHalfedge:
		return m.IsHalfedgeRemoved(HalfedgeIndex(i))
	}
	return true
}
