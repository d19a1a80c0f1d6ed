package mesh

import "strconv"

// Kind identifies a primitive family.
type Kind uint8

const (
	KindVertex Kind = iota
	KindFace
	KindEdge
	KindHalfedge
	kindCount
)

func (k Kind) String() string {
	switch k {
	case KindVertex:
		return "vertex"
	case KindFace:
		return "face"
	case KindEdge:
		return "edge"
	case KindHalfedge:
		return "halfedge"
	default:
		return "unknown"
	}
}

// Index is implemented by the four primitive index types.
type Index interface {
	~int32
	Kind() Kind
	IsValid() bool
}

// VertexIndex addresses a vertex slot. Negative values are invalid.
type VertexIndex int32

// FaceIndex addresses a face slot. Negative values are invalid.
type FaceIndex int32

// EdgeIndex addresses an edge slot. Edge e owns halfedges 2e and 2e+1.
type EdgeIndex int32

// HalfedgeIndex addresses a halfedge slot. The opposite of h is h^1.
type HalfedgeIndex int32

const (
	InvalidVertex   VertexIndex   = -1
	InvalidFace     FaceIndex     = -1
	InvalidEdge     EdgeIndex     = -1
	InvalidHalfedge HalfedgeIndex = -1
)

func (VertexIndex) Kind() Kind { return KindVertex }
func (FaceIndex) Kind() Kind { return KindFace }
func (EdgeIndex) Kind() Kind { return KindEdge }
func (HalfedgeIndex) Kind() Kind { return KindHalfedge }

func (i VertexIndex) IsValid() bool { return i >= 0 }
func (i FaceIndex) IsValid() bool { return i >= 0 }
func (i EdgeIndex) IsValid() bool { return i >= 0 }
func (i HalfedgeIndex) IsValid() bool { return i >= 0 }

func (i VertexIndex) String() string { return indexString("v", int32(i)) }
func (i FaceIndex) String() string { return indexString("f", int32(i)) }
func (i EdgeIndex) String() string { return indexString("e", int32(i)) }
func (i HalfedgeIndex) String() string { return indexString("h", int32(i)) }

func indexString(prefix string, i int32) string {
	if i < 0 {
		return prefix + "<invalid>"
	}
	return prefix + strconv.Itoa(int(i))
}

// Opposite returns the paired halfedge.
func (h HalfedgeIndex) Opposite() HalfedgeIndex { return h ^ 1 }

// Edge returns the edge that owns h.
func (h HalfedgeIndex) Edge() EdgeIndex { return EdgeIndex(h >> 1) }

// Halfedge returns halfedge side (0 or 1) of e.
func (e EdgeIndex) Halfedge(side int) HalfedgeIndex {
	return HalfedgeIndex(int32(e)<<1 | int32(side&1))
}

// VertexState is the tagged state of a vertex slot. The outgoing halfedge is
// meaningful only for VertexValid.
type VertexState uint8

const (
	VertexIsolated VertexState = iota
	VertexValid
	VertexRemoved
)

func (s VertexState) String() string {
	switch s {
	case VertexIsolated:
		return "isolated"
	case VertexValid:
		return "valid"
	case VertexRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// On-disk encodings of the non-valid vertex states.
const (
	encodedIsolated int32 = -1
	encodedRemoved  int32 = -2
)
