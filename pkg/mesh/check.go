package mesh

import (
	"fmt"
	"strings"

	"github.com/bits-and-blooms/bitset"
)

// Violation is one broken invariant found by Check.
type Violation struct {
	Code    string
	Message string
	Kind    Kind
	Index   int32
}

func (v Violation) Error() string {
	if v.Index < 0 {
		return fmt.Sprintf("%s: %s", v.Code, v.Message)
	}
	return fmt.Sprintf("%s: %s (%s %d)", v.Code, v.Message, v.Kind, v.Index)
}

// checker re-derives every invariant from the raw arrays. It never uses the
// asserting walks, so it can inspect corrupted meshes.
type checker struct {
	m    *Mesh
	out  []Violation
	seen *bitset.BitSet
}

// Check scans the whole mesh and returns every violated invariant. A
// consistent mesh yields nil.
func (m *Mesh) Check() []Violation {
	c := &checker{m: m, seen: bitset.New(uint(2 * m.nEdges))}
	if !c.checkCounts() {
		return c.out
	}
	c.checkHalfedges()
	c.checkFaces()
	c.checkVertices()
	c.checkReachability()
	c.checkDuplicates()
	return c.out
}

// AssertConsistency fails an assertion when Check finds any violation.
func (m *Mesh) AssertConsistency() {
	vs := m.Check()
	if len(vs) == 0 {
		return
	}
	msgs := make([]string, 0, 4)
	for i, v := range vs {
		if i == 3 {
			msgs = append(msgs, fmt.Sprintf("and %d more", len(vs)-3))
			break
		}
		msgs = append(msgs, v.Error())
	}
	fail("mesh is inconsistent: " + strings.Join(msgs, "; "))
}

func (c *checker) add(code string, k Kind, idx int32, format string, args ...interface{}) {
	c.out = append(c.out, Violation{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Kind:    k,
		Index:   idx,
	})
}

func (c *checker) validHalfedge(h HalfedgeIndex) bool {
	return c.m.ContainsHalfedge(h) && c.m.hTo[h].IsValid()
}

// ---------------------------------------------------------------------------

func (c *checker) checkCounts() bool {
	m := c.m
	if len(m.vState) < m.nVertices || len(m.fHalfedge) < m.nFaces || len(m.hTo) < 2*m.nEdges {
		c.add("CAPACITY", KindVertex, -1, "array shorter than its count")
		return false
	}
	var rv, rf, re int
	for v := range m.nVertices {
		if m.vState[v] == VertexRemoved {
			rv++
		}
	}
	for f := range m.nFaces {
		if !m.fHalfedge[f].IsValid() {
			rf++
		}
	}
	for e := range m.nEdges {
		a, b := m.hTo[2*e].IsValid(), m.hTo[2*e+1].IsValid()
		if a != b {
			c.add("HALF_REMOVED_EDGE", KindEdge, int32(e), "only one halfedge is tombstoned")
		}
		if !a {
			re++
		}
	}
	if rv != m.removedVertices {
		c.add("REMOVED_COUNT", KindVertex, -1, "counted %d removed vertices, bookkeeping says %d", rv, m.removedVertices)
	}
	if rf != m.removedFaces {
		c.add("REMOVED_COUNT", KindFace, -1, "counted %d removed faces, bookkeeping says %d", rf, m.removedFaces)
	}
	if re != m.removedEdges {
		c.add("REMOVED_COUNT", KindEdge, -1, "counted %d removed edges, bookkeeping says %d", re, m.removedEdges)
	}
	if m.IsCompact() != (rv == 0 && rf == 0 && re == 0) {
		c.add("COMPACT_FLAG", KindVertex, -1, "compact flag disagrees with tombstones")
	}
	return true
}

func (c *checker) checkHalfedges() {
	m := c.m
	for i := range 2 * m.nEdges {
		h := HalfedgeIndex(i)
		if !m.hTo[h].IsValid() {
			continue
		}
		n, p := m.hNext[h], m.hPrev[h]
		if !c.validHalfedge(n) || !c.validHalfedge(p) {
			c.add("DANGLING_LINK", KindHalfedge, int32(h), "next %v or prev %v is not a live halfedge", n, p)
			continue
		}
		if m.hPrev[n] != h || m.hNext[p] != h {
			c.add("NEXT_PREV", KindHalfedge, int32(h), "next and prev are not inverse")
		}
		if !m.IsValidVertex(m.hTo[h]) {
			c.add("REMOVED_REFERENCE", KindHalfedge, int32(h), "points to removed vertex %v", m.hTo[h])
		} else if m.FromVertex(n) != m.hTo[h] {
			c.add("CHAIN", KindHalfedge, int32(h), "next starts at %v, not at %v", m.FromVertex(n), m.hTo[h])
		}
		if f := m.hFace[h]; f.IsValid() && !m.IsValidFace(f) {
			c.add("REMOVED_REFERENCE", KindHalfedge, int32(h), "belongs to removed face %v", f)
		}
		if m.hFace[n] != m.hFace[h] {
			c.add("FACE_LOOP", KindHalfedge, int32(h), "next belongs to face %v, not %v", m.hFace[n], m.hFace[h])
		}
		if m.hTo[h] == m.hTo[h^1] {
			c.add("LOOP_EDGE", KindHalfedge, int32(h), "both ends are %v", m.hTo[h])
		}
	}
}

func (c *checker) checkFaces() {
	m := c.m
	limit := m.walkLimit()
	for i := range m.nFaces {
		f := FaceIndex(i)
		rep := m.fHalfedge[f]
		if !rep.IsValid() {
			continue
		}
		if !c.validHalfedge(rep) {
			c.add("REMOVED_REFERENCE", KindFace, int32(f), "representative %v is not a live halfedge", rep)
			continue
		}
		if m.hFace[rep] != f {
			c.add("FACE_LOOP", KindFace, int32(f), "representative %v belongs to face %v", rep, m.hFace[rep])
			continue
		}
		exposed := false
		h, steps := rep, 0
		for {
			if m.hFace[h] != f {
				break
			}
			if m.IsBoundaryHalfedge(h ^ 1) {
				exposed = true
			}
			h = m.hNext[h]
			steps++
			if h == rep || steps > limit || !c.validHalfedge(h) {
				break
			}
		}
		if h != rep {
			c.add("FACE_LOOP", KindFace, int32(f), "boundary loop does not close")
			continue
		}
		if steps < 3 {
			c.add("DEGENERATE_FACE", KindFace, int32(f), "face has %d sides", steps)
		}
		if exposed && !m.IsBoundaryHalfedge(rep^1) {
			c.add("BOUNDARY_REP", KindFace, int32(f), "face touches the boundary but its representative does not")
		}
	}
}

func (c *checker) checkVertices() {
	m := c.m
	limit := m.walkLimit()
	for i := range m.nVertices {
		v := VertexIndex(i)
		switch m.vState[v] {
		case VertexRemoved, VertexIsolated:
			if m.vOut[v].IsValid() {
				c.add("VERTEX_STATE", KindVertex, int32(v), "%s vertex keeps outgoing %v", m.vState[v], m.vOut[v])
			}
			continue
		case VertexValid:
		default:
			c.add("VERTEX_STATE", KindVertex, int32(v), "unknown state %d", m.vState[v])
			continue
		}
		start := m.vOut[v]
		if !c.validHalfedge(start) {
			c.add("REMOVED_REFERENCE", KindVertex, int32(v), "outgoing %v is not a live halfedge", start)
			continue
		}
		free := false
		h, steps := start, 0
		for {
			if m.FromVertex(h) != v {
				c.add("ROTATION", KindVertex, int32(v), "halfedge %v in the rotation starts at %v", h, m.FromVertex(h))
				break
			}
			if c.seen.Test(uint(h)) {
				c.add("ROTATION", KindVertex, int32(v), "halfedge %v reached from two rotations", h)
				break
			}
			c.seen.Set(uint(h))
			if m.IsBoundaryHalfedge(h) {
				free = true
			}
			h = m.hNext[h^1]
			steps++
			if h == start || steps > limit || !c.validHalfedge(h) {
				break
			}
		}
		if h != start {
			c.add("ROTATION", KindVertex, int32(v), "rotation does not close")
			continue
		}
		if free && !m.IsBoundaryHalfedge(start) {
			c.add("BOUNDARY_REP", KindVertex, int32(v), "vertex has a free outgoing halfedge but its representative is not free")
		}
	}
}

func (c *checker) checkReachability() {
	m := c.m
	live := uint(m.HalfedgeCount())
	if got := c.seen.Count(); got != live {
		c.add("UNREACHABLE", KindHalfedge, -1, "%d of %d live halfedges are reachable from vertex rotations", got, live)
	}
}

func (c *checker) checkDuplicates() {
	m := c.m
	pairs := make(map[[2]VertexIndex]HalfedgeIndex, m.HalfedgeCount())
	for i := range 2 * m.nEdges {
		h := HalfedgeIndex(i)
		if !m.hTo[h].IsValid() {
			continue
		}
		key := [2]VertexIndex{m.FromVertex(h), m.hTo[h]}
		if prev, ok := pairs[key]; ok {
			c.add("DUPLICATE_HALFEDGE", KindHalfedge, int32(h), "same endpoints as %v", prev)
			continue
		}
		pairs[key] = h
	}
}
