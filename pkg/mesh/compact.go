package mesh

import "github.com/chazu/polymesh/pkg/logging"

// Compactify moves every live primitive to the front of its arrays and drops
// the tombstones. All registered attributes are permuted in the same pass.
// Every index and handle held before the call is invalidated.
func (m *Mesh) Compactify() {
	if m.IsCompact() {
		return
	}
	before := [3]int{m.nVertices, m.nFaces, m.nEdges}

	vPerm, vMap := permutation(m.nVertices, func(i int) bool { return m.IsVertexRemoved(VertexIndex(i)) })
	fPerm, fMap := permutation(m.nFaces, func(i int) bool { return m.IsFaceRemoved(FaceIndex(i)) })
	ePerm, eMap := permutation(m.nEdges, func(i int) bool { return m.IsEdgeRemoved(EdgeIndex(i)) })

	remapH := func(h HalfedgeIndex) HalfedgeIndex {
		return HalfedgeIndex(eMap[h>>1]<<1 | int32(h&1))
	}

	// rewrite references while the old slots are still in place
	for v := range m.nVertices {
		if m.vState[v] == VertexValid {
			m.vOut[v] = remapH(m.vOut[v])
		}
	}
	for f := range m.nFaces {
		if h := m.fHalfedge[f]; h.IsValid() {
			m.fHalfedge[f] = remapH(h)
		}
	}
	for h := range 2 * m.nEdges {
		if !m.hTo[h].IsValid() {
			continue
		}
		m.hTo[h] = VertexIndex(vMap[m.hTo[h]])
		if f := m.hFace[h]; f.IsValid() {
			m.hFace[h] = FaceIndex(fMap[f])
		}
		m.hNext[h] = remapH(m.hNext[h])
		m.hPrev[h] = remapH(m.hPrev[h])
	}

	vSwaps := transpositions(vPerm)
	fSwaps := transpositions(fPerm)
	eSwaps := transpositions(ePerm)
	hSwaps := make([]swap, 0, 2*len(eSwaps))
	for _, s := range eSwaps {
		hSwaps = append(hSwaps, swap{2 * s.a, 2 * s.b}, swap{2*s.a + 1, 2*s.b + 1})
	}

	applySwaps(m.vOut, vSwaps)
	applySwaps(m.vState, vSwaps)
	applySwaps(m.fHalfedge, fSwaps)
	applySwaps(m.hTo, hSwaps)
	applySwaps(m.hFace, hSwaps)
	applySwaps(m.hNext, hSwaps)
	applySwaps(m.hPrev, hSwaps)

	m.attrs[KindVertex].permute(vSwaps)
	m.attrs[KindFace].permute(fSwaps)
	m.attrs[KindEdge].permute(eSwaps)
	m.attrs[KindHalfedge].permute(hSwaps)

	m.nVertices -= m.removedVertices
	m.nFaces -= m.removedFaces
	m.nEdges -= m.removedEdges
	m.removedVertices, m.removedFaces, m.removedEdges = 0, 0, 0

	logging.Debug("mesh compacted",
		"vertices", before[0], "faces", before[1], "edges", before[2],
		"live_vertices", m.nVertices, "live_faces", m.nFaces, "live_edges", m.nEdges,
		"swaps", len(vSwaps)+len(fSwaps)+len(eSwaps))
}

// permutation returns newToOld, listing live slots first and removed slots
// after them, and its inverse.
func permutation(n int, removed func(int) bool) (newToOld, oldToNew []int32) {
	newToOld = make([]int32, 0, n)
	for i := range n {
		if !removed(i) {
			newToOld = append(newToOld, int32(i))
		}
	}
	for i := range n {
		if removed(i) {
			newToOld = append(newToOld, int32(i))
		}
	}
	oldToNew = make([]int32, n)
	for i, old := range newToOld {
		oldToNew[old] = int32(i)
	}
	return newToOld, oldToNew
}

// transpositions decomposes the permutation a[i] <- a[p[i]] into a minimal
// sequence of swaps, one cycle at a time.
func transpositions(p []int32) []swap {
	var swaps []swap
	visited := make([]bool, len(p))
	for i := range p {
		if visited[i] {
			continue
		}
		visited[i] = true
		cur := int32(i)
		for {
			next := p[cur]
			if visited[next] {
				break
			}
			swaps = append(swaps, swap{cur, next})
			visited[next] = true
			cur = next
		}
	}
	return swaps
}

func applySwaps[T any](a []T, swaps []swap) {
	for _, s := range swaps {
		a[s.a], a[s.b] = a[s.b], a[s.a]
	}
}
