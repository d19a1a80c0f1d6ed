package kernel

import (
	"errors"
	"fmt"
	"math"

	"github.com/dhconnelly/rtreego"

	"github.com/chazu/polymesh/pkg/logging"
	"github.com/chazu/polymesh/pkg/mesh"
)

// ErrBadSoup is returned for soups with ragged arrays or out-of-range indices.
var ErrBadSoup = errors.New("kernel: malformed soup")

// BuildOptions controls how Build welds a soup.
type BuildOptions struct {
	// WeldEpsilon merges vertices whose coordinates all differ by at most
	// this much. Zero merges only identical positions.
	WeldEpsilon float64
}

// Built is the result of Build.
type Built struct {
	Mesh      *mesh.Mesh
	Positions *mesh.VertexAttribute[[3]float64]

	// Welded counts soup vertices merged into an earlier one.
	Welded int
	// Skipped counts triangles left out because they were degenerate after
	// welding or would have made the mesh non-manifold.
	Skipped int
}

// Build welds the soup's vertices and inserts its triangles as faces.
// Triangles that cannot be added without breaking manifoldness are skipped
// rather than failing the build. Vertices left without faces are dropped
// and the result is compact.
func Build(s *Soup, opts BuildOptions) (*Built, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if opts.WeldEpsilon < 0 || math.IsNaN(opts.WeldEpsilon) {
		return nil, fmt.Errorf("kernel: weld epsilon %v must be non-negative", opts.WeldEpsilon)
	}

	m := mesh.New()
	m.Reserve(s.VertexCount(), s.TriangleCount(), s.TriangleCount()*3/2+3)
	b := &Built{Mesh: m, Positions: mesh.NewVertexAttribute(m, [3]float64{})}

	w := newWelder(opts.WeldEpsilon)
	remap := make([]mesh.VertexIndex, s.VertexCount())
	for i := range remap {
		p := s.Position(uint32(i))
		if v, ok := w.find(p); ok {
			remap[i] = v
			b.Welded++
			continue
		}
		v := m.AddVertex()
		b.Positions.Set(v, p)
		w.insert(p, v)
		remap[i] = v
	}

	var pending [][3]mesh.VertexIndex
	for t := range s.TriangleCount() {
		tri := [3]mesh.VertexIndex{remap[s.Indices[3*t]], remap[s.Indices[3*t+1]], remap[s.Indices[3*t+2]]}
		if tri[0] == tri[1] || tri[1] == tri[2] || tri[2] == tri[0] {
			b.Skipped++
			continue
		}
		if !b.tryAdd(tri) {
			pending = append(pending, tri)
		}
	}
	// A triangle rejected early may fit once its neighbours exist.
	for len(pending) > 0 {
		rest := pending[:0]
		for _, tri := range pending {
			if !b.tryAdd(tri) {
				rest = append(rest, tri)
			}
		}
		if len(rest) == len(pending) {
			break
		}
		pending = rest
	}
	b.Skipped += len(pending)

	var lonely []mesh.VertexIndex
	for v := range m.Vertices() {
		if m.IsIsolated(v) {
			lonely = append(lonely, v)
		}
	}
	for _, v := range lonely {
		m.RemoveVertex(v)
	}
	if !m.IsCompact() {
		m.Compactify()
	}

	logging.Debug("soup welded",
		"soupVertices", s.VertexCount(), "vertices", m.VertexCount(),
		"triangles", s.TriangleCount(), "faces", m.FaceCount(), "skipped", b.Skipped)
	return b, nil
}

func (b *Built) tryAdd(tri [3]mesh.VertexIndex) bool {
	if !b.Mesh.CanAddFace(tri[:]...) {
		return false
	}
	return b.Mesh.AddFace(tri[:]...).IsValid()
}

// welder finds previously inserted positions. Exact matching uses a map;
// tolerant matching uses an R-tree over small boxes around each point.
type welder struct {
	eps   float64
	exact map[[3]float64]mesh.VertexIndex
	tree  *rtreego.Rtree
}

type weldPoint struct {
	p [3]float64
	v mesh.VertexIndex
	r rtreego.Rect
}

func (w *weldPoint) Bounds() rtreego.Rect { return w.r }

func newWelder(eps float64) *welder {
	if eps == 0 {
		return &welder{exact: make(map[[3]float64]mesh.VertexIndex)}
	}
	return &welder{eps: eps, tree: rtreego.NewTree(3, 25, 50)}
}

func (w *welder) insert(p [3]float64, v mesh.VertexIndex) {
	if w.tree == nil {
		w.exact[p] = v
		return
	}
	w.tree.Insert(&weldPoint{p: p, v: v, r: rtreego.Point(p[:]).ToRect(w.eps / 2)})
}

// find returns the closest stored vertex within eps on every axis.
func (w *welder) find(p [3]float64) (mesh.VertexIndex, bool) {
	if w.tree == nil {
		v, ok := w.exact[p]
		return v, ok
	}
	best, bestDist := mesh.InvalidVertex, math.Inf(1)
	for _, obj := range w.tree.SearchIntersect(rtreego.Point(p[:]).ToRect(w.eps / 2)) {
		wp := obj.(*weldPoint)
		d := max(math.Abs(wp.p[0]-p[0]), math.Abs(wp.p[1]-p[1]), math.Abs(wp.p[2]-p[2]))
		if d <= w.eps && (d < bestDist || d == bestDist && wp.v < best) {
			best, bestDist = wp.v, d
		}
	}
	return best, best.IsValid()
}
