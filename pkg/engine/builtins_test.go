package engine

import (
	"strings"
	"testing"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/polymesh/pkg/mesh"
)

// ---------------------------------------------------------------------------
// Preprocessing tests
// ---------------------------------------------------------------------------

func TestPreprocessKeywords(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "simple keyword",
			input:  `(count :faces)`,
			expect: `(count "__kw_faces")`,
		},
		{
			name:   "multiple keywords",
			input:  `(rotate h :dir :prev :halfedge true)`,
			expect: `(rotate h "__kw_dir" "__kw_prev" "__kw_halfedge" true)`,
		},
		{
			name:   "keyword in string preserved",
			input:  `"thing with :keyword inside"`,
			expect: `"thing with :keyword inside"`,
		},
		{
			name:   "assignment operator preserved",
			input:  `(def x := 10)`,
			expect: `(def x := 10)`,
		},
		{
			name:   "kebab-case identifier",
			input:  `(can-face a b c)`,
			expect: `(can_face a b c)`,
		},
		{
			name:   "minus operator preserved",
			input:  `(- 10 5)`,
			expect: `(- 10 5)`,
		},
		{
			name:   "comment converted to // style",
			input:  `;; comment with :keyword`,
			expect: `// comment with :keyword`,
		},
		{
			name:   "single semicolon comment",
			input:  `; simple comment`,
			expect: `// simple comment`,
		},
		{
			name:   "hyphen in keyword preserved",
			input:  `:all-slots`,
			expect: `"__kw_all-slots"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := preprocessSource(tt.input)
			if got != tt.expect {
				t.Errorf("preprocessSource(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// square defines a, b, c, d as the corners of the unit square in the xy plane.
const square = `
(def a (vertex (vec3 0 0 0)))
(def b (vertex (vec3 2 0 0)))
(def c (vertex (vec3 2 2 0)))
(def d (vertex (vec3 0 2 0)))
`

// diamond is the square split into triangles abc and acd.
const diamond = square + `
(def t1 (face a b c))
(def t2 (face a c d))
`

func mustEval(t *testing.T, source string) *Result {
	t.Helper()
	res, evalErrs, err := NewEngine().Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	if res == nil {
		t.Fatal("expected non-nil result")
	}
	if vs := res.Mesh.Check(); len(vs) > 0 {
		t.Fatalf("mesh inconsistent after script: %v", vs)
	}
	return res
}

func evalError(t *testing.T, source string) EvalError {
	t.Helper()
	res, evalErrs, err := NewEngine().Evaluate(source)
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if res != nil {
		t.Fatal("expected nil result on eval error")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected at least one eval error")
	}
	return evalErrs[0]
}

func wantValue(t *testing.T, res *Result, want string) {
	t.Helper()
	if res.Value != want {
		t.Errorf("value = %q, want %q", res.Value, want)
	}
}

func wantCounts(t *testing.T, m *mesh.Mesh, vertices, edges, faces int) {
	t.Helper()
	if got := m.VertexCount(); got != vertices {
		t.Errorf("vertices = %d, want %d", got, vertices)
	}
	if got := m.EdgeCount(); got != edges {
		t.Errorf("edges = %d, want %d", got, edges)
	}
	if got := m.FaceCount(); got != faces {
		t.Errorf("faces = %d, want %d", got, faces)
	}
}

// ---------------------------------------------------------------------------
// Construction
// ---------------------------------------------------------------------------

func TestTriangle(t *testing.T) {
	res := mustEval(t, square+`(face a b c)`)
	wantValue(t, res, "f0")
	wantCounts(t, res.Mesh, 4, 3, 1)
	if !res.Mesh.IsIsolated(3) {
		t.Error("d should stay isolated")
	}
	if got := res.Positions.At(1); got != [3]float64{2, 0, 0} {
		t.Errorf("position of b = %v", got)
	}
}

func TestFaceFromList(t *testing.T) {
	res := mustEval(t, square+`(size (face (list a b c d)))`)
	wantValue(t, res, "4")
	wantCounts(t, res.Mesh, 4, 4, 1)
}

func TestFaceRejectsNonManifold(t *testing.T) {
	e := evalError(t, square+`
(face a b c)
(face a b c)
`)
	if !strings.Contains(e.Message, "manifold") {
		t.Errorf("message = %q, want mention of manifoldness", e.Message)
	}
}

func TestFaceRejectsBadArguments(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"too few", square + `(face a b)`, "at least 3"},
		{"not a vertex", square + `(face a b 7)`, "expected vertex"},
		{"vec3 arity", `(vec3 1 2)`, "exactly 3"},
		{"vec3 type", `(vec3 1 "two" 3)`, "expected number"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := evalError(t, tt.source)
			if !strings.Contains(e.Message, tt.want) {
				t.Errorf("message = %q, want containing %q", e.Message, tt.want)
			}
		})
	}
}

func TestCanFace(t *testing.T) {
	wantValue(t, mustEval(t, square+`(can-face a b c)`), "true")
	wantValue(t, mustEval(t, square+`(face a b c) (can-face a b c)`), "false")
	wantValue(t, mustEval(t, square+`(can-face a b)`), "false")
}

func TestPosition(t *testing.T) {
	wantValue(t, mustEval(t, square+`(position c)`), "(vec3 2 2 0)")
	wantValue(t, mustEval(t, `(position (vertex))`), "(vec3 0 0 0)")
}

// ---------------------------------------------------------------------------
// Navigation
// ---------------------------------------------------------------------------

func TestNavigation(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{`(to (halfedge a b))`, "v1"},
		{`(from (halfedge a b))`, "v0"},
		{`(to (next (halfedge a b)))`, "v2"},
		{`(from (prev (halfedge a b)))`, "v2"},
		{`(to (opposite (halfedge a b)))`, "v0"},
		{`(face-of (halfedge a b))`, "f0"},
		{`(face-of (halfedge a c))`, "f1"},
		{`(face-of (halfedge b a))`, "nil"},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			wantValue(t, mustEval(t, diamond+tt.expr), tt.want)
		})
	}
}

func TestHalfedgeMissing(t *testing.T) {
	wantValue(t, mustEval(t, diamond+`(halfedge b d)`), "nil")
}

// ---------------------------------------------------------------------------
// Editing
// ---------------------------------------------------------------------------

func TestRemoveFaceKeepsSlots(t *testing.T) {
	res := mustEval(t, square+`
(remove (face a b c))
(list (count :faces) (count :faces :all true) (count :edges))
`)
	wantValue(t, res, "(0 1 3)")
}

func TestRemoveVertex(t *testing.T) {
	res := mustEval(t, diamond+`(remove b)`)
	wantCounts(t, res.Mesh, 3, 3, 1)
	if !res.Mesh.IsVertexRemoved(1) {
		t.Error("b should be removed")
	}
}

func TestRemoveEdge(t *testing.T) {
	res := mustEval(t, diamond+`(remove (halfedge a c))`)
	wantCounts(t, res.Mesh, 4, 4, 0)
}

func TestSplitFace(t *testing.T) {
	res := mustEval(t, square+`
(def f (face a b c d))
(def v (split f))
(list (position v) (valence v))
`)
	wantValue(t, res, "((vec3 1 1 0) 4)")
	wantCounts(t, res.Mesh, 5, 8, 4)
}

func TestSplitHalfedge(t *testing.T) {
	res := mustEval(t, square+`
(def f (face a b c))
(def v (split (halfedge a b)))
(list (size f) (position v))
`)
	wantValue(t, res, "(4 (vec3 1 0 0))")
	wantCounts(t, res.Mesh, 5, 4, 1)
}

func TestSplitAt(t *testing.T) {
	res := mustEval(t, square+`
(face a b c)
(position (split (halfedge a b) :at (vec3 0.5 0 0)))
`)
	wantValue(t, res, "(vec3 0.5 0 0)")
}

func TestSplitTriangulate(t *testing.T) {
	res := mustEval(t, diamond+`(valence (split (halfedge a c) :triangulate true))`)
	wantValue(t, res, "4")
	wantCounts(t, res.Mesh, 5, 8, 4)
}

func TestSplitTriangulateRejectsPolygons(t *testing.T) {
	e := evalError(t, square+`
(face a b c d)
(split (halfedge a b) :triangulate true)
`)
	if !strings.Contains(e.Message, "not a triangle") {
		t.Errorf("message = %q", e.Message)
	}
}

func TestMergeUndoesSplit(t *testing.T) {
	res := mustEval(t, square+`
(def f (face a b c))
(def v (split (halfedge a b)))
(merge (halfedge v b))
(size f)
`)
	wantValue(t, res, "3")
	wantCounts(t, res.Mesh, 4, 3, 1)
}

func TestFlip(t *testing.T) {
	res := mustEval(t, diamond+`
(def flipped (flip (halfedge a c)))
(list flipped (size (face-of (halfedge b d))))
`)
	wantValue(t, res, "(true 3)")
	wantCounts(t, res.Mesh, 4, 5, 2)
}

func TestFlipBoundaryEdge(t *testing.T) {
	wantValue(t, mustEval(t, diamond+`(flip (halfedge a b))`), "false")
}

func TestCollapseVertex(t *testing.T) {
	res := mustEval(t, square+`
(def e (vertex (vec3 1 1 0)))
(face a b e)
(face b c e)
(face c d e)
(face d a e)
(size (collapse e))
`)
	wantValue(t, res, "4")
	wantCounts(t, res.Mesh, 4, 4, 1)
}

func TestCollapseBoundaryVertexFails(t *testing.T) {
	e := evalError(t, diamond+`(collapse a)`)
	if !strings.Contains(e.Message, "boundary") {
		t.Errorf("message = %q", e.Message)
	}
}

func TestFill(t *testing.T) {
	res := mustEval(t, diamond+`(size (fill (halfedge b a)))`)
	wantValue(t, res, "4")
	wantCounts(t, res.Mesh, 4, 5, 3)
	if got := len(mesh.Collect(res.Mesh.BoundaryHalfedges())); got != 0 {
		t.Errorf("closed mesh has %d boundary halfedges", got)
	}
}

func TestFillRejectsInteriorHalfedge(t *testing.T) {
	e := evalError(t, diamond+`(fill (halfedge a c))`)
	if !strings.Contains(e.Message, "already has a face") {
		t.Errorf("message = %q", e.Message)
	}
}

func TestFillRejectsWireEdge(t *testing.T) {
	e := evalError(t, square+`
(face a b c)
(remove (halfedge c a))
(remove (halfedge b c))
(fill (halfedge a b))
`)
	if !strings.Contains(e.Message, "fewer than three sides") {
		t.Errorf("message = %q", e.Message)
	}
}

func TestCut(t *testing.T) {
	res := mustEval(t, square+`
(def f (face a b c d))
(def h (cut f (halfedge d a) (halfedge b c)))
(list (from h) (to h) (size f))
`)
	wantValue(t, res, "(v0 v2 3)")
	wantCounts(t, res.Mesh, 4, 5, 2)
}

func TestCutRejectsAdjacent(t *testing.T) {
	e := evalError(t, square+`
(def f (face a b c d))
(cut f (halfedge a b) (halfedge b c))
`)
	if !strings.Contains(e.Message, "adjacent") {
		t.Errorf("message = %q", e.Message)
	}
}

func TestCutRejectsConnectedCorners(t *testing.T) {
	e := evalError(t, square+`
(def f (face a b c d))
(face a d c)
(cut f (halfedge d a) (halfedge b c))
`)
	if !strings.Contains(e.Message, "already connected") {
		t.Errorf("message = %q", e.Message)
	}
}

func TestTriangulate(t *testing.T) {
	res := mustEval(t, square+`
(face a b c d (vertex (vec3 -1 1 0)))
(triangulate)
`)
	wantValue(t, res, "2")
	wantCounts(t, res.Mesh, 5, 7, 3)
}

func TestCompactify(t *testing.T) {
	res := mustEval(t, square+`
(face a b c)
(remove d)
(compactify)
(count :vertices :all true)
`)
	wantValue(t, res, "3")
	if got := res.Positions.Len(); got != 3 {
		t.Errorf("positions length = %d, want 3", got)
	}
}

func TestCountRejectsUnknownKind(t *testing.T) {
	e := evalError(t, `(count :corners)`)
	if !strings.Contains(e.Message, "invalid kind") {
		t.Errorf("message = %q", e.Message)
	}
}

func TestStaleIndexRejected(t *testing.T) {
	e := evalError(t, square+`
(remove d)
(valence d)
`)
	if !strings.Contains(e.Message, "removed") {
		t.Errorf("message = %q", e.Message)
	}
}

func TestCheck(t *testing.T) {
	res := mustEval(t, diamond+`(check)`)
	wantValue(t, res, "0")
	if len(res.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", res.Warnings)
	}
}

func TestAssertionBecomesError(t *testing.T) {
	if !mesh.AssertionsEnabled() {
		t.Skip("assertions compiled out")
	}
	s := newSession()
	env := zygo.NewZlispSandbox()
	defer env.Stop()
	s.register(env)
	s.add(env, "boom", func(args []zygo.Sexp) (zygo.Sexp, error) {
		s.m.RemoveFace(99)
		return zygo.SexpNull, nil
	})

	if err := env.LoadString("(boom)"); err != nil {
		t.Fatalf("load: %v", err)
	}
	_, err := env.Run()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "assertion failed") {
		t.Errorf("error = %v, want assertion failure", err)
	}
}

// ---------------------------------------------------------------------------
// Plain Lisp still works
// ---------------------------------------------------------------------------

func TestArithmeticStillWorks(t *testing.T) {
	wantValue(t, mustEval(t, `(* 6 7)`), "42")
}
