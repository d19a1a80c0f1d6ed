package engine

import (
	"fmt"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/polymesh/pkg/mesh"
	"github.com/chazu/polymesh/pkg/tessellate"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms mesh script source code before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: can-face -> can_face
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing mesh indices through the zygomys environment
// ---------------------------------------------------------------------------

// sexpVertex wraps a mesh.VertexIndex so it can be passed between builtins.
type sexpVertex struct {
	v mesh.VertexIndex
}

func (x *sexpVertex) SexpString(ps *zygo.PrintState) string { return x.v.String() }
func (x *sexpVertex) Type() *zygo.RegisteredType           { return nil }

// sexpFace wraps a mesh.FaceIndex.
type sexpFace struct {
	f mesh.FaceIndex
}

func (x *sexpFace) SexpString(ps *zygo.PrintState) string { return x.f.String() }
func (x *sexpFace) Type() *zygo.RegisteredType           { return nil }

// sexpHalfedge wraps a mesh.HalfedgeIndex. Edges are addressed through
// either of their halfedges.
type sexpHalfedge struct {
	h mesh.HalfedgeIndex
}

func (x *sexpHalfedge) SexpString(ps *zygo.PrintState) string { return x.h.String() }
func (x *sexpHalfedge) Type() *zygo.RegisteredType           { return nil }

// sexpVec3 wraps a position.
type sexpVec3 struct {
	vec [3]float64
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec[0], v.vec[1], v.vec[2])
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

func sexpBool(b bool) zygo.Sexp { return &zygo.SexpBool{Val: b} }

func sexpInt(n int) zygo.Sexp { return &zygo.SexpInt{Val: int64(n)} }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value: treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_all) and plain strings ("all").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

// isTruthy treats false and nil as false and everything else as true.
func isTruthy(s zygo.Sexp) bool {
	switch v := s.(type) {
	case *zygo.SexpBool:
		return v.Val
	case *zygo.SexpSentinel:
		return v != zygo.SexpNull
	}
	return true
}

// toVec3 extracts a position from a sexpVec3.
func toVec3(s zygo.Sexp) ([3]float64, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return [3]float64{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// flatten expands a single list argument into its elements.
func flatten(args []zygo.Sexp) ([]zygo.Sexp, error) {
	if len(args) == 1 {
		switch args[0].(type) {
		case *zygo.SexpPair, *zygo.SexpArray:
			return sexpListToSlice(args[0])
		}
	}
	return args, nil
}

// ---------------------------------------------------------------------------
// Session: the mesh a script edits
// ---------------------------------------------------------------------------

// session holds the mesh and vertex positions of one evaluation.
type session struct {
	m        *mesh.Mesh
	pos      *mesh.VertexAttribute[[3]float64]
	warnings []EvalWarning
}

func newSession() *session {
	m := mesh.New()
	return &session{m: m, pos: mesh.NewVertexAttribute(m, [3]float64{})}
}

func (s *session) result(value string) *Result {
	return &Result{Mesh: s.m, Positions: s.pos, Value: value, Warnings: s.warnings}
}

func (s *session) toVertex(x zygo.Sexp) (mesh.VertexIndex, error) {
	v, ok := x.(*sexpVertex)
	if !ok {
		return mesh.InvalidVertex, fmt.Errorf("expected vertex, got %T (%s)", x, x.SexpString(nil))
	}
	if !s.m.IsValidVertex(v.v) {
		return mesh.InvalidVertex, fmt.Errorf("vertex %s is removed or out of range", v.v)
	}
	return v.v, nil
}

func (s *session) toFace(x zygo.Sexp) (mesh.FaceIndex, error) {
	f, ok := x.(*sexpFace)
	if !ok {
		return mesh.InvalidFace, fmt.Errorf("expected face, got %T (%s)", x, x.SexpString(nil))
	}
	if !s.m.IsValidFace(f.f) {
		return mesh.InvalidFace, fmt.Errorf("face %s is removed or out of range", f.f)
	}
	return f.f, nil
}

func (s *session) toHalfedge(x zygo.Sexp) (mesh.HalfedgeIndex, error) {
	h, ok := x.(*sexpHalfedge)
	if !ok {
		return mesh.InvalidHalfedge, fmt.Errorf("expected halfedge, got %T (%s)", x, x.SexpString(nil))
	}
	if !s.m.IsValidHalfedge(h.h) {
		return mesh.InvalidHalfedge, fmt.Errorf("halfedge %s is removed or out of range", h.h)
	}
	return h.h, nil
}

func (s *session) toVertices(args []zygo.Sexp) ([]mesh.VertexIndex, error) {
	items, err := flatten(args)
	if err != nil {
		return nil, err
	}
	vs := make([]mesh.VertexIndex, len(items))
	for i, item := range items {
		if vs[i], err = s.toVertex(item); err != nil {
			return nil, fmt.Errorf("corner %d: %w", i, err)
		}
	}
	return vs, nil
}

func (s *session) optionalFace(f mesh.FaceIndex) zygo.Sexp {
	if !f.IsValid() {
		return zygo.SexpNull
	}
	return &sexpFace{f: f}
}

func (s *session) centroid(f mesh.FaceIndex) [3]float64 {
	var c [3]float64
	n := 0
	for v := range s.m.Face(f).Vertices() {
		p := s.pos.At(v)
		for i := range c {
			c[i] += p[i]
		}
		n++
	}
	for i := range c {
		c[i] /= float64(n)
	}
	return c
}

func (s *session) midpoint(h mesh.HalfedgeIndex) [3]float64 {
	a, b := s.pos.At(s.m.FromVertex(h)), s.pos.At(s.m.ToVertex(h))
	return [3]float64{(a[0] + b[0]) / 2, (a[1] + b[1]) / 2, (a[2] + b[2]) / 2}
}

// newVertexAt adds a vertex at the :at keyword position, or at def.
func (s *session) newVertexAt(pa kwArgs, def [3]float64) (mesh.VertexIndex, error) {
	p := def
	if at, ok := pa.kw["at"]; ok {
		var err error
		if p, err = toVec3(at); err != nil {
			return mesh.InvalidVertex, fmt.Errorf("at: %w", err)
		}
	}
	v := s.m.AddVertex()
	s.pos.Set(v, p)
	return v, nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

type builtin func(args []zygo.Sexp) (zygo.Sexp, error)

// add registers fn under name. Kernel assertions raised by fn become
// evaluation errors instead of aborting the whole evaluation.
func (s *session) add(env *zygo.Zlisp, name string, fn builtin) {
	display := strings.ReplaceAll(name, "_", "-")
	env.AddFunction(name, func(env *zygo.Zlisp, _ string, args []zygo.Sexp) (result zygo.Sexp, err error) {
		defer func() {
			if r := recover(); r != nil {
				ae, ok := r.(*mesh.AssertionError)
				if !ok {
					panic(r)
				}
				result, err = zygo.SexpNull, fmt.Errorf("%s: %w", display, ae)
			}
		}()
		result, err = fn(args)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: %w", display, err)
		}
		return result, nil
	})
}

// register installs the mesh builtins into a zygomys environment.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens and kebab-case names are recognizable.
func (s *session) register(env *zygo.Zlisp) {
	m := s.m

	// (vec3 1 2 3)
	s.add(env, "vec3", func(args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return nil, fmt.Errorf("requires exactly 3 arguments, got %d", len(args))
		}
		var vec [3]float64
		for i, a := range args {
			f, err := toFloat64(a)
			if err != nil {
				return nil, fmt.Errorf("%c: %w", "xyz"[i], err)
			}
			vec[i] = f
		}
		return &sexpVec3{vec: vec}, nil
	})

	// (vertex) or (vertex (vec3 1 2 3))
	s.add(env, "vertex", func(args []zygo.Sexp) (zygo.Sexp, error) {
		var p [3]float64
		if len(args) > 0 {
			var err error
			if p, err = toVec3(args[0]); err != nil {
				return nil, err
			}
		}
		v := m.AddVertex()
		s.pos.Set(v, p)
		return &sexpVertex{v: v}, nil
	})

	// (position v)
	s.add(env, "position", func(args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("requires a vertex")
		}
		v, err := s.toVertex(args[0])
		if err != nil {
			return nil, err
		}
		return &sexpVec3{vec: s.pos.At(v)}, nil
	})

	// (face a b c ...) or (face (list a b c ...))
	s.add(env, "face", func(args []zygo.Sexp) (zygo.Sexp, error) {
		vs, err := s.toVertices(args)
		if err != nil {
			return nil, err
		}
		if len(vs) < 3 {
			return nil, fmt.Errorf("requires at least 3 vertices, got %d", len(vs))
		}
		if !m.CanAddFace(vs...) {
			return nil, fmt.Errorf("%v would break manifoldness", vs)
		}
		return &sexpFace{f: m.AddFace(vs...)}, nil
	})

	// (can-face a b c ...)
	s.add(env, "can_face", func(args []zygo.Sexp) (zygo.Sexp, error) {
		vs, err := s.toVertices(args)
		if err != nil {
			return nil, err
		}
		return sexpBool(len(vs) >= 3 && m.CanAddFace(vs...)), nil
	})

	// (halfedge a b) returns nil when a and b are not connected.
	s.add(env, "halfedge", func(args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("requires two vertices")
		}
		vs, err := s.toVertices(args)
		if err != nil {
			return nil, err
		}
		h := m.FindHalfedge(vs[0], vs[1])
		if !h.IsValid() {
			return zygo.SexpNull, nil
		}
		return &sexpHalfedge{h: h}, nil
	})

	navigate := map[string]func(mesh.HalfedgeIndex) zygo.Sexp{
		"next":     func(h mesh.HalfedgeIndex) zygo.Sexp { return &sexpHalfedge{h: m.Next(h)} },
		"prev":     func(h mesh.HalfedgeIndex) zygo.Sexp { return &sexpHalfedge{h: m.Prev(h)} },
		"opposite": func(h mesh.HalfedgeIndex) zygo.Sexp { return &sexpHalfedge{h: h.Opposite()} },
		"to":       func(h mesh.HalfedgeIndex) zygo.Sexp { return &sexpVertex{v: m.ToVertex(h)} },
		"from":     func(h mesh.HalfedgeIndex) zygo.Sexp { return &sexpVertex{v: m.FromVertex(h)} },
		"face_of":  func(h mesh.HalfedgeIndex) zygo.Sexp { return s.optionalFace(m.HalfedgeFace(h)) },
	}
	for name, nav := range navigate {
		s.add(env, name, func(args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) != 1 {
				return nil, fmt.Errorf("requires a halfedge")
			}
			h, err := s.toHalfedge(args[0])
			if err != nil {
				return nil, err
			}
			return nav(h), nil
		})
	}

	// (remove x) removes a vertex, a face, or the edge of a halfedge.
	s.add(env, "remove", func(args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("requires one argument")
		}
		switch x := args[0].(type) {
		case *sexpVertex:
			v, err := s.toVertex(x)
			if err != nil {
				return nil, err
			}
			m.RemoveVertex(v)
		case *sexpFace:
			f, err := s.toFace(x)
			if err != nil {
				return nil, err
			}
			m.RemoveFace(f)
		case *sexpHalfedge:
			h, err := s.toHalfedge(x)
			if err != nil {
				return nil, err
			}
			m.RemoveEdge(h.Edge())
		default:
			return nil, fmt.Errorf("expected vertex, face or halfedge, got %T", x)
		}
		return zygo.SexpNull, nil
	})

	// (split h [:at p] [:triangulate true]) or (split f [:at p]) returns the
	// new vertex.
	s.add(env, "split", func(args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 1 {
			return nil, fmt.Errorf("requires a halfedge or face")
		}
		switch pa.positional[0].(type) {
		case *sexpFace:
			f, err := s.toFace(pa.positional[0])
			if err != nil {
				return nil, err
			}
			v, err := s.newVertexAt(pa, s.centroid(f))
			if err != nil {
				return nil, err
			}
			m.FaceSplit(f, v)
			return &sexpVertex{v: v}, nil
		default:
			h, err := s.toHalfedge(pa.positional[0])
			if err != nil {
				return nil, err
			}
			tri := false
			if t, ok := pa.kw["triangulate"]; ok {
				tri = isTruthy(t)
			}
			if tri {
				for _, side := range []mesh.HalfedgeIndex{h, h.Opposite()} {
					if f := m.HalfedgeFace(side); f.IsValid() && m.FaceSize(f) != 3 {
						return nil, fmt.Errorf("triangulate: face %s is not a triangle", f)
					}
				}
			}
			v, err := s.newVertexAt(pa, s.midpoint(h))
			if err != nil {
				return nil, err
			}
			if tri {
				m.EdgeSplitAndTriangulate(h.Edge(), v)
			} else {
				m.HalfedgeSplit(h, v)
			}
			return &sexpVertex{v: v}, nil
		}
	})

	// (collapse h) returns whether the collapse happened.
	// (collapse v) replaces an interior vertex by one face and returns it.
	s.add(env, "collapse", func(args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("requires a halfedge or vertex")
		}
		if _, ok := args[0].(*sexpVertex); ok {
			v, err := s.toVertex(args[0])
			if err != nil {
				return nil, err
			}
			if m.IsBoundaryVertex(v) && !m.IsIsolated(v) {
				return nil, fmt.Errorf("vertex %s is on the boundary", v)
			}
			return s.optionalFace(m.VertexCollapse(v)), nil
		}
		h, err := s.toHalfedge(args[0])
		if err != nil {
			return nil, err
		}
		if !m.CanCollapse(h) {
			return sexpBool(false), nil
		}
		m.HalfedgeCollapse(h)
		return sexpBool(true), nil
	})

	// (rotate h [:dir :prev] [:halfedge true]) returns whether the rotation
	// happened. By default the whole edge rotates.
	s.add(env, "rotate", func(args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 1 {
			return nil, fmt.Errorf("requires a halfedge")
		}
		h, err := s.toHalfedge(pa.positional[0])
		if err != nil {
			return nil, err
		}
		prev := false
		if d, ok := pa.kw["dir"]; ok {
			dir, err := toKeywordString(d)
			if err != nil {
				return nil, fmt.Errorf("dir: %w", err)
			}
			switch dir {
			case "next":
			case "prev":
				prev = true
			default:
				return nil, fmt.Errorf("dir: invalid direction %q, expected next or prev", dir)
			}
		}
		single := false
		if x, ok := pa.kw["halfedge"]; ok {
			single = isTruthy(x)
		}

		e := h.Edge()
		switch {
		case single && prev:
			if !m.CanHalfedgeRotatePrev(h) {
				return sexpBool(false), nil
			}
			m.HalfedgeRotatePrev(h)
		case single:
			if !m.CanHalfedgeRotateNext(h) {
				return sexpBool(false), nil
			}
			m.HalfedgeRotateNext(h)
		case prev:
			if !m.CanRotatePrev(e) {
				return sexpBool(false), nil
			}
			m.EdgeRotatePrev(e)
		default:
			if !m.CanRotateNext(e) {
				return sexpBool(false), nil
			}
			m.EdgeRotateNext(e)
		}
		return sexpBool(true), nil
	})

	// (flip h) returns whether the flip happened.
	s.add(env, "flip", func(args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("requires a halfedge")
		}
		h, err := s.toHalfedge(args[0])
		if err != nil {
			return nil, err
		}
		if !m.CanFlip(h.Edge()) {
			return sexpBool(false), nil
		}
		m.EdgeFlip(h.Edge())
		return sexpBool(true), nil
	})

	// (merge h) removes the valence-2 origin of h; returns whether it did.
	s.add(env, "merge", func(args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("requires a halfedge")
		}
		h, err := s.toHalfedge(args[0])
		if err != nil {
			return nil, err
		}
		if !m.CanMerge(h) {
			return sexpBool(false), nil
		}
		m.HalfedgeMerge(h)
		return sexpBool(true), nil
	})

	// (fill h) closes the hole bounded by the free halfedge h.
	s.add(env, "fill", func(args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("requires a halfedge")
		}
		h, err := s.toHalfedge(args[0])
		if err != nil {
			return nil, err
		}
		if !m.IsBoundaryHalfedge(h) {
			return nil, fmt.Errorf("halfedge %s already has a face", h)
		}
		if m.Next(m.Next(h)) == h {
			return nil, fmt.Errorf("the loop through %s has fewer than three sides", h)
		}
		return &sexpFace{f: m.FaceFill(h)}, nil
	})

	// (cut f h0 h1) splits f from to(h0) to to(h1) and returns the new
	// halfedge leaving to(h0).
	s.add(env, "cut", func(args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return nil, fmt.Errorf("requires a face and two halfedges")
		}
		f, err := s.toFace(args[0])
		if err != nil {
			return nil, err
		}
		h0, err := s.toHalfedge(args[1])
		if err != nil {
			return nil, err
		}
		h1, err := s.toHalfedge(args[2])
		if err != nil {
			return nil, err
		}
		if m.HalfedgeFace(h0) != f || m.HalfedgeFace(h1) != f {
			return nil, fmt.Errorf("halfedges must lie on face %s", f)
		}
		if h0 == h1 || m.Next(h0) == h1 || m.Next(h1) == h0 {
			return nil, fmt.Errorf("halfedges %s and %s are adjacent", h0, h1)
		}
		if v0, v1 := m.ToVertex(h0), m.ToVertex(h1); m.FindHalfedge(v0, v1).IsValid() {
			return nil, fmt.Errorf("vertices %s and %s are already connected", v0, v1)
		}
		return &sexpHalfedge{h: m.FaceCut(f, h0, h1)}, nil
	})

	// (triangulate) fans every polygon and returns the number of cuts.
	s.add(env, "triangulate", func(args []zygo.Sexp) (zygo.Sexp, error) {
		return sexpInt(tessellate.Triangulate(m)), nil
	})

	// (compactify) invalidates every index held by the script.
	s.add(env, "compactify", func(args []zygo.Sexp) (zygo.Sexp, error) {
		m.Compactify()
		return zygo.SexpNull, nil
	})

	// (count :faces) or (count :faces :all true)
	s.add(env, "count", func(args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) == 0 {
			return nil, fmt.Errorf("requires a kind")
		}
		kind, err := toKeywordString(args[0])
		if err != nil {
			return nil, err
		}
		all := false
		if x, ok := parseArgs(args[1:]).kw["all"]; ok {
			all = isTruthy(x)
		}
		var valid, total int
		switch kind {
		case "vertices":
			valid, total = m.VertexCount(), m.AllVertexCount()
		case "faces":
			valid, total = m.FaceCount(), m.AllFaceCount()
		case "edges":
			valid, total = m.EdgeCount(), m.AllEdgeCount()
		case "halfedges":
			valid, total = m.HalfedgeCount(), m.AllHalfedgeCount()
		default:
			return nil, fmt.Errorf("invalid kind %q, expected vertices, faces, edges or halfedges", kind)
		}
		if all {
			return sexpInt(total), nil
		}
		return sexpInt(valid), nil
	})

	// (valence v)
	s.add(env, "valence", func(args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("requires a vertex")
		}
		v, err := s.toVertex(args[0])
		if err != nil {
			return nil, err
		}
		return sexpInt(m.Valence(v)), nil
	})

	// (size f)
	s.add(env, "size", func(args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("requires a face")
		}
		f, err := s.toFace(args[0])
		if err != nil {
			return nil, err
		}
		return sexpInt(m.FaceSize(f)), nil
	})

	// (check) returns the number of consistency violations and records each
	// one as a warning.
	s.add(env, "check", func(args []zygo.Sexp) (zygo.Sexp, error) {
		vs := m.Check()
		for _, v := range vs {
			s.warnings = append(s.warnings, EvalWarning{Message: v.Error()})
		}
		return sexpInt(len(vs)), nil
	})
}
