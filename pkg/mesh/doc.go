// Package mesh is an index-addressed half-edge representation of 2-manifold
// polygonal surfaces with boundary.
//
// A Mesh stores four primitive kinds. Vertices, faces and halfedges have their
// own arrays; edges are derived, since halfedges are always allocated in pairs
// and the pair (2e, 2e+1) forms edge e. Primitives are appended and never
// reused while valid. Removal tombstones a slot in place, and Compactify
// relocates the survivors to the front of every array. It also permutes every
// registered attribute in the same pass.
//
// The low-level API (AddFace, RemoveEdge, HalfedgeCollapse, EdgeRotateNext and
// friends) restores all topological invariants before returning. Contract
// violations, such as passing a removed handle or breaking manifoldness, go to
// the process-wide assertion handler (see SetAssertHandler). Expected
// infeasibility is reported through predicates such as CanAddFace and through
// invalid handles.
//
// A Mesh is not safe for concurrent mutation. Readers may share a Mesh only
// while nobody mutates it.
package mesh
