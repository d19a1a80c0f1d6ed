// Package format reads and writes the PM binary topology format.
//
// A file starts with the magic "PM\0\0" followed by little-endian int32
// counts (vertices, halfedges, faces and one attribute count per primitive
// kind) and the flat int32 connectivity arrays in this order: halfedge face,
// halfedge destination, halfedge next, halfedge prev, face halfedge, vertex
// outgoing. Removed primitives keep their slots; an isolated vertex stores
// -1 and a removed one -2.
//
// Named attributes of fixed-size element types may follow the topology,
// grouped by primitive kind. The whole stream can be wrapped in a PMZ
// container compressed with LZ4 or Zstandard.
package format
