package kernel

import "fmt"

// Soup is an indexed triangle list as produced by a kernel.
// Positions has 3 floats per vertex (x,y,z), Indices 3 per triangle.
type Soup struct {
	Positions []float64 `json:"positions"`
	Indices   []uint32  `json:"indices"`
}

// VertexCount returns the number of vertices.
func (s *Soup) VertexCount() int {
	return len(s.Positions) / 3
}

// TriangleCount returns the number of triangles.
func (s *Soup) TriangleCount() int {
	return len(s.Indices) / 3
}

// IsEmpty returns true if the soup has no triangles.
func (s *Soup) IsEmpty() bool {
	return len(s.Indices) == 0
}

// Position returns vertex i.
func (s *Soup) Position(i uint32) [3]float64 {
	p := s.Positions[3*i : 3*i+3]
	return [3]float64{p[0], p[1], p[2]}
}

// Validate checks array lengths and index ranges.
func (s *Soup) Validate() error {
	if len(s.Positions)%3 != 0 {
		return fmt.Errorf("%w: %d position floats is not a multiple of 3", ErrBadSoup, len(s.Positions))
	}
	if len(s.Indices)%3 != 0 {
		return fmt.Errorf("%w: %d indices is not a multiple of 3", ErrBadSoup, len(s.Indices))
	}
	n := uint32(s.VertexCount())
	for i, idx := range s.Indices {
		if idx >= n {
			return fmt.Errorf("%w: index %d at %d out of range [0,%d)", ErrBadSoup, idx, i, n)
		}
	}
	return nil
}
