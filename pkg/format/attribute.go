package format

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"slices"

	"github.com/chazu/polymesh/pkg/mesh"
)

// attributeSource is an attribute queued for writing, with its element
// type erased.
type attributeSource struct {
	name string
	kind mesh.Kind
	typ  string
	size int
	mesh *mesh.Mesh
	data func() any
}

type storedAttribute struct {
	AttributeInfo
	data []byte
}

// AttributeInfo describes a stored attribute.
type AttributeInfo struct {
	Name string
	Kind mesh.Kind
	Type string // Go type of one element, e.g. "[3]float64"
	Size int    // encoded bytes per element
}

// WithAttribute stores a under name. The element type must have a fixed
// binary size (numbers, bools, arrays and structs of those).
func WithAttribute[I mesh.Index, T any](name string, a *mesh.Attribute[I, T]) Option {
	var idx I
	var zero T
	src := attributeSource{
		name: name,
		kind: idx.Kind(),
		typ:  typeName[T](),
		size: binary.Size(zero),
		mesh: a.Mesh(),
		data: func() any { return a.ToSlice() },
	}
	return func(o *writeOptions) { o.attrs = append(o.attrs, src) }
}

func typeName[T any]() string {
	var zero T
	return fmt.Sprintf("%T", zero)
}

func validateSources(m *mesh.Mesh, srcs []attributeSource) error {
	seen := make(map[string]bool, len(srcs))
	for _, s := range srcs {
		switch {
		case s.name == "" || len(s.name) > 0xffff:
			return fmt.Errorf("%w: attribute name %q", ErrUnsupported, s.name)
		case seen[s.name]:
			return fmt.Errorf("%w: duplicate attribute %q", ErrAttributeMismatch, s.name)
		case s.mesh != m:
			return fmt.Errorf("%w: attribute %q belongs to another mesh", ErrAttributeMismatch, s.name)
		case s.size <= 0:
			return fmt.Errorf("%w: attribute %q has element type %s without fixed size", ErrUnsupported, s.name, s.typ)
		}
		seen[s.name] = true
	}
	return nil
}

// writeAttributes emits the sections grouped by kind so the reader can
// match them against the per-kind header counts.
func writeAttributes(w io.Writer, m *mesh.Mesh, srcs []attributeSource) error {
	sorted := slices.Clone(srcs)
	slices.SortStableFunc(sorted, func(a, b attributeSource) int { return int(a.kind) - int(b.kind) })
	for _, s := range sorted {
		if err := writeString(w, s.name); err != nil {
			return err
		}
		if err := writeString(w, s.typ); err != nil {
			return err
		}
		if err := binary.Write(w, order, [2]int32{int32(s.size), int32(m.AllCount(s.kind))}); err != nil {
			return err
		}
		if err := binary.Write(w, order, s.data()); err != nil {
			return fmt.Errorf("attribute %q: %w", s.name, err)
		}
	}
	return nil
}

func readAttributes(r io.Reader, m *mesh.Mesh, counts [4]int32) ([]storedAttribute, error) {
	var out []storedAttribute
	for k, n := range counts {
		kind := mesh.Kind(k)
		for range n {
			name, err := readString(r)
			if err != nil {
				return nil, corrupt("attribute name", err)
			}
			typ, err := readString(r)
			if err != nil {
				return nil, corrupt("attribute type", err)
			}
			var dims [2]int32
			if err := binary.Read(r, order, &dims); err != nil {
				return nil, corrupt("attribute size", err)
			}
			size, count := int(dims[0]), int(dims[1])
			if size <= 0 || count != m.AllCount(kind) || int64(size)*int64(count) > maxElements*4 {
				return nil, fmt.Errorf("%w: attribute %q has %d elements of %d bytes, mesh has %d %s slots",
					ErrCorrupt, name, count, size, m.AllCount(kind), kind)
			}
			data, err := readBytes(r, size*count)
			if err != nil {
				return nil, corrupt("attribute "+name, err)
			}
			out = append(out, storedAttribute{
				AttributeInfo: AttributeInfo{Name: name, Kind: kind, Type: typ, Size: size},
				data:          data,
			})
		}
	}
	return out, nil
}

func writeString(w io.Writer, s string) error {
	if err := binary.Write(w, order, uint16(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

func readString(r io.Reader) (string, error) {
	var n uint16
	if err := binary.Read(r, order, &n); err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

// Attributes lists the stored attributes in file order.
func (f *File) Attributes() []AttributeInfo {
	infos := make([]AttributeInfo, len(f.attrs))
	for i, a := range f.attrs {
		infos[i] = a.AttributeInfo
	}
	return infos
}

// LoadAttribute decodes the attribute stored under name into a new
// attribute of f.Mesh. Slots the stream did not cover hold def.
func LoadAttribute[I mesh.Index, T any](f *File, name string, def T) (*mesh.Attribute[I, T], error) {
	i := slices.IndexFunc(f.attrs, func(a storedAttribute) bool { return a.Name == name })
	if i < 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoAttribute, name)
	}
	stored := f.attrs[i]

	var idx I
	if stored.Kind != idx.Kind() {
		return nil, fmt.Errorf("%w: %q is a %s attribute, not %s", ErrAttributeMismatch, name, stored.Kind, idx.Kind())
	}
	if typ := typeName[T](); stored.Type != typ || stored.Size != binary.Size(def) {
		return nil, fmt.Errorf("%w: %q holds %s, not %s", ErrAttributeMismatch, name, stored.Type, typ)
	}

	vals := make([]T, len(stored.data)/stored.Size)
	if err := binary.Read(bytes.NewReader(stored.data), order, vals); err != nil {
		return nil, fmt.Errorf("%w: attribute %q: %v", ErrCorrupt, name, err)
	}
	a := mesh.NewAttribute[I](f.Mesh, def)
	a.FromSlice(vals)
	return a, nil
}
