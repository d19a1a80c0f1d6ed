package format

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/chazu/polymesh/pkg/logging"
	"github.com/chazu/polymesh/pkg/mesh"
)

const (
	magicPlain      = "PM\x00\x00"
	magicCompressed = "PMZ\x00"

	// maxElements bounds every count read from a stream. Arrays are still
	// read in chunks, so a short stream never allocates the full count.
	maxElements = 1 << 28
	maxAttrs    = 1 << 12
)

var order = binary.LittleEndian

type header struct {
	Magic      [4]byte
	Vertices   int32
	Halfedges  int32
	Faces      int32
	Attributes [4]int32 // per mesh.Kind
}

// File is a decoded stream: the mesh plus any attributes stored with it.
// Attributes stay encoded until LoadAttribute asks for them with a type.
type File struct {
	Mesh        *mesh.Mesh
	Compression Compression

	attrs []storedAttribute
}

type writeOptions struct {
	compression Compression
	attrs       []attributeSource
}

// Option configures Write.
type Option func(*writeOptions)

// WithCompression wraps the stream in a PMZ container.
func WithCompression(c Compression) Option {
	return func(o *writeOptions) { o.compression = c }
}

// Write encodes the topology of m, including removed slots, and the
// attributes passed with WithAttribute.
func Write(w io.Writer, m *mesh.Mesh, opts ...Option) error {
	var o writeOptions
	for _, opt := range opts {
		opt(&o)
	}
	if err := validateSources(m, o.attrs); err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	var out io.Writer = bw
	var zw io.WriteCloser
	if o.compression != CompressionNone {
		if _, err := bw.WriteString(magicCompressed); err != nil {
			return fmt.Errorf("format: write: %w", err)
		}
		if err := bw.WriteByte(byte(o.compression)); err != nil {
			return fmt.Errorf("format: write: %w", err)
		}
		var err error
		if zw, err = compressor(bw, o.compression); err != nil {
			return fmt.Errorf("format: write: %w", err)
		}
		out = zw
	}

	if err := encode(out, m, o.attrs); err != nil {
		return fmt.Errorf("format: write: %w", err)
	}
	if zw != nil {
		if err := zw.Close(); err != nil {
			return fmt.Errorf("format: write: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("format: write: %w", err)
	}
	return nil
}

func encode(w io.Writer, m *mesh.Mesh, attrs []attributeSource) error {
	t := m.Snapshot()
	h := header{
		Vertices:  int32(len(t.VertexOutgoing)),
		Halfedges: int32(len(t.HalfedgeTo)),
		Faces:     int32(len(t.FaceHalfedge)),
	}
	copy(h.Magic[:], magicPlain)
	for _, a := range attrs {
		h.Attributes[a.kind]++
	}
	if err := binary.Write(w, order, &h); err != nil {
		return err
	}
	for _, arr := range [][]int32{t.HalfedgeFace, t.HalfedgeTo, t.HalfedgeNext, t.HalfedgePrev, t.FaceHalfedge, t.VertexOutgoing} {
		if err := binary.Write(w, order, arr); err != nil {
			return err
		}
	}
	return writeAttributes(w, m, attrs)
}

// Read decodes a plain or compressed stream and verifies the topology.
func Read(r io.Reader) (*File, error) {
	br := bufio.NewReader(r)
	magic, err := br.Peek(4)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadMagic, err)
	}
	switch string(magic) {
	case magicPlain:
		return decode(br, CompressionNone)
	case magicCompressed:
		if _, err := br.Discard(4); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		codec, err := br.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("%w: missing codec: %v", ErrCorrupt, err)
		}
		src, release, err := decompressor(br, Compression(codec))
		if err != nil {
			return nil, err
		}
		defer release()
		return decode(bufio.NewReader(src), Compression(codec))
	}
	return nil, fmt.Errorf("%w: %q", ErrBadMagic, magic)
}

func decode(r io.Reader, c Compression) (*File, error) {
	var h header
	if err := binary.Read(r, order, &h); err != nil {
		return nil, corrupt("header", err)
	}
	if string(h.Magic[:]) != magicPlain {
		return nil, fmt.Errorf("%w: %q", ErrBadMagic, h.Magic[:])
	}
	if !inBounds(h.Vertices) || !inBounds(h.Halfedges) || !inBounds(h.Faces) || h.Halfedges%2 != 0 {
		return nil, fmt.Errorf("%w: counts v=%d h=%d f=%d", ErrCorrupt, h.Vertices, h.Halfedges, h.Faces)
	}
	nAttrs := 0
	for _, n := range h.Attributes {
		if n < 0 || n > maxAttrs {
			return nil, fmt.Errorf("%w: attribute count %d", ErrCorrupt, n)
		}
		nAttrs += int(n)
	}

	var t mesh.Topology
	arrays := []struct {
		dst  *[]int32
		n    int32
		name string
	}{
		{&t.HalfedgeFace, h.Halfedges, "halfedge faces"},
		{&t.HalfedgeTo, h.Halfedges, "halfedge vertices"},
		{&t.HalfedgeNext, h.Halfedges, "halfedge next"},
		{&t.HalfedgePrev, h.Halfedges, "halfedge prev"},
		{&t.FaceHalfedge, h.Faces, "face halfedges"},
		{&t.VertexOutgoing, h.Vertices, "vertex halfedges"},
	}
	for _, a := range arrays {
		vals, err := readInt32s(r, int(a.n))
		if err != nil {
			return nil, corrupt(a.name, err)
		}
		*a.dst = vals
	}

	m, err := mesh.FromTopology(t)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	f := &File{Mesh: m, Compression: c}
	if nAttrs > 0 {
		if f.attrs, err = readAttributes(r, m, h.Attributes); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func inBounds(n int32) bool { return n >= 0 && n <= maxElements }

// readChunk caps how far an allocation runs ahead of the bytes actually read.
const readChunk = 1 << 16

func readInt32s(r io.Reader, n int) ([]int32, error) {
	out := make([]int32, 0, min(n, readChunk))
	buf := make([]int32, min(n, readChunk))
	for len(out) < n {
		b := buf[:min(n-len(out), readChunk)]
		if err := binary.Read(r, order, b); err != nil {
			return nil, err
		}
		out = append(out, b...)
	}
	return out, nil
}

func readBytes(r io.Reader, n int) ([]byte, error) {
	out := make([]byte, 0, min(n, readChunk))
	buf := make([]byte, min(n, readChunk))
	for len(out) < n {
		b := buf[:min(n-len(out), readChunk)]
		if _, err := io.ReadFull(r, b); err != nil {
			return nil, err
		}
		out = append(out, b...)
	}
	return out, nil
}

func corrupt(what string, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: truncated %s", ErrCorrupt, what)
	}
	return fmt.Errorf("%w: %s: %v", ErrCorrupt, what, err)
}

// WriteFile writes m to path, replacing any existing file.
func WriteFile(path string, m *mesh.Mesh, opts ...Option) (err error) {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("format: %w", err)
	}
	defer func() {
		if cerr := out.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("format: %w", cerr)
		}
	}()
	if err := Write(out, m, opts...); err != nil {
		return err
	}
	logging.Debug("mesh written", "path", path, "vertices", m.VertexCount(), "faces", m.FaceCount())
	return nil
}

// ReadFile reads the mesh stored at path.
func ReadFile(path string) (*File, error) {
	in, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("format: %w", err)
	}
	defer in.Close()
	f, err := Read(in)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	logging.Debug("mesh read", "path", path, "vertices", f.Mesh.VertexCount(), "faces", f.Mesh.FaceCount(),
		"compression", f.Compression)
	return f, nil
}
