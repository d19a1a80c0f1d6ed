package format

import (
	"bytes"
	"encoding/binary"
	"errors"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/polymesh/pkg/mesh"
)

func cube(t *testing.T) *mesh.Mesh {
	t.Helper()
	m := mesh.New()
	first := m.AddVertices(8)
	for _, face := range [][]int{
		{0, 3, 2, 1}, {4, 5, 6, 7},
		{0, 1, 5, 4}, {1, 2, 6, 5},
		{2, 3, 7, 6}, {3, 0, 4, 7},
	} {
		loop := make([]mesh.VertexIndex, len(face))
		for i, k := range face {
			loop[i] = first + mesh.VertexIndex(k)
		}
		require.True(t, m.AddFace(loop...).IsValid())
	}
	return m
}

func incidence(m *mesh.Mesh) map[mesh.FaceIndex][]mesh.VertexIndex {
	out := make(map[mesh.FaceIndex][]mesh.VertexIndex)
	for f := range m.Faces() {
		out[f] = mesh.Collect(m.Face(f).Vertices())
	}
	return out
}

func roundTrip(t *testing.T, m *mesh.Mesh, opts ...Option) *File {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, m, opts...))
	f, err := Read(&buf)
	require.NoError(t, err)
	return f
}

func TestCubeRoundTrip(t *testing.T) {
	for _, c := range []Compression{CompressionNone, CompressionLZ4, CompressionZstd} {
		t.Run(c.String(), func(t *testing.T) {
			m := cube(t)
			f := roundTrip(t, m, WithCompression(c))

			assert.Equal(t, c, f.Compression)
			assert.Equal(t, 8, f.Mesh.VertexCount())
			assert.Equal(t, 6, f.Mesh.FaceCount())
			assert.Equal(t, 24, f.Mesh.HalfedgeCount())
			assert.True(t, f.Mesh.IsCompact())
			if diff := cmp.Diff(incidence(m), incidence(f.Mesh)); diff != "" {
				t.Errorf("face incidence differs (-want +got):\n%s", diff)
			}
			assert.Empty(t, f.Mesh.Check())
		})
	}
}

func TestHeaderLayout(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, cube(t)))
	data := buf.Bytes()

	require.Len(t, data, 32+4*(4*24+6+8))
	assert.Equal(t, []byte("PM\x00\x00"), data[:4])
	counts := make([]int32, 7)
	require.NoError(t, binary.Read(bytes.NewReader(data[4:32]), binary.LittleEndian, counts))
	assert.Equal(t, []int32{8, 24, 6, 0, 0, 0, 0}, counts)
}

func TestRoundTripKeepsTombstones(t *testing.T) {
	m := cube(t)
	m.RemoveFace(2)
	iso := m.AddVertex()
	gone := m.AddVertex()
	m.RemoveVertex(gone)

	f := roundTrip(t, m)
	got := f.Mesh
	assert.Equal(t, m.AllVertexCount(), got.AllVertexCount())
	assert.Equal(t, m.RemovedVertexCount(), got.RemovedVertexCount())
	assert.Equal(t, m.RemovedFaceCount(), got.RemovedFaceCount())
	assert.True(t, got.IsIsolated(iso))
	assert.True(t, got.IsVertexRemoved(gone))
	assert.True(t, got.IsFaceRemoved(2))
	assert.False(t, got.IsCompact())
	if diff := cmp.Diff(incidence(m), incidence(got)); diff != "" {
		t.Errorf("face incidence differs (-want +got):\n%s", diff)
	}
}

func TestAttributeRoundTrip(t *testing.T) {
	m := cube(t)
	pos := mesh.NewVertexAttribute(m, [3]float64{})
	pos.Compute(func(v mesh.VertexIndex) [3]float64 {
		return [3]float64{float64(v & 1), float64(v >> 1 & 1), float64(v >> 2 & 1)}
	})
	label := mesh.NewFaceAttribute(m, int32(-1))
	label.Compute(func(f mesh.FaceIndex) int32 { return int32(f) * 10 })
	seam := mesh.NewHalfedgeAttribute(m, false)
	seam.Set(5, true)

	f := roundTrip(t, m,
		WithAttribute("seam", seam),
		WithAttribute("position", pos),
		WithAttribute("label", label),
		WithCompression(CompressionZstd))

	assert.Equal(t, []AttributeInfo{
		{Name: "position", Kind: mesh.KindVertex, Type: "[3]float64", Size: 24},
		{Name: "label", Kind: mesh.KindFace, Type: "int32", Size: 4},
		{Name: "seam", Kind: mesh.KindHalfedge, Type: "bool", Size: 1},
	}, f.Attributes())

	gotPos, err := LoadAttribute[mesh.VertexIndex](f, "position", [3]float64{})
	require.NoError(t, err)
	assert.Equal(t, pos.ToSlice(), gotPos.ToSlice())

	gotLabel, err := LoadAttribute[mesh.FaceIndex](f, "label", int32(0))
	require.NoError(t, err)
	assert.Equal(t, int32(30), gotLabel.At(3))

	gotSeam, err := LoadAttribute[mesh.HalfedgeIndex](f, "seam", false)
	require.NoError(t, err)
	assert.True(t, gotSeam.At(5))
	assert.False(t, gotSeam.At(4))
}

func TestLoadAttributeErrors(t *testing.T) {
	m := cube(t)
	label := mesh.NewFaceAttribute(m, int32(0))
	f := roundTrip(t, m, WithAttribute("label", label))

	_, err := LoadAttribute[mesh.FaceIndex](f, "missing", int32(0))
	assert.ErrorIs(t, err, ErrNoAttribute)

	_, err = LoadAttribute[mesh.VertexIndex](f, "label", int32(0))
	assert.ErrorIs(t, err, ErrAttributeMismatch)

	_, err = LoadAttribute[mesh.FaceIndex](f, "label", float32(0))
	assert.ErrorIs(t, err, ErrAttributeMismatch)
}

func TestWriteRejectsAttributes(t *testing.T) {
	m := cube(t)
	other := cube(t)
	tests := []struct {
		name string
		opt  Option
		want error
	}{
		{"unsized element", WithAttribute("names", mesh.NewVertexAttribute(m, "")), ErrUnsupported},
		{"platform int", WithAttribute("ids", mesh.NewVertexAttribute(m, 0)), ErrUnsupported},
		{"foreign mesh", WithAttribute("x", mesh.NewFaceAttribute(other, int32(0))), ErrAttributeMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Write(&bytes.Buffer{}, m, tt.opt)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	a := mesh.NewVertexAttribute(m, int16(0))
	err := Write(&bytes.Buffer{}, m, WithAttribute("a", a), WithAttribute("a", a))
	assert.ErrorIs(t, err, ErrAttributeMismatch)
}

func TestReadRejects(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, cube(t)))
	good := buf.Bytes()

	brokenNext := bytes.Clone(good)
	// next[0] := 0, a halfedge that is its own successor
	binary.LittleEndian.PutUint32(brokenNext[32+2*24*4:], 0)

	negative := bytes.Clone(good)
	binary.LittleEndian.PutUint32(negative[4:], 0xffffffff)

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, ErrBadMagic},
		{"other format", []byte("OFF\n8 6 0\n"), ErrBadMagic},
		{"truncated header", good[:20], ErrCorrupt},
		{"truncated arrays", good[:100], ErrCorrupt},
		{"negative count", negative, ErrCorrupt},
		{"inconsistent links", brokenNext, ErrCorrupt},
		{"unknown codec", []byte("PMZ\x00\x09rest"), ErrCorrupt},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(bytes.NewReader(tt.data))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestReadShortStreamAllocatesLittle(t *testing.T) {
	hdr := header{Halfedges: maxElements}
	copy(hdr.Magic[:], magicPlain)
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, order, hdr))
	require.Equal(t, 32, buf.Len())

	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)
	_, err := Read(bytes.NewReader(buf.Bytes()))
	runtime.ReadMemStats(&after)

	require.ErrorIs(t, err, ErrCorrupt)
	assert.Contains(t, err.Error(), "truncated halfedge faces")
	assert.Less(t, after.TotalAlloc-before.TotalAlloc, uint64(16<<20))
}

func TestParseCompression(t *testing.T) {
	for in, want := range map[string]Compression{"": CompressionNone, "none": CompressionNone, "LZ4": CompressionLZ4, "zstd": CompressionZstd} {
		got, err := ParseCompression(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseCompression("brotli")
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestWriteFileReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cube.pm")
	m := cube(t)
	require.NoError(t, WriteFile(path, m, WithCompression(CompressionLZ4)))

	f, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, CompressionLZ4, f.Compression)
	assert.Equal(t, m.FaceCount(), f.Mesh.FaceCount())

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.pm"))
	assert.Error(t, err)
}
