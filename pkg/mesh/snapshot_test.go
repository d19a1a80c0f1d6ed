package mesh

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotRoundTrip(t *testing.T) {
	m, vs := cube(t)
	m.RemoveFace(3)
	iso := m.AddVertex()
	m.RemoveVertex(m.AddVertex())

	snap := m.Snapshot()
	assert.Equal(t, int32(-1), snap.VertexOutgoing[iso])
	assert.Equal(t, int32(-2), snap.VertexOutgoing[len(snap.VertexOutgoing)-1])
	assert.Equal(t, int32(-1), snap.FaceHalfedge[3])

	back, err := FromTopology(snap)
	require.NoError(t, err)
	assert.Equal(t, m.VertexCount(), back.VertexCount())
	assert.Equal(t, m.RemovedVertexCount(), back.RemovedVertexCount())
	assert.Equal(t, m.RemovedFaceCount(), back.RemovedFaceCount())
	assert.Equal(t, m.HalfedgeCount(), back.HalfedgeCount())
	if diff := cmp.Diff(faceSet(m), faceSet(back)); diff != "" {
		t.Errorf("faces differ (-want +got):\n%s", diff)
	}
	assert.Equal(t, m.Valence(vs[0]), back.Valence(vs[0]))
	if diff := cmp.Diff(snap, back.Snapshot()); diff != "" {
		t.Errorf("snapshot differs (-want +got):\n%s", diff)
	}
}

func TestFromTopologyRejects(t *testing.T) {
	good := func() Topology {
		m, _ := twoTriangles(t)
		return m.Snapshot()
	}
	tests := []struct {
		name   string
		mutate func(*Topology)
	}{
		{"odd halfedges", func(tp *Topology) { tp.HalfedgeTo = tp.HalfedgeTo[:3] }},
		{"next out of range", func(tp *Topology) { tp.HalfedgeNext[0] = 99 }},
		{"bad vertex state", func(tp *Topology) { tp.VertexOutgoing[0] = -7 }},
		{"face out of range", func(tp *Topology) { tp.FaceHalfedge[0] = 1000 }},
		{"inconsistent links", func(tp *Topology) { tp.HalfedgePrev[0], tp.HalfedgePrev[1] = tp.HalfedgePrev[1], tp.HalfedgePrev[0] }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tp := good()
			tt.mutate(&tp)
			_, err := FromTopology(tp)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidTopology))
		})
	}
}
