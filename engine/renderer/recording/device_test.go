package recording

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/primitive"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/material"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchRecordAndReplay(t *testing.T) {
	d := NewDevice()
	m := material.NewMaterial(material.WithName("a"))

	id, err := d.BeginBatch()
	require.NoError(t, err)
	d.SetMaterial(m)
	verts := []common.Vec3{{X: 1}, {Y: 1}, {Z: 1}}
	d.DrawPrimitive(primitive.Triangles, verts, verts, nil)
	require.NoError(t, d.EndBatch(id))

	verts[0].X = 99 // the device keeps its own copy
	assert.Empty(t, d.Log(), "batched commands are not drawn while recording")

	require.NoError(t, d.CallBatch(id))
	log := d.Log()
	require.Len(t, log, 3)
	assert.Equal(t, CmdCallBatch, log[0].Type)
	assert.Equal(t, CmdSetMaterial, log[1].Type)
	assert.Equal(t, float32(1), log[2].Vertices[0].X)
	assert.Equal(t, id, log[2].Batch)
	assert.Empty(t, d.Draws())

	d.DrawPrimitive(primitive.Lines, verts[:2], verts[:2], nil)
	assert.Len(t, d.Draws(), 1)
	assert.Equal(t, 2, d.Count(CmdDraw))
}

func TestReleaseBatch(t *testing.T) {
	d := NewDevice()
	id, err := d.BeginBatch()
	require.NoError(t, err)
	require.NoError(t, d.EndBatch(id))
	assert.Equal(t, 1, d.LiveBatches())

	d.ReleaseBatch(id)
	d.ReleaseBatch(id)
	assert.Equal(t, 0, d.LiveBatches())
	assert.Equal(t, 2, d.ReleaseCalls())
	assert.ErrorIs(t, d.CallBatch(id), ErrUnknownBatch)
}

func TestFaultInjection(t *testing.T) {
	boom := errors.New("boom")
	_, err := NewDevice(WithBeginBatchError(boom)).BeginBatch()
	assert.ErrorIs(t, err, boom)

	d := NewDevice(WithEndBatchError(boom))
	id, err := d.BeginBatch()
	require.NoError(t, err)
	assert.ErrorIs(t, d.EndBatch(id), boom)
	_, ok := d.Batch(id)
	assert.False(t, ok)

	d = NewDevice(WithCallBatchError(boom))
	id, err = d.BeginBatch()
	require.NoError(t, err)
	require.NoError(t, d.EndBatch(id))
	assert.ErrorIs(t, d.CallBatch(id), boom)
	assert.Empty(t, d.Log())
}

func TestNestedBatchRejected(t *testing.T) {
	d := NewDevice()
	_, err := d.BeginBatch()
	require.NoError(t, err)
	_, err = d.BeginBatch()
	assert.ErrorIs(t, err, ErrNestedBatch)
}
