package profiler

import (
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func TestTickReportsAfterInterval(t *testing.T) {
	clock := &fakeClock{t: time.Unix(100, 0)}
	p := NewProfiler(WithInterval(time.Second), WithClock(clock.now))

	clock.t = clock.t.Add(400 * time.Millisecond)
	assert.False(t, p.Tick(renderer.FrameStats{Path: renderer.PathCardinalSort, Comparisons: 10, MaterialChanges: 2}))
	clock.t = clock.t.Add(400 * time.Millisecond)
	assert.False(t, p.Tick(renderer.FrameStats{Path: renderer.PathNoOp}))
	clock.t = clock.t.Add(200 * time.Millisecond)
	require.True(t, p.Tick(renderer.FrameStats{Path: renderer.PathReverse, MaterialChanges: 1}))

	r := p.LastReport()
	assert.InDelta(t, 3.0, r.FPS, 1e-9)
	assert.Equal(t, 1, r.Paths[renderer.PathCardinalSort])
	assert.Equal(t, 1, r.Paths[renderer.PathNoOp])
	assert.Equal(t, 1, r.Paths[renderer.PathReverse])
	assert.Equal(t, uint64(10), r.Comparisons)
	assert.Equal(t, 3, r.MaterialChanges)
}

func TestTickResetsCounters(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	p := NewProfiler(WithInterval(time.Second), WithClock(clock.now))

	clock.t = clock.t.Add(time.Second)
	require.True(t, p.Tick(renderer.FrameStats{Path: renderer.PathDistanceSort, Comparisons: 7}))

	clock.t = clock.t.Add(2 * time.Second)
	require.True(t, p.Tick(renderer.FrameStats{Path: renderer.PathNoOp}))

	r := p.LastReport()
	assert.InDelta(t, 0.5, r.FPS, 1e-9)
	assert.Zero(t, r.Paths[renderer.PathDistanceSort])
	assert.Zero(t, r.Comparisons)
}
