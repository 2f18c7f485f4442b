package profiler

import (
	"runtime"
	"time"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer"
)

// Report summarizes one profiling interval.
type Report struct {
	// FPS is the frame rate over the interval.
	FPS float64
	// HeapMB is the live heap at the end of the interval.
	HeapMB float64
	// AllocRateMB is the allocation rate over the interval in MB/s.
	AllocRateMB float64
	// GCCount is the total number of completed GC cycles.
	GCCount uint32
	// MaxPauseUs is the longest GC pause during the interval in microseconds.
	MaxPauseUs uint64
	// Paths counts how often each transparent reorder path was taken.
	Paths map[renderer.ReorderPath]int
	// Comparisons is the total number of sort comparisons.
	Comparisons uint64
	// MaterialChanges is the total number of transparent material switches.
	MaterialChanges int
}

// Profiler tracks frame rate, memory and renderer statistics and logs a Report at a
// configurable interval.
type Profiler struct {
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	now            func() time.Time
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64

	paths           map[renderer.ReorderPath]int
	comparisons     uint64
	materialChanges int
	last            Report
}

// NewProfiler creates a new Profiler. The update interval defaults to 1 second.
//
// Parameters:
//   - options: functional options to configure the profiler
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerOption) *Profiler {
	p := &Profiler{
		updateInterval: time.Second,
		now:            time.Now,
		paths:          make(map[renderer.ReorderPath]int),
	}
	for _, opt := range options {
		opt(p)
	}
	p.lastTime = p.now()
	return p
}

// Tick should be called once per rendered frame with the renderer's statistics for that frame.
// Logs a Report when the update interval has elapsed.
//
// Parameters:
//   - stats: the statistics of the frame just rendered
//
// Returns:
//   - bool: true if a report was produced this tick, false otherwise
func (p *Profiler) Tick(stats renderer.FrameStats) bool {
	p.frameCount++
	p.paths[stats.Path]++
	p.comparisons += stats.Comparisons
	p.materialChanges += stats.MaterialChanges

	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	runtime.ReadMemStats(&p.memStats)
	// TotalAlloc only grows, so its delta is the churn over the interval
	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc

	gcCount := p.memStats.NumGC
	var maxPauseUs uint64
	// PauseNs is a circular buffer of the last 256 GC pauses
	startIdx := p.lastGCCount
	if gcCount-startIdx > 256 {
		startIdx = gcCount - 256
	}
	for i := startIdx; i < gcCount; i++ {
		maxPauseUs = max(maxPauseUs, p.memStats.PauseNs[i%256]/1000)
	}

	r := Report{
		FPS:             float64(p.frameCount) / elapsed.Seconds(),
		HeapMB:          float64(p.memStats.Alloc) / 1024 / 1024,
		AllocRateMB:     float64(allocDelta) / 1024 / 1024 / elapsed.Seconds(),
		GCCount:         gcCount,
		MaxPauseUs:      maxPauseUs,
		Paths:           p.paths,
		Comparisons:     p.comparisons,
		MaterialChanges: p.materialChanges,
	}
	common.Logger().Info("profiler",
		"fps", r.FPS,
		"heap_mb", r.HeapMB,
		"alloc_mb_s", r.AllocRateMB,
		"gc", r.GCCount,
		"gc_max_pause_us", r.MaxPauseUs,
		"noop", r.Paths[renderer.PathNoOp],
		"reverse", r.Paths[renderer.PathReverse],
		"cardinal_sort", r.Paths[renderer.PathCardinalSort],
		"distance_sort", r.Paths[renderer.PathDistanceSort],
		"comparisons", r.Comparisons,
		"material_changes", r.MaterialChanges,
	)

	p.last = r
	p.frameCount = 0
	p.lastTime = currentTime
	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	p.paths = make(map[renderer.ReorderPath]int)
	p.comparisons = 0
	p.materialChanges = 0
	return true
}

// LastReport returns the most recent report, or the zero Report before the first one.
func (p *Profiler) LastReport() Report {
	return p.last
}
