package profiler

import (
	"log/slog"
	"runtime"
	"time"
)

// Stats is one reporting window of the profiler.
type Stats struct {
	FramesPerSecond  float64
	UpdatesPerSecond float64
	HeapMB           float64
	AllocRateMB      float64
	GCCount          uint32
	LastPauseUs      uint64
	MaxPauseUs       uint64
	SysMB            float64
}

// Profiler tracks frame rate, graph update throughput, and memory statistics.
// Outputs stats to the logger at a configurable interval.
type Profiler struct {
	logger         *slog.Logger
	frameCount     int
	updateCount    int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	last           Stats
}

// ProfilerOption is a functional option for configuring a Profiler via NewProfiler.
type ProfilerOption func(*Profiler)

// WithInterval sets how often statistics are reported. Non-positive values are ignored.
func WithInterval(d time.Duration) ProfilerOption {
	return func(p *Profiler) {
		if d > 0 {
			p.updateInterval = d
		}
	}
}

// WithLogger sets the logger statistics are reported to.
func WithLogger(logger *slog.Logger) ProfilerOption {
	return func(p *Profiler) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewProfiler creates a new Profiler.
// Update interval defaults to 1 second and output goes to slog.Default().
//
// Parameters:
//   - options: a variadic list of ProfilerOption functions
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerOption) *Profiler {
	p := &Profiler{
		logger:         slog.Default(),
		lastTime:       time.Now(),
		updateInterval: time.Second,
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// Tick should be called once per simulated frame with the number of graph updates that
// frame performed. Logs performance statistics when the update interval has elapsed.
//
// Parameters:
//   - updates: the number of graph instance updates performed this frame
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick(updates int) bool {
	p.frameCount++
	p.updateCount += updates
	currentTime := time.Now()
	elapsed := currentTime.Sub(p.lastTime)

	if elapsed < p.updateInterval {
		return false
	}

	p.last = p.sample(elapsed)
	p.logger.Info("profiler",
		"fps", p.last.FramesPerSecond,
		"updates_per_sec", p.last.UpdatesPerSecond,
		"heap_mb", p.last.HeapMB,
		"alloc_rate_mb_s", p.last.AllocRateMB,
		"gc", p.last.GCCount,
		"gc_last_us", p.last.LastPauseUs,
		"gc_max_us", p.last.MaxPauseUs,
		"sys_mb", p.last.SysMB,
	)

	p.frameCount = 0
	p.updateCount = 0
	p.lastTime = currentTime
	return true
}

// Flush reports the partial window accumulated since the last report, regardless of interval.
//
// Returns:
//   - Stats: the statistics of the partial window
func (p *Profiler) Flush() Stats {
	elapsed := time.Since(p.lastTime)
	if elapsed <= 0 {
		elapsed = time.Nanosecond
	}
	p.last = p.sample(elapsed)
	p.frameCount = 0
	p.updateCount = 0
	p.lastTime = time.Now()
	return p.last
}

// Last returns the statistics of the most recent reporting window.
func (p *Profiler) Last() Stats {
	return p.last
}

func (p *Profiler) sample(elapsed time.Duration) Stats {
	runtime.ReadMemStats(&p.memStats)
	// Alloc: bytes of live heap objects. TotalAlloc: cumulative, tracks churn. Sys: process footprint.
	s := Stats{
		FramesPerSecond:  float64(p.frameCount) / elapsed.Seconds(),
		UpdatesPerSecond: float64(p.updateCount) / elapsed.Seconds(),
		HeapMB:           float64(p.memStats.Alloc) / 1024 / 1024,
		SysMB:            float64(p.memStats.Sys) / 1024 / 1024,
		AllocRateMB:      float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / elapsed.Seconds(),
		GCCount:          p.memStats.NumGC,
	}

	gcCount := p.memStats.NumGC
	if gcCount > 0 {
		// PauseNs is a circular buffer of the last 256 GC pauses
		s.LastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000

		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			pause := p.memStats.PauseNs[i%256] / 1000
			if pause > s.MaxPauseUs {
				s.MaxPauseUs = pause
			}
		}
	}

	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return s
}
