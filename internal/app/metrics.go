package app

import (
	"sync/atomic"
	"time"

	"github.com/dshills/selshape/internal/renderer/selection"
)

// Metrics tracks frame timing and selection piece counts.
type Metrics struct {
	frameCount   atomic.Uint64
	frameTotalNs atomic.Int64
	frameMinNs   atomic.Int64
	frameMaxNs   atomic.Int64
	lastFrameNs  atomic.Int64

	pieces     atomic.Uint64
	selections atomic.Uint64
	gapped     atomic.Uint64

	startTime time.Time
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	m := &Metrics{startTime: time.Now()}
	m.frameMinNs.Store(1<<63 - 1)
	return m
}

// RecordFrame records the duration and selection statistics of one frame.
func (m *Metrics) RecordFrame(duration time.Duration, stats selection.FrameStats) {
	ns := duration.Nanoseconds()

	m.frameCount.Add(1)
	m.frameTotalNs.Add(ns)
	m.lastFrameNs.Store(ns)
	m.pieces.Add(uint64(stats.Pieces))
	m.selections.Add(uint64(stats.Selections))
	m.gapped.Add(uint64(stats.Gapped))

	for {
		old := m.frameMinNs.Load()
		if ns >= old || m.frameMinNs.CompareAndSwap(old, ns) {
			break
		}
	}
	for {
		old := m.frameMaxNs.Load()
		if ns <= old || m.frameMaxNs.CompareAndSwap(old, ns) {
			break
		}
	}
}

// Snapshot returns a snapshot of current metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	s := MetricsSnapshot{
		Uptime:         time.Since(m.startTime),
		FrameCount:     m.frameCount.Load(),
		LastFrameNs:    m.lastFrameNs.Load(),
		MaxFrameTimeNs: m.frameMaxNs.Load(),
		Pieces:         m.pieces.Load(),
		Selections:     m.selections.Load(),
		Gapped:         m.gapped.Load(),
	}
	if s.FrameCount > 0 {
		s.AvgFrameTimeNs = m.frameTotalNs.Load() / int64(s.FrameCount)
		s.MinFrameTimeNs = m.frameMinNs.Load()
	}
	return s
}

// MetricsSnapshot is a point-in-time view of metrics.
type MetricsSnapshot struct {
	Uptime         time.Duration
	FrameCount     uint64
	AvgFrameTimeNs int64
	MinFrameTimeNs int64
	MaxFrameTimeNs int64
	LastFrameNs    int64

	// Totals over all frames.
	Pieces     uint64
	Selections uint64
	Gapped     uint64
}

// AvgFPS returns the average frames per second.
func (s MetricsSnapshot) AvgFPS() float64 {
	if s.AvgFrameTimeNs == 0 {
		return 0
	}
	return 1e9 / float64(s.AvgFrameTimeNs)
}

// GapRate returns the share of drawn selections that fell back to
// unrounded rectangles.
func (s MetricsSnapshot) GapRate() float64 {
	if s.Selections == 0 {
		return 0
	}
	return float64(s.Gapped) / float64(s.Selections)
}

// Timer provides a simple way to measure elapsed time.
type Timer struct {
	start time.Time
}

// StartTimer creates a new timer.
func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Elapsed returns the elapsed time since the timer started.
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}
