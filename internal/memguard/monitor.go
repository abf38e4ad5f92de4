// Package memguard watches process memory against GOMEMLIMIT. A full poll
// of a large cluster holds every pod object at once, so the serve loop
// releases memory back to the OS when usage nears the limit.
package memguard

import (
	"context"
	"log/slog"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MemStatsReader abstracts runtime.ReadMemStats for tests.
type MemStatsReader func(m *runtime.MemStats)

// Monitor samples memory usage at a fixed interval and calls OnPressure
// whenever usage exceeds Threshold of the memory limit.
type Monitor struct {
	Threshold  float64 // 0.8 = 80% of the limit
	Interval   time.Duration
	OnPressure func()

	readStats MemStatsReader
	limit     func() int64
	events    prometheus.Counter
}

// New creates a monitor that frees OS memory under pressure and counts each
// event on events. events may be nil.
func New(threshold float64, interval time.Duration, events prometheus.Counter) *Monitor {
	return &Monitor{
		Threshold:  threshold,
		Interval:   interval,
		OnPressure: debug.FreeOSMemory,
		readStats:  runtime.ReadMemStats,
		limit:      func() int64 { return debug.SetMemoryLimit(-1) },
		events:     events,
	}
}

// Run samples until ctx is done.
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Check()
		}
	}
}

// Check samples once and reports whether pressure was detected.
func (m *Monitor) Check() bool {
	ratio, ok := m.usageRatio()
	if !ok || ratio <= m.Threshold {
		return false
	}

	slog.Warn("memory pressure detected", "usage_ratio", ratio, "threshold", m.Threshold)
	if m.events != nil {
		m.events.Inc()
	}
	if m.OnPressure != nil {
		m.OnPressure()
	}
	return true
}

// usageRatio is (Sys - HeapReleased) / limit. ok is false when no limit
// is set.
func (m *Monitor) usageRatio() (float64, bool) {
	limit := m.limit()
	if limit <= 0 || limit == int64(^uint64(0)>>1) {
		return 0, false
	}

	var stats runtime.MemStats
	m.readStats(&stats)
	usage := stats.Sys - stats.HeapReleased
	return float64(usage) / float64(limit), true
}
