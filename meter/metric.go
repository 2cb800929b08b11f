package meter

import (
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v3"
)

// Metrics contains the counters of a Meter. All fields are safe to read
// while the meter runs.
type Metrics struct {
	// MeasurementCount indicates the number of frames decoded and rendered.
	MeasurementCount atomic.Uint64
	// NoConnectionCount indicates the number of cycles without serial activity.
	NoConnectionCount atomic.Uint64
	// OverrunCount indicates the number of frames dropped as overruns.
	OverrunCount atomic.Uint64
	// ShortFrameCount indicates the number of frames dropped as too short.
	ShortFrameCount atomic.Uint64
	// DecodeErrorCount indicates the number of frames with an unknown
	// function or range.
	DecodeErrorCount atomic.Uint64
	// OverloadCount indicates the number of overload readings.
	OverloadCount atomic.Uint64
	// PortErrorCount indicates the number of unexpected port errors.
	PortErrorCount atomic.Uint64

	modes *xsync.MapOf[string, *xsync.Counter]
}

func newMetrics() *Metrics {
	return &Metrics{modes: xsync.NewMapOf[string, *xsync.Counter]()}
}

func (m *Metrics) incMeasurementCount()  { m.MeasurementCount.Add(1) }
func (m *Metrics) incNoConnectionCount() { m.NoConnectionCount.Add(1) }
func (m *Metrics) incOverrunCount()      { m.OverrunCount.Add(1) }
func (m *Metrics) incShortFrameCount()   { m.ShortFrameCount.Add(1) }
func (m *Metrics) incDecodeErrorCount()  { m.DecodeErrorCount.Add(1) }
func (m *Metrics) incOverloadCount()     { m.OverloadCount.Add(1) }
func (m *Metrics) incPortErrorCount()    { m.PortErrorCount.Add(1) }

func (m *Metrics) incMode(mode string) {
	c, _ := m.modes.LoadOrCompute(mode, xsync.NewCounter)
	c.Inc()
}

// ModeCount returns the number of measurements taken in the given mode label.
func (m *Metrics) ModeCount(mode string) int64 {
	c, ok := m.modes.Load(mode)
	if !ok {
		return 0
	}

	return c.Value()
}

// ModeCounts returns a snapshot of the per-mode measurement counts.
func (m *Metrics) ModeCounts() map[string]int64 {
	out := make(map[string]int64, m.modes.Size())
	m.modes.Range(func(mode string, c *xsync.Counter) bool {
		out[mode] = c.Value()
		return true
	})

	return out
}
