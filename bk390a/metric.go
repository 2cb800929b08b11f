package bk390a

import (
	"sync/atomic"
)

// ReaderMetrics contains atomic counters maintained by a FrameReader.
// Metrics can be used as the value of a prometheus CounterFunc.
type ReaderMetrics struct {
	// FrameCount indicates the number of complete frames assembled.
	FrameCount atomic.Uint64
	// TimeoutCount indicates the number of cycles without serial activity.
	TimeoutCount atomic.Uint64
	// OverrunCount indicates the number of frames discarded for overrun.
	OverrunCount atomic.Uint64
	// ShortFrameCount indicates the number of frames terminated early.
	ShortFrameCount atomic.Uint64
	// DiscardedBytes indicates the number of bytes dropped while resynchronizing.
	DiscardedBytes atomic.Uint64
}

func (m *ReaderMetrics) incFrameCount()      { m.FrameCount.Add(1) }
func (m *ReaderMetrics) incTimeoutCount()    { m.TimeoutCount.Add(1) }
func (m *ReaderMetrics) incOverrunCount()    { m.OverrunCount.Add(1) }
func (m *ReaderMetrics) incShortFrameCount() { m.ShortFrameCount.Add(1) }

func (m *ReaderMetrics) addDiscardedBytes(n int) {
	if n > 0 {
		m.DiscardedBytes.Add(uint64(n))
	}
}
