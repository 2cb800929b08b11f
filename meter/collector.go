package meter

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "bk390a"

type counterDesc struct {
	desc  *prometheus.Desc
	value func(*Meter) float64
}

// Collector exports the counters of a Meter and its frame reader.
type Collector struct {
	meter    *Meter
	counters []counterDesc
	modeDesc *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector creates a prometheus collector reading m's metrics on scrape.
func NewCollector(m *Meter) *Collector {
	newDesc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "", name), help, nil, nil)
	}

	return &Collector{
		meter: m,
		counters: []counterDesc{
			{newDesc("measurements_total", "Frames decoded and rendered."),
				func(m *Meter) float64 { return float64(m.metrics.MeasurementCount.Load()) }},
			{newDesc("no_connection_total", "Cycles without serial activity."),
				func(m *Meter) float64 { return float64(m.metrics.NoConnectionCount.Load()) }},
			{newDesc("overruns_total", "Frames dropped because no terminator followed nine bytes."),
				func(m *Meter) float64 { return float64(m.metrics.OverrunCount.Load()) }},
			{newDesc("short_frames_total", "Frames dropped because the terminator came early."),
				func(m *Meter) float64 { return float64(m.metrics.ShortFrameCount.Load()) }},
			{newDesc("decode_errors_total", "Frames with an unknown function or range."),
				func(m *Meter) float64 { return float64(m.metrics.DecodeErrorCount.Load()) }},
			{newDesc("overloads_total", "Overload readings."),
				func(m *Meter) float64 { return float64(m.metrics.OverloadCount.Load()) }},
			{newDesc("port_errors_total", "Unexpected serial port errors."),
				func(m *Meter) float64 { return float64(m.metrics.PortErrorCount.Load()) }},
			{newDesc("frames_total", "Complete frames received by the reader."),
				func(m *Meter) float64 { return float64(m.reader.Metrics().FrameCount.Load()) }},
			{newDesc("discarded_bytes_total", "Bytes discarded while resynchronizing."),
				func(m *Meter) float64 { return float64(m.reader.Metrics().DiscardedBytes.Load()) }},
		},
		modeDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "mode_measurements_total"),
			"Measurements per meter mode.",
			[]string{"mode"}, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, cd := range c.counters {
		ch <- cd.desc
	}
	ch <- c.modeDesc
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for _, cd := range c.counters {
		ch <- prometheus.MustNewConstMetric(cd.desc, prometheus.CounterValue, cd.value(c.meter))
	}
	for mode, n := range c.meter.metrics.ModeCounts() {
		ch <- prometheus.MustNewConstMetric(c.modeDesc, prometheus.CounterValue, float64(n), mode)
	}
}
