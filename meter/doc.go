// Package meter runs the acquisition cycle of a BK Precision 390A: wait for
// serial activity, read a frame, decode it, format it and hand the result to
// a display.Renderer.
//
// A Meter owns its port for the lifetime of Run and closes it on exit.
// Recoverable per-cycle errors are turned into display updates:
//
//   - bk390a.ErrNoConnection: the disconnected notice is rendered.
//   - bk390a.ErrOverrun, bk390a.ErrShortFrame: the frame is dropped and the
//     display is left as is.
//   - bk390a.ErrUnknownFunction, bk390a.ErrInvalidRange: the previous reading
//     is rendered again, marked as held.
//   - any other port error: the disconnected notice is rendered and the
//     meter waits RetryInterval before the next cycle.
//
// io.EOF (a finished replay) and serial.ErrClosed end Run without error.
//
// Counters are kept in Metrics and can be exported with NewCollector:
//
//	m := meter.New(port, cfg)
//	prometheus.MustRegister(meter.NewCollector(m))
//	err := m.Run(ctx, display.NewTextRenderer(os.Stdout))
package meter
