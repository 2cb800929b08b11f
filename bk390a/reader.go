package bk390a

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/arloliu/go-bk390a/logger"
)

// Port is the byte-stream source a FrameReader consumes. It is satisfied by
// serial.Port and serial.StreamPort.
type Port interface {
	// WaitReadable blocks until input is available or the timeout elapses,
	// reporting false with a nil error on timeout.
	WaitReadable(timeout time.Duration) (bool, error)
	// Read reads available input. Returning 0 bytes and a nil error is a
	// short read and is retried.
	Read(buf []byte) (int, error)
}

const (
	// DefaultInterByteTimeout bounds the silence between two bytes of a frame.
	DefaultInterByteTimeout = 100 * time.Millisecond
	// DefaultMaxDrain bounds the bytes discarded to resynchronize after an overrun.
	DefaultMaxDrain = 64
	// MaxEmptyReads bounds consecutive zero-byte reads on a port that reports
	// itself readable. Past it the port is considered stuck.
	MaxEmptyReads = 16
)

// ReaderState is the position of a FrameReader in the acquisition cycle.
type ReaderState int

const (
	StateIdle ReaderState = iota
	StateCollecting
	StateComplete
	StateOverrun
	StateShortFrame
	StateTimeout
)

func (s ReaderState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCollecting:
		return "collecting"
	case StateComplete:
		return "complete"
	case StateOverrun:
		return "overrun"
	case StateShortFrame:
		return "short-frame"
	case StateTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// ReaderOption configures a FrameReader.
type ReaderOption func(*FrameReader)

// WithInterByteTimeout sets the maximum silence between bytes within a frame.
func WithInterByteTimeout(d time.Duration) ReaderOption {
	return func(r *FrameReader) {
		if d > 0 {
			r.interByteTimeout = d
		}
	}
}

// WithMaxDrain sets how many bytes may be discarded after an overrun while
// looking for the next terminator.
func WithMaxDrain(n int) ReaderOption {
	return func(r *FrameReader) {
		if n >= 0 {
			r.maxDrain = n
		}
	}
}

// WithReaderLogger sets the logger. Frames are hex dumped at debug level.
func WithReaderLogger(l logger.Logger) ReaderOption {
	return func(r *FrameReader) {
		if l != nil {
			r.logger = l
		}
	}
}

// FrameReader assembles RawFrames from a Port.
//
// It is NOT goroutine-safe; one cycle runs at a time. No partial frame is kept
// between ReadFrame calls.
type FrameReader struct {
	port             Port
	interByteTimeout time.Duration
	maxDrain         int
	logger           logger.Logger
	state            ReaderState
	metrics          ReaderMetrics
}

// NewFrameReader creates a FrameReader reading from port.
func NewFrameReader(port Port, opts ...ReaderOption) *FrameReader {
	r := &FrameReader{
		port:             port,
		interByteTimeout: DefaultInterByteTimeout,
		maxDrain:         DefaultMaxDrain,
		logger:           logger.GetLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// State returns the state reached by the last ReadFrame call.
func (r *FrameReader) State() ReaderState { return r.state }

// Metrics returns the reader's counters.
func (r *FrameReader) Metrics() *ReaderMetrics { return &r.metrics }

// ReadFrame waits up to timeout for serial activity, then collects bytes until
// the terminator.
//
// Outcomes:
//   - no activity within timeout: ErrNoConnection.
//   - more than FrameSize bytes without a terminator, or silence after some
//     bytes arrived: ErrOverrun. The line is drained to the next terminator.
//   - terminator after fewer than FrameSize bytes: ErrShortFrame.
//   - more than MaxEmptyReads consecutive empty reads: io.ErrNoProgress.
//   - any Port error is returned wrapped.
//
// ctx is checked before the activity wait and before every byte.
func (r *FrameReader) ReadFrame(ctx context.Context, timeout time.Duration) (RawFrame, error) {
	r.state = StateIdle

	if err := ctx.Err(); err != nil {
		return RawFrame{}, err
	}

	ready, err := r.port.WaitReadable(timeout)
	if err != nil {
		return RawFrame{}, fmt.Errorf("bk390a: wait for activity: %w", err)
	}
	if !ready {
		r.state = StateTimeout
		r.metrics.incTimeoutCount()

		return RawFrame{}, fmt.Errorf("%w: nothing received within %s", ErrNoConnection, timeout)
	}

	r.state = StateCollecting

	var (
		buf  [FrameSize]byte
		one  [1]byte
		n    int
		wait  bool // the first read follows the activity wait above
		empty int
	)

	for {
		if err := ctx.Err(); err != nil {
			r.state = StateIdle
			return RawFrame{}, err
		}

		if wait {
			ready, err := r.port.WaitReadable(r.interByteTimeout)
			if err != nil {
				return RawFrame{}, fmt.Errorf("bk390a: wait for byte %d: %w", n, err)
			}
			if !ready {
				return RawFrame{}, r.silence(n)
			}
		}
		wait = true

		k, err := r.port.Read(one[:])
		if err != nil {
			return RawFrame{}, fmt.Errorf("bk390a: read byte %d: %w", n, err)
		}
		if k == 0 {
			empty++
			if empty > MaxEmptyReads {
				return RawFrame{}, fmt.Errorf("bk390a: read byte %d: %w", n, io.ErrNoProgress)
			}

			continue // short read
		}
		empty = 0

		b := one[0]
		if b == Terminator {
			if n == FrameSize {
				return r.complete(buf), nil
			}

			r.state = StateShortFrame
			r.metrics.incShortFrameCount()
			r.metrics.addDiscardedBytes(n)
			r.logger.Debug("bk390a: short frame discarded", "bytes", fmt.Sprintf("% x", buf[:n]))

			return RawFrame{}, fmt.Errorf("%w: terminator after %d bytes", ErrShortFrame, n)
		}

		if n == FrameSize {
			r.state = StateOverrun
			r.metrics.incOverrunCount()
			dropped := r.drain()
			r.metrics.addDiscardedBytes(FrameSize + 1 + dropped)
			r.logger.Debug("bk390a: frame overrun",
				"bytes", fmt.Sprintf("% x", buf[:]),
				"next", fmt.Sprintf("%02x", b),
				"drained", dropped,
			)

			return RawFrame{}, fmt.Errorf("%w: no terminator within %d bytes", ErrOverrun, FrameSize)
		}

		buf[n] = b
		n++
	}
}

func (r *FrameReader) complete(buf [FrameSize]byte) RawFrame {
	frame := RawFrame(buf)
	r.state = StateComplete
	r.metrics.incFrameCount()
	r.logger.Debug("bk390a: frame received", "bytes", frame.String())

	return frame
}

// silence handles the line going quiet before the terminator.
func (r *FrameReader) silence(n int) error {
	if n == 0 {
		r.state = StateTimeout
		r.metrics.incTimeoutCount()

		return fmt.Errorf("%w: activity signaled but no data", ErrNoConnection)
	}

	r.state = StateOverrun
	r.metrics.incOverrunCount()
	r.metrics.addDiscardedBytes(n)

	return fmt.Errorf("%w: incomplete frame, line silent after %d bytes", ErrOverrun, n)
}

// drain discards input up to and including the next terminator, stopping early
// on silence, a port error, a stuck port or after maxDrain bytes. It returns
// the number of bytes discarded, terminator excluded.
func (r *FrameReader) drain() int {
	var one [1]byte
	dropped, empty := 0, 0
	for dropped < r.maxDrain && empty <= MaxEmptyReads {
		ready, err := r.port.WaitReadable(r.interByteTimeout)
		if err != nil || !ready {
			return dropped
		}

		k, err := r.port.Read(one[:])
		if err != nil {
			return dropped
		}
		if k == 0 {
			empty++
			continue
		}
		empty = 0
		if one[0] == Terminator {
			return dropped
		}
		dropped++
	}

	return dropped
}
