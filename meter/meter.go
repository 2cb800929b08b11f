package meter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/arloliu/go-bk390a/bk390a"
	"github.com/arloliu/go-bk390a/display"
	"github.com/arloliu/go-bk390a/internal/pool"
	"github.com/arloliu/go-bk390a/logger"
	"github.com/arloliu/go-bk390a/serial"
)

// Port is the serial link a Meter reads from and closes when done.
type Port interface {
	bk390a.Port
	io.Closer
}

// Outcome classifies one acquisition cycle.
type Outcome int

const (
	// OutcomeMeasurement: a frame was decoded and is ready to render.
	OutcomeMeasurement Outcome = iota
	// OutcomeDisconnected: no serial activity within the read timeout.
	OutcomeDisconnected
	// OutcomeDropped: an overrun or short frame was discarded.
	OutcomeDropped
	// OutcomeHeld: the frame could not be decoded; the last reading is held.
	OutcomeHeld
	// OutcomePortError: the port failed unexpectedly.
	OutcomePortError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeMeasurement:
		return "measurement"
	case OutcomeDisconnected:
		return "disconnected"
	case OutcomeDropped:
		return "dropped"
	case OutcomeHeld:
		return "held"
	case OutcomePortError:
		return "port-error"
	default:
		return "unknown"
	}
}

// Cycle is the result of one Step.
type Cycle struct {
	Outcome Outcome
	// Update is the display refresh for this cycle; valid only when Render is true.
	Update display.Update
	Render bool
	// Err is the recoverable error behind a non-measurement outcome.
	Err error
}

// Meter drives a FrameReader over a Port and turns each cycle into a
// display.Update.
//
// Step and Run must not be called concurrently. Metrics and Close are safe to
// call from other goroutines.
type Meter struct {
	cfg     *Config
	port    Port
	reader  *bk390a.FrameReader
	board   *display.Board
	metrics *Metrics
	logger  logger.Logger

	closeOnce sync.Once
	closeErr  error
}

// New creates a Meter reading from port. A nil cfg uses NewConfig defaults.
func New(port Port, cfg *Config) *Meter {
	if cfg == nil {
		cfg, _ = NewConfig()
	}

	return &Meter{
		cfg:  cfg,
		port: port,
		reader: bk390a.NewFrameReader(port,
			bk390a.WithInterByteTimeout(cfg.InterByteTimeout()),
			bk390a.WithMaxDrain(cfg.MaxDrain()),
			bk390a.WithReaderLogger(cfg.GetLogger()),
		),
		board:   display.NewBoard(cfg.ShowMode()),
		metrics: newMetrics(),
		logger:  cfg.GetLogger(),
	}
}

// Config returns the meter configuration.
func (m *Meter) Config() *Config { return m.cfg }

// Metrics returns the meter counters.
func (m *Meter) Metrics() *Metrics { return m.metrics }

// ReaderMetrics returns the counters of the underlying frame reader.
func (m *Meter) ReaderMetrics() *bk390a.ReaderMetrics { return m.reader.Metrics() }

// Last returns the last rendered measurement update.
func (m *Meter) Last() (display.Update, bool) { return m.board.Last() }

// Step runs one acquisition cycle.
//
// Recoverable conditions are reported through the returned Cycle. A non-nil
// error ends acquisition: the context was canceled, the stream ended (io.EOF)
// or the port was closed (serial.ErrClosed).
func (m *Meter) Step(ctx context.Context) (Cycle, error) {
	raw, err := m.reader.ReadFrame(ctx, m.cfg.ReadTimeout())
	if err != nil {
		return m.readFailed(err)
	}

	meas, err := bk390a.Decode(raw)
	if err != nil {
		m.metrics.incDecodeErrorCount()
		m.logger.Warn("meter: frame rejected", "frame", raw.String(), "error", err)

		u, ok := m.board.Hold()

		return Cycle{Outcome: OutcomeHeld, Update: u, Render: ok, Err: err}, nil
	}

	m.metrics.incMeasurementCount()
	m.metrics.incMode(meas.Mode.String())
	if meas.Overload {
		m.metrics.incOverloadCount()
	}

	return Cycle{Outcome: OutcomeMeasurement, Update: m.board.Show(meas), Render: true}, nil
}

func (m *Meter) readFailed(err error) (Cycle, error) {
	switch {
	case isEnd(err):
		return Cycle{}, err

	case errors.Is(err, bk390a.ErrNoConnection):
		m.metrics.incNoConnectionCount()
		m.logger.Debug("meter: no serial activity", "timeout", m.cfg.ReadTimeout())

		return Cycle{Outcome: OutcomeDisconnected, Update: m.board.Disconnected(), Render: true, Err: err}, nil

	case errors.Is(err, bk390a.ErrOverrun):
		m.metrics.incOverrunCount()
		m.logger.Debug("meter: frame dropped", "error", err)

		return Cycle{Outcome: OutcomeDropped, Err: err}, nil

	case errors.Is(err, bk390a.ErrShortFrame):
		m.metrics.incShortFrameCount()
		m.logger.Debug("meter: frame dropped", "error", err)

		return Cycle{Outcome: OutcomeDropped, Err: err}, nil

	default:
		m.metrics.incPortErrorCount()
		m.logger.Error("meter: port error", "error", err, "retry_in", m.cfg.RetryInterval())

		return Cycle{Outcome: OutcomePortError, Update: m.board.Disconnected(), Render: true, Err: err}, nil
	}
}

// Run repeats Step until ctx is canceled, the stream ends or the port is
// closed, rendering every update to r. It closes the port on return, and r too
// when r implements io.Closer.
//
// Run returns nil on a normal end and a wrapped error when rendering fails.
func (m *Meter) Run(ctx context.Context, r display.Renderer) error {
	defer func() { _ = m.Close() }()
	if c, ok := r.(io.Closer); ok {
		defer func() { _ = c.Close() }()
	}

	m.logger.Info("meter: acquisition started", "read_timeout", m.cfg.ReadTimeout())

	for {
		c, err := m.Step(ctx)
		if err != nil {
			if isEnd(err) {
				m.logger.Info("meter: acquisition stopped", "reason", err)
				return nil
			}

			return err
		}

		if c.Render {
			if err := r.Render(c.Update); err != nil {
				return fmt.Errorf("meter: render: %w", err)
			}
		}

		if c.Outcome == OutcomePortError {
			if err := sleep(ctx, m.cfg.RetryInterval()); err != nil {
				m.logger.Info("meter: acquisition stopped", "reason", err)
				return nil
			}
		}
	}
}

// Close closes the port. It is safe to call more than once and concurrently
// with Run, which then ends at its next port access.
func (m *Meter) Close() error {
	m.closeOnce.Do(func() {
		m.closeErr = m.port.Close()
	})

	return m.closeErr
}

func isEnd(err error) bool {
	return errors.Is(err, io.EOF) ||
		errors.Is(err, serial.ErrClosed) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

func sleep(ctx context.Context, d time.Duration) error {
	t := pool.GetTimer(d)
	defer pool.PutTimer(t)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
