package meter

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/arloliu/go-bk390a/bk390a"
	"github.com/arloliu/go-bk390a/display"
	"github.com/arloliu/go-bk390a/serial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(r *display.ChanRenderer) []display.Update {
	var out []display.Update
	for u := range r.Updates() {
		out = append(out, u)
	}

	return out
}

func TestMeter_RunReplay(t *testing.T) {
	data := concat(frameMilliVolts, frameUnknownFn, frameShort, frameVoltsOL)
	port := serial.NewStreamPort(bytes.NewReader(data))
	m := New(port, newTestConfig(t))

	r := display.NewChanRenderer(16)
	require.NoError(t, m.Run(context.Background(), r))

	updates := collect(r)
	require.Len(t, updates, 3)

	assert.Equal(t, display.StatusLive, updates[0].Status)
	assert.Equal(t, bk390a.Lines{Value: " 2.5mV", Mode: "Volts"}, updates[0].Lines)

	// The unknown function keeps the previous output, marked as held.
	assert.Equal(t, display.StatusHeld, updates[1].Status)
	assert.Equal(t, updates[0].Lines, updates[1].Lines)

	// The short frame renders nothing.
	assert.Equal(t, display.StatusLive, updates[2].Status)
	assert.Equal(t, "O.L.", updates[2].Lines.Value)
	assert.True(t, updates[2].Measurement.Overload)

	metrics := m.Metrics()
	assert.EqualValues(t, 2, metrics.MeasurementCount.Load())
	assert.EqualValues(t, 1, metrics.DecodeErrorCount.Load())
	assert.EqualValues(t, 1, metrics.ShortFrameCount.Load())
	assert.EqualValues(t, 1, metrics.OverloadCount.Load())
	assert.EqualValues(t, 2, metrics.ModeCount("Volts"))
	assert.EqualValues(t, 0, metrics.ModeCount("Amps"))
	assert.Equal(t, map[string]int64{"Volts": 2}, metrics.ModeCounts())
	assert.EqualValues(t, 3, m.ReaderMetrics().FrameCount.Load())

	_, err := port.Read(make([]byte, 1))
	assert.ErrorIs(t, err, serial.ErrClosed, "Run closes the port")
}

func TestMeter_StepUnknownFunctionBeforeAnyReading(t *testing.T) {
	port := serial.NewStreamPort(bytes.NewReader(frameUnknownFn))
	m := New(port, newTestConfig(t))
	defer m.Close()

	c, err := m.Step(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeHeld, c.Outcome)
	assert.False(t, c.Render)
	assert.ErrorIs(t, c.Err, bk390a.ErrUnknownFunction)

	_, ok := m.Last()
	assert.False(t, ok)
}

func TestMeter_StepOverrun(t *testing.T) {
	tooLong := []byte{0x00, 0x30, 0x30, 0x32, 0x35, 0x3B, 0x00, 0x00, 0x00, 0x00, 0x0A}
	port := serial.NewStreamPort(bytes.NewReader(concat(tooLong, frameMilliVolts)))
	m := New(port, newTestConfig(t))
	defer m.Close()

	c, err := m.Step(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeDropped, c.Outcome)
	assert.False(t, c.Render)
	assert.ErrorIs(t, c.Err, bk390a.ErrOverrun)
	assert.EqualValues(t, 1, m.Metrics().OverrunCount.Load())

	c, err = m.Step(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeMeasurement, c.Outcome)
	assert.Equal(t, " 2.5mV", c.Update.Lines.Value)
}

func TestMeter_StepNoConnection(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	m := New(serial.NewStreamPort(pr), newTestConfig(t, WithShowMode(false)))
	defer m.Close()

	start := time.Now()
	c, err := m.Step(context.Background())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), MinReadTimeout)

	assert.Equal(t, OutcomeDisconnected, c.Outcome)
	assert.True(t, c.Render)
	assert.ErrorIs(t, c.Err, bk390a.ErrNoConnection)
	assert.Equal(t, display.StatusDisconnected, c.Update.Status)
	assert.Equal(t, bk390a.Lines{Value: "N/C", Mode: "Check RS232"}, c.Update.Lines)
	assert.EqualValues(t, 1, m.Metrics().NoConnectionCount.Load())
}

func TestMeter_RunPortErrorBacksOff(t *testing.T) {
	port := &errPort{errs: []error{errors.New("device unplugged")}}
	m := New(port, newTestConfig(t))

	r := display.NewChanRenderer(4)
	start := time.Now()
	require.NoError(t, m.Run(context.Background(), r))
	assert.GreaterOrEqual(t, time.Since(start), MinRetryInterval)

	updates := collect(r)
	require.Len(t, updates, 1)
	assert.Equal(t, display.StatusDisconnected, updates[0].Status)
	assert.EqualValues(t, 1, m.Metrics().PortErrorCount.Load())
	assert.EqualValues(t, 1, port.closes.Load())
}

func TestMeter_RunCanceled(t *testing.T) {
	port := &errPort{}
	m := New(port, newTestConfig(t))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := display.NewChanRenderer(1)
	require.NoError(t, m.Run(ctx, r))
	assert.Empty(t, collect(r))
	assert.True(t, port.closed.Load())

	require.NoError(t, m.Close())
	assert.EqualValues(t, 1, port.closes.Load())
}

func TestMeter_RunStopsOnCancelDuringBackoff(t *testing.T) {
	port := &errPort{errs: []error{errors.New("io error")}}
	m := New(port, newTestConfig(t, WithRetryInterval(MaxRetryInterval)))

	ctx, cancel := context.WithCancel(context.Background())
	r := display.RendererFunc(func(u display.Update) error {
		if u.Status == display.StatusDisconnected {
			cancel()
		}
		return nil
	})

	done := make(chan error, 1)
	go func() { done <- m.Run(ctx, r) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop during back-off")
	}
}

func TestMeter_RunRenderError(t *testing.T) {
	port := serial.NewStreamPort(bytes.NewReader(frameMilliVolts))
	m := New(port, newTestConfig(t))

	errBoom := errors.New("surface gone")
	err := m.Run(context.Background(), display.RendererFunc(func(display.Update) error { return errBoom }))
	require.ErrorIs(t, err, errBoom)
}

func TestMeter_NilConfig(t *testing.T) {
	m := New(&errPort{}, nil)
	assert.Equal(t, DefaultReadTimeout, m.Config().ReadTimeout())
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "measurement", OutcomeMeasurement.String())
	assert.Equal(t, "disconnected", OutcomeDisconnected.String())
	assert.Equal(t, "dropped", OutcomeDropped.String())
	assert.Equal(t, "held", OutcomeHeld.String())
	assert.Equal(t, "port-error", OutcomePortError.String())
	assert.Equal(t, "unknown", Outcome(42).String())
}

func TestMeter_StepStuckPort(t *testing.T) {
	m := New(&stuckPort{}, newTestConfig(t))
	defer m.Close()

	c, err := m.Step(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomePortError, c.Outcome)
	assert.ErrorIs(t, c.Err, io.ErrNoProgress)
	assert.Equal(t, display.StatusDisconnected, c.Update.Status)
}
