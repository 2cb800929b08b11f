package meter

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/arloliu/go-bk390a/serial"
	"github.com/stretchr/testify/require"
)

var (
	frameMilliVolts = []byte{0x00, 0x30, 0x30, 0x32, 0x35, 0x3B, 0x00, 0x00, 0x00, 0x0A}
	frameUnknownFn  = []byte{0x00, 0x39, 0x39, 0x39, 0x39, 0x00, 0x00, 0x00, 0x00, 0x0A}
	frameVoltsOL    = []byte{0x01, 0x30, 0x30, 0x30, 0x30, 0x3B, 0x01, 0x00, 0x00, 0x0A}
	frameShort      = []byte{0x00, 0x30, 0x0A}
)

func concat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}

	return out
}

// errPort fails WaitReadable with each of errs in turn, then behaves as a
// closed port.
type errPort struct {
	errs   []error
	closed atomic.Bool
	closes atomic.Int32
}

func (p *errPort) WaitReadable(_ time.Duration) (bool, error) {
	if p.closed.Load() || len(p.errs) == 0 {
		return false, serial.ErrClosed
	}
	err := p.errs[0]
	p.errs = p.errs[1:]

	return false, err
}

func (p *errPort) Read(_ []byte) (int, error) { return 0, serial.ErrClosed }

func (p *errPort) Close() error {
	p.closed.Store(true)
	p.closes.Add(1)

	return nil
}

func newTestConfig(t *testing.T, opts ...Option) *Config {
	t.Helper()

	base := []Option{
		WithReadTimeout(MinReadTimeout),
		WithInterByteTimeout(20 * time.Millisecond),
		WithRetryInterval(MinRetryInterval),
	}
	cfg, err := NewConfig(append(base, opts...)...)
	require.NoError(t, err)

	return cfg
}

// stuckPort polls readable forever but never yields a byte.
type stuckPort struct{ closed atomic.Bool }

func (p *stuckPort) WaitReadable(_ time.Duration) (bool, error) {
	if p.closed.Load() {
		return false, serial.ErrClosed
	}

	return true, nil
}

func (p *stuckPort) Read(_ []byte) (int, error) { return 0, nil }

func (p *stuckPort) Close() error {
	p.closed.Store(true)
	return nil
}
