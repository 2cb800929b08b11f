package bk390a

import (
	"testing"
	"time"
)

// makeFrame builds a frame the way the meter encodes it: ASCII digits and
// 0x30-based range/flag bytes are fine since only the low nibbles matter.
func makeFrame(t *testing.T, rng byte, digits string, fn Function, status byte, opt1 byte, opt2 byte) RawFrame {
	t.Helper()

	if len(digits) != 4 {
		t.Fatalf("makeFrame: want 4 digits, got %q", digits)
	}

	return RawFrame{rng, digits[0], digits[1], digits[2], digits[3], byte(fn), status, opt1, opt2}
}

// fakePort replays data, then reports err (or stays silent when err is nil).
//
// zeroReads injects that many zero-byte reads before every byte to exercise
// short read handling. stuck keeps the port readable once data runs out, the
// way a hung up tty keeps polling readable while reads return nothing.
// onRead runs before every Read.
type fakePort struct {
	data      []byte
	err       error
	zeroReads int
	stuck     bool
	onRead    func()

	pendingZero int
	waits       int
	reads       int
}

func newFakePort(data ...[]byte) *fakePort {
	p := &fakePort{}
	for _, d := range data {
		p.data = append(p.data, d...)
	}

	return p
}

func (p *fakePort) WaitReadable(_ time.Duration) (bool, error) {
	p.waits++
	return len(p.data) > 0 || p.err != nil || p.stuck, nil
}

func (p *fakePort) Read(buf []byte) (int, error) {
	p.reads++
	if p.onRead != nil {
		p.onRead()
	}
	if len(p.data) == 0 {
		return 0, p.err
	}
	if p.pendingZero > 0 {
		p.pendingZero--
		return 0, nil
	}

	n := copy(buf, p.data)
	p.data = p.data[n:]
	p.pendingZero = p.zeroReads

	return n, nil
}
