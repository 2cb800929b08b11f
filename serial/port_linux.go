//go:build linux

package serial

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sys/unix"
)

// Port is a raw Linux serial port.
//
// The descriptor stays non-blocking: WaitReadable polls for input and Read
// returns whatever is buffered, possibly nothing. Close may be called from any
// goroutine; it wakes a concurrent WaitReadable and waits for an in-flight
// Read before releasing the descriptor. The other methods must be called from
// a single goroutine.
type Port struct {
	fd        int
	device    string
	params    Params
	pipeR     int // self-pipe read fd
	pipeW     int // self-pipe write fd
	closed    atomic.Bool
	closeOnce sync.Once

	// mu is held shared while fd or pipeR is in use and exclusively while
	// they are closed.
	mu sync.RWMutex
}

// Open opens device and configures it for raw reception with the given line
// parameters. Pending input is flushed so the first frame starts clean.
func Open(device string, params Params) (*Port, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	fd, err := unix.Open(device, unix.O_RDWR|unix.O_NOCTTY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("serial: open %s: %w", device, err)
	}

	if err := configure(fd, params); err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("serial: configure %s: %w", device, err)
	}

	_ = unix.IoctlSetInt(fd, unix.TCFLSH, unix.TCIFLUSH)

	pipeFds := make([]int, 2)
	if err := unix.Pipe2(pipeFds, unix.O_CLOEXEC|unix.O_NONBLOCK); err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("serial: pipe: %w", err)
	}

	return &Port{
		fd:     fd,
		device: device,
		params: params,
		pipeR:  pipeFds[0],
		pipeW:  pipeFds[1],
	}, nil
}

func configure(fd int, params Params) error {
	termios, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return fmt.Errorf("get termios: %w", err)
	}

	// Raw mode
	termios.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.PARMRK | unix.ISTRIP | unix.INLCR | unix.IGNCR | unix.ICRNL | unix.IXON | unix.IXOFF | unix.INPCK
	termios.Oflag &^= unix.OPOST
	termios.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.ISIG | unix.IEXTEN
	termios.Cflag &^= unix.CSIZE | unix.PARENB | unix.PARODD | unix.CSTOPB
	termios.Cflag |= unix.CREAD | unix.CLOCAL

	switch params.DataBits {
	case 7:
		termios.Cflag |= unix.CS7
	default:
		termios.Cflag |= unix.CS8
	}

	switch params.Parity {
	case ParityOdd:
		termios.Cflag |= unix.PARENB | unix.PARODD
		termios.Iflag |= unix.INPCK
	case ParityEven:
		termios.Cflag |= unix.PARENB
		termios.Iflag |= unix.INPCK
	case ParityNone:
	}

	if params.StopBits == 2 {
		termios.Cflag |= unix.CSTOPB
	}

	baud := baudToUnix(params.BaudRate)
	termios.Cflag &^= unix.CBAUD
	termios.Cflag |= baud
	termios.Ispeed = baud
	termios.Ospeed = baud

	// Reads return immediately with whatever is available.
	termios.Cc[unix.VMIN] = 0
	termios.Cc[unix.VTIME] = 0

	if err := unix.IoctlSetTermios(fd, unix.TCSETS, termios); err != nil {
		return fmt.Errorf("set termios: %w", err)
	}

	return nil
}

// Device returns the device path the port was opened with.
func (p *Port) Device() string { return p.device }

// Params returns the line parameters.
func (p *Port) Params() Params { return p.params }

// WaitReadable blocks until input is available, the timeout elapses or the
// port is closed. It reports false with a nil error on timeout.
func (p *Port) WaitReadable(timeout time.Duration) (bool, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed.Load() {
		return false, ErrClosed
	}

	deadline := time.Now().Add(timeout)
	for {
		pfd := []unix.PollFd{
			{Fd: int32(p.fd), Events: unix.POLLIN},    //nolint:gosec // fd fits in int32
			{Fd: int32(p.pipeR), Events: unix.POLLIN}, //nolint:gosec // fd fits in int32
		}

		remaining := time.Until(deadline)
		if remaining < 0 {
			remaining = 0
		}

		n, err := unix.Poll(pfd, int(remaining.Milliseconds()))
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if err != nil {
			return false, fmt.Errorf("serial: poll %s: %w", p.device, err)
		}

		if pfd[1].Revents&unix.POLLIN != 0 || p.closed.Load() {
			return false, ErrClosed
		}
		if n == 0 {
			return false, nil
		}
		if pfd[0].Revents&unix.POLLIN != 0 {
			return true, nil
		}
		if pfd[0].Revents&(unix.POLLHUP|unix.POLLERR|unix.POLLNVAL) != 0 {
			return false, fmt.Errorf("%w: %s", ErrHangup, p.device)
		}
	}
}

// Read reads buffered input into buf. It returns 0 and a nil error when no
// input is pending. End of file, which a non-blocking tty only reports once
// the line is hung up, is returned as ErrHangup.
func (p *Port) Read(buf []byte) (int, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed.Load() {
		return 0, ErrClosed
	}
	if len(buf) == 0 {
		return 0, nil
	}

	n, err := unix.Read(p.fd, buf)
	if errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EINTR) {
		return 0, nil
	}
	if errors.Is(err, unix.EIO) {
		return 0, fmt.Errorf("%w: %s", ErrHangup, p.device)
	}
	if err != nil {
		return 0, fmt.Errorf("serial: read %s: %w", p.device, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%w: %s", ErrHangup, p.device)
	}

	return n, nil
}

// Close releases the port and unblocks any WaitReadable call.
// Safe to call multiple times; subsequent calls are no-ops.
func (p *Port) Close() error {
	var err error
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		// Wake up poll using self-pipe
		_, _ = unix.Write(p.pipeW, []byte{1})

		p.mu.Lock()
		defer p.mu.Unlock()

		err = unix.Close(p.fd)
		_ = unix.Close(p.pipeR)
		_ = unix.Close(p.pipeW)
	})

	return err
}

func baudToUnix(baud int) uint32 {
	switch baud {
	case 1200:
		return unix.B1200
	case 4800:
		return unix.B4800
	case 9600:
		return unix.B9600
	default:
		return unix.B2400
	}
}
