package serial

import (
	"io"
	"sync"
	"time"

	"github.com/arloliu/go-bk390a/internal/pool"
)

const streamChunkSize = 256

// StreamPort adapts an io.Reader, such as a captured byte stream or one end of
// an io.Pipe, to the port contract used by the frame reader.
//
// A background goroutine pumps the reader; data and the terminal read error are
// handed over through channels. Once the reader is exhausted, WaitReadable
// reports ready and Read returns that error (io.EOF for a finished capture).
//
// Like Port, only Close may be called concurrently with the other methods.
type StreamPort struct {
	r       io.Reader
	chunks  chan []byte
	errc    chan error
	done    chan struct{}
	pending []byte
	err     error

	closeOnce sync.Once
}

// NewStreamPort starts pumping r. If r implements io.Closer it is closed by Close.
func NewStreamPort(r io.Reader) *StreamPort {
	s := &StreamPort{
		r:      r,
		chunks: make(chan []byte),
		errc:   make(chan error, 1),
		done:   make(chan struct{}),
	}
	go s.pump()

	return s
}

func (s *StreamPort) pump() {
	buf := make([]byte, streamChunkSize)
	for {
		n, err := s.r.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			select {
			case s.chunks <- chunk:
			case <-s.done:
				return
			}
		}
		if err != nil {
			s.errc <- err
			return
		}
	}
}

// WaitReadable blocks until data or a terminal error is available, the timeout
// elapses or the port is closed.
func (s *StreamPort) WaitReadable(timeout time.Duration) (bool, error) {
	select {
	case <-s.done:
		return false, ErrClosed
	default:
	}

	if len(s.pending) > 0 || s.err != nil {
		return true, nil
	}

	timer := pool.GetTimer(timeout)
	defer pool.PutTimer(timer)

	select {
	case chunk := <-s.chunks:
		s.pending = chunk
		return s.checkOpen()
	case err := <-s.errc:
		s.err = err
		return s.checkOpen()
	case <-timer.C:
		return false, nil
	case <-s.done:
		return false, ErrClosed
	}
}

// checkOpen reports ready unless Close raced with the wait; closing the
// underlying reader makes the pump deliver a read error as well.
func (s *StreamPort) checkOpen() (bool, error) {
	select {
	case <-s.done:
		return false, ErrClosed
	default:
		return true, nil
	}
}

// Read copies pending data into buf. With nothing pending it returns the
// terminal read error if there is one, otherwise 0 and nil.
func (s *StreamPort) Read(buf []byte) (int, error) {
	select {
	case <-s.done:
		return 0, ErrClosed
	default:
	}

	if len(s.pending) == 0 {
		return 0, s.err
	}

	n := copy(buf, s.pending)
	s.pending = s.pending[n:]

	return n, nil
}

// Close stops the pump. Safe to call multiple times.
func (s *StreamPort) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		if c, ok := s.r.(io.Closer); ok {
			err = c.Close()
		}
	})

	return err
}
