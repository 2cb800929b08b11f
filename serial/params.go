package serial

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Sentinel errors for the serial package.
var (
	// ErrInvalidParams is the parent of every parameter validation error.
	ErrInvalidParams = errors.New("serial: invalid serial parameters")

	ErrInvalidBaudRate = fmt.Errorf("%w: unsupported baud rate", ErrInvalidParams)
	ErrInvalidDataBits = fmt.Errorf("%w: unsupported data bits", ErrInvalidParams)
	ErrInvalidParity   = fmt.Errorf("%w: unsupported parity", ErrInvalidParams)
	ErrInvalidStopBits = fmt.Errorf("%w: unsupported stop bits", ErrInvalidParams)

	// ErrClosed is returned by port operations after Close.
	ErrClosed = errors.New("serial: port closed")
	// ErrHangup indicates the device side of the line went away.
	ErrHangup = errors.New("serial: line hangup")
	// ErrUnsupportedPlatform is returned by Open on non-Linux systems.
	ErrUnsupportedPlatform = errors.New("serial: device ports are only supported on linux")
)

// Parity is the line parity mode.
type Parity byte

const (
	ParityNone Parity = 'n'
	ParityOdd  Parity = 'o'
	ParityEven Parity = 'e'
)

// String returns the parity name.
func (p Parity) String() string {
	switch p {
	case ParityNone:
		return "none"
	case ParityOdd:
		return "odd"
	case ParityEven:
		return "even"
	default:
		return "unknown"
	}
}

// Default line settings of the BK Precision 390A.
const (
	DefaultBaudRate = 2400
	DefaultDataBits = 7
	DefaultParity   = ParityOdd
	DefaultStopBits = 1
)

// BaudRates lists the accepted baud rates, fastest first.
var BaudRates = []int{9600, 4800, 2400, 1200}

// Params holds the serial line settings.
type Params struct {
	BaudRate int
	DataBits int
	Parity   Parity
	StopBits int
}

// DefaultParams returns 2400:7o1.
func DefaultParams() Params {
	return Params{
		BaudRate: DefaultBaudRate,
		DataBits: DefaultDataBits,
		Parity:   DefaultParity,
		StopBits: DefaultStopBits,
	}
}

// ParseParams parses a "<baud>:<bits><parity><stopbits>" string such as "2400:7o1".
//
// An empty string yields DefaultParams. The parity letter is case-insensitive.
func ParseParams(s string) (Params, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultParams(), nil
	}

	baudStr, frame, ok := strings.Cut(s, ":")
	if !ok {
		return Params{}, fmt.Errorf("%w: %q, want <baud>:<bits><parity><stopbits>", ErrInvalidParams, s)
	}

	var p Params

	baud, err := strconv.Atoi(baudStr)
	if err != nil {
		return Params{}, fmt.Errorf("%w: %q", ErrInvalidBaudRate, baudStr)
	}
	p.BaudRate = baud

	if len(frame) != 3 {
		return Params{}, fmt.Errorf("%w: %q, want <bits><parity><stopbits> e.g. 7o1", ErrInvalidParams, frame)
	}

	p.DataBits = int(frame[0] - '0')
	p.Parity = Parity(strings.ToLower(frame[1:2])[0])
	p.StopBits = int(frame[2] - '0')

	if err := p.Validate(); err != nil {
		return Params{}, err
	}

	return p, nil
}

// Validate checks every field against the settings the meter link supports.
func (p Params) Validate() error {
	if !isSupportedBaudRate(p.BaudRate) {
		return fmt.Errorf("%w: %d", ErrInvalidBaudRate, p.BaudRate)
	}
	if p.DataBits != 7 && p.DataBits != 8 {
		return fmt.Errorf("%w: %d", ErrInvalidDataBits, p.DataBits)
	}
	switch p.Parity {
	case ParityNone, ParityOdd, ParityEven:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidParity, rune(p.Parity))
	}
	if p.StopBits != 1 && p.StopBits != 2 {
		return fmt.Errorf("%w: %d", ErrInvalidStopBits, p.StopBits)
	}

	return nil
}

// String returns the parameter string form, e.g. "2400:7o1".
func (p Params) String() string {
	return fmt.Sprintf("%d:%d%c%d", p.BaudRate, p.DataBits, p.Parity, p.StopBits)
}

func isSupportedBaudRate(baud int) bool {
	return slices.Contains(BaudRates, baud)
}
