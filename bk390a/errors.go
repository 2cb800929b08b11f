package bk390a

import "errors"

// Sentinel errors for frame acquisition and decoding.
var (
	// Reader errors. All of them are recoverable; the caller retries next cycle.
	ErrNoConnection = errors.New("bk390a: no serial activity")
	ErrOverrun      = errors.New("bk390a: frame overrun")
	ErrShortFrame   = errors.New("bk390a: short frame")

	// ErrFrameSize is returned by NewRawFrame for input that is not exactly FrameSize bytes.
	ErrFrameSize = errors.New("bk390a: frame must be exactly 9 bytes")

	// Decode errors. The caller cannot render a trustworthy value this cycle.
	ErrUnknownFunction = errors.New("bk390a: unknown function code")
	ErrInvalidRange    = errors.New("bk390a: range index not valid for function")
)

// IsDecodeError reports whether err came from Decode rejecting a frame.
func IsDecodeError(err error) bool {
	return errors.Is(err, ErrUnknownFunction) || errors.Is(err, ErrInvalidRange)
}

// IsFramingError reports whether err is a recoverable frame acquisition error.
func IsFramingError(err error) bool {
	return errors.Is(err, ErrNoConnection) || errors.Is(err, ErrOverrun) || errors.Is(err, ErrShortFrame)
}
