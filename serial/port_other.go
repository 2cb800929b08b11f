//go:build !linux

package serial

import "time"

// Port is unavailable on this platform; use StreamPort to replay captures.
type Port struct{}

// Open always fails with ErrUnsupportedPlatform.
func Open(_ string, params Params) (*Port, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	return nil, ErrUnsupportedPlatform
}

// Device returns an empty string.
func (p *Port) Device() string { return "" }

// Params returns the zero Params.
func (p *Port) Params() Params { return Params{} }

// WaitReadable always fails with ErrUnsupportedPlatform.
func (p *Port) WaitReadable(_ time.Duration) (bool, error) { return false, ErrUnsupportedPlatform }

// Read always fails with ErrUnsupportedPlatform.
func (p *Port) Read(_ []byte) (int, error) { return 0, ErrUnsupportedPlatform }

// Close is a no-op.
func (p *Port) Close() error { return nil }
