package meter

import (
	"errors"
	"fmt"
	"time"

	"github.com/arloliu/go-bk390a/bk390a"
	"github.com/arloliu/go-bk390a/logger"
)

// ErrInvalidOption is returned by NewConfig when an option value is out of range.
var ErrInvalidOption = errors.New("meter: invalid option")

const (
	DefaultReadTimeout   = 2 * time.Second
	DefaultRetryInterval = 1 * time.Second
)

// Option range limits.
const (
	MinReadTimeout = 100 * time.Millisecond
	MaxReadTimeout = 60 * time.Second

	MinInterByteTimeout = 10 * time.Millisecond
	MaxInterByteTimeout = 5 * time.Second

	MinRetryInterval = 10 * time.Millisecond
	MaxRetryInterval = 60 * time.Second

	MaxDrainLimit = 4096
)

// Config holds the settings of a Meter.
type Config struct {
	// readTimeout is how long a cycle waits for serial activity before the
	// meter is reported as disconnected.
	readTimeout time.Duration
	// interByteTimeout bounds the silence between bytes of one frame.
	interByteTimeout time.Duration
	// retryInterval is the back-off after an unexpected port error.
	retryInterval time.Duration
	maxDrain      int
	showMode      bool

	logger logger.Logger
}

// NewConfig creates a Meter configuration. The mode line is shown by default.
func NewConfig(opts ...Option) (*Config, error) {
	cfg := &Config{
		readTimeout:      DefaultReadTimeout,
		interByteTimeout: bk390a.DefaultInterByteTimeout,
		retryInterval:    DefaultRetryInterval,
		maxDrain:         bk390a.DefaultMaxDrain,
		showMode:         true,
		logger:           logger.GetLogger(),
	}

	for _, opt := range opts {
		if err := opt.apply(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// ReadTimeout returns the activity timeout of a cycle.
func (cfg *Config) ReadTimeout() time.Duration { return cfg.readTimeout }

// InterByteTimeout returns the maximum silence within a frame.
func (cfg *Config) InterByteTimeout() time.Duration { return cfg.interByteTimeout }

// RetryInterval returns the back-off after an unexpected port error.
func (cfg *Config) RetryInterval() time.Duration { return cfg.retryInterval }

// MaxDrain returns the resynchronization limit after an overrun.
func (cfg *Config) MaxDrain() int { return cfg.maxDrain }

// ShowMode reports whether the mode line is rendered.
func (cfg *Config) ShowMode() bool { return cfg.showMode }

// GetLogger returns the configured logger.
func (cfg *Config) GetLogger() logger.Logger { return cfg.logger }

// Option is a functional option for configuring a Config.
type Option interface {
	apply(*Config) error
}

type optFunc func(*Config) error

func (f optFunc) apply(cfg *Config) error { return f(cfg) }

func checkDuration(name string, d, lo, hi time.Duration) error {
	if d < lo || d > hi {
		return fmt.Errorf("%w: %s %s out of range [%s, %s]", ErrInvalidOption, name, d, lo, hi)
	}

	return nil
}

// WithReadTimeout sets how long a cycle waits for the first byte of a frame.
// Range: [MinReadTimeout, MaxReadTimeout].
func WithReadTimeout(d time.Duration) Option {
	return optFunc(func(cfg *Config) error {
		if err := checkDuration("read timeout", d, MinReadTimeout, MaxReadTimeout); err != nil {
			return err
		}
		cfg.readTimeout = d

		return nil
	})
}

// WithInterByteTimeout sets the maximum silence between two bytes of a frame.
// Range: [MinInterByteTimeout, MaxInterByteTimeout].
func WithInterByteTimeout(d time.Duration) Option {
	return optFunc(func(cfg *Config) error {
		if err := checkDuration("inter-byte timeout", d, MinInterByteTimeout, MaxInterByteTimeout); err != nil {
			return err
		}
		cfg.interByteTimeout = d

		return nil
	})
}

// WithRetryInterval sets the back-off after an unexpected port error.
// Range: [MinRetryInterval, MaxRetryInterval].
func WithRetryInterval(d time.Duration) Option {
	return optFunc(func(cfg *Config) error {
		if err := checkDuration("retry interval", d, MinRetryInterval, MaxRetryInterval); err != nil {
			return err
		}
		cfg.retryInterval = d

		return nil
	})
}

// WithMaxDrain sets how many bytes may be discarded after an overrun.
// Range: [0, MaxDrainLimit].
func WithMaxDrain(n int) Option {
	return optFunc(func(cfg *Config) error {
		if n < 0 || n > MaxDrainLimit {
			return fmt.Errorf("%w: max drain %d out of range [0, %d]", ErrInvalidOption, n, MaxDrainLimit)
		}
		cfg.maxDrain = n

		return nil
	})
}

// WithShowMode enables or disables the mode line.
func WithShowMode(enable bool) Option {
	return optFunc(func(cfg *Config) error {
		cfg.showMode = enable
		return nil
	})
}

// WithLogger sets the logger. A nil logger is rejected.
func WithLogger(l logger.Logger) Option {
	return optFunc(func(cfg *Config) error {
		if l == nil {
			return fmt.Errorf("%w: nil logger", ErrInvalidOption)
		}
		cfg.logger = l

		return nil
	})
}
