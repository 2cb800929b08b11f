// Package config loads the application configuration of the bk390a command
// from a TOML or YAML file.
//
// Values absent from the file keep their Default value; command line flags
// are applied on top by the caller before Validate.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/arloliu/go-bk390a/bk390a"
	"github.com/arloliu/go-bk390a/display"
	"github.com/arloliu/go-bk390a/logger"
	"github.com/arloliu/go-bk390a/meter"
	"github.com/arloliu/go-bk390a/serial"
)

var (
	// ErrInvalidConfig is returned for configuration values out of range.
	ErrInvalidConfig = errors.New("config: invalid configuration")
	// ErrUnsupportedFormat is returned by Load for unknown file extensions.
	ErrUnsupportedFormat = errors.New("config: unsupported file format, want .toml, .yaml or .yml")
)

// MaxFontWeight is the heaviest accepted font weight.
const MaxFontWeight = 1000

// Config is the application configuration.
type Config struct {
	// Port is the serial device path, e.g. /dev/ttyUSB0.
	Port string `toml:"port" yaml:"port"`
	// Serial is the line setting in "<baud>:<bits><parity><stop>" form.
	Serial   string `toml:"serial" yaml:"serial"`
	ShowMode bool   `toml:"show_mode" yaml:"show_mode"`

	Font       FontConfig    `toml:"font" yaml:"font"`
	Background display.Color `toml:"background" yaml:"background"`
	Window     WindowConfig  `toml:"window" yaml:"window"`

	Log      LogConfig      `toml:"log" yaml:"log"`
	Timeouts TimeoutsConfig `toml:"timeouts" yaml:"timeouts"`
	Metrics  MetricsConfig  `toml:"metrics" yaml:"metrics"`
}

// FontConfig is the [font] section: the look of the reading.
type FontConfig struct {
	Name string `toml:"name" yaml:"name"`
	// Size is clamped to [display.MinFontSize, display.MaxFontSize].
	Size   int           `toml:"size" yaml:"size"`
	Weight int           `toml:"weight" yaml:"weight"`
	Color  display.Color `toml:"color" yaml:"color"`
}

// WindowConfig sizes the text display in columns and rows; zero means automatic.
type WindowConfig struct {
	Width  int `toml:"width" yaml:"width"`
	Height int `toml:"height" yaml:"height"`
}

// LogConfig is the [log] section.
type LogConfig struct {
	Debug bool `toml:"debug" yaml:"debug"`
	Quiet bool `toml:"quiet" yaml:"quiet"`
	// Format is one of auto, json or console.
	Format string `toml:"format" yaml:"format"`
}

// TimeoutsConfig is the [timeouts] section. Durations are written as
// strings such as "2s" or "100ms".
type TimeoutsConfig struct {
	Read      time.Duration `toml:"read" yaml:"read"`
	InterByte time.Duration `toml:"inter_byte" yaml:"inter_byte"`
	Retry     time.Duration `toml:"retry" yaml:"retry"`
}

// MetricsConfig is the [metrics] section.
type MetricsConfig struct {
	// Addr is the listen address of the /metrics endpoint; empty disables it.
	Addr string `toml:"addr" yaml:"addr"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Serial: serial.DefaultParams().String(),
		Font: FontConfig{
			Name:   display.DefaultFontName,
			Size:   display.DefaultFontSize,
			Weight: display.DefaultFontWeight,
			Color:  display.DefaultForeground,
		},
		Background: display.DefaultBackground,
		Log:        LogConfig{Format: "auto"},
		Timeouts: TimeoutsConfig{
			Read:      meter.DefaultReadTimeout,
			InterByte: bk390a.DefaultInterByteTimeout,
			Retry:     meter.DefaultRetryInterval,
		},
	}
}

// Load reads path on top of Default. The format is chosen by extension.
// Unknown keys are rejected. The result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		meta, err := toml.DecodeFile(path, cfg)
		if err != nil {
			return nil, fmt.Errorf("config: load %s: %w", path, err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("%w: unknown key %q in %s", ErrInvalidConfig, undecoded[0].String(), path)
		}

	case ".yaml", ".yml":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("config: load %s: %w", path, err)
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil {
			return nil, fmt.Errorf("config: load %s: %w", path, err)
		}

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Normalize applies the lenient fixes: the font size is clamped and an empty
// serial setting or font name falls back to the default.
func (c *Config) Normalize() {
	c.Font.Size = display.ClampFontSize(c.Font.Size)
	if strings.TrimSpace(c.Serial) == "" {
		c.Serial = serial.DefaultParams().String()
	}
	if strings.TrimSpace(c.Font.Name) == "" {
		c.Font.Name = display.DefaultFontName
	}
}

// Validate reports the first out-of-range value, wrapped in ErrInvalidConfig.
func (c *Config) Validate() error {
	if _, err := c.SerialParams(); err != nil {
		return fmt.Errorf("%w: serial: %w", ErrInvalidConfig, err)
	}

	if c.Font.Weight < 0 || c.Font.Weight > MaxFontWeight {
		return fmt.Errorf("%w: font weight %d out of range [0, %d]", ErrInvalidConfig, c.Font.Weight, MaxFontWeight)
	}
	if c.Font.Size < display.MinFontSize || c.Font.Size > display.MaxFontSize {
		return fmt.Errorf("%w: font size %d out of range [%d, %d]",
			ErrInvalidConfig, c.Font.Size, display.MinFontSize, display.MaxFontSize)
	}

	if c.Window.Width < 0 || c.Window.Height < 0 {
		return fmt.Errorf("%w: window size %dx%d is negative", ErrInvalidConfig, c.Window.Width, c.Window.Height)
	}

	if _, ok := logger.ParseFormat(c.Log.Format); !ok {
		return fmt.Errorf("%w: log format %q", ErrInvalidConfig, c.Log.Format)
	}

	if _, err := meter.NewConfig(c.MeterOptions(logger.GetLogger())...); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return nil
}

// SerialParams parses the serial line setting.
func (c *Config) SerialParams() (serial.Params, error) {
	return serial.ParseParams(c.Serial)
}

// Style returns the display style.
func (c *Config) Style() display.Style {
	return display.Style{
		FontName:   c.Font.Name,
		FontSize:   c.Font.Size,
		FontWeight: c.Font.Weight,
		Foreground: c.Font.Color,
		Background: c.Background,
	}
}

// LogLevel maps the debug and quiet switches to a logger level.
func (c *Config) LogLevel() logger.Level {
	return logger.LevelFromFlags(c.Log.Debug, c.Log.Quiet)
}

// LogFormat returns the log output format. Invalid formats were rejected by
// Validate and map to automatic selection.
func (c *Config) LogFormat() logger.Format {
	f, _ := logger.ParseFormat(c.Log.Format)
	return f
}

// MeterOptions returns the meter options for this configuration.
func (c *Config) MeterOptions(l logger.Logger) []meter.Option {
	return []meter.Option{
		meter.WithReadTimeout(c.Timeouts.Read),
		meter.WithInterByteTimeout(c.Timeouts.InterByte),
		meter.WithRetryInterval(c.Timeouts.Retry),
		meter.WithShowMode(c.ShowMode),
		meter.WithLogger(l),
	}
}
