// Command bk390a reads the serial data stream of a BK Precision 390A
// multimeter and shows the current reading on the terminal.
//
// Usage:
//
//	bk390a -p <device> [-s <serial config>] [-m] [-z <size>] [-fn <font>]
//	       [-fc <#rrggbb>] [-fw <weight>] [-bc <#rrggbb>] [-wx <cols>] [-wy <rows>]
//	       [-d] [-q] [-config <file>] [-replay <file>] [-metrics <addr>]
//
// Example:
//
//	bk390a -p /dev/ttyUSB0 -s 2400:7o1 -m -fc '#10ff10' -bc '#000000'
//
// Command line flags override values read from the -config file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/arloliu/go-bk390a/config"
	"github.com/arloliu/go-bk390a/display"
	"github.com/arloliu/go-bk390a/logger"
	"github.com/arloliu/go-bk390a/meter"
	"github.com/arloliu/go-bk390a/serial"
)

var version = "v0.5.0"

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

const usageText = `BK-Precision 390A Multimeter serial data decoder

 -p <device> [-s <serial port config>] [-m] [-z <size>] [-fn <fontname>] [-fc <#rrggbb>] [-fw <weight>] [-bc <#rrggbb>] [-wx <width>] [-wy <height>] [-d] [-q]

`

var errNoPort = errors.New("no serial device given, use -p <device> or -replay <file>")

// flags holds the raw command line values; only flags actually set override
// the configuration.
type flags struct {
	configPath  string
	port        string
	serial      string
	showMode    bool
	fontSize    int
	fontName    string
	fontColor   display.Color
	fontWeight  int
	background  display.Color
	width       int
	height      int
	debug       bool
	quiet       bool
	showVersion bool
	replay      string
	metricsAddr string
	logFormat   string
}

func newFlagSet(f *flags, stderr io.Writer) *flag.FlagSet {
	def := config.Default()

	fs := flag.NewFlagSet("bk390a", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usageText)
		fs.PrintDefaults()
		fmt.Fprint(stderr, "\n\texample: bk390a -z 120 -p /dev/ttyUSB0 -s 2400:7o1 -m -fc '#10ff10' -bc '#000000' -wx 20 -wy 3 -fw 600\n")
	}

	fs.StringVar(&f.configPath, "config", "", "configuration file (.toml, .yaml or .yml)")
	fs.StringVar(&f.port, "p", "", "serial device of the meter, eg: -p /dev/ttyUSB0")
	fs.StringVar(&f.serial, "s", def.Serial, "serial config <[9600|4800|2400|1200]:[7|8][o|e|n][1|2]>")
	fs.BoolVar(&f.showMode, "m", def.ShowMode, "show multimeter mode (second line of text)")
	fs.IntVar(&f.fontSize, "z", def.Font.Size, fmt.Sprintf("font size (%d..%d pt)", display.MinFontSize, display.MaxFontSize))
	fs.StringVar(&f.fontName, "fn", def.Font.Name, "font name")
	fs.TextVar(&f.fontColor, "fc", def.Font.Color, "font colour <#rrggbb>")
	fs.IntVar(&f.fontWeight, "fw", def.Font.Weight, "font weight, typically 100 to 900; 600 and up is bold")
	fs.TextVar(&f.background, "bc", def.Background, "background colour <#rrggbb>")
	fs.IntVar(&f.width, "wx", def.Window.Width, "force display width in columns (0: automatic)")
	fs.IntVar(&f.height, "wy", def.Window.Height, "force display height in rows (0: automatic)")
	fs.BoolVar(&f.debug, "d", false, "debug enabled, dumps every frame")
	fs.BoolVar(&f.quiet, "q", false, "quiet output")
	fs.BoolVar(&f.showVersion, "v", false, "show version")
	fs.StringVar(&f.replay, "replay", "", "decode a captured byte stream from a file instead of a serial device")
	fs.StringVar(&f.metricsAddr, "metrics", def.Metrics.Addr, "serve prometheus metrics on this address, eg: :9390")
	fs.StringVar(&f.logFormat, "log-format", def.Log.Format, "log format: auto, json or console")

	return fs
}

// apply copies the flags set on the command line into cfg.
func (f *flags) apply(fs *flag.FlagSet, cfg *config.Config) {
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "p":
			cfg.Port = f.port
		case "s":
			cfg.Serial = f.serial
		case "m":
			cfg.ShowMode = f.showMode
		case "z":
			cfg.Font.Size = f.fontSize
		case "fn":
			cfg.Font.Name = f.fontName
		case "fc":
			cfg.Font.Color = f.fontColor
		case "fw":
			cfg.Font.Weight = f.fontWeight
		case "bc":
			cfg.Background = f.background
		case "wx":
			cfg.Window.Width = f.width
		case "wy":
			cfg.Window.Height = f.height
		case "d":
			cfg.Log.Debug = f.debug
		case "q":
			cfg.Log.Quiet = f.quiet
		case "metrics":
			cfg.Metrics.Addr = f.metricsAddr
		case "log-format":
			cfg.Log.Format = f.logFormat
		}
	})
}

// parseArgs builds the configuration: defaults, then the -config file, then flags.
func parseArgs(args []string, stderr io.Writer) (*config.Config, *flags, error) {
	f := &flags{}
	fs := newFlagSet(f, stderr)
	if err := fs.Parse(args); err != nil {
		return nil, f, err
	}
	if f.showVersion {
		return nil, f, nil
	}
	if fs.NArg() > 0 {
		return nil, f, fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}

	cfg := config.Default()
	if f.configPath != "" {
		var err error
		if cfg, err = config.Load(f.configPath); err != nil {
			return nil, f, err
		}
	}

	f.apply(fs, cfg)
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, f, err
	}
	if cfg.Port == "" && f.replay == "" {
		return nil, f, errNoPort
	}

	return cfg, f, nil
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout io.Writer, stderr io.Writer) int {
	cfg, f, err := parseArgs(args, stderr)
	switch {
	case errors.Is(err, flag.ErrHelp):
		return exitOK
	case err != nil:
		fmt.Fprintf(stderr, "bk390a: %v\n", err)
		return exitUsage
	case f.showVersion:
		fmt.Fprintf(stdout, "bk390a %s\n", version)
		return exitOK
	}

	log := logger.NewSlog(cfg.LogLevel(), logger.WithOutput(stderr), logger.WithFormat(cfg.LogFormat()))
	logger.SetDefault(log)

	port, err := openPort(cfg, f.replay)
	if err != nil {
		log.Error("failed to open serial port", "error", err)
		return exitError
	}

	mcfg, err := meter.NewConfig(cfg.MeterOptions(log)...)
	if err != nil {
		_ = port.Close()
		log.Error("failed to create meter config", "error", err)
		return exitError
	}
	m := meter.New(port, mcfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Metrics.Addr != "" {
		srv := serveMetrics(cfg.Metrics.Addr, m, log)
		defer shutdown(srv, log)
	}

	style := cfg.Style()
	log.Info("meter started",
		"version", version,
		"port", cfg.Port,
		"replay", f.replay,
		"serial", cfg.Serial,
		"show_mode", cfg.ShowMode,
		"font", style.FontName,
		"font_size", style.FontSize,
		"font_weight", style.FontWeight,
	)

	if err := m.Run(ctx, newRenderer(stdout, cfg)); err != nil {
		log.Error("meter stopped", "error", err)
		return exitError
	}

	log.Info("shutdown finished")

	return exitOK
}

func openPort(cfg *config.Config, replay string) (meter.Port, error) {
	if replay != "" {
		file, err := os.Open(replay)
		if err != nil {
			return nil, err
		}

		return serial.NewStreamPort(file), nil
	}

	params, err := cfg.SerialParams()
	if err != nil {
		return nil, err
	}

	return serial.Open(cfg.Port, params)
}

// newRenderer draws in place with colors on a terminal and writes plain
// scrolling lines otherwise.
func newRenderer(stdout io.Writer, cfg *config.Config) *display.TextRenderer {
	opts := []display.TextRendererOption{
		display.WithWidth(cfg.Window.Width),
		display.WithHeight(cfg.Window.Height),
	}

	if file, ok := stdout.(*os.File); ok && isTerminal(file) {
		opts = append(opts, cfg.Style().TextOptions()...)
		opts = append(opts, display.WithInPlace(true))
		stdout = colorable.NewColorable(file)
	}

	return display.NewTextRenderer(stdout, opts...)
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func serveMetrics(addr string, m *meter.Meter, log logger.Logger) *http.Server {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		meter.NewCollector(m),
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("metrics endpoint listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics endpoint failed", "error", err)
		}
	}()

	return srv
}

func shutdown(srv *http.Server, log logger.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Warn("metrics endpoint shutdown", "error", err)
	}
}
