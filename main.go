package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/lmittmann/tint"
	"golang.org/x/sync/errgroup"

	"github.com/luki/posture/internal/aggregator"
	"github.com/luki/posture/internal/config"
	"github.com/luki/posture/internal/dashboard"
	"github.com/luki/posture/internal/metrics"
	"github.com/luki/posture/internal/monitor"
	"github.com/luki/posture/internal/notify"
	"github.com/luki/posture/internal/serialport"
	"github.com/luki/posture/internal/simulate"
	"github.com/luki/posture/internal/tui"
)

type options struct {
	configPath string
	replay     string
	simulate   bool
	listPorts  bool
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, opts, err := parseArgs(args)
	if err != nil {
		return err
	}

	if opts.listPorts {
		ports, err := serialport.AvailablePorts()
		if err != nil {
			return err
		}
		if len(ports) == 0 {
			fmt.Println("no serial ports found")
		}
		for _, p := range ports {
			fmt.Println(p)
		}
		return nil
	}

	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	source, portName, closeSource, err := openSource(cfg, opts)
	if err != nil {
		return err
	}
	defer closeSource()

	session := uuid.NewString()
	mt := metrics.New()

	var notifier notify.Notifier = notify.Log{Logger: logger}
	if cfg.Notify {
		notifier = notify.New(logger)
	}
	if c, ok := notifier.(io.Closer); ok {
		defer c.Close()
	}

	var renderers []monitor.Renderer
	var hub *dashboard.Hub
	if cfg.WantsWeb() {
		hub = dashboard.NewHub()
		renderers = append(renderers, hub)
	}
	var program *tui.Program
	if cfg.WantsTUI() {
		program = tui.NewProgram(tea.WithContext(ctx))
		renderers = append(renderers, program)
	}

	mon, err := monitor.New(monitor.Options{
		Source: source,
		Aggregator: aggregator.New(
			aggregator.WithWindowSize(cfg.WindowSize),
			aggregator.WithRawLogSize(cfg.RawLogSize),
		),
		Notifier:  notifier,
		Renderers: renderers,
		Metrics:   mt,
		Logger:    logger,
		Settle:    cfg.Settle,
		Session:   session,
		Port:      portName,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	if hub != nil {
		srv := dashboard.NewServer(cfg.Listen, dashboard.NewRouter(hub, mt.Handler(), logger), logger)
		g.Go(func() error {
			return srv.Run(gctx)
		})
	}

	g.Go(func() error {
		err := mon.Run(gctx)
		if program != nil && err != nil {
			program.Fail(err)
			return err
		}
		if program == nil && err == nil && opts.replay != "" {
			// Replays end on their own; keep the page up until interrupted.
			logger.Info("replay finished, press Ctrl+C to exit")
			<-gctx.Done()
		}
		return err
	})

	if program != nil {
		g.Go(func() error {
			defer cancel()
			if err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
				return fmt.Errorf("terminal dashboard: %w", err)
			}
			return nil
		})
	}

	return g.Wait()
}

func parseArgs(args []string) (config.Config, options, error) {
	var opts options

	fs := flag.NewFlagSet("posture", flag.ContinueOnError)
	fs.StringVar(&opts.configPath, "config", "", "path to a TOML config file")
	fs.StringVar(&opts.replay, "replay", "", "read sensor lines from a file instead of the serial port")
	fs.BoolVar(&opts.simulate, "simulate", false, "generate synthetic sensor lines instead of reading the serial port")
	fs.BoolVar(&opts.listPorts, "list-ports", false, "list detected serial ports and exit")

	port := fs.String("port", "", "serial port to read from")
	baud := fs.Int("baud", 0, "serial baud rate")
	listen := fs.String("listen", "", "dashboard listen address")
	ui := fs.String("ui", "", "dashboard: web, tui or both")
	noNotify := fs.Bool("no-notify", false, "log nudges instead of sending desktop notifications")
	settle := fs.Duration("settle", 0, "pause after each window")
	window := fs.Int("window", 0, "lines per window")
	logLevel := fs.String("log-level", "", "debug, info, warn or error")
	logFile := fs.String("log-file", "", "write logs to this file")

	if err := fs.Parse(args); err != nil {
		return config.Config{}, opts, err
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return config.Config{}, opts, err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "port":
			cfg.Port = *port
		case "baud":
			cfg.Baud = *baud
		case "listen":
			cfg.Listen = *listen
		case "ui":
			cfg.UI = *ui
		case "no-notify":
			cfg.Notify = !*noNotify
		case "settle":
			cfg.Settle = *settle
		case "window":
			cfg.WindowSize = *window
		case "log-level":
			cfg.LogLevel = *logLevel
		case "log-file":
			cfg.LogFile = *logFile
		}
	})
	switch {
	case opts.replay != "":
		cfg.Port = opts.replay
	case opts.simulate:
		cfg.Port = simulatedPort
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, opts, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, opts, nil
}

// newLogger writes colored logs to stderr, or plain logs to the log file.
// Logs are discarded while the terminal dashboard owns the screen and no
// log file is set.
func newLogger(cfg config.Config) (*slog.Logger, func(), error) {
	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}

	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		h := tint.NewHandler(f, &tint.Options{Level: level, TimeFormat: time.DateTime, NoColor: true})
		return slog.New(h), func() { f.Close() }, nil
	}

	var w io.Writer = os.Stderr
	if cfg.WantsTUI() {
		w = io.Discard
	}
	h := tint.NewHandler(w, &tint.Options{Level: level, TimeFormat: time.TimeOnly})
	return slog.New(h), func() {}, nil
}

const (
	simulatedPort     = "simulator"
	simulatedInterval = 400 * time.Millisecond
)

func openSource(cfg config.Config, opts options) (serialport.LineSource, string, func(), error) {
	if opts.simulate {
		return simulate.New(simulatedInterval, cfg.WindowSize, uint64(time.Now().UnixNano())), simulatedPort, func() {}, nil
	}
	if opts.replay != "" {
		f, err := os.Open(opts.replay)
		if err != nil {
			return nil, "", nil, fmt.Errorf("open replay file: %w", err)
		}
		return serialport.NewLineReader(f), opts.replay, func() { f.Close() }, nil
	}

	p, err := serialport.Open(cfg.Port, cfg.Baud)
	if err != nil {
		return nil, "", nil, err
	}
	return p, p.Name(), func() { p.Close() }, nil
}
