// Package monitor runs the read, aggregate and display loop: it reads
// sensor lines, closes a window every few lines, redraws the dashboards
// and nudges the user.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/luki/posture/internal/aggregator"
	"github.com/luki/posture/internal/chart"
	"github.com/luki/posture/internal/metrics"
	"github.com/luki/posture/internal/notify"
	"github.com/luki/posture/internal/posture"
	"github.com/luki/posture/internal/serialport"
)

const (
	DefaultSettle = 5 * time.Second
	recentLines   = 20
)

// Options wires a Monitor. Source, Aggregator and Notifier are required.
type Options struct {
	Source     serialport.LineSource
	Aggregator *aggregator.Aggregator
	Notifier   notify.Notifier
	Renderers  []Renderer
	Metrics    *metrics.Metrics
	Logger     *slog.Logger
	Settle     time.Duration
	Session    string
	Port       string
}

// Monitor owns one monitoring session.
type Monitor struct {
	opts      Options
	startedAt time.Time

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

func New(opts Options) (*Monitor, error) {
	if opts.Source == nil {
		return nil, errors.New("monitor: nil source")
	}
	if opts.Aggregator == nil {
		return nil, errors.New("monitor: nil aggregator")
	}
	if opts.Notifier == nil {
		opts.Notifier = notify.Noop{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Settle < 0 {
		opts.Settle = 0
	}
	return &Monitor{
		opts:  opts,
		now:   time.Now,
		sleep: sleepContext,
	}, nil
}

// Run blocks until ctx is cancelled, the source is exhausted or the
// source fails. Cancellation and end of input return nil.
func (m *Monitor) Run(ctx context.Context) error {
	log := m.opts.Logger
	m.startedAt = m.now()
	m.publish(nil, "")

	log.Info("monitoring started",
		"session", m.opts.Session,
		"port", m.opts.Port,
		"window", m.opts.Aggregator.WindowSize(),
		"settle", m.opts.Settle)

	for {
		line, err := m.opts.Source.ReadLine(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, io.EOF) {
				log.Info("end of input", "lines", m.opts.Aggregator.Lines(), "windows", m.opts.Aggregator.Windows())
				return nil
			}
			return fmt.Errorf("read sensor line: %w", err)
		}

		if err := m.handleLine(ctx, line); err != nil {
			return err
		}
	}
}

func (m *Monitor) handleLine(ctx context.Context, line string) error {
	log := m.opts.Logger
	m.observe(func(mt *metrics.Metrics) { mt.ObserveLine() })
	log.Debug("serial receive", "line", line)

	res, err := m.opts.Aggregator.Feed(line, m.now())
	switch {
	case errors.Is(err, aggregator.ErrEmptyWindow):
		m.observe(func(mt *metrics.Metrics) { mt.ObserveEmptyWindow() })
		log.Warn("window closed without readings", "line", res.Line)
		return nil
	case err != nil:
		m.observe(func(mt *metrics.Metrics) { mt.ObserveParseError() })
		log.Warn("skipping malformed line", "line", res.Line, "err", err)
		return nil
	}

	if res.Parsed {
		m.observe(func(mt *metrics.Metrics) { mt.ObserveReading(res.Reading) })
	}
	if !res.Closed {
		return nil
	}
	return m.closeWindow(ctx, res.Window)
}

func (m *Monitor) closeWindow(ctx context.Context, w aggregator.Window) error {
	log := m.opts.Logger
	log.Info("window closed", "window", w.Index, "dominant", w.Dominant, "readings", len(w.Readings))
	m.observe(func(mt *metrics.Metrics) { mt.ObserveWindow(w.Dominant) })

	m.publish(w.Readings, w.Dominant)

	err := m.opts.Notifier.Notify(ctx, notify.Title, notify.Message)
	m.observe(func(mt *metrics.Metrics) { mt.ObserveNotification(err) })
	if err != nil {
		log.Warn("notification failed", "err", err)
	}

	if err := m.sleep(ctx, m.opts.Settle); err != nil {
		return nil
	}

	if err := m.opts.Source.Flush(); err != nil {
		log.Warn("flush serial input", "err", err)
	}
	return nil
}

// Snapshot builds a frame from the aggregator state. readings are the
// values of the window being shown.
func (m *Monitor) Snapshot(readings map[posture.Label]float64, dominant posture.Label) Snapshot {
	agg := m.opts.Aggregator
	counts := agg.Counts()

	raw := agg.RawLog(recentLines)
	recent := make([]string, 0, len(raw))
	for _, l := range raw {
		recent = append(recent, l.Text)
	}

	return Snapshot{
		Session:     m.opts.Session,
		Port:        m.opts.Port,
		Readings:    posture.Ordered(readings),
		Counts:      counts,
		Bars:        chart.Bars(counts),
		Dominant:    dominant,
		Lines:       agg.Lines(),
		Windows:     agg.Windows(),
		RecentLines: recent,
		StartedAt:   m.startedAt,
		UpdatedAt:   m.now(),
	}
}

func (m *Monitor) publish(readings map[posture.Label]float64, dominant posture.Label) {
	s := m.Snapshot(readings, dominant)
	for _, r := range m.opts.Renderers {
		r.Render(s)
	}
}

func (m *Monitor) observe(fn func(*metrics.Metrics)) {
	if m.opts.Metrics != nil {
		fn(m.opts.Metrics)
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
