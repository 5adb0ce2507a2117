// Package aggregator groups posture readings into fixed-size windows and
// keeps the cumulative count of each window's dominant slouch type.
package aggregator

import (
	"errors"
	"strings"
	"time"

	"github.com/luki/posture/internal/history"
	"github.com/luki/posture/internal/posture"
)

const (
	DefaultWindowSize = 5
	DefaultRawLogSize = 1000
)

// ErrEmptyWindow is returned when a window closes without any reading.
var ErrEmptyWindow = errors.New("window closed with no readings")

// Window describes a closed observation period.
type Window struct {
	Index    int
	Readings map[posture.Label]float64
	Dominant posture.Label
	ClosedAt time.Time
}

// Result reports what a single Feed call did.
type Result struct {
	Line    string
	Reading posture.Reading
	Parsed  bool // Reading is valid
	Closed  bool // Window is valid
	Window  Window
}

// Aggregator owns the window buffer, the cumulative counters and the raw
// line log for one monitoring session. It is not safe for concurrent use.
type Aggregator struct {
	windowSize int
	buffer     map[posture.Label]float64
	counts     map[posture.Label]int
	lines      int
	windows    int
	raw        *history.Buffer
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithWindowSize sets how many lines make up one window.
func WithWindowSize(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.windowSize = n
		}
	}
}

// WithRawLogSize bounds the raw line log.
func WithRawLogSize(n int) Option {
	return func(a *Aggregator) {
		a.raw = history.NewBuffer(n)
	}
}

// New creates an aggregator with all counters at zero.
func New(opts ...Option) *Aggregator {
	a := &Aggregator{
		windowSize: DefaultWindowSize,
		buffer:     make(map[posture.Label]float64),
		counts:     make(map[posture.Label]int, len(posture.Labels())),
		raw:        history.NewBuffer(DefaultRawLogSize),
	}
	for _, l := range posture.Labels() {
		a.counts[l] = 0
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Feed processes one raw line. Every windowSize-th line closes the current
// window instead of being parsed as a reading.
func (a *Aggregator) Feed(line string, at time.Time) (Result, error) {
	line = strings.TrimRight(line, " \t\r\n")
	a.raw.Push(line, at)
	a.lines++

	res := Result{Line: line}

	if a.lines%a.windowSize == 0 {
		readings := a.buffer
		a.buffer = make(map[posture.Label]float64)

		dominant, ok := Dominant(readings)
		if !ok {
			return res, ErrEmptyWindow
		}
		a.counts[dominant]++
		a.windows++

		res.Closed = true
		res.Window = Window{
			Index:    a.windows,
			Readings: readings,
			Dominant: dominant,
			ClosedAt: at,
		}
		return res, nil
	}

	r, ok, err := posture.ParseLine(line)
	if err != nil {
		return res, err
	}
	if ok {
		a.buffer[r.Label] = r.Value
		res.Reading = r
		res.Parsed = true
	}
	return res, nil
}

// Dominant returns the label with the highest value. Ties go to the label
// that comes first in posture.Labels.
func Dominant(readings map[posture.Label]float64) (posture.Label, bool) {
	var (
		best  posture.Label
		bestV float64
		found bool
	)
	for _, l := range posture.Labels() {
		v, ok := readings[l]
		if !ok {
			continue
		}
		if !found || v > bestV {
			best, bestV, found = l, v, true
		}
	}
	return best, found
}

// Counts returns a copy of the cumulative counters. The result always has
// exactly the four labels as keys.
func (a *Aggregator) Counts() map[posture.Label]int {
	out := make(map[posture.Label]int, len(a.counts))
	for k, v := range a.counts {
		out[k] = v
	}
	return out
}

// Buffer returns a copy of the readings collected in the open window.
func (a *Aggregator) Buffer() map[posture.Label]float64 {
	out := make(map[posture.Label]float64, len(a.buffer))
	for k, v := range a.buffer {
		out[k] = v
	}
	return out
}

// Lines returns the number of lines fed so far.
func (a *Aggregator) Lines() int { return a.lines }

// Windows returns the number of windows that closed with a dominant label.
func (a *Aggregator) Windows() int { return a.windows }

// WindowSize returns the configured window size.
func (a *Aggregator) WindowSize() int { return a.windowSize }

// RawLog returns up to n of the most recent raw lines, oldest first.
func (a *Aggregator) RawLog(n int) []history.Line {
	return a.raw.LastN(n)
}

// Dropped returns how many raw lines were evicted from the log.
func (a *Aggregator) Dropped() uint64 {
	return a.raw.Dropped()
}
