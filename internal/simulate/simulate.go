// Package simulate produces synthetic posture sensor output so the
// dashboard can be exercised without the device attached.
package simulate

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/luki/posture/internal/posture"
)

// codes in the order the sensor firmware reports them.
var codes = []byte{'F', 'B', 'R', 'L'}

// defaultWindow matches the aggregator's default window size.
const defaultWindow = 5

// Source emits one reading per interval, cycling through the four slouch
// codes, and ends every window with a separator line so that separators
// land exactly on the lines that close a window of the given size. One
// label is biased upwards so the statistics chart has a clear leader.
type Source struct {
	interval time.Duration
	window   int
	rng      *rand.Rand
	bias     posture.Label
	n        int // lines emitted
	code     int // readings emitted, selects the next code
	wait     func(ctx context.Context, d time.Duration) error
}

// New creates a simulator for windows of window lines; a non-positive
// window uses the default of 5. seed makes the output reproducible.
func New(interval time.Duration, window int, seed uint64) *Source {
	if window <= 0 {
		window = defaultWindow
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	labels := posture.Labels()
	return &Source{
		interval: interval,
		window:   window,
		rng:      rng,
		bias:     labels[rng.IntN(len(labels))],
		wait:     wait,
	}
}

// ReadLine implements serialport.LineSource.
func (s *Source) ReadLine(ctx context.Context) (string, error) {
	if err := s.wait(ctx, s.interval); err != nil {
		return "", err
	}

	s.n++
	if s.n%s.window == 0 {
		return "----", nil
	}

	code := codes[s.code%len(codes)]
	s.code++
	label, _ := posture.LabelForCode(code)
	// Values stay below 10 so they fit the 4-character value field.
	v := s.rng.Float64() * 4.9
	if label == s.bias {
		v += 5
	}
	return fmt.Sprintf("%c: %4.2f", code, v), nil
}

// Flush implements serialport.LineSource. Nothing is buffered, but a new
// bias is picked now and then so the chart does not stay static.
func (s *Source) Flush() error {
	if s.rng.IntN(4) == 0 {
		labels := posture.Labels()
		s.bias = labels[s.rng.IntN(len(labels))]
	}
	return nil
}

func wait(ctx context.Context, d time.Duration) error {
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
