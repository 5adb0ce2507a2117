// Package history provides a bounded ring buffer for the raw lines read
// from the serial device.
package history

import "time"

// Line is a single raw line as received from the device.
type Line struct {
	Text string
	Time time.Time
}

// Buffer stores the most recent lines up to a fixed capacity. Older lines
// are evicted once the buffer is full.
type Buffer struct {
	lines   []Line
	start   int
	max     int
	dropped uint64
}

// NewBuffer creates a new ring buffer with the given capacity. A
// non-positive capacity is treated as 1.
func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = 1
	}
	return &Buffer{
		lines: make([]Line, 0, capacity),
		max:   capacity,
	}
}

// Push appends a line, evicting the oldest one when full.
func (b *Buffer) Push(text string, t time.Time) {
	l := Line{Text: text, Time: t}
	if len(b.lines) < b.max {
		b.lines = append(b.lines, l)
		return
	}
	b.lines[b.start] = l
	b.start = (b.start + 1) % b.max
	b.dropped++
}

// Len returns the number of lines currently held.
func (b *Buffer) Len() int {
	return len(b.lines)
}

// Cap returns the buffer capacity.
func (b *Buffer) Cap() int {
	return b.max
}

// Dropped returns how many lines have been evicted so far.
func (b *Buffer) Dropped() uint64 {
	return b.dropped
}

// Last returns the most recent line, or false if the buffer is empty.
func (b *Buffer) Last() (Line, bool) {
	if len(b.lines) == 0 {
		return Line{}, false
	}
	return b.at(len(b.lines) - 1), true
}

// LastN returns up to n of the most recent lines, oldest first.
func (b *Buffer) LastN(n int) []Line {
	if n <= 0 || len(b.lines) == 0 {
		return nil
	}
	if n > len(b.lines) {
		n = len(b.lines)
	}
	out := make([]Line, 0, n)
	for i := len(b.lines) - n; i < len(b.lines); i++ {
		out = append(out, b.at(i))
	}
	return out
}

// at returns the i-th line in insertion order.
func (b *Buffer) at(i int) Line {
	return b.lines[(b.start+i)%len(b.lines)]
}
