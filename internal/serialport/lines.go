// Package serialport reads newline-terminated text lines from a serial
// device or any other byte stream.
package serialport

import (
	"bytes"
	"context"
	"io"
)

// LineSource yields raw lines and can discard input that piled up while
// the caller was busy.
type LineSource interface {
	ReadLine(ctx context.Context) (string, error)
	Flush() error
}

// LineReader splits an io.Reader into lines. A Read returning (0, nil) is
// treated as a timeout and retried, which lets serial ports with a read
// timeout observe context cancellation between reads.
type LineReader struct {
	r       io.Reader
	buf     []byte
	partial []byte
}

// NewLineReader wraps r.
func NewLineReader(r io.Reader) *LineReader {
	return &LineReader{r: r, buf: make([]byte, 1024)}
}

// ReadLine blocks until a complete line is available. The trailing "\n"
// and an optional "\r" are removed. At EOF a trailing unterminated line is
// returned before io.EOF.
func (lr *LineReader) ReadLine(ctx context.Context) (string, error) {
	for {
		if line, ok := lr.next(); ok {
			return line, nil
		}

		if err := ctx.Err(); err != nil {
			return "", err
		}

		n, err := lr.r.Read(lr.buf)
		if n > 0 {
			lr.partial = append(lr.partial, lr.buf[:n]...)
		}
		if err != nil {
			if err == io.EOF && len(lr.partial) > 0 {
				line := string(bytes.TrimSuffix(lr.partial, []byte{'\r'}))
				lr.partial = nil
				return line, nil
			}
			return "", err
		}
	}
}

// Reset drops any partial line held in memory.
func (lr *LineReader) Reset() {
	lr.partial = nil
}

// Flush implements LineSource for plain readers. A plain reader does not
// accumulate input while the monitor sleeps, so nothing is discarded: both
// complete lines and a line split across reads are kept. Devices drop their
// backlog in (*Port).Flush instead.
func (lr *LineReader) Flush() error {
	return nil
}

func (lr *LineReader) next() (string, bool) {
	idx := bytes.IndexByte(lr.partial, '\n')
	if idx < 0 {
		return "", false
	}
	line := lr.partial[:idx]
	if len(line) > 0 && line[len(line)-1] == '\r' {
		line = line[:len(line)-1]
	}
	out := string(line)
	lr.partial = lr.partial[idx+1:]
	return out, true
}
