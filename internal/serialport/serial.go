package serialport

import (
	"context"
	"fmt"
	"time"

	"go.bug.st/serial"
)

const (
	DefaultBaudRate = 9600
	readTimeout     = 100 * time.Millisecond
)

// Port is an open serial device read line by line.
type Port struct {
	name  string
	port  serial.Port
	lines *LineReader
}

// Open opens the named device at the given baud rate, 8N1.
func Open(name string, baudRate int) (*Port, error) {
	if baudRate <= 0 {
		baudRate = DefaultBaudRate
	}
	mode := &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	p, err := serial.Open(name, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", name, err)
	}
	if err := p.SetReadTimeout(readTimeout); err != nil {
		p.Close()
		return nil, fmt.Errorf("set read timeout on %s: %w", name, err)
	}

	return &Port{
		name:  name,
		port:  p,
		lines: NewLineReader(p),
	}, nil
}

// Name returns the device path.
func (p *Port) Name() string {
	return p.name
}

// ReadLine blocks until the device sends a complete line or ctx is done.
func (p *Port) ReadLine(ctx context.Context) (string, error) {
	line, err := p.lines.ReadLine(ctx)
	if err != nil && ctx.Err() == nil {
		return "", fmt.Errorf("read %s: %w", p.name, err)
	}
	return line, err
}

// Flush discards everything received but not yet consumed, both in the
// driver's input buffer and in the partial line held in memory.
func (p *Port) Flush() error {
	p.lines.Reset()
	if err := p.port.ResetInputBuffer(); err != nil {
		return fmt.Errorf("flush %s: %w", p.name, err)
	}
	return nil
}

// Close closes the device.
func (p *Port) Close() error {
	return p.port.Close()
}

// AvailablePorts returns a list of detected serial port names.
func AvailablePorts() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("list serial ports: %w", err)
	}
	return ports, nil
}
