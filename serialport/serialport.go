// Package serialport opens the serial link to the power supply and adapts
// it to the interfaces the driver expects.
//
// The returned Port is a plain byte pipe. The driver owns all timing: the
// underlying port uses a short read timeout so that a Read with no pending
// data returns quickly and the caller's deadline loop stays responsive.
package serialport

import (
	"fmt"
	"time"

	"github.com/tarm/serial"
)

const (
	// DefaultBaudRate matches the supply's factory setting.
	DefaultBaudRate = 9600

	// pollReadTimeout keeps individual reads short so the driver's own
	// deadline handling stays in control.
	pollReadTimeout = 50 * time.Millisecond
)

// Config holds the serial link settings.
type Config struct {
	// BaudRate is the line speed in bits per second
	BaudRate int
}

// Option configures Open.
type Option func(*Config)

// WithBaudRate overrides the default line speed.
func WithBaudRate(baud int) Option {
	return func(c *Config) {
		c.BaudRate = baud
	}
}

// Port is an open serial connection. It implements io.ReadWriter plus the
// Flush method the driver uses to discard stale reply bytes between retries.
type Port struct {
	port *serial.Port
	name string
}

// Open opens the named serial device (for example /dev/ttyUSB0) with the
// supply's line settings: 8 data bits, no parity, 1 stop bit.
func Open(name string, opts ...Option) (*Port, error) {
	cfg := Config{BaudRate: DefaultBaudRate}
	for _, opt := range opts {
		opt(&cfg)
	}

	port, err := serial.OpenPort(&serial.Config{
		Name:        name,
		Baud:        cfg.BaudRate,
		ReadTimeout: pollReadTimeout,
		Size:        8,
		Parity:      serial.ParityNone,
		StopBits:    serial.Stop1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", name, err)
	}

	return &Port{port: port, name: name}, nil
}

// Name returns the device path the port was opened with.
func (p *Port) Name() string {
	return p.name
}

// Read reads available bytes. When no data arrives within the port's read
// timeout it returns 0 bytes and io.EOF, which the driver treats as
// "nothing yet".
func (p *Port) Read(buf []byte) (int, error) {
	return p.port.Read(buf)
}

// Write sends bytes to the device.
func (p *Port) Write(buf []byte) (int, error) {
	return p.port.Write(buf)
}

// Flush discards unread input and unsent output.
func (p *Port) Flush() error {
	return p.port.Flush()
}

// Close closes the serial device.
func (p *Port) Close() error {
	return p.port.Close()
}
