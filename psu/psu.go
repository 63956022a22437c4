package psu

import (
	"context"
	"io"
	"math"
	"sync"

	"github.com/woazboat/go-kuaiqu/protocol"
)

// Channel is the duplex byte stream to the power supply. The driver never
// opens or configures the physical port; callers supply an opened channel
// (see the serialport package) or any io.ReadWriter such as a mock device.
//
// Reads may return short counts or (0, nil)/(0, io.EOF) when no bytes are
// pending; the driver polls under its own per-attempt deadline. Read must
// not block indefinitely: the deadline and cancellation checks run between
// reads, so an implementation should use a short internal read timeout
// (serialport opens ports that way).
type Channel interface {
	io.ReadWriter
}

// Flusher is optionally implemented by channels that can discard buffered
// input. Before re-issuing a frame the engine flushes the channel so bytes
// left over from a failed attempt cannot misalign the next reply.
type Flusher interface {
	Flush() error
}

// PowerSupply drives one KUAIQU bench supply over a serial channel. It owns
// the channel for the duration of each transaction: exactly one request is
// in flight at a time, and responses are matched to requests by adjacency.
//
// Methods are safe to call from multiple goroutines; a call that finds the
// channel occupied fails with ErrChannelBusy rather than interleaving frames.
type PowerSupply struct {
	ch     Channel
	config Config

	// mu guards the channel for one full request/response exchange
	mu sync.Mutex
}

// New creates a PowerSupply driving the given channel.
//
// Example:
//
//	port, err := serialport.Open("/dev/ttyUSB0")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer port.Close()
//
//	supply := psu.New(port,
//	    psu.WithTimeout(time.Second),
//	    psu.WithMaxVoltage(30),
//	)
func New(ch Channel, opts ...Option) *PowerSupply {
	if ch == nil {
		panic("channel cannot be nil")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &PowerSupply{
		ch:     ch,
		config: cfg,
	}
}

// SetVoltage sets the output voltage setpoint. The value is validated
// against the configured rating before any byte is written; out-of-range
// values fail with *protocol.InvalidParameterError.
func (p *PowerSupply) SetVoltage(ctx context.Context, volts float64) error {
	if err := checkRating("voltage", volts, p.config.MaxVoltage); err != nil {
		return err
	}

	frame, err := protocol.BuildSetVoltageCmd(volts)
	if err != nil {
		return err
	}

	p.logDebug("set voltage", "volts", volts)
	rsp, err := p.execute(ctx, frame)
	if err != nil {
		return err
	}
	return p.expectAck(frame, rsp)
}

// SetCurrentLimit sets the output current limit. Validation matches
// SetVoltage, bounded by the rated maximum current.
func (p *PowerSupply) SetCurrentLimit(ctx context.Context, amps float64) error {
	if err := checkRating("current", amps, p.config.MaxCurrent); err != nil {
		return err
	}

	frame, err := protocol.BuildSetCurrentCmd(amps)
	if err != nil {
		return err
	}

	p.logDebug("set current limit", "amps", amps)
	rsp, err := p.execute(ctx, frame)
	if err != nil {
		return err
	}
	return p.expectAck(frame, rsp)
}

// SetOutput enables or disables the output stage. Exactly one state is
// requested per call; there is no toggle.
func (p *PowerSupply) SetOutput(ctx context.Context, enabled bool) error {
	frame, err := protocol.BuildOutputCmd(enabled)
	if err != nil {
		return err
	}

	p.logDebug("set output", "enabled", enabled)
	rsp, err := p.execute(ctx, frame)
	if err != nil {
		return err
	}
	return p.expectAck(frame, rsp)
}

// ReadStatus reads the supply's present voltage, current and output state
// in a single transaction.
func (p *PowerSupply) ReadStatus(ctx context.Context) (*protocol.Status, error) {
	frame, err := protocol.BuildReadStatusCmd()
	if err != nil {
		return nil, err
	}

	rsp, err := p.execute(ctx, frame)
	if err != nil {
		return nil, err
	}

	switch rsp.Kind {
	case protocol.KindStatus:
		s := rsp.Status
		return &s, nil
	case protocol.KindDeviceError:
		return nil, &protocol.DeviceError{Code: rsp.ErrCode}
	default:
		return nil, &UnexpectedResponseError{Request: protocol.FuncReadStatus, Got: kindName(rsp.Kind)}
	}
}

// ReadVoltage reads the present output voltage and the regulation mode.
func (p *PowerSupply) ReadVoltage(ctx context.Context) (*protocol.Reading, error) {
	frame, err := protocol.BuildReadVoltageCmd()
	if err != nil {
		return nil, err
	}
	return p.executeReading(ctx, frame)
}

// ReadCurrent reads the present output current and the regulation mode.
func (p *PowerSupply) ReadCurrent(ctx context.Context) (*protocol.Reading, error) {
	frame, err := protocol.BuildReadCurrentCmd()
	if err != nil {
		return nil, err
	}
	return p.executeReading(ctx, frame)
}

// LockPanel locks or unlocks the front panel buttons.
func (p *PowerSupply) LockPanel(ctx context.Context, lock bool) error {
	frame, err := protocol.BuildLockCmd(lock)
	if err != nil {
		return err
	}

	p.logDebug("set panel lock", "locked", lock)
	rsp, err := p.execute(ctx, frame)
	if err != nil {
		return err
	}
	return p.expectAck(frame, rsp)
}

// executeReading runs a read transaction and extracts the measured value.
func (p *PowerSupply) executeReading(ctx context.Context, frame []byte) (*protocol.Reading, error) {
	rsp, err := p.execute(ctx, frame)
	if err != nil {
		return nil, err
	}

	switch rsp.Kind {
	case protocol.KindReading:
		r := rsp.Reading
		return &r, nil
	case protocol.KindDeviceError:
		return nil, &protocol.DeviceError{Code: rsp.ErrCode}
	default:
		return nil, &UnexpectedResponseError{Request: protocol.RequestFunction(frame), Got: kindName(rsp.Kind)}
	}
}

// expectAck maps a decoded response to the outcome of a set-style command.
func (p *PowerSupply) expectAck(frame []byte, rsp *protocol.Response) error {
	switch rsp.Kind {
	case protocol.KindAck:
		return nil
	case protocol.KindDeviceError:
		return &protocol.DeviceError{Code: rsp.ErrCode}
	default:
		return &UnexpectedResponseError{Request: protocol.RequestFunction(frame), Got: kindName(rsp.Kind)}
	}
}

// checkRating rejects setpoints outside the configured device rating.
// A zero maximum disables the check.
func checkRating(name string, v, max float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &protocol.InvalidParameterError{Name: name, Value: v, Reason: "value must be finite"}
	}
	if v < 0 {
		return &protocol.InvalidParameterError{Name: name, Value: v, Reason: "value must not be negative"}
	}
	if max > 0 && v > max {
		return &protocol.InvalidParameterError{Name: name, Value: v, Reason: "value exceeds the rated maximum"}
	}
	return nil
}

// kindName names a response variant for error messages.
func kindName(k protocol.ResponseKind) string {
	switch k {
	case protocol.KindAck:
		return "acknowledge"
	case protocol.KindReading:
		return "reading"
	case protocol.KindStatus:
		return "status"
	case protocol.KindDeviceError:
		return "device error"
	default:
		return "unknown"
	}
}

// logDebug logs a debug message if a logger is configured.
func (p *PowerSupply) logDebug(msg string, keysAndValues ...interface{}) {
	if p.config.Logger != nil {
		p.config.Logger.Debug(msg, keysAndValues...)
	}
}

// logError logs an error message if a logger is configured.
func (p *PowerSupply) logError(msg string, keysAndValues ...interface{}) {
	if p.config.Logger != nil {
		p.config.Logger.Error(msg, keysAndValues...)
	}
}

// trace reports a raw transfer to the configured trace callback.
func (p *PowerSupply) trace(dir TraceDir, data []byte, attempt int) {
	if p.config.Trace != nil {
		p.config.Trace(TraceEvent{Dir: dir, Data: data, Attempt: attempt})
	}
}
