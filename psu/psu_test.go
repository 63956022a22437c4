package psu

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/woazboat/go-kuaiqu/protocol"
)

// mockChannel simulates a supply for testing. Each write queues the next
// canned response, mimicking a device that replies to every request.
type mockChannel struct {
	mu        sync.Mutex
	written   bytes.Buffer
	responses [][]byte
	idx       int
	pending   []byte
	writeErr  error
}

func (m *mockChannel) Write(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.writeErr != nil {
		return 0, m.writeErr
	}
	m.written.Write(p)
	if m.idx < len(m.responses) {
		m.pending = append(m.pending, m.responses[m.idx]...)
		m.idx++
	}
	return len(p), nil
}

func (m *mockChannel) Read(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.pending) == 0 {
		return 0, io.EOF
	}
	n := copy(p, m.pending)
	m.pending = m.pending[n:]
	return n, nil
}

func (m *mockChannel) enqueue(frames ...[]byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, frames...)
}

func (m *mockChannel) writtenBytes() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.written.Bytes()...)
}

func (m *mockChannel) writeCount() int {
	return len(m.writtenBytes()) / protocol.CmdFrameSize
}

// ackFrame builds an acknowledge reply for the given function code.
func ackFrame(function byte) []byte {
	return deviceFrame(protocol.HostAddress, function, protocol.AckData, protocol.EmptyField, protocol.EmptyField)
}

// deviceFrame assembles a plain reply frame the way the device would.
func deviceFrame(addr, function byte, data1, data2, device string) []byte {
	frame := make([]byte, 0, protocol.CmdFrameSize)
	frame = append(frame, protocol.FrameStart)
	frame = append(frame, addr)
	frame = append(frame, function)
	frame = append(frame, data1...)
	frame = append(frame, data2...)
	frame = append(frame, device...)
	frame = append(frame, protocol.Checksum(frame[1:]))
	frame = append(frame, protocol.FrameEnd)
	return frame
}

// statusFrame assembles a read-status reply frame.
func statusFrame(mode byte, volts, amps string, output byte) []byte {
	frame := make([]byte, 0, protocol.StatusFrameSize)
	frame = append(frame, protocol.FrameStart)
	frame = append(frame, mode)
	frame = append(frame, protocol.FuncReadStatus)
	frame = append(frame, volts...)
	frame = append(frame, amps...)
	frame = append(frame, output)
	frame = append(frame, protocol.Checksum(frame[1:]))
	frame = append(frame, protocol.FrameEnd)
	return frame
}

func fastSupply(ch Channel, opts ...Option) *PowerSupply {
	base := []Option{WithTimeout(20 * time.Millisecond), WithRetries(2)}
	return New(ch, append(base, opts...)...)
}

func TestSetVoltage(t *testing.T) {
	ch := &mockChannel{}
	ch.enqueue(ackFrame(protocol.FuncSetVoltage))
	supply := fastSupply(ch)

	err := supply.SetVoltage(context.Background(), 12.5)
	require.NoError(t, err)

	want, err := protocol.BuildSetVoltageCmd(12.5)
	require.NoError(t, err)
	assert.Equal(t, want, ch.writtenBytes(), "written frame must match the encoded command")
}

func TestSetVoltageInvalidParameter(t *testing.T) {
	tests := []struct {
		name  string
		volts float64
	}{
		{name: "negative", volts: -1.0},
		{name: "exceeds rating", volts: 100},
		{name: "too precise", volts: 1.0001},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ch := &mockChannel{}
			supply := New(ch, WithMaxVoltage(30))

			err := supply.SetVoltage(context.Background(), tt.volts)

			var ipe *protocol.InvalidParameterError
			require.ErrorAs(t, err, &ipe)
			assert.Empty(t, ch.writtenBytes(), "no bytes may be sent for a rejected value")
		})
	}
}

func TestSetCurrentLimit(t *testing.T) {
	ch := &mockChannel{}
	ch.enqueue(ackFrame(protocol.FuncSetCurrent))
	supply := fastSupply(ch)

	require.NoError(t, supply.SetCurrentLimit(context.Background(), 0.25))

	err := supply.SetCurrentLimit(context.Background(), 7.5)
	var ipe *protocol.InvalidParameterError
	require.ErrorAs(t, err, &ipe, "default rating is 5 A")
}

func TestSetOutputOnOff(t *testing.T) {
	ch := &mockChannel{}
	ch.enqueue(ackFrame(protocol.FuncEnableOutput), ackFrame(protocol.FuncDisableOutput))
	supply := fastSupply(ch)

	require.NoError(t, supply.SetOutput(context.Background(), true))
	require.NoError(t, supply.SetOutput(context.Background(), false))

	enable, _ := protocol.BuildOutputCmd(true)
	disable, _ := protocol.BuildOutputCmd(false)
	assert.Equal(t, append(append([]byte(nil), enable...), disable...), ch.writtenBytes(),
		"two independent transactions must be written back to back, never interleaved")
}

func TestReadStatus(t *testing.T) {
	ch := &mockChannel{}
	ch.enqueue(statusFrame(protocol.ModeConstantVoltage, "005000", "001200", protocol.OutputOn))
	supply := fastSupply(ch)

	status, err := supply.ReadStatus(context.Background())
	require.NoError(t, err)

	assert.InDelta(t, 5.00, status.Voltage, 1e-9)
	assert.InDelta(t, 1.20, status.Current, 1e-9)
	assert.True(t, status.OutputEnabled)
	assert.Equal(t, protocol.ConstantVoltage, status.Mode)
}

func TestReadVoltage(t *testing.T) {
	ch := &mockChannel{}
	ch.enqueue(deviceFrame(protocol.ModeConstantCurrent, protocol.FuncReadVoltage, "003", "300", protocol.EmptyField))
	supply := fastSupply(ch)

	reading, err := supply.ReadVoltage(context.Background())
	require.NoError(t, err)

	assert.InDelta(t, 3.3, reading.Value, 1e-9)
	assert.Equal(t, protocol.ConstantCurrent, reading.Mode)
}

func TestLockPanel(t *testing.T) {
	ch := &mockChannel{}
	ch.enqueue(ackFrame(protocol.FuncLockPanel), ackFrame(protocol.FuncLockPanel))
	supply := fastSupply(ch)

	require.NoError(t, supply.LockPanel(context.Background(), true))
	require.NoError(t, supply.LockPanel(context.Background(), false))

	lock, _ := protocol.BuildLockCmd(true)
	unlock, _ := protocol.BuildLockCmd(false)
	assert.Equal(t, append(append([]byte(nil), lock...), unlock...), ch.writtenBytes())
}

func TestDeviceErrorReply(t *testing.T) {
	ch := &mockChannel{}
	ch.enqueue(deviceFrame(protocol.HostAddress, protocol.FuncSetVoltage, "ER2", protocol.EmptyField, protocol.EmptyField))
	supply := fastSupply(ch)

	err := supply.SetVoltage(context.Background(), 12.5)

	var devErr *protocol.DeviceError
	require.ErrorAs(t, err, &devErr)
	assert.Equal(t, byte(protocol.DevErrRange), devErr.Code)
	assert.Equal(t, 1, ch.writeCount(), "device errors must not be retried")
}
