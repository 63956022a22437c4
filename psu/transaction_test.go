package psu

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/woazboat/go-kuaiqu/protocol"
)

func TestExecuteTimeoutExhaustsRetries(t *testing.T) {
	ch := &mockChannel{} // never responds
	supply := New(ch, WithTimeout(10*time.Millisecond), WithRetries(2))

	err := supply.SetOutput(context.Background(), true)

	var commErr *CommunicationError
	require.ErrorAs(t, err, &commErr)
	assert.Equal(t, 3, commErr.Attempts, "maxRetries+1 total attempts")
	assert.ErrorIs(t, err, ErrTimeout, "the last cause must be preserved")
	assert.Equal(t, 3, ch.writeCount(), "each retry is a fresh write")
}

func TestExecuteRetriesCorruptedReply(t *testing.T) {
	good := ackFrame(protocol.FuncSetVoltage)
	corrupted := append([]byte(nil), good...)
	corrupted[5] ^= 0xFF // flip one payload byte

	ch := &mockChannel{}
	ch.enqueue(corrupted, good)
	supply := fastSupply(ch)

	err := supply.SetVoltage(context.Background(), 12.5)

	require.NoError(t, err, "a clean reply on the second attempt must succeed")
	assert.Equal(t, 2, ch.writeCount())
}

func TestExecuteRetriesMalformedReply(t *testing.T) {
	good := ackFrame(protocol.FuncEnableOutput)
	// Right length, bad terminator byte.
	truncated := append(append([]byte(nil), good[:protocol.CmdFrameSize-1]...), 'X')

	ch := &mockChannel{}
	ch.enqueue(truncated, good)
	supply := fastSupply(ch)

	require.NoError(t, supply.SetOutput(context.Background(), true))
	assert.Equal(t, 2, ch.writeCount())
}

func TestExecuteUnknownResponseCodeNotRetried(t *testing.T) {
	// Valid checksum, function code the codec does not know: a firmware
	// mismatch, not line noise.
	ch := &mockChannel{}
	ch.enqueue(deviceFrame(protocol.HostAddress, '6', protocol.EmptyField, protocol.EmptyField, protocol.EmptyField))
	supply := fastSupply(ch)

	err := supply.SetOutput(context.Background(), true)

	require.Error(t, err)
	assert.ErrorIs(t, err, protocol.ErrUnknownResponseCode)
	assert.NotErrorAs(t, err, new(*CommunicationError))
	assert.Equal(t, 1, ch.writeCount(), "protocol mismatches must surface immediately")
}

func TestExecuteWriteErrorNotRetried(t *testing.T) {
	ch := &mockChannel{writeErr: errors.New("port gone")}
	supply := fastSupply(ch)

	err := supply.SetOutput(context.Background(), true)

	require.Error(t, err)
	assert.NotErrorAs(t, err, new(*CommunicationError))
}

func TestExecuteCancellation(t *testing.T) {
	ch := &mockChannel{} // never responds
	supply := New(ch, WithTimeout(time.Minute), WithRetries(5))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	err := supply.SetOutput(ctx, true)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorAs(t, err, new(*CommunicationError), "cancellation is not a retryable failure")
	assert.Less(t, time.Since(start), 5*time.Second, "cancellation must abort promptly")
	assert.Equal(t, 1, ch.writeCount(), "a cancelled transaction is never re-issued")
}

// blockingChannel parks readers until released, to hold a transaction open.
type blockingChannel struct {
	wroteOnce sync.Once
	wrote     chan struct{}
	release   chan struct{}
}

func newBlockingChannel() *blockingChannel {
	return &blockingChannel{
		wrote:   make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (b *blockingChannel) Write(p []byte) (int, error) {
	b.wroteOnce.Do(func() { close(b.wrote) })
	return len(p), nil
}

func (b *blockingChannel) Read(p []byte) (int, error) {
	<-b.release
	return 0, io.EOF
}

func TestExecuteChannelBusy(t *testing.T) {
	ch := newBlockingChannel()
	supply := New(ch, WithTimeout(50*time.Millisecond), WithRetries(0))

	firstDone := make(chan error, 1)
	go func() {
		firstDone <- supply.SetOutput(context.Background(), true)
	}()

	// Wait until the first transaction owns the channel.
	<-ch.wrote

	err := supply.SetOutput(context.Background(), false)
	assert.ErrorIs(t, err, ErrChannelBusy)

	close(ch.release)
	firstErr := <-firstDone

	var commErr *CommunicationError
	assert.ErrorAs(t, firstErr, &commErr, "the held transaction still times out normally")
}

func TestExecuteSequentialTransactionsIndependent(t *testing.T) {
	ch := &mockChannel{}
	ch.enqueue(ackFrame(protocol.FuncEnableOutput), ackFrame(protocol.FuncDisableOutput))
	supply := fastSupply(ch)

	require.NoError(t, supply.SetOutput(context.Background(), true))
	require.NoError(t, supply.SetOutput(context.Background(), false))

	assert.Equal(t, 2, ch.writeCount(), "each call is its own transaction")
}
