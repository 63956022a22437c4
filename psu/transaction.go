package psu

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/woazboat/go-kuaiqu/protocol"
)

// readPollInterval bounds how often the engine re-polls a channel that
// returned no bytes. Serial ports block in Read up to their own short
// timeout, so the loop rarely spins.
const readPollInterval = 2 * time.Millisecond

// execute runs one complete transaction: write the frame, read the expected
// reply under the per-attempt deadline, decode. A corrupted or missing reply
// re-issues the same frame (a fresh write+read, no partial state carried
// over) up to Retries additional attempts. Unknown response codes and
// device error replies are never retried.
//
// The channel is held for the whole transaction. A concurrent call fails
// with ErrChannelBusy instead of interleaving frames, because responses are
// matched to requests only by adjacency.
func (p *PowerSupply) execute(ctx context.Context, frame []byte) (*protocol.Response, error) {
	if !p.mu.TryLock() {
		return nil, ErrChannelBusy
	}
	defer p.mu.Unlock()

	respSize := protocol.ResponseSize(protocol.RequestFunction(frame))
	attempts := p.config.Retries + 1

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("transaction cancelled: %w", err)
		}

		rsp, err := p.attempt(ctx, frame, respSize, attempt)
		if err == nil {
			if p.config.CommandDelay > 0 {
				time.Sleep(p.config.CommandDelay)
			}
			return rsp, nil
		}
		if !retryable(err) {
			return nil, err
		}

		lastErr = err
		p.logDebug("attempt failed, retrying",
			"attempt", attempt,
			"of", attempts,
			"error", err.Error(),
		)
	}

	p.logError("transaction exhausted", "attempts", attempts, "cause", lastErr.Error())
	return nil, &CommunicationError{Attempts: attempts, Cause: lastErr}
}

// attempt performs a single write+read+decode cycle.
func (p *PowerSupply) attempt(ctx context.Context, frame []byte, respSize, attempt int) (*protocol.Response, error) {
	if attempt > 1 {
		// Drop stale bytes from the failed attempt so a late reply
		// cannot be matched to the retry.
		if f, ok := p.ch.(Flusher); ok {
			_ = f.Flush()
		}
	}

	p.trace(TraceTX, frame, attempt)
	if _, err := p.ch.Write(frame); err != nil {
		return nil, fmt.Errorf("write command: %w", err)
	}

	reply, err := p.readReply(ctx, respSize)
	if err != nil {
		return nil, err
	}
	p.trace(TraceRX, reply, attempt)

	return protocol.ParseResponse(reply)
}

// readReply reads exactly n bytes from the channel, polling until the
// per-attempt deadline expires. Serial reads commonly hand back short
// counts, so the reply is accumulated across reads.
func (p *PowerSupply) readReply(ctx context.Context, n int) ([]byte, error) {
	buf := make([]byte, n)
	got := 0
	deadline := time.Now().Add(p.config.Timeout)

	for got < n {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("transaction cancelled: %w", err)
		}
		if time.Now().After(deadline) {
			if got == 0 {
				return nil, ErrTimeout
			}
			return nil, fmt.Errorf("%w: received %d of %d bytes", ErrTimeout, got, n)
		}

		m, err := p.ch.Read(buf[got:])
		got += m
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read response: %w", err)
		}
		// EOF from a drained channel means no bytes are pending yet;
		// keep polling until the deadline decides.
		if m == 0 {
			time.Sleep(readPollInterval)
		}
	}

	return buf, nil
}

// retryable reports whether a failed attempt may be re-issued. Timeouts and
// corrupted replies are transient; everything else (cancellation, I/O
// errors, protocol mismatches, device errors) surfaces immediately.
func retryable(err error) bool {
	return errors.Is(err, ErrTimeout) ||
		errors.Is(err, protocol.ErrMalformedFrame) ||
		errors.Is(err, protocol.ErrChecksumMismatch)
}
