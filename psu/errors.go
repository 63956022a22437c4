package psu

import (
	"errors"
	"fmt"
)

// ErrChannelBusy is returned when a transaction is attempted while another
// one is still in flight on the same channel. The protocol matches responses
// to requests only by adjacency, so overlapping transactions are rejected
// instead of queued.
var ErrChannelBusy = errors.New("channel busy: a transaction is already in flight")

// ErrTimeout indicates that the per-attempt response deadline expired before
// a complete reply frame arrived. Individual timeouts are retried; the
// exhausted transaction surfaces as a *CommunicationError wrapping this.
var ErrTimeout = errors.New("response timeout")

// CommunicationError reports an exhausted transaction: every attempt failed
// with a retryable cause (timeout or corrupted reply). Cause carries the
// last underlying failure for diagnostics.
type CommunicationError struct {
	// Attempts is the total number of write+read attempts made
	Attempts int

	// Cause is the failure of the final attempt
	Cause error
}

func (e *CommunicationError) Error() string {
	return fmt.Sprintf("communication failure after %d attempts: %v", e.Attempts, e.Cause)
}

func (e *CommunicationError) Unwrap() error { return e.Cause }

// UnexpectedResponseError reports a structurally valid reply whose variant
// does not answer the request, e.g. a status frame in reply to a setpoint
// command. Not retried.
type UnexpectedResponseError struct {
	// Request is the function code of the outgoing command
	Request byte

	// Got describes the received response variant
	Got string
}

func (e *UnexpectedResponseError) Error() string {
	return fmt.Sprintf("unexpected response to command %c: got %s", e.Request, e.Got)
}
