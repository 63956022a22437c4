package protocol

import (
	"errors"
	"fmt"
)

// Decode failure categories. ParseResponse wraps these sentinels with
// byte-level detail; classify with errors.Is.
var (
	// ErrMalformedFrame indicates a frame that is too short, has bad
	// start/end markers, or carries a payload that does not parse
	ErrMalformedFrame = errors.New("malformed frame")

	// ErrChecksumMismatch indicates the trailing checksum byte does not
	// match the checksum computed over the received payload
	ErrChecksumMismatch = errors.New("checksum mismatch")

	// ErrUnknownResponseCode indicates a function code byte that matches
	// no known response variant (protocol or firmware mismatch)
	ErrUnknownResponseCode = errors.New("unknown response code")
)

// InvalidParameterError reports a caller-supplied value that cannot be
// encoded for the device. It is raised before any byte is written to the
// channel.
type InvalidParameterError struct {
	// Name is the parameter name ("voltage", "current")
	Name string

	// Value is the rejected value
	Value float64

	// Reason explains why the value was rejected
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Name, e.Value, e.Reason)
}

// DeviceError is an error reply from the supply. The frame was received
// intact; the device itself rejected the command.
type DeviceError struct {
	// Code is the error code digit from the response payload
	Code byte
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("device error %c: %s", e.Code, deviceErrName(e.Code))
}

// deviceErrName returns a human-readable name for a device error code.
func deviceErrName(code byte) string {
	switch code {
	case DevErrCommand:
		return "command not recognized"
	case DevErrRange:
		return "value out of device range"
	case DevErrOutputFault:
		return "output stage fault"
	default:
		return fmt.Sprintf("unknown error code %q", string(code))
	}
}
