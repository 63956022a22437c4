// Package protocol implements the KUAIQU power supply serial protocol.
//
// This package provides functions to build command frames and parse response
// frames for KUAIQU bench DC power supplies. It is purely transformational:
// no I/O happens here, which keeps the codec independently testable.
//
// # Protocol Overview
//
// The protocol is ASCII-framed with a fixed layout:
//
//	Command:  [START][ADDR][FUNC][DATA1(3)][DATA2(3)][DEVICE(3)][CHECKSUM][END]
//	Response: same layout; read-status replies use a longer frame carrying
//	          voltage, current and the output state together.
//
// Where:
//   - START = '<' (0x3C), END = '>' (0x3E)
//   - FUNC = ASCII digit selecting the operation
//   - CHECKSUM = modulo-256 sum of every byte between START and CHECKSUM
//
// Numeric payloads are fixed-point: a three-digit integer part and a
// three-digit milli part, so 12.5 V travels as DATA1="012" DATA2="500".
//
// # Command Builders
//
// Use the Build* functions to create command frames:
//
//	frame, err := protocol.BuildSetVoltageCmd(12.5)
//	frame, err := protocol.BuildOutputCmd(true)
//	// ... etc
//
// Builders validate numeric parameters before producing any bytes and
// return *InvalidParameterError for values the device cannot encode.
//
// # Response Parsing
//
// Use ParseResponse to validate and decode a received frame:
//
//	rsp, err := protocol.ParseResponse(frame)
//	switch rsp.Kind {
//	case protocol.KindAck:
//	    // command accepted
//	case protocol.KindStatus:
//	    fmt.Println(rsp.Status.Voltage, rsp.Status.Current)
//	}
//
// Decode failures wrap one of three sentinels (ErrMalformedFrame,
// ErrChecksumMismatch, ErrUnknownResponseCode), so transaction-level code
// can decide what is retryable with errors.Is.
package protocol
