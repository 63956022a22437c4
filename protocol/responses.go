package protocol

import (
	"fmt"
)

// Plain response field offsets.
const (
	addrOffset   = 1
	funcOffset   = 2
	data1Offset  = 3
	data2Offset  = 6
	deviceOffset = 9
)

// Status response field offsets.
const (
	voltIntOffset   = 3
	voltMilliOffset = 6
	ampIntOffset    = 9
	ampMilliOffset  = 12
	outputOffset    = 15
)

// ParseResponse validates a received frame and decodes it into a Response.
// Validation order: frame shape (length, start/end markers), then checksum,
// then function code, then payload.
//
// Failures wrap ErrMalformedFrame, ErrChecksumMismatch or
// ErrUnknownResponseCode so callers can classify with errors.Is.
func ParseResponse(frame []byte) (*Response, error) {
	if len(frame) < MinFrameSize {
		return nil, fmt.Errorf("%w: got %d bytes, minimum is %d", ErrMalformedFrame, len(frame), MinFrameSize)
	}
	if frame[0] != FrameStart {
		return nil, fmt.Errorf("%w: invalid start marker 0x%02X", ErrMalformedFrame, frame[0])
	}
	if frame[len(frame)-1] != FrameEnd {
		return nil, fmt.Errorf("%w: invalid end marker 0x%02X", ErrMalformedFrame, frame[len(frame)-1])
	}

	want := frame[len(frame)-2]
	got := Checksum(frame[1 : len(frame)-2])
	if got != want {
		return nil, fmt.Errorf("%w: computed 0x%02X, frame carries 0x%02X", ErrChecksumMismatch, got, want)
	}

	function := frame[funcOffset]
	switch function {
	case FuncReadStatus:
		if len(frame) != StatusFrameSize {
			return nil, fmt.Errorf("%w: status frame length %d, expected %d", ErrMalformedFrame, len(frame), StatusFrameSize)
		}
		return parseStatusResponse(frame)
	case FuncSetVoltage, FuncSetCurrent, FuncReadVoltage, FuncReadCurrent,
		FuncEnableOutput, FuncDisableOutput, FuncLockPanel:
		if len(frame) != CmdFrameSize {
			return nil, fmt.Errorf("%w: frame length %d, expected %d", ErrMalformedFrame, len(frame), CmdFrameSize)
		}
		return parsePlainResponse(frame)
	default:
		return nil, fmt.Errorf("%w: 0x%02X", ErrUnknownResponseCode, function)
	}
}

// parsePlainResponse decodes a CmdFrameSize reply: an acknowledge, a device
// error, a measured value, or a setpoint echo.
func parsePlainResponse(frame []byte) (*Response, error) {
	function := frame[funcOffset]
	data1 := frame[data1Offset:data2Offset]
	data2 := frame[data2Offset:deviceOffset]

	if string(data1) == AckData {
		return &Response{Kind: KindAck, Function: function}, nil
	}
	if string(data1[:2]) == DeviceErrPrefix {
		return &Response{Kind: KindDeviceError, Function: function, ErrCode: data1[2]}, nil
	}

	intPart, err := parseField(data1)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}
	milliPart, err := parseField(data2)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}

	switch function {
	case FuncReadVoltage, FuncReadCurrent:
		return &Response{
			Kind:     KindReading,
			Function: function,
			Reading: Reading{
				Value: fixedPointValue(intPart, milliPart),
				Mode:  parseMode(frame[addrOffset]),
			},
		}, nil
	default:
		// Setters and output/lock commands echo the request payload back
		// when they have nothing to report. Treat the echo as an
		// acknowledge, but preserve the value for round-trip checks.
		return &Response{
			Kind:     KindAck,
			Function: function,
			Reading:  Reading{Value: fixedPointValue(intPart, milliPart)},
		}, nil
	}
}

// parseStatusResponse decodes the long read-status reply.
func parseStatusResponse(frame []byte) (*Response, error) {
	vInt, err := parseField(frame[voltIntOffset:voltMilliOffset])
	if err != nil {
		return nil, fmt.Errorf("%w: voltage field: %v", ErrMalformedFrame, err)
	}
	vMilli, err := parseField(frame[voltMilliOffset:ampIntOffset])
	if err != nil {
		return nil, fmt.Errorf("%w: voltage field: %v", ErrMalformedFrame, err)
	}
	aInt, err := parseField(frame[ampIntOffset:ampMilliOffset])
	if err != nil {
		return nil, fmt.Errorf("%w: current field: %v", ErrMalformedFrame, err)
	}
	aMilli, err := parseField(frame[ampMilliOffset:outputOffset])
	if err != nil {
		return nil, fmt.Errorf("%w: current field: %v", ErrMalformedFrame, err)
	}

	var enabled bool
	switch frame[outputOffset] {
	case OutputOn:
		enabled = true
	case OutputOff:
		enabled = false
	default:
		return nil, fmt.Errorf("%w: invalid output state byte 0x%02X", ErrMalformedFrame, frame[outputOffset])
	}

	return &Response{
		Kind:     KindStatus,
		Function: FuncReadStatus,
		Status: Status{
			Voltage:       fixedPointValue(vInt, vMilli),
			Current:       fixedPointValue(aInt, aMilli),
			OutputEnabled: enabled,
			Mode:          parseMode(frame[addrOffset]),
		},
	}, nil
}

// parseMode maps the response address/mode byte to a regulation mode.
// Anything other than the CV marker reports constant current, matching
// device behavior.
func parseMode(b byte) Mode {
	if b == ModeConstantVoltage {
		return ConstantVoltage
	}
	return ConstantCurrent
}

// parseField parses a three-digit ASCII payload field.
func parseField(b []byte) (int, error) {
	v := 0
	for _, c := range b {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("non-digit byte 0x%02X in numeric field", c)
		}
		v = v*10 + int(c-'0')
	}
	return v, nil
}
