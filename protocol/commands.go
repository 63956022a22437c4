package protocol

import "fmt"

// buildCmdFrame assembles a complete command frame. data1, data2 and device
// must be three ASCII characters each; the checksum covers every byte
// between the start marker and the checksum field.
func buildCmdFrame(function byte, data1, data2, device string) []byte {
	frame := make([]byte, 0, CmdFrameSize)
	frame = append(frame, FrameStart)
	frame = append(frame, HostAddress)
	frame = append(frame, function)
	frame = append(frame, data1...)
	frame = append(frame, data2...)
	frame = append(frame, device...)
	frame = append(frame, Checksum(frame[1:]))
	frame = append(frame, FrameEnd)
	return frame
}

// fixedPointFields encodes a value into the two three-digit payload fields.
func fixedPointFields(name string, v float64) (data1, data2 string, err error) {
	intPart, milliPart, err := splitFixedPoint(name, v)
	if err != nil {
		return "", "", err
	}
	return fmt.Sprintf("%03d", intPart), fmt.Sprintf("%03d", milliPart), nil
}

// BuildSetVoltageCmd constructs a Set Voltage command frame.
// The voltage is encoded as fixed-point: three integer digits in DATA1 and
// three milli digits in DATA2.
//
// Frame structure:
//
//	[START][ADDR][FUNC='1'][V_INT(3)][V_MILLI(3)][DEVICE(3)][CHECKSUM][END]
//
// Returns an *InvalidParameterError if volts cannot be encoded.
func BuildSetVoltageCmd(volts float64) ([]byte, error) {
	data1, data2, err := fixedPointFields("voltage", volts)
	if err != nil {
		return nil, err
	}
	return buildCmdFrame(FuncSetVoltage, data1, data2, EmptyField), nil
}

// BuildSetCurrentCmd constructs a Set Current Limit command frame.
// Encoding matches BuildSetVoltageCmd with FUNC='3'.
func BuildSetCurrentCmd(amps float64) ([]byte, error) {
	data1, data2, err := fixedPointFields("current", amps)
	if err != nil {
		return nil, err
	}
	return buildCmdFrame(FuncSetCurrent, data1, data2, EmptyField), nil
}

// BuildOutputCmd constructs an Enable Output or Disable Output command frame.
// The two states use distinct function codes; there is no toggle command.
func BuildOutputCmd(enable bool) ([]byte, error) {
	function := byte(FuncDisableOutput)
	if enable {
		function = FuncEnableOutput
	}
	return buildCmdFrame(function, EmptyField, EmptyField, EmptyField), nil
}

// BuildReadVoltageCmd constructs a Read Voltage command frame.
func BuildReadVoltageCmd() ([]byte, error) {
	return buildCmdFrame(FuncReadVoltage, EmptyField, EmptyField, EmptyField), nil
}

// BuildReadCurrentCmd constructs a Read Current command frame.
func BuildReadCurrentCmd() ([]byte, error) {
	return buildCmdFrame(FuncReadCurrent, EmptyField, EmptyField, EmptyField), nil
}

// BuildReadStatusCmd constructs a Read Status command frame. The reply is
// the long status frame (StatusFrameSize bytes) carrying voltage, current
// and the output state together.
func BuildReadStatusCmd() ([]byte, error) {
	return buildCmdFrame(FuncReadStatus, EmptyField, EmptyField, EmptyField), nil
}

// BuildLockCmd constructs a Lock Panel command frame. DATA1 selects lock
// (LockData) or unlock (UnlockData).
func BuildLockCmd(lock bool) ([]byte, error) {
	data1 := UnlockData
	if lock {
		data1 = LockData
	}
	return buildCmdFrame(FuncLockPanel, data1, EmptyField, EmptyField), nil
}

// ResponseSize returns the reply frame size for a request's function code.
// Read Status replies with the long status frame; every other command
// replies with a plain frame.
func ResponseSize(function byte) int {
	if function == FuncReadStatus {
		return StatusFrameSize
	}
	return CmdFrameSize
}

// RequestFunction extracts the function code from a built command frame.
func RequestFunction(frame []byte) byte {
	if len(frame) < 3 {
		return 0
	}
	return frame[2]
}
