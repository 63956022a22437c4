package protocol

// Frame structure constants per the KUAIQU serial protocol datasheet.
const (
	// FrameStart is the frame start marker ('<')
	FrameStart = 0x3C

	// FrameEnd is the frame end marker ('>')
	FrameEnd = 0x3E

	// CmdFrameSize is the size of command frames and plain response frames:
	// START(1) + ADDR(1) + FUNC(1) + DATA1(3) + DATA2(3) + DEVICE(3) + CHECKSUM(1) + END(1)
	CmdFrameSize = 14

	// StatusFrameSize is the size of a read-status response frame:
	// START(1) + MODE(1) + FUNC(1) + VOLTS(6) + AMPS(6) + OUTPUT(1) + CHECKSUM(1) + END(1)
	StatusFrameSize = 18

	// MinFrameSize is the shortest byte sequence the decoder accepts
	MinFrameSize = CmdFrameSize
)

// Function codes. The protocol is ASCII-framed, so codes are digit characters.
const (
	// FuncSetVoltage sets the output voltage setpoint
	FuncSetVoltage = '1'

	// FuncReadVoltage reads the present output voltage
	FuncReadVoltage = '2'

	// FuncSetCurrent sets the output current limit
	FuncSetCurrent = '3'

	// FuncReadCurrent reads the present output current
	FuncReadCurrent = '4'

	// FuncReadStatus reads voltage, current and output state in one frame
	FuncReadStatus = '5'

	// FuncEnableOutput enables the output stage
	FuncEnableOutput = '7'

	// FuncDisableOutput disables the output stage
	FuncDisableOutput = '8'

	// FuncLockPanel locks or unlocks the front panel buttons
	FuncLockPanel = '9'
)

// Payload field constants.
const (
	// HostAddress is the address byte used for host-originated frames
	HostAddress = '0'

	// EmptyField fills unused three-digit payload fields
	EmptyField = "000"

	// AckData is the DATA1 value of an acknowledge response
	AckData = "OK0"

	// DeviceErrPrefix starts the DATA1 value of a device error response;
	// the third byte is the error code digit
	DeviceErrPrefix = "ER"

	// LockData requests a front panel lock (DATA1 of FuncLockPanel)
	LockData = "100"

	// UnlockData requests a front panel unlock (DATA1 of FuncLockPanel)
	UnlockData = "200"
)

// Mode and output-state marker bytes in response frames.
const (
	// ModeConstantVoltage marks a constant-voltage regulation response
	ModeConstantVoltage = '1'

	// ModeConstantCurrent marks a constant-current regulation response
	ModeConstantCurrent = 'C'

	// OutputOn marks an enabled output stage in a status response
	OutputOn = '1'

	// OutputOff marks a disabled output stage in a status response
	OutputOff = '0'
)

// Device error code digits returned in DATA1 after DeviceErrPrefix.
const (
	// DevErrCommand indicates the command was not recognized
	DevErrCommand = '1'

	// DevErrRange indicates the requested value is outside the device range
	DevErrRange = '2'

	// DevErrOutputFault indicates an output stage fault (OVP/OCP trip)
	DevErrOutputFault = '3'
)

// Fixed-point payload limits. Values are transmitted as a three-digit
// integer part and a three-digit milli part.
const (
	// MaxEncodable is the largest value a DATA1/DATA2 field pair can carry
	MaxEncodable = 999.999

	// MilliPerUnit is the fixed-point scale of the fractional field
	MilliPerUnit = 1000
)
