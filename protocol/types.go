package protocol

// Mode indicates which quantity the supply is presently regulating.
type Mode int

const (
	// ConstantVoltage means the supply holds the voltage setpoint
	ConstantVoltage Mode = iota

	// ConstantCurrent means the supply is limiting at the current setpoint
	ConstantCurrent
)

func (m Mode) String() string {
	switch m {
	case ConstantVoltage:
		return "CV"
	case ConstantCurrent:
		return "CC"
	default:
		return "unknown"
	}
}

// ResponseKind discriminates the decoded response variants.
type ResponseKind int

const (
	// KindAck is an acknowledge reply or a command echo
	KindAck ResponseKind = iota

	// KindReading is a single measured value reply
	KindReading

	// KindStatus is a combined voltage/current/output reply
	KindStatus

	// KindDeviceError is an error reply from the device
	KindDeviceError
)

// Response is a decoded reply frame. Exactly one of the variant fields is
// meaningful, selected by Kind.
type Response struct {
	// Kind selects the response variant
	Kind ResponseKind

	// Function is the function code byte echoed by the device
	Function byte

	// Reading holds the measured value when Kind is KindReading. It is also
	// populated for setpoint echoes, where the device repeats the value back
	// instead of an acknowledge.
	Reading Reading

	// Status holds the full state when Kind is KindStatus
	Status Status

	// ErrCode holds the device error code digit when Kind is KindDeviceError
	ErrCode byte
}

// Reading is a single measured value plus the regulation mode reported
// alongside it.
type Reading struct {
	// Value is the measured quantity in volts or amperes
	Value float64

	// Mode is the regulation mode at the time of the reading
	Mode Mode
}

// Status is the supply's present state as reported by a read-status reply.
type Status struct {
	// Voltage is the present output voltage in volts
	Voltage float64

	// Current is the present output current in amperes
	Current float64

	// OutputEnabled reports whether the output stage is on
	OutputEnabled bool

	// Mode is the present regulation mode
	Mode Mode
}
