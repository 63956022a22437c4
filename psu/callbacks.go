package psu

// TraceDir tells a trace callback which way bytes moved on the channel.
type TraceDir int

const (
	// TraceTX marks bytes written to the device
	TraceTX TraceDir = iota

	// TraceRX marks bytes received from the device
	TraceRX
)

func (d TraceDir) String() string {
	if d == TraceTX {
		return "TX"
	}
	return "RX"
}

// TraceEvent describes one raw transfer on the serial channel.
// Passed to the TraceFunc configured with WithTrace.
type TraceEvent struct {
	// Dir is the transfer direction
	Dir TraceDir

	// Data is the raw frame. The slice is only valid for the duration of
	// the callback.
	Data []byte

	// Attempt is the 1-based attempt number within the transaction
	Attempt int
}

// TraceFunc is called for every frame written to or read from the channel.
// Implementations should return quickly; the transaction deadline keeps
// running while the callback executes.
//
// Example:
//
//	supply := psu.New(port,
//	    psu.WithTrace(func(ev psu.TraceEvent) {
//	        fmt.Printf("%s % X\n", ev.Dir, ev.Data)
//	    }),
//	)
type TraceFunc func(TraceEvent)

// Logger is an optional logging interface that can be provided to the
// driver. This allows integration with any logging framework.
//
// Example with standard log package:
//
//	type StdLogger struct{}
//	func (l *StdLogger) Debug(msg string, kv ...interface{}) { log.Println(msg, kv) }
//	func (l *StdLogger) Info(msg string, kv ...interface{})  { log.Println(msg, kv) }
//	func (l *StdLogger) Error(msg string, kv ...interface{}) { log.Println(msg, kv) }
//
//	supply := psu.New(port, psu.WithLogger(&StdLogger{}))
type Logger interface {
	// Debug logs a debug message with optional key-value pairs
	Debug(msg string, keysAndValues ...interface{})

	// Info logs an info message with optional key-value pairs
	Info(msg string, keysAndValues ...interface{})

	// Error logs an error message with optional key-value pairs
	Error(msg string, keysAndValues ...interface{})
}
