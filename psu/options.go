package psu

import "time"

// Config holds the driver configuration.
type Config struct {
	// Timeout is the per-attempt deadline for receiving a complete reply
	Timeout time.Duration

	// Retries is the number of additional attempts after the first one
	// fails with a retryable cause (timeout or corrupted reply)
	Retries int

	// CommandDelay is a settle delay applied after each completed
	// exchange before the channel is released. Some supplies drop frames
	// that arrive back to back.
	CommandDelay time.Duration

	// MaxVoltage is the rated maximum voltage in volts; setpoints above it
	// are rejected before any byte is sent. Zero disables the check.
	MaxVoltage float64

	// MaxCurrent is the rated maximum current in amperes; same contract
	// as MaxVoltage.
	MaxCurrent float64

	// Logger is used for logging operations (optional)
	Logger Logger

	// Trace is called with every raw frame on the wire (optional)
	Trace TraceFunc
}

// defaultConfig returns the default configuration. Ratings default to the
// common KUAIQU bench model (60 V / 5 A).
func defaultConfig() Config {
	return Config{
		Timeout:    time.Second,
		Retries:    2,
		MaxVoltage: 60,
		MaxCurrent: 5,
	}
}

// Option is a functional option for configuring the PowerSupply.
type Option func(*Config)

// WithTimeout sets the per-attempt response deadline.
//
// Example:
//
//	supply := psu.New(port, psu.WithTimeout(500*time.Millisecond))
func WithTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		if timeout > 0 {
			c.Timeout = timeout
		}
	}
}

// WithRetries sets the number of retry attempts for failed exchanges.
//
// Example:
//
//	supply := psu.New(port, psu.WithRetries(5))
func WithRetries(retries int) Option {
	return func(c *Config) {
		if retries >= 0 {
			c.Retries = retries
		}
	}
}

// WithCommandDelay sets a settle delay after each completed exchange.
func WithCommandDelay(delay time.Duration) Option {
	return func(c *Config) {
		if delay >= 0 {
			c.CommandDelay = delay
		}
	}
}

// WithMaxVoltage sets the rated maximum voltage. Zero disables the rating
// check; the encodable-range check in the codec still applies.
func WithMaxVoltage(volts float64) Option {
	return func(c *Config) {
		if volts >= 0 {
			c.MaxVoltage = volts
		}
	}
}

// WithMaxCurrent sets the rated maximum current. Zero disables the rating
// check.
func WithMaxCurrent(amps float64) Option {
	return func(c *Config) {
		if amps >= 0 {
			c.MaxCurrent = amps
		}
	}
}

// WithLogger sets a logger for driver operations.
//
// Example:
//
//	supply := psu.New(port, psu.WithLogger(myLogger))
func WithLogger(logger Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithTrace sets a callback observing every raw frame on the wire.
func WithTrace(trace TraceFunc) Option {
	return func(c *Config) {
		c.Trace = trace
	}
}
