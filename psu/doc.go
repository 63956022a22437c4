// Package psu provides a high-level driver for KUAIQU bench DC power
// supplies over a serial channel.
//
// # Overview
//
// The driver translates high-level intents into protocol transactions:
//   - Setting the output voltage and current limit
//   - Enabling and disabling the output stage
//   - Reading the present voltage, current and output state
//   - Locking the front panel
//
// Each operation is one bounded, synchronous request/response exchange. The
// engine writes a frame, waits for the matching reply under a per-attempt
// deadline, and re-issues the frame when the reply times out or arrives
// corrupted, up to a configured retry bound.
//
// # Basic Usage
//
//	port, err := serialport.Open("/dev/ttyUSB0")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer port.Close()
//
//	supply := psu.New(port)
//
//	if err := supply.SetVoltage(ctx, 12.5); err != nil {
//	    log.Fatal(err)
//	}
//	if err := supply.SetOutput(ctx, true); err != nil {
//	    log.Fatal(err)
//	}
//
// # Configuration Options
//
// Customize behavior with functional options:
//
//	supply := psu.New(port,
//	    psu.WithTimeout(500*time.Millisecond),
//	    psu.WithRetries(3),
//	    psu.WithMaxVoltage(30),
//	    psu.WithMaxCurrent(3),
//	    psu.WithLogger(myLogger),
//	)
//
// # Concurrency
//
// The serial channel carries no request identifiers; replies match requests
// only because exactly one request is outstanding. The driver therefore
// never interleaves transactions: a call made while another is in flight
// fails fast with ErrChannelBusy. Single-goroutine callers never see it.
//
// # Cancellation
//
// Every operation takes a context. Cancellation aborts the in-flight
// exchange promptly, releases the channel, and surfaces the context error;
// a cancelled transaction is never silently retried.
//
// # Error Handling
//
// Failure modes are explicit in the API:
//   - *protocol.InvalidParameterError: setpoint rejected before any I/O
//   - *CommunicationError: retries exhausted, wrapping the last cause
//   - *protocol.DeviceError: the supply rejected the command
//   - protocol.ErrUnknownResponseCode: firmware/protocol mismatch, not retried
//   - ErrChannelBusy: overlapping transaction attempt
//
// # Hardware Independence
//
// The package does not open or configure serial ports. Callers supply any
// io.ReadWriter, such as the serialport package, a PTY, or an in-memory
// mock device for testing.
package psu
