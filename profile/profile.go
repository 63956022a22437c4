// Package profile parses and runs setpoint profiles: small line-oriented
// scripts that drive a power supply through a sequence of voltage, current,
// output and timing steps.
//
// Format, one step per line, '#' starts a comment:
//
//	# ramp-up sequence
//	voltage 5.15
//	current 0.25
//	output on
//	sleep 500ms
//	output off
//
// Example:
//
//	prof, err := profile.Parse("rampup.profile")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := prof.Apply(ctx, supply); err != nil {
//	    log.Fatal(err)
//	}
package profile

import (
	"context"
	"fmt"
	"time"
)

// StepKind identifies a profile step.
type StepKind int

const (
	// StepSetVoltage sets the voltage setpoint (Value)
	StepSetVoltage StepKind = iota

	// StepSetCurrent sets the current limit (Value)
	StepSetCurrent

	// StepOutput enables or disables the output (On)
	StepOutput

	// StepLock locks or unlocks the front panel (On)
	StepLock

	// StepSleep pauses the sequence (Duration)
	StepSleep
)

// Step is one parsed profile line. The meaningful field depends on Kind.
type Step struct {
	// Kind selects the operation
	Kind StepKind

	// Value is the setpoint in volts or amperes
	Value float64

	// On is the requested state for output and lock steps
	On bool

	// Duration is the pause length for sleep steps
	Duration time.Duration

	// Line is the 1-based source line, for error reporting
	Line int
}

// Profile is a parsed sequence of steps, applied in order.
type Profile struct {
	// Steps are the parsed steps in file order
	Steps []Step
}

// Controller is the subset of the driver a profile needs. *psu.PowerSupply
// satisfies it.
type Controller interface {
	SetVoltage(ctx context.Context, volts float64) error
	SetCurrentLimit(ctx context.Context, amps float64) error
	SetOutput(ctx context.Context, enabled bool) error
	LockPanel(ctx context.Context, lock bool) error
}

// Apply runs the profile's steps in order against the supply. It stops at
// the first failing step, reporting its source line. Sleep steps honor
// context cancellation.
func (p *Profile) Apply(ctx context.Context, c Controller) error {
	for _, step := range p.Steps {
		if err := applyStep(ctx, c, step); err != nil {
			return fmt.Errorf("profile line %d: %w", step.Line, err)
		}
	}
	return nil
}

func applyStep(ctx context.Context, c Controller, step Step) error {
	switch step.Kind {
	case StepSetVoltage:
		return c.SetVoltage(ctx, step.Value)
	case StepSetCurrent:
		return c.SetCurrentLimit(ctx, step.Value)
	case StepOutput:
		return c.SetOutput(ctx, step.On)
	case StepLock:
		return c.LockPanel(ctx, step.On)
	case StepSleep:
		return sleep(ctx, step.Duration)
	default:
		return fmt.Errorf("unknown step kind %d", step.Kind)
	}
}

// sleep pauses for d or until the context is cancelled.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
