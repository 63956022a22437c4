package profile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// defaultStepCapacity is the initial capacity for the steps slice.
const defaultStepCapacity = 16

// Parse parses a profile file from the given file path.
//
// Example:
//
//	prof, err := profile.Parse("rampup.profile")
//	if err != nil {
//	    log.Fatal(err)
//	}
func Parse(path string) (*Profile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return ParseReader(f)
}

// ParseReader parses a profile from any io.Reader.
// This is useful for testing and reading from non-file sources.
//
// Example:
//
//	prof, err := profile.ParseReader(strings.NewReader(script))
func ParseReader(r io.Reader) (*Profile, error) {
	scanner := bufio.NewScanner(r)

	steps := make([]Step, 0, defaultStepCapacity)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()

		// Strip trailing comments, then surrounding whitespace.
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		step, err := parseStep(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		step.Line = lineNum
		steps = append(steps, step)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	return &Profile{Steps: steps}, nil
}

// parseStep parses a single non-empty, comment-stripped line.
func parseStep(line string) (Step, error) {
	fields := strings.Fields(line)
	keyword := strings.ToLower(fields[0])

	if len(fields) != 2 {
		return Step{}, fmt.Errorf("%q takes exactly one argument", keyword)
	}
	arg := fields[1]

	switch keyword {
	case "voltage":
		v, err := parseSetpoint(arg)
		if err != nil {
			return Step{}, fmt.Errorf("invalid voltage %q: %w", arg, err)
		}
		return Step{Kind: StepSetVoltage, Value: v}, nil

	case "current":
		v, err := parseSetpoint(arg)
		if err != nil {
			return Step{}, fmt.Errorf("invalid current %q: %w", arg, err)
		}
		return Step{Kind: StepSetCurrent, Value: v}, nil

	case "output":
		on, err := parseSwitch(arg)
		if err != nil {
			return Step{}, fmt.Errorf("invalid output state %q: %w", arg, err)
		}
		return Step{Kind: StepOutput, On: on}, nil

	case "lock":
		on, err := parseSwitch(arg)
		if err != nil {
			return Step{}, fmt.Errorf("invalid lock state %q: %w", arg, err)
		}
		return Step{Kind: StepLock, On: on}, nil

	case "sleep":
		d, err := time.ParseDuration(arg)
		if err != nil {
			return Step{}, fmt.Errorf("invalid duration %q: %w", arg, err)
		}
		if d < 0 {
			return Step{}, fmt.Errorf("negative duration %q", arg)
		}
		return Step{Kind: StepSleep, Duration: d}, nil

	default:
		return Step{}, fmt.Errorf("unknown keyword %q", keyword)
	}
}

func parseSetpoint(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number")
	}
	if v < 0 {
		return 0, fmt.Errorf("negative value")
	}
	return v, nil
}

func parseSwitch(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on":
		return true, nil
	case "off":
		return false, nil
	default:
		return false, fmt.Errorf("expected on or off")
	}
}
