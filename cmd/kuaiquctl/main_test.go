package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlagsSetpointAliases(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		voltage float64
		current float64
	}{
		{
			name:    "long primary spellings",
			args:    []string{"--voltage", "5.15", "--current", "0.25", "/dev/ttyUSB0"},
			voltage: 5.15,
			current: 0.25,
		},
		{
			name:    "short primary spellings",
			args:    []string{"-v", "5.15", "-a", "0.25", "/dev/ttyUSB0"},
			voltage: 5.15,
			current: 0.25,
		},
		{
			name:    "volt alias",
			args:    []string{"--volt", "12", "/dev/ttyUSB0"},
			voltage: 12,
			current: -1,
		},
		{
			name:    "u shorthand",
			args:    []string{"-u", "3.3", "/dev/ttyUSB0"},
			voltage: 3.3,
			current: -1,
		},
		{
			name:    "ampere alias",
			args:    []string{"--ampere", "1.5", "/dev/ttyUSB0"},
			voltage: -1,
			current: 1.5,
		},
		{
			name:    "c shorthand",
			args:    []string{"-c", "0.5", "/dev/ttyUSB0"},
			voltage: -1,
			current: 0.5,
		},
		{
			name:    "i shorthand",
			args:    []string{"-i", "2", "/dev/ttyUSB0"},
			voltage: -1,
			current: 2,
		},
		{
			name:    "primary wins over alias",
			args:    []string{"--voltage", "5", "--volt", "9", "/dev/ttyUSB0"},
			voltage: 5,
			current: -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := parseFlags(tt.args)
			require.NoError(t, err)

			assert.Equal(t, "/dev/ttyUSB0", opts.port)
			assert.InDelta(t, tt.voltage, opts.voltage, 1e-9)
			assert.InDelta(t, tt.current, opts.current, 1e-9)
		})
	}
}

func TestParseFlagsValidation(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		errMsg string
	}{
		{
			name:   "missing port",
			args:   []string{"--voltage", "5"},
			errMsg: "exactly one serial port",
		},
		{
			name:   "enable and disable together",
			args:   []string{"-e", "-d", "/dev/ttyUSB0"},
			errMsg: "mutually exclusive",
		},
		{
			name:   "lock and unlock together",
			args:   []string{"--lock", "--unlock", "/dev/ttyUSB0"},
			errMsg: "mutually exclusive",
		},
		{
			name:   "unknown flag",
			args:   []string{"--frequency", "50", "/dev/ttyUSB0"},
			errMsg: "unknown flag",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseFlags(tt.args)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestParseFlagsAliasesHiddenFromUsage(t *testing.T) {
	opts, err := parseFlags([]string{"/dev/ttyUSB0"})
	require.NoError(t, err)

	usage := opts.flags.FlagUsages()
	assert.NotContains(t, usage, "--volt ")
	assert.NotContains(t, usage, "--ampere")
	assert.NotContains(t, usage, "--amp ")
	assert.Contains(t, usage, "--voltage")
	assert.Contains(t, usage, "--current")
}
