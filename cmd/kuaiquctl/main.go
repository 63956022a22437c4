// Command kuaiquctl controls a KUAIQU bench power supply over a serial port.
//
// Usage:
//
//	kuaiquctl [flags] <port>
//
// Examples:
//
//	kuaiquctl --voltage 5.15 --current 0.25 --enable /dev/ttyUSB0
//	kuaiquctl --status /dev/ttyUSB0
//	kuaiquctl --profile rampup.profile /dev/ttyUSB0
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/woazboat/go-kuaiqu/profile"
	"github.com/woazboat/go-kuaiqu/psu"
	"github.com/woazboat/go-kuaiqu/serialport"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "kuaiquctl: %v\n", err)
		os.Exit(1)
	}
}

// cliOptions holds the action flags after parsing and alias resolution.
// Tuning flags (baud, timeout, retries, ratings, verbosity) stay on the
// flag set and reach the driver through loadConfig.
type cliOptions struct {
	port        string
	voltage     float64
	current     float64
	enable      bool
	disable     bool
	lock        bool
	unlock      bool
	status      bool
	profilePath string
	configPath  string

	flags *pflag.FlagSet
}

// parseFlags parses the command line. Setpoint values of -1 mean "not
// requested".
//
// The voltage and current flags keep the aliases users of the vendor tool
// expect: -v/-u/--volt/--voltage and -a/-c/-i/--ampere/--current. pflag
// allows one shorthand per flag, so the extra shorthands ride on hidden
// alias flags folded into the primary values after parsing.
func parseFlags(args []string) (*cliOptions, error) {
	flags := pflag.NewFlagSet("kuaiquctl", pflag.ContinueOnError)
	flags.SortFlags = false

	voltage := flags.Float64P("voltage", "v", -1, "voltage setpoint in volts")
	current := flags.Float64P("current", "a", -1, "current limit in amperes")
	volt := flags.Float64P("volt", "u", -1, "alias for --voltage")
	ampere := flags.Float64P("ampere", "c", -1, "alias for --current")
	amp := flags.Float64P("amp", "i", -1, "alias for --current")
	enable := flags.BoolP("enable", "e", false, "enable the output")
	disable := flags.BoolP("disable", "d", false, "disable the output")
	lock := flags.Bool("lock", false, "lock the front panel")
	unlock := flags.Bool("unlock", false, "unlock the front panel")
	status := flags.BoolP("status", "s", false, "read and print voltage, current and output state")
	profilePath := flags.StringP("profile", "p", "", "run a setpoint profile file")
	configPath := flags.String("config", "", "config file (default kuaiquctl.yaml)")
	flags.Int("baud", 9600, "serial baud rate")
	flags.DurationP("timeout", "t", time.Second, "per-attempt reply timeout")
	flags.IntP("retries", "r", 2, "retries per command")
	flags.Float64("max-voltage", 60, "reject setpoints above this voltage")
	flags.Float64("max-current", 5, "reject limits above this current")
	flags.Bool("verbose", false, "log every frame exchange")
	flags.BoolP("quiet", "q", false, "log errors only")

	for _, alias := range []string{"volt", "ampere", "amp"} {
		if err := flags.MarkHidden(alias); err != nil {
			return nil, err
		}
	}

	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: kuaiquctl [flags] <port>\n\nFlags:\n%s", flags.FlagUsages())
	}
	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	if *voltage < 0 && *volt >= 0 {
		*voltage = *volt
	}
	if *current < 0 {
		switch {
		case *ampere >= 0:
			*current = *ampere
		case *amp >= 0:
			*current = *amp
		}
	}

	if flags.NArg() != 1 {
		flags.Usage()
		return nil, fmt.Errorf("expected exactly one serial port argument")
	}
	if *enable && *disable {
		return nil, fmt.Errorf("--enable and --disable are mutually exclusive")
	}
	if *lock && *unlock {
		return nil, fmt.Errorf("--lock and --unlock are mutually exclusive")
	}

	return &cliOptions{
		port:        flags.Arg(0),
		voltage:     *voltage,
		current:     *current,
		enable:      *enable,
		disable:     *disable,
		lock:        *lock,
		unlock:      *unlock,
		status:      *status,
		profilePath: *profilePath,
		configPath:  *configPath,
		flags:       flags,
	}, nil
}

func run(args []string) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(opts.flags, opts.configPath)
	if err != nil {
		return err
	}

	log := newLogger(cfg.Verbose, cfg.Quiet)
	defer func() { _ = log.Sync() }()

	port, err := serialport.Open(opts.port, serialport.WithBaudRate(cfg.Baud))
	if err != nil {
		return err
	}
	defer func() { _ = port.Close() }()

	supply := psu.New(port,
		psu.WithTimeout(cfg.Timeout),
		psu.WithRetries(cfg.Retries),
		psu.WithMaxVoltage(cfg.MaxVoltage),
		psu.WithMaxCurrent(cfg.MaxCurrent),
		psu.WithLogger(zapAdapter{log: log}),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Panel lock first so manual fiddling cannot race the sequence, then
	// setpoints, then output, matching the safe bring-up order.
	if opts.lock {
		if err := supply.LockPanel(ctx, true); err != nil {
			return fmt.Errorf("lock panel: %w", err)
		}
		log.Infow("panel locked")
	}

	if opts.voltage >= 0 {
		if err := supply.SetVoltage(ctx, opts.voltage); err != nil {
			return fmt.Errorf("set voltage: %w", err)
		}
		log.Infow("voltage set", "volts", opts.voltage)
	}
	if opts.current >= 0 {
		if err := supply.SetCurrentLimit(ctx, opts.current); err != nil {
			return fmt.Errorf("set current limit: %w", err)
		}
		log.Infow("current limit set", "amps", opts.current)
	}

	if opts.enable {
		if err := supply.SetOutput(ctx, true); err != nil {
			return fmt.Errorf("enable output: %w", err)
		}
		log.Infow("output enabled")
	}
	if opts.disable {
		if err := supply.SetOutput(ctx, false); err != nil {
			return fmt.Errorf("disable output: %w", err)
		}
		log.Infow("output disabled")
	}

	if opts.profilePath != "" {
		prof, err := profile.Parse(opts.profilePath)
		if err != nil {
			return err
		}
		if err := prof.Apply(ctx, supply); err != nil {
			return err
		}
		log.Infow("profile applied", "path", opts.profilePath, "steps", len(prof.Steps))
	}

	if opts.status {
		st, err := supply.ReadStatus(ctx)
		if err != nil {
			return fmt.Errorf("read status: %w", err)
		}
		state := "off"
		if st.OutputEnabled {
			state = "on"
		}
		fmt.Printf("%.3f V  %.3f A  output %s  mode %s\n",
			st.Voltage, st.Current, state, st.Mode)
	}

	if opts.unlock {
		if err := supply.LockPanel(ctx, false); err != nil {
			return fmt.Errorf("unlock panel: %w", err)
		}
		log.Infow("panel unlocked")
	}

	return nil
}
