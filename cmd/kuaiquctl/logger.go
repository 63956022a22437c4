package main

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/woazboat/go-kuaiqu/psu"
)

// newLogger builds a console zap logger at the requested verbosity.
func newLogger(verbose, quiet bool) *zap.SugaredLogger {
	level := zapcore.InfoLevel
	switch {
	case quiet:
		level = zapcore.ErrorLevel
	case verbose:
		level = zapcore.DebugLevel
	}

	encoderCfg := zap.NewDevelopmentEncoderConfig()
	encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderCfg),
		zapcore.Lock(os.Stderr),
		level,
	)
	return zap.New(core).Sugar()
}

// zapAdapter exposes a SugaredLogger through the driver's Logger interface.
type zapAdapter struct {
	log *zap.SugaredLogger
}

func (a zapAdapter) Debug(msg string, keysAndValues ...interface{}) {
	a.log.Debugw(msg, keysAndValues...)
}

func (a zapAdapter) Info(msg string, keysAndValues ...interface{}) {
	a.log.Infow(msg, keysAndValues...)
}

func (a zapAdapter) Error(msg string, keysAndValues ...interface{}) {
	a.log.Errorw(msg, keysAndValues...)
}

var _ psu.Logger = zapAdapter{}
