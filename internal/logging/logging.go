// Package logging builds the zap logger shared by every command.
//
// Logs are diagnostics only and always go to stderr (or the writer given
// in Options); command results are printed by the CLI output formatter.
// The default level is Warn so ordinary runs stay quiet; Verbose lowers it
// to Debug, which traces fragment loads, fingerprint comparisons, and write
// decisions.
package logging

import (
	"fmt"
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options configures New.
type Options struct {
	// Verbose enables Debug level.
	Verbose bool

	// JSON selects the JSON encoder; otherwise a console encoder is used.
	JSON bool

	// Output receives log lines. Nil means stderr.
	Output io.Writer
}

// Level returns the minimum level for opts.
func (o Options) Level() zapcore.Level {
	if o.Verbose {
		return zapcore.DebugLevel
	}
	return zapcore.WarnLevel
}

// New builds a logger for opts.
func New(opts Options) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(opts.Level())
	config.DisableStacktrace = !opts.Verbose
	if !opts.JSON {
		config.Encoding = "console"
		config.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	}

	if opts.Output == nil {
		logger, err := config.Build()
		if err != nil {
			return nil, fmt.Errorf("failed to initialize logger: %w", err)
		}
		return logger, nil
	}

	var enc zapcore.Encoder
	if opts.JSON {
		enc = zapcore.NewJSONEncoder(config.EncoderConfig)
	} else {
		enc = zapcore.NewConsoleEncoder(config.EncoderConfig)
	}
	core := zapcore.NewCore(enc, zapcore.AddSync(opts.Output), config.Level)
	return zap.New(core), nil
}

// Must is New for tests and package-level setup; it panics on failure.
func Must(opts Options) *zap.Logger {
	l, err := New(opts)
	if err != nil {
		panic(err)
	}
	return l
}
