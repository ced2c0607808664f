// Package logger builds the zap loggers used by dropsim.
package logger

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options defines logging configuration.
type Options struct {
	Level       string `yaml:"level"`
	Format      string `yaml:"format"` // json or console
	Development bool   `yaml:"development"`
}

// DefaultOptions logs warnings and above to stderr in console format.
func DefaultOptions() Options {
	return Options{
		Level:  "warn",
		Format: "console",
	}
}

// FromEnv applies DROPSIM_LOG_LEVEL and DROPSIM_LOG_FORMAT on top of opts.
func FromEnv(opts Options) Options {
	if level := os.Getenv("DROPSIM_LOG_LEVEL"); level != "" {
		opts.Level = level
	}
	if format := os.Getenv("DROPSIM_LOG_FORMAT"); format != "" {
		opts.Format = format
	}
	return opts
}

// New creates a zap logger writing to stderr. Stdout is reserved for
// simulation output.
func New(opts Options) (*zap.Logger, error) {
	var cfg zap.Config
	if opts.Development {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Sampling = nil
	}

	level, err := zapcore.ParseLevel(opts.Level)
	if err != nil {
		return nil, fmt.Errorf("logger: invalid level %q: %w", opts.Level, err)
	}
	cfg.Level = zap.NewAtomicLevelAt(level)

	switch strings.ToLower(opts.Format) {
	case "", "console":
		cfg.Encoding = "console"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	case "json":
		cfg.Encoding = "json"
	default:
		return nil, fmt.Errorf("logger: unknown format %q", opts.Format)
	}

	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	return cfg.Build(zap.AddStacktrace(zapcore.ErrorLevel))
}
