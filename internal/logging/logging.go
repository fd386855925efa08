// Package logging builds the process-wide zap logger.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns the logger for the given mode. Development gets the console
// encoder at debug level; production emits JSON at info, or debug when
// verbose is set.
func New(development, verbose bool) (*zap.Logger, error) {
	if development {
		return zap.NewDevelopmentConfig().Build()
	}
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}
