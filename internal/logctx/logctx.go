// Package logctx plumbs a configured zap logger through the compile
// driver and passes, the way a caddy-style App exposes a
// package-level Log() accessor for the default logger — except here the
// logger is passed explicitly rather than read from a package global,
// since passes are library code invoked by more than just the CLI.
package logctx

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a production-style console logger at the given verbosity.
// verbose selects Debug level; otherwise Info.
func New(verbose bool) *zap.Logger {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.TimeKey = "" // batch CLI output; timestamps add no value to a single-shot compile
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), zapcore.Lock(os.Stderr), level)
	return zap.New(core)
}

// Nop returns a logger that discards everything, used by tests and by
// library callers that don't want compiler diagnostics on stderr.
func Nop() *zap.Logger { return zap.NewNop() }
