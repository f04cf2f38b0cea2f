package main

import (
	"errors"
	"io"
	"os"

	"github.com/itsatony/go-theo"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// loadConfig reads the config file at path. An empty path falls back to
// theo.yaml in the working directory, then to the defaults.
func loadConfig(path string) (*theo.Config, error) {
	if path != "" {
		return theo.LoadConfig(path)
	}
	if _, err := os.Stat(DefaultConfigFile); err == nil {
		return theo.LoadConfig(DefaultConfigFile)
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	return theo.DefaultConfig(), nil
}

// newLogger returns a console logger on stderr when verbose, a nop logger otherwise
func newLogger(verbose bool, stderr io.Writer) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	encoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	core := zapcore.NewCore(encoder, zapcore.AddSync(stderr), zapcore.DebugLevel)
	return zap.New(core)
}

// exitCodeFor maps a processing error to an exit code
func exitCodeFor(err error) int {
	if theo.IsUsageError(err) || theo.IsDepthError(err) {
		return ExitCodeValidationError
	}
	return ExitCodeError
}
