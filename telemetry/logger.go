// Package telemetry provides a configurable logger shared across the
// garble and tlp packages and cmd/crgctlp. The root logger defaults to
// github.com/rs/zerolog with a console writer, mirroring how gnark's
// logger package (github.com/consensys/gnark/logger) wires zerolog for a
// multi-package library.
package telemetry

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

var logger zerolog.Logger

func init() {
	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}
	logger = zerolog.New(output).Level(zerolog.InfoLevel).With().Timestamp().Logger()

	if strings.HasSuffix(os.Args[0], ".test") {
		logger = zerolog.Nop()
	}
}

// SetOutput changes the output of the global logger.
func SetOutput(w io.Writer) {
	logger = logger.Output(w)
}

// Set overrides the global logger, e.g. to raise verbosity or redirect to a
// structured sink.
func Set(l zerolog.Logger) {
	logger = l
}

// Disable silences all logging from this module.
func Disable() {
	logger = zerolog.Nop()
}

// SetLevel raises or lowers the global logger's minimum severity, e.g. to
// surface garble.Garble's per-phase debug output on a CLI's -v flag.
func SetLevel(level zerolog.Level) {
	logger = logger.Level(level)
}

// Logger returns the shared logger.
func Logger() zerolog.Logger {
	return logger
}
