package main

import (
	"os"

	"github.com/rs/zerolog"
)

// newLogger writes to stderr; stdout carries command output and, for
// serve, the MCP transport.
func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}
