// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package logging provides the component loggers of the command line tools.
// Library packages do not log; the runner and the driver do.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// NewLogger creates a logger for the given component writing a human
// readable format to stderr.
func NewLogger(component string) zerolog.Logger {
	return newLogger(component, newConsoleWriter(os.Stderr, noColor(os.Stderr)))
}

// NewLoggerWithWriter creates a logger for the given component writing JSON
// lines to the given writer.
func NewLoggerWithWriter(component string, writer io.Writer) zerolog.Logger {
	return newLogger(component, writer)
}

func Nop() zerolog.Logger {
	return zerolog.Nop()
}

// SetupGlobalLevel sets the level of all loggers, e.g. "debug" or "warn".
func SetupGlobalLevel(level string) error {
	l, err := zerolog.ParseLevel(level)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(l)
	return nil
}

// SetLogLevelFromEnv sets the level from LOG_LEVEL, defaulting to info.
func SetLogLevelFromEnv() {
	level := os.Getenv("LOG_LEVEL")
	if level == "" || SetupGlobalLevel(level) != nil {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

func newLogger(component string, writer io.Writer) zerolog.Logger {
	return zerolog.New(writer).
		With().
		Str(FieldComponent, component).
		Timestamp().
		Logger()
}

func newConsoleWriter(out io.Writer, noColor bool) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.DateTime,
		PartsOrder: []string{
			zerolog.TimestampFieldName,
			zerolog.LevelFieldName,
			FieldComponent,
			zerolog.MessageFieldName,
		},
		FieldsExclude: []string{FieldComponent},
		NoColor:       noColor,
	}
}

func noColor(out *os.File) bool {
	return os.Getenv("NO_COLOR") != "" || !term.IsTerminal(int(out.Fd()))
}
