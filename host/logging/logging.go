// Package logging builds the structured JSON logger used by the host tools
package logging

import (
	"errors"
	"io"
	"strings"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// ErrUnknownLevel is returned by ParseLevel for unrecognised names
var ErrUnknownLevel = errors.New("logging: unknown level")

// Logger is the generic logiface logger handed to host components
type Logger = logiface.Logger[logiface.Event]

// New returns a stumpy-backed logger writing one JSON object per line to w
func New(w io.Writer, level logiface.Level) *Logger {
	return stumpy.L.New(
		stumpy.L.WithStumpy(stumpy.WithWriter(w)),
		stumpy.L.WithLevel(level),
	).Logger()
}

// Discard returns a logger that drops everything
func Discard() *Logger {
	return New(io.Discard, logiface.LevelDisabled)
}

// ParseLevel accepts the syslog keywords printed by logiface.Level.String,
// plus the common aliases "warn", "error" and "off"
func ParseLevel(s string) (logiface.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off", "disabled", "none":
		return logiface.LevelDisabled, nil
	case "emerg":
		return logiface.LevelEmergency, nil
	case "alert":
		return logiface.LevelAlert, nil
	case "crit":
		return logiface.LevelCritical, nil
	case "err", "error":
		return logiface.LevelError, nil
	case "warning", "warn":
		return logiface.LevelWarning, nil
	case "notice":
		return logiface.LevelNotice, nil
	case "info", "":
		return logiface.LevelInformational, nil
	case "debug":
		return logiface.LevelDebug, nil
	case "trace":
		return logiface.LevelTrace, nil
	}
	return logiface.LevelDisabled, ErrUnknownLevel
}
