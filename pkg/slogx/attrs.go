// Package slogx provides shared slog attribute helpers.
package slogx

import (
	"fmt"
	"log/slog"
)

// Error returns an attribute with key "error" and the error's message.
func Error(err error) slog.Attr {
	return slog.String("error", err.Error())
}

// Stringer returns an attribute holding the string form of the value.
func Stringer(key string, value fmt.Stringer) slog.Attr {
	return slog.String(key, value.String())
}

// KeyLoggerName is the attribute key identifying the emitting component.
const KeyLoggerName = "logger"

// LoggerName returns an attribute naming the emitting component.
func LoggerName(name string) slog.Attr {
	return slog.String(KeyLoggerName, name)
}
