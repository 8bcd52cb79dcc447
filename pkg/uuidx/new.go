// Package uuidx generates the time-ordered identifiers used for invocations.
package uuidx

import "github.com/google/uuid"

// New returns a fresh v7 UUID. v7 ids sort by creation time, which keeps
// history scans and log correlation cheap. Panics when generation fails.
func New() uuid.UUID {
	return uuid.Must(uuid.NewV7())
}

// NewString returns a fresh v7 UUID in string form.
func NewString() string {
	return New().String()
}
