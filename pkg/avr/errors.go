// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 the avrctl authors

package avr

import (
	"errors"
	"fmt"
)

var (
	// ErrDisconnected is returned when the connection to the receiver has
	// been lost, or was never established.
	ErrDisconnected = errors.New("avr: disconnected")

	// ErrTimeout is returned when the receiver did not confirm a command
	// within the configured timeout.
	ErrTimeout = errors.New("avr: response timed out")

	// ErrNotReported is returned by typed accessors for fields the
	// receiver has not reported yet. It is not a decode failure; a
	// Refresh (or any command touching the field) clears it.
	ErrNotReported = errors.New("avr: state not yet reported")
)

// UnknownTokenError is returned when a cached payload does not map to any
// value of the field's vocabulary. The raw token is kept so protocol drift
// shows up in diagnostics instead of being masked by a default.
type UnknownTokenError struct {
	Field string // data field key, e.g. "SI"
	Token string // the unrecognized wire token
}

func (e *UnknownTokenError) Error() string {
	return fmt.Sprintf("avr: unknown %s token %q", e.Field, e.Token)
}
