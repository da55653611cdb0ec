// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package daemon

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingLauncher is returned when the supervisor has no command factory.
	ErrMissingLauncher = errors.New("launcher is required")

	// ErrMissingSupervisor is returned when an App is created without a supervisor.
	ErrMissingSupervisor = errors.New("supervisor is required")

	// ErrServerStartFailed is returned when the server process cannot be started.
	ErrServerStartFailed = errors.New("server failed to start")

	// ErrRestartsExhausted is returned when the server keeps failing after MaxRestarts restarts.
	ErrRestartsExhausted = errors.New("server restarts exhausted")

	// ErrBindingMissing is returned when the server reports a missing pysqlite3 at start.
	// Restarting cannot fix this, so the supervisor stops immediately.
	ErrBindingMissing = errors.New("server exited: embedded-database binding missing")
)

// ExitError carries the last server exit code out of the supervisor.
type ExitError struct {
	Code     int
	Restarts int
	Err      error
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%v (exit code %d after %d restarts)", e.Err, e.Code, e.Restarts)
}

func (e *ExitError) Unwrap() error { return e.Err }
