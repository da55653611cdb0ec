// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldRunID     = "run_id"
	FieldEvent     = "event"
	FieldComponent = "component"

	// Server fields
	FieldHost        = "host"
	FieldPort        = "port"
	FieldPersistPath = "persist_path"
	FieldMode        = "mode"

	// Process fields
	FieldPID      = "pid"
	FieldSignal   = "signal"
	FieldExitCode = "exit_code"
	FieldAttempt  = "attempt"

	// Environment fields
	FieldKey    = "key"
	FieldAction = "action"
	FieldPath   = "path"
)
