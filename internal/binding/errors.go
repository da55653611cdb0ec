// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package binding

import "errors"

// InstallHint tells the operator how to install the binding.
const InstallHint = "python3 -m pip install --user pysqlite3-binary"

var (
	// ErrInterpreterNotFound is returned when the configured interpreter is not executable.
	ErrInterpreterNotFound = errors.New("python interpreter not found")

	// ErrBindingMissing is returned when pysqlite3 cannot be imported.
	ErrBindingMissing = errors.New("pysqlite3 is not installed; install it to run ChromaDB (" + InstallHint + ")")

	// ErrBindingTooOld is returned when the linked SQLite is older than MinSQLiteVersion.
	ErrBindingTooOld = errors.New("pysqlite3 links an unsupported SQLite version")

	// ErrProbeFailed is returned when the probe could not run to completion.
	ErrProbeFailed = errors.New("binding probe failed")
)
