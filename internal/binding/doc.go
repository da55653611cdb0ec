// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package binding verifies that the Python interpreter used to run the
// Chroma server can import pysqlite3, the SQLite binding that replaces
// the interpreter's bundled sqlite3 module, and that the SQLite library
// it links is new enough for Chroma.
package binding
