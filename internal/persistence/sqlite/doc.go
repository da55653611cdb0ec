// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package sqlite inspects the SQLite database Chroma keeps in its
// persistence directory. It never writes to a live server database:
// Verify and Stats open it read-only.
package sqlite
