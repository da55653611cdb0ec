// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package sqlite

import (
	"database/sql"
	"fmt"
	"net/url"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go driver
)

// DatabaseName is the file Chroma creates inside its persistence directory.
const DatabaseName = "chroma.sqlite3"

// DatabaseFile returns the Chroma database path inside dir.
func DatabaseFile(dir string) string {
	return filepath.Join(dir, DatabaseName)
}

// fileURI builds an absolute file: URI for dbPath. The path is
// percent-encoded so '?', '#' and '%' in directory names stay part of it.
func fileURI(dbPath, rawQuery string) string {
	if abs, err := filepath.Abs(dbPath); err == nil {
		dbPath = abs
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(dbPath), RawQuery: rawQuery}
	return u.String()
}

func readOnlyDSN(dbPath string, busyTimeout time.Duration) string {
	return fileURI(dbPath, fmt.Sprintf("mode=ro&_pragma=busy_timeout(%d)", busyTimeout.Milliseconds()))
}

// OpenReadOnly opens dbPath without write access on a single connection.
func OpenReadOnly(dbPath string, busyTimeout time.Duration) (*sql.DB, error) {
	db, err := sql.Open("sqlite", readOnlyDSN(dbPath, busyTimeout))
	if err != nil {
		return nil, fmt.Errorf("sqlite: open failed: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: ping failed: %w", err)
	}
	return db, nil
}
