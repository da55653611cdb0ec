// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package sqlite

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// ErrNoDatabase is returned when the database file does not exist.
var ErrNoDatabase = errors.New("sqlite: database file not found")

// VerifyIntegrity checks dbPath for structural corruption. Mode is "quick"
// (PRAGMA quick_check) or "full" (PRAGMA integrity_check). It returns the
// diagnostic rows when corruption is found and nil when healthy.
func VerifyIntegrity(dbPath string, mode string) ([]string, error) {
	if _, err := os.Stat(dbPath); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoDatabase, dbPath)
		}
		return nil, err
	}

	db, err := OpenReadOnly(dbPath, 2*time.Second)
	if err != nil {
		return nil, fmt.Errorf("failed to open database for verification: %w", err)
	}
	defer db.Close()

	pragma := "PRAGMA quick_check;"
	if mode == "full" {
		pragma = "PRAGMA integrity_check;"
	}

	rows, err := db.Query(pragma)
	if err != nil {
		return nil, fmt.Errorf("integrity pragma failed: %w", err)
	}
	defer rows.Close()

	var results []string
	for rows.Next() {
		var res string
		if err := rows.Scan(&res); err != nil {
			return nil, fmt.Errorf("failed to scan integrity result row: %w", err)
		}
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("integrity pragma failed: %w", err)
	}

	// Healthy is exactly one row reading "ok".
	if len(results) == 1 && strings.EqualFold(results[0], "ok") {
		return nil, nil
	}
	if len(results) == 0 {
		return []string{"no results returned from integrity check"}, nil
	}
	return results, nil
}
