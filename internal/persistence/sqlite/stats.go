// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package sqlite

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// TableStat is the row count of one table.
type TableStat struct {
	Name string `yaml:"name"`
	Rows int64  `yaml:"rows"`
}

// Stats summarizes a Chroma database.
type Stats struct {
	Path      string      `yaml:"path"`
	SizeBytes int64       `yaml:"size_bytes"`
	Tables    []TableStat `yaml:"tables"`
}

// Rows returns the row count for table, or -1 when the table is absent.
func (s Stats) Rows(table string) int64 {
	for _, t := range s.Tables {
		if t.Name == table {
			return t.Rows
		}
	}
	return -1
}

// CollectStats counts rows in every user table of dbPath, read-only.
// Chroma's schema varies across releases, so tables are discovered from
// sqlite_master rather than assumed.
func CollectStats(dbPath string) (Stats, error) {
	info, err := os.Stat(dbPath)
	if err != nil {
		if os.IsNotExist(err) {
			return Stats{}, fmt.Errorf("%w: %s", ErrNoDatabase, dbPath)
		}
		return Stats{}, err
	}

	db, err := OpenReadOnly(dbPath, 2*time.Second)
	if err != nil {
		return Stats{}, err
	}
	defer db.Close()

	rows, err := db.Query(`SELECT name FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name`)
	if err != nil {
		return Stats{}, fmt.Errorf("list tables: %w", err)
	}
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return Stats{}, fmt.Errorf("scan table name: %w", err)
		}
		names = append(names, name)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return Stats{}, fmt.Errorf("list tables: %w", err)
	}

	st := Stats{Path: dbPath, SizeBytes: info.Size(), Tables: make([]TableStat, 0, len(names))}
	for _, name := range names {
		var n int64
		q := fmt.Sprintf(`SELECT COUNT(*) FROM "%s"`, strings.ReplaceAll(name, `"`, `""`))
		if err := db.QueryRow(q).Scan(&n); err != nil {
			// FTS shadow and virtual tables may need modules the driver lacks.
			continue
		}
		st.Tables = append(st.Tables, TableStat{Name: name, Rows: n})
	}
	return st, nil
}
