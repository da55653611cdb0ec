// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ManuGH/chromad/internal/config"
	xglog "github.com/ManuGH/chromad/internal/log"
	"github.com/ManuGH/chromad/internal/persistence/sqlite"
	"github.com/ManuGH/chromad/internal/version"
)

func runStorageCLI(args []string, stdout, stderr io.Writer, lookup config.LookupFunc) int {
	xglog.Configure(xglog.Config{Output: stderr, Version: version.Version})

	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		printStorageUsage(stdout)
		return 0
	}

	switch args[0] {
	case "verify":
		return runStorageVerify(args[1:], stdout, stderr, lookup)
	case "stats":
		return runStorageStats(args[1:], stdout, stderr, lookup)
	default:
		_, _ = fmt.Fprintf(stderr, "Unknown subcommand: %s\n\n", args[0])
		printStorageUsage(stderr)
		return 2
	}
}

func printStorageUsage(w io.Writer) {
	_, _ = fmt.Fprintln(w, "Usage:")
	_, _ = fmt.Fprintln(w, "  chromad storage verify [--path PATH] [--mode quick|full]")
	_, _ = fmt.Fprintln(w, "  chromad storage stats [--path PATH]")
	_, _ = fmt.Fprintln(w, "")
	_, _ = fmt.Fprintln(w, "Flags:")
	_, _ = fmt.Fprintln(w, "  --path string  Persistence directory or database file (default: $CHROMA_PERSIST_PATH)")
	_, _ = fmt.Fprintln(w, "  --mode string  Verification mode: quick (default) or full")
	_, _ = fmt.Fprintln(w, "")
	_, _ = fmt.Fprintln(w, "Subcommands:")
	_, _ = fmt.Fprintln(w, "  verify    Check database integrity")
	_, _ = fmt.Fprintln(w, "  stats     Print per-table row counts")
}

// resolveDBPath accepts a persistence directory or a database file. An
// empty path falls back to the configured persistence directory.
func resolveDBPath(path string, lookup config.LookupFunc) (string, error) {
	if path == "" {
		settings, err := config.LoadSettings(lookup)
		if err != nil {
			return "", err
		}
		path = settings.PersistPath
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return sqlite.DatabaseFile(path), nil
	}
	return path, nil
}

func runStorageVerify(args []string, stdout, stderr io.Writer, lookup config.LookupFunc) int {
	fs := flag.NewFlagSet("chromad storage verify", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var path, mode string
	fs.StringVar(&path, "path", "", "Persistence directory or database file")
	fs.StringVar(&mode, "mode", "quick", "Verification mode: quick or full")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	mode = strings.ToLower(strings.TrimSpace(mode))
	if mode != "quick" && mode != "full" {
		_, _ = fmt.Fprintf(stderr, "Error: invalid mode %q. Use 'quick' or 'full'.\n", mode)
		return 2
	}

	dbPath, err := resolveDBPath(path, lookup)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	logger := xglog.WithComponent("storage")
	logger.Info().
		Str(xglog.FieldEvent, "storage.verify").
		Str(xglog.FieldPath, dbPath).
		Str(xglog.FieldMode, mode).
		Msg("verifying database integrity")

	issues, err := sqlite.VerifyIntegrity(dbPath, mode)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Verification failed: %v\n", err)
		return 1
	}
	if issues != nil {
		logger.Error().
			Str(xglog.FieldEvent, "storage.corrupt").
			Str(xglog.FieldPath, dbPath).
			Strs("issues", issues).
			Msg("integrity check found corruption")
		_, _ = fmt.Fprintln(stderr, "CORRUPTION DETECTED")
		for _, issue := range issues {
			_, _ = fmt.Fprintf(stderr, "  - %s\n", issue)
		}
		return 1
	}

	_, _ = fmt.Fprintln(stdout, "Integrity verified: ok")
	return 0
}

func runStorageStats(args []string, stdout, stderr io.Writer, lookup config.LookupFunc) int {
	fs := flag.NewFlagSet("chromad storage stats", flag.ContinueOnError)
	fs.SetOutput(stderr)
	path := fs.String("path", "", "Persistence directory or database file")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	dbPath, err := resolveDBPath(*path, lookup)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	st, err := sqlite.CollectStats(dbPath)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	logger := xglog.WithComponent("storage")
	logger.Debug().
		Str(xglog.FieldEvent, "storage.stats").
		Str(xglog.FieldPath, dbPath).
		Int("tables", len(st.Tables)).
		Msg("collected database stats")

	_, _ = fmt.Fprintf(stdout, "%s (%d bytes)\n", st.Path, st.SizeBytes)
	for _, t := range st.Tables {
		_, _ = fmt.Fprintf(stdout, "  %-40s %d\n", t.Name, t.Rows)
	}
	return 0
}
