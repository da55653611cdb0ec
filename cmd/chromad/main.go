// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Command chromad starts a Chroma vector-database server with a resolved,
// normalized environment.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/ManuGH/chromad/internal/config"
	"github.com/ManuGH/chromad/internal/version"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) > 0 {
		switch args[0] {
		case "run":
			return runLaunchCLI(args[1:])
		case "version", "--version", "-version":
			printVersion(os.Stdout)
			return 0
		case "config":
			return runConfigCLI(args[1:], os.Stdout, os.Stderr, config.SnapshotOSEnviron())
		case "healthcheck":
			return runHealthcheckCLI(args[1:], os.Stdout, os.Stderr, os.LookupEnv)
		case "storage":
			return runStorageCLI(args[1:], os.Stdout, os.Stderr, os.LookupEnv)
		case "help", "-h", "--help":
			printUsage(os.Stdout)
			return 0
		}
	}
	return runLaunchCLI(args)
}

func printVersion(w io.Writer) {
	_, _ = fmt.Fprintln(w, version.String())
}

func printUsage(w io.Writer) {
	_, _ = fmt.Fprintln(w, "Usage:")
	_, _ = fmt.Fprintln(w, "  chromad [run] [--log-level LEVEL]")
	_, _ = fmt.Fprintln(w, "  chromad config show [--format yaml|text]")
	_, _ = fmt.Fprintln(w, "  chromad config env [--out FILE]")
	_, _ = fmt.Fprintln(w, "  chromad healthcheck [--host HOST] [--port PORT] [--timeout DURATION]")
	_, _ = fmt.Fprintln(w, "  chromad storage verify|stats [--path DIR]")
	_, _ = fmt.Fprintln(w, "  chromad version")
	_, _ = fmt.Fprintln(w, "")
	_, _ = fmt.Fprintln(w, "Environment:")
	_, _ = fmt.Fprintln(w, "  CHROMA_HOST            bind host (default 127.0.0.1)")
	_, _ = fmt.Fprintln(w, "  CHROMA_PORT            bind port (default 8000)")
	_, _ = fmt.Fprintln(w, "  CHROMA_PERSIST_PATH    persistence directory")
	_, _ = fmt.Fprintln(w, "  CHROMA_TELEMETRY       1/true/yes/on enables anonymized telemetry")
	_, _ = fmt.Fprintln(w, "  CHROMAD_PYTHON         interpreter with chromadb and pysqlite3 (default python3)")
	_, _ = fmt.Fprintln(w, "  CHROMAD_MODE           exec (default) or supervise")
}
