// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/ManuGH/chromad/internal/config"
	"github.com/google/renameio/v2"
	"gopkg.in/yaml.v3"
)

// configReport is what `chromad config show` renders.
type configReport struct {
	Settings config.Settings `yaml:"settings"`
	Changes  []config.Change `yaml:"changes"`
	Removed  []string        `yaml:"removed_keys,omitempty"`
}

// runConfigCLI works on env without touching the process environment; the
// caller passes a snapshot.
func runConfigCLI(args []string, stdout, stderr io.Writer, env config.Environ) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		printConfigUsage(stdout)
		return 0
	}

	switch args[0] {
	case "show":
		return runConfigShow(args[1:], stdout, stderr, env)
	case "env":
		return runConfigEnv(args[1:], stdout, stderr, env)
	default:
		_, _ = fmt.Fprintf(stderr, "Unknown subcommand: %s\n\n", args[0])
		printConfigUsage(stderr)
		return 2
	}
}

func printConfigUsage(w io.Writer) {
	_, _ = fmt.Fprintln(w, "Usage:")
	_, _ = fmt.Fprintln(w, "  chromad config show [--format yaml|text]")
	_, _ = fmt.Fprintln(w, "  chromad config env [--out FILE]")
	_, _ = fmt.Fprintln(w, "")
	_, _ = fmt.Fprintln(w, "Subcommands:")
	_, _ = fmt.Fprintln(w, "  show    Print resolved settings and the environment changes a launch would make")
	_, _ = fmt.Fprintln(w, "  env     Print the normalized server environment as KEY=value lines")
}

func buildConfigReport(env config.Environ) (configReport, error) {
	settings, err := config.LoadSettings(env.LookupEnv)
	if err != nil {
		return configReport{}, err
	}
	report := configReport{Settings: settings}
	for _, k := range config.FindActiveRemovedEnvKeys(env.LookupEnv) {
		report.Removed = append(report.Removed, k.Key)
	}
	report.Changes, err = config.Normalize(env, settings)
	if err != nil {
		return configReport{}, err
	}
	return report, nil
}

func runConfigShow(args []string, stdout, stderr io.Writer, env config.Environ) int {
	fs := flag.NewFlagSet("chromad config show", flag.ContinueOnError)
	fs.SetOutput(stderr)
	format := fs.String("format", "yaml", "output format: yaml or text")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	report, err := buildConfigReport(env)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	switch strings.ToLower(strings.TrimSpace(*format)) {
	case "yaml", "yml":
		enc := yaml.NewEncoder(stdout)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			_, _ = fmt.Fprintf(stderr, "Error: encode yaml: %v\n", err)
			return 1
		}
		if err := enc.Close(); err != nil {
			_, _ = fmt.Fprintf(stderr, "Error: encode yaml: %v\n", err)
			return 1
		}
	case "text":
		writeConfigText(stdout, report)
	default:
		_, _ = fmt.Fprintf(stderr, "Unsupported format: %s (use yaml or text)\n", *format)
		return 2
	}
	return 0
}

func writeConfigText(w io.Writer, r configReport) {
	s := r.Settings
	_, _ = fmt.Fprintf(w, "host:          %s\n", s.Host)
	_, _ = fmt.Fprintf(w, "port:          %d\n", s.Port)
	_, _ = fmt.Fprintf(w, "persist_path:  %s\n", s.PersistPath)
	_, _ = fmt.Fprintf(w, "telemetry:     %t\n", s.Telemetry)
	_, _ = fmt.Fprintf(w, "mode:          %s\n", s.Launcher.Mode)
	_, _ = fmt.Fprintf(w, "python:        %s\n", s.Launcher.Python)
	if len(r.Changes) == 0 {
		_, _ = fmt.Fprintln(w, "changes:       none")
		return
	}
	_, _ = fmt.Fprintln(w, "changes:")
	for _, c := range r.Changes {
		if c.Action == config.ActionUnset {
			_, _ = fmt.Fprintf(w, "  unset %s\n", c.Key)
			continue
		}
		_, _ = fmt.Fprintf(w, "  set   %s=%s\n", c.Key, c.Value)
	}
}

func runConfigEnv(args []string, stdout, stderr io.Writer, env config.Environ) int {
	fs := flag.NewFlagSet("chromad config env", flag.ContinueOnError)
	fs.SetOutput(stderr)
	out := fs.String("out", "", "write to FILE atomically instead of stdout")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if _, err := buildConfigReport(env); err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if *out == "" {
		var buf strings.Builder
		if err := writeEnvFile(&buf, env); err != nil {
			_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		_, _ = io.WriteString(stdout, buf.String())
		return 0
	}
	if err := writeEnvFileAtomic(*out, env); err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintf(stderr, "wrote %s\n", *out)
	return 0
}

// writeEnvFile renders the managed keys of a normalized env. CHROMA_HOST,
// CHROMA_PORT and CHROMA_PERSIST_PATH are only written when set, the
// launcher resolves their defaults itself.
func writeEnvFile(w io.Writer, env config.Environ) error {
	for _, key := range config.ManagedKeys {
		v, ok := env.LookupEnv(key)
		if !ok {
			continue
		}
		quoted, err := quoteEnvValue(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		if _, err := fmt.Fprintf(w, "%s=%s\n", key, quoted); err != nil {
			return err
		}
	}
	return nil
}

// errUnquotableValue is returned for values an env file cannot carry on one line.
var errUnquotableValue = errors.New("value contains a line break or NUL")

// quoteEnvValue leaves plain values bare and double-quotes the rest.
// Inside double quotes systemd EnvironmentFile and POSIX shells both treat
// backslash as an escape only before '"', '\\', '`' and '$'.
func quoteEnvValue(v string) (string, error) {
	if strings.ContainsAny(v, "\n\r\x00") {
		return "", errUnquotableValue
	}
	if !strings.ContainsFunc(v, needsQuoting) {
		return v, nil
	}
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range v {
		switch r {
		case '"', '\\', '`', '$':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('"')
	return b.String(), nil
}

func needsQuoting(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return false
	case strings.ContainsRune("/._-:,+@%=", r):
		return false
	default:
		return true
	}
}

func writeEnvFileAtomic(path string, env config.Environ) error {
	if path == "" {
		return errors.New("output path is empty")
	}
	pf, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o640))
	if err != nil {
		return fmt.Errorf("create pending env file: %w", err)
	}
	defer func() { _ = pf.Cleanup() }()

	if err := writeEnvFile(pf, env); err != nil {
		return err
	}

	if err := pf.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace env file: %w", err)
	}
	return nil
}

