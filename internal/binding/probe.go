// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package binding

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/ManuGH/chromad/internal/log"
	"github.com/ManuGH/chromad/internal/metrics"
	"golang.org/x/mod/semver"
)

// MinSQLiteVersion is the oldest SQLite Chroma accepts.
const MinSQLiteVersion = "3.35.0"

// ModuleName is the Python module the probe imports.
const ModuleName = "pysqlite3"

// exitMissing is the probe script's exit status when the import fails.
const exitMissing = 3

// probeScript prints the SQLite version linked by pysqlite3, or exits with
// exitMissing when the module cannot be imported.
const probeScript = `import sys
try:
    import pysqlite3
except ImportError:
    sys.exit(3)
sys.stdout.write(pysqlite3.sqlite_version)
`

// Runner runs a command and returns its standard output.
type Runner interface {
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Output runs name with args; stderr is attached to *exec.ExitError.
func (ExecRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.WaitDelay = time.Second
	return cmd.Output()
}

// Result describes a successful probe.
type Result struct {
	Interpreter   string // absolute interpreter path
	Module        string
	SQLiteVersion string
}

// Prober checks the binding through a Python interpreter.
type Prober struct {
	Python   string
	Timeout  time.Duration
	Runner   Runner
	LookPath func(file string) (string, error)
}

// NewProber returns a Prober that runs python through os/exec.
func NewProber(python string, timeout time.Duration) *Prober {
	return &Prober{
		Python:   python,
		Timeout:  timeout,
		Runner:   ExecRunner{},
		LookPath: exec.LookPath,
	}
}

// Probe resolves the interpreter, imports the binding and checks the SQLite version.
func (p *Prober) Probe(ctx context.Context) (Result, error) {
	start := time.Now()
	res, err := p.probe(ctx)
	metrics.ObserveBindingProbe(resultLabel(err), time.Since(start).Seconds())

	logger := log.WithComponentFromContext(ctx, "binding")
	if err != nil {
		logger.Debug().Err(err).Str("python", p.Python).Msg("binding probe failed")
		return Result{}, err
	}
	logger.Info().
		Str(log.FieldEvent, "binding.ok").
		Str("python", res.Interpreter).
		Str("module", res.Module).
		Str("sqlite_version", res.SQLiteVersion).
		Msg("embedded-database binding available")
	return res, nil
}

func (p *Prober) probe(ctx context.Context) (Result, error) {
	python := strings.TrimSpace(p.Python)
	if python == "" {
		return Result{}, fmt.Errorf("%w: empty interpreter name", ErrInterpreterNotFound)
	}

	lookPath := p.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	interpreter, err := lookPath(python)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %s: %v", ErrInterpreterNotFound, python, err)
	}

	runner := p.Runner
	if runner == nil {
		runner = ExecRunner{}
	}

	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	out, err := runner.Output(ctx, interpreter, "-c", probeScript)
	if err != nil {
		var coded interface{ ExitCode() int }
		if errors.As(err, &coded) && coded.ExitCode() == exitMissing {
			return Result{}, ErrBindingMissing
		}
		if ctx.Err() != nil {
			return Result{}, fmt.Errorf("%w: %v", ErrProbeFailed, ctx.Err())
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return Result{}, fmt.Errorf("%w: %v: %s", ErrProbeFailed, err, bytes.TrimSpace(exitErr.Stderr))
		}
		return Result{}, fmt.Errorf("%w: %v", ErrProbeFailed, err)
	}

	version := strings.TrimSpace(string(out))
	if err := CheckSQLiteVersion(version); err != nil {
		return Result{}, err
	}

	return Result{
		Interpreter:   interpreter,
		Module:        ModuleName,
		SQLiteVersion: version,
	}, nil
}

// CheckSQLiteVersion reports whether version (e.g. "3.45.1") meets MinSQLiteVersion.
func CheckSQLiteVersion(version string) error {
	v := "v" + version
	if !semver.IsValid(v) {
		return fmt.Errorf("%w: unparsable SQLite version %q", ErrProbeFailed, version)
	}
	if semver.Compare(v, "v"+MinSQLiteVersion) < 0 {
		return fmt.Errorf("%w: have %s, need >= %s", ErrBindingTooOld, version, MinSQLiteVersion)
	}
	return nil
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrBindingMissing):
		return "missing"
	case errors.Is(err, ErrInterpreterNotFound):
		return "no_interpreter"
	case errors.Is(err, ErrBindingTooOld):
		return "too_old"
	default:
		return "error"
	}
}
