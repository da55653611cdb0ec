// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package launcher

import (
	"errors"
	"io"
	"os"
	"os/exec"
	"strconv"

	"github.com/ManuGH/chromad/internal/config"
	"github.com/ManuGH/chromad/internal/procgroup"
)

var (
	// ErrNoInterpreter is returned when the Launcher has no interpreter path.
	ErrNoInterpreter = errors.New("launcher: interpreter path is required")

	// ErrExecUnsupported is returned by Exec on platforms without execve.
	ErrExecUnsupported = errors.New("launcher: exec mode is not supported on this platform")
)

// Launcher starts the Chroma server with a resolved interpreter and settings.
type Launcher struct {
	Interpreter string
	Settings    config.Settings
	// Env is the complete server environment as KEY=value pairs.
	Env []string

	Stdout io.Writer
	Stderr io.Writer
}

// New returns a Launcher that passes env to the server and inherits the
// launcher's stdout and stderr.
func New(interpreter string, s config.Settings, env []string) *Launcher {
	return &Launcher{
		Interpreter: interpreter,
		Settings:    s,
		Env:         env,
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
	}
}

// Argv returns the full argument vector, argv[0] included.
func (l *Launcher) Argv() []string {
	logLevel := l.Settings.Launcher.LogLevel
	if logLevel == "" {
		logLevel = config.DefaultLogLevel
	}
	return []string{
		l.Interpreter,
		"-c", Bootstrap,
		l.Settings.Host,
		strconv.Itoa(l.Settings.Port),
		logLevel,
	}
}

// Command returns an unstarted command for the server in its own process group.
func (l *Launcher) Command() (*exec.Cmd, error) {
	if l.Interpreter == "" {
		return nil, ErrNoInterpreter
	}
	argv := l.Argv()
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Env = l.Env
	cmd.Stdout = l.Stdout
	cmd.Stderr = l.Stderr
	procgroup.Set(cmd)
	return cmd, nil
}

// Exec replaces the current process with the server. It only returns on failure.
func (l *Launcher) Exec() error {
	if l.Interpreter == "" {
		return ErrNoInterpreter
	}
	return execve(l.Interpreter, l.Argv(), l.Env)
}
