// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package procgroup starts the server in its own process group so that
// uvicorn workers and any helper processes are signalled together.
package procgroup

import (
	"errors"
	"os/exec"
	"syscall"
)

// ErrNotStarted is returned when signalling a command that has no process.
var ErrNotStarted = errors.New("procgroup: command not started")

// Set configures cmd to start as the leader of a new process group.
// Signal only reaches children when cmd was started after Set.
func Set(cmd *exec.Cmd) {
	set(cmd)
}

// Signal delivers sig to the process group led by cmd. A group that has
// already exited is not an error.
func Signal(cmd *exec.Cmd, sig syscall.Signal) error {
	if cmd == nil || cmd.Process == nil {
		return ErrNotStarted
	}
	return signal(cmd, sig)
}
