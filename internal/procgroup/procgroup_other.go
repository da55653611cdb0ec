// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

//go:build js || wasip1

package procgroup

import (
	"os/exec"
	"syscall"
)

func set(*exec.Cmd) {}

func signal(cmd *exec.Cmd, sig syscall.Signal) error {
	if sig == syscall.SIGKILL {
		return cmd.Process.Kill()
	}
	return nil
}
