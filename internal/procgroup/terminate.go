// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package procgroup

import (
	"errors"
	"os"
	"os/exec"
	"syscall"
	"time"

	"github.com/ManuGH/chromad/internal/metrics"
)

// Terminate stops the process group led by cmd: SIGTERM, then SIGKILL if
// waitCh has not produced a result within grace. waitCh must deliver the
// result of cmd.Wait; Terminate always drains it and returns that error.
func Terminate(cmd *exec.Cmd, waitCh <-chan error, grace time.Duration) error {
	if cmd == nil || cmd.Process == nil {
		return nil
	}

	metrics.IncProcTerminate("SIGTERM", signalResult(Signal(cmd, syscall.SIGTERM)))

	timer := time.NewTimer(grace)
	defer timer.Stop()

	select {
	case err := <-waitCh:
		metrics.IncProcWait(waitResult("", err))
		return err
	case <-timer.C:
	}

	metrics.IncProcTerminate("SIGKILL", signalResult(Signal(cmd, syscall.SIGKILL)))

	err := <-waitCh
	metrics.IncProcWait(waitResult("forced_", err))
	return err
}

func signalResult(err error) string {
	switch {
	case err == nil:
		return "sent"
	case errors.Is(err, os.ErrProcessDone), errors.Is(err, syscall.ESRCH):
		return "esrch"
	default:
		return "error"
	}
}

func waitResult(prefix string, err error) string {
	if err == nil {
		return prefix + "exit0"
	}
	return prefix + "error"
}
