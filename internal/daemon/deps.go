// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package daemon

import (
	"net/http"
	"os/exec"
	"time"

	"github.com/rs/zerolog"
)

// CommandFactory builds a fresh, unstarted server command for every attempt.
type CommandFactory interface {
	Command() (*exec.Cmd, error)
}

// SupervisorConfig is the restart policy.
type SupervisorConfig struct {
	MaxRestarts   int
	RestartDelay  time.Duration
	ShutdownGrace time.Duration
}

// Deps bundles what App needs.
type Deps struct {
	Logger     zerolog.Logger
	Supervisor *Supervisor
	// AdminAddr enables the admin listener when non-empty.
	AdminAddr string
	// AdminHandler serves /metrics, /healthz and /readyz.
	AdminHandler http.Handler
}

// Validate checks required dependencies.
func (d Deps) Validate() error {
	if d.Supervisor == nil {
		return ErrMissingSupervisor
	}
	return nil
}
