// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package daemon

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sync/atomic"
	"time"

	"github.com/ManuGH/chromad/internal/launcher"
	"github.com/ManuGH/chromad/internal/log"
	"github.com/ManuGH/chromad/internal/metrics"
	"github.com/ManuGH/chromad/internal/procgroup"
	"github.com/rs/zerolog"
)

// Supervisor runs the server as a child process and restarts it after
// unexpected exits.
type Supervisor struct {
	factory CommandFactory
	cfg     SupervisorConfig
	logger  zerolog.Logger

	running  atomic.Bool
	restarts atomic.Int64
}

// NewSupervisor creates a Supervisor.
func NewSupervisor(factory CommandFactory, cfg SupervisorConfig, logger zerolog.Logger) (*Supervisor, error) {
	if factory == nil {
		return nil, ErrMissingLauncher
	}
	return &Supervisor{
		factory: factory,
		cfg:     cfg,
		logger:  logger.With().Str(log.FieldComponent, "supervisor").Logger(),
	}, nil
}

// Running reports whether a server process is currently alive.
func (s *Supervisor) Running() bool {
	return s.running.Load()
}

// Restarts reports how many restarts have been performed.
func (s *Supervisor) Restarts() int {
	return int(s.restarts.Load())
}

// Run blocks until the server exits cleanly, the restart budget is spent,
// or ctx is cancelled. Cancellation terminates the server and returns nil.
func (s *Supervisor) Run(ctx context.Context) error {
	for {
		cmd, waitCh, err := s.start()
		if err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			s.logger.Info().
				Str(log.FieldEvent, "server.stopping").
				Int(log.FieldPID, cmd.Process.Pid).
				Dur("grace", s.cfg.ShutdownGrace).
				Msg("stopping server")
			err := procgroup.Terminate(cmd, waitCh, s.cfg.ShutdownGrace)
			s.markStopped()
			s.logger.Info().
				Str(log.FieldEvent, "server.stopped").
				Int(log.FieldExitCode, exitCode(err)).
				Msg("server stopped")
			return nil

		case err := <-waitCh:
			s.markStopped()
			if err == nil {
				metrics.IncServerExit("clean")
				s.logger.Info().Str(log.FieldEvent, "server.exited").Msg("server exited cleanly")
				return nil
			}

			code := exitCode(err)
			metrics.IncServerExit(exitResult(err))
			s.logger.Error().
				Err(err).
				Str(log.FieldEvent, "server.crashed").
				Int(log.FieldExitCode, code).
				Int("restarts", s.Restarts()).
				Msg("server exited unexpectedly")

			if code == launcher.ExitBindingMissing {
				return &ExitError{Code: code, Restarts: s.Restarts(), Err: ErrBindingMissing}
			}
			if s.Restarts() >= s.cfg.MaxRestarts {
				return &ExitError{Code: code, Restarts: s.Restarts(), Err: ErrRestartsExhausted}
			}

			if !s.sleep(ctx) {
				return nil
			}
			s.restarts.Add(1)
			metrics.ServerRestarts.Inc()
			s.logger.Warn().
				Str(log.FieldEvent, "server.restart").
				Int(log.FieldAttempt, s.Restarts()).
				Int("max_restarts", s.cfg.MaxRestarts).
				Msg("restarting server")
		}
	}
}

func (s *Supervisor) start() (*exec.Cmd, <-chan error, error) {
	cmd, err := s.factory.Command()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrServerStartFailed, err)
	}
	if err := cmd.Start(); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrServerStartFailed, err)
	}

	waitCh := make(chan error, 1)
	go func() { waitCh <- cmd.Wait() }()

	s.running.Store(true)
	metrics.ServerStarts.Inc()
	metrics.ServerUp.Set(1)
	s.logger.Info().
		Str(log.FieldEvent, "server.started").
		Int(log.FieldPID, cmd.Process.Pid).
		Msg("server process started")
	return cmd, waitCh, nil
}

func (s *Supervisor) markStopped() {
	s.running.Store(false)
	metrics.ServerUp.Set(0)
}

// sleep waits RestartDelay; false means ctx was cancelled first.
func (s *Supervisor) sleep(ctx context.Context) bool {
	if s.cfg.RestartDelay <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(s.cfg.RestartDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

func exitResult(err error) string {
	if exitCode(err) == -1 {
		return "signaled"
	}
	return "error"
}
