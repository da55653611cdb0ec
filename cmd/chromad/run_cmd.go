// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"syscall"
	"time"

	"github.com/ManuGH/chromad/internal/binding"
	"github.com/ManuGH/chromad/internal/config"
	"github.com/ManuGH/chromad/internal/daemon"
	"github.com/ManuGH/chromad/internal/health"
	"github.com/ManuGH/chromad/internal/launcher"
	xglog "github.com/ManuGH/chromad/internal/log"
	"github.com/ManuGH/chromad/internal/rlimit"
	"github.com/ManuGH/chromad/internal/version"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type prober interface {
	Probe(ctx context.Context) (binding.Result, error)
}

// launchDeps holds the side effects of a launch so tests can replace them.
type launchDeps struct {
	env    config.Environ
	stdout io.Writer
	stderr io.Writer

	newProber   func(python string, timeout time.Duration) prober
	raiseNoFile func(want uint64) (rlimit.Result, error)
	exec        func(l *launcher.Launcher) error
	supervise   func(ctx context.Context, s config.Settings, l *launcher.Launcher) int
}

func defaultLaunchDeps() launchDeps {
	return launchDeps{
		env:    config.OSEnviron{},
		stdout: os.Stdout,
		stderr: os.Stderr,
		newProber: func(python string, timeout time.Duration) prober {
			return binding.NewProber(python, timeout)
		},
		raiseNoFile: rlimit.Raise,
		exec:        (*launcher.Launcher).Exec,
		supervise:   superviseServer,
	}
}

func runLaunchCLI(args []string) int {
	return runLaunch(args, defaultLaunchDeps())
}

func runLaunch(args []string, d launchDeps) int {
	fs := flag.NewFlagSet("chromad run", flag.ContinueOnError)
	fs.SetOutput(d.stderr)
	logLevel := fs.String("log-level", "", "launcher log level (default: $LOG_LEVEL or info)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() > 0 {
		_, _ = fmt.Fprintf(d.stderr, "Unknown command: %s\n\n", fs.Arg(0))
		printUsage(d.stderr)
		return 2
	}

	xglog.Configure(xglog.Config{Level: *logLevel, Output: d.stderr, Version: version.Version})

	runID := uuid.NewString()
	ctx := xglog.ContextWithRunID(context.Background(), runID)
	logger := xglog.WithComponentFromContext(ctx, "launcher")

	// The binding check comes first: nothing is configured or printed
	// unless the server can actually start.
	python, probeTimeout := config.ProbeSettings(d.env.LookupEnv)
	res, err := d.newProber(python, probeTimeout).Probe(ctx)
	if err != nil {
		logger.Error().
			Err(err).
			Str(xglog.FieldEvent, "startup.binding_missing").
			Str("python", python).
			Str("hint", binding.InstallHint).
			Msg("embedded-database binding unavailable, not starting ChromaDB")
		_, _ = fmt.Fprintf(d.stderr, "chromad: %v\n", err)
		return 1
	}

	settings, err := config.LoadSettings(d.env.LookupEnv)
	if err != nil {
		logger.Error().Err(err).Str(xglog.FieldEvent, "config.invalid").Msg("invalid configuration")
		_, _ = fmt.Fprintf(d.stderr, "chromad: %v\n", err)
		return 1
	}

	config.WarnRemovedEnvKeys(d.env.LookupEnv)
	changes, err := config.Normalize(d.env, settings)
	if err != nil {
		logger.Error().Err(err).Str(xglog.FieldEvent, "config.normalize_failed").Msg("failed to prepare server environment")
		return 1
	}
	config.LogChanges(changes)

	applyNoFile(logger, d.raiseNoFile, settings.NoFile)

	logger.Info().
		Str(xglog.FieldEvent, "startup").
		Str("commit", version.Commit).
		Str(xglog.FieldHost, settings.Host).
		Int(xglog.FieldPort, settings.Port).
		Str(xglog.FieldPersistPath, settings.PersistPath).
		Str(xglog.FieldMode, string(settings.Launcher.Mode)).
		Bool("telemetry", settings.Telemetry).
		Msg("starting ChromaDB")

	if err := launcher.Banner(d.stdout, settings); err != nil {
		logger.Warn().Err(err).Msg("failed to write startup banner")
	}

	l := launcher.New(res.Interpreter, settings, d.env.Environ())
	l.Stdout = d.stdout
	l.Stderr = d.stderr

	if settings.Launcher.Mode == config.ModeExec {
		err := d.exec(l)
		if !errors.Is(err, launcher.ErrExecUnsupported) {
			logger.Error().Err(err).Str(xglog.FieldEvent, "exec.failed").Msg("failed to hand over to ChromaDB")
			return 1
		}
		logger.Warn().Msg("exec mode unsupported on this platform, supervising instead")
	}

	return d.supervise(ctx, settings, l)
}

func applyNoFile(logger zerolog.Logger, raise func(uint64) (rlimit.Result, error), want int) {
	if raise == nil || want <= 0 {
		return
	}
	res, err := raise(uint64(want))
	if err != nil {
		logger.Warn().Err(err).Int("want", want).Msg("could not raise open-file limit")
		return
	}
	if res.Changed {
		logger.Info().
			Uint64("before", res.Before).
			Uint64("after", res.After).
			Uint64("hard", res.Hard).
			Msg("raised open-file limit")
	}
}

func superviseServer(ctx context.Context, s config.Settings, l *launcher.Launcher) int {
	logger := xglog.WithComponentFromContext(ctx, "daemon")

	ctx, stop := shutdownContext(ctx, logger, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sup, err := daemon.NewSupervisor(l, daemon.SupervisorConfig{
		MaxRestarts:   s.Launcher.MaxRestarts,
		RestartDelay:  s.Launcher.RestartDelay,
		ShutdownGrace: s.Launcher.ShutdownGrace,
	}, logger)
	if err != nil {
		logger.Error().Err(err).Msg("failed to create supervisor")
		return 1
	}

	hm := health.NewManager(version.Version)
	hm.RegisterChecker(health.NewProcessChecker(sup.Running))
	hm.RegisterChecker(health.NewHeartbeatChecker(probeURL(s), 2*time.Second))
	hm.RegisterChecker(health.NewDirChecker("persist_path", s.PersistPath))

	app, err := daemon.NewApp(daemon.Deps{
		Logger:       logger,
		Supervisor:   sup,
		AdminAddr:    s.Launcher.MetricsAddr,
		AdminHandler: daemon.NewAdminRouter(hm),
	})
	if err != nil {
		logger.Error().Err(err).Msg("failed to create daemon app")
		return 1
	}

	if err := app.Run(ctx); err != nil {
		var exitErr *daemon.ExitError
		if errors.As(err, &exitErr) && exitErr.Code > 0 {
			logger.Error().Err(err).Str(xglog.FieldEvent, "daemon.failed").Msg("server supervision ended")
			return exitErr.Code
		}
		logger.Error().Err(err).Str(xglog.FieldEvent, "daemon.failed").Msg("server supervision ended")
		return 1
	}
	logger.Info().Msg("chromad exiting")
	return 0
}

// probeURL is the address local probes use; a wildcard bind host is
// reached through loopback.
func probeURL(s config.Settings) string {
	switch s.Host {
	case "0.0.0.0", "::", "[::]", "":
		s.Host = "127.0.0.1"
	}
	return s.BaseURL()
}
