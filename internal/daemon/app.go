// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package daemon

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ManuGH/chromad/internal/log"
	"github.com/rs/zerolog"
)

const adminShutdownTimeout = 5 * time.Second

// App owns the supervise-mode runtime: the server supervisor and the
// optional admin listener.
type App struct {
	logger       zerolog.Logger
	supervisor   *Supervisor
	adminAddr    string
	adminHandler http.Handler
}

// NewApp creates an App from validated dependencies.
func NewApp(deps Deps) (*App, error) {
	if err := deps.Validate(); err != nil {
		return nil, fmt.Errorf("invalid dependencies: %w", err)
	}
	return &App{
		logger:       deps.Logger.With().Str(log.FieldComponent, "daemon").Logger(),
		supervisor:   deps.Supervisor,
		adminAddr:    deps.AdminAddr,
		adminHandler: deps.AdminHandler,
	}, nil
}

// Run blocks until the supervisor returns or ctx is cancelled. The admin
// listener is bound before the server starts so a bad address fails fast.
func (a *App) Run(ctx context.Context) error {
	var (
		srv *http.Server
		ln  net.Listener
	)
	if a.adminAddr != "" && a.adminHandler != nil {
		var err error
		ln, err = net.Listen("tcp", a.adminAddr)
		if err != nil {
			return fmt.Errorf("admin listen %s: %w", a.adminAddr, err)
		}
		srv = &http.Server{
			Handler:           a.adminHandler,
			ReadHeaderTimeout: 5 * time.Second,
		}
		a.logger.Info().
			Str(log.FieldEvent, "admin.listening").
			Str("addr", ln.Addr().String()).
			Msg("admin listener started")
	}

	g, gctx := errgroup.WithContext(ctx)
	supervisorDone := make(chan struct{})

	g.Go(func() error {
		defer close(supervisorDone)
		return a.supervisor.Run(gctx)
	})

	if srv != nil {
		g.Go(func() error {
			if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("admin server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			select {
			case <-gctx.Done():
			case <-supervisorDone:
			}
			shutdownCtx, cancel := context.WithTimeout(context.Background(), adminShutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				a.logger.Warn().Err(err).Str(log.FieldEvent, "admin.shutdown_failed").Msg("admin shutdown failed")
			}
			return nil
		})
	}

	return g.Wait()
}

