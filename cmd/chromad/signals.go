// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package main

import (
	"context"
	"os"
	"os/signal"

	xglog "github.com/ManuGH/chromad/internal/log"
	"github.com/rs/zerolog"
)

// shutdownContext returns a context cancelled by the first of sigs and logs
// which signal arrived. The returned stop func releases the signal handler.
func shutdownContext(parent context.Context, logger zerolog.Logger, sigs ...os.Signal) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, sigs...)

	go func() {
		select {
		case sig := <-ch:
			logger.Info().
				Str(xglog.FieldEvent, "shutdown.signal").
				Str(xglog.FieldSignal, sig.String()).
				Msg("received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(ch)
		cancel()
	}
}
