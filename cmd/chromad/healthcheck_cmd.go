// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ManuGH/chromad/internal/config"
	"github.com/ManuGH/chromad/internal/health"
)

func runHealthcheckCLI(args []string, stdout, stderr io.Writer, lookup config.LookupFunc) int {
	fs := flag.NewFlagSet("chromad healthcheck", flag.ContinueOnError)
	fs.SetOutput(stderr)

	settings, err := config.LoadSettings(lookup)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	host := fs.String("host", settings.Host, "Chroma host to check")
	port := fs.Int("port", settings.Port, "Chroma port to check")
	timeout := fs.Duration("timeout", 5*time.Second, "check timeout")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	settings.Host = *host
	settings.Port = *port
	baseURL := probeURL(settings)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	res, err := health.Heartbeat(ctx, &http.Client{Timeout: *timeout}, baseURL)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Healthcheck failed: %v\n", err)
		return 1
	}

	_, _ = fmt.Fprintf(stdout, "Healthcheck successful (%s%s)\n", baseURL, res.Path)
	return 0
}
