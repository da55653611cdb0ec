// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

//go:build unix

package main

import (
	"bytes"
	"context"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShutdownContext_LogsSignal(t *testing.T) {
	var buf bytes.Buffer
	ctx, stop := shutdownContext(context.Background(), zerolog.New(&buf), syscall.SIGUSR1)
	defer stop()

	require.NoError(t, syscall.Kill(os.Getpid(), syscall.SIGUSR1))

	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("context not cancelled after signal")
	}
	assert.Contains(t, buf.String(), `"signal":"`+syscall.SIGUSR1.String()+`"`)
	assert.Contains(t, buf.String(), `"event":"shutdown.signal"`)
}

func TestShutdownContext_StopWithoutSignal(t *testing.T) {
	var buf bytes.Buffer
	ctx, stop := shutdownContext(context.Background(), zerolog.New(&buf), syscall.SIGUSR2)
	stop()

	<-ctx.Done()
	assert.Empty(t, buf.String())
}
