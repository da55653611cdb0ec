// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package health

import (
	"context"
	"net/http"
	"os"
	"time"
)

// HeartbeatChecker reports whether the Chroma server answers its heartbeat.
type HeartbeatChecker struct {
	baseURL string
	client  *http.Client
}

// NewHeartbeatChecker creates a checker against baseURL with a per-check timeout.
func NewHeartbeatChecker(baseURL string, timeout time.Duration) *HeartbeatChecker {
	return &HeartbeatChecker{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *HeartbeatChecker) Name() string { return "chroma_heartbeat" }

func (c *HeartbeatChecker) Check(ctx context.Context) CheckResult {
	res, err := Heartbeat(ctx, c.client, c.baseURL)
	if err != nil {
		return CheckResult{Status: StatusUnhealthy, Error: err.Error()}
	}
	return CheckResult{Status: StatusHealthy, Message: res.Path}
}

// ProcessChecker reports whether the supervised server process is running.
type ProcessChecker struct {
	running func() bool
}

// NewProcessChecker wraps a running predicate.
func NewProcessChecker(running func() bool) *ProcessChecker {
	return &ProcessChecker{running: running}
}

func (c *ProcessChecker) Name() string { return "server_process" }

func (c *ProcessChecker) Check(context.Context) CheckResult {
	if c.running != nil && c.running() {
		return CheckResult{Status: StatusHealthy, Message: "running"}
	}
	return CheckResult{Status: StatusUnhealthy, Message: "not running"}
}

// DirChecker reports whether a directory exists. A missing directory is
// degraded, not unhealthy: the server creates it on first write.
type DirChecker struct {
	name string
	path string
}

// NewDirChecker creates a directory checker.
func NewDirChecker(name, path string) *DirChecker {
	return &DirChecker{name: name, path: path}
}

func (c *DirChecker) Name() string { return c.name }

func (c *DirChecker) Check(context.Context) CheckResult {
	info, err := os.Stat(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return CheckResult{Status: StatusDegraded, Message: "directory does not exist yet", Error: c.path}
		}
		return CheckResult{Status: StatusUnhealthy, Error: err.Error()}
	}
	if !info.IsDir() {
		return CheckResult{Status: StatusUnhealthy, Error: "expected directory, got file"}
	}
	return CheckResult{Status: StatusHealthy, Message: c.path}
}
