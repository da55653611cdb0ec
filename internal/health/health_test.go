// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticChecker struct {
	name   string
	result CheckResult
}

func (s staticChecker) Name() string                      { return s.name }
func (s staticChecker) Check(context.Context) CheckResult { return s.result }

func TestManagerReady(t *testing.T) {
	tests := []struct {
		name       string
		checks     []CheckResult
		wantReady  bool
		wantStatus Status
	}{
		{name: "no checkers", wantReady: true, wantStatus: StatusHealthy},
		{name: "all healthy", checks: []CheckResult{{Status: StatusHealthy}, {Status: StatusHealthy}}, wantReady: true, wantStatus: StatusHealthy},
		{name: "degraded", checks: []CheckResult{{Status: StatusHealthy}, {Status: StatusDegraded}}, wantReady: true, wantStatus: StatusDegraded},
		{name: "unhealthy wins", checks: []CheckResult{{Status: StatusUnhealthy}, {Status: StatusDegraded}}, wantReady: false, wantStatus: StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManager("test")
			for i, c := range tt.checks {
				m.RegisterChecker(staticChecker{name: string(rune('a' + i)), result: c})
			}
			resp := m.Ready(context.Background())
			assert.Equal(t, tt.wantReady, resp.Ready)
			assert.Equal(t, tt.wantStatus, resp.Status)
			assert.Len(t, resp.Checks, len(tt.checks))
		})
	}
}

func TestServeReady_StatusCodes(t *testing.T) {
	m := NewManager("test")
	m.RegisterChecker(NewProcessChecker(func() bool { return false }))

	rec := httptest.NewRecorder()
	m.ServeReady(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp ReadinessResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.False(t, resp.Ready)
	assert.Equal(t, "not running", resp.Checks["server_process"].Message)

	rec = httptest.NewRecorder()
	m.ServeHealth(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestHeartbeat_V2(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2/heartbeat", r.URL.Path)
		_, _ = w.Write([]byte(`{"nanosecond heartbeat": 1700000000000000000}`))
	}))
	defer srv.Close()

	res, err := Heartbeat(context.Background(), srv.Client(), srv.URL+"/")
	require.NoError(t, err)
	assert.Equal(t, "/api/v2/heartbeat", res.Path)
	assert.Equal(t, int64(1700000000000000000), res.Nanoseconds)
}

func TestHeartbeat_FallsBackToV1(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/heartbeat" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"nanosecond heartbeat": 42}`))
	}))
	defer srv.Close()

	res, err := Heartbeat(context.Background(), srv.Client(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "/api/v1/heartbeat", res.Path)
	assert.Equal(t, int64(42), res.Nanoseconds)
}

func TestHeartbeat_ServerError(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := Heartbeat(context.Background(), srv.Client(), srv.URL)
	assert.ErrorIs(t, err, ErrHeartbeat)
	assert.Equal(t, 1, calls, "5xx must not fall back to v1")
}

func TestHeartbeat_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := Heartbeat(context.Background(), &http.Client{Timeout: time.Second}, url)
	assert.ErrorIs(t, err, ErrHeartbeat)
}

func TestHeartbeatChecker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"nanosecond heartbeat": 1}`))
	}))
	defer srv.Close()

	c := NewHeartbeatChecker(srv.URL, time.Second)
	assert.Equal(t, "chroma_heartbeat", c.Name())
	assert.Equal(t, StatusHealthy, c.Check(context.Background()).Status)
}

func TestDirChecker(t *testing.T) {
	dir := t.TempDir()
	assert.Equal(t, StatusHealthy, NewDirChecker("persist", dir).Check(context.Background()).Status)
	assert.Equal(t, StatusDegraded, NewDirChecker("persist", filepath.Join(dir, "missing")).Check(context.Background()).Status)

	file := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))
	assert.Equal(t, StatusUnhealthy, NewDirChecker("persist", file).Check(context.Background()).Status)
}
