// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package main

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/ManuGH/chromad/internal/binding"
	"github.com/ManuGH/chromad/internal/config"
	"github.com/ManuGH/chromad/internal/launcher"
	"github.com/ManuGH/chromad/internal/rlimit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProber struct {
	res binding.Result
	err error
}

func (p stubProber) Probe(context.Context) (binding.Result, error) { return p.res, p.err }

type launchRecorder struct {
	python    string
	execd     *launcher.Launcher
	execErr   error
	supervise *launcher.Launcher
	code      int
	raised    uint64
}

func newTestDeps(env *config.MapEnviron, p prober, rec *launchRecorder) (launchDeps, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	return launchDeps{
		env:    env,
		stdout: &stdout,
		stderr: &stderr,
		newProber: func(python string, _ time.Duration) prober {
			rec.python = python
			return p
		},
		raiseNoFile: func(want uint64) (rlimit.Result, error) {
			rec.raised = want
			return rlimit.Result{Before: 1024, After: want, Hard: want, Changed: true}, nil
		},
		exec: func(l *launcher.Launcher) error {
			rec.execd = l
			return rec.execErr
		},
		supervise: func(_ context.Context, _ config.Settings, l *launcher.Launcher) int {
			rec.supervise = l
			return rec.code
		},
	}, &stdout, &stderr
}

var probeOK = stubProber{res: binding.Result{Interpreter: "/usr/bin/python3", Module: binding.ModuleName, SQLiteVersion: "3.45.1"}}

func TestRunLaunch_BindingMissingAbortsBeforeBanner(t *testing.T) {
	env := config.NewMapEnviron(map[string]string{config.EnvDBImpl: "duckdb+parquet"})
	rec := &launchRecorder{}
	missing := stubProber{err: fmt.Errorf("%w: probe exited 3", binding.ErrBindingMissing)}
	deps, stdout, stderr := newTestDeps(env, missing, rec)

	code := runLaunch(nil, deps)

	assert.Equal(t, 1, code)
	assert.Empty(t, stdout.String(), "nothing may be printed on stdout")
	assert.Contains(t, stderr.String(), binding.InstallHint)
	assert.Nil(t, rec.execd)
	assert.Nil(t, rec.supervise)
	assert.Zero(t, rec.raised)

	_, ok := env.LookupEnv(config.EnvPersistDirectory)
	assert.False(t, ok, "environment must not be configured")
	_, ok = env.LookupEnv(config.EnvDBImpl)
	assert.True(t, ok)
}

func TestRunLaunch_ExecDefaults(t *testing.T) {
	env := config.NewMapEnviron(map[string]string{"PATH": "/usr/bin"})
	rec := &launchRecorder{execErr: fmt.Errorf("execve: permission denied")}
	deps, stdout, _ := newTestDeps(env, probeOK, rec)

	code := runLaunch(nil, deps)

	// A returning exec is always a failure.
	assert.Equal(t, 1, code)
	assert.Equal(t, config.DefaultPython, rec.python)
	assert.Equal(t, uint64(config.DefaultNoFile), rec.raised)
	assert.Equal(t,
		"ChromaDB listening on http://127.0.0.1:8000 (persistence: "+config.DefaultPersistPath+")\n",
		stdout.String())

	require.NotNil(t, rec.execd)
	assert.Equal(t, "/usr/bin/python3", rec.execd.Interpreter)
	assert.Contains(t, rec.execd.Env, "PERSIST_DIRECTORY="+config.DefaultPersistPath)
	assert.Contains(t, rec.execd.Env, "IS_PERSISTENT=True")
	assert.Contains(t, rec.execd.Env, "ANONYMIZED_TELEMETRY=false")
	assert.Contains(t, rec.execd.Env, "CHROMA_SERVER_NOFILE=65535")
	assert.Contains(t, rec.execd.Env, "PATH=/usr/bin")
	assert.Nil(t, rec.supervise)
}

func TestRunLaunch_RemovesLegacyImplAndHonorsTelemetry(t *testing.T) {
	env := config.NewMapEnviron(map[string]string{
		config.EnvDBImpl:       "duckdb+parquet",
		config.EnvTelemetry:    "YES",
		config.EnvHost:         "0.0.0.0",
		config.EnvPort:         "9100",
		config.EnvPersistPath:  "/srv/chroma",
		config.EnvIsPersistent: "False",
	})
	rec := &launchRecorder{execErr: fmt.Errorf("boom")}
	deps, stdout, _ := newTestDeps(env, probeOK, rec)

	runLaunch(nil, deps)

	assert.Equal(t, "ChromaDB listening on http://0.0.0.0:9100 (persistence: /srv/chroma)\n", stdout.String())
	require.NotNil(t, rec.execd)
	for _, kv := range rec.execd.Env {
		assert.NotContains(t, kv, config.EnvDBImpl+"=")
	}
	assert.Contains(t, rec.execd.Env, "ANONYMIZED_TELEMETRY=true")
	assert.Contains(t, rec.execd.Env, "IS_PERSISTENT=False")
	assert.Contains(t, rec.execd.Env, "PERSIST_DIRECTORY=/srv/chroma")
	assert.Equal(t, []string{
		"/usr/bin/python3", "-c", launcher.Bootstrap, "0.0.0.0", "9100", "info",
	}, rec.execd.Argv())
}

func TestRunLaunch_SuperviseMode(t *testing.T) {
	env := config.NewMapEnviron(map[string]string{config.EnvMode: "supervise"})
	rec := &launchRecorder{code: 7}
	deps, _, _ := newTestDeps(env, probeOK, rec)

	assert.Equal(t, 7, runLaunch(nil, deps))
	assert.Nil(t, rec.execd)
	require.NotNil(t, rec.supervise)
}

func TestRunLaunch_ExecUnsupportedFallsBackToSupervise(t *testing.T) {
	env := config.NewMapEnviron(nil)
	rec := &launchRecorder{execErr: launcher.ErrExecUnsupported}
	deps, _, _ := newTestDeps(env, probeOK, rec)

	assert.Equal(t, 0, runLaunch(nil, deps))
	assert.NotNil(t, rec.execd)
	assert.NotNil(t, rec.supervise)
}

func TestRunLaunch_InvalidPort(t *testing.T) {
	for _, raw := range []string{"eight-thousand", ""} {
		t.Run("port="+raw, func(t *testing.T) {
			env := config.NewMapEnviron(map[string]string{config.EnvPort: raw})
			rec := &launchRecorder{}
			deps, stdout, stderr := newTestDeps(env, probeOK, rec)

			assert.Equal(t, 1, runLaunch(nil, deps))
			assert.Empty(t, stdout.String())
			assert.Contains(t, stderr.String(), config.EnvPort)
			assert.Nil(t, rec.execd)
		})
	}
}

func TestRunLaunch_Usage(t *testing.T) {
	rec := &launchRecorder{}
	deps, _, stderr := newTestDeps(config.NewMapEnviron(nil), probeOK, rec)

	assert.Equal(t, 2, runLaunch([]string{"bogus"}, deps))
	assert.Contains(t, stderr.String(), "Unknown command: bogus")
	assert.Equal(t, 2, runLaunch([]string{"--no-such-flag"}, deps))
	assert.Empty(t, rec.python, "probe must not run on usage errors")
}

func TestRunLaunch_PythonOverride(t *testing.T) {
	env := config.NewMapEnviron(map[string]string{config.EnvPython: "/opt/venv/bin/python"})
	rec := &launchRecorder{execErr: fmt.Errorf("boom")}
	deps, _, _ := newTestDeps(env, probeOK, rec)

	runLaunch(nil, deps)
	assert.Equal(t, "/opt/venv/bin/python", rec.python)
}

func TestProbeURL(t *testing.T) {
	tests := []struct {
		host string
		want string
	}{
		{"127.0.0.1", "http://127.0.0.1:8000"},
		{"0.0.0.0", "http://127.0.0.1:8000"},
		{"::", "http://127.0.0.1:8000"},
		{"chroma.internal", "http://chroma.internal:8000"},
		{"::1", "http://[::1]:8000"},
	}
	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			assert.Equal(t, tt.want, probeURL(config.Settings{Host: tt.host, Port: 8000}))
		})
	}
}
