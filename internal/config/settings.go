// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Environment variables read by the launcher.
const (
	EnvHost        = "CHROMA_HOST"
	EnvPort        = "CHROMA_PORT"
	EnvPersistPath = "CHROMA_PERSIST_PATH"
	EnvTelemetry   = "CHROMA_TELEMETRY"

	EnvPython        = "CHROMAD_PYTHON"
	EnvLogLevel      = "CHROMAD_LOG_LEVEL"
	EnvMode          = "CHROMAD_MODE"
	EnvMaxRestarts   = "CHROMAD_MAX_RESTARTS"
	EnvRestartDelay  = "CHROMAD_RESTART_DELAY"
	EnvShutdownGrace = "CHROMAD_SHUTDOWN_GRACE"
	EnvMetricsAddr   = "CHROMAD_METRICS_ADDR"
	EnvProbeTimeout  = "CHROMAD_PROBE_TIMEOUT"
)

// Environment variables read by the Chroma server and normalized before launch.
const (
	EnvPersistDirectory    = "PERSIST_DIRECTORY"
	EnvIsPersistent        = "IS_PERSISTENT"
	EnvDBImpl              = "CHROMA_DB_IMPL"
	EnvAnonymizedTelemetry = "ANONYMIZED_TELEMETRY"
	EnvServerNoFile        = "CHROMA_SERVER_NOFILE"
)

// Defaults.
const (
	DefaultHost        = "127.0.0.1"
	DefaultPort        = 8000
	DefaultPersistPath = "/var/www/vhosts/ia.rpj.es/httpdocs/database/chroma"
	DefaultNoFile      = 65535

	DefaultPython        = "python3"
	DefaultLogLevel      = "info"
	DefaultMaxRestarts   = 5
	DefaultRestartDelay  = 5 * time.Second
	DefaultShutdownGrace = 10 * time.Second
	DefaultProbeTimeout  = 15 * time.Second
)

// Mode selects how the server is started.
type Mode string

const (
	// ModeExec replaces the launcher process with the server.
	ModeExec Mode = "exec"
	// ModeSupervise runs the server as a child and restarts it on failure.
	ModeSupervise Mode = "supervise"
)

// ParseMode parses a launch mode. The empty string is ModeExec.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeExec:
		return ModeExec, nil
	case ModeSupervise:
		return ModeSupervise, nil
	default:
		return "", fmt.Errorf("%w: %q (want %q or %q)", ErrInvalidMode, s, ModeExec, ModeSupervise)
	}
}

// Settings is the resolved launcher configuration.
type Settings struct {
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	PersistPath string `yaml:"persist_path"`
	Telemetry   bool   `yaml:"telemetry"`
	NoFile      int    `yaml:"nofile"`

	Launcher LauncherSettings `yaml:"launcher"`
}

// LauncherSettings controls how chromad itself behaves.
type LauncherSettings struct {
	Python        string        `yaml:"python"`
	LogLevel      string        `yaml:"log_level"`
	Mode          Mode          `yaml:"mode"`
	MaxRestarts   int           `yaml:"max_restarts"`
	RestartDelay  time.Duration `yaml:"restart_delay"`
	ShutdownGrace time.Duration `yaml:"shutdown_grace"`
	MetricsAddr   string        `yaml:"metrics_addr,omitempty"`
	ProbeTimeout  time.Duration `yaml:"probe_timeout"`
}

// Addr returns host:port.
func (s Settings) Addr() string {
	return joinHostPort(s.Host, s.Port)
}

// BaseURL returns the HTTP base URL the server will answer on.
func (s Settings) BaseURL() string {
	return "http://" + s.Addr()
}

func joinHostPort(host string, port int) string {
	if strings.Contains(host, ":") && !strings.HasPrefix(host, "[") {
		host = "[" + host + "]"
	}
	return host + ":" + strconv.Itoa(port)
}

// ParsePort validates a port string.
func ParsePort(raw string) (int, error) {
	p, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an integer", ErrInvalidPort, raw)
	}
	if p < 1 || p > 65535 {
		return 0, fmt.Errorf("%w: %d out of range 1-65535", ErrInvalidPort, p)
	}
	return p, nil
}

// LoadSettings resolves Settings from lookup. CHROMA_HOST, CHROMA_PORT and
// CHROMA_PERSIST_PATH take their default only when unset; an empty value is
// used as is, so an empty CHROMA_PORT is an invalid port. Launcher variables
// treat empty as unset. A nil lookup reads the process environment.
func LoadSettings(lookup LookupFunc) (Settings, error) {
	r := NewReader(lookup)

	s := Settings{
		Host:        r.Literal(EnvHost, DefaultHost),
		Port:        DefaultPort,
		PersistPath: r.Literal(EnvPersistPath, DefaultPersistPath),
		NoFile:      r.Int(EnvServerNoFile, DefaultNoFile),
	}

	if raw, ok := r.lookup(EnvPort); ok {
		port, err := ParsePort(raw)
		if err != nil {
			return Settings{}, fmt.Errorf("%s: %w", EnvPort, err)
		}
		s.Port = port
	}

	telemetry, _ := r.lookup(EnvTelemetry)
	s.Telemetry = ParseTruthy(telemetry)

	if s.NoFile <= 0 {
		s.NoFile = DefaultNoFile
	}

	mode, err := ParseMode(r.String(EnvMode, string(ModeExec)))
	if err != nil {
		return Settings{}, fmt.Errorf("%s: %w", EnvMode, err)
	}

	s.Launcher = LauncherSettings{
		Python:        r.String(EnvPython, DefaultPython),
		LogLevel:      strings.ToLower(r.String(EnvLogLevel, DefaultLogLevel)),
		Mode:          mode,
		MaxRestarts:   r.Int(EnvMaxRestarts, DefaultMaxRestarts),
		RestartDelay:  r.Duration(EnvRestartDelay, DefaultRestartDelay),
		ShutdownGrace: r.Duration(EnvShutdownGrace, DefaultShutdownGrace),
		MetricsAddr:   strings.TrimSpace(r.String(EnvMetricsAddr, "")),
		ProbeTimeout:  r.Duration(EnvProbeTimeout, DefaultProbeTimeout),
	}
	if s.Launcher.MaxRestarts < 0 {
		s.Launcher.MaxRestarts = 0
	}

	return s, nil
}

// DefaultSettings returns the settings produced by an empty environment.
func DefaultSettings() Settings {
	s, _ := LoadSettings(func(string) (string, bool) { return "", false })
	return s
}

// ProbeSettings resolves only what the binding probe needs, so the probe
// can run before the rest of the configuration is read.
func ProbeSettings(lookup LookupFunc) (python string, timeout time.Duration) {
	r := NewReader(lookup)
	return r.String(EnvPython, DefaultPython), r.Duration(EnvProbeTimeout, DefaultProbeTimeout)
}
