// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"fmt"
	"strconv"

	"github.com/ManuGH/chromad/internal/log"
)

// Action describes what Normalize did to a variable.
type Action string

const (
	ActionSet   Action = "set"
	ActionUnset Action = "unset"
)

// Change records a single environment mutation.
type Change struct {
	Key    string `yaml:"key"`
	Action Action `yaml:"action"`
	Value  string `yaml:"value,omitempty"`
}

// ManagedKeys lists the variables the launcher resolves or normalizes, in
// the order they are rendered by `chromad config env`.
var ManagedKeys = []string{
	EnvHost,
	EnvPort,
	EnvPersistPath,
	EnvPersistDirectory,
	EnvIsPersistent,
	EnvAnonymizedTelemetry,
	EnvServerNoFile,
}

// Normalize prepares env for the Chroma server:
//
//   - PERSIST_DIRECTORY defaults to the resolved persistence path
//   - IS_PERSISTENT defaults to "True"
//   - CHROMA_DB_IMPL is removed
//   - ANONYMIZED_TELEMETRY defaults to "true" or "false" from CHROMA_TELEMETRY
//   - CHROMA_SERVER_NOFILE defaults to 65535
//
// Variables that are already present, even when empty, are left alone.
func Normalize(env Environ, s Settings) ([]Change, error) {
	if env == nil {
		return nil, ErrNilEnviron
	}

	var changes []Change
	setDefault := func(key, value string) error {
		if _, ok := env.LookupEnv(key); ok {
			return nil
		}
		if err := env.Setenv(key, value); err != nil {
			return fmt.Errorf("set %s: %w", key, err)
		}
		changes = append(changes, Change{Key: key, Action: ActionSet, Value: value})
		return nil
	}

	if err := setDefault(EnvPersistDirectory, s.PersistPath); err != nil {
		return changes, err
	}
	if err := setDefault(EnvIsPersistent, "True"); err != nil {
		return changes, err
	}
	if _, ok := env.LookupEnv(EnvDBImpl); ok {
		if err := env.Unsetenv(EnvDBImpl); err != nil {
			return changes, fmt.Errorf("unset %s: %w", EnvDBImpl, err)
		}
		changes = append(changes, Change{Key: EnvDBImpl, Action: ActionUnset})
	}
	if err := setDefault(EnvAnonymizedTelemetry, strconv.FormatBool(s.Telemetry)); err != nil {
		return changes, err
	}
	if err := setDefault(EnvServerNoFile, strconv.Itoa(DefaultNoFile)); err != nil {
		return changes, err
	}

	return changes, nil
}

// LogChanges writes one debug entry per change (unsets are logged at info,
// since they discard operator input).
func LogChanges(changes []Change) {
	logger := log.WithComponent("config")
	for _, c := range changes {
		ev := logger.Debug()
		if c.Action == ActionUnset {
			ev = logger.Info()
		}
		ev.Str(log.FieldEvent, "env.normalized").
			Str(log.FieldKey, c.Key).
			Str(log.FieldAction, string(c.Action)).
			Str("value", c.Value).
			Msg("normalized server environment")
	}
}
