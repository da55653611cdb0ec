// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"os"
	"sort"

	"github.com/ManuGH/chromad/internal/log"
)

// RemovedEnvKey is a variable older deployments set that the current
// server no longer accepts.
type RemovedEnvKey struct {
	Key     string
	Message string
}

var removedEnvKeys = []RemovedEnvKey{
	{
		Key:     EnvDBImpl,
		Message: "legacy duckdb+parquet backend selection breaks current Chroma servers; variable is removed before launch.",
	},
}

// FindActiveRemovedEnvKeys returns the removed keys present in lookup, sorted by key.
func FindActiveRemovedEnvKeys(lookup LookupFunc) []RemovedEnvKey {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	out := make([]RemovedEnvKey, 0, len(removedEnvKeys))
	for _, k := range removedEnvKeys {
		if _, ok := lookup(k.Key); ok {
			out = append(out, k)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// WarnRemovedEnvKeys logs a warning for every removed key present in lookup.
func WarnRemovedEnvKeys(lookup LookupFunc) {
	active := FindActiveRemovedEnvKeys(lookup)
	if len(active) == 0 {
		return
	}

	logger := log.WithComponent("config")
	for _, k := range active {
		logger.Warn().
			Str(log.FieldKey, k.Key).
			Msgf("REMOVED env var is set: %s", k.Message)
	}
}
