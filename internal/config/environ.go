// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"os"
	"sort"
	"strings"
	"sync"
)

// LookupFunc has the shape of os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// Environ is a mutable set of environment variables.
type Environ interface {
	LookupEnv(key string) (string, bool)
	Setenv(key, value string) error
	Unsetenv(key string) error
	// Environ returns the variables as sorted KEY=value pairs.
	Environ() []string
}

// OSEnviron is the live process environment.
type OSEnviron struct{}

func (OSEnviron) LookupEnv(key string) (string, bool) { return os.LookupEnv(key) }
func (OSEnviron) Setenv(key, value string) error      { return os.Setenv(key, value) }
func (OSEnviron) Unsetenv(key string) error           { return os.Unsetenv(key) }

func (OSEnviron) Environ() []string {
	out := os.Environ()
	sort.Strings(out)
	return out
}

// MapEnviron is an in-memory environment, used for dry runs and tests.
type MapEnviron struct {
	mu   sync.RWMutex
	vars map[string]string
}

// NewMapEnviron copies values into a new MapEnviron.
func NewMapEnviron(values map[string]string) *MapEnviron {
	vars := make(map[string]string, len(values))
	for k, v := range values {
		vars[k] = v
	}
	return &MapEnviron{vars: vars}
}

// SnapshotOSEnviron copies the current process environment into a MapEnviron.
func SnapshotOSEnviron() *MapEnviron {
	vars := make(map[string]string)
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		vars[k] = v
	}
	return &MapEnviron{vars: vars}
}

func (m *MapEnviron) LookupEnv(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.vars[key]
	return v, ok
}

func (m *MapEnviron) Setenv(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vars[key] = value
	return nil
}

func (m *MapEnviron) Unsetenv(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.vars, key)
	return nil
}

func (m *MapEnviron) Environ() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.vars))
	for k, v := range m.vars {
		out = append(out, k+"="+v)
	}
	sort.Strings(out)
	return out
}
