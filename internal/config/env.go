// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ManuGH/chromad/internal/log"
	"github.com/rs/zerolog"
)

// Reader resolves typed values from a lookup function and logs where each
// value came from (environment or default).
type Reader struct {
	lookup LookupFunc
	logger zerolog.Logger
}

// NewReader returns a Reader over lookup. A nil lookup reads the process environment.
func NewReader(lookup LookupFunc) Reader {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	return Reader{lookup: lookup, logger: log.WithComponent("config")}
}

// raw returns the value and whether it should be used. Empty values count as unset.
func (r Reader) raw(key string) (string, bool) {
	v, ok := r.lookup(key)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func isSensitive(key string) bool {
	lower := strings.ToLower(key)
	return strings.Contains(lower, "token") || strings.Contains(lower, "password") || strings.Contains(lower, "secret")
}

func (r Reader) logDefault(key string, def any) {
	r.logger.Debug().
		Str(log.FieldKey, key).
		Interface("default", def).
		Str("source", "default").
		Msg("using default value")
}

func (r Reader) logEnv(key string, value any) {
	ev := r.logger.Debug().Str(log.FieldKey, key).Str("source", "environment")
	if isSensitive(key) {
		ev = ev.Bool("sensitive", true)
	} else {
		ev = ev.Interface("value", value)
	}
	ev.Msg("using environment variable")
}

func (r Reader) logInvalid(key, value string, def any, kind string) {
	r.logger.Warn().
		Str(log.FieldKey, key).
		Str("value", value).
		Interface("default", def).
		Msgf("invalid %s in environment variable, using default", kind)
}

// Literal reads key by presence alone: a variable set to the empty string
// is returned as "" instead of def.
func (r Reader) Literal(key, def string) string {
	v, ok := r.lookup(key)
	if !ok {
		r.logDefault(key, def)
		return def
	}
	r.logEnv(key, v)
	return v
}

// String reads a string or returns def.
func (r Reader) String(key, def string) string {
	v, ok := r.raw(key)
	if !ok {
		r.logDefault(key, def)
		return def
	}
	r.logEnv(key, v)
	return v
}

// Int reads an integer, falling back to def on parse errors.
func (r Reader) Int(key string, def int) int {
	v, ok := r.raw(key)
	if !ok {
		r.logDefault(key, def)
		return def
	}
	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		r.logInvalid(key, v, def, "integer")
		return def
	}
	r.logEnv(key, i)
	return i
}

// Duration reads a Go duration (e.g. "5s"), falling back to def on parse errors.
func (r Reader) Duration(key string, def time.Duration) time.Duration {
	v, ok := r.raw(key)
	if !ok {
		r.logDefault(key, def)
		return def
	}
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil || d < 0 {
		r.logInvalid(key, v, def, "duration")
		return def
	}
	r.logEnv(key, d)
	return d
}

// ParseTruthy reports whether value is one of 1, true, yes, on (case-insensitive).
// Every other value, including the empty string, is false.
func ParseTruthy(value string) bool {
	switch strings.ToLower(value) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
