// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import "errors"

var (
	// ErrInvalidPort is returned when CHROMA_PORT is not an integer in 1..65535.
	ErrInvalidPort = errors.New("invalid port")

	// ErrInvalidMode is returned when CHROMAD_MODE names an unknown launch mode.
	ErrInvalidMode = errors.New("invalid launch mode")

	// ErrNilEnviron is returned when Normalize is called without an environment.
	ErrNilEnviron = errors.New("environment is required")
)
