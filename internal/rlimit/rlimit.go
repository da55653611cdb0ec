// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package rlimit raises the open-file limit inherited by the server.
package rlimit

import "errors"

// ErrUnsupported is returned on platforms without RLIMIT_NOFILE.
var ErrUnsupported = errors.New("rlimit: not supported on this platform")

// Result reports the soft limit before and after Raise.
type Result struct {
	Before  uint64
	After   uint64
	Hard    uint64
	Changed bool
}

// Raise lifts the soft RLIMIT_NOFILE to want, capped at the hard limit.
// It never lowers the current soft limit.
func Raise(want uint64) (Result, error) {
	return raise(want)
}

func target(want, soft, hard uint64) uint64 {
	if want > hard {
		want = hard
	}
	if want < soft {
		return soft
	}
	return want
}
