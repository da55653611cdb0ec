// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

//go:build !linux && !darwin

package rlimit

func raise(uint64) (Result, error) {
	return Result{}, ErrUnsupported
}
