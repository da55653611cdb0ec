// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

//go:build linux || darwin

package rlimit

import (
	"fmt"

	"golang.org/x/sys/unix"
)

func raise(want uint64) (Result, error) {
	var lim unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_NOFILE, &lim); err != nil {
		return Result{}, fmt.Errorf("rlimit: getrlimit: %w", err)
	}

	res := Result{Before: uint64(lim.Cur), After: uint64(lim.Cur), Hard: uint64(lim.Max)}
	next := target(want, res.Before, res.Hard)
	if next == res.Before {
		return res, nil
	}

	lim.Cur = next
	if err := unix.Setrlimit(unix.RLIMIT_NOFILE, &lim); err != nil {
		return res, fmt.Errorf("rlimit: setrlimit %d: %w", next, err)
	}
	res.After = next
	res.Changed = true
	return res, nil
}
