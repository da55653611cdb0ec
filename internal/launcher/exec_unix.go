// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

//go:build unix

package launcher

import (
	"fmt"

	"golang.org/x/sys/unix"
)

func execve(path string, argv, env []string) error {
	if err := unix.Exec(path, argv, env); err != nil {
		return fmt.Errorf("launcher: exec %s: %w", path, err)
	}
	return nil
}
