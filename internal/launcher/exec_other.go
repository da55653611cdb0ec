// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

//go:build !unix

package launcher

func execve(string, []string, []string) error {
	return ErrExecUnsupported
}
