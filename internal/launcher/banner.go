// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package launcher

import (
	"fmt"
	"io"

	"github.com/ManuGH/chromad/internal/config"
)

// Banner writes the one-line startup banner operators grep for.
func Banner(w io.Writer, s config.Settings) error {
	_, err := fmt.Fprintf(w, "ChromaDB listening on %s (persistence: %s)\n", s.BaseURL(), s.PersistPath)
	return err
}
