// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package rlimit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTarget(t *testing.T) {
	tests := []struct {
		name             string
		want, soft, hard uint64
		expect           uint64
	}{
		{name: "raise below hard", want: 65535, soft: 1024, hard: 1048576, expect: 65535},
		{name: "cap at hard", want: 65535, soft: 1024, hard: 4096, expect: 4096},
		{name: "never lower", want: 1024, soft: 8192, hard: 65535, expect: 8192},
		{name: "already there", want: 4096, soft: 4096, hard: 4096, expect: 4096},
		{name: "zero want", want: 0, soft: 256, hard: 1024, expect: 256},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, target(tt.want, tt.soft, tt.hard))
		})
	}
}
