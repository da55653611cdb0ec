// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

//go:build linux || darwin

package rlimit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRaise_NoLowering(t *testing.T) {
	res, err := Raise(0)
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Equal(t, res.Before, res.After)
}

func TestRaise_ToCurrent(t *testing.T) {
	first, err := Raise(0)
	require.NoError(t, err)

	res, err := Raise(first.Before)
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Equal(t, first.Before, res.After)
}
