// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindActiveRemovedEnvKeys(t *testing.T) {
	assert.Empty(t, FindActiveRemovedEnvKeys(mapLookup(nil)))

	active := FindActiveRemovedEnvKeys(mapLookup(map[string]string{EnvDBImpl: ""}))
	if assert.Len(t, active, 1) {
		assert.Equal(t, EnvDBImpl, active[0].Key)
		assert.NotEmpty(t, active[0].Message)
	}
}

func TestSnapshotOSEnviron_IsDetached(t *testing.T) {
	t.Setenv("CHROMAD_SNAPSHOT_TEST", "a=b")

	snap := SnapshotOSEnviron()
	v, ok := snap.LookupEnv("CHROMAD_SNAPSHOT_TEST")
	assert.True(t, ok)
	assert.Equal(t, "a=b", v)

	assert.NoError(t, snap.Unsetenv("CHROMAD_SNAPSHOT_TEST"))
	_, stillSet := OSEnviron{}.LookupEnv("CHROMAD_SNAPSHOT_TEST")
	assert.True(t, stillSet)
}
