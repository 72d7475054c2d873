/*
 * Copyright (C) 2026 Trellis Data, Inc.
 *
 * SPDX-License-Identifier: Apache-2.0
 */

package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trellis-data/statefs/fs"
)

func TestReadWriteRemove(t *testing.T) {
	ctx := context.Background()
	fsys := New()

	_, err := fsys.ReadFile(ctx, "job/state.json")
	assert.True(t, fs.IsNotExist(err))

	require.NoError(t, fsys.WriteFile(ctx, "job/state.json", []byte(`{"a":1}`)))

	data, err := fsys.ReadFile(ctx, "job/state.json")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"a":1}`), data)

	exists, err := fsys.Exists(ctx, "job/state.json")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, fsys.Remove(ctx, "job/state.json"))
	assert.True(t, fs.IsNotExist(fsys.Remove(ctx, "job/state.json")))

	exists, err = fsys.Exists(ctx, "job/state.json")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestListDerivesDirectories(t *testing.T) {
	ctx := context.Background()
	fsys := New()
	require.NoError(t, fsys.WriteFile(ctx, "job1/state.json", []byte("{}")))
	require.NoError(t, fsys.WriteFile(ctx, "job1/lock", []byte("{}")))
	require.NoError(t, fsys.WriteFile(ctx, "job2/state.json", []byte("{}")))

	names, err := fsys.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"job1", "job2"}, names)

	names, err = fsys.List(ctx, "job1")
	require.NoError(t, err)
	assert.Equal(t, []string{"lock", "state.json"}, names)

	names, err = fsys.List(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, names)
}
