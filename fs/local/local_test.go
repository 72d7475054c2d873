/*
 * Copyright (C) 2026 Trellis Data, Inc.
 *
 * SPDX-License-Identifier: Apache-2.0
 */

package local

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trellis-data/statefs/fs"
)

func TestNewRequiresPath(t *testing.T) {
	_, err := New("")
	assert.ErrorIs(t, err, ErrPathRequired)
}

func TestReadWriteCreatesParents(t *testing.T) {
	ctx := context.Background()
	fsys, err := New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, fsys.WriteFile(ctx, "job1/state.json", []byte(`{"a":1}`)))

	data, err := fsys.ReadFile(ctx, "job1/state.json")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"a":1}`), data)
}

func TestReadMissing(t *testing.T) {
	fsys, err := New(t.TempDir())
	require.NoError(t, err)

	_, err = fsys.ReadFile(context.Background(), "nope/state.json")
	assert.True(t, fs.IsNotExist(err))
}

func TestExistsAndRemove(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	fsys, err := New(root)
	require.NoError(t, err)

	require.NoError(t, fsys.WriteFile(ctx, "job1/state.json", []byte("{}")))

	exists, err := fsys.Exists(ctx, "job1/state.json")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, fsys.Remove(ctx, "job1/state.json"))

	exists, err = fsys.Exists(ctx, "job1/state.json")
	require.NoError(t, err)
	assert.False(t, exists)

	// an emptied directory can be removed too
	require.NoError(t, fsys.Remove(ctx, "job1"))
	_, err = os.Stat(filepath.Join(root, "job1"))
	assert.True(t, os.IsNotExist(err))
}

func TestListMissingDirectory(t *testing.T) {
	fsys, err := New(t.TempDir())
	require.NoError(t, err)

	names, err := fsys.List(context.Background(), "missing")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestList(t *testing.T) {
	ctx := context.Background()
	fsys, err := New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, fsys.WriteFile(ctx, "job1/state.json", []byte("{}")))
	require.NoError(t, fsys.WriteFile(ctx, "job2/state.json", []byte("{}")))

	names, err := fsys.List(ctx, "")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"job1", "job2"}, names)
}
