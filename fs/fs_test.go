/*
 * Copyright (C) 2026 Trellis Data, Inc.
 *
 * SPDX-License-Identifier: Apache-2.0
 */

package fs_test

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trellis-data/statefs/fs"
	_ "github.com/trellis-data/statefs/fs/memory"
)

func TestResolveProtocol(t *testing.T) {
	assert.Equal(t, "abfs", fs.ResolveProtocol("azure"))
	assert.Equal(t, "abfs", fs.ResolveProtocol("abfs"))
	assert.Equal(t, "file", fs.ResolveProtocol("local"))
	assert.Equal(t, "s3", fs.ResolveProtocol("s3"))
}

func TestOpenUnknownProtocol(t *testing.T) {
	_, err := fs.Open(context.Background(), "carrier-pigeon", "fs://nest/state", nil)
	assert.ErrorIs(t, err, fs.ErrUnknownProtocol)
}

func TestOpenRewritesPlaceholderScheme(t *testing.T) {
	var gotURI *url.URL
	fs.Register("capture", func(_ context.Context, uri *url.URL, _ fs.Options) (fs.FileSystem, error) {
		gotURI = uri
		return nil, nil
	})

	_, err := fs.Open(context.Background(), "capture", "fs://my-bucket/path/to/state", nil)
	require.NoError(t, err)
	require.NotNil(t, gotURI)
	assert.Equal(t, "capture", gotURI.Scheme)
	assert.Equal(t, "my-bucket", gotURI.Host)
	assert.Equal(t, "/path/to/state", gotURI.Path)
}

func TestOpenMemory(t *testing.T) {
	fsys, err := fs.Open(context.Background(), "memory", "memory://state", nil)
	require.NoError(t, err)
	assert.Equal(t, "memory", fsys.Protocol())
	assert.NoError(t, fsys.Close())
}

func TestRegisterDuplicatePanics(t *testing.T) {
	driver := func(_ context.Context, _ *url.URL, _ fs.Options) (fs.FileSystem, error) {
		return nil, nil
	}
	fs.Register("dup", driver)
	assert.Panics(t, func() { fs.Register("dup", driver) })
}

func TestDecodeOptionsWeaklyTyped(t *testing.T) {
	type target struct {
		Port    int            `mapstructure:"port"`
		Verbose bool           `mapstructure:"verbose"`
		Rest    map[string]any `mapstructure:",remain"`
	}

	var got target
	err := fs.DecodeOptions(fs.Options{
		"port":    "2222",
		"verbose": "true",
		"extra":   "kept",
	}, &got)
	require.NoError(t, err)
	assert.Equal(t, 2222, got.Port)
	assert.True(t, got.Verbose)
	assert.Equal(t, map[string]any{"extra": "kept"}, got.Rest)
}
