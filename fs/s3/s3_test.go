/*
 * Copyright (C) 2026 Trellis Data, Inc.
 *
 * SPDX-License-Identifier: Apache-2.0
 */

package s3

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trellis-data/statefs/fs"
)

func TestSettingsDecode(t *testing.T) {
	opts := fs.Options{
		"key":            "my_key",
		"secret":         "my_secret",
		"endpoint_url":   "http://localhost:9000",
		"region":         "eu-west-1",
		"use_path_style": "true",
		"anon":           "pass-through-option",
	}

	var settings Settings
	require.NoError(t, fs.DecodeOptions(opts, &settings))
	assert.Equal(t, "my_key", settings.Key)
	assert.Equal(t, "my_secret", settings.Secret)
	assert.Equal(t, "http://localhost:9000", settings.EndpointURL)
	assert.Equal(t, "eu-west-1", settings.Region)
	assert.True(t, settings.UsePathStyle)
	assert.Equal(t, map[string]any{"anon": "pass-through-option"}, settings.Rest)
}

func TestNewRequiresBucket(t *testing.T) {
	uri, err := url.Parse("s3:///path/only")
	require.NoError(t, err)

	_, err = New(context.Background(), uri, Settings{})
	assert.ErrorIs(t, err, ErrBucketRequired)
}

func TestNewWithStaticCredentials(t *testing.T) {
	uri, err := url.Parse("s3://my-bucket/path/to/state")
	require.NoError(t, err)

	fsys, err := New(context.Background(), uri, Settings{
		Key:          "my_key",
		Secret:       "my_secret",
		Region:       "us-east-1",
		EndpointURL:  "http://localhost:9000",
		UsePathStyle: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "s3", fsys.Protocol())
	assert.Equal(t, "my-bucket", fsys.bucket)
	assert.Equal(t, "path/to/state", fsys.prefix)
}

func TestKeyJoinsPrefix(t *testing.T) {
	f := &FileSystem{prefix: "path/to/state"}
	assert.Equal(t, "path/to/state/job1/state.json", f.key("job1/state.json"))

	f = &FileSystem{}
	assert.Equal(t, "job1/state.json", f.key("job1/state.json"))
}
