/*
 * Copyright (C) 2026 Trellis Data, Inc.
 *
 * SPDX-License-Identifier: Apache-2.0
 */

package settings

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trellis-data/statefs/fs"
)

func TestResolveS3(t *testing.T) {
	raw := map[string]any{
		"s3.key":          "my_key",
		"s3.secret":       "my_secret",
		"s3.endpoint_url": "https://my-endpoint.com",
		"gcs.project":     "other-protocol",
	}

	opts, err := Resolve("s3", raw)
	require.NoError(t, err)
	assert.Equal(t, fs.Options{
		"key":          "my_key",
		"secret":       "my_secret",
		"endpoint_url": "https://my-endpoint.com",
	}, opts)
}

func TestResolveGCS(t *testing.T) {
	raw := map[string]any{
		"gcs.project":      "my-project",
		"gcs.token":        "my-token",
		"gcs.endpoint_url": "https://my-endpoint.com",
		"s3.key":           "dropped",
	}

	opts, err := Resolve("gcs", raw)
	require.NoError(t, err)
	assert.Equal(t, fs.Options{
		"project":      "my-project",
		"token":        "my-token",
		"endpoint_url": "https://my-endpoint.com",
	}, opts)
}

func TestResolveAzureAlias(t *testing.T) {
	raw := map[string]any{
		"azure.connection_string": "my-connection-string",
		"azure.account_name":      "my-account-name",
		"azure.account_key":       "my-account-key",
	}

	// The azure prefix matches whether the protocol is configured
	// under its alias or the driver name.
	for _, protocol := range []string{"azure", "abfs"} {
		opts, err := Resolve(protocol, raw)
		require.NoError(t, err)
		assert.Equal(t, fs.Options{
			"connection_string": "my-connection-string",
			"account_name":      "my-account-name",
			"account_key":       "my-account-key",
		}, opts, "protocol %s", protocol)
	}
}

func TestResolveArbitraryKeysPassThrough(t *testing.T) {
	raw := map[string]any{
		"sftp.host": "example.com",
		"sftp.foo":  "bar",
		"sftp.baz":  "qux",
	}

	opts, err := Resolve("sftp", raw)
	require.NoError(t, err)
	assert.Equal(t, fs.Options{
		"host": "example.com",
		"foo":  "bar",
		"baz":  "qux",
	}, opts)
}

func TestResolveMalformedKey(t *testing.T) {
	for _, key := range []string{"key", ".key", "s3."} {
		_, err := Resolve("s3", map[string]any{key: "value"})
		assert.ErrorIs(t, err, ErrMalformedKey, "key %q", key)
	}
}

func TestResolveEmpty(t *testing.T) {
	opts, err := Resolve("file", nil)
	require.NoError(t, err)
	assert.Empty(t, opts)
}

func TestConfigValidate(t *testing.T) {
	cfg := Config{URI: "fs://bucket/state", Protocol: "s3"}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultLockTimeout, cfg.LockTimeout)
	assert.Equal(t, DefaultLockRetry, cfg.LockRetry)

	cfg = Config{Protocol: "s3"}
	assert.ErrorIs(t, cfg.Validate(), ErrURIRequired)

	cfg = Config{URI: "fs://bucket/state"}
	assert.ErrorIs(t, cfg.Validate(), ErrProtocolRequired)

	cfg = Config{URI: "fs://b", Protocol: "s3", LockTimeout: 5 * time.Minute, LockRetry: 2 * time.Second}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 5*time.Minute, cfg.LockTimeout)
	assert.Equal(t, 2*time.Second, cfg.LockRetry)
}

func TestDefinitionsSensitiveSettingsMarked(t *testing.T) {
	sensitive := map[string]bool{}
	for _, def := range Definitions {
		sensitive[def.Name] = def.Sensitive
	}
	assert.True(t, sensitive["state_backend.fs.storage_options.s3.secret"])
	assert.True(t, sensitive["state_backend.fs.storage_options.azure.account_key"])
	assert.True(t, sensitive["state_backend.fs.storage_options.sftp.password"])
	assert.False(t, sensitive["state_backend.fs.protocol"])
	assert.False(t, sensitive["state_backend.fs.storage_options.s3.endpoint_url"])
}
