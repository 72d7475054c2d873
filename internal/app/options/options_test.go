/*
 * Copyright (C) 2026 Trellis Data, Inc.
 *
 * SPDX-License-Identifier: Apache-2.0
 */

package options

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStorageOptions(t *testing.T) {
	opts, err := parseStorageOptions([]string{
		"s3.key=my_key",
		"s3.endpoint_url=http://localhost:9000",
		"sftp.port=2222",
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"s3.key":          "my_key",
		"s3.endpoint_url": "http://localhost:9000",
		"sftp.port":       "2222",
	}, opts)
}

func TestParseStorageOptionsValueMayContainEquals(t *testing.T) {
	opts, err := parseStorageOptions([]string{"azure.connection_string=AccountKey=abc=="})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"azure.connection_string": "AccountKey=abc=="}, opts)
}

func TestParseStorageOptionsMalformed(t *testing.T) {
	_, err := parseStorageOptions([]string{"no-equals-sign"})
	assert.Error(t, err)

	_, err = parseStorageOptions([]string{"=value"})
	assert.Error(t, err)
}

func TestParseStorageOptionsEmpty(t *testing.T) {
	opts, err := parseStorageOptions(nil)
	require.NoError(t, err)
	assert.Nil(t, opts)
}
