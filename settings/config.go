/*
 * Copyright (C) 2026 Trellis Data, Inc.
 *
 * SPDX-License-Identifier: Apache-2.0
 */

package settings

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/trellis-data/statefs/fs"
)

const (
	DefaultLockTimeout = 60 * time.Second
	DefaultLockRetry   = 1 * time.Second
)

var (
	ErrURIRequired      = errors.New("state backend uri is required")
	ErrProtocolRequired = errors.New("state backend protocol is required")
	ErrMalformedKey     = errors.New("storage option keys must be of the form <protocol>.<option>")
)

// Config is the full backend configuration handed over by the host
// platform: where state lives, which driver serves it, and the raw
// storage options before per-protocol resolution.
type Config struct {
	URI         string
	Protocol    string
	LockTimeout time.Duration
	LockRetry   time.Duration

	// StorageOptions holds dotted keys ("s3.key", "sftp.port") for
	// every protocol at once; Resolve filters them down to one.
	StorageOptions map[string]any
}

func (c *Config) Validate() error {
	if c.URI == "" {
		return ErrURIRequired
	}
	if c.Protocol == "" {
		return ErrProtocolRequired
	}
	if c.LockTimeout <= 0 {
		c.LockTimeout = DefaultLockTimeout
	}
	if c.LockRetry <= 0 {
		c.LockRetry = DefaultLockRetry
	}
	return nil
}

// Resolve filters the raw dotted storage options down to the ones
// addressed to the given protocol and strips their prefix. Prefixes
// are matched after alias resolution, so "azure.account_name" applies
// whether the protocol was configured as "azure" or "abfs". Keys whose
// prefix names another protocol are dropped; option names outside the
// first-class catalog pass through unchanged.
func Resolve(protocol string, raw map[string]any) (fs.Options, error) {
	resolved := fs.ResolveProtocol(protocol)
	opts := make(fs.Options, len(raw))
	for key, value := range raw {
		prefix, name, found := strings.Cut(key, ".")
		if !found || prefix == "" || name == "" {
			return nil, fmt.Errorf("%w: got %q", ErrMalformedKey, key)
		}
		if fs.ResolveProtocol(prefix) != resolved {
			continue
		}
		opts[name] = value
	}
	return opts, nil
}
