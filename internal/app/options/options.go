/*
 * Copyright (C) 2026 Trellis Data, Inc.
 *
 * SPDX-License-Identifier: Apache-2.0
 */

package options

import (
	"fmt"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/trellis-data/statefs/settings"
)

type Options struct {
	Verbosity string
	Logfile   string

	URI            string
	Protocol       string
	StorageOptions map[string]any
	LockTimeout    time.Duration
	LockRetry      time.Duration
}

func NewFromCLIContext(c *cli.Context) (Options, error) {
	o := Options{}

	o.Verbosity = c.String("verbosity")
	o.Logfile = c.String("logfile")
	o.URI = c.String("uri")
	o.Protocol = c.String("protocol")
	o.LockTimeout = c.Duration("lock-timeout")
	o.LockRetry = c.Duration("lock-retry")

	storageOptions, err := parseStorageOptions(c.StringSlice("storage-option"))
	if err != nil {
		return o, err
	}
	o.StorageOptions = storageOptions

	return o, nil
}

// Config assembles the backend configuration from the parsed options.
func (o Options) Config() settings.Config {
	return settings.Config{
		URI:            o.URI,
		Protocol:       o.Protocol,
		LockTimeout:    o.LockTimeout,
		LockRetry:      o.LockRetry,
		StorageOptions: o.StorageOptions,
	}
}

// parseStorageOptions turns repeated "s3.key=value" pairs into the
// dotted-key map the settings layer resolves per protocol.
func parseStorageOptions(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	opts := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("storage option must be <protocol>.<name>=<value>, got %q", pair)
		}
		opts[key] = value
	}
	return opts, nil
}
