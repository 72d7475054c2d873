/*
 * Copyright (C) 2026 Trellis Data, Inc.
 *
 * SPDX-License-Identifier: Apache-2.0
 */

package options

import (
	"fmt"
	"slices"
	"strings"

	"github.com/urfave/cli/v2"
	"github.com/urfave/cli/v2/altsrc"

	"github.com/trellis-data/statefs/fs"
	"github.com/trellis-data/statefs/settings"
)

// DefaultVerbosity is the default verbosity level for the application.
const DefaultVerbosity = "INFO"

var validVerbosities = []string{"DEBUG", "INFO", "WARN", "ERROR"}

// GetFlagsAndBeforeFunc defines all CLI options as flags and returns
// a BeforeFunc to parse a configuration file before any other actions.
func GetFlagsAndBeforeFunc() ([]cli.Flag, cli.BeforeFunc) {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:  "config",
			Usage: "YAML configuration file with the flags below as keys",
		},
		altsrc.NewStringFlag(&cli.StringFlag{
			Name:    "uri",
			Usage:   "base URI for state storage; a fs:// scheme is rewritten to the protocol (e.g., fs://my-bucket/state)",
			Aliases: []string{"u"},
			EnvVars: []string{"STATEFS_URI"},
		}),
		altsrc.NewStringFlag(&cli.StringFlag{
			Name:    "protocol",
			Usage:   fmt.Sprintf("filesystem protocol (%s or an alias like azure)", strings.Join(fs.Protocols(), ", ")),
			Aliases: []string{"p"},
			EnvVars: []string{"STATEFS_PROTOCOL"},
		}),
		altsrc.NewStringSliceFlag(&cli.StringSliceFlag{
			Name:    "storage-option",
			Usage:   "storage option as <protocol>.<name>=<value>; repeatable (e.g., --storage-option s3.endpoint_url=http://localhost:9000)",
			Aliases: []string{"o"},
		}),
		altsrc.NewDurationFlag(&cli.DurationFlag{
			Name:        "lock-timeout",
			Usage:       "age after which a foreign lock is considered stale",
			Value:       settings.DefaultLockTimeout,
			DefaultText: settings.DefaultLockTimeout.String(),
		}),
		altsrc.NewDurationFlag(&cli.DurationFlag{
			Name:        "lock-retry",
			Usage:       "interval between lock acquisition attempts",
			Value:       settings.DefaultLockRetry,
			DefaultText: settings.DefaultLockRetry.String(),
		}),
		altsrc.NewStringFlag(&cli.StringFlag{
			Name:        "verbosity",
			Usage:       fmt.Sprintf("set the verbosity level (%s)", strings.Join(validVerbosities, ",")),
			Value:       DefaultVerbosity,
			DefaultText: DefaultVerbosity,
			Action: func(ctx *cli.Context, verbosity string) error {
				if !slices.Contains(validVerbosities, verbosity) {
					return fmt.Errorf("unsupported verbosity setting %v", verbosity)
				}
				return nil
			},
		}),
		altsrc.NewStringFlag(&cli.StringFlag{
			Name:  "logfile",
			Usage: "log file path, sends logs to file instead of stderr",
		}),
	}

	before := func(c *cli.Context) error {
		if !c.IsSet("config") {
			return nil
		}
		return altsrc.InitInputSourceWithContext(flags, altsrc.NewYamlSourceFromFlagFunc("config"))(c)
	}
	return flags, before
}
