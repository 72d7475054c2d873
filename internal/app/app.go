/*
 * Copyright (C) 2026 Trellis Data, Inc.
 *
 * SPDX-License-Identifier: Apache-2.0
 */

// Package app wires the CLI front-end for the filesystem state
// backend: it turns flags and config file entries into a backend
// configuration, opens the filesystem through the driver registry, and
// exposes the state operations as subcommands.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/trellis-data/statefs/fs"
	"github.com/trellis-data/statefs/internal/app/options"
	"github.com/trellis-data/statefs/internal/build"
	"github.com/trellis-data/statefs/logger"
	"github.com/trellis-data/statefs/settings"
	"github.com/trellis-data/statefs/statestore"
	"github.com/trellis-data/statefs/statestore/fsstore"

	// Register the filesystem drivers.
	_ "github.com/trellis-data/statefs/fs/azure"
	_ "github.com/trellis-data/statefs/fs/gcs"
	_ "github.com/trellis-data/statefs/fs/local"
	_ "github.com/trellis-data/statefs/fs/memory"
	_ "github.com/trellis-data/statefs/fs/s3"
	_ "github.com/trellis-data/statefs/fs/sftp"
)

// NewApp builds the statefs CLI.
func NewApp() *cli.App {
	flags, before := options.GetFlagsAndBeforeFunc()

	app := &cli.App{
		Before:    before,
		Flags:     flags,
		Name:      "statefs",
		Usage:     "Manages pipeline state documents on a filesystem backend",
		UsageText: "statefs [options] command",
		Version:   build.VersionInfo(),
		Copyright: build.CopyrightStr,
		Commands: []*cli.Command{
			listCommand(),
			getCommand(),
			setCommand(),
			deleteCommand(),
			clearAllCommand(),
			settingsCommand(),
		},
	}

	return app
}

// openStore resolves configuration into a ready state store.
func openStore(c *cli.Context) (statestore.Store, error) {
	o, err := options.NewFromCLIContext(c)
	if err != nil {
		return nil, err
	}
	if err := logger.Setup(logger.Options{Verbosity: o.Verbosity, Logfile: o.Logfile}); err != nil {
		return nil, err
	}

	cfg := o.Config()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts, err := settings.Resolve(cfg.Protocol, cfg.StorageOptions)
	if err != nil {
		return nil, err
	}
	fsys, err := fs.Open(c.Context, cfg.Protocol, cfg.URI, opts)
	if err != nil {
		return nil, err
	}

	store := fsstore.New(fsys,
		fsstore.WithLockTimeout(cfg.LockTimeout),
		fsstore.WithLockRetry(cfg.LockRetry),
	)
	return store, nil
}

func stateIDArg(c *cli.Context) (string, error) {
	id := c.Args().First()
	if id == "" {
		return "", fmt.Errorf("a state id argument is required")
	}
	return id, nil
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:      "list",
		Usage:     "List known state ids",
		UsageText: "statefs [options] list [--pattern glob]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "pattern",
				Usage: "glob pattern to filter state ids (e.g., 'dev:*')",
			},
		},
		Action: func(c *cli.Context) error {
			store, err := openStore(c)
			if err != nil {
				return err
			}
			defer store.Close()

			ids, err := store.StateIDs(c.Context, c.String("pattern"))
			if err != nil {
				return err
			}
			for _, id := range ids {
				fmt.Fprintln(c.App.Writer, id)
			}
			return nil
		},
	}
}

func getCommand() *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Print the state document for a state id",
		UsageText: "statefs [options] get <state-id>",
		Action: func(c *cli.Context) error {
			id, err := stateIDArg(c)
			if err != nil {
				return err
			}
			store, err := openStore(c)
			if err != nil {
				return err
			}
			defer store.Close()

			state, err := store.Get(c.Context, id)
			if err != nil {
				return err
			}
			if state == nil {
				return fmt.Errorf("no state found for %q", id)
			}
			out, err := json.MarshalIndent(state, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, string(out))
			return nil
		},
	}
}

func setCommand() *cli.Command {
	return &cli.Command{
		Name:      "set",
		Usage:     "Write a state document for a state id",
		UsageText: "statefs [options] set <state-id> --input state.json",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "input",
				Usage:   "path to the state document, or '-' for stdin",
				Aliases: []string{"i"},
				Value:   "-",
			},
		},
		Action: func(c *cli.Context) error {
			id, err := stateIDArg(c)
			if err != nil {
				return err
			}
			data, err := readInput(c.String("input"))
			if err != nil {
				return err
			}
			var state statestore.State
			if err := json.Unmarshal(data, &state); err != nil {
				return fmt.Errorf("parse state document: %w", err)
			}
			if state.ID == "" {
				state.ID = id
			}
			if state.ID != id {
				return fmt.Errorf("state document is for %q, not %q", state.ID, id)
			}

			store, err := openStore(c)
			if err != nil {
				return err
			}
			defer store.Close()

			return store.WithLock(c.Context, id, func(ctx context.Context) error {
				return store.Set(ctx, &state)
			})
		},
	}
}

func deleteCommand() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete the state document for a state id",
		UsageText: "statefs [options] delete <state-id>",
		Action: func(c *cli.Context) error {
			id, err := stateIDArg(c)
			if err != nil {
				return err
			}
			store, err := openStore(c)
			if err != nil {
				return err
			}
			defer store.Close()

			return store.WithLock(c.Context, id, func(ctx context.Context) error {
				return store.Delete(ctx, id)
			})
		},
	}
}

func clearAllCommand() *cli.Command {
	return &cli.Command{
		Name:      "clear-all",
		Usage:     "Delete every state document under the base URI",
		UsageText: "statefs [options] clear-all",
		Action: func(c *cli.Context) error {
			store, err := openStore(c)
			if err != nil {
				return err
			}
			defer store.Close()

			count, err := store.ClearAll(c.Context)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "cleared %d state document(s)\n", count)
			return nil
		},
	}
}

func settingsCommand() *cli.Command {
	return &cli.Command{
		Name:      "settings",
		Usage:     "Print the setting catalog this backend consumes",
		UsageText: "statefs settings",
		Action: func(c *cli.Context) error {
			for _, def := range settings.Definitions {
				marker := " "
				if def.Sensitive {
					marker = "*"
				}
				fmt.Fprintf(c.App.Writer, "%s %-60s %-8s %s\n", marker, def.Name, def.Kind, def.Description)
			}
			return nil
		},
	}
}

func readInput(input string) ([]byte, error) {
	if input == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(input)
}
