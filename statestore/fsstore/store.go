/*
 * Copyright (C) 2026 Trellis Data, Inc.
 *
 * SPDX-License-Identifier: Apache-2.0
 */

// Package fsstore persists state documents on any fs.FileSystem. Each
// state ID owns a directory containing state.json and, while held, an
// advisory lock file.
package fsstore

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"

	"github.com/trellis-data/statefs/fs"
	"github.com/trellis-data/statefs/statestore"
)

const (
	stateFileName = "state.json"
	lockFileName  = "lock"
)

// Store implements statestore.Store on a filesystem handle. The
// filesystem is expected to be rooted at the configured base URI.
type Store struct {
	fsys        fs.FileSystem
	lockTimeout time.Duration
	lockRetry   time.Duration
	clock       clock.Clock
	ownerID     string
}

var _ statestore.Store = (*Store)(nil)

type Option func(*Store)

func WithLockTimeout(d time.Duration) Option {
	return func(s *Store) { s.lockTimeout = d }
}

func WithLockRetry(d time.Duration) Option {
	return func(s *Store) { s.lockRetry = d }
}

// WithClock swaps the time source, for tests.
func WithClock(c clock.Clock) Option {
	return func(s *Store) { s.clock = c }
}

func New(fsys fs.FileSystem, opts ...Option) *Store {
	s := &Store{
		fsys:        fsys,
		lockTimeout: 60 * time.Second,
		lockRetry:   time.Second,
		clock:       clock.New(),
		ownerID:     uuid.NewString(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func stateFile(stateID string) string {
	return path.Join(stateID, stateFileName)
}

func lockFile(stateID string) string {
	return path.Join(stateID, lockFileName)
}

func (s *Store) Set(ctx context.Context, state *statestore.State) error {
	if state.ID == "" {
		return statestore.ErrStateIDRequired
	}
	state.UpdatedAt = s.clock.Now().UTC()

	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	slog.Info("writing state", "protocol", s.fsys.Protocol(), "state_id", state.ID)
	return s.fsys.WriteFile(ctx, stateFile(state.ID), data)
}

func (s *Store) Get(ctx context.Context, stateID string) (*statestore.State, error) {
	if stateID == "" {
		return nil, statestore.ErrStateIDRequired
	}

	slog.Info("reading state", "protocol", s.fsys.Protocol(), "state_id", stateID)
	data, err := s.fsys.ReadFile(ctx, stateFile(stateID))
	if err != nil {
		if fs.IsNotExist(err) {
			slog.Info("no state found", "state_id", stateID)
			return nil, nil
		}
		return nil, err
	}

	var state statestore.State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("unmarshal state for %q: %w", stateID, err)
	}
	if state.ID == "" {
		state.ID = stateID
	}
	return &state, nil
}

// Delete removes the state directory's objects one by one. Bulk
// deletes are avoided on purpose: MinIO rejects DeleteObjects requests
// without a Content-MD5 header.
func (s *Store) Delete(ctx context.Context, stateID string) error {
	if stateID == "" {
		return statestore.ErrStateIDRequired
	}

	names, err := s.fsys.List(ctx, stateID)
	if err != nil {
		return err
	}
	for _, name := range names {
		if err := s.fsys.Remove(ctx, path.Join(stateID, name)); err != nil && !fs.IsNotExist(err) {
			return err
		}
	}

	// Backends with real directories leave an empty one behind.
	if err := s.fsys.Remove(ctx, stateID); err != nil && !fs.IsNotExist(err) {
		slog.Debug("could not remove state directory", "state_id", stateID, "err", err)
	}
	return nil
}

func (s *Store) StateIDs(ctx context.Context, pattern string) ([]string, error) {
	names, err := s.fsys.List(ctx, "")
	if err != nil {
		return nil, err
	}

	var ids []string
	for _, name := range names {
		if pattern != "" {
			ok, err := path.Match(pattern, name)
			if err != nil {
				return nil, fmt.Errorf("bad state id pattern %q: %w", pattern, err)
			}
			if !ok {
				continue
			}
		}
		exists, err := s.fsys.Exists(ctx, stateFile(name))
		if err != nil {
			return nil, err
		}
		if exists {
			ids = append(ids, name)
		}
	}
	return ids, nil
}

func (s *Store) ClearAll(ctx context.Context) (int, error) {
	ids, err := s.StateIDs(ctx, "")
	if err != nil {
		return 0, err
	}
	for _, id := range ids {
		if err := s.Delete(ctx, id); err != nil {
			return 0, err
		}
	}
	return len(ids), nil
}

func (s *Store) Close() error {
	return s.fsys.Close()
}
