/*
 * Copyright (C) 2026 Trellis Data, Inc.
 *
 * SPDX-License-Identifier: Apache-2.0
 */

package fsstore

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/trellis-data/statefs/fs"
)

var errLockHeld = errors.New("state is locked by another owner")

// lockInfo is the content of a lock file. The owner ID lets a holder
// recognize its own lock; acquisition time drives staleness.
type lockInfo struct {
	OwnerID    string    `json:"owner_id"`
	AcquiredAt time.Time `json:"acquired_at"`
}

// isLocked reports whether a live foreign lock exists for stateID.
// Stale locks (older than the lock timeout) and unreadable lock files
// are removed on sight so a crashed holder cannot wedge the state.
func (s *Store) isLocked(ctx context.Context, stateID string) (bool, error) {
	data, err := s.fsys.ReadFile(ctx, lockFile(stateID))
	if err != nil {
		if fs.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}

	var info lockInfo
	if err := json.Unmarshal(data, &info); err != nil {
		slog.Warn("removing unreadable lock file", "state_id", stateID, "err", err)
		s.removeLock(ctx, stateID)
		return false, nil
	}
	if info.OwnerID == s.ownerID {
		return false, nil
	}
	if s.clock.Now().After(info.AcquiredAt.Add(s.lockTimeout)) {
		slog.Debug("removing stale lock", "state_id", stateID, "owner_id", info.OwnerID)
		s.removeLock(ctx, stateID)
		return false, nil
	}
	return true, nil
}

// WithLock waits for the advisory lock on stateID, runs fn while
// holding it, and releases it afterwards. Waiting polls at the
// configured retry interval until the lock frees up or ctx is
// canceled.
func (s *Store) WithLock(ctx context.Context, stateID string, fn func(ctx context.Context) error) error {
	wait := func() error {
		locked, err := s.isLocked(ctx, stateID)
		if err != nil {
			return backoff.Permanent(err)
		}
		if locked {
			return errLockHeld
		}
		return nil
	}
	policy := backoff.WithContext(backoff.NewConstantBackOff(s.lockRetry), ctx)
	if err := backoff.Retry(wait, policy); err != nil {
		return err
	}

	info := lockInfo{OwnerID: s.ownerID, AcquiredAt: s.clock.Now().UTC()}
	data, err := json.Marshal(info)
	if err != nil {
		return err
	}
	if err := s.fsys.WriteFile(ctx, lockFile(stateID), data); err != nil {
		return err
	}
	defer s.removeLock(ctx, stateID)

	return fn(ctx)
}

// removeLock is best effort; a leftover lock expires via the timeout.
func (s *Store) removeLock(ctx context.Context, stateID string) {
	if err := s.fsys.Remove(ctx, lockFile(stateID)); err != nil && !fs.IsNotExist(err) {
		slog.Warn("could not remove lock file", "state_id", stateID, "err", err)
	}
}
