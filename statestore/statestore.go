/*
 * Copyright (C) 2026 Trellis Data, Inc.
 *
 * SPDX-License-Identifier: Apache-2.0
 */

// Package statestore defines the state document persisted per pipeline
// job and the store interface backends implement.
package statestore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"time"
)

var ErrStateIDRequired = errors.New("state id is required")

// State is the last-known execution state of a named pipeline job.
// Payloads are kept as raw JSON; this backend stores them verbatim and
// never merges or interprets them.
type State struct {
	ID        string          `json:"state_id"`
	Completed json.RawMessage `json:"completed,omitempty"`
	Partial   json.RawMessage `json:"partial,omitempty"`
	UpdatedAt time.Time       `json:"updated_at,omitzero"`
}

// IsEmpty reports whether the state carries no payload at all.
func (s *State) IsEmpty() bool {
	return len(s.Completed) == 0 && len(s.Partial) == 0
}

// Equal compares identity and payloads, ignoring UpdatedAt.
func (s *State) Equal(other *State) bool {
	if s == nil || other == nil {
		return s == other
	}
	return s.ID == other.ID &&
		bytes.Equal(s.Completed, other.Completed) &&
		bytes.Equal(s.Partial, other.Partial)
}

// Store persists state documents keyed by state ID.
type Store interface {
	// Set overwrites the full document for state.ID.
	Set(ctx context.Context, state *State) error

	// Get returns the document for stateID, or (nil, nil) when no
	// state has been written for it.
	Get(ctx context.Context, stateID string) (*State, error)

	// Delete removes the document for stateID. Deleting unknown state
	// is a no-op.
	Delete(ctx context.Context, stateID string) error

	// StateIDs lists the known state IDs, optionally filtered by a
	// glob pattern.
	StateIDs(ctx context.Context, pattern string) ([]string, error)

	// ClearAll deletes every document and returns how many were
	// removed.
	ClearAll(ctx context.Context) (int, error)

	// WithLock runs fn while holding the advisory lock for stateID.
	WithLock(ctx context.Context, stateID string, fn func(ctx context.Context) error) error

	Close() error
}
