/*
 * Copyright (C) 2026 Trellis Data, Inc.
 *
 * SPDX-License-Identifier: Apache-2.0
 */

// Package fs defines the filesystem abstraction that state storage is
// built on. Protocol drivers register themselves by name and are opened
// through Open, which resolves protocol aliases and hands the parsed
// base URI plus backend options to the driver.
package fs

import (
	"context"
	"errors"
	"fmt"
	iofs "io/fs"
	"net/url"
	"sort"
	"strings"
	"sync"
)

var (
	ErrUnknownProtocol = errors.New("unknown filesystem protocol")
	ErrDriverConflict  = errors.New("filesystem driver already registered")
)

// Options is the flat bag of backend-specific options handed to a
// driver. Drivers decode it into their own settings struct and are
// expected to tolerate keys they do not recognize.
type Options map[string]any

// FileSystem is a filesystem handle rooted at the base URI it was
// opened with. All paths are slash-separated and relative to that root.
type FileSystem interface {
	// ReadFile returns the full content of the object at path. A
	// missing object yields an error wrapping io/fs.ErrNotExist.
	ReadFile(ctx context.Context, path string) ([]byte, error)

	// WriteFile replaces the object at path, creating parent
	// directories where the backend has such a concept.
	WriteFile(ctx context.Context, path string, data []byte) error

	// Exists reports whether an object exists at path.
	Exists(ctx context.Context, path string) (bool, error)

	// Remove deletes the single object at path. Backends never delete
	// recursively through this interface.
	Remove(ctx context.Context, path string) error

	// List returns the names of the immediate children under prefix.
	// A prefix that does not exist yields an empty slice.
	List(ctx context.Context, prefix string) ([]string, error)

	// Protocol returns the resolved protocol name the handle was
	// opened with.
	Protocol() string

	Close() error
}

// Driver opens a filesystem rooted at uri. The options map has already
// been filtered down to this protocol's keys.
type Driver func(ctx context.Context, uri *url.URL, opts Options) (FileSystem, error)

var (
	driversMu sync.RWMutex
	drivers   = make(map[string]Driver)
)

// aliases maps configuration-facing protocol names to driver names.
var aliases = map[string]string{
	"azure": "abfs",
	"local": "file",
}

// ResolveProtocol maps a configured protocol name to the name of the
// driver that serves it.
func ResolveProtocol(protocol string) string {
	if name, ok := aliases[protocol]; ok {
		return name
	}
	return protocol
}

// Register makes a driver available under the given protocol name. It
// is intended to be called from driver package init functions.
func Register(protocol string, driver Driver) {
	driversMu.Lock()
	defer driversMu.Unlock()
	if _, dup := drivers[protocol]; dup {
		panic(fmt.Sprintf("fs: %v: %v", ErrDriverConflict, protocol))
	}
	drivers[protocol] = driver
}

// Protocols returns the protocol names of all registered drivers,
// sorted.
func Protocols() []string {
	driversMu.RLock()
	defer driversMu.RUnlock()
	names := make([]string, 0, len(drivers))
	for name := range drivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open resolves the protocol, rewrites a "fs://" scheme placeholder in
// the URI to the resolved protocol, and opens a filesystem through the
// registered driver.
func Open(ctx context.Context, protocol, uri string, opts Options) (FileSystem, error) {
	resolved := ResolveProtocol(protocol)

	driversMu.RLock()
	driver, ok := drivers[resolved]
	driversMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProtocol, protocol)
	}

	if rest, found := strings.CutPrefix(uri, "fs://"); found {
		uri = resolved + "://" + rest
	}
	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("parse uri %q: %w", uri, err)
	}

	return driver(ctx, u, opts)
}

// IsNotExist reports whether err indicates a missing object.
func IsNotExist(err error) bool {
	return errors.Is(err, iofs.ErrNotExist)
}
