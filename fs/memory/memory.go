/*
 * Copyright (C) 2026 Trellis Data, Inc.
 *
 * SPDX-License-Identifier: Apache-2.0
 */

// Package memory implements an in-process filesystem. It backs unit
// tests for code written against fs.FileSystem and is registered under
// the "memory" protocol.
package memory

import (
	"context"
	"fmt"
	iofs "io/fs"
	"net/url"
	"sort"
	"strings"
	"sync"

	"github.com/trellis-data/statefs/fs"
)

func init() {
	fs.Register("memory", func(_ context.Context, _ *url.URL, _ fs.Options) (fs.FileSystem, error) {
		return New(), nil
	})
}

// FileSystem stores objects in a map keyed by slash-separated path.
type FileSystem struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

func New() *FileSystem {
	return &FileSystem{objects: make(map[string][]byte)}
}

func (f *FileSystem) ReadFile(_ context.Context, path string) ([]byte, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	data, ok := f.objects[path]
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, iofs.ErrNotExist)
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (f *FileSystem) WriteFile(_ context.Context, path string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := make([]byte, len(data))
	copy(stored, data)
	f.objects[path] = stored
	return nil
}

func (f *FileSystem) Exists(_ context.Context, path string) (bool, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, ok := f.objects[path]
	return ok, nil
}

func (f *FileSystem) Remove(_ context.Context, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.objects[path]; !ok {
		return fmt.Errorf("%s: %w", path, iofs.ErrNotExist)
	}
	delete(f.objects, path)
	return nil
}

// List derives directories from object keys the way object stores do:
// "a/b/c" contributes child "b" under prefix "a".
func (f *FileSystem) List(_ context.Context, prefix string) ([]string, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	seen := make(map[string]struct{})
	for key := range f.objects {
		rest, ok := strings.CutPrefix(key, prefix)
		if !ok || rest == "" {
			continue
		}
		name, _, _ := strings.Cut(rest, "/")
		seen[name] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (f *FileSystem) Protocol() string {
	return "memory"
}

func (f *FileSystem) Close() error {
	return nil
}
