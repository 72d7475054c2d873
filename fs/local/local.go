/*
 * Copyright (C) 2026 Trellis Data, Inc.
 *
 * SPDX-License-Identifier: Apache-2.0
 */

// Package local implements the "file" protocol on the local disk.
package local

import (
	"context"
	"errors"
	"fmt"
	iofs "io/fs"
	"net/url"
	"os"
	"path/filepath"

	"github.com/trellis-data/statefs/fs"
)

var ErrPathRequired = errors.New("file path is required in the base URI (e.g., file:///var/lib/state)")

func init() {
	fs.Register("file", func(_ context.Context, uri *url.URL, _ fs.Options) (fs.FileSystem, error) {
		return New(uri.Path)
	})
}

// FileSystem serves files under a root directory.
type FileSystem struct {
	root string
}

// New returns a filesystem rooted at the given directory. The
// directory does not have to exist yet.
func New(root string) (*FileSystem, error) {
	if root == "" {
		return nil, ErrPathRequired
	}
	return &FileSystem{root: filepath.Clean(root)}, nil
}

func (f *FileSystem) abs(path string) string {
	return filepath.Join(f.root, filepath.FromSlash(path))
}

func (f *FileSystem) ReadFile(_ context.Context, path string) ([]byte, error) {
	return os.ReadFile(f.abs(path))
}

func (f *FileSystem) WriteFile(_ context.Context, path string, data []byte) error {
	target := f.abs(path)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create parent directory: %w", err)
	}
	return os.WriteFile(target, data, 0o644)
}

func (f *FileSystem) Exists(_ context.Context, path string) (bool, error) {
	_, err := os.Stat(f.abs(path))
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (f *FileSystem) Remove(_ context.Context, path string) error {
	return os.Remove(f.abs(path))
}

func (f *FileSystem) List(_ context.Context, prefix string) ([]string, error) {
	entries, err := os.ReadDir(f.abs(prefix))
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names, nil
}

func (f *FileSystem) Protocol() string {
	return "file"
}

func (f *FileSystem) Close() error {
	return nil
}
