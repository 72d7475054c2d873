/*
 * Copyright (C) 2026 Trellis Data, Inc.
 *
 * SPDX-License-Identifier: Apache-2.0
 */

// Package gcs implements the "gcs" protocol on Google Cloud Storage.
package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	iofs "io/fs"
	"net/url"
	"path"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/trellis-data/statefs/fs"
)

var ErrBucketRequired = errors.New("bucket is required in the base URI (e.g., gcs://my-bucket/state)")

// Settings are the first-class storage options for the gcs protocol.
// Token is a path to a service account credentials file; EndpointURL
// points at an emulator or custom endpoint and switches the client to
// anonymous auth when no token is given.
type Settings struct {
	Project     string `mapstructure:"project"`
	Token       string `mapstructure:"token"`
	EndpointURL string `mapstructure:"endpoint_url"`

	Rest map[string]any `mapstructure:",remain"`
}

func init() {
	fs.Register("gcs", func(ctx context.Context, uri *url.URL, opts fs.Options) (fs.FileSystem, error) {
		var settings Settings
		if err := fs.DecodeOptions(opts, &settings); err != nil {
			return nil, err
		}
		return New(ctx, uri, settings)
	})
}

// FileSystem serves objects under a bucket and key prefix.
type FileSystem struct {
	client *storage.Client
	bucket *storage.BucketHandle
	prefix string
}

func New(ctx context.Context, uri *url.URL, settings Settings) (*FileSystem, error) {
	if uri.Host == "" {
		return nil, ErrBucketRequired
	}

	var clientOpts []option.ClientOption
	if settings.Token != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(settings.Token))
	}
	if settings.EndpointURL != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(settings.EndpointURL))
		if settings.Token == "" {
			clientOpts = append(clientOpts, option.WithoutAuthentication())
		}
	}

	client, err := storage.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	bucket := client.Bucket(uri.Host)
	if settings.Project != "" {
		bucket = bucket.UserProject(settings.Project)
	}

	return &FileSystem{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(uri.Path, "/"),
	}, nil
}

func (f *FileSystem) key(p string) string {
	return path.Join(f.prefix, p)
}

func (f *FileSystem) ReadFile(ctx context.Context, p string) ([]byte, error) {
	r, err := f.bucket.Object(f.key(p)).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, fmt.Errorf("%s: %w", p, iofs.ErrNotExist)
		}
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

func (f *FileSystem) WriteFile(ctx context.Context, p string, data []byte) error {
	w := f.bucket.Object(f.key(p)).NewWriter(ctx)
	w.ContentType = "application/json"
	if _, err := w.Write(data); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func (f *FileSystem) Exists(ctx context.Context, p string) (bool, error) {
	_, err := f.bucket.Object(f.key(p)).Attrs(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (f *FileSystem) Remove(ctx context.Context, p string) error {
	err := f.bucket.Object(f.key(p)).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("%s: %w", p, iofs.ErrNotExist)
	}
	return err
}

func (f *FileSystem) List(ctx context.Context, prefix string) ([]string, error) {
	keyPrefix := f.key(prefix)
	if keyPrefix != "" {
		keyPrefix += "/"
	}

	var names []string
	objs := f.bucket.Objects(ctx, &storage.Query{
		Prefix:    keyPrefix,
		Delimiter: "/",
	})
	for {
		attrs, err := objs.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("querying cloud storage failed: %w", err)
		}
		if attrs.Prefix != "" {
			names = append(names, path.Base(strings.TrimSuffix(attrs.Prefix, "/")))
			continue
		}
		if name := strings.TrimPrefix(attrs.Name, keyPrefix); name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

func (f *FileSystem) Protocol() string {
	return "gcs"
}

func (f *FileSystem) Close() error {
	return f.client.Close()
}
