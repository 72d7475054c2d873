/*
 * Copyright (C) 2026 Trellis Data, Inc.
 *
 * SPDX-License-Identifier: Apache-2.0
 */

// Package azure implements the "abfs" protocol on Azure Blob Storage.
// The configuration surface also accepts "azure" as the protocol name,
// resolved to "abfs" before this driver is reached.
package azure

import (
	"context"
	"errors"
	"fmt"
	"io"
	iofs "io/fs"
	"net/url"
	"path"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/container"

	"github.com/trellis-data/statefs/fs"
)

var (
	ErrContainerRequired = errors.New("container is required in the base URI (e.g., abfs://my-container/state)")
	ErrAccountRequired   = errors.New("either connection_string or account_name is required for azure")
)

// Settings are the first-class storage options for the azure protocol.
// A connection string wins over account name and key; an account name
// alone falls back to the default Azure credential chain.
type Settings struct {
	ConnectionString string `mapstructure:"connection_string"`
	AccountName      string `mapstructure:"account_name"`
	AccountKey       string `mapstructure:"account_key"`

	Rest map[string]any `mapstructure:",remain"`
}

func init() {
	fs.Register("abfs", func(ctx context.Context, uri *url.URL, opts fs.Options) (fs.FileSystem, error) {
		var settings Settings
		if err := fs.DecodeOptions(opts, &settings); err != nil {
			return nil, err
		}
		return New(ctx, uri, settings)
	})
}

// FileSystem serves blobs under a container and key prefix.
type FileSystem struct {
	client    *azblob.Client
	container string
	prefix    string
}

func New(_ context.Context, uri *url.URL, settings Settings) (*FileSystem, error) {
	if uri.Host == "" {
		return nil, ErrContainerRequired
	}

	client, err := newClient(settings)
	if err != nil {
		return nil, err
	}

	return &FileSystem{
		client:    client,
		container: uri.Host,
		prefix:    strings.Trim(uri.Path, "/"),
	}, nil
}

func newClient(settings Settings) (*azblob.Client, error) {
	switch {
	case settings.ConnectionString != "":
		return azblob.NewClientFromConnectionString(settings.ConnectionString, nil)

	case settings.AccountName != "" && settings.AccountKey != "":
		cred, err := azblob.NewSharedKeyCredential(settings.AccountName, settings.AccountKey)
		if err != nil {
			return nil, fmt.Errorf("build shared key credential: %w", err)
		}
		return azblob.NewClientWithSharedKeyCredential(serviceURL(settings.AccountName), cred, nil)

	case settings.AccountName != "":
		cred, err := azidentity.NewDefaultAzureCredential(nil)
		if err != nil {
			return nil, fmt.Errorf("build default azure credential: %w", err)
		}
		return azblob.NewClient(serviceURL(settings.AccountName), cred, nil)

	default:
		return nil, ErrAccountRequired
	}
}

func serviceURL(accountName string) string {
	return fmt.Sprintf("https://%s.blob.core.windows.net/", accountName)
}

func (f *FileSystem) key(p string) string {
	return path.Join(f.prefix, p)
}

func (f *FileSystem) ReadFile(ctx context.Context, p string) ([]byte, error) {
	resp, err := f.client.DownloadStream(ctx, f.container, f.key(p), nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return nil, fmt.Errorf("%s: %w", p, iofs.ErrNotExist)
		}
		return nil, err
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

func (f *FileSystem) WriteFile(ctx context.Context, p string, data []byte) error {
	contentType := "application/json"
	_, err := f.client.UploadBuffer(ctx, f.container, f.key(p), data, &azblob.UploadBufferOptions{
		HTTPHeaders: &blob.HTTPHeaders{BlobContentType: &contentType},
	})
	return err
}

func (f *FileSystem) Exists(ctx context.Context, p string) (bool, error) {
	blobClient := f.client.ServiceClient().NewContainerClient(f.container).NewBlobClient(f.key(p))
	_, err := blobClient.GetProperties(ctx, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (f *FileSystem) Remove(ctx context.Context, p string) error {
	_, err := f.client.DeleteBlob(ctx, f.container, f.key(p), nil)
	if bloberror.HasCode(err, bloberror.BlobNotFound) {
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
	containerClient := f.client.ServiceClient().NewContainerClient(f.container)
	pager := containerClient.NewListBlobsHierarchyPager("/", &container.ListBlobsHierarchyOptions{
		Prefix: &keyPrefix,
	})
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing blobs failed: %w", err)
		}
		for _, bp := range page.Segment.BlobPrefixes {
			name := path.Base(strings.TrimSuffix(*bp.Name, "/"))
			if name != "" {
				names = append(names, name)
			}
		}
		for _, item := range page.Segment.BlobItems {
			if name := strings.TrimPrefix(*item.Name, keyPrefix); name != "" {
				names = append(names, name)
			}
		}
	}
	return names, nil
}

func (f *FileSystem) Protocol() string {
	return "abfs"
}

func (f *FileSystem) Close() error {
	return nil
}
