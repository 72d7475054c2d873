/*
 * Copyright (C) 2026 Trellis Data, Inc.
 *
 * SPDX-License-Identifier: Apache-2.0
 */

// Package s3 implements the "s3" protocol on Amazon S3 and
// S3-compatible object stores such as MinIO.
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	iofs "io/fs"
	"net/url"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/trellis-data/statefs/fs"
)

var ErrBucketRequired = errors.New("bucket is required in the base URI (e.g., s3://my-bucket/state)")

// Settings are the first-class storage options for the s3 protocol.
// Key and Secret follow the configuration surface's naming and are
// mapped to an AWS static credentials provider.
type Settings struct {
	Key          string `mapstructure:"key"`
	Secret       string `mapstructure:"secret"`
	Token        string `mapstructure:"token"`
	EndpointURL  string `mapstructure:"endpoint_url"`
	Region       string `mapstructure:"region"`
	Profile      string `mapstructure:"profile"`
	UsePathStyle bool   `mapstructure:"use_path_style"`

	Rest map[string]any `mapstructure:",remain"`
}

func init() {
	fs.Register("s3", func(ctx context.Context, uri *url.URL, opts fs.Options) (fs.FileSystem, error) {
		var settings Settings
		if err := fs.DecodeOptions(opts, &settings); err != nil {
			return nil, err
		}
		return New(ctx, uri, settings)
	})
}

// FileSystem serves objects under a bucket and key prefix.
type FileSystem struct {
	client *s3.Client
	bucket string
	prefix string
}

// New opens the bucket named by the URI host, rooted at the URI path.
func New(ctx context.Context, uri *url.URL, settings Settings) (*FileSystem, error) {
	if uri.Host == "" {
		return nil, ErrBucketRequired
	}

	cfgOpts := []func(*awsconfig.LoadOptions) error{}
	if settings.Region != "" {
		cfgOpts = append(cfgOpts, awsconfig.WithRegion(settings.Region))
	}
	if settings.Profile != "" {
		cfgOpts = append(cfgOpts, awsconfig.WithSharedConfigProfile(settings.Profile))
	}
	if settings.Key != "" && settings.Secret != "" {
		static := credentials.NewStaticCredentialsProvider(settings.Key, settings.Secret, settings.Token)
		cfgOpts = append(cfgOpts, awsconfig.WithCredentialsProvider(static))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, cfgOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if settings.EndpointURL != "" {
			o.BaseEndpoint = aws.String(settings.EndpointURL)
		}
		if settings.UsePathStyle {
			o.UsePathStyle = true
		}
	})

	return &FileSystem{
		client: client,
		bucket: uri.Host,
		prefix: strings.Trim(uri.Path, "/"),
	}, nil
}

func (f *FileSystem) key(p string) string {
	return path.Join(f.prefix, p)
}

func (f *FileSystem) ReadFile(ctx context.Context, p string) ([]byte, error) {
	out, err := f.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(f.bucket),
		Key:    aws.String(f.key(p)),
	})
	if err != nil {
		if isNoSuchKey(err) {
			return nil, fmt.Errorf("%s: %w", p, iofs.ErrNotExist)
		}
		return nil, err
	}
	defer out.Body.Close()
	return io.ReadAll(out.Body)
}

func (f *FileSystem) WriteFile(ctx context.Context, p string, data []byte) error {
	_, err := f.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(f.bucket),
		Key:         aws.String(f.key(p)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	return err
}

func (f *FileSystem) Exists(ctx context.Context, p string) (bool, error) {
	_, err := f.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(f.bucket),
		Key:    aws.String(f.key(p)),
	})
	if err != nil {
		if isNoSuchKey(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Remove deletes a single object. S3 treats deleting a missing key as
// success, which matches the store's per-object cleanup.
func (f *FileSystem) Remove(ctx context.Context, p string) error {
	_, err := f.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(f.bucket),
		Key:    aws.String(f.key(p)),
	})
	return err
}

func (f *FileSystem) List(ctx context.Context, prefix string) ([]string, error) {
	keyPrefix := f.key(prefix)
	if keyPrefix != "" {
		keyPrefix += "/"
	}

	var names []string
	paginator := s3.NewListObjectsV2Paginator(f.client, &s3.ListObjectsV2Input{
		Bucket:    aws.String(f.bucket),
		Prefix:    aws.String(keyPrefix),
		Delimiter: aws.String("/"),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, cp := range page.CommonPrefixes {
			name := strings.TrimSuffix(strings.TrimPrefix(aws.ToString(cp.Prefix), keyPrefix), "/")
			if name != "" {
				names = append(names, name)
			}
		}
		for _, obj := range page.Contents {
			name := strings.TrimPrefix(aws.ToString(obj.Key), keyPrefix)
			if name != "" {
				names = append(names, name)
			}
		}
	}
	return names, nil
}

func (f *FileSystem) Protocol() string {
	return "s3"
}

func (f *FileSystem) Close() error {
	return nil
}

func isNoSuchKey(err error) bool {
	var noKey *types.NoSuchKey
	if errors.As(err, &noKey) {
		return true
	}
	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		return code == "NoSuchKey" || code == "NotFound"
	}
	return false
}
