/*
 * Copyright (C) 2026 Trellis Data, Inc.
 *
 * SPDX-License-Identifier: Apache-2.0
 */

// Package settings maps the host platform's flat configuration into
// the options each filesystem driver expects.
package settings

// Kind describes a setting's value type in the host platform's
// configuration system.
type Kind string

const (
	KindString  Kind = "string"
	KindInteger Kind = "integer"
	KindBoolean Kind = "boolean"
	KindObject  Kind = "object"
)

// Definition describes one first-class setting exposed to the host
// platform's configuration system.
type Definition struct {
	Name        string
	Description string
	Kind        Kind
	Sensitive   bool
}

// Definitions is the catalog of settings this backend consumes. The
// storage_options object additionally accepts arbitrary dotted keys
// that are passed through to the driver unchanged.
var Definitions = []Definition{
	{
		Name:        "state_backend.fs.protocol",
		Description: "The protocol of the filesystem to use.",
		Kind:        KindString,
	},
	{
		Name:        "state_backend.fs.storage_options",
		Description: "The storage options to use.",
		Kind:        KindObject,
	},

	{
		Name:        "state_backend.fs.storage_options.s3.key",
		Description: "The AWS Access Key ID for S3.",
		Kind:        KindString,
		Sensitive:   true,
	},
	{
		Name:        "state_backend.fs.storage_options.s3.secret",
		Description: "The AWS Secret Access Key for S3.",
		Kind:        KindString,
		Sensitive:   true,
	},
	{
		Name:        "state_backend.fs.storage_options.s3.token",
		Description: "The AWS session token for S3.",
		Kind:        KindString,
		Sensitive:   true,
	},
	{
		Name:        "state_backend.fs.storage_options.s3.endpoint_url",
		Description: "The URL of the S3 endpoint to use.",
		Kind:        KindString,
	},
	{
		Name:        "state_backend.fs.storage_options.s3.region",
		Description: "The AWS region of the S3 bucket.",
		Kind:        KindString,
	},
	{
		Name:        "state_backend.fs.storage_options.s3.profile",
		Description: "The AWS shared config profile to use.",
		Kind:        KindString,
	},
	{
		Name:        "state_backend.fs.storage_options.s3.use_path_style",
		Description: "Use path-style S3 addressing (required by MinIO).",
		Kind:        KindBoolean,
	},

	{
		Name:        "state_backend.fs.storage_options.gcs.project",
		Description: "The project for the GCS endpoint to use.",
		Kind:        KindString,
	},
	{
		Name:        "state_backend.fs.storage_options.gcs.token",
		Description: "Path to the service account credentials for GCS.",
		Kind:        KindString,
		Sensitive:   true,
	},
	{
		Name:        "state_backend.fs.storage_options.gcs.endpoint_url",
		Description: "The URL of the GCS endpoint to use.",
		Kind:        KindString,
	},

	{
		Name:        "state_backend.fs.storage_options.azure.connection_string",
		Description: "The connection string for the Azure endpoint to use.",
		Kind:        KindString,
		Sensitive:   true,
	},
	{
		Name:        "state_backend.fs.storage_options.azure.account_name",
		Description: "The name of the Azure storage account to use.",
		Kind:        KindString,
	},
	{
		Name:        "state_backend.fs.storage_options.azure.account_key",
		Description: "The key of the Azure storage account to use.",
		Kind:        KindString,
		Sensitive:   true,
	},

	{
		Name:        "state_backend.fs.storage_options.sftp.host",
		Description: "The SFTP host to connect to.",
		Kind:        KindString,
	},
	{
		Name:        "state_backend.fs.storage_options.sftp.port",
		Description: "The SFTP port to connect to.",
		Kind:        KindInteger,
	},
	{
		Name:        "state_backend.fs.storage_options.sftp.username",
		Description: "The username to authenticate with.",
		Kind:        KindString,
	},
	{
		Name:        "state_backend.fs.storage_options.sftp.password",
		Description: "The password to authenticate with.",
		Kind:        KindString,
		Sensitive:   true,
	},
	{
		Name:        "state_backend.fs.storage_options.sftp.pkey",
		Description: "An inline SSH private key in PEM form.",
		Kind:        KindString,
		Sensitive:   true,
	},
	{
		Name:        "state_backend.fs.storage_options.sftp.pkey_file",
		Description: "Path to an SSH private key file.",
		Kind:        KindString,
	},
	{
		Name:        "state_backend.fs.storage_options.sftp.passphrase",
		Description: "The passphrase for the SSH private key.",
		Kind:        KindString,
		Sensitive:   true,
	},
	{
		Name:        "state_backend.fs.storage_options.sftp.known_hosts",
		Description: "Path to a known_hosts file for host key checking.",
		Kind:        KindString,
	},
}
