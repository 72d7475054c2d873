/*
 * Copyright (C) 2026 Trellis Data, Inc.
 *
 * SPDX-License-Identifier: Apache-2.0
 */

// Package sftp implements the "sftp" protocol over SSH.
package sftp

import (
	"context"
	"errors"
	"fmt"
	"io"
	iofs "io/fs"
	"net"
	"net/url"
	"os"
	"path"
	"strconv"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	"github.com/trellis-data/statefs/fs"
)

const DefaultPort = 22

var (
	ErrHostRequired = errors.New("sftp host is required (URI host or the host storage option)")
	ErrNoAuthMethod = errors.New("sftp requires a password or a private key")
)

// Settings are the first-class storage options for the sftp protocol.
// PKey holds an inline private key in PEM form; PKeyFile points at one
// on disk. Host key verification is skipped unless KnownHosts is set.
type Settings struct {
	Host       string `mapstructure:"host"`
	Port       int    `mapstructure:"port"`
	Username   string `mapstructure:"username"`
	Password   string `mapstructure:"password"`
	PKey       string `mapstructure:"pkey"`
	PKeyFile   string `mapstructure:"pkey_file"`
	Passphrase string `mapstructure:"passphrase"`
	KnownHosts string `mapstructure:"known_hosts"`

	Rest map[string]any `mapstructure:",remain"`
}

func init() {
	fs.Register("sftp", func(ctx context.Context, uri *url.URL, opts fs.Options) (fs.FileSystem, error) {
		var settings Settings
		if err := fs.DecodeOptions(opts, &settings); err != nil {
			return nil, err
		}
		return New(ctx, uri, settings)
	})
}

// FileSystem serves files under a root directory on a remote host.
type FileSystem struct {
	conn   *ssh.Client
	client *sftp.Client
	root   string
}

func New(_ context.Context, uri *url.URL, settings Settings) (*FileSystem, error) {
	applyURI(uri, &settings)
	if settings.Host == "" {
		return nil, ErrHostRequired
	}
	if settings.Port == 0 {
		settings.Port = DefaultPort
	}

	cfg, err := clientConfig(settings)
	if err != nil {
		return nil, err
	}

	addr := net.JoinHostPort(settings.Host, strconv.Itoa(settings.Port))
	conn, err := ssh.Dial("tcp", addr, cfg)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	client, err := sftp.NewClient(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open sftp session: %w", err)
	}

	return &FileSystem{
		conn:   conn,
		client: client,
		root:   uri.Path,
	}, nil
}

// applyURI fills connection settings from the base URI where the
// storage options left them blank.
func applyURI(uri *url.URL, settings *Settings) {
	if settings.Host == "" {
		settings.Host = uri.Hostname()
	}
	if settings.Port == 0 && uri.Port() != "" {
		if port, err := strconv.Atoi(uri.Port()); err == nil {
			settings.Port = port
		}
	}
	if settings.Username == "" && uri.User != nil {
		settings.Username = uri.User.Username()
		if pw, ok := uri.User.Password(); ok && settings.Password == "" {
			settings.Password = pw
		}
	}
}

func clientConfig(settings Settings) (*ssh.ClientConfig, error) {
	var auth []ssh.AuthMethod

	pem := []byte(settings.PKey)
	if settings.PKey == "" && settings.PKeyFile != "" {
		data, err := os.ReadFile(settings.PKeyFile)
		if err != nil {
			return nil, fmt.Errorf("read private key file: %w", err)
		}
		pem = data
	}
	if len(pem) > 0 {
		signer, err := parsePrivateKey(pem, settings.Passphrase)
		if err != nil {
			return nil, err
		}
		auth = append(auth, ssh.PublicKeys(signer))
	}
	if settings.Password != "" {
		auth = append(auth, ssh.Password(settings.Password))
	}
	if len(auth) == 0 {
		return nil, ErrNoAuthMethod
	}

	hostKeyCallback := ssh.InsecureIgnoreHostKey() //nolint:gosec // opt-in via known_hosts
	if settings.KnownHosts != "" {
		cb, err := knownhosts.New(settings.KnownHosts)
		if err != nil {
			return nil, fmt.Errorf("load known hosts: %w", err)
		}
		hostKeyCallback = cb
	}

	return &ssh.ClientConfig{
		User:            settings.Username,
		Auth:            auth,
		HostKeyCallback: hostKeyCallback,
	}, nil
}

// parsePrivateKey handles RSA, ECDSA, and Ed25519 keys in one place;
// the ssh package detects the key type from the PEM block.
func parsePrivateKey(pem []byte, passphrase string) (ssh.Signer, error) {
	var (
		signer ssh.Signer
		err    error
	)
	if passphrase != "" {
		signer, err = ssh.ParsePrivateKeyWithPassphrase(pem, []byte(passphrase))
	} else {
		signer, err = ssh.ParsePrivateKey(pem)
	}
	if err != nil {
		return nil, fmt.Errorf("sftp private key is not in a valid format: %w", err)
	}
	return signer, nil
}

func (f *FileSystem) abs(p string) string {
	return path.Join(f.root, p)
}

func (f *FileSystem) ReadFile(_ context.Context, p string) ([]byte, error) {
	file, err := f.client.Open(f.abs(p))
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}

func (f *FileSystem) WriteFile(_ context.Context, p string, data []byte) error {
	target := f.abs(p)
	if err := f.client.MkdirAll(path.Dir(target)); err != nil {
		return fmt.Errorf("create parent directory: %w", err)
	}
	file, err := f.client.Create(target)
	if err != nil {
		return err
	}
	if _, err := file.Write(data); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func (f *FileSystem) Exists(_ context.Context, p string) (bool, error) {
	_, err := f.client.Stat(f.abs(p))
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (f *FileSystem) Remove(_ context.Context, p string) error {
	return f.client.Remove(f.abs(p))
}

func (f *FileSystem) List(_ context.Context, prefix string) ([]string, error) {
	entries, err := f.client.ReadDir(f.abs(prefix))
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
	return "sftp"
}

func (f *FileSystem) Close() error {
	clientErr := f.client.Close()
	connErr := f.conn.Close()
	if clientErr != nil {
		return clientErr
	}
	return connErr
}
