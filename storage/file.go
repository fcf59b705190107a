// SPDX-License-Identifier: MIT
//
// Copyright (C) 2025 The keyguard authors. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/keyguardian/keyguard"
)

var errBadWalletID = errors.New("wallet id must be a non-empty name without path separators")

// FileStore keeps one JSON envelope file per wallet ID under a directory.
// Envelope ciphertext is already protection enough; the restrictive file
// modes just avoid leaking metadata to other local users.
type FileStore struct {
	dir string
}

// NewFileStore returns a FileStore rooted at dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	return &FileStore{dir: dir}, nil
}

func (f *FileStore) path(id string) (string, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return "", errBadWalletID
	}

	return filepath.Join(f.dir, id+".json"), nil
}

// Put implements Store.
func (f *FileStore) Put(id string, env *keyguard.Envelope) error {
	path, err := f.path(id)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("encoding envelope: %w", err)
	}

	return os.WriteFile(path, payload, 0o600)
}

// Get implements Store.
func (f *FileStore) Get(id string) (*keyguard.Envelope, error) {
	path, err := f.path(id)
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}

	if err != nil {
		return nil, err
	}

	env := &keyguard.Envelope{}
	if err := json.Unmarshal(raw, env); err != nil {
		return nil, fmt.Errorf("decoding envelope: %w", err)
	}

	return env, nil
}

// Delete implements Store.
func (f *FileStore) Delete(id string) error {
	path, err := f.path(id)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	return nil
}
