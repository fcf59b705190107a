// SPDX-License-Identifier: MIT
//
// Copyright (C) 2025 The keyguard authors. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package storage_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keyguardian/keyguard"
	"github.com/keyguardian/keyguard/storage"
)

var testEnvelope = &keyguard.Envelope{
	WrappedDEK: "d3JhcHBlZA==",
	Ciphertext: "Y2lwaGVydGV4dA==",
	IV:         "bm9uY2Ux",
	WrapIV:     "bm9uY2Uy",
	Salt:       "c2FsdA==",
	Metadata: keyguard.Metadata{
		Algorithm:     "AES-256-GCM",
		KeyDerivation: "argon2id",
		Timestamp:     1735689600000,
		Version:       2,
	},
}

func newStore(t *testing.T) *storage.FileStore {
	t.Helper()

	store, err := storage.NewFileStore(filepath.Join(t.TempDir(), "envelopes"))
	require.NoError(t, err)

	return store
}

func TestPutGetRoundTrip(t *testing.T) {
	store := newStore(t)

	require.NoError(t, store.Put("wallet-1", testEnvelope))

	got, err := store.Get("wallet-1")
	require.NoError(t, err)
	assert.Equal(t, testEnvelope, got)
}

func TestPutReplaces(t *testing.T) {
	store := newStore(t)

	require.NoError(t, store.Put("wallet-1", testEnvelope))

	updated := *testEnvelope
	updated.Metadata.Version = 3
	require.NoError(t, store.Put("wallet-1", &updated))

	got, err := store.Get("wallet-1")
	require.NoError(t, err)
	assert.Equal(t, 3, got.Metadata.Version)
}

func TestGetMissing(t *testing.T) {
	store := newStore(t)

	_, err := store.Get("absent")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestDeleteIdempotent(t *testing.T) {
	store := newStore(t)

	require.NoError(t, store.Put("wallet-1", testEnvelope))
	require.NoError(t, store.Delete("wallet-1"))
	require.NoError(t, store.Delete("wallet-1"))

	_, err := store.Get("wallet-1")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestWalletIDValidation(t *testing.T) {
	store := newStore(t)

	for _, id := range []string{"", ".", "..", "a/b", `a\b`, "../escape"} {
		assert.Error(t, store.Put(id, testEnvelope), "id %q", id)

		_, err := store.Get(id)
		assert.Error(t, err, "id %q", id)

		assert.Error(t, store.Delete(id), "id %q", id)
	}
}

func TestStoredFileShape(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "envelopes")

	store, err := storage.NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Put("wallet-1", testEnvelope))

	raw, err := os.ReadFile(filepath.Join(dir, "wallet-1.json"))
	require.NoError(t, err)

	for _, field := range []string{"wrappedDEK", "ciphertext", "iv", "wrapIv", "salt", "metadata"} {
		assert.Contains(t, string(raw), field)
	}

	info, err := os.Stat(filepath.Join(dir, "wallet-1.json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

var _ storage.Store = (*storage.FileStore)(nil)
