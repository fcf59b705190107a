// SPDX-License-Identifier: MIT
//
// Copyright (C) 2025 The keyguard authors. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package envelope

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"

	"github.com/keyguardian/keyguard/internal"
)

// Standard is the production Suite: crypto/rand randomness and AES-256-GCM
// for both the data and the wrapping layer.
type Standard struct{}

// RandomBytes returns length cryptographically secure random bytes.
func (Standard) RandomBytes(length int) []byte {
	return internal.RandomBytes(length)
}

func gcm(key *Key) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key.raw)
	if err != nil {
		return nil, fmt.Errorf("aes cipher: %w", err)
	}

	return cipher.NewGCM(block)
}

// Seal AEAD-encrypts plaintext under key, enforcing the key's usages.
func (Standard) Seal(key *Key, use Usage, nonce, plaintext []byte) ([]byte, error) {
	if use&(UsageEncrypt|UsageWrap) == 0 || !key.Can(use) {
		return nil, ErrKeyUsage
	}

	if len(nonce) != NonceSize {
		return nil, ErrNonceSize
	}

	aead, err := gcm(key)
	if err != nil {
		return nil, err
	}

	return aead.Seal(nil, nonce, plaintext, nil), nil
}

// Open AEAD-decrypts ciphertext under key, enforcing the key's usages.
func (Standard) Open(key *Key, use Usage, nonce, ciphertext []byte) ([]byte, error) {
	if use&(UsageDecrypt|UsageUnwrap) == 0 || !key.Can(use) {
		return nil, ErrKeyUsage
	}

	if len(nonce) != NonceSize {
		return nil, ErrNonceSize
	}

	aead, err := gcm(key)
	if err != nil {
		return nil, err
	}

	return aead.Open(nil, nonce, ciphertext, nil)
}

// Export returns a copy of an extractable key's raw material, so it can be
// wrapped. Non-extractable keys, such as KEKs, refuse.
func (Standard) Export(key *Key) ([]byte, error) {
	if !key.extractable {
		return nil, ErrNotExtractable
	}

	out := make([]byte, len(key.raw))
	copy(out, key.raw)

	return out, nil
}
