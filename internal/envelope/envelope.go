// SPDX-License-Identifier: MIT
//
// Copyright (C) 2025 The keyguard authors. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package envelope implements the KEK/DEK two-tier AEAD core of the
// persisted envelope: a key derived from low-entropy material wraps a
// randomly generated key that directly encrypts the signing key.
//
// Keys carry explicit usages, so a KEK can only wrap and unwrap, and a DEK
// can only encrypt and decrypt. The cryptographic primitives sit behind the
// Suite interface, injected by the caller, which makes them substitutable in
// tests and keeps the package free of ambient platform state.
package envelope

import (
	"errors"
	"fmt"
)

const (
	// KeySize is the byte length of KEKs and DEKs.
	KeySize = 32

	// NonceSize is the byte length of AEAD nonces (96 bits).
	NonceSize = 12

	// SaltSize is the byte length of KEK derivation salts.
	SaltSize = 16
)

var (
	// ErrKeyUsage indicates an operation the key's usages do not permit.
	ErrKeyUsage = errors.New("operation not permitted by key usage")

	// ErrNotExtractable indicates an export attempt on a non-extractable key.
	ErrNotExtractable = errors.New("key is not extractable")

	// ErrUnwrap indicates an AEAD authentication failure unwrapping a DEK.
	// AEAD cannot distinguish a wrong key from corrupted bytes, so callers
	// must surface both possibilities.
	ErrUnwrap = errors.New("wrapped key authentication failed")

	// ErrDecrypt indicates an AEAD authentication failure on the data layer,
	// after the DEK itself unwrapped cleanly.
	ErrDecrypt = errors.New("ciphertext authentication failed")

	// ErrKeySize indicates key material of the wrong length.
	ErrKeySize = fmt.Errorf("key material must be %d bytes", KeySize)

	// ErrNonceSize indicates a nonce of the wrong length.
	ErrNonceSize = fmt.Errorf("nonce must be %d bytes", NonceSize)
)

// Usage is a bitmask restricting what a key may be used for.
type Usage byte

const (
	// UsageEncrypt permits data encryption.
	UsageEncrypt Usage = 1 << iota

	// UsageDecrypt permits data decryption.
	UsageDecrypt

	// UsageWrap permits wrapping another key.
	UsageWrap

	// UsageUnwrap permits unwrapping another key.
	UsageUnwrap
)

// Key is a handle over raw key material restricted by usages. A KEK is
// created non-extractable, which limits misuse if the handle leaks.
type Key struct {
	raw         []byte
	usages      Usage
	extractable bool
}

// Can reports whether the key permits the given usage.
func (k *Key) Can(u Usage) bool {
	return k.usages&u == u
}

// Wipe zeroes the key material. The handle is unusable afterwards.
func (k *Key) Wipe() {
	for i := range k.raw {
		k.raw[i] = 0
	}
	k.raw = nil
	k.usages = 0
}

// Suite is the narrow cryptographic capability injected into the envelope
// operations: a secure random source, AEAD seal and open gated on key
// usages, and key export.
type Suite interface {
	// RandomBytes returns length cryptographically secure random bytes.
	RandomBytes(length int) []byte

	// Seal AEAD-encrypts plaintext under key with the given nonce. The key
	// must permit use, which is UsageEncrypt for data and UsageWrap for key
	// material.
	Seal(key *Key, use Usage, nonce, plaintext []byte) ([]byte, error)

	// Open reverses Seal. A tag mismatch is reported as an authentication
	// failure, never as wrong plaintext.
	Open(key *Key, use Usage, nonce, ciphertext []byte) ([]byte, error)

	// Export returns a copy of an extractable key's raw material.
	Export(key *Key) ([]byte, error)
}

// NewKEK builds a key-encryption key from derived material. The handle can
// only wrap and unwrap, and cannot be exported.
func NewKEK(material []byte) (*Key, error) {
	if len(material) != KeySize {
		return nil, ErrKeySize
	}

	raw := make([]byte, KeySize)
	copy(raw, material)

	return &Key{raw: raw, usages: UsageWrap | UsageUnwrap}, nil
}

// GenerateDEK draws a fresh random data-encryption key from the suite. The
// handle can encrypt and decrypt, and is extractable so it can be wrapped.
func GenerateDEK(s Suite) *Key {
	return &Key{
		raw:         s.RandomBytes(KeySize),
		usages:      UsageEncrypt | UsageDecrypt,
		extractable: true,
	}
}

// dekFromRaw rebuilds a DEK handle from unwrapped material.
func dekFromRaw(raw []byte) (*Key, error) {
	if len(raw) != KeySize {
		return nil, ErrKeySize
	}

	return &Key{raw: raw, usages: UsageEncrypt | UsageDecrypt, extractable: true}, nil
}

// Encrypt AEAD-encrypts the secret under the DEK with a fresh random nonce,
// returning the ciphertext and the nonce. Every call draws a new nonce; it is
// never reused for the same key.
func Encrypt(s Suite, dek *Key, secret []byte) (ciphertext, iv []byte, err error) {
	iv = s.RandomBytes(NonceSize)

	ciphertext, err = s.Seal(dek, UsageEncrypt, iv, secret)
	if err != nil {
		return nil, nil, err
	}

	return ciphertext, iv, nil
}

// Decrypt reverses Encrypt with the envelope's own nonce.
func Decrypt(s Suite, dek *Key, iv, ciphertext []byte) ([]byte, error) {
	plaintext, err := s.Open(dek, UsageDecrypt, iv, ciphertext)
	if err != nil {
		return nil, errors.Join(ErrDecrypt, err)
	}

	return plaintext, nil
}

// Wrap AEAD-encrypts the DEK's material under the KEK with the provided wrap
// nonce. The nonce is generated independently from the data nonce and both
// must be persisted, or the wrapping is unrecoverable.
func Wrap(s Suite, kek, dek *Key, wrapIv []byte) ([]byte, error) {
	if len(wrapIv) != NonceSize {
		return nil, ErrNonceSize
	}

	raw, err := s.Export(dek)
	if err != nil {
		return nil, err
	}

	return s.Seal(kek, UsageWrap, wrapIv, raw)
}

// Unwrap recovers the DEK from its wrapped form. An AEAD tag mismatch is
// returned as ErrUnwrap.
func Unwrap(s Suite, kek *Key, wrapped, wrapIv []byte) (*Key, error) {
	if len(wrapIv) != NonceSize {
		return nil, ErrNonceSize
	}

	raw, err := s.Open(kek, UsageUnwrap, wrapIv, wrapped)
	if err != nil {
		return nil, errors.Join(ErrUnwrap, err)
	}

	return dekFromRaw(raw)
}
