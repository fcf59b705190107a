// SPDX-License-Identifier: MIT
//
// Copyright (C) 2025 The keyguard authors. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package kdf provides the tagged key derivation functions protecting the
// low-entropy session material.
//
// The primary path is memory-hard (Argon2id). The fallback is iterated
// PBKDF2 over SHA-256. The algorithm actually used is returned as an explicit
// identifier, recorded once by the caller, and replayed at verification time
// rather than re-detected.
package kdf

import (
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/bytemare/ksf"
	"golang.org/x/crypto/pbkdf2"

	"github.com/keyguardian/keyguard/internal/tag"
)

// MinPBKDF2Iterations is the lowest acceptable iteration count for the
// fallback derivation.
const MinPBKDF2Iterations = 200_000

var (
	// ErrUnknownIdentifier indicates an unrecognized KDF tag.
	ErrUnknownIdentifier = errors.New("unknown key derivation identifier")

	// ErrEmptySecret indicates derivation over an empty secret.
	ErrEmptySecret = errors.New("derivation secret is empty")

	// ErrEmptySalt indicates derivation without a salt.
	ErrEmptySalt = errors.New("derivation salt is empty")

	// ErrIterations indicates a fallback iteration count below the floor.
	ErrIterations = fmt.Errorf("pbkdf2 iterations below the minimum of %d", MinPBKDF2Iterations)
)

// Identifier designates a key derivation algorithm.
type Identifier byte

const (
	// Argon2id is the memory-hard primary derivation.
	Argon2id Identifier = 1 + iota

	// PBKDF2SHA256 is the iterated-hash fallback derivation.
	PBKDF2SHA256
)

// String returns the stable tag recorded in envelope metadata and
// registration records.
func (i Identifier) String() string {
	switch i {
	case Argon2id:
		return tag.KDFArgon2id
	case PBKDF2SHA256:
		return tag.KDFPBKDF2
	default:
		return "unknown"
	}
}

// Parse maps a recorded tag back to its Identifier.
func Parse(s string) (Identifier, error) {
	switch s {
	case tag.KDFArgon2id:
		return Argon2id, nil
	case tag.KDFPBKDF2:
		return PBKDF2SHA256, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownIdentifier, s)
	}
}

// Deriver performs tagged key derivation with fixed parameters.
type Deriver struct {
	// Iterations is the PBKDF2 iteration count. Must be at least
	// MinPBKDF2Iterations.
	Iterations int

	// DisableMemoryHard forces the fallback even when Argon2id is requested.
	// The same secret and salt are used on the fallback path, and the
	// returned identifier reflects the algorithm that actually ran.
	DisableMemoryHard bool
}

// NewDeriver returns a Deriver with the default parameters.
func NewDeriver() *Deriver {
	return &Deriver{Iterations: MinPBKDF2Iterations}
}

// Derive stretches secret with salt into length output bytes using the
// preferred algorithm, falling back to PBKDF2 when the memory-hard path is
// unavailable. The identifier of the algorithm that actually ran is returned
// and must be recorded by the caller. Unavailability of the primary is the
// only silently recovered condition.
func (d *Deriver) Derive(preferred Identifier, secret, salt []byte, length int) ([]byte, Identifier, error) {
	if err := d.check(secret, salt); err != nil {
		return nil, 0, err
	}

	switch preferred {
	case Argon2id:
		if d.DisableMemoryHard {
			return d.pbkdf2(secret, salt, length), PBKDF2SHA256, nil
		}

		return ksf.Argon2id.Get().Harden(secret, salt, length), Argon2id, nil
	case PBKDF2SHA256:
		return d.pbkdf2(secret, salt, length), PBKDF2SHA256, nil
	default:
		return nil, 0, ErrUnknownIdentifier
	}
}

// Replay stretches secret with salt using exactly the recorded algorithm. It
// never substitutes another algorithm: verification must reproduce what the
// original derivation did.
func (d *Deriver) Replay(recorded Identifier, secret, salt []byte, length int) ([]byte, error) {
	if err := d.check(secret, salt); err != nil {
		return nil, err
	}

	switch recorded {
	case Argon2id:
		return ksf.Argon2id.Get().Harden(secret, salt, length), nil
	case PBKDF2SHA256:
		return d.pbkdf2(secret, salt, length), nil
	default:
		return nil, ErrUnknownIdentifier
	}
}

func (d *Deriver) check(secret, salt []byte) error {
	if len(secret) == 0 {
		return ErrEmptySecret
	}

	if len(salt) == 0 {
		return ErrEmptySalt
	}

	if d.Iterations < MinPBKDF2Iterations {
		return ErrIterations
	}

	return nil
}

func (d *Deriver) pbkdf2(secret, salt []byte, length int) []byte {
	return pbkdf2.Key(secret, salt, d.Iterations, length, sha256.New)
}
