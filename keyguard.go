// SPDX-License-Identifier: MIT
//
// Copyright (C) 2025 The keyguard authors. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package keyguard

import (
	"errors"
	"time"

	"github.com/keyguardian/keyguard/internal/kdf"
	"github.com/keyguardian/keyguard/internal/srp"
)

var errUnknownGroup = errors.New("unknown SRP group identifier")

// Group identifies the fixed public SRP group parameters. Client and
// authority must agree on the group out of band.
type Group byte

const (
	// RFC5054Group3072 is the 3072-bit group of RFC 5054, the default.
	RFC5054Group3072 Group = 1 + iota

	// RFC5054Group2048 is the 2048-bit group of RFC 5054.
	RFC5054Group2048
)

func (g Group) get() *srp.Group {
	switch g {
	case RFC5054Group3072:
		return srp.Group3072
	case RFC5054Group2048:
		return srp.Group2048
	default:
		return nil
	}
}

// KDF identifies a key derivation algorithm. The identifier chosen at
// derivation time is recorded in envelope metadata and registration records,
// and replayed at verification time.
type KDF = kdf.Identifier

const (
	// Argon2id is the memory-hard primary derivation.
	Argon2id = kdf.Argon2id

	// PBKDF2SHA256 is the iterated-hash fallback derivation.
	PBKDF2SHA256 = kdf.PBKDF2SHA256
)

// Configuration holds the protocol and derivation parameters. Changing them
// after records or envelopes exist breaks verification; the recorded tags
// exist precisely so old material replays with old parameters.
type Configuration struct {
	// KDF is the preferred derivation algorithm for new material.
	KDF KDF

	// Group selects the SRP group parameters.
	Group Group

	// PBKDF2Iterations applies to the fallback derivation. Must be at least
	// kdf.MinPBKDF2Iterations.
	PBKDF2Iterations int

	// SessionTTL bounds how long a login session started with LoginStart
	// stays usable. Expired sessions are discarded, never reused.
	SessionTTL time.Duration

	// DisableMemoryHard forces the iterated-hash fallback even when Argon2id
	// is preferred, for platforms where the memory-hard path cannot run.
	DisableMemoryHard bool
}

// DefaultConfiguration returns a configuration with the secure defaults:
// Argon2id derivation, the 3072-bit group, and a two-minute session TTL.
func DefaultConfiguration() *Configuration {
	return &Configuration{
		KDF:              Argon2id,
		Group:            RFC5054Group3072,
		PBKDF2Iterations: kdf.MinPBKDF2Iterations,
		SessionTTL:       2 * time.Minute,
	}
}

// configuration is the validated internal form.
type configuration struct {
	preferred  kdf.Identifier
	group      *srp.Group
	deriver    *kdf.Deriver
	sessionTTL time.Duration
}

func (c *Configuration) toInternal() (*configuration, error) {
	if c == nil {
		c = DefaultConfiguration()
	}

	group := c.Group.get()
	if group == nil {
		return nil, ErrConfiguration.Join(errUnknownGroup)
	}

	if c.KDF != Argon2id && c.KDF != PBKDF2SHA256 {
		return nil, ErrConfiguration.Join(kdf.ErrUnknownIdentifier)
	}

	if c.PBKDF2Iterations < kdf.MinPBKDF2Iterations {
		return nil, ErrConfiguration.Join(kdf.ErrIterations)
	}

	ttl := c.SessionTTL
	if ttl <= 0 {
		ttl = DefaultConfiguration().SessionTTL
	}

	return &configuration{
		preferred: c.KDF,
		group:     group,
		deriver: &kdf.Deriver{
			Iterations:        c.PBKDF2Iterations,
			DisableMemoryHard: c.DisableMemoryHard,
		},
		sessionTTL: ttl,
	}, nil
}
