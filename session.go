// SPDX-License-Identifier: MIT
//
// Copyright (C) 2025 The keyguard authors. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package keyguard

import (
	"math/big"
	"sync/atomic"
	"time"

	"github.com/keyguardian/keyguard/internal/kdf"
)

// LoginSession is the ephemeral state of one login attempt, created by
// LoginStart and consumed exactly once by LoginFinish. It is an explicit
// value owned by the caller; there is no process-wide session store, so two
// concurrent attempts, even for the same identity, can never share or
// overwrite each other's ephemerals.
type LoginSession struct {
	identity  string
	secret    []byte
	a         *big.Int
	bigA      *big.Int
	bigB      *big.Int
	salt      []byte
	kdfID     kdf.Identifier
	nonce     string
	createdAt time.Time
	used      atomic.Bool
}

// Identity returns the identity this attempt is for.
func (s *LoginSession) Identity() string { return s.identity }

// Nonce returns the authority's single-use nonce binding this attempt.
func (s *LoginSession) Nonce() string { return s.nonce }

// take claims the session for finishing. It succeeds exactly once.
func (s *LoginSession) take() bool {
	return s.used.CompareAndSwap(false, true)
}

func (s *LoginSession) expired(ttl time.Duration) bool {
	return time.Since(s.createdAt) > ttl
}

// wipe erases the secret material. The session is already single-use; this
// just shortens how long the secret lives in memory.
func (s *LoginSession) wipe() {
	for i := range s.secret {
		s.secret[i] = 0
	}
	s.secret = nil

	if s.a != nil {
		s.a.SetInt64(0)
	}
}
