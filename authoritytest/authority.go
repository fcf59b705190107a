// SPDX-License-Identifier: MIT
//
// Copyright (C) 2025 The keyguard authors. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package authoritytest provides a conforming in-memory identity authority
// for tests and demos: it stores registration records, runs the server side
// of the SRP-6a arithmetic, and grants tokens on matching evidence.
//
// It is not a production authority. It exists because the client can only be
// exercised end to end against a counterpart that follows the protocol.
package authoritytest

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/keyguardian/keyguard/authority"
	"github.com/keyguardian/keyguard/internal"
	"github.com/keyguardian/keyguard/internal/encoding"
	"github.com/keyguardian/keyguard/internal/srp"
	"github.com/keyguardian/keyguard/message"
)

// PendingTTL bounds how long an unfinished login attempt is kept.
const PendingTTL = 2 * time.Minute

type registration struct {
	salt     string
	verifier *big.Int
	kdf      string
}

type pending struct {
	identity string
	bigA     *big.Int
	bigB     *big.Int
	b        *big.Int
	expires  time.Time
}

// Authority is an in-memory identity authority implementing
// authority.Authority. Attempts are keyed by their single-use nonce, so
// concurrent logins never share ephemeral state.
type Authority struct {
	group *srp.Group

	mu       sync.Mutex
	users    map[string]registration
	attempts map[string]pending
}

var _ authority.Authority = (*Authority)(nil)

// NewDefault returns an empty authority over the default 3072-bit group.
func NewDefault() *Authority {
	return New(srp.Group3072)
}

// New returns an empty authority over the given group.
func New(group *srp.Group) *Authority {
	return &Authority{
		group:    group,
		users:    make(map[string]registration),
		attempts: make(map[string]pending),
	}
}

// Register stores the registration record, replacing any previous record for
// the identity.
func (a *Authority) Register(_ context.Context, record *message.RegistrationRecord) error {
	if record.Identity == "" || record.Salt == "" || record.Verifier == "" || record.KDF == "" {
		return authority.ErrRejected
	}

	v, err := encoding.HexToBig(record.Verifier)
	if err != nil {
		return authority.ErrRejected
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.users[record.Identity] = registration{salt: record.Salt, verifier: v, kdf: record.KDF}

	return nil
}

// LoginStart opens an attempt: it draws a fresh server ephemeral, computes
// B = k·v + g^b, and returns the challenge under a new nonce.
func (a *Authority) LoginStart(_ context.Context, req *message.LoginStartRequest) (*message.LoginStartResponse, error) {
	bigA, err := encoding.HexToBig(req.A)
	if err != nil {
		return nil, authority.ErrRejected
	}

	if err := a.group.CheckEphemeral(bigA); err != nil {
		return nil, authority.ErrRejected
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	user, ok := a.users[req.Identity]
	if !ok {
		return nil, authority.ErrRejected
	}

	b := a.group.RandomEphemeral(internal.RandomBytes)
	bigB := a.group.ServerEphemeral(b, user.verifier)
	nonce := uuid.NewString()

	a.attempts[nonce] = pending{
		identity: req.Identity,
		bigA:     bigA,
		bigB:     bigB,
		b:        b,
		expires:  time.Now().Add(PendingTTL),
	}

	return &message.LoginStartResponse{
		Salt:  user.salt,
		B:     encoding.BigToHex(bigB),
		KDF:   user.kdf,
		Nonce: nonce,
	}, nil
}

// LoginFinish recomputes the evidence independently and grants tokens only
// on a constant-time match. The attempt is discarded whatever the outcome.
func (a *Authority) LoginFinish(_ context.Context, req *message.LoginFinishRequest) (*message.SessionTokens, error) {
	m1, err := encoding.HexToBytes(req.M1)
	if err != nil {
		return nil, authority.ErrRejected
	}

	a.mu.Lock()
	attempt, ok := a.attempts[req.Nonce]
	delete(a.attempts, req.Nonce)
	user, registered := a.users[attempt.identity]
	a.mu.Unlock()

	if !ok || !registered || attempt.identity != req.Identity || time.Now().After(attempt.expires) {
		return nil, authority.ErrRejected
	}

	u := a.group.U(attempt.bigA, attempt.bigB)
	s := a.group.ServerSecret(attempt.b, u, attempt.bigA, user.verifier)
	sessionKey := a.group.SessionKey(s)
	expected := a.group.Evidence(attempt.bigA, attempt.bigB, sessionKey)

	if !internal.Equal(expected, m1) {
		return nil, authority.ErrRejected
	}

	return &message.SessionTokens{
		AccessToken:  uuid.NewString(),
		RefreshToken: uuid.NewString(),
		ExpiresAt:    time.Now().Add(time.Hour).UnixMilli(),
	}, nil
}
