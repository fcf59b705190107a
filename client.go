// SPDX-License-Identifier: MIT
//
// Copyright (C) 2025 The keyguard authors. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package keyguard

import (
	"context"
	"errors"
	"time"

	"github.com/keyguardian/keyguard/authority"
	"github.com/keyguardian/keyguard/internal"
	"github.com/keyguardian/keyguard/internal/encoding"
	"github.com/keyguardian/keyguard/internal/kdf"
	"github.com/keyguardian/keyguard/internal/tag"
	"github.com/keyguardian/keyguard/message"
)

// saltSize is the byte length of registration salts.
const saltSize = 16

// derivedKeyLength is the output length of the derivation feeding the SRP
// private key x.
const derivedKeyLength = 32

var (
	errNoAuthority   = errors.New("no authority configured")
	errEmptyIdentity = errors.New("identity is empty")
	errEmptyPassword = errors.New("secret is empty")
)

// Client performs the SRP-6a exchange against an identity authority. It
// holds no per-attempt state: LoginStart returns the attempt's session and
// LoginFinish consumes it.
type Client struct {
	conf      *configuration
	authority authority.Authority
}

// NewClient returns a Client for the given configuration and authority.
func NewClient(c *Configuration, auth authority.Authority) (*Client, error) {
	if auth == nil {
		return nil, ErrConfiguration.Join(errNoAuthority)
	}

	conf, err := c.toInternal()
	if err != nil {
		return nil, err
	}

	return &Client{conf: conf, authority: auth}, nil
}

// identitySecret joins identity and secret with the fixed separator before
// deriving x. Registration and login must produce identical input bytes.
func identitySecret(identity, secret string) []byte {
	return []byte(identity + tag.IdentitySeparator + secret)
}

// Register derives a fresh verifier for the identity and submits it to the
// authority. The secret, the private key x, and anything x is recoverable
// from never leave the process. Registration carries no client-side state,
// so a failed call is safe to retry.
func (c *Client) Register(ctx context.Context, identity, secret string) error {
	if err := checkCredentials(identity, secret); err != nil {
		return ErrRegistration.Join(err)
	}

	salt := internal.RandomBytes(saltSize)

	derived, used, err := c.conf.deriver.Derive(c.conf.preferred, identitySecret(identity, secret), salt, derivedKeyLength)
	if err != nil {
		return ErrRegistration.Join(err)
	}

	group := c.conf.group
	x := group.X(derived)
	v := group.Verifier(x)
	x.SetInt64(0)
	wipe(derived)

	record := &message.RegistrationRecord{
		Identity: identity,
		Salt:     encoding.EncodeField(salt),
		Verifier: encoding.BigToHex(v),
		KDF:      used.String(),
	}

	if err := c.authority.Register(ctx, record); err != nil {
		return ErrRegistration.Join(err)
	}

	return nil
}

// LoginStart generates a fresh private ephemeral, submits the public
// ephemeral, and returns the attempt's session holding the authority's
// challenge. A degenerate server ephemeral (B mod N == 0) is rejected here,
// before any shared-secret arithmetic. The call commits nothing on the
// client, so it is safe to retry with a new session.
func (c *Client) LoginStart(ctx context.Context, identity, secret string) (*LoginSession, error) {
	if err := checkCredentials(identity, secret); err != nil {
		return nil, ErrAuthentication.Join(err)
	}

	group := c.conf.group
	a := group.RandomEphemeral(internal.RandomBytes)
	bigA := group.PublicEphemeral(a)

	resp, err := c.authority.LoginStart(ctx, &message.LoginStartRequest{
		Identity: identity,
		A:        encoding.BigToHex(bigA),
	})
	if err != nil {
		if errors.Is(err, authority.ErrRejected) {
			return nil, ErrAuthentication
		}

		return nil, err
	}

	bigB, err := encoding.HexToBig(resp.B)
	if err != nil {
		return nil, ErrProtocolViolation.Join(err)
	}

	if err := group.CheckEphemeral(bigB); err != nil {
		return nil, ErrProtocolViolation.Join(err)
	}

	salt, err := encoding.DecodeField(resp.Salt)
	if err != nil || len(salt) == 0 {
		return nil, ErrProtocolViolation.Join(err)
	}

	kdfID, err := kdf.Parse(resp.KDF)
	if err != nil {
		return nil, ErrProtocolViolation.Join(err)
	}

	return &LoginSession{
		identity:  identity,
		secret:    []byte(secret),
		a:         a,
		bigA:      bigA,
		bigB:      bigB,
		salt:      salt,
		kdfID:     kdfID,
		nonce:     resp.Nonce,
		createdAt: time.Now(),
	}, nil
}

// LoginFinish recomputes x with the authority's recorded derivation,
// computes the shared secret and the evidence M1, and submits it. The
// session is consumed and erased whatever the outcome; finishing twice, or
// finishing a session that was never started or has idled past its TTL,
// fails as missing session state, not as an authentication failure.
func (c *Client) LoginFinish(ctx context.Context, session *LoginSession) (*message.SessionTokens, error) {
	if session == nil || !session.take() {
		return nil, ErrSessionState
	}
	defer session.wipe()

	if session.expired(c.conf.sessionTTL) {
		return nil, ErrSessionState
	}

	group := c.conf.group

	derived, err := c.conf.deriver.Replay(session.kdfID, identitySecret(session.identity, string(session.secret)), session.salt, derivedKeyLength)
	if err != nil {
		return nil, ErrAuthentication.Join(err)
	}

	x := group.X(derived)
	u := group.U(session.bigA, session.bigB)
	if u.Sign() == 0 {
		return nil, ErrProtocolViolation
	}

	s := group.ClientSecret(session.a, x, u, session.bigB)
	x.SetInt64(0)
	wipe(derived)

	sessionKey := group.SessionKey(s)
	m1 := group.Evidence(session.bigA, session.bigB, sessionKey)

	tokens, err := c.authority.LoginFinish(ctx, &message.LoginFinishRequest{
		Identity: session.identity,
		A:        encoding.BigToHex(session.bigA),
		M1:       encoding.BytesToHex(m1),
		Nonce:    session.nonce,
	})
	if err != nil {
		if errors.Is(err, authority.ErrRejected) {
			return nil, ErrAuthentication
		}

		return nil, err
	}

	return tokens, nil
}

func checkCredentials(identity, secret string) error {
	if identity == "" {
		return errEmptyIdentity
	}

	if secret == "" {
		return errEmptyPassword
	}

	return nil
}
