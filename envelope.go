// SPDX-License-Identifier: MIT
//
// Copyright (C) 2025 The keyguard authors. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package keyguard

import (
	"bytes"
	"errors"
	"time"

	"github.com/keyguardian/keyguard/internal/encoding"
	"github.com/keyguardian/keyguard/internal/envelope"
	"github.com/keyguardian/keyguard/internal/kdf"
	"github.com/keyguardian/keyguard/internal/tag"
)

var (
	errEmptySecret     = errors.New("secret to protect is empty")
	errMissingField    = errors.New("envelope field missing")
	errFieldEncoding   = errors.New("envelope field is not valid base64")
	errCiphertextLayer = errors.New("ciphertext corrupted: the DEK unwrapped cleanly but the data layer failed authentication")
)

// Envelope is the persisted, self-describing record protecting a signing
// key. All byte fields are transport-encoded as printable strings. Salt and
// WrapIV are mandatory in any envelope produced by this implementation;
// their absence marks a legacy record that cannot be recovered.
type Envelope struct {
	WrappedDEK string   `json:"wrappedDEK"`
	Ciphertext string   `json:"ciphertext"`
	IV         string   `json:"iv"`
	WrapIV     string   `json:"wrapIv"`
	Salt       string   `json:"salt"`
	Metadata   Metadata `json:"metadata"`
}

// Metadata describes how the envelope was produced, so decryption replays
// the same algorithms instead of re-detecting them.
type Metadata struct {
	Algorithm     string `json:"algorithm"`
	KeyDerivation string `json:"keyDerivation"`
	Timestamp     int64  `json:"timestamp"`
	Version       int    `json:"version"`
}

// KEKParams is the low-entropy source material of the KEK: the session
// secret and the optional opaque secondary-factor secret. Neither is ever
// persisted or logged.
type KEKParams struct {
	Secret       string
	SecondFactor string
}

// combined joins the two secrets with the fixed separator. The separator is
// always present, so an absent secondary factor cannot be confused with one
// that contains the separator.
func (p KEKParams) combined() []byte {
	return []byte(p.Secret + tag.SecretSeparator + p.SecondFactor)
}

// Vault seals signing keys into envelopes and opens them again.
type Vault struct {
	conf  *configuration
	suite envelope.Suite
}

// NewVault returns a Vault using the given configuration and the standard
// cryptographic suite.
func NewVault(c *Configuration) (*Vault, error) {
	conf, err := c.toInternal()
	if err != nil {
		return nil, err
	}

	return &Vault{conf: conf, suite: envelope.Standard{}}, nil
}

// Seal derives a KEK from the params under a fresh salt, generates a fresh
// DEK, encrypts the secret, wraps the DEK, and assembles a fully populated
// envelope. Every invocation is independent: no salt or nonce is ever
// reused, across wallets or across re-encryption of the same wallet.
func (v *Vault) Seal(secret []byte, params KEKParams) (*Envelope, error) {
	if len(secret) == 0 {
		return nil, ErrEnvelope.Join(errEmptySecret)
	}

	salt := v.suite.RandomBytes(envelope.SaltSize)

	material, used, err := v.conf.deriver.Derive(v.conf.preferred, params.combined(), salt, envelope.KeySize)
	if err != nil {
		return nil, ErrEnvelope.Join(err)
	}

	kek, err := envelope.NewKEK(material)
	if err != nil {
		return nil, ErrEnvelope.Join(err)
	}
	defer kek.Wipe()
	wipe(material)

	dek := envelope.GenerateDEK(v.suite)
	defer dek.Wipe()

	ciphertext, iv, err := envelope.Encrypt(v.suite, dek, secret)
	if err != nil {
		return nil, ErrEnvelope.Join(err)
	}

	// The wrap nonce is drawn independently and must differ from the data
	// nonce.
	wrapIv := v.suite.RandomBytes(envelope.NonceSize)
	for bytes.Equal(wrapIv, iv) {
		wrapIv = v.suite.RandomBytes(envelope.NonceSize)
	}

	wrapped, err := envelope.Wrap(v.suite, kek, dek, wrapIv)
	if err != nil {
		return nil, ErrEnvelope.Join(err)
	}

	return &Envelope{
		WrappedDEK: encoding.EncodeField(wrapped),
		Ciphertext: encoding.EncodeField(ciphertext),
		IV:         encoding.EncodeField(iv),
		WrapIV:     encoding.EncodeField(wrapIv),
		Salt:       encoding.EncodeField(salt),
		Metadata: Metadata{
			Algorithm:     tag.AlgorithmAESGCM,
			KeyDerivation: used.String(),
			Timestamp:     time.Now().UnixMilli(),
			Version:       tag.EnvelopeVersion,
		},
	}, nil
}

// Open validates the envelope's completeness, re-derives the KEK from the
// envelope's own salt, unwraps the DEK, and decrypts the secret with the
// envelope's own nonce. Structural validation happens before any
// cryptographic call; a missing salt or wrap nonce is terminal and reported
// as a legacy-format failure. No failure here is retried: AEAD outcomes are
// deterministic for the same inputs.
func (v *Vault) Open(env *Envelope, params KEKParams) ([]byte, error) {
	if env == nil {
		return nil, ErrEnvelope.Join(errMissingField)
	}

	// Legacy check first: these envelopes predate recorded salts and wrap
	// nonces and can never be decrypted.
	if env.Salt == "" || env.WrapIV == "" {
		return nil, ErrLegacyEnvelope
	}

	if env.WrappedDEK == "" || env.Ciphertext == "" || env.IV == "" {
		return nil, ErrEnvelope.Join(errMissingField)
	}

	fields, err := env.decode()
	if err != nil {
		return nil, ErrEnvelope.Join(errFieldEncoding, err)
	}

	recorded, err := kdf.Parse(env.Metadata.KeyDerivation)
	if err != nil {
		return nil, ErrEnvelope.Join(err)
	}

	material, err := v.conf.deriver.Replay(recorded, params.combined(), fields.salt, envelope.KeySize)
	if err != nil {
		return nil, ErrEnvelope.Join(err)
	}

	kek, err := envelope.NewKEK(material)
	if err != nil {
		return nil, ErrEnvelope.Join(err)
	}
	defer kek.Wipe()
	wipe(material)

	dek, err := envelope.Unwrap(v.suite, kek, fields.wrappedDEK, fields.wrapIv)
	if err != nil {
		if errors.Is(err, envelope.ErrUnwrap) {
			return nil, ErrKeyUnwrap.Join(err)
		}

		return nil, ErrEnvelope.Join(err)
	}
	defer dek.Wipe()

	secret, err := envelope.Decrypt(v.suite, dek, fields.iv, fields.ciphertext)
	if err != nil {
		return nil, ErrCodeEnvelope.New(errCiphertextLayer.Error(), err)
	}

	return secret, nil
}

type envelopeFields struct {
	wrappedDEK []byte
	ciphertext []byte
	iv         []byte
	wrapIv     []byte
	salt       []byte
}

func (e *Envelope) decode() (*envelopeFields, error) {
	f := &envelopeFields{}

	for _, field := range []struct {
		dst *[]byte
		src string
	}{
		{&f.wrappedDEK, e.WrappedDEK},
		{&f.ciphertext, e.Ciphertext},
		{&f.iv, e.IV},
		{&f.wrapIv, e.WrapIV},
		{&f.salt, e.Salt},
	} {
		b, err := encoding.DecodeField(field.src)
		if err != nil {
			return nil, err
		}

		*field.dst = b
	}

	return f, nil
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
