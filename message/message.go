// SPDX-License-Identifier: MIT
//
// Copyright (C) 2025 The keyguard authors. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package message defines the wire messages exchanged with the identity
// authority. Big integers and digests travel as big-endian hex strings;
// salts travel base64-encoded, matching the envelope field encoding.
package message

// RegistrationRecord is produced by the client at registration and owned by
// the authority afterwards. It never contains the secret, the private key x,
// or anything x is recoverable from without the secret.
type RegistrationRecord struct {
	Identity string `json:"identity"`
	Salt     string `json:"salt"`
	Verifier string `json:"verifier"`
	KDF      string `json:"kdf"`
}

// LoginStartRequest opens a login attempt with the client's public ephemeral.
type LoginStartRequest struct {
	Identity string `json:"identity"`
	A        string `json:"A"`
}

// LoginStartResponse carries the authority's challenge: the registration
// salt, the server public ephemeral, the KDF tag recorded at registration,
// and a single-use nonce binding the attempt.
type LoginStartResponse struct {
	Salt  string `json:"salt"`
	B     string `json:"B"`
	KDF   string `json:"kdf"`
	Nonce string `json:"nonce"`
}

// LoginFinishRequest carries the client's evidence M1 for the attempt
// identified by Nonce.
type LoginFinishRequest struct {
	Identity string `json:"identity"`
	A        string `json:"A"`
	M1       string `json:"M1"`
	Nonce    string `json:"nonce"`
}

// SessionTokens are granted by the authority when the evidence matches.
type SessionTokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresAt    int64  `json:"expiresAt"`
}
