// SPDX-License-Identifier: MIT
//
// Copyright (C) 2025 The keyguard authors. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package tag provides the static tag strings and format constants to keyguard.
package tag

// These strings are the static tags and labels used throughout key derivation
// and the persisted envelope format.
const (
	// SecretSeparator joins the session secret and the optional secondary-factor
	// secret before KEK derivation. It is always appended, even when the
	// secondary factor is empty, so the concatenation is unambiguous.
	SecretSeparator = "|"

	// IdentitySeparator joins the identity and the secret before deriving the
	// SRP private key x.
	IdentitySeparator = ":"

	// KDF tags, recorded once at derivation time and replayed at verification.

	// KDFArgon2id marks material derived with the memory-hard primary.
	KDFArgon2id = "argon2id"

	// KDFPBKDF2 marks material derived with the iterated-hash fallback.
	KDFPBKDF2 = "pbkdf2-sha256"

	// Envelope format.

	// AlgorithmAESGCM is the AEAD recorded in envelope metadata.
	AlgorithmAESGCM = "AES-256-GCM"

	// EnvelopeVersion is the current persisted envelope format version.
	// Envelopes are read by branching on field presence, never by assuming
	// this is the version on disk.
	EnvelopeVersion = 2
)
