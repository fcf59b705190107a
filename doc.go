// SPDX-License-Identifier: MIT
//
// Copyright (C) 2025 The keyguard authors. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package keyguard protects a wallet's private signing key.
//
// It provides two independent subsystems sharing only a tagged key
// derivation primitive:
//
//   - Envelope encryption: a KEK/DEK scheme persisting the signing key as a
//     self-describing envelope, with the KEK derived from low-entropy
//     session material and an optional secondary-factor secret.
//
//   - An SRP-6a client: registration and a two-step login proving knowledge
//     of the session material to a remote identity authority without ever
//     transmitting it.
//
// Neither subsystem retries failures: AEAD and proof outcomes are
// deterministic for the same inputs. Every failure is classified before it
// is surfaced; see the ErrCode values.
package keyguard
