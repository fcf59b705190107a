// SPDX-License-Identifier: MIT
//
// Copyright (C) 2025 The keyguard authors. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package internal

import (
	"crypto"
	"crypto/hmac"

	"github.com/bytemare/hash"

	"github.com/keyguardian/keyguard/internal/encoding"
)

// ProtocolHash is the fixed hash function of the SRP exchange. It is part of
// the public protocol parameters and must match the authority's.
const ProtocolHash = crypto.SHA256

// NewHash returns a newly instantiated Hash.
func NewHash(id crypto.Hash) *Hash {
	return &Hash{h: hash.FromCrypto(id).GetHashFunction()}
}

// Hash wraps a hash function and exposes only necessary hashing methods.
type Hash struct {
	h *hash.Fixed
}

// Size returns the output size of the hashing function.
func (h *Hash) Size() int {
	return h.h.Size()
}

// Sum returns the current hash of the running state.
func (h *Hash) Sum() []byte {
	return h.h.Sum(nil)
}

// Write adds input to the running state.
func (h *Hash) Write(p []byte) {
	_, _ = h.h.Write(p)
}

// Digest hashes the concatenation of the input with a fresh state and returns
// the digest.
func Digest(id crypto.Hash, input ...[]byte) []byte {
	h := NewHash(id)
	h.Write(encoding.Concat(input...))

	return h.Sum()
}

// Equal returns a constant-time comparison of the two digests.
func Equal(a, b []byte) bool {
	return hmac.Equal(a, b)
}
