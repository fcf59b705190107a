// SPDX-License-Identifier: MIT
//
// Copyright (C) 2025 The keyguard authors. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package srp implements the arithmetic of the SRP-6a password-authenticated
// key exchange over the RFC 5054 integer groups.
//
// All public values are arbitrary-precision integers. Values hashed together
// are left-padded to the modulus length, as RFC 5054 prescribes, so both
// sides bind to identical byte strings.
package srp

import (
	"errors"
	"math/big"

	"github.com/keyguardian/keyguard/internal"
	"github.com/keyguardian/keyguard/internal/encoding"
)

var (
	// ErrZeroEphemeral indicates a public ephemeral that is zero modulo N, a
	// degenerate value that would collapse the shared secret.
	ErrZeroEphemeral = errors.New("public ephemeral is zero modulo N")

	// ErrEphemeralRange indicates an ephemeral outside (0, N).
	ErrEphemeralRange = errors.New("ephemeral out of range")
)

// Group holds the fixed public parameters of an SRP exchange: the safe-prime
// modulus N, the generator g, and the multiplier k = H(N ‖ PAD(g)).
type Group struct {
	N    *big.Int
	G    *big.Int
	k    *big.Int
	name string
}

func newGroup(name, nHex string) *Group {
	n, ok := new(big.Int).SetString(nHex, 16)
	if !ok {
		panic("srp: invalid group modulus for " + name)
	}

	g := &Group{
		N:    n,
		G:    big.NewInt(2),
		name: name,
	}
	g.k = g.hashPadded(g.N, g.G)

	return g
}

// Name returns the group's registered name.
func (g *Group) Name() string { return g.name }

// K returns the protocol multiplier k.
func (g *Group) K() *big.Int { return new(big.Int).Set(g.k) }

// ByteLength returns the byte length of the modulus, used for padding.
func (g *Group) ByteLength() int {
	return (g.N.BitLen() + 7) / 8
}

// Pad returns i as a big-endian byte string left-padded to the modulus
// length.
func (g *Group) Pad(i *big.Int) []byte {
	return encoding.PadBigInt(i, g.ByteLength())
}

// hashPadded hashes the padded concatenation of the inputs into an integer.
func (g *Group) hashPadded(values ...*big.Int) *big.Int {
	h := internal.NewHash(internal.ProtocolHash)
	for _, v := range values {
		h.Write(g.Pad(v))
	}

	return new(big.Int).SetBytes(h.Sum())
}

// RandomEphemeral draws a fresh private ephemeral in (0, N) from the given
// random source.
func (g *Group) RandomEphemeral(random func(int) []byte) *big.Int {
	for {
		a := new(big.Int).SetBytes(random(g.ByteLength()))
		a.Mod(a, g.N)
		if a.Sign() > 0 {
			return a
		}
	}
}

// Exp returns base^exponent mod N using binary exponentiation.
func (g *Group) Exp(base, exponent *big.Int) *big.Int {
	return new(big.Int).Exp(base, exponent, g.N)
}

// PublicEphemeral computes g^private mod N.
func (g *Group) PublicEphemeral(private *big.Int) *big.Int {
	return g.Exp(g.G, private)
}

// CheckEphemeral validates a public ephemeral received from the peer. Only
// values in (0, N) are accepted: zero modulo N would collapse the shared
// secret, and anything at or above the modulus cannot be padded to the group
// length. Both must abort the exchange before any shared-secret arithmetic
// runs.
func (g *Group) CheckEphemeral(e *big.Int) error {
	if e == nil || e.Sign() <= 0 {
		return ErrZeroEphemeral
	}

	if e.Cmp(g.N) >= 0 {
		return ErrEphemeralRange
	}

	return nil
}

// X reduces derived key material into the private key exponent x.
func (g *Group) X(derived []byte) *big.Int {
	x := new(big.Int).SetBytes(derived)
	return x.Mod(x, g.N)
}

// Verifier computes v = g^x mod N.
func (g *Group) Verifier(x *big.Int) *big.Int {
	return g.Exp(g.G, x)
}

// U computes the scrambling parameter u = H(PAD(A) ‖ PAD(B)).
func (g *Group) U(bigA, bigB *big.Int) *big.Int {
	return g.hashPadded(bigA, bigB)
}

// ClientSecret computes the client-side shared secret
// S = (B − k·g^x)^(a + u·x) mod N.
func (g *Group) ClientSecret(a, x, u, bigB *big.Int) *big.Int {
	kgx := new(big.Int).Mul(g.k, g.Exp(g.G, x))
	base := new(big.Int).Sub(bigB, kgx)
	base.Mod(base, g.N)

	exponent := new(big.Int).Mul(u, x)
	exponent.Add(exponent, a)

	return g.Exp(base, exponent)
}

// ServerSecret computes the authority-side shared secret
// S = (A·v^u)^b mod N.
func (g *Group) ServerSecret(b, u, bigA, v *big.Int) *big.Int {
	base := new(big.Int).Mul(bigA, g.Exp(v, u))
	base.Mod(base, g.N)

	return g.Exp(base, b)
}

// ServerEphemeral computes the authority's public ephemeral
// B = k·v + g^b mod N.
func (g *Group) ServerEphemeral(b, v *big.Int) *big.Int {
	bigB := new(big.Int).Mul(g.k, v)
	bigB.Add(bigB, g.Exp(g.G, b))
	bigB.Mod(bigB, g.N)

	return bigB
}

// SessionKey computes K = H(PAD(S)).
func (g *Group) SessionKey(s *big.Int) []byte {
	return internal.Digest(internal.ProtocolHash, g.Pad(s))
}

// Evidence computes the client proof M1 = H(PAD(A) ‖ PAD(B) ‖ K).
func (g *Group) Evidence(bigA, bigB *big.Int, sessionKey []byte) []byte {
	return internal.Digest(internal.ProtocolHash, g.Pad(bigA), g.Pad(bigB), sessionKey)
}
