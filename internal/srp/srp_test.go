// SPDX-License-Identifier: MIT
//
// Copyright (C) 2025 The keyguard authors. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package srp_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keyguardian/keyguard/internal"
	"github.com/keyguardian/keyguard/internal/srp"
)

func TestGroupParameters(t *testing.T) {
	tests := []struct {
		group *srp.Group
		name  string
		bits  int
	}{
		{srp.Group3072, "rfc5054-3072", 3072},
		{srp.Group2048, "rfc5054-2048", 2048},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.name, test.group.Name())
			assert.Equal(t, test.bits, test.group.N.BitLen())
			assert.Equal(t, test.bits/8, test.group.ByteLength())
			assert.Equal(t, int64(2), test.group.G.Int64())
			assert.Positive(t, test.group.K().Sign(), "multiplier k must be nonzero")
			assert.True(t, test.group.N.ProbablyPrime(16))
		})
	}
}

func TestPad(t *testing.T) {
	g := srp.Group2048

	padded := g.Pad(big.NewInt(2))
	require.Len(t, padded, g.ByteLength())
	assert.Equal(t, byte(2), padded[len(padded)-1])
	assert.Equal(t, byte(0), padded[0])
}

func TestRandomEphemeralRange(t *testing.T) {
	g := srp.Group2048

	for range 16 {
		a := g.RandomEphemeral(internal.RandomBytes)
		require.Positive(t, a.Sign())
		require.Negative(t, a.Cmp(g.N))
	}
}

func TestCheckEphemeral(t *testing.T) {
	g := srp.Group2048

	assert.ErrorIs(t, g.CheckEphemeral(nil), srp.ErrZeroEphemeral)
	assert.ErrorIs(t, g.CheckEphemeral(big.NewInt(0)), srp.ErrZeroEphemeral)
	assert.ErrorIs(t, g.CheckEphemeral(big.NewInt(-7)), srp.ErrZeroEphemeral)

	// Values at or above the modulus are out of range even when their
	// residue is nonzero; padding them to the group length is impossible.
	assert.ErrorIs(t, g.CheckEphemeral(new(big.Int).Set(g.N)), srp.ErrEphemeralRange)
	assert.ErrorIs(t, g.CheckEphemeral(new(big.Int).Lsh(g.N, 1)), srp.ErrEphemeralRange)
	assert.ErrorIs(t, g.CheckEphemeral(new(big.Int).Add(g.N, big.NewInt(5))), srp.ErrEphemeralRange)

	oversized := new(big.Int).Lsh(big.NewInt(1), uint(g.N.BitLen()))
	oversized.Add(oversized, big.NewInt(5))
	assert.ErrorIs(t, g.CheckEphemeral(oversized), srp.ErrEphemeralRange)

	assert.NoError(t, g.CheckEphemeral(big.NewInt(1)))
	assert.NoError(t, g.CheckEphemeral(new(big.Int).Sub(g.N, big.NewInt(1))))
	assert.NoError(t, g.CheckEphemeral(g.PublicEphemeral(big.NewInt(42))))
}

// TestExchange runs both sides of the protocol over the same group and
// verifies they settle on the same session key and evidence.
func TestExchange(t *testing.T) {
	for _, g := range []*srp.Group{srp.Group3072, srp.Group2048} {
		t.Run(g.Name(), func(t *testing.T) {
			derived := internal.Digest(internal.ProtocolHash, []byte("alice:pa$$word"), []byte("salt"))
			x := g.X(derived)
			v := g.Verifier(x)

			a := g.RandomEphemeral(internal.RandomBytes)
			bigA := g.PublicEphemeral(a)

			b := g.RandomEphemeral(internal.RandomBytes)
			bigB := g.ServerEphemeral(b, v)

			require.NoError(t, g.CheckEphemeral(bigA))
			require.NoError(t, g.CheckEphemeral(bigB))

			u := g.U(bigA, bigB)
			require.Positive(t, u.Sign())

			clientS := g.ClientSecret(a, x, u, bigB)
			serverS := g.ServerSecret(b, u, bigA, v)
			require.Zero(t, clientS.Cmp(serverS), "shared secrets diverge")

			clientK := g.SessionKey(clientS)
			serverK := g.SessionKey(serverS)
			require.Equal(t, clientK, serverK)

			assert.Equal(t, g.Evidence(bigA, bigB, clientK), g.Evidence(bigA, bigB, serverK))
		})
	}
}

func TestWrongPasswordDiverges(t *testing.T) {
	g := srp.Group2048

	right := g.X(internal.Digest(internal.ProtocolHash, []byte("alice:right")))
	wrong := g.X(internal.Digest(internal.ProtocolHash, []byte("alice:wrong")))
	v := g.Verifier(right)

	a := g.RandomEphemeral(internal.RandomBytes)
	bigA := g.PublicEphemeral(a)
	b := g.RandomEphemeral(internal.RandomBytes)
	bigB := g.ServerEphemeral(b, v)

	u := g.U(bigA, bigB)

	clientS := g.ClientSecret(a, wrong, u, bigB)
	serverS := g.ServerSecret(b, u, bigA, v)

	assert.NotZero(t, clientS.Cmp(serverS))
}

func TestEvidenceBindsEphemerals(t *testing.T) {
	g := srp.Group2048

	key := internal.Digest(internal.ProtocolHash, []byte("session key"))
	one := g.Evidence(big.NewInt(3), big.NewInt(5), key)
	other := g.Evidence(big.NewInt(5), big.NewInt(3), key)

	assert.NotEqual(t, one, other)
}
