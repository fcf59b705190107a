// SPDX-License-Identifier: MIT
//
// Copyright (C) 2025 The keyguard authors. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package encoding_test

import (
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keyguardian/keyguard/internal/encoding"
)

func TestConcat(t *testing.T) {
	assert.Equal(t, []byte("abcdef"), encoding.Concat([]byte("ab"), []byte("cd"), []byte("ef")))
	assert.Empty(t, encoding.Concat())
}

func TestPadBigInt(t *testing.T) {
	padded := encoding.PadBigInt(big.NewInt(0x0102), 4)
	assert.Equal(t, []byte{0, 0, 1, 2}, padded)

	assert.Panics(t, func() {
		encoding.PadBigInt(big.NewInt(0x010203), 2)
	})
}

func TestBigHexRoundTrip(t *testing.T) {
	i := new(big.Int).Lsh(big.NewInt(0xdead), 100)

	back, err := encoding.HexToBig(encoding.BigToHex(i))
	require.NoError(t, err)
	assert.Zero(t, i.Cmp(back))

	_, err = encoding.HexToBig("not hex")
	assert.Error(t, err)

	_, err = encoding.HexToBig("")
	assert.Error(t, err)

	// Oversized input is refused before any allocation-heavy decode.
	_, err = encoding.HexToBig(strings.Repeat("ff", 2048))
	assert.Error(t, err)
}

func TestBytesHexRoundTrip(t *testing.T) {
	// Leading zero bytes must survive, unlike a big.Int round trip.
	in := []byte{0, 0, 0xab, 0xcd}

	out, err := encoding.HexToBytes(encoding.BytesToHex(in))
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestFieldRoundTrip(t *testing.T) {
	in := []byte{0, 1, 2, 0xff}

	out, err := encoding.DecodeField(encoding.EncodeField(in))
	require.NoError(t, err)
	assert.Equal(t, in, out)

	_, err = encoding.DecodeField("%%%not base64%%%")
	assert.Error(t, err)
}
