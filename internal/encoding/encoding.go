// SPDX-License-Identifier: MIT
//
// Copyright (C) 2025 The keyguard authors. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package encoding provides byte, integer, and transport encoding utilities.
package encoding

import (
	"encoding/base64"
	"encoding/hex"
	"errors"
	"math/big"
)

// maxIntegerHexLength bounds decoded integers to 8192 bits, comfortably above
// any supported group modulus, so a hostile peer cannot force arbitrarily
// large allocations.
const maxIntegerHexLength = 2048

var (
	errHexEmpty    = errors.New("nil or empty hex input")
	errHexInvalid  = errors.New("invalid hex input")
	errHexTooLarge = errors.New("hex input exceeds the maximum integer size")
)

// Concat returns the concatenation of the input byte slices in a single
// freshly allocated slice.
func Concat(input ...[]byte) []byte {
	length := 0
	for _, in := range input {
		length += len(in)
	}

	out := make([]byte, 0, length)
	for _, in := range input {
		out = append(out, in...)
	}

	return out
}

// PadBigInt returns the big-endian representation of i left-padded with
// zeroes to length bytes. It panics if i does not fit, as all callers pad to
// the modulus length of the group the value lives in.
func PadBigInt(i *big.Int, length int) []byte {
	b := i.Bytes()
	if len(b) > length {
		panic("encoding: integer exceeds the target length")
	}

	out := make([]byte, length)
	copy(out[length-len(b):], b)

	return out
}

// BigToHex returns the lowercase big-endian hex representation of i.
func BigToHex(i *big.Int) string {
	return hex.EncodeToString(i.Bytes())
}

// HexToBig decodes a big-endian hex string into a big integer.
func HexToBig(s string) (*big.Int, error) {
	if s == "" {
		return nil, errHexEmpty
	}

	if len(s) > maxIntegerHexLength {
		return nil, errHexTooLarge
	}

	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, errHexInvalid
	}

	return new(big.Int).SetBytes(b), nil
}

// BytesToHex returns the lowercase hex representation of b.
func BytesToHex(b []byte) string {
	return hex.EncodeToString(b)
}

// HexToBytes decodes a hex string, rejecting empty input.
func HexToBytes(s string) ([]byte, error) {
	if s == "" {
		return nil, errHexEmpty
	}

	return hex.DecodeString(s)
}

// EncodeField encodes an envelope byte field into its printable transport
// form.
func EncodeField(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

// DecodeField decodes an envelope transport field back into bytes.
func DecodeField(s string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(s)
}
