// SPDX-License-Identifier: MIT
//
// Copyright (C) 2025 The keyguard authors. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package internal provides structures and functions to operate keyguard that
// are not part of the public API.
package internal

import (
	cryptorand "crypto/rand"
	"fmt"
)

// RandomBytes returns length cryptographically secure random bytes (wrapper
// for crypto/rand).
func RandomBytes(length int) []byte {
	r := make([]byte, length)
	if _, err := cryptorand.Read(r); err != nil {
		// We can as well not panic and try again in a loop.
		panic(fmt.Errorf("unexpected error in generating random bytes: %w", err))
	}

	return r
}
