// SPDX-License-Identifier: MIT
//
// Copyright (C) 2025 The keyguard authors. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package keyguard

import "github.com/keyguardian/keyguard/internal/envelope"

// NewVaultWithSuite builds a Vault over a caller-supplied cryptographic
// suite, so tests can observe or substitute the primitives.
func NewVaultWithSuite(c *Configuration, suite envelope.Suite) (*Vault, error) {
	conf, err := c.toInternal()
	if err != nil {
		return nil, err
	}

	return &Vault{conf: conf, suite: suite}, nil
}
