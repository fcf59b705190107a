// SPDX-License-Identifier: MIT
//
// Copyright (C) 2025 The keyguard authors. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package authoritytest_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keyguardian/keyguard/authority"
	"github.com/keyguardian/keyguard/authoritytest"
	"github.com/keyguardian/keyguard/internal/srp"
	"github.com/keyguardian/keyguard/message"
)

func registered(t *testing.T) *authoritytest.Authority {
	t.Helper()

	auth := authoritytest.New(srp.Group2048)
	require.NoError(t, auth.Register(t.Context(), &message.RegistrationRecord{
		Identity: "alice@example.com",
		Salt:     "c2FsdA==",
		Verifier: srp.Group2048.PublicEphemeral(srp.Group2048.X([]byte("x material"))).Text(16),
		KDF:      "pbkdf2-sha256",
	}))

	return auth
}

// TestLoginStartRejectsUnsafeClientEphemeral mirrors the client-side
// ephemeral validation: a client A that is zero modulo N or too large for
// the group must be refused before any attempt state is created.
func TestLoginStartRejectsUnsafeClientEphemeral(t *testing.T) {
	auth := registered(t)

	for name, a := range map[string]string{
		"zero":      "00",
		"modulus":   srp.Group2048.N.Text(16),
		"oversized": "01" + strings.Repeat("00", 255) + "05",
		"huge":      strings.Repeat("ff", 4096),
		"malformed": "not hex at all",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := auth.LoginStart(t.Context(), &message.LoginStartRequest{
				Identity: "alice@example.com",
				A:        a,
			})
			assert.ErrorIs(t, err, authority.ErrRejected)
		})
	}
}

func TestLoginFinishUnknownNonce(t *testing.T) {
	auth := registered(t)

	_, err := auth.LoginFinish(t.Context(), &message.LoginFinishRequest{
		Identity: "alice@example.com",
		A:        "02",
		M1:       "ab",
		Nonce:    "no such attempt",
	})
	assert.ErrorIs(t, err, authority.ErrRejected)
}
