// SPDX-License-Identifier: MIT
//
// Copyright (C) 2025 The keyguard authors. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package keyguard_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keyguardian/keyguard"
)

func TestErrorClassification(t *testing.T) {
	cause := errors.New("underlying cause")
	err := keyguard.ErrRegistration.Join(cause)

	assert.ErrorIs(t, err, keyguard.ErrRegistration)
	assert.ErrorIs(t, err, keyguard.ErrCodeRegistration)
	assert.ErrorIs(t, err, cause)

	assert.NotErrorIs(t, err, keyguard.ErrAuthentication)
	assert.NotErrorIs(t, err, keyguard.ErrCodeEnvelope)
}

func TestErrorCodesAreDistinct(t *testing.T) {
	assert.NotErrorIs(t, keyguard.ErrLegacyEnvelope, keyguard.ErrCodeEnvelope)
	assert.NotErrorIs(t, keyguard.ErrEnvelope, keyguard.ErrCodeLegacyEnvelope)
	assert.NotErrorIs(t, keyguard.ErrKeyUnwrap, keyguard.ErrCodeEnvelope)
}

func TestErrorAs(t *testing.T) {
	err := keyguard.ErrCodeEnvelope.New("boom", errors.New("cause"))

	var kgErr *keyguard.Error
	require.ErrorAs(t, err, &kgErr)
	assert.Equal(t, keyguard.ErrCodeEnvelope, kgErr.Code)
	assert.Equal(t, "boom", kgErr.Message)

	var code keyguard.ErrorCode
	require.ErrorAs(t, err, &code)
	assert.Equal(t, keyguard.ErrCodeEnvelope, code)
}

func TestErrorFormat(t *testing.T) {
	err := keyguard.ErrCodeSession.New("session gone", errors.New("cause"))

	assert.Equal(t, "session gone", fmt.Sprintf("%s", err))
	assert.Equal(t, `"session gone"`, fmt.Sprintf("%q", err))

	verbose := fmt.Sprintf("%+v", err)
	assert.Contains(t, verbose, "session_state_error")
	assert.Contains(t, verbose, "cause")
}

func TestErrorCodeString(t *testing.T) {
	assert.Equal(t, "envelope_error", keyguard.ErrCodeEnvelope.String())
	assert.Equal(t, "legacy_envelope_error", keyguard.ErrCodeLegacyEnvelope.String())
	assert.Equal(t, "unknown_error", keyguard.ErrorCode(250).String())
}
