// SPDX-License-Identifier: MIT
//
// Copyright (C) 2025 The keyguard authors. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package authority_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keyguardian/keyguard"
	"github.com/keyguardian/keyguard/authority"
	"github.com/keyguardian/keyguard/authoritytest"
	"github.com/keyguardian/keyguard/internal/srp"
	"github.com/keyguardian/keyguard/message"
)

func testServer(t *testing.T) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(authoritytest.New(srp.Group2048).Handler(nil))
	t.Cleanup(server.Close)

	return server
}

// TestEndToEnd drives the full register and login flow through a real HTTP
// server, so every message crosses the wire in its transport encoding.
func TestEndToEnd(t *testing.T) {
	server := testServer(t)

	c := keyguard.DefaultConfiguration()
	c.KDF = keyguard.PBKDF2SHA256
	c.Group = keyguard.RFC5054Group2048

	client, err := keyguard.NewClient(c, authority.NewHTTPClient(server.URL, server.Client(), nil))
	require.NoError(t, err)

	require.NoError(t, client.Register(t.Context(), "bob@example.com", "hunter2!"))

	session, err := client.LoginStart(t.Context(), "bob@example.com", "hunter2!")
	require.NoError(t, err)

	tokens, err := client.LoginFinish(t.Context(), session)
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)

	// Wrong secret over the wire still surfaces as the generic rejection.
	session, err = client.LoginStart(t.Context(), "bob@example.com", "wrong")
	require.NoError(t, err)

	_, err = client.LoginFinish(t.Context(), session)
	assert.ErrorIs(t, err, keyguard.ErrAuthentication)
}

func TestRejectionStatuses(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "no", status)
		}))
		t.Cleanup(server.Close)

		client := authority.NewHTTPClient(server.URL, server.Client(), nil)

		err := client.Register(t.Context(), &message.RegistrationRecord{})
		assert.ErrorIs(t, err, authority.ErrRejected)

		_, err = client.LoginStart(t.Context(), &message.LoginStartRequest{})
		assert.ErrorIs(t, err, authority.ErrRejected)

		_, err = client.LoginFinish(t.Context(), &message.LoginFinishRequest{})
		assert.ErrorIs(t, err, authority.ErrRejected)
	}
}

func TestServerFailureIsNotRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	client := authority.NewHTTPClient(server.URL, server.Client(), nil)

	err := client.Register(t.Context(), &message.RegistrationRecord{})
	require.Error(t, err)
	assert.NotErrorIs(t, err, authority.ErrRejected)
	assert.Contains(t, err.Error(), "500")
}

func TestUnreachableAuthority(t *testing.T) {
	client := authority.NewHTTPClient("http://127.0.0.1:1", nil, nil)

	err := client.Register(t.Context(), &message.RegistrationRecord{Identity: "x"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, authority.ErrRejected)
}

func TestBadRequestBody(t *testing.T) {
	server := testServer(t)

	resp, err := http.Post(server.URL+authority.RegisterPath, "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRegistrationValidatedOverTheWire(t *testing.T) {
	server := testServer(t)
	client := authority.NewHTTPClient(server.URL, server.Client(), nil)

	err := client.Register(t.Context(), &message.RegistrationRecord{Identity: "carol"})
	assert.ErrorIs(t, err, authority.ErrRejected)
}
