// SPDX-License-Identifier: MIT
//
// Copyright (C) 2025 The keyguard authors. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package authority defines the identity-authority collaborator the SRP
// client talks to, and an HTTP implementation of it.
//
// The authority owns registration records and verifies login evidence. The
// client never learns why the authority rejected an attempt; rejection is a
// single generic condition.
package authority

import (
	"context"
	"errors"

	"github.com/keyguardian/keyguard/message"
)

// ErrRejected is the single rejection condition surfaced for refused
// registrations and failed login attempts. It deliberately carries no detail
// about which check failed.
var ErrRejected = errors.New("authority rejected the request")

// Authority is the remote identity authority contract. Implementations
// perform one network round-trip per call and do not retry; callers decide
// whether to retry, and register and login-start are safe to repeat.
type Authority interface {
	// Register submits a registration record for an identity.
	Register(ctx context.Context, record *message.RegistrationRecord) error

	// LoginStart opens a login attempt and returns the authority's
	// challenge.
	LoginStart(ctx context.Context, req *message.LoginStartRequest) (*message.LoginStartResponse, error)

	// LoginFinish submits the client's evidence and returns session tokens
	// when it matches.
	LoginFinish(ctx context.Context, req *message.LoginFinishRequest) (*message.SessionTokens, error)
}

// Route paths of the HTTP transport.
const (
	RegisterPath    = "/srp/register"
	LoginStartPath  = "/srp/login/start"
	LoginFinishPath = "/srp/login/finish"
)
