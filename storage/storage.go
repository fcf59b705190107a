// SPDX-License-Identifier: MIT
//
// Copyright (C) 2025 The keyguard authors. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package storage persists envelopes. The storage medium is an external
// collaborator of the envelope scheme; the core reads and writes the
// envelope shape verbatim and never inspects the medium.
package storage

import (
	"errors"

	"github.com/keyguardian/keyguard"
)

// ErrNotFound indicates no envelope is stored under the given wallet ID.
var ErrNotFound = errors.New("no envelope stored for this wallet")

// Store persists one envelope per wallet ID.
type Store interface {
	// Put stores the envelope under id, replacing any previous one.
	Put(id string, env *keyguard.Envelope) error

	// Get returns the envelope stored under id, or ErrNotFound.
	Get(id string) (*keyguard.Envelope, error)

	// Delete removes the envelope stored under id, if any.
	Delete(id string) error
}
