// SPDX-License-Identifier: MIT
//
// Copyright (C) 2025 The keyguard authors. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package keyguard

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

var (
	// ErrConfiguration indicates that the configuration is invalid.
	ErrConfiguration = ErrCodeConfiguration.New("")

	// ErrRegistration indicates that the registration phase failed.
	ErrRegistration = ErrCodeRegistration.New("")

	// ErrAuthentication indicates that the authority rejected the login
	// proof. It is deliberately generic: it does not reveal which internal
	// check failed.
	ErrAuthentication = ErrCodeAuthentication.New("authentication failed")

	// ErrProtocolViolation indicates a degenerate or malformed public
	// ephemeral from the authority. The exchange aborts before any
	// shared-secret arithmetic.
	ErrProtocolViolation = ErrCodeProtocol.New("protocol violation: unsafe server ephemeral")

	// ErrSessionState indicates a login finish without a matching, live,
	// unused login start.
	ErrSessionState = ErrCodeSession.New("login session missing, expired, or already used")

	// ErrEnvelope indicates a structurally or cryptographically invalid
	// envelope.
	ErrEnvelope = ErrCodeEnvelope.New("")

	// ErrLegacyEnvelope indicates an envelope persisted before salts and
	// wrap nonces were recorded. It cannot be decrypted; the protected key
	// must be recreated and sealed again.
	ErrLegacyEnvelope = ErrCodeLegacyEnvelope.New(
		"envelope predates the current format (missing salt or wrap iv): recreate and reseal the protected key")

	// ErrKeyUnwrap indicates an AEAD authentication failure unwrapping the
	// DEK: either the credentials are wrong or the envelope is corrupted;
	// the primitive cannot tell the two apart.
	ErrKeyUnwrap = ErrCodeKeyUnwrap.New(
		"key unwrap failed: wrong credential or corrupted envelope")
)

// ErrorCode represents the category of a keyguard error. It is used to
// classify failures and provide a consistent way to handle error conditions.
type ErrorCode byte //nolint:errname // This is an error code, not an error type.

const (
	// ErrCodeUnknown represents an unknown error.
	ErrCodeUnknown ErrorCode = iota

	// ErrCodeConfiguration represents an error related to the configuration.
	ErrCodeConfiguration

	// ErrCodeRegistration represents an error related to the registration phase.
	ErrCodeRegistration

	// ErrCodeAuthentication represents a rejected login proof.
	ErrCodeAuthentication

	// ErrCodeProtocol represents a protocol safety violation.
	ErrCodeProtocol

	// ErrCodeSession represents missing or stale login session state.
	ErrCodeSession

	// ErrCodeEnvelope represents an invalid or corrupted envelope.
	ErrCodeEnvelope

	// ErrCodeLegacyEnvelope represents an unrecoverable legacy envelope.
	ErrCodeLegacyEnvelope

	// ErrCodeKeyUnwrap represents an AEAD failure unwrapping the DEK.
	ErrCodeKeyUnwrap
)

// New creates a new Error with the given message and wrapped errors.
func (c ErrorCode) New(message string, errs ...error) *Error {
	if message == "" {
		message = strings.ReplaceAll(c.String(), "_", " ")
	}

	return &Error{
		Code:    c,
		Message: message,
		Err:     errors.Join(errs...),
	}
}

// String returns the string representation of the ErrorCode. If the code is
// not recognized, it returns "unknown_error".
func (c ErrorCode) String() string {
	switch c {
	case ErrCodeUnknown:
		return "unknown_error"
	case ErrCodeConfiguration:
		return "configuration_error"
	case ErrCodeRegistration:
		return "registration_error"
	case ErrCodeAuthentication:
		return "authentication_error"
	case ErrCodeProtocol:
		return "protocol_error"
	case ErrCodeSession:
		return "session_state_error"
	case ErrCodeEnvelope:
		return "envelope_error"
	case ErrCodeLegacyEnvelope:
		return "legacy_envelope_error"
	case ErrCodeKeyUnwrap:
		return "key_unwrap_error"
	default:
		return "unknown_error"
	}
}

// Error implements the error interface for the ErrorCode type.
func (c ErrorCode) Error() string {
	return c.String()
}

// Is implements the errors.Is method for the ErrorCode type.
// It allows checking if the error is of a specific ErrorCode.
func (c ErrorCode) Is(target error) bool {
	var errCode ErrorCode
	if errors.As(target, &errCode) {
		return byte(c) == byte(errCode)
	}

	var kgErr *Error
	if errors.As(target, &kgErr) {
		return byte(c) == byte(kgErr.Code)
	}

	return false
}

// As implements the errors.As method for the ErrorCode type.
func (c ErrorCode) As(target any) bool {
	switch t := target.(type) {
	case ErrorCode:
		return true
	case *ErrorCode:
		*t = c
		return true
	default:
		return false
	}
}

// Error represents a classified keyguard failure.
type Error struct {
	Err     error
	Message string
	Code    ErrorCode
}

// Error implements the error interface for the Error type. By convention, we
// return only the concise form of the current error, without the cause. The
// cause can be retrieved with the Unwrap() method.
func (e *Error) Error() string { return e.Message }

// Unwrap implements the errors.Unwrap method for the Error type. It allows
// retrieving the underlying error, if any.
func (e *Error) Unwrap() error { return e.Err }

// Join wraps the provided errors into the current error.
func (e *Error) Join(errs ...error) error {
	return errors.Join(e, errors.Join(errs...))
}

// LogValue implements the slog.LogValuer interface for the Error type.
func (e *Error) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("code", int(e.Code)),
		slog.String("code_name", e.Code.String()),
		slog.String("message", e.Message),
	}
	if e.Err != nil {
		attrs = append(attrs, slog.Any("error", e.Err))
	}

	return slog.GroupValue(attrs...)
}

// Format implements the fmt.Formatter interface for the Error type.
func (e *Error) Format(f fmt.State, verb rune) {
	switch verb {
	case 'v':
		if f.Flag('+') {
			e.formatV(f)
			return
		}

		fallthrough
	case 's':
		_, _ = io.WriteString(f, e.Error())
	case 'q':
		_, _ = fmt.Fprintf(f, "%q", e.Error())
	default:
		_, _ = io.WriteString(f, e.Error())
	}
}

// Is implements the errors.Is method for the Error type. A bare ErrorCode
// target matches on the code alone; an *Error target must also match the
// message.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return byte(e.Code) == byte(t.Code) && strings.EqualFold(e.Message, t.Message)
	}

	return e.Code.Is(target)
}

// As implements the errors.As method for the Error type.
func (e *Error) As(target any) bool {
	switch t := target.(type) {
	case *ErrorCode:
		*t = e.Code
		return true
	case **Error:
		*t = e
		return true
	default:
		return false
	}
}

func printV(f fmt.State, err error, depth int) {
	if err == nil {
		return
	}

	prefix := strings.Repeat("  ", depth)
	_, _ = fmt.Fprintf(f, "\n%s↳ %v", prefix, err)

	var multiUnwrapper interface{ Unwrap() []error }
	if errors.As(err, &multiUnwrapper) {
		for _, child := range multiUnwrapper.Unwrap() {
			printV(f, child, depth+1)
		}

		return
	}

	var singleUnwrapper interface{ Unwrap() error }
	if errors.As(err, &singleUnwrapper) {
		printV(f, singleUnwrapper.Unwrap(), depth+1)
	}
}

func (e *Error) formatV(f fmt.State) {
	_, _ = fmt.Fprintf(f, "code=%d(%s)", e.Code, e.Code.String())
	if e.Message != "" {
		_, _ = fmt.Fprintf(f, " message=%q", e.Message)
	}

	if e.Err != nil {
		printV(f, e.Err, 0)
	}
}
