// SPDX-License-Identifier: MIT
//
// Copyright (C) 2025 The keyguard authors. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package authority

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/keyguardian/keyguard/message"
)

// HTTPClient talks to an identity authority over its JSON REST interface.
type HTTPClient struct {
	baseURL string
	client  *http.Client
	log     *slog.Logger
}

// NewHTTPClient returns an authority client for the given base URL. A nil
// httpClient falls back to http.DefaultClient, a nil logger discards.
func NewHTTPClient(baseURL string, httpClient *http.Client, log *slog.Logger) *HTTPClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	return &HTTPClient{baseURL: baseURL, client: httpClient, log: log}
}

// Register implements Authority.
func (c *HTTPClient) Register(ctx context.Context, record *message.RegistrationRecord) error {
	return c.post(ctx, RegisterPath, record, nil)
}

// LoginStart implements Authority.
func (c *HTTPClient) LoginStart(ctx context.Context, req *message.LoginStartRequest) (*message.LoginStartResponse, error) {
	resp := &message.LoginStartResponse{}
	if err := c.post(ctx, LoginStartPath, req, resp); err != nil {
		return nil, err
	}

	return resp, nil
}

// LoginFinish implements Authority.
func (c *HTTPClient) LoginFinish(ctx context.Context, req *message.LoginFinishRequest) (*message.SessionTokens, error) {
	tokens := &message.SessionTokens{}
	if err := c.post(ctx, LoginFinishPath, req, tokens); err != nil {
		return nil, err
	}

	return tokens, nil
}

func (c *HTTPClient) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("authority round-trip: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		c.log.Debug("authority rejected request", "path", path, "status", resp.StatusCode)
		return ErrRejected
	default:
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("authority returned status %d: %s", resp.StatusCode, detail)
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}
