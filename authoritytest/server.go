// SPDX-License-Identifier: MIT
//
// Copyright (C) 2025 The keyguard authors. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package authoritytest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/keyguardian/keyguard/authority"
	"github.com/keyguardian/keyguard/message"
)

// Handler exposes the authority over the same REST routes the HTTP client
// uses, so transport tests run against a real server.
func (a *Authority) Handler(log *slog.Logger) http.Handler {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	r := chi.NewRouter()

	r.Post(authority.RegisterPath, func(w http.ResponseWriter, req *http.Request) {
		record := &message.RegistrationRecord{}
		if !decode(w, req, record) {
			return
		}

		respond(w, log, nil, a.Register(req.Context(), record))
	})

	r.Post(authority.LoginStartPath, func(w http.ResponseWriter, req *http.Request) {
		start := &message.LoginStartRequest{}
		if !decode(w, req, start) {
			return
		}

		resp, err := a.LoginStart(req.Context(), start)
		respond(w, log, resp, err)
	})

	r.Post(authority.LoginFinishPath, func(w http.ResponseWriter, req *http.Request) {
		finish := &message.LoginFinishRequest{}
		if !decode(w, req, finish) {
			return
		}

		tokens, err := a.LoginFinish(req.Context(), finish)
		respond(w, log, tokens, err)
	})

	return r
}

func decode(w http.ResponseWriter, req *http.Request, out any) bool {
	if err := json.NewDecoder(req.Body).Decode(out); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return false
	}

	return true
}

func respond(w http.ResponseWriter, log *slog.Logger, body any, err error) {
	switch {
	case errors.Is(err, authority.ErrRejected):
		log.Debug("request rejected")
		http.Error(w, "rejected", http.StatusUnauthorized)

		return
	case err != nil:
		log.Error("authority failure", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if body == nil {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("{}"))

		return
	}

	_ = json.NewEncoder(w).Encode(body)
}
