// SPDX-License-Identifier: MIT
//
// Copyright (C) 2025 The keyguard authors. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Command keyguard seals and opens signing-key envelopes and runs the SRP
// login flow against an identity authority.
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/keyguardian/keyguard"
	"github.com/keyguardian/keyguard/authority"
	"github.com/keyguardian/keyguard/storage"
)

var flagStore = &cli.StringFlag{
	Name:  "store",
	Value: "keyguard-store",
	Usage: "Directory holding envelope files",
}

var flagWallet = &cli.StringFlag{
	Name:     "wallet",
	Required: true,
	Usage:    "Wallet identifier the envelope is stored under",
}

var flagSecret = &cli.StringFlag{
	Name:     "secret",
	Required: true,
	Usage:    "Low-entropy session secret (PIN or password)",
	EnvVars:  []string{"KEYGUARD_SECRET"},
}

var flagSecondFactor = &cli.StringFlag{
	Name:    "second-factor",
	Usage:   "Optional secondary-factor secret from a device-bound credential",
	EnvVars: []string{"KEYGUARD_SECOND_FACTOR"},
}

var flagKeyFile = &cli.StringFlag{
	Name:     "key-file",
	Required: true,
	Usage:    "Path to the signing key to protect",
}

var flagAuthority = &cli.StringFlag{
	Name:  "authority-url",
	Value: "http://127.0.0.1:8081",
	Usage: "Identity authority base URL",
}

var flagIdentity = &cli.StringFlag{
	Name:     "identity",
	Required: true,
	Usage:    "Account identity to register or log in as",
}

func main() {
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	app := &cli.App{
		Name:  "keyguard",
		Usage: "protect a wallet signing key at rest and prove its secret to an identity authority",
		Commands: []*cli.Command{
			sealCommand(),
			openCommand(),
			registerCommand(log),
			loginCommand(log),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func params(cCtx *cli.Context) keyguard.KEKParams {
	return keyguard.KEKParams{
		Secret:       cCtx.String(flagSecret.Name),
		SecondFactor: cCtx.String(flagSecondFactor.Name),
	}
}

func sealCommand() *cli.Command {
	return &cli.Command{
		Name:  "seal",
		Usage: "encrypt a signing key into an envelope and store it",
		Flags: []cli.Flag{flagStore, flagWallet, flagSecret, flagSecondFactor, flagKeyFile},
		Action: func(cCtx *cli.Context) error {
			key, err := os.ReadFile(cCtx.String(flagKeyFile.Name))
			if err != nil {
				return err
			}

			vault, err := keyguard.NewVault(keyguard.DefaultConfiguration())
			if err != nil {
				return err
			}

			env, err := vault.Seal(key, params(cCtx))
			if err != nil {
				return err
			}

			store, err := storage.NewFileStore(cCtx.String(flagStore.Name))
			if err != nil {
				return err
			}

			return store.Put(cCtx.String(flagWallet.Name), env)
		},
	}
}

func openCommand() *cli.Command {
	return &cli.Command{
		Name:  "open",
		Usage: "decrypt a stored envelope and print the signing key",
		Flags: []cli.Flag{flagStore, flagWallet, flagSecret, flagSecondFactor},
		Action: func(cCtx *cli.Context) error {
			store, err := storage.NewFileStore(cCtx.String(flagStore.Name))
			if err != nil {
				return err
			}

			env, err := store.Get(cCtx.String(flagWallet.Name))
			if err != nil {
				return err
			}

			vault, err := keyguard.NewVault(keyguard.DefaultConfiguration())
			if err != nil {
				return err
			}

			key, err := vault.Open(env, params(cCtx))
			if err != nil {
				return err
			}

			_, err = os.Stdout.Write(key)

			return err
		},
	}
}

func registerCommand(log *slog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "register",
		Usage: "register an SRP verifier with the identity authority",
		Flags: []cli.Flag{flagAuthority, flagIdentity, flagSecret},
		Action: func(cCtx *cli.Context) error {
			client, err := keyguard.NewClient(keyguard.DefaultConfiguration(),
				authority.NewHTTPClient(cCtx.String(flagAuthority.Name), nil, log))
			if err != nil {
				return err
			}

			if err := client.Register(cCtx.Context, cCtx.String(flagIdentity.Name), cCtx.String(flagSecret.Name)); err != nil {
				return err
			}

			log.Info("registered", "identity", cCtx.String(flagIdentity.Name))

			return nil
		},
	}
}

func loginCommand(log *slog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "run the SRP login exchange and print the session tokens",
		Flags: []cli.Flag{flagAuthority, flagIdentity, flagSecret},
		Action: func(cCtx *cli.Context) error {
			client, err := keyguard.NewClient(keyguard.DefaultConfiguration(),
				authority.NewHTTPClient(cCtx.String(flagAuthority.Name), nil, log))
			if err != nil {
				return err
			}

			session, err := client.LoginStart(cCtx.Context, cCtx.String(flagIdentity.Name), cCtx.String(flagSecret.Name))
			if err != nil {
				return err
			}

			tokens, err := client.LoginFinish(cCtx.Context, session)
			if err != nil {
				return err
			}

			encoded, err := json.Marshal(tokens)
			if err != nil {
				return err
			}

			fmt.Println(string(encoded))

			return nil
		},
	}
}
