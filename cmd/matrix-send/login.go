// Copyright 2026 The Matrix Go SDK Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/derivmug/matrix-go-sdk/lib/cliconfig"
	"github.com/derivmug/matrix-go-sdk/lib/secret"
	"github.com/derivmug/matrix-go-sdk/matrix"
)

// runLogin authenticates against the homeserver and prints a config
// snippet to stdout. The password is prompted with echo disabled and
// held in locked memory until the request is sent; the command never
// writes files.
func runLogin(args []string) error {
	flagSet := pflag.NewFlagSet("login", pflag.ContinueOnError)
	homeserverURL := flagSet.String("homeserver", "", "Matrix homeserver URL (required)")
	verbose := flagSet.Bool("verbose", false, "enable debug logging")
	if err := flagSet.Parse(args); err != nil {
		return err
	}

	positional := flagSet.Args()
	if len(positional) != 1 {
		return fmt.Errorf("usage: matrix-send login <username> --homeserver <url>")
	}
	username := positional[0]
	if *homeserverURL == "" {
		return fmt.Errorf("--homeserver is required")
	}

	password, err := promptPassword()
	if err != nil {
		return err
	}
	defer password.Close()

	session, err := matrix.NewSession(matrix.SessionConfig{
		HomeserverURL: *homeserverURL,
		Logger:        cliconfig.NewLogger(*verbose),
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	response, err := session.LoginWithPassword(ctx, username, password.String())
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	snippet, err := yaml.Marshal(cliconfig.Config{
		HomeserverURL: *homeserverURL,
		UserID:        response.UserID,
		AccessToken:   response.AccessToken,
	})
	if err != nil {
		return fmt.Errorf("encoding config snippet: %w", err)
	}

	path, err := cliconfig.DefaultPath()
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Logged in as %s\n", response.UserID)
	fmt.Fprintf(os.Stderr, "Save the following to %s (mode 0600):\n\n", path)
	os.Stdout.Write(snippet)
	return nil
}

// promptPassword reads a password from the terminal with echo disabled
// and moves it into locked memory.
func promptPassword() (*secret.Buffer, error) {
	stdinFileDescriptor := int(os.Stdin.Fd())
	if !term.IsTerminal(stdinFileDescriptor) {
		return nil, fmt.Errorf("no terminal available for the password prompt")
	}

	fmt.Fprint(os.Stderr, "Password: ")
	passwordBytes, err := term.ReadPassword(stdinFileDescriptor)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("reading password: %w", err)
	}

	buffer, err := secret.NewFromBytes(passwordBytes)
	if err != nil {
		secret.Zero(passwordBytes)
		return nil, err
	}
	return buffer, nil
}
