// Copyright 2026 The Matrix Go SDK Authors
// SPDX-License-Identifier: Apache-2.0

package cliconfig

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/derivmug/matrix-go-sdk/matrix"
)

// NewLogger builds the commands' logger: warnings only by default,
// debug records when verbose.
func NewLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// OpenSession builds an authenticated Session from the config file at
// configPath (the default location when empty). The config must carry
// an access token; anonymous setup is the login subcommand's job.
func OpenSession(configPath string, logger *slog.Logger) (*matrix.Session, *Config, error) {
	if configPath == "" {
		var err error
		configPath, err = DefaultPath()
		if err != nil {
			return nil, nil, err
		}
	}

	config, err := Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	if config.AccessToken == "" {
		return nil, nil, fmt.Errorf("cliconfig: %s has no access_token (run 'matrix-send login' first)", configPath)
	}

	session, err := matrix.NewSession(matrix.SessionConfig{
		HomeserverURL: config.HomeserverURL,
		AccessToken:   config.AccessToken,
		Logger:        logger,
	})
	if err != nil {
		return nil, nil, err
	}
	return session, config, nil
}

// ResolveRoom picks the target room: the --room flag when given, the
// config's default_room otherwise.
func ResolveRoom(roomFlag string, config *Config) (string, error) {
	if roomFlag != "" {
		return roomFlag, nil
	}
	if config.DefaultRoom != "" {
		return config.DefaultRoom, nil
	}
	return "", fmt.Errorf("cliconfig: no room given (use --room or set default_room in the config)")
}
