// Copyright 2026 The Matrix Go SDK Authors
// SPDX-License-Identifier: Apache-2.0

// Package cliconfig loads the YAML configuration file shared by the
// bundled commands (matrix-send, matrix-console). The library packages
// never read files; configuration stops at the command boundary.
package cliconfig

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration for the bundled commands. The
// matrix-send login subcommand prints a filled-in snippet; nothing in
// this repository writes the file.
type Config struct {
	// HomeserverURL is the Matrix homeserver base URL. Required.
	HomeserverURL string `yaml:"homeserver_url"`

	// UserID is the full Matrix user ID (@user:server). Informational;
	// the access token is what authenticates.
	UserID string `yaml:"user_id"`

	// AccessToken authenticates the session. Treat the file as a
	// credential: keep it mode 0600.
	AccessToken string `yaml:"access_token"`

	// DefaultRoom is the room ID or alias used when a command is not
	// given --room.
	DefaultRoom string `yaml:"default_room"`
}

// Load reads and parses the configuration at path.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cliconfig: reading %s: %w", path, err)
	}

	var config Config
	if err := yaml.Unmarshal(raw, &config); err != nil {
		return nil, fmt.Errorf("cliconfig: parsing %s: %w", path, err)
	}
	if config.HomeserverURL == "" {
		return nil, fmt.Errorf("cliconfig: %s: homeserver_url is required", path)
	}
	return &config, nil
}

// DefaultPath returns the conventional configuration location:
// $XDG_CONFIG_HOME/matrix-go-sdk/config.yaml, falling back to the
// platform user config directory when XDG_CONFIG_HOME is unset.
func DefaultPath() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "matrix-go-sdk", "config.yaml"), nil
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("cliconfig: resolving config directory: %w", err)
	}
	return filepath.Join(configDir, "matrix-go-sdk", "config.yaml"), nil
}
