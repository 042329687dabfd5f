// Copyright 2026 The Matrix Go SDK Authors
// SPDX-License-Identifier: Apache-2.0

// matrix-send is a command-line client for the Matrix client-server
// API: log in, send a message to a room, or follow the event stream.
//
// Credentials come from a YAML config file (see lib/cliconfig); the
// login subcommand prints a filled-in config snippet to stdout, and
// where to store it is the operator's decision.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if len(os.Args) < 2 {
		printUsage()
		return fmt.Errorf("subcommand required")
	}

	switch subcommand := os.Args[1]; subcommand {
	case "login":
		return runLogin(os.Args[2:])
	case "send":
		return runSend(os.Args[2:])
	case "stream":
		return runStream(os.Args[2:])
	case "-h", "--help", "help":
		printUsage()
		return nil
	default:
		printUsage()
		return fmt.Errorf("unknown subcommand: %q", subcommand)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage: matrix-send <subcommand> [flags]

Subcommands:
  login    Log in and print a config snippet
  send     Send a message to a room
  stream   Follow the event stream

Run 'matrix-send <subcommand> --help' for subcommand flags.
`)
}
