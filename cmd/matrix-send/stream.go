// Copyright 2026 The Matrix Go SDK Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/derivmug/matrix-go-sdk/lib/cliconfig"
	"github.com/derivmug/matrix-go-sdk/matrix"
)

// runStream follows the event stream and prints room messages as they
// arrive, until interrupted. The long-poll loop lives here: the
// library's EventStream is one poll per call.
func runStream(args []string) error {
	flagSet := pflag.NewFlagSet("stream", pflag.ContinueOnError)
	configPath := flagSet.String("config", "", "config file path (default: the user config dir)")
	room := flagSet.String("room", "", "only print events from this room ID")
	verbose := flagSet.Bool("verbose", false, "enable debug logging")
	if err := flagSet.Parse(args); err != nil {
		return err
	}

	session, _, err := cliconfig.OpenSession(*configPath, cliconfig.NewLogger(*verbose))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Seed the stream position; limit 1 keeps the snapshot small.
	snapshot, err := session.InitialSync(ctx, 1)
	if err != nil {
		return err
	}
	from := snapshot.End

	fmt.Fprintln(os.Stderr, "streaming events (ctrl-c to stop)")
	for {
		chunk, err := session.EventStream(ctx, from, 0)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		for _, event := range chunk.Chunk {
			printEvent(event, *room)
		}
		from = chunk.End
	}
}

// printEvent writes one room message to stdout. Non-message events and
// events outside the room filter are skipped.
func printEvent(event matrix.Event, roomFilter string) {
	if event.Type != matrix.EventTypeRoomMessage {
		return
	}
	if roomFilter != "" && event.RoomID != roomFilter {
		return
	}
	body, _ := event.Content["body"].(string)
	fmt.Printf("[%s] %s: %s\n", event.RoomID, event.UserID, body)
}
