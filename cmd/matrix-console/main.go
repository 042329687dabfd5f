// Copyright 2026 The Matrix Go SDK Authors
// SPDX-License-Identifier: Apache-2.0

// matrix-console is an interactive terminal chat client for one Matrix
// room: a scrollback viewport, a composer line, and a background
// long-poll feeding events in as they arrive.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/derivmug/matrix-go-sdk/lib/cliconfig"
	"github.com/derivmug/matrix-go-sdk/matrix"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	flagSet := pflag.NewFlagSet("matrix-console", pflag.ContinueOnError)
	configPath := flagSet.String("config", "", "config file path (default: the user config dir)")
	room := flagSet.String("room", "", "room ID or alias (default: default_room from the config)")
	verbose := flagSet.Bool("verbose", false, "enable debug logging")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		return err
	}

	session, config, err := cliconfig.OpenSession(*configPath, cliconfig.NewLogger(*verbose))
	if err != nil {
		return err
	}
	target, err := cliconfig.ResolveRoom(*room, config)
	if err != nil {
		return err
	}

	setupCtx, cancelSetup := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelSetup()

	// Aliases resolve to a room ID through join; joining a room the
	// session is already in is a server-side no-op.
	roomID := target
	if strings.HasPrefix(target, "#") {
		roomID, err = session.JoinRoom(setupCtx, target)
		if err != nil {
			return err
		}
	}

	// Seed the scrollback and the stream position in one call.
	snapshot, err := session.InitialSync(setupCtx, 20)
	if err != nil {
		return err
	}

	streamCtx, stopStream := context.WithCancel(context.Background())
	defer stopStream()

	events := make(chan tea.Msg)
	go streamEvents(streamCtx, session, snapshot.End, events)

	model := newModel(session, roomID, config.UserID, historyFor(snapshot, roomID), events)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err = program.Run()
	return err
}

// streamEvents long-polls the event stream and forwards everything to
// the UI channel. It stops on context cancellation; any other failure
// is delivered as a streamErrorMsg and ends the stream (the UI shows
// the error rather than silently going quiet).
func streamEvents(ctx context.Context, session *matrix.Session, from string, events chan<- tea.Msg) {
	defer close(events)
	for {
		chunk, err := session.EventStream(ctx, from, 0)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			select {
			case events <- streamErrorMsg{err: err}:
			case <-ctx.Done():
			}
			return
		}
		for _, event := range chunk.Chunk {
			select {
			case events <- incomingEventMsg{event: event}:
			case <-ctx.Done():
				return
			}
		}
		from = chunk.End
	}
}

// historyFor extracts the recent messages of one room from the initial
// sync snapshot, oldest first.
func historyFor(snapshot *matrix.InitialSyncResponse, roomID string) []matrix.Event {
	for _, room := range snapshot.Rooms {
		if room.RoomID != roomID || room.Messages == nil {
			continue
		}
		return room.Messages.Chunk
	}
	return nil
}
