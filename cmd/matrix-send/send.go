// Copyright 2026 The Matrix Go SDK Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/derivmug/matrix-go-sdk/lib/cliconfig"
	"github.com/derivmug/matrix-go-sdk/matrix"
)

// runSend sends one message to a room: plain text by default, rich
// text with --html or --markdown.
func runSend(args []string) error {
	flagSet := pflag.NewFlagSet("send", pflag.ContinueOnError)
	configPath := flagSet.String("config", "", "config file path (default: the user config dir)")
	room := flagSet.String("room", "", "room ID or alias (default: default_room from the config)")
	asHTML := flagSet.Bool("html", false, "treat the message as HTML")
	asMarkdown := flagSet.Bool("markdown", false, "render the message from markdown")
	verbose := flagSet.Bool("verbose", false, "enable debug logging")
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if *asHTML && *asMarkdown {
		return fmt.Errorf("--html and --markdown are mutually exclusive")
	}

	positional := flagSet.Args()
	if len(positional) == 0 {
		return fmt.Errorf("usage: matrix-send send [flags] <message>")
	}
	message := strings.Join(positional, " ")

	session, config, err := cliconfig.OpenSession(*configPath, cliconfig.NewLogger(*verbose))
	if err != nil {
		return err
	}
	target, err := cliconfig.ResolveRoom(*room, config)
	if err != nil {
		return err
	}

	var content matrix.MessageContent
	switch {
	case *asHTML:
		content = matrix.HTMLMessage(message)
	case *asMarkdown:
		content, err = matrix.MarkdownMessage(message)
		if err != nil {
			return err
		}
	default:
		content = matrix.TextMessage(message)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Aliases need a join to resolve to a room ID; joining a room the
	// session is already in is a no-op on the server side.
	roomID := target
	if strings.HasPrefix(target, "#") {
		roomID, err = session.JoinRoom(ctx, target)
		if err != nil {
			return err
		}
	}

	response, err := session.SendMessageEvent(ctx, roomID, matrix.EventTypeRoomMessage, content)
	if err != nil {
		return err
	}
	fmt.Println(response.EventID)
	return nil
}
