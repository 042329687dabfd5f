// Copyright 2026 The Matrix Go SDK Authors
// SPDX-License-Identifier: Apache-2.0

package matrix

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// EventTypeRoomMessage is the event type of ordinary room messages.
const EventTypeRoomMessage = "m.room.message"

// formatCustomHTML marks a formatted_body as Matrix custom HTML.
const formatCustomHTML = "org.matrix.custom.html"

// MessageContent is the content of an m.room.message event. Format and
// FormattedBody are only present on rich-text messages; Body always
// carries the plain-text form.
type MessageContent struct {
	MsgType       string `json:"msgtype"`
	Body          string `json:"body"`
	Format        string `json:"format,omitempty"`
	FormattedBody string `json:"formatted_body,omitempty"`
}

// TextMessage builds plain-text message content.
func TextMessage(body string) MessageContent {
	return MessageContent{
		MsgType: "m.text",
		Body:    body,
	}
}

// EmoteMessage builds emote content (the /me form).
func EmoteMessage(body string) MessageContent {
	return MessageContent{
		MsgType: "m.emote",
		Body:    body,
	}
}

// tagPattern matches anything that looks like an HTML tag. It does not
// parse HTML; it only exists to derive a plain-text fallback body from
// markup.
var tagPattern = regexp.MustCompile(`<[^<]+?>`)

// HTMLMessage builds rich-text message content: html goes out verbatim
// as formatted_body, and the fallback body is html with tag-like
// substrings stripped. No sanitization happens at this layer; the html
// is the caller's responsibility.
func HTMLMessage(html string) MessageContent {
	return MessageContent{
		MsgType:       "m.text",
		Body:          tagPattern.ReplaceAllString(html, ""),
		Format:        formatCustomHTML,
		FormattedBody: html,
	}
}

// markdownInstance is initialized once and reused. The parser
// configuration never changes and goldmark is safe to share; per-call
// state lives in Convert.
var (
	markdownInstance goldmark.Markdown
	markdownOnce     sync.Once
)

func getMarkdown() goldmark.Markdown {
	markdownOnce.Do(func() {
		markdownInstance = goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		)
	})
	return markdownInstance
}

// MarkdownMessage renders markdown (GFM) to custom-HTML message
// content. The raw markdown source becomes the plain-text fallback
// body, so clients without HTML support still show something readable.
func MarkdownMessage(source string) (MessageContent, error) {
	var rendered bytes.Buffer
	if err := getMarkdown().Convert([]byte(source), &rendered); err != nil {
		return MessageContent{}, fmt.Errorf("matrix: rendering markdown: %w", err)
	}
	return MessageContent{
		MsgType:       "m.text",
		Body:          source,
		Format:        formatCustomHTML,
		FormattedBody: strings.TrimRight(rendered.String(), "\n"),
	}, nil
}
