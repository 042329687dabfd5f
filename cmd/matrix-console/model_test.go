// Copyright 2026 The Matrix Go SDK Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/derivmug/matrix-go-sdk/matrix"
)

var errTest = errors.New("synthetic failure")

func messageEvent(roomID, userID, body string) matrix.Event {
	return matrix.Event{
		Type:    matrix.EventTypeRoomMessage,
		RoomID:  roomID,
		UserID:  userID,
		Content: map[string]any{"msgtype": "m.text", "body": body},
	}
}

func newTestModel(t *testing.T, history []matrix.Event) model {
	t.Helper()
	session, err := matrix.NewSession(matrix.SessionConfig{
		HomeserverURL: "http://localhost:0",
		AccessToken:   "test-token",
	})
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	events := make(chan tea.Msg)
	m := newModel(session, "!room:example.org", "@me:example.org", history, events)

	// Size the viewport so appends are reflected in the view.
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return updated.(model)
}

func TestHistorySeedsScrollback(t *testing.T) {
	m := newTestModel(t, []matrix.Event{
		messageEvent("!room:example.org", "@alice:example.org", "hello"),
		messageEvent("!room:example.org", "@me:example.org", "hi back"),
		messageEvent("!other:example.org", "@alice:example.org", "wrong room"),
		{Type: "m.room.topic", RoomID: "!room:example.org", Content: map[string]any{}},
	})

	if len(m.lines) != 2 {
		t.Fatalf("scrollback has %d lines, want 2", len(m.lines))
	}
	if !strings.Contains(m.lines[0], "hello") {
		t.Errorf("first line %q does not carry the message body", m.lines[0])
	}
	// Own messages appear in history.
	if !strings.Contains(m.lines[1], "hi back") {
		t.Errorf("own history message missing: %q", m.lines[1])
	}
}

func TestIncomingEventAppendsAndRelistens(t *testing.T) {
	m := newTestModel(t, nil)

	updated, command := m.Update(incomingEventMsg{
		event: messageEvent("!room:example.org", "@alice:example.org", "fresh"),
	})
	m = updated.(model)

	if len(m.lines) != 1 || !strings.Contains(m.lines[0], "fresh") {
		t.Errorf("scrollback = %v, want the new message", m.lines)
	}
	if command == nil {
		t.Error("Update did not re-issue the stream listen command")
	}
}

func TestOwnStreamEventDropped(t *testing.T) {
	m := newTestModel(t, nil)

	updated, _ := m.Update(incomingEventMsg{
		event: messageEvent("!room:example.org", "@me:example.org", "echo"),
	})
	m = updated.(model)

	if len(m.lines) != 0 {
		t.Errorf("own stream event was appended: %v", m.lines)
	}
}

func TestEnterSendsAndEchoes(t *testing.T) {
	m := newTestModel(t, nil)
	m.input.SetValue("  typed message  ")

	updated, command := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(model)

	if command == nil {
		t.Fatal("Enter did not produce a send command")
	}
	if m.input.Value() != "" {
		t.Errorf("composer not cleared: %q", m.input.Value())
	}
	if len(m.lines) != 1 || !strings.Contains(m.lines[0], "typed message") {
		t.Errorf("local echo missing: %v", m.lines)
	}

	// Enter on an empty composer is a no-op.
	updated, command = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(model)
	if command != nil {
		t.Error("empty composer produced a send command")
	}
	if len(m.lines) != 1 {
		t.Errorf("empty send appended a line: %v", m.lines)
	}
}

func TestStreamErrorShowsStatus(t *testing.T) {
	m := newTestModel(t, nil)

	updated, _ := m.Update(streamErrorMsg{err: errTest})
	m = updated.(model)

	if !strings.Contains(m.status, "stream stopped") {
		t.Errorf("status = %q, want a stream error", m.status)
	}
	if !strings.Contains(m.View(), "stream stopped") {
		t.Error("view does not surface the stream error")
	}
}

func TestSendFailureShowsStatus(t *testing.T) {
	m := newTestModel(t, nil)

	updated, _ := m.Update(sendResultMsg{err: errTest})
	m = updated.(model)
	if !strings.Contains(m.status, "send failed") {
		t.Errorf("status = %q, want a send error", m.status)
	}

	// A later successful send clears it.
	updated, _ = m.Update(sendResultMsg{})
	m = updated.(model)
	if m.status != "" {
		t.Errorf("status not cleared after a successful send: %q", m.status)
	}
}
