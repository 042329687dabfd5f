// Copyright 2026 The Matrix Go SDK Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/derivmug/matrix-go-sdk/matrix"
)

// Messages delivered into Update.
type (
	// incomingEventMsg is one event from the background stream.
	incomingEventMsg struct{ event matrix.Event }

	// streamErrorMsg reports that the background stream died.
	streamErrorMsg struct{ err error }

	// sendResultMsg reports the outcome of a SendMessage call.
	sendResultMsg struct{ err error }
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	senderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	ownStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	statusStyle = lipgloss.NewStyle().Faint(true)
)

// model is the bubbletea model for the chat view: scrollback viewport
// on top, composer line at the bottom, one status line between them.
type model struct {
	session *matrix.Session
	roomID  string
	userID  string

	events <-chan tea.Msg

	viewport viewport.Model
	input    textinput.Model
	lines    []string
	status   string
	ready    bool
	width    int
	height   int
}

func newModel(session *matrix.Session, roomID, userID string, history []matrix.Event, events <-chan tea.Msg) model {
	input := textinput.New()
	input.Placeholder = "message"
	input.Prompt = "> "
	input.Focus()

	m := model{
		session: session,
		roomID:  roomID,
		userID:  userID,
		events:  events,
		input:   input,
	}
	// History shows everything, own messages included; only the live
	// stream drops them (Enter already echoed those locally).
	for _, event := range history {
		if line, ok := m.formatEvent(event, true); ok {
			m.lines = append(m.lines, line)
		}
	}
	return m
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, listenForEvent(m.events))
}

// listenForEvent returns a tea.Cmd that blocks until the background
// stream delivers the next message. Re-issued after every delivery.
func listenForEvent(events <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		message, ok := <-events
		if !ok {
			return nil
		}
		return message
	}
}

// sendMessage returns a tea.Cmd that sends the composed text.
func sendMessage(session *matrix.Session, roomID, text string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		_, err := session.SendMessage(ctx, roomID, text)
		return sendResultMsg{err: err}
	}
}

// Update implements tea.Model.
func (m model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.WindowSizeMsg:
		m.width = message.Width
		m.height = message.Height
		// Header, status, and composer each take one line.
		contentHeight := message.Height - 3
		if contentHeight < 1 {
			contentHeight = 1
		}
		if !m.ready {
			m.viewport = viewport.New(message.Width, contentHeight)
			m.ready = true
		} else {
			m.viewport.Width = message.Width
			m.viewport.Height = contentHeight
		}
		m.refreshViewport()
		return m, nil

	case tea.KeyMsg:
		switch message.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			text := strings.TrimSpace(m.input.Value())
			if text == "" {
				return m, nil
			}
			m.input.Reset()
			// Echo locally; the homeserver also replays the event on
			// the stream, which formatEvent drops as a duplicate of
			// our own send.
			m.appendLine(ownStyle.Render(m.userID) + ": " + text)
			return m, sendMessage(m.session, m.roomID, text)
		}

	case incomingEventMsg:
		if line, ok := m.formatEvent(message.event, false); ok {
			m.appendLine(line)
		}
		return m, listenForEvent(m.events)

	case streamErrorMsg:
		m.status = errorStyle.Render(fmt.Sprintf("stream stopped: %v", message.err))
		return m, nil

	case sendResultMsg:
		if message.err != nil {
			m.status = errorStyle.Render(fmt.Sprintf("send failed: %v", message.err))
		} else {
			m.status = ""
		}
		return m, nil
	}

	var commands []tea.Cmd
	var command tea.Cmd
	m.input, command = m.input.Update(message)
	commands = append(commands, command)
	m.viewport, command = m.viewport.Update(message)
	commands = append(commands, command)
	return m, tea.Batch(commands...)
}

// View implements tea.Model.
func (m model) View() string {
	if !m.ready {
		return "connecting..."
	}
	status := m.status
	if status == "" {
		status = statusStyle.Render(fmt.Sprintf("%d messages", len(m.lines)))
	}
	return headerStyle.Render(m.roomID) + "\n" +
		m.viewport.View() + "\n" +
		status + "\n" +
		m.input.View()
}

// formatEvent renders an event as a scrollback line. Only room
// messages for this room are shown. includeOwn controls whether the
// session user's own messages render (history) or are dropped as
// already-echoed duplicates (live stream).
func (m *model) formatEvent(event matrix.Event, includeOwn bool) (string, bool) {
	if event.Type != matrix.EventTypeRoomMessage || event.RoomID != m.roomID {
		return "", false
	}
	body, _ := event.Content["body"].(string)
	if event.UserID == m.userID {
		if !includeOwn {
			return "", false
		}
		return ownStyle.Render(event.UserID) + ": " + body, true
	}
	return senderStyle.Render(event.UserID) + ": " + body, true
}

func (m *model) appendLine(line string) {
	m.lines = append(m.lines, line)
	m.refreshViewport()
}

func (m *model) refreshViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(strings.Join(m.lines, "\n"))
	m.viewport.GotoBottom()
}
