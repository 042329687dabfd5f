// Copyright 2026 The Matrix Go SDK Authors
// SPDX-License-Identifier: Apache-2.0

package matrix

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
)

// CreateRoom creates a room and returns its ID (and alias, when one
// was requested).
func (s *Session) CreateRoom(ctx context.Context, request CreateRoomRequest) (*CreateRoomResponse, error) {
	visibility := "private"
	if request.Public {
		visibility = "public"
	}
	body := createRoomBody{
		Visibility:    visibility,
		RoomAliasName: request.Alias,
		Invite:        request.Invite,
	}

	document, err := s.Send(ctx, http.MethodPost, "/createRoom", body, nil, nil)
	if err != nil {
		return nil, err
	}

	var response CreateRoomResponse
	if err := decodeInto(document, &response); err != nil {
		return nil, err
	}

	s.logger.Info("created room", "room_id", response.RoomID, "alias", request.Alias)
	return &response, nil
}

// JoinRoom joins a room by ID or alias and returns the room ID. An
// empty roomIDOrAlias is rejected before any network traffic.
func (s *Session) JoinRoom(ctx context.Context, roomIDOrAlias string) (string, error) {
	if roomIDOrAlias == "" {
		return "", &ArgumentError{Param: "roomIDOrAlias", Reason: "no room ID or alias to join"}
	}

	document, err := s.Send(ctx, http.MethodPost, "/join/"+url.PathEscape(roomIDOrAlias), nil, nil, nil)
	if err != nil {
		return "", err
	}

	var response struct {
		RoomID string `json:"room_id"`
	}
	if err := decodeInto(document, &response); err != nil {
		return "", err
	}
	return response.RoomID, nil
}

// LeaveRoom leaves a room.
func (s *Session) LeaveRoom(ctx context.Context, roomID string) error {
	_, err := s.Send(ctx, http.MethodPost, "/rooms/"+url.PathEscape(roomID)+"/leave", nil, nil, nil)
	return err
}

// ForgetRoom forgets a previously left room, dropping it from the
// caller's room list.
func (s *Session) ForgetRoom(ctx context.Context, roomID string) error {
	_, err := s.Send(ctx, http.MethodPost, "/rooms/"+url.PathEscape(roomID)+"/forget", nil, nil, nil)
	return err
}

// InviteUser invites a user to a room.
func (s *Session) InviteUser(ctx context.Context, roomID, userID string) error {
	body := map[string]any{"user_id": userID}
	_, err := s.Send(ctx, http.MethodPost, "/rooms/"+url.PathEscape(roomID)+"/invite", body, nil, nil)
	return err
}

// KickUser removes a user from a room with a reason.
func (s *Session) KickUser(ctx context.Context, roomID, userID, reason string) error {
	body := map[string]any{"user_id": userID, "reason": reason}
	_, err := s.Send(ctx, http.MethodPost, "/rooms/"+url.PathEscape(roomID)+"/kick", body, nil, nil)
	return err
}

// BanUser bans a user from a room with a reason.
func (s *Session) BanUser(ctx context.Context, roomID, userID, reason string) error {
	body := map[string]any{"user_id": userID, "reason": reason}
	_, err := s.Send(ctx, http.MethodPost, "/rooms/"+url.PathEscape(roomID)+"/ban", body, nil, nil)
	return err
}

// SendStateEvent sets a state event in a room. The state-key path
// segment is only present when stateKey is non-empty; room-level
// state like m.room.topic uses the shorter form.
func (s *Session) SendStateEvent(ctx context.Context, roomID, eventType, stateKey string, content any) (*SendEventResponse, error) {
	path := "/rooms/" + url.PathEscape(roomID) + "/state/" + url.PathEscape(eventType)
	if stateKey != "" {
		path += "/" + url.PathEscape(stateKey)
	}

	document, err := s.Send(ctx, http.MethodPut, path, content, nil, nil)
	if err != nil {
		return nil, err
	}

	var response SendEventResponse
	if err := decodeInto(document, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// GetStateEvent fetches the content of one state event. The state-key
// segment follows the same rule as SendStateEvent. The content shape
// depends on the event type, so the raw document is returned.
func (s *Session) GetStateEvent(ctx context.Context, roomID, eventType, stateKey string) (json.RawMessage, error) {
	path := "/rooms/" + url.PathEscape(roomID) + "/state/" + url.PathEscape(eventType)
	if stateKey != "" {
		path += "/" + url.PathEscape(stateKey)
	}
	return s.Send(ctx, http.MethodGet, path, nil, nil, nil)
}

// GetRoomState fetches a room's full current state as a flat list of
// state events.
func (s *Session) GetRoomState(ctx context.Context, roomID string) ([]Event, error) {
	document, err := s.Send(ctx, http.MethodGet, "/rooms/"+url.PathEscape(roomID)+"/state", nil, nil, nil)
	if err != nil {
		return nil, err
	}

	var state []Event
	if err := decodeInto(document, &state); err != nil {
		return nil, err
	}
	return state, nil
}

// SendMessageEvent sends a message event with a transaction ID taken
// from the Session's counter. Two sends on a fresh Session use "0"
// then "1"; the counter never repeats a value for this Session. Use
// SendMessageEventWithTxnID to retry with a known transaction ID.
func (s *Session) SendMessageEvent(ctx context.Context, roomID, eventType string, content any) (*SendEventResponse, error) {
	return s.sendMessageEvent(ctx, roomID, eventType, content, s.nextTransactionID())
}

// SendMessageEventWithTxnID sends a message event under a
// caller-supplied transaction ID, used verbatim ("0" is a valid ID).
// The homeserver deduplicates retries that reuse the same ID. The
// Session's counter is not consumed; an empty txnID is rejected before
// any network traffic.
func (s *Session) SendMessageEventWithTxnID(ctx context.Context, roomID, eventType string, content any, txnID string) (*SendEventResponse, error) {
	if txnID == "" {
		return nil, &ArgumentError{Param: "txnID", Reason: "transaction ID must be non-empty"}
	}
	return s.sendMessageEvent(ctx, roomID, eventType, content, txnID)
}

func (s *Session) sendMessageEvent(ctx context.Context, roomID, eventType string, content any, txnID string) (*SendEventResponse, error) {
	path := "/rooms/" + url.PathEscape(roomID) + "/send/" + url.PathEscape(eventType) + "/" + url.PathEscape(txnID)

	document, err := s.Send(ctx, http.MethodPut, path, content, nil, nil)
	if err != nil {
		return nil, err
	}

	var response SendEventResponse
	if err := decodeInto(document, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// nextTransactionID allocates the next transaction ID from the
// Session's counter: "0", "1", "2", ... in allocation order.
func (s *Session) nextTransactionID() string {
	return strconv.FormatInt(s.transactionCounter.Add(1)-1, 10)
}

// SendMessage sends plain text as an m.room.message event.
func (s *Session) SendMessage(ctx context.Context, roomID, text string) (*SendEventResponse, error) {
	return s.SendMessageEvent(ctx, roomID, EventTypeRoomMessage, TextMessage(text))
}

// RoomMessages fetches a page of a room's message history.
func (s *Session) RoomMessages(ctx context.Context, roomID string, options RoomMessagesOptions) (*RoomMessagesResponse, error) {
	direction := options.Direction
	if direction == "" {
		direction = "b"
	}
	limit := options.Limit
	if limit <= 0 {
		limit = 10
	}

	query := url.Values{}
	query.Set("from", options.From)
	query.Set("dir", direction)
	query.Set("limit", strconv.Itoa(limit))

	document, err := s.Send(ctx, http.MethodGet, "/rooms/"+url.PathEscape(roomID)+"/messages", nil, query, nil)
	if err != nil {
		return nil, err
	}

	var response RoomMessagesResponse
	if err := decodeInto(document, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// GetRoomMembers lists a room's members, flattened from the member
// state events the server returns.
func (s *Session) GetRoomMembers(ctx context.Context, roomID string) ([]RoomMember, error) {
	document, err := s.Send(ctx, http.MethodGet, "/rooms/"+url.PathEscape(roomID)+"/members", nil, nil, nil)
	if err != nil {
		return nil, err
	}

	var response struct {
		Chunk []Event `json:"chunk"`
	}
	if err := decodeInto(document, &response); err != nil {
		return nil, err
	}

	members := make([]RoomMember, 0, len(response.Chunk))
	for _, event := range response.Chunk {
		member := RoomMember{UserID: event.UserID}
		if event.StateKey != nil && *event.StateKey != "" {
			// The member's ID is the state key; user_id is whoever
			// sent the membership change.
			member.UserID = *event.StateKey
		}
		if membership, ok := event.Content["membership"].(string); ok {
			member.Membership = membership
		}
		if displayName, ok := event.Content["displayname"].(string); ok {
			member.DisplayName = displayName
		}
		if avatarURL, ok := event.Content["avatar_url"].(string); ok {
			member.AvatarURL = avatarURL
		}
		members = append(members, member)
	}
	return members, nil
}
