// Copyright 2026 The Matrix Go SDK Authors
// SPDX-License-Identifier: Apache-2.0

package matrix

// AuthResponse is returned by Register and Login. HomeServer and
// DeviceID are filled when the server provides them.
type AuthResponse struct {
	UserID      string `json:"user_id"`
	AccessToken string `json:"access_token"`
	HomeServer  string `json:"home_server,omitempty"`
	DeviceID    string `json:"device_id,omitempty"`
}

// CreateRoomRequest holds parameters for creating a room. The zero
// value creates an unnamed private room.
type CreateRoomRequest struct {
	// Alias is the desired local alias part (the "foo" of
	// "#foo:example.org"), sent as room_alias_name when non-empty.
	Alias string
	// Public lists the room in the public directory. The default is a
	// private room.
	Public bool
	// Invite names user IDs to invite at creation, omitted when empty.
	Invite []string
}

// createRoomBody is the wire form of CreateRoomRequest: visibility is
// always present, the optional fields only when set.
type createRoomBody struct {
	Visibility    string   `json:"visibility"`
	RoomAliasName string   `json:"room_alias_name,omitempty"`
	Invite        []string `json:"invite,omitempty"`
}

// CreateRoomResponse is returned by CreateRoom.
type CreateRoomResponse struct {
	RoomID    string `json:"room_id"`
	RoomAlias string `json:"room_alias,omitempty"`
}

// Event is a single room, presence, or state event as this API
// generation returns it. The sender rides in user_id. StateKey is a
// pointer because state events carry an empty-but-present state key.
type Event struct {
	EventID        string         `json:"event_id,omitempty"`
	Type           string         `json:"type"`
	RoomID         string         `json:"room_id,omitempty"`
	UserID         string         `json:"user_id,omitempty"`
	StateKey       *string        `json:"state_key,omitempty"`
	Content        map[string]any `json:"content"`
	OriginServerTS int64          `json:"origin_server_ts,omitempty"`
}

// InitialSyncResponse is the snapshot returned by InitialSync: the
// caller's rooms, recent presence, and the stream token to pass to
// EventStream as from.
type InitialSyncResponse struct {
	End      string            `json:"end"`
	Presence []Event           `json:"presence"`
	Rooms    []InitialSyncRoom `json:"rooms"`
}

// InitialSyncRoom is one room in the initial sync snapshot.
type InitialSyncRoom struct {
	RoomID     string                `json:"room_id"`
	Membership string                `json:"membership"`
	Messages   *RoomMessagesResponse `json:"messages,omitempty"`
	State      []Event               `json:"state,omitempty"`
	Visibility string                `json:"visibility,omitempty"`
}

// EventStreamResponse is one long-poll result from the event stream.
// End is the from token for the next poll.
type EventStreamResponse struct {
	Start string  `json:"start"`
	End   string  `json:"end"`
	Chunk []Event `json:"chunk"`
}

// RoomMessagesOptions controls pagination for room message fetching.
type RoomMessagesOptions struct {
	// From is the pagination token to start from, typically the end
	// token of an InitialSync room or a previous page.
	From string
	// Direction is "b" (backward, the default) or "f" (forward).
	Direction string
	// Limit caps the page size; a value <= 0 sends 10.
	Limit int
}

// RoomMessagesResponse is one page of a room's message history.
type RoomMessagesResponse struct {
	Start string  `json:"start"`
	End   string  `json:"end"`
	Chunk []Event `json:"chunk"`
}

// SendEventResponse is returned by the event-sending methods.
type SendEventResponse struct {
	EventID string `json:"event_id"`
}

// RoomMember is one entry of a room's member list, flattened from the
// underlying m.room.member state events.
type RoomMember struct {
	UserID      string
	Membership  string
	DisplayName string
	AvatarURL   string
}

// DeviceInfo is the homeserver's record of one device.
type DeviceInfo struct {
	DeviceID    string `json:"device_id"`
	DisplayName string `json:"display_name,omitempty"`
	LastSeenIP  string `json:"last_seen_ip,omitempty"`
	LastSeenTS  int64  `json:"last_seen_ts,omitempty"`
}

// TURNServerResponse carries short-lived credentials for the
// homeserver's TURN relay.
type TURNServerResponse struct {
	Username string   `json:"username"`
	Password string   `json:"password"`
	URIs     []string `json:"uris"`
	TTL      int      `json:"ttl"`
}
