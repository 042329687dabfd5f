// Copyright 2026 The Matrix Go SDK Authors
// SPDX-License-Identifier: Apache-2.0

package matrix

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// defaultStreamTimeoutMS is how long the homeserver holds an event
// stream poll open when the caller does not say otherwise.
const defaultStreamTimeoutMS = 30000

// InitialSync fetches the caller's world snapshot: joined and invited
// rooms with recent messages and state, plus presence. limit caps the
// recent messages per room; a value <= 0 sends 1, enough to seed an
// event stream with the returned end token.
func (s *Session) InitialSync(ctx context.Context, limit int) (*InitialSyncResponse, error) {
	if limit <= 0 {
		limit = 1
	}
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))

	document, err := s.Send(ctx, http.MethodGet, "/initialSync", nil, query, nil)
	if err != nil {
		return nil, err
	}

	var response InitialSyncResponse
	if err := decodeInto(document, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// EventStream long-polls for new events. from is the stream token to
// resume after (the end token of InitialSync or of the previous poll);
// when empty, the parameter is omitted and the server starts at the
// stream's current position. timeoutMS is how long the server may hold
// the request open before answering with an empty chunk; a value <= 0
// sends the 30-second default.
//
// Each call is one poll. Looping, retry, and backoff belong to the
// caller; cancel ctx to abandon a poll early.
func (s *Session) EventStream(ctx context.Context, from string, timeoutMS int) (*EventStreamResponse, error) {
	if timeoutMS <= 0 {
		timeoutMS = defaultStreamTimeoutMS
	}
	query := url.Values{}
	if from != "" {
		query.Set("from", from)
	}
	query.Set("timeout", strconv.Itoa(timeoutMS))

	document, err := s.Send(ctx, http.MethodGet, "/events", nil, query, nil)
	if err != nil {
		return nil, err
	}

	var response EventStreamResponse
	if err := decodeInto(document, &response); err != nil {
		return nil, err
	}
	return &response, nil
}
