// Copyright 2026 The Matrix Go SDK Authors
// SPDX-License-Identifier: Apache-2.0

// Package matrix is a typed binding to the first generation of the
// Matrix client-server HTTP API (the /_matrix/client/api/v1 root).
//
// [Session] is the client value: homeserver URL, access token, HTTP
// transport, and a transaction counter for event sends. [NewSession]
// normalizes the homeserver URL (a URL already ending in the versioned
// suffix is taken verbatim, anything else gets the suffix appended) and
// applies defaults for the HTTP client and logger.
// [Session.WithAccessToken] derives an authenticated Session from an
// anonymous one after Register or Login; Sessions are never mutated.
//
// Every call funnels through one dispatcher that enforces this API
// generation's wire conventions: the access token always rides as the
// access_token query parameter (even when empty), the request body is
// always JSON (a call without a body sends the JSON null), and
// Content-Type is always application/json. [Session.Send] exposes the
// dispatcher for endpoints without a typed wrapper.
//
// Failures are classified into four inspectable kinds, all detectable
// with errors.As: [ArgumentError] and [UnsupportedMethodError] before
// any network traffic, [ProtocolError] for non-2xx responses (with the
// Matrix errcode parsed out when present), and [DecodeError] for 2xx
// responses that do not decode. Transport failures pass through with
// %w wrapping and are never reclassified.
//
// Request URLs are built by string concatenation with url.PathEscape
// applied to every identifier segment (room IDs, aliases, user IDs,
// event types, state keys, transaction IDs); url.URL.String() is
// avoided because it re-encodes Path even when RawPath is set.
//
// The package keeps no on-disk state and starts no goroutines. Event
// delivery is a plain long-poll GET ([Session.EventStream]) driven by
// the caller; the bundled commands show the loop.
package matrix
