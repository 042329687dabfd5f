// Copyright 2026 The Matrix Go SDK Authors
// SPDX-License-Identifier: Apache-2.0

package matrix

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Roots for the API generations that postdate api/v1. Homeservers
// serve all generations side by side; device management and the
// content repository never existed under the v1 root.
const (
	clientR0Path = "/_matrix/client/r0"
	mediaPath    = "/_matrix/media/v1"
)

// maxResponseSize caps how much of a response body gets read (256 MiB).
// Far beyond any sane API response; it exists so a misbehaving server
// cannot exhaust memory.
const maxResponseSize = 256 << 20

// Send performs a request against the client-server API root and
// returns the raw JSON response document. path is relative to the
// normalized API root (e.g. "/createRoom") and must already carry
// percent-encoded identifier segments. body is JSON-encoded, with nil
// encoding to the JSON null; query and headers may be nil. The typed
// methods cover the documented endpoints; Send is the escape hatch for
// everything else.
func (s *Session) Send(ctx context.Context, method, path string, body any, query url.Values, headers http.Header) (json.RawMessage, error) {
	return s.dispatch(ctx, method, s.apiRoot+path, body, query, headers)
}

// sendR0 targets the r0 client-server root instead of the v1 root.
func (s *Session) sendR0(ctx context.Context, method, path string, body any, query url.Values) (json.RawMessage, error) {
	return s.dispatch(ctx, method, s.serverRoot+clientR0Path+path, body, query, nil)
}

// dispatch is the single choke point for JSON API traffic. It enforces
// the wire conventions of this API generation in order: the method
// whitelist (before any I/O), the always-present access_token query
// parameter, the always-JSON body, and the fixed Content-Type header.
func (s *Session) dispatch(ctx context.Context, method, endpoint string, body any, query url.Values, headers http.Header) (json.RawMessage, error) {
	method = strings.ToUpper(method)
	if !supportedMethod(method) {
		return nil, &UnsupportedMethodError{Method: method}
	}

	// Every call gets its own query container: the token must not leak
	// into the caller's Values, and concurrent calls must not share.
	merged := make(url.Values, len(query)+1)
	for key, values := range query {
		merged[key] = append([]string(nil), values...)
	}
	merged.Set("access_token", s.token)

	// The body is serialized even for GET; nil encodes to null. The
	// v1 generation expects a body on every request.
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("matrix: encoding request body: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, method, endpoint+"?"+merged.Encode(), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("matrix: building request: %w", err)
	}
	for key, values := range headers {
		for _, value := range values {
			request.Header.Add(key, value)
		}
	}
	// Fixed per the wire format; overrides any caller-supplied value.
	request.Header.Set("Content-Type", "application/json")

	return s.roundTrip(request)
}

// dispatchRaw is the content-repository variant of dispatch: the body
// is an opaque byte stream with its own content type instead of JSON.
// Method checking, authentication, and response classification are the
// same as dispatch.
func (s *Session) dispatchRaw(ctx context.Context, method, endpoint, contentType string, body io.Reader) (json.RawMessage, error) {
	method = strings.ToUpper(method)
	if !supportedMethod(method) {
		return nil, &UnsupportedMethodError{Method: method}
	}

	query := url.Values{}
	query.Set("access_token", s.token)

	request, err := http.NewRequestWithContext(ctx, method, endpoint+"?"+query.Encode(), body)
	if err != nil {
		return nil, fmt.Errorf("matrix: building request: %w", err)
	}
	if contentType != "" {
		request.Header.Set("Content-Type", contentType)
	}

	return s.roundTrip(request)
}

// roundTrip executes the request and classifies the response: non-2xx
// becomes a *ProtocolError, a 2xx body that is not well-formed JSON
// becomes a *DecodeError. Transport failures come back wrapped with %w
// and keep their original type for errors.Is.
func (s *Session) roundTrip(request *http.Request) (json.RawMessage, error) {
	response, err := s.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("matrix: %s %s: %w", request.Method, request.URL.Path, err)
	}
	defer response.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(response.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("matrix: reading response body: %w", err)
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, newProtocolError(response.StatusCode, raw)
	}

	var document json.RawMessage
	if err := json.Unmarshal(raw, &document); err != nil {
		return nil, &DecodeError{Err: err}
	}
	return document, nil
}

// supportedMethod reports whether method is one of the four verbs the
// client-server API uses.
func supportedMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodPut, http.MethodPost, http.MethodDelete:
		return true
	}
	return false
}

// decodeInto unmarshals a response document into out, classifying a
// shape mismatch as a *DecodeError.
func decodeInto(document json.RawMessage, out any) error {
	if err := json.Unmarshal(document, out); err != nil {
		return &DecodeError{Err: err}
	}
	return nil
}
