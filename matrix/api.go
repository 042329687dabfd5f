// Copyright 2026 The Matrix Go SDK Authors
// SPDX-License-Identifier: Apache-2.0

package matrix

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
)

// apiPath is the versioned root of the client-server API generation
// this package speaks.
const apiPath = "/_matrix/client/api/v1"

// SessionConfig holds configuration for creating a Session.
type SessionConfig struct {
	// HomeserverURL is the base URL of the Matrix homeserver (e.g.
	// "https://matrix.org"). A URL already ending in the
	// /_matrix/client/api/v1 suffix is used verbatim; otherwise the
	// suffix is appended.
	HomeserverURL string
	// AccessToken authenticates requests. It may be empty: register
	// and login work anonymously, and the token still rides along as
	// an empty access_token query parameter.
	AccessToken string
	// HTTPClient is used for all requests. If nil, http.DefaultClient
	// is used.
	HTTPClient *http.Client
	// Logger is used for structured logging. If nil, slog.Default()
	// is used.
	Logger *slog.Logger
}

// Session is a client for one homeserver. It carries the normalized API
// root, the access token, and the transaction counter for event sends.
// A Session is safe for concurrent use; the counter is its only mutable
// state.
type Session struct {
	apiRoot    string // homeserver URL ending in apiPath
	serverRoot string // homeserver URL with no API suffix
	token      string
	httpClient *http.Client
	logger     *slog.Logger

	// transactionCounter allocates transaction IDs for sends that do
	// not bring their own. It starts at zero and is never reset for
	// the lifetime of the Session.
	transactionCounter atomic.Int64
}

// NewSession creates a Session for the homeserver at config.HomeserverURL.
func NewSession(config SessionConfig) (*Session, error) {
	if config.HomeserverURL == "" {
		return nil, fmt.Errorf("matrix: HomeserverURL is required")
	}

	// Validate the URL structure once. The string form is what gets
	// stored: request URLs are built by concatenation because
	// url.URL.String() re-encodes Path even when RawPath is set, which
	// would double-encode percent-escaped identifier segments.
	parsed, err := url.Parse(config.HomeserverURL)
	if err != nil {
		return nil, fmt.Errorf("matrix: invalid HomeserverURL %q: %w", config.HomeserverURL, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("matrix: HomeserverURL %q needs a scheme and host", config.HomeserverURL)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	apiRoot := normalizeBaseURL(config.HomeserverURL)
	return &Session{
		apiRoot:    apiRoot,
		serverRoot: strings.TrimSuffix(apiRoot, apiPath),
		token:      config.AccessToken,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// normalizeBaseURL resolves a homeserver URL to the API root: the URL
// kept as is when it already ends in the versioned suffix, otherwise
// the URL with the suffix appended across exactly one slash. Trailing
// slashes come off before the suffix check so a base like
// ".../api/v1/" does not gain a second copy of the suffix.
func normalizeBaseURL(baseURL string) string {
	trimmed := strings.TrimRight(baseURL, "/")
	if strings.HasSuffix(trimmed, apiPath) {
		return trimmed
	}
	return trimmed + apiPath
}

// WithAccessToken returns a Session authenticated with token. The
// receiver is unchanged: the two share the HTTP client and logger, and
// the new Session starts its own transaction counter. This is the step
// from an anonymous Session to an authenticated one after Register or
// Login.
func (s *Session) WithAccessToken(token string) *Session {
	return &Session{
		apiRoot:    s.apiRoot,
		serverRoot: s.serverRoot,
		token:      token,
		httpClient: s.httpClient,
		logger:     s.logger,
	}
}

// CloseIdleConnections closes idle connections in the underlying HTTP
// transport's pool. Call it after a network disruption so the next
// request opens a fresh connection instead of reusing a poisoned one.
func (s *Session) CloseIdleConnections() {
	s.httpClient.CloseIdleConnections()
}
