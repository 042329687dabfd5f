// Copyright 2026 The Matrix Go SDK Authors
// SPDX-License-Identifier: Apache-2.0

package matrix

import (
	"context"
	"net/http"
	"strings"
	"testing"
)

func TestNewSession(t *testing.T) {
	t.Run("valid URL", func(t *testing.T) {
		session, err := NewSession(SessionConfig{HomeserverURL: "http://localhost:8008"})
		if err != nil {
			t.Fatalf("NewSession failed: %v", err)
		}
		if session == nil {
			t.Fatal("NewSession returned nil")
		}
	})

	t.Run("empty URL", func(t *testing.T) {
		_, err := NewSession(SessionConfig{})
		if err == nil {
			t.Fatal("expected error for empty URL")
		}
	})

	t.Run("unparseable URL", func(t *testing.T) {
		_, err := NewSession(SessionConfig{HomeserverURL: "://invalid"})
		if err == nil {
			t.Fatal("expected error for invalid URL")
		}
	})

	t.Run("missing scheme", func(t *testing.T) {
		_, err := NewSession(SessionConfig{HomeserverURL: "localhost:8008"})
		if err == nil {
			t.Fatal("expected error for URL without scheme")
		}
	})
}

func TestNormalizeBaseURL(t *testing.T) {
	cases := []struct {
		name    string
		baseURL string
		want    string
	}{
		{
			name:    "bare host",
			baseURL: "https://example.org",
			want:    "https://example.org/_matrix/client/api/v1",
		},
		{
			name:    "trailing slash",
			baseURL: "https://example.org/",
			want:    "https://example.org/_matrix/client/api/v1",
		},
		{
			name:    "multiple trailing slashes",
			baseURL: "https://example.org///",
			want:    "https://example.org/_matrix/client/api/v1",
		},
		{
			name:    "host with port",
			baseURL: "http://localhost:8008",
			want:    "http://localhost:8008/_matrix/client/api/v1",
		},
		{
			name:    "path prefix is preserved",
			baseURL: "http://localhost:8008/matrix",
			want:    "http://localhost:8008/matrix/_matrix/client/api/v1",
		},
		{
			name:    "already normalized",
			baseURL: "https://example.org/_matrix/client/api/v1",
			want:    "https://example.org/_matrix/client/api/v1",
		},
		{
			name:    "already normalized with trailing slash",
			baseURL: "https://example.org/_matrix/client/api/v1/",
			want:    "https://example.org/_matrix/client/api/v1",
		},
	}

	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			got := normalizeBaseURL(testCase.baseURL)
			if got != testCase.want {
				t.Errorf("normalizeBaseURL(%q) = %q, want %q", testCase.baseURL, got, testCase.want)
			}
			if strings.Count(got, apiPath) != 1 {
				t.Errorf("result %q contains the API suffix %d times, want exactly once", got, strings.Count(got, apiPath))
			}
			if strings.Contains(got, "//_matrix") {
				t.Errorf("result %q has a doubled slash at the join point", got)
			}
		})
	}
}

func TestWithAccessToken(t *testing.T) {
	session := newTestSession(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assertToken(t, request, "fresh-token")
		writeJSON(writer, SendEventResponse{EventID: "$evt"})
	}))

	// Advance the original counter so the derived Session's fresh
	// counter is observable.
	session.transactionCounter.Add(3)

	derived := session.WithAccessToken("fresh-token")
	if derived == session {
		t.Fatal("WithAccessToken returned the receiver")
	}
	if session.token != "test-token" {
		t.Errorf("receiver token changed to %q", session.token)
	}
	if derived.transactionCounter.Load() != 0 {
		t.Errorf("derived counter starts at %d, want 0", derived.transactionCounter.Load())
	}

	response, err := derived.SendMessage(context.Background(), "!room:local", "hi")
	if err != nil {
		t.Fatalf("SendMessage on derived session failed: %v", err)
	}
	if response.EventID != "$evt" {
		t.Errorf("unexpected event ID: %s", response.EventID)
	}
}
