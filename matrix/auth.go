// Copyright 2026 The Matrix Go SDK Authors
// SPDX-License-Identifier: Apache-2.0

package matrix

import (
	"context"
	"net/http"
)

// Login flow types for Register and Login.
const (
	LoginTypePassword      = "m.login.password"
	LoginTypeToken         = "m.login.token"
	LoginTypeRecaptcha     = "m.login.recaptcha"
	LoginTypeEmailIdentity = "m.login.email.identity"
)

// Register creates an account. loginType selects the registration flow
// (usually LoginTypePassword); extra carries the flow's fields, merged
// verbatim into the request body. The type field always comes from
// loginType: a "type" key in extra is overwritten.
//
// The Session is not mutated; pass the returned access token to
// WithAccessToken to get an authenticated Session.
func (s *Session) Register(ctx context.Context, loginType string, extra map[string]any) (*AuthResponse, error) {
	document, err := s.Send(ctx, http.MethodPost, "/register", authBody(loginType, extra), nil, nil)
	if err != nil {
		return nil, err
	}

	var response AuthResponse
	if err := decodeInto(document, &response); err != nil {
		return nil, err
	}

	s.logger.Info("registered account", "user_id", response.UserID)
	return &response, nil
}

// Login authenticates against an existing account. The body policy is
// the same as Register's: extra merged verbatim, loginType wins over a
// "type" key in extra. The Session is not mutated.
func (s *Session) Login(ctx context.Context, loginType string, extra map[string]any) (*AuthResponse, error) {
	document, err := s.Send(ctx, http.MethodPost, "/login", authBody(loginType, extra), nil, nil)
	if err != nil {
		return nil, err
	}

	var response AuthResponse
	if err := decodeInto(document, &response); err != nil {
		return nil, err
	}

	s.logger.Info("logged in", "user_id", response.UserID)
	return &response, nil
}

// LoginWithPassword is Login with the m.login.password flow.
func (s *Session) LoginWithPassword(ctx context.Context, user, password string) (*AuthResponse, error) {
	return s.Login(ctx, LoginTypePassword, map[string]any{
		"user":     user,
		"password": password,
	})
}

// Logout invalidates the Session's access token on the server.
func (s *Session) Logout(ctx context.Context) error {
	_, err := s.Send(ctx, http.MethodPost, "/logout", nil, nil, nil)
	return err
}

// authBody builds the register/login payload: the extra fields first,
// then the flow type on top.
func authBody(loginType string, extra map[string]any) map[string]any {
	body := make(map[string]any, len(extra)+1)
	for key, value := range extra {
		body[key] = value
	}
	body["type"] = loginType
	return body
}
