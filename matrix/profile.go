// Copyright 2026 The Matrix Go SDK Authors
// SPDX-License-Identifier: Apache-2.0

package matrix

import (
	"context"
	"net/http"
	"net/url"
)

// GetDisplayName fetches a user's display name.
func (s *Session) GetDisplayName(ctx context.Context, userID string) (string, error) {
	document, err := s.Send(ctx, http.MethodGet, "/profile/"+url.PathEscape(userID)+"/displayname", nil, nil, nil)
	if err != nil {
		return "", err
	}

	var response struct {
		DisplayName string `json:"displayname"`
	}
	if err := decodeInto(document, &response); err != nil {
		return "", err
	}
	return response.DisplayName, nil
}

// SetDisplayName sets the display name of the Session's own user.
func (s *Session) SetDisplayName(ctx context.Context, userID, displayName string) error {
	body := map[string]any{"displayname": displayName}
	_, err := s.Send(ctx, http.MethodPut, "/profile/"+url.PathEscape(userID)+"/displayname", body, nil, nil)
	return err
}

// GetAvatarURL fetches a user's avatar URL (an mxc:// URI).
func (s *Session) GetAvatarURL(ctx context.Context, userID string) (string, error) {
	document, err := s.Send(ctx, http.MethodGet, "/profile/"+url.PathEscape(userID)+"/avatar_url", nil, nil, nil)
	if err != nil {
		return "", err
	}

	var response struct {
		AvatarURL string `json:"avatar_url"`
	}
	if err := decodeInto(document, &response); err != nil {
		return "", err
	}
	return response.AvatarURL, nil
}

// SetAvatarURL sets the avatar of the Session's own user to a
// previously uploaded mxc:// URI (see UploadMedia).
func (s *Session) SetAvatarURL(ctx context.Context, userID, avatarURL string) error {
	body := map[string]any{"avatar_url": avatarURL}
	_, err := s.Send(ctx, http.MethodPut, "/profile/"+url.PathEscape(userID)+"/avatar_url", body, nil, nil)
	return err
}
