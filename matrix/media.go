// Copyright 2026 The Matrix Go SDK Authors
// SPDX-License-Identifier: Apache-2.0

package matrix

import (
	"context"
	"io"
	"net/http"
)

// UploadMedia stores a blob in the homeserver's content repository and
// returns its mxc:// URI. The body streams as is with the given
// content type; this is the one endpoint that does not speak JSON on
// the way in. Authentication and error classification match the JSON
// dispatcher.
func (s *Session) UploadMedia(ctx context.Context, contentType string, content io.Reader) (string, error) {
	document, err := s.dispatchRaw(ctx, http.MethodPost, s.serverRoot+mediaPath+"/upload", contentType, content)
	if err != nil {
		return "", err
	}

	var response struct {
		ContentURI string `json:"content_uri"`
	}
	if err := decodeInto(document, &response); err != nil {
		return "", err
	}
	return response.ContentURI, nil
}
