// Copyright 2026 The Matrix Go SDK Authors
// SPDX-License-Identifier: Apache-2.0

package matrix

import (
	"context"
	"net/http"
)

// TURNServer fetches short-lived TURN relay credentials for call
// setup. Servers without a configured relay return an empty URI list.
func (s *Session) TURNServer(ctx context.Context) (*TURNServerResponse, error) {
	document, err := s.Send(ctx, http.MethodGet, "/voip/turnServer", nil, nil, nil)
	if err != nil {
		return nil, err
	}

	var response TURNServerResponse
	if err := decodeInto(document, &response); err != nil {
		return nil, err
	}
	return &response, nil
}
