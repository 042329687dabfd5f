// Copyright 2026 The Matrix Go SDK Authors
// SPDX-License-Identifier: Apache-2.0

package matrix

import (
	"context"
	"errors"
	"net/http"
	"net/url"
)

// Device management lives on the r0 API generation; homeservers serve
// it alongside the v1 root these methods' Session otherwise speaks.

// Devices lists all devices of the Session's user.
func (s *Session) Devices(ctx context.Context) ([]DeviceInfo, error) {
	document, err := s.sendR0(ctx, http.MethodGet, "/devices", nil, nil)
	if err != nil {
		return nil, err
	}

	var response struct {
		Devices []DeviceInfo `json:"devices"`
	}
	if err := decodeInto(document, &response); err != nil {
		return nil, err
	}
	return response.Devices, nil
}

// GetDevice fetches the record of a single device.
func (s *Session) GetDevice(ctx context.Context, deviceID string) (*DeviceInfo, error) {
	document, err := s.sendR0(ctx, http.MethodGet, "/devices/"+url.PathEscape(deviceID), nil, nil)
	if err != nil {
		return nil, err
	}

	var response DeviceInfo
	if err := decodeInto(document, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// UpdateDevice sets a device's display name.
func (s *Session) UpdateDevice(ctx context.Context, deviceID, displayName string) error {
	body := map[string]any{"display_name": displayName}
	_, err := s.sendR0(ctx, http.MethodPut, "/devices/"+url.PathEscape(deviceID), body, nil)
	return err
}

// DeleteDevice removes a device and invalidates its access tokens.
// Homeservers guard this behind interactive auth: the first call
// usually fails with 401 and the available flows, and auth carries the
// completed stage on the second call. auth may be nil for the first
// call.
func (s *Session) DeleteDevice(ctx context.Context, deviceID string, auth map[string]any) error {
	var body any
	if auth != nil {
		body = map[string]any{"auth": auth}
	}
	_, err := s.sendR0(ctx, http.MethodDelete, "/devices/"+url.PathEscape(deviceID), body, nil)
	return err
}

// Device is a stateful view of one device: the server-side record plus
// local trust bookkeeping. The zero values of Verified, Blacklisted,
// and Ignored mean "no decision yet"; they are never sent to the
// server.
type Device struct {
	session *Session

	// ID is the device identifier.
	ID string

	// Server-side record, updated by Refresh.
	DisplayName string
	LastSeenIP  string
	LastSeenTS  int64

	// Local trust decisions.
	Verified    bool
	Blacklisted bool
	Ignored     bool

	// Identity keys in unpadded base64, when known. The homeserver
	// does not return these; they come from key-exchange payloads or
	// a cryptostore.
	Ed25519Key    string
	Curve25519Key string
}

// NewDevice creates a Device bound to a Session. Optional fields can
// be filled in directly on the returned value.
func NewDevice(session *Session, deviceID string) *Device {
	return &Device{session: session, ID: deviceID}
}

// Refresh reloads the device's record from the homeserver. It returns
// false with a nil error when the server no longer knows the device;
// other failures are returned as is. On success the server-side fields
// are updated in place.
func (d *Device) Refresh(ctx context.Context) (bool, error) {
	info, err := d.session.GetDevice(ctx, d.ID)
	if err != nil {
		var protocolErr *ProtocolError
		if errors.As(err, &protocolErr) && protocolErr.StatusCode == http.StatusNotFound {
			return false, nil
		}
		return false, err
	}

	d.DisplayName = info.DisplayName
	d.LastSeenIP = info.LastSeenIP
	d.LastSeenTS = info.LastSeenTS
	return true, nil
}
