// Copyright 2026 The Matrix Go SDK Authors
// SPDX-License-Identifier: Apache-2.0

package matrix

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ArgumentError reports caller input that can never produce a valid
// request. It is returned before any network traffic happens.
type ArgumentError struct {
	// Param is the name of the offending parameter.
	Param string
	// Reason says what is wrong with it.
	Reason string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("matrix: invalid %s: %s", e.Param, e.Reason)
}

// UnsupportedMethodError reports an HTTP method outside the set this
// API generation uses (GET, PUT, POST, DELETE). It is returned before
// any network traffic happens.
type UnsupportedMethodError struct {
	Method string
}

func (e *UnsupportedMethodError) Error() string {
	return fmt.Sprintf("matrix: unsupported HTTP method %q", e.Method)
}

// ProtocolError is a non-2xx response from the homeserver. Body always
// carries the raw response text, whatever its shape. When the server
// sent the standard Matrix error JSON, Code and Message carry the
// parsed errcode and description. Callers branch on it with errors.As:
//
//	var protocolErr *matrix.ProtocolError
//	if errors.As(err, &protocolErr) {
//	    if protocolErr.Code == matrix.ErrCodeForbidden { ... }
//	}
type ProtocolError struct {
	// StatusCode is the HTTP status of the response.
	StatusCode int
	// Body is the raw response body text.
	Body string
	// Code is the Matrix error code (e.g. "M_FORBIDDEN"), empty when
	// the body was not a Matrix error document.
	Code string
	// Message is the server's human-readable description, empty when
	// the body was not a Matrix error document.
	Message string
}

func (e *ProtocolError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("matrix: %s (%d): %s", e.Code, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("matrix: HTTP %d: %s", e.StatusCode, e.Body)
}

// newProtocolError classifies a non-2xx response, picking up the Matrix
// errcode opportunistically. A body that is not the standard error
// document still ends up verbatim in Body.
func newProtocolError(statusCode int, body []byte) *ProtocolError {
	protocolErr := &ProtocolError{
		StatusCode: statusCode,
		Body:       string(body),
	}
	var document struct {
		Code    string `json:"errcode"`
		Message string `json:"error"`
	}
	if err := json.Unmarshal(body, &document); err == nil {
		protocolErr.Code = document.Code
		protocolErr.Message = document.Message
	}
	return protocolErr
}

// DecodeError is a 2xx response whose body could not be decoded, either
// because it is not JSON at all or because its shape does not match the
// endpoint's documented result. It usually means the configured URL
// does not point at a Matrix homeserver of this API generation.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("matrix: undecodable response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Standard Matrix error codes.
const (
	ErrCodeForbidden     = "M_FORBIDDEN"
	ErrCodeUnknownToken  = "M_UNKNOWN_TOKEN"
	ErrCodeBadJSON       = "M_BAD_JSON"
	ErrCodeNotJSON       = "M_NOT_JSON"
	ErrCodeNotFound      = "M_NOT_FOUND"
	ErrCodeLimitExceeded = "M_LIMIT_EXCEEDED"
	ErrCodeUserInUse     = "M_USER_IN_USE"
	ErrCodeRoomInUse     = "M_ROOM_IN_USE"
	ErrCodeUnknown       = "M_UNKNOWN"
)

// IsErrorCode reports whether err is a *ProtocolError carrying the
// given Matrix error code.
func IsErrorCode(err error, code string) bool {
	var protocolErr *ProtocolError
	if errors.As(err, &protocolErr) {
		return protocolErr.Code == code
	}
	return false
}
