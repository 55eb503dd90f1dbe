// Dashboarr - Home Media Dashboard Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dashboarr

package sources

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
)

// ErrorKind classifies source failures so handlers and metrics can
// distinguish configuration problems from transient upstream issues.
type ErrorKind int

const (
	// KindNotConfigured means the source has no usable configuration.
	KindNotConfigured ErrorKind = iota
	// KindTimeout means the per-call deadline expired before a response.
	KindTimeout
	// KindTransport covers DNS, connection refused, TLS and similar failures.
	KindTransport
	// KindHTTPStatus means the upstream answered with a non-success status.
	KindHTTPStatus
	// KindAuth means the upstream rejected the configured credentials.
	KindAuth
	// KindMalformed means the response body could not be decoded.
	KindMalformed
)

// String returns the metrics label for the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindNotConfigured:
		return "not_configured"
	case KindTimeout:
		return "timeout"
	case KindTransport:
		return "transport"
	case KindHTTPStatus:
		return "http_status"
	case KindAuth:
		return "auth"
	case KindMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// Error is a classified source failure. Message is the user-facing string
// embedded verbatim in the dashboard payload, so its format is part of the
// API contract.
type Error struct {
	Source     string
	Kind       ErrorKind
	StatusCode int
	Message    string
	cause      error
}

// Error implements the error interface.
func (e *Error) Error() string { return e.Message }

// Unwrap exposes the underlying cause for errors.Is/As.
func (e *Error) Unwrap() error { return e.cause }

// withMessage overrides the user-facing message while keeping the
// classification, for call sites whose wording differs from the default.
func (e *Error) withMessage(msg string) *Error {
	e.Message = msg
	return e
}

// NotConfigured reports a source with missing configuration.
func NotConfigured(source string) *Error {
	return &Error{
		Source:  source,
		Kind:    KindNotConfigured,
		Message: fmt.Sprintf("%s not configured", source),
	}
}

// TimeoutError reports a deadline expiry talking to a source.
func TimeoutError(source string, cause error) *Error {
	return &Error{
		Source:  source,
		Kind:    KindTimeout,
		Message: fmt.Sprintf("%s Connection Timeout", source),
		cause:   cause,
	}
}

// TransportError reports a network-level failure talking to a source.
func TransportError(source string, cause error) *Error {
	return &Error{
		Source:  source,
		Kind:    KindTransport,
		Message: fmt.Sprintf("%s Connection Error: %v", source, cause),
		cause:   cause,
	}
}

// HTTPStatusError reports a non-success status from a source.
func HTTPStatusError(source string, code int) *Error {
	return &Error{
		Source:     source,
		Kind:       KindHTTPStatus,
		StatusCode: code,
		Message:    fmt.Sprintf("%s HTTP %d", source, code),
	}
}

// AuthError reports rejected credentials. The message is supplied by the
// caller because each upstream phrases its login failures differently.
func AuthError(source, message string) *Error {
	return &Error{
		Source:  source,
		Kind:    KindAuth,
		Message: message,
	}
}

// MalformedError reports an undecodable response body.
func MalformedError(source string, cause error) *Error {
	return &Error{
		Source:  source,
		Kind:    KindMalformed,
		Message: fmt.Sprintf("%s Connection Error: %v", source, cause),
		cause:   cause,
	}
}

// Classify converts an arbitrary transport error into a source Error.
// Deadline expiry, whether from the context or from the net layer, maps to
// a timeout; everything else is a transport failure.
func Classify(source string, err error) *Error {
	var srcErr *Error
	if errors.As(err, &srcErr) {
		return srcErr
	}

	if isTimeout(err) {
		return TimeoutError(source, err)
	}
	return TransportError(source, unwrapURLError(err))
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// unwrapURLError strips the "Get \"http://...\"" prefix url.Error adds, so
// dashboard error strings stay readable.
func unwrapURLError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		return urlErr.Err
	}
	return err
}
