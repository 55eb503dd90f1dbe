// Dashboarr - Home Media Dashboard Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dashboarr

package sources

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"testing"
)

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"not configured", NotConfigured("Plex"), "Plex not configured"},
		{"timeout", TimeoutError("Sonarr", context.DeadlineExceeded), "Sonarr Connection Timeout"},
		{"transport", TransportError("Radarr", errors.New("connection refused")), "Radarr Connection Error: connection refused"},
		{"http status", HTTPStatusError("Overseerr", 502), "Overseerr HTTP 502"},
		{"auth", AuthError("Qbittorrent", "Qbittorrent Login Failed"), "Qbittorrent Login Failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClassifyDeadline(t *testing.T) {
	err := Classify("Plex", context.DeadlineExceeded)
	if err.Kind != KindTimeout {
		t.Errorf("Kind = %v, want KindTimeout", err.Kind)
	}
	if err.Error() != "Plex Connection Timeout" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestClassifyWrappedDeadline(t *testing.T) {
	// http.Client wraps context deadline errors in *url.Error.
	wrapped := &url.Error{Op: "Get", URL: "http://localhost:32400/library/all", Err: context.DeadlineExceeded}
	err := Classify("Plex", wrapped)
	if err.Kind != KindTimeout {
		t.Errorf("Kind = %v, want KindTimeout", err.Kind)
	}
}

func TestClassifyTransport(t *testing.T) {
	cause := errors.New("dial tcp 127.0.0.1:8989: connect: connection refused")
	wrapped := &url.Error{Op: "Get", URL: "http://localhost:8989/api/v3/health", Err: cause}
	err := Classify("Sonarr", wrapped)
	if err.Kind != KindTransport {
		t.Errorf("Kind = %v, want KindTransport", err.Kind)
	}
	want := fmt.Sprintf("Sonarr Connection Error: %v", cause)
	if err.Error() != want {
		t.Errorf("message = %q, want %q", err.Error(), want)
	}
}

func TestClassifyPassesThroughTypedErrors(t *testing.T) {
	orig := HTTPStatusError("Radarr", 503)
	got := Classify("Radarr", orig)
	if got != orig {
		t.Error("expected typed errors to pass through Classify unchanged")
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := TransportError("Plex", cause)
	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause")
	}
}

func TestKindStrings(t *testing.T) {
	kinds := map[ErrorKind]string{
		KindNotConfigured: "not_configured",
		KindTimeout:       "timeout",
		KindTransport:     "transport",
		KindHTTPStatus:    "http_status",
		KindAuth:          "auth",
		KindMalformed:     "malformed",
	}
	for kind, want := range kinds {
		if got := kind.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", kind, got, want)
		}
	}
}
