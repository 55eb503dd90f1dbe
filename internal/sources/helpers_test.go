// Dashboarr - Home Media Dashboard Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dashboarr

package sources

import (
	"net/http"
	"testing"
)

// noNetworkClient returns a client whose transport fails the test if any
// request is attempted. Used to prove configuration short-circuits happen
// before network activity.
func noNetworkClient(t *testing.T) *Client {
	t.Helper()
	return NewClientWithHTTP(&http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			t.Errorf("unexpected network request to %s", req.URL)
			return nil, http.ErrUseLastResponse
		}),
	})
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}
