// Dashboarr - Home Media Dashboard Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dashboarr

package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tomtom215/dashboarr/internal/config"
	"github.com/tomtom215/dashboarr/internal/models"
)

func TestArrNotConfigured(t *testing.T) {
	tests := []struct {
		name string
		src  Source
		want string
	}{
		{"sonarr", NewSonarr(config.ArrConfig{}, noNetworkClient(t)), "Sonarr not configured"},
		{"radarr missing key", NewRadarr(config.ArrConfig{URL: "http://localhost:7878"}, noNetworkClient(t)), "Radarr not configured"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.src.Fetch(context.Background())
			if err == nil || err.Error() != tt.want {
				t.Errorf("error = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestArrFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Api-Key") != "key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		switch r.URL.Path {
		case "/api/v3/health":
			w.Write([]byte(`[
				{"type":"error","message":"Indexer unavailable"},
				{"type":"warning","message":"Update available"},
				{"type":"notice","message":"ignored"}]`))
		case "/api/v3/queue":
			w.Write([]byte(`{"records":[
				{"title":"Dune Part Two","status":"downloading","protocol":"torrent"}]}`))
		}
	}))
	defer srv.Close()

	a := NewRadarr(config.ArrConfig{URL: srv.URL, APIKey: "key"}, NewClient())

	data, err := a.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	payload := data.(models.ArrPayload)

	if len(payload.Errors) != 1 || payload.Errors[0].Message != "Indexer unavailable" {
		t.Errorf("errors = %+v", payload.Errors)
	}
	if len(payload.Warnings) != 1 || payload.Warnings[0].Message != "Update available" {
		t.Errorf("warnings = %+v", payload.Warnings)
	}
	if len(payload.Activity) != 1 {
		t.Fatalf("activity = %+v", payload.Activity)
	}
	item := payload.Activity[0]
	if item.Title != "Dune Part Two" || item.Status != "downloading" || item.Protocol != "torrent" {
		t.Errorf("activity item = %+v", item)
	}
}

func TestArrEndpointStatusErrors(t *testing.T) {
	tests := []struct {
		name       string
		healthCode int
		queueCode  int
		want       string
	}{
		{"health failure", 503, 200, "Sonarr Health HTTP 503"},
		{"queue failure", 200, 500, "Sonarr Queue HTTP 500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				switch r.URL.Path {
				case "/api/v3/health":
					if tt.healthCode != 200 {
						w.WriteHeader(tt.healthCode)
						return
					}
					w.Write([]byte(`[]`))
				case "/api/v3/queue":
					if tt.queueCode != 200 {
						w.WriteHeader(tt.queueCode)
						return
					}
					w.Write([]byte(`{"records":[]}`))
				}
			}))
			defer srv.Close()

			a := NewSonarr(config.ArrConfig{URL: srv.URL, APIKey: "key"}, NewClient())

			_, err := a.Fetch(context.Background())
			if err == nil || err.Error() != tt.want {
				t.Errorf("error = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestArrTimeout(t *testing.T) {
	if testing.Short() {
		t.Skip("timeout test sleeps past the adapter deadline")
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(arrTimeout + time.Second):
		}
	}))
	defer srv.Close()

	a := NewSonarr(config.ArrConfig{URL: srv.URL, APIKey: "key"}, NewClient())

	start := time.Now()
	_, err := a.Fetch(context.Background())
	elapsed := time.Since(start)

	if err == nil || err.Error() != "Sonarr Connection Timeout" {
		t.Errorf("error = %v, want timeout classification", err)
	}
	if elapsed > arrTimeout+2*time.Second {
		t.Errorf("fetch took %v, deadline not enforced", elapsed)
	}
}

func TestArrTransportError(t *testing.T) {
	// Closed server: connection refused.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	a := NewRadarr(config.ArrConfig{URL: url, APIKey: "key"}, NewClient())

	_, err := a.Fetch(context.Background())
	srcErr, ok := err.(*Error)
	if !ok || srcErr.Kind != KindTransport {
		t.Fatalf("expected transport error, got %v", err)
	}
}
