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

	"github.com/tomtom215/dashboarr/internal/config"
	"github.com/tomtom215/dashboarr/internal/models"
)

func TestPlexNotConfigured(t *testing.T) {
	p := NewPlex(config.PlexConfig{}, noNetworkClient(t))

	_, err := p.Fetch(context.Background())
	if err == nil {
		t.Fatal("expected error for unconfigured source")
	}
	if err.Error() != "Plex not configured" {
		t.Errorf("error = %q, want %q", err.Error(), "Plex not configured")
	}
	srcErr, ok := err.(*Error)
	if !ok || srcErr.Kind != KindNotConfigured {
		t.Errorf("expected KindNotConfigured, got %#v", err)
	}
}

func TestPlexFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/library/all":
			if r.URL.Query().Get("X-Plex-Token") != "tok" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			switch r.URL.Query().Get("type") {
			case "1":
				w.Write([]byte(`{"MediaContainer":{"size":1,"Metadata":[
					{"title":"Heat","year":1995,"thumb":"/library/metadata/1/thumb"}]}}`))
			case "4":
				w.Write([]byte(`{"MediaContainer":{"size":1,"Metadata":[
					{"title":"Pilot","grandparentTitle":"Severance","grandparentThumb":"/library/metadata/2/art"}]}}`))
			}
		case "/status/sessions":
			if r.Header.Get("X-Plex-Token") != "tok" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.Write([]byte(`{"MediaContainer":{"size":1,"Metadata":[
				{"title":"The Bends","type":"episode","grandparentTitle":"Breaking Bad",
				 "thumb":"/library/metadata/3/thumb","year":2008,
				 "User":{"title":"alice","thumb":"https://plex.tv/users/1/avatar"}}]}}`))
		}
	}))
	defer srv.Close()

	p := NewPlex(config.PlexConfig{URL: srv.URL, Token: "tok"}, NewClient())

	data, err := p.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	payload := data.(models.PlexPayload)

	if len(payload.Movies.Items) != 1 {
		t.Fatalf("movies = %d, want 1", len(payload.Movies.Items))
	}
	movie := payload.Movies.Items[0]
	if movie.Title != "Heat" || movie.Year != 1995 {
		t.Errorf("movie = %+v", movie)
	}
	wantThumb := srv.URL + "/library/metadata/1/thumb?X-Plex-Token=tok"
	if movie.Thumb != wantThumb {
		t.Errorf("movie thumb = %q, want %q", movie.Thumb, wantThumb)
	}

	if len(payload.Shows.Items) != 1 {
		t.Fatalf("shows = %d, want 1", len(payload.Shows.Items))
	}
	show := payload.Shows.Items[0]
	if show.Title != "Severance" {
		t.Errorf("show title = %q, want series name", show.Title)
	}
	if show.Episode != "Pilot" {
		t.Errorf("episode = %q, want %q", show.Episode, "Pilot")
	}
	if show.Thumb != srv.URL+"/library/metadata/2/art?X-Plex-Token=tok" {
		t.Errorf("show thumb = %q, want series poster", show.Thumb)
	}

	if len(payload.ActiveSessions) != 1 {
		t.Fatalf("sessions = %d, want 1", len(payload.ActiveSessions))
	}
	sess := payload.ActiveSessions[0]
	if sess.Title != "Breaking Bad - The Bends" {
		t.Errorf("session title = %q, want show - episode form", sess.Title)
	}
	if sess.User != "alice" {
		t.Errorf("session user = %q", sess.User)
	}
	if sess.UserThumb != "https://plex.tv/users/1/avatar?X-Plex-Token=tok" {
		t.Errorf("user thumb = %q", sess.UserThumb)
	}
}

func TestPlexShelfErrorIsolation(t *testing.T) {
	// Movies endpoint fails; shows and sessions stay intact.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/library/all":
			if r.URL.Query().Get("type") == "1" {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.Write([]byte(`{"MediaContainer":{"size":1,"Metadata":[{"title":"Ep","grandparentTitle":"Show"}]}}`))
		case "/status/sessions":
			w.Write([]byte(`{"MediaContainer":{"size":0}}`))
		}
	}))
	defer srv.Close()

	p := NewPlex(config.PlexConfig{URL: srv.URL, Token: "tok"}, NewClient())

	data, err := p.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	payload := data.(models.PlexPayload)

	if payload.Movies.Err != "Plex HTTP 500" {
		t.Errorf("movies error = %q, want %q", payload.Movies.Err, "Plex HTTP 500")
	}
	if payload.Shows.Err != "" || len(payload.Shows.Items) != 1 {
		t.Errorf("shows shelf corrupted: %+v", payload.Shows)
	}
	if payload.ActiveSessions == nil || len(payload.ActiveSessions) != 0 {
		t.Errorf("sessions = %#v, want empty list", payload.ActiveSessions)
	}
}

func TestPlexSessionFailureDegradesToEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/library/all":
			w.Write([]byte(`{"MediaContainer":{"size":0,"Metadata":[]}}`))
		case "/status/sessions":
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	}))
	defer srv.Close()

	p := NewPlex(config.PlexConfig{URL: srv.URL, Token: "tok"}, NewClient())

	data, err := p.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	payload := data.(models.PlexPayload)
	if len(payload.ActiveSessions) != 0 {
		t.Errorf("sessions = %#v, want empty on failure", payload.ActiveSessions)
	}
}
