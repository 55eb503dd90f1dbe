// Dashboarr - Home Media Dashboard Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dashboarr

package sources

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/tomtom215/dashboarr/internal/config"
	"github.com/tomtom215/dashboarr/internal/models"
)

const (
	plexLibraryTimeout = 10 * time.Second
	plexSessionTimeout = 5 * time.Second
	plexRecentLimit    = 5

	plexTypeMovie   = 1
	plexTypeEpisode = 4
)

// Plex fetches recently added movies, recently added episodes and active
// playback sessions as three concurrent sub-queries. Each sub-query is
// fault-isolated: a failed shelf carries an inline error while the others
// still render, and a failed session lookup degrades to an empty list.
type Plex struct {
	cfg    config.PlexConfig
	client *Client
}

// NewPlex creates the media-server adapter.
func NewPlex(cfg config.PlexConfig, client *Client) *Plex {
	return &Plex{cfg: cfg, client: client}
}

// Name implements Source.
func (p *Plex) Name() string { return "plex" }

// Configured implements Source.
func (p *Plex) Configured() bool { return p.cfg.Configured() }

// Fetch implements Source. The three sub-queries run concurrently and the
// payload is assembled after all of them complete.
func (p *Plex) Fetch(ctx context.Context) (any, error) {
	if !p.Configured() {
		return nil, NotConfigured("Plex")
	}

	var (
		wg      sync.WaitGroup
		payload models.PlexPayload
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		payload.Movies = p.recentShelf(ctx, plexTypeMovie)
	}()
	go func() {
		defer wg.Done()
		payload.Shows = p.recentShelf(ctx, plexTypeEpisode)
	}()
	go func() {
		defer wg.Done()
		payload.ActiveSessions = p.activeSessions(ctx)
	}()
	wg.Wait()

	return payload, nil
}

// plexContainer is the envelope Plex wraps every response in.
type plexContainer struct {
	MediaContainer struct {
		Size     int        `json:"size"`
		Metadata []plexItem `json:"Metadata"`
	} `json:"MediaContainer"`
}

type plexItem struct {
	Title            string `json:"title"`
	Year             int    `json:"year"`
	Type             string `json:"type"`
	Thumb            string `json:"thumb"`
	GrandparentTitle string `json:"grandparentTitle"`
	GrandparentThumb string `json:"grandparentThumb"`
	User             struct {
		Title string `json:"title"`
		Thumb string `json:"thumb"`
	} `json:"User"`
}

// recentShelf queries /library/all for one media type, newest first.
// Episodes surface the show title, with the episode name alongside and the
// series poster preferred over the episode still.
func (p *Plex) recentShelf(ctx context.Context, libType int) models.MediaShelf {
	reqCtx, cancel := context.WithTimeout(ctx, plexLibraryTimeout)
	defer cancel()

	params := url.Values{
		"type":         {strconv.Itoa(libType)},
		"sort":         {"addedAt:desc"},
		"limit":        {strconv.Itoa(plexRecentLimit)},
		"X-Plex-Token": {p.cfg.Token},
	}

	var container plexContainer
	err := p.client.GetJSON(reqCtx, "Plex", p.cfg.URL+"/library/all?"+params.Encode(), nil, &container)
	if err != nil {
		return models.MediaShelf{Err: err.Error()}
	}

	items := make([]models.MediaItem, 0, len(container.MediaContainer.Metadata))
	for _, item := range container.MediaContainer.Metadata {
		if libType == plexTypeEpisode {
			title := item.Title
			if item.GrandparentTitle != "" {
				title = item.GrandparentTitle
			}
			thumb := item.GrandparentThumb
			if thumb == "" {
				thumb = item.Thumb
			}
			items = append(items, models.MediaItem{
				Title:   title,
				Episode: item.Title,
				Thumb:   p.thumbURL(thumb),
			})
		} else {
			items = append(items, models.MediaItem{
				Title: item.Title,
				Year:  item.Year,
				Thumb: p.thumbURL(item.Thumb),
			})
		}
	}
	return models.MediaShelf{Items: items}
}

// activeSessions queries /status/sessions. Any failure degrades to an
// empty list rather than an error entry.
func (p *Plex) activeSessions(ctx context.Context) []models.Session {
	reqCtx, cancel := context.WithTimeout(ctx, plexSessionTimeout)
	defer cancel()

	headers := map[string]string{"X-Plex-Token": p.cfg.Token}

	var container plexContainer
	if err := p.client.GetJSON(reqCtx, "Plex", p.cfg.URL+"/status/sessions", headers, &container); err != nil {
		return []models.Session{}
	}
	if container.MediaContainer.Size == 0 {
		return []models.Session{}
	}

	sessions := make([]models.Session, 0, len(container.MediaContainer.Metadata))
	for _, item := range container.MediaContainer.Metadata {
		user := item.User.Title
		if user == "" {
			user = "Unknown User"
		}

		userThumb := item.User.Thumb
		if userThumb != "" {
			userThumb = fmt.Sprintf("%s?X-Plex-Token=%s", userThumb, p.cfg.Token)
		}

		title := item.Title
		if item.Type == "episode" && item.GrandparentTitle != "" {
			title = item.GrandparentTitle + " - " + item.Title
		}

		sessions = append(sessions, models.Session{
			User:      user,
			UserThumb: userThumb,
			Title:     title,
			Thumb:     p.thumbURL(item.Thumb),
			Year:      item.Year,
			Type:      item.Type,
		})
	}
	return sessions
}

// thumbURL turns a server-relative thumb path into an absolute URL with
// the access token appended, since the browser fetches posters directly.
func (p *Plex) thumbURL(path string) string {
	if path == "" {
		return ""
	}
	return fmt.Sprintf("%s%s?X-Plex-Token=%s", p.cfg.URL, path, p.cfg.Token)
}
