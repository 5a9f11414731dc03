package search

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"quizify/internal/track"
)

// Playlist is a catalog playlist the host can load a round queue from.
// Tracks are only populated when fetching a single playlist by id; search
// results carry the summary fields.
type Playlist struct {
	ID          string
	Name        string
	Description string
	ImageURL    string
	OwnerName   string
	Tracks      []track.CurrentTrack
}

type playlistResult struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Description      string          `json:"description"`
	PlaylistImageURL string          `json:"playlistImageUrl"`
	OwnerName        string          `json:"ownerName"`
	Tracks           []playlistTrack `json:"tracks"`
}

type playlistTrack struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Artists []string `json:"artists"`
}

// Playlists searches playlists by free-text query.
func (c *Client) Playlists(ctx context.Context, query string) ([]Playlist, error) {
	var results []playlistResult
	ok, err := c.get(ctx, "/api/spotify/search", query, &results)
	if err != nil || !ok {
		return nil, err
	}
	playlists := make([]Playlist, 0, len(results))
	for _, r := range results {
		playlists = append(playlists, toPlaylist(r))
	}
	return playlists, nil
}

// Playlist fetches one playlist with its full track listing.
func (c *Client) Playlist(ctx context.Context, id string) (*Playlist, error) {
	var result playlistResult
	endpoint := fmt.Sprintf("%s/api/spotify/playlist/%s", c.BaseURL, url.PathEscape(id))
	ok, err := c.getJSON(ctx, endpoint, &result)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("playlist %s not found", id)
	}
	pl := toPlaylist(result)
	return &pl, nil
}

func toPlaylist(r playlistResult) Playlist {
	pl := Playlist{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		ImageURL:    r.PlaylistImageURL,
		OwnerName:   r.OwnerName,
	}
	for _, pt := range r.Tracks {
		if pt.ID == "" {
			continue
		}
		pl.Tracks = append(pl.Tracks, track.CurrentTrack{
			TrackID:    pt.ID,
			TrackName:  pt.Name,
			ArtistName: strings.Join(pt.Artists, ", "),
		})
	}
	return pl
}
