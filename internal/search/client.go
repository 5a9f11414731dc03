package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"quizify/internal/answers"
)

// Client queries the music catalog proxy for artist and track name
// matches. A 404 means "no matches" and yields an empty result, not an
// error.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: http.DefaultClient,
	}
}

type artistResult struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	ProfileImageURL string `json:"profileImageUrl"`
}

type trackResult struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	AlbumCoverURL string `json:"albumCoverUrl"`
}

// Artists searches artists by free-text query.
func (c *Client) Artists(ctx context.Context, query string) ([]answers.Candidate, error) {
	var results []artistResult
	ok, err := c.get(ctx, "/api/spotify/artistname", query, &results)
	if err != nil || !ok {
		return nil, err
	}
	cands := make([]answers.Candidate, 0, len(results))
	for _, r := range results {
		cands = append(cands, answers.Candidate{ID: r.ID, Name: r.Name, ImageURL: r.ProfileImageURL})
	}
	return cands, nil
}

// Tracks searches tracks by free-text query.
func (c *Client) Tracks(ctx context.Context, query string) ([]answers.Candidate, error) {
	var results []trackResult
	ok, err := c.get(ctx, "/api/spotify/trackname", query, &results)
	if err != nil || !ok {
		return nil, err
	}
	cands := make([]answers.Candidate, 0, len(results))
	for _, r := range results {
		cands = append(cands, answers.Candidate{ID: r.ID, Name: r.Name, ImageURL: r.AlbumCoverURL})
	}
	return cands, nil
}

// get performs a free-text search call. ok is false on a 404, in which
// case the destination is left untouched.
func (c *Client) get(ctx context.Context, path, query string, dest any) (bool, error) {
	endpoint := fmt.Sprintf("%s%s?query=%s", c.BaseURL, path, url.QueryEscape(query))
	return c.getJSON(ctx, endpoint, dest)
}

func (c *Client) getJSON(ctx context.Context, endpoint string, dest any) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, fmt.Errorf("building search request: %w", err)
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("searching catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("searching catalog: unexpected status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return false, fmt.Errorf("decoding search response: %w", err)
	}
	return true, nil
}
