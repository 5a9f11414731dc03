package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// Client talks to the game backend's REST API. The backend owns all
// durable game state; this client only reports submissions and reads the
// player's role.
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

// SubmitAnswer notifies the backend that the player answered this round.
// It carries no score; the backend uses it for the "has answered"
// indicator broadcast to the room.
func (c *Client) SubmitAnswer(ctx context.Context, roomID, userID string) error {
	body := map[string]string{"userId": userID}
	resp, err := c.post(ctx, fmt.Sprintf("/api/game/%s/submitAnswer", url.PathEscape(roomID)), body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("submitting answer: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// SubmitPoints reports the points earned this round, zero included, and
// returns the backend's updated cumulative score for the player.
func (c *Client) SubmitPoints(ctx context.Context, roomID, userID string, points int) (int, error) {
	body := map[string]any{"userId": userID, "points": points}
	resp, err := c.post(ctx, fmt.Sprintf("/api/game/%s/submitPoints", url.PathEscape(roomID)), body)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("submitting points: unexpected status %d", resp.StatusCode)
	}

	var result struct {
		UpdatedScore int `json:"updatedScore"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, fmt.Errorf("decoding points response: %w", err)
	}
	return result.UpdatedScore, nil
}

// PlayerRole reports whether the player is the room's host.
func (c *Client) PlayerRole(ctx context.Context, roomID, userID string) (bool, error) {
	endpoint := fmt.Sprintf("%s/api/game/%s/player?userId=%s",
		c.BaseURL, url.PathEscape(roomID), url.QueryEscape(userID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, fmt.Errorf("building player role request: %w", err)
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("fetching player role: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("fetching player role: unexpected status %d", resp.StatusCode)
	}

	var result struct {
		IsHost bool `json:"isHost"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return false, fmt.Errorf("decoding player role: %w", err)
	}
	return result.IsHost, nil
}

func (c *Client) post(ctx context.Context, path string, body any) (*http.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling backend: %w", err)
	}
	return resp, nil
}
