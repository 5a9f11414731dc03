package cms

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// Client reads page content from the headless CMS content delivery API.
// Payloads are decoded into the explicit per-page schemas in content.go;
// fields the editor left out simply decode to the empty string.
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

// item fetches one content item and decodes its properties into props.
func (c *Client) item(ctx context.Context, locale, page string, props any) error {
	endpoint := fmt.Sprintf("%s/umbraco/delivery/api/v2/content/item/%s/%s",
		c.BaseURL, url.PathEscape(locale), url.PathEscape(page))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("building content request: %w", err)
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetching %s content: %w", page, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetching %s content: unexpected status %d", page, resp.StatusCode)
	}

	var item struct {
		Properties json.RawMessage `json:"properties"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&item); err != nil {
		return fmt.Errorf("decoding %s content: %w", page, err)
	}
	if len(item.Properties) == 0 {
		return fmt.Errorf("decoding %s content: no properties", page)
	}
	if err := json.Unmarshal(item.Properties, props); err != nil {
		return fmt.Errorf("decoding %s properties: %w", page, err)
	}
	return nil
}
