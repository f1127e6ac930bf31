package awin

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rusthp/voxelpromo-sub005/internal/config"
)

const (
	apiTimeout = 30 * time.Second
	// Full datafeeds run to tens of thousands of rows; downloads can take
	// minutes on a slow advertiser export.
	downloadTimeout = 5 * time.Minute
)

// Client performs the raw HTTP work against the Awin API and datafeed hosts.
type Client struct {
	cfg      config.AwinConfig
	api      *http.Client
	download *http.Client
}

func NewClient(cfg config.AwinConfig) *Client {
	return &Client{
		cfg:      cfg,
		api:      &http.Client{Timeout: apiTimeout},
		download: &http.Client{Timeout: downloadTimeout},
	}
}

// BuildURL expands an endpoint template with the client credentials plus
// any extra variables. Unknown placeholders stay in the result.
func (c *Client) BuildURL(template string, extra map[string]string) string {
	vars := map[string]string{
		"publisherId":    c.cfg.PublisherID,
		"dataFeedApiKey": c.cfg.DataFeedAPIKey,
		"token":          c.cfg.Token,
	}
	for k, v := range extra {
		vars[k] = v
	}
	return FormatURL(template, vars)
}

// FetchFeedList downloads the datafeed directory CSV and returns one
// string-keyed record per advertiser feed. Column names vary by export
// format; callers resolve them through the candidate-key tables.
func (c *Client) FetchFeedList(ctx context.Context) ([]map[string]string, error) {
	url := c.BuildURL(c.cfg.APILinks.FeedList, nil)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create feed list request: %w", err)
	}

	resp, err := c.api.Do(req)
	if err != nil {
		return nil, fmt.Errorf("feed list request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed list returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read feed list body: %w", err)
	}

	return ParseRecords(string(body)), nil
}

// FetchFeed downloads a single advertiser feed as raw bytes and transparently
// decompresses it when the payload is gzip (magic bytes 0x1F 0x8B). The result
// is always plain UTF-8 CSV text.
func (c *Client) FetchFeed(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create feed request: %w", err)
	}

	resp, err := c.download.Do(req)
	if err != nil {
		return nil, fmt.Errorf("feed download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed download returned status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read feed body: %w", err)
	}

	if len(raw) >= 2 && raw[0] == 0x1F && raw[1] == 0x8B {
		gz, err := gzip.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("failed to open gzip feed: %w", err)
		}
		defer gz.Close()

		decompressed, err := io.ReadAll(gz)
		if err != nil {
			return nil, fmt.Errorf("failed to decompress feed: %w", err)
		}
		return decompressed, nil
	}

	return raw, nil
}

// GetJSON performs an authenticated GET against an api.awin.com endpoint and
// decodes the JSON response into out.
func (c *Client) GetJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.api.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
