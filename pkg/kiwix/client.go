// Package kiwix is a minimal client for a kiwix-serve style endpoint: full
// text search across the served books plus page body fetching. Pages come
// back as plain text with markup stripped, ready for embedding.
package kiwix

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// SearchHit is one entry from the kiwix search results page.
type SearchHit struct {
	Title string
	Path  string
	URL   string
}

// Page is a fetched article body reduced to plain text.
type Page struct {
	URL  string
	Text string
}

type Client struct {
	BaseURL string
	Client  *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Search queries the kiwix full-text index and returns up to topK hits.
func (c *Client) Search(ctx context.Context, query string, topK int) ([]SearchHit, error) {
	if c.BaseURL == "" {
		return nil, nil
	}
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, nil
	}
	if topK < 1 {
		topK = 1
	}

	params := url.Values{}
	params.Set("pattern", q)
	params.Set("pageLength", strconv.Itoa(topK))
	searchURL := fmt.Sprintf("%s/search?%s", c.BaseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, "GET", searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("kiwix search failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("kiwix search error: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	hits := parseSearchResults(string(body))
	if len(hits) > topK {
		hits = hits[:topK]
	}
	for i := range hits {
		hits[i].URL = c.BaseURL + hits[i].Path
	}
	return hits, nil
}

// FetchPage retrieves one article body and strips it to plain text.
// The path may be server-relative (as returned by Search) or absolute.
func (c *Client) FetchPage(ctx context.Context, path string) (*Page, error) {
	if path == "" {
		return nil, fmt.Errorf("empty page path")
	}

	pageURL := path
	if !strings.HasPrefix(path, "http://") && !strings.HasPrefix(path, "https://") {
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
		pageURL = c.BaseURL + path
	}

	req, err := http.NewRequestWithContext(ctx, "GET", pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("kiwix page fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("kiwix page error: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	return &Page{
		URL:  pageURL,
		Text: StripHTML(string(body)),
	}, nil
}
