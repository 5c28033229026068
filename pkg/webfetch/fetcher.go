// Package webfetch retrieves external web pages for the cached-page store,
// enforcing host allow/block lists before any request leaves the process.
package webfetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultUserAgent identifies the assistant to remote servers.
const DefaultUserAgent = "cognihub/1.0"

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 4 << 20

// Page is a fetched web page reduced to plain text.
type Page struct {
	URL    string
	Domain string
	Title  string
	Text   string
}

// Config tunes the fetcher. AllowedHosts and BlockedHosts hold substrings
// matched against the target hostname: a host matching any blocked entry
// is rejected; when the allowed list is non-empty, the host must match at
// least one entry. Empty lists mean no restriction.
type Config struct {
	AllowedHosts []string
	BlockedHosts []string
	UserAgent    string
	Timeout      time.Duration
}

type Fetcher struct {
	allowed   []string
	blocked   []string
	userAgent string
	client    *http.Client
}

func NewFetcher(cfg Config) *Fetcher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	return &Fetcher{
		allowed:   nonEmpty(cfg.AllowedHosts),
		blocked:   nonEmpty(cfg.BlockedHosts),
		userAgent: ua,
		client:    &http.Client{Timeout: timeout},
	}
}

// SplitHostList parses a comma-separated host list from configuration.
func SplitHostList(s string) []string {
	return nonEmpty(strings.Split(s, ","))
}

// CheckHost validates a URL against the allow/block lists without
// fetching it.
func (f *Fetcher) CheckHost(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parse url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	host := u.Hostname()
	if host == "" {
		return fmt.Errorf("url %q has no host", rawURL)
	}
	for _, b := range f.blocked {
		if strings.Contains(host, b) {
			return fmt.Errorf("host %q is blocked", host)
		}
	}
	if len(f.allowed) > 0 {
		for _, a := range f.allowed {
			if strings.Contains(host, a) {
				return nil
			}
		}
		return fmt.Errorf("host %q is not allowed", host)
	}
	return nil
}

// Fetch retrieves the page, enforcing the host lists first, and returns
// it with markup stripped to plain text.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Page, error) {
	if err := f.CheckHost(rawURL); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "GET", rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", rawURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	title, text := parsePage(string(body))
	u, _ := url.Parse(rawURL)
	return &Page{
		URL:    rawURL,
		Domain: u.Hostname(),
		Title:  title,
		Text:   text,
	}, nil
}

func nonEmpty(hosts []string) []string {
	out := make([]string, 0, len(hosts))
	for _, h := range hosts {
		if h = strings.TrimSpace(h); h != "" {
			out = append(out, h)
		}
	}
	return out
}
