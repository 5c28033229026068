package webfetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCheckHostBlockList(t *testing.T) {
	f := NewFetcher(Config{BlockedHosts: []string{"tracker", "ads.example.com"}})

	if err := f.CheckHost("https://ads.example.com/page"); err == nil {
		t.Error("expected blocked host to be rejected")
	}
	if err := f.CheckHost("https://metrics.tracker.io/x"); err == nil {
		t.Error("expected substring match against blocked entry")
	}
	if err := f.CheckHost("https://example.org/page"); err != nil {
		t.Errorf("expected unlisted host to pass, got %v", err)
	}
}

func TestCheckHostAllowList(t *testing.T) {
	f := NewFetcher(Config{AllowedHosts: []string{"wikipedia.org"}})

	if err := f.CheckHost("https://en.wikipedia.org/wiki/Go"); err != nil {
		t.Errorf("expected allowed host to pass, got %v", err)
	}
	if err := f.CheckHost("https://example.com/page"); err == nil {
		t.Error("expected host outside allow list to be rejected")
	}
}

func TestCheckHostBlockWinsOverAllow(t *testing.T) {
	f := NewFetcher(Config{
		AllowedHosts: []string{"example.com"},
		BlockedHosts: []string{"bad.example.com"},
	})

	if err := f.CheckHost("https://bad.example.com/page"); err == nil {
		t.Error("expected block list to win over allow list")
	}
}

func TestCheckHostIgnoresEmptyEntries(t *testing.T) {
	// A trailing comma in config must not produce an entry matching
	// every host.
	f := NewFetcher(Config{BlockedHosts: SplitHostList("tracker,")})

	if err := f.CheckHost("https://example.org/page"); err != nil {
		t.Errorf("expected empty entry to be ignored, got %v", err)
	}
}

func TestCheckHostRejectsNonHTTP(t *testing.T) {
	f := NewFetcher(Config{})
	if err := f.CheckHost("ftp://example.com/file"); err == nil {
		t.Error("expected non-http scheme to be rejected")
	}
}

func TestFetchParsesPage(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte(`<html><head><title>Test Page</title><style>p{color:red}</style></head>` +
			`<body><h1>Heading</h1><script>var x=1;</script><p>Body   text here.</p></body></html>`))
	}))
	defer server.Close()

	f := NewFetcher(Config{UserAgent: "test-agent/1.0"})
	page, err := f.Fetch(context.Background(), server.URL+"/article")
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}

	if gotUA != "test-agent/1.0" {
		t.Errorf("expected custom user agent, got %q", gotUA)
	}
	if page.Title != "Test Page" {
		t.Errorf("expected title 'Test Page', got %q", page.Title)
	}
	if strings.Contains(page.Text, "var x=1") || strings.Contains(page.Text, "color:red") {
		t.Errorf("expected script/style content to be stripped, got %q", page.Text)
	}
	if !strings.Contains(page.Text, "Heading") || !strings.Contains(page.Text, "Body text here.") {
		t.Errorf("expected visible text with collapsed whitespace, got %q", page.Text)
	}
	if page.Domain != "127.0.0.1" {
		t.Errorf("expected domain from URL host, got %q", page.Domain)
	}
}

func TestFetchNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	f := NewFetcher(Config{})
	if _, err := f.Fetch(context.Background(), server.URL+"/missing"); err == nil {
		t.Error("expected error for non-200 response")
	}
}
