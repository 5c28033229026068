package kiwix

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const searchPage = `<html><body>
<form action="/search"><a href="/search?pattern=go&next=1">next</a></form>
<div class="results">
  <ul>
    <li><a href="/viewer#wikipedia/A/Go_(game)">Go (game)</a></li>
    <li><a href="/viewer#wikipedia/A/Golang">Go (programming language)</a></li>
  </ul>
</div>
</body></html>`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("pattern") == "" {
			http.Error(w, "missing pattern", http.StatusBadRequest)
			return
		}
		w.Write([]byte(searchPage))
	})
	mux.HandleFunc("/viewer", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><style>body{}</style></head><body><h1>Go</h1><p>An ancient   board game.</p><script>ignored()</script></body></html>`))
	})
	return httptest.NewServer(mux)
}

func TestSearch(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	c := NewClient(srv.URL)
	hits, err := c.Search(context.Background(), "go", 5)
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("Search() returned %d hits, want 2", len(hits))
	}
	if hits[0].Title != "Go (game)" {
		t.Errorf("hit title = %q, want %q", hits[0].Title, "Go (game)")
	}
	if !strings.HasPrefix(hits[0].URL, srv.URL) {
		t.Errorf("hit URL %q not prefixed with server URL", hits[0].URL)
	}
}

func TestSearchClampsTopK(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	c := NewClient(srv.URL)
	hits, err := c.Search(context.Background(), "go", 1)
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if len(hits) != 1 {
		t.Errorf("Search() returned %d hits, want 1", len(hits))
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	c := NewClient("http://localhost:1")
	hits, err := c.Search(context.Background(), "   ", 5)
	if err != nil {
		t.Fatalf("Search() error on empty query: %v", err)
	}
	if hits != nil {
		t.Errorf("Search() = %v, want nil for empty query", hits)
	}
}

func TestFetchPage(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	c := NewClient(srv.URL)
	page, err := c.FetchPage(context.Background(), "/viewer")
	if err != nil {
		t.Fatalf("FetchPage() error: %v", err)
	}
	if page.Text != "Go An ancient board game." {
		t.Errorf("FetchPage() text = %q", page.Text)
	}
	if page.URL != srv.URL+"/viewer" {
		t.Errorf("FetchPage() url = %q", page.URL)
	}
}

func TestFetchPageErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	if _, err := c.FetchPage(context.Background(), "/missing"); err == nil {
		t.Error("FetchPage() on 404 returned nil error")
	}
}

func TestStripHTML(t *testing.T) {
	got := StripHTML(`<p>a<script>x()</script> b   c</p>`)
	if got != "a b c" {
		t.Errorf("StripHTML() = %q, want %q", got, "a b c")
	}
}
