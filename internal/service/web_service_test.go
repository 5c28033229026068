package service

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cognihub-be/internal/constant"
	"cognihub-be/internal/dto"
	"cognihub-be/pkg/webfetch"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWebStack(t *testing.T, cfg webfetch.Config) (IWebService, *stubEmbedder) {
	t.Helper()
	_, uowFactory := newServiceDB(t)
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}
	embedder := &stubEmbedder{}
	return NewWebService(uowFactory, webfetch.NewFetcher(cfg), embedder, "nomic-embed-text", nil), embedder
}

func htmlPage(title, body string) string {
	return fmt.Sprintf("<html><head><title>%s</title></head><body><p>%s</p></body></html>", title, body)
}

func TestWebFetchCachesPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, htmlPage("Greeting", "Hello web content."))
	}))
	defer srv.Close()

	svc, embedder := newWebStack(t, webfetch.Config{})
	ctx := context.Background()

	res, err := svc.Fetch(ctx, &dto.FetchWebPageRequest{URL: srv.URL + "/page"})
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/page", res.URL)
	require.NotNil(t, res.Title)
	assert.Equal(t, "Greeting", *res.Title)
	assert.Equal(t, 1, res.ChunkCount)
	assert.Equal(t, 1, embedder.calls)

	pages, err := svc.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, "ok", pages[0].Status)
	assert.Equal(t, int64(1), pages[0].ChunkCount)
}

func TestWebFetchReplacesOnRefetch(t *testing.T) {
	// First response is long enough to split into several chunks, the
	// second collapses to one. A re-fetch must fully replace the cache.
	long := strings.Repeat("mycology notes with plenty of padding text. ", 80)
	bodies := []string{long, "short update."}
	var serve int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, htmlPage("Notes", bodies[serve]))
		if serve < len(bodies)-1 {
			serve++
		}
	}))
	defer srv.Close()

	svc, _ := newWebStack(t, webfetch.Config{})
	ctx := context.Background()

	first, err := svc.Fetch(ctx, &dto.FetchWebPageRequest{URL: srv.URL})
	require.NoError(t, err)
	require.Greater(t, first.ChunkCount, 1)

	second, err := svc.Fetch(ctx, &dto.FetchWebPageRequest{URL: srv.URL})
	require.NoError(t, err)
	assert.Equal(t, 1, second.ChunkCount)

	pages, err := svc.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, pages, 1, "re-fetching must not duplicate the page")
	assert.Equal(t, int64(1), pages[0].ChunkCount)
}

func TestWebFetchRejectsEmptyPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><body><script>var x = 1;</script></body></html>")
	}))
	defer srv.Close()

	svc, _ := newWebStack(t, webfetch.Config{})

	_, err := svc.Fetch(context.Background(), &dto.FetchWebPageRequest{URL: srv.URL})
	assert.ErrorIs(t, err, constant.ErrInvalidInput)
}

func TestWebFetchHonorsBlocklist(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("blocked host must never be fetched")
	}))
	defer srv.Close()

	svc, _ := newWebStack(t, webfetch.Config{BlockedHosts: []string{"127.0.0.1"}})

	_, err := svc.Fetch(context.Background(), &dto.FetchWebPageRequest{URL: srv.URL})
	assert.ErrorIs(t, err, constant.ErrInvalidInput)
}

func TestWebDelete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, htmlPage("Gone Soon", "temporary content"))
	}))
	defer srv.Close()

	svc, _ := newWebStack(t, webfetch.Config{})
	ctx := context.Background()

	res, err := svc.Fetch(ctx, &dto.FetchWebPageRequest{URL: srv.URL})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, res.URL))

	pages, err := svc.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, pages)

	assert.ErrorIs(t, svc.Delete(ctx, res.URL), constant.ErrNotFound)
}
