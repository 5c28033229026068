package retrieval

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"

	"cognihub-be/pkg/embedding"
	"cognihub-be/pkg/kiwix"
	"cognihub-be/pkg/vector"
)

// KiwixProvider retrieves from an offline encyclopedia served by a
// kiwix-serve style endpoint.
//
// Transient mode (default) searches the index, fetches a handful of page
// bodies, embeds query and pages on the fly and scores them, persisting
// nothing. Persistent mode ingests the fetched pages as first-class
// documents under group "kiwix" and then runs a normal document retrieval
// scoped to just those new documents.
type KiwixProvider struct {
	client   *kiwix.Client
	embedder embedding.EmbeddingProvider
	searcher DocumentSearcher
	ingestor DocumentIngestor
	logger   *log.Logger
}

var _ Provider = &KiwixProvider{}

func NewKiwixProvider(client *kiwix.Client, embedder embedding.EmbeddingProvider, searcher DocumentSearcher, ingestor DocumentIngestor, logger *log.Logger) *KiwixProvider {
	return &KiwixProvider{
		client:   client,
		embedder: embedder,
		searcher: searcher,
		ingestor: ingestor,
		logger:   logger,
	}
}

func (p *KiwixProvider) Name() string { return "kiwix" }

func (p *KiwixProvider) Retrieve(ctx context.Context, query string, topK int, opts Options) ([]Result, error) {
	if p.client == nil || p.client.BaseURL == "" {
		return nil, nil
	}
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, nil
	}
	topK = ClampTopK(topK)

	hits, err := p.client.Search(ctx, q, topK)
	if err != nil {
		return nil, fmt.Errorf("kiwix search: %w", err)
	}
	if len(hits) == 0 {
		return nil, nil
	}

	pages := clampPages(opts.Pages)
	if pages > len(hits) {
		pages = len(hits)
	}
	domain := strings.TrimPrefix(strings.TrimPrefix(p.client.BaseURL, "http://"), "https://")

	if !opts.Persist {
		return p.retrieveTransient(ctx, q, topK, hits[:pages], domain, opts.EmbedModel)
	}
	return p.retrievePersistent(ctx, q, topK, hits[:pages], domain, opts.EmbedModel)
}

type kiwixPage struct {
	title  string
	path   string
	url    string
	domain string
	text   string
}

func (p *KiwixProvider) retrieveTransient(ctx context.Context, query string, topK int, hits []kiwix.SearchHit, domain, embedModel string) ([]Result, error) {
	var pages []kiwixPage
	for _, hit := range hits {
		path := hit.Path
		if path == "" {
			path = hit.URL
		}
		page, err := p.client.FetchPage(ctx, path)
		if err != nil || page == nil {
			p.logger.Printf("[WARN] kiwix page fetch skipped: path=%s err=%v", path, err)
			continue
		}
		title := hit.Title
		if title == "" {
			title = hit.Path
		}
		pages = append(pages, kiwixPage{
			title:  title,
			path:   hit.Path,
			url:    page.URL,
			domain: domain,
			text:   page.Text,
		})
	}
	if len(pages) == 0 {
		return nil, nil
	}

	queryEmbs, err := p.embedder.Embed(ctx, []string{query}, embedModel)
	if err != nil || len(queryEmbs) == 0 {
		p.logger.Printf("[WARN] kiwix query embedding failed: %v", err)
		return nil, nil
	}
	qvec := queryEmbs[0]

	texts := make([]string, len(pages))
	for i, pg := range pages {
		texts[i] = pg.text
	}
	pageEmbs, err := p.embedder.Embed(ctx, texts, embedModel)
	if err != nil || len(pageEmbs) != len(pages) {
		p.logger.Printf("[WARN] kiwix page embedding failed: %v", err)
		return nil, nil
	}

	items := make([]Result, 0, len(pages))
	for i, pg := range pages {
		score := vector.Cosine(qvec, pageEmbs[i])
		if score < 0 {
			score = 0
		}
		chunkID := urlChunkID(pg.url)
		title, url, dom := pg.title, pg.url, pg.domain
		items = append(items, Result{
			SourceType: SourceKiwix,
			RefID:      RefID(SourceKiwix, chunkID),
			ChunkID:    chunkID,
			Title:      &title,
			URL:        &url,
			Domain:     &dom,
			Score:      score,
			Text:       pg.text,
			Meta:       map[string]any{"path": pg.path},
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return items[i].ChunkID < items[j].ChunkID
	})
	if len(items) > topK {
		items = items[:topK]
	}
	return items, nil
}

func (p *KiwixProvider) retrievePersistent(ctx context.Context, query string, topK int, hits []kiwix.SearchHit, domain, embedModel string) ([]Result, error) {
	source := "kiwix"
	group := "kiwix"

	var ingested []int64
	for _, hit := range hits {
		path := hit.Path
		if path == "" {
			path = hit.URL
		}
		page, err := p.client.FetchPage(ctx, path)
		if err != nil || page == nil {
			p.logger.Printf("[WARN] kiwix page fetch skipped: path=%s err=%v", path, err)
			continue
		}
		text := strings.TrimSpace(page.Text)
		if text == "" {
			continue
		}
		title := hit.Title
		if title == "" {
			title = path
		}
		if title == "" {
			title = "kiwix"
		}

		docPath := page.URL
		if docPath == "" {
			docPath = path
		}
		docID, err := p.ingestor.IngestDocument(ctx, IngestDocumentRequest{
			Filename:   "kiwix:" + title,
			Text:       text,
			EmbedModel: embedModel,
			Source:     &source,
			Title:      &title,
			Path:       &docPath,
			GroupName:  &group,
			Meta:       map[string]any{"source": "kiwix", "path": hit.Path, "url": page.URL},
		})
		if err != nil {
			p.logger.Printf("[WARN] kiwix page ingest skipped: path=%s err=%v", path, err)
			continue
		}
		ingested = append(ingested, docID)
	}
	if len(ingested) == 0 {
		return nil, nil
	}

	queryEmbs, err := p.embedder.Embed(ctx, []string{query}, embedModel)
	if err != nil || len(queryEmbs) == 0 {
		p.logger.Printf("[WARN] kiwix query embedding failed: %v", err)
		return nil, nil
	}

	rows, err := p.searcher.SearchChunks(ctx, queryEmbs[0], topK, DocFilter{DocIDs: ingested})
	if err != nil {
		return nil, fmt.Errorf("kiwix persisted search: %w", err)
	}

	out := make([]Result, 0, len(rows))
	for _, h := range rows {
		title := h.Filename
		if h.Title != nil && *h.Title != "" {
			title = *h.Title
		}
		dom := domain
		out = append(out, Result{
			SourceType: SourceKiwix,
			RefID:      RefID(SourceKiwix, h.ChunkID),
			ChunkID:    h.ChunkID,
			Title:      &title,
			URL:        h.Path,
			Domain:     &dom,
			Score:      h.Score,
			Text:       h.Text,
			Meta: map[string]any{
				"path":        h.Path,
				"doc_id":      h.DocID,
				"chunk_index": h.ChunkIndex,
			},
		})
	}
	return out, nil
}

// urlChunkID derives a stable chunk id from a page URL: the first 12 hex
// digits of its sha256, read as a base-16 integer. Identical URLs always
// map to the same id.
func urlChunkID(url string) int64 {
	sum := sha256.Sum256([]byte(url))
	id, err := strconv.ParseInt(hex.EncodeToString(sum[:])[:12], 16, 64)
	if err != nil {
		return 0
	}
	return id
}
