package retrieval

import (
	"context"
	"fmt"
	"log"
	"strings"

	"cognihub-be/pkg/embedding"
)

// WebProvider retrieves from the cached web page store, optionally
// restricted to a domain whitelist.
type WebProvider struct {
	searcher WebSearcher
	embedder embedding.EmbeddingProvider
	logger   *log.Logger
}

var _ Provider = &WebProvider{}

func NewWebProvider(searcher WebSearcher, embedder embedding.EmbeddingProvider, logger *log.Logger) *WebProvider {
	return &WebProvider{
		searcher: searcher,
		embedder: embedder,
		logger:   logger,
	}
}

func (p *WebProvider) Name() string { return "web" }

func (p *WebProvider) Retrieve(ctx context.Context, query string, topK int, opts Options) ([]Result, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, nil
	}
	topK = ClampTopK(topK)

	embs, err := p.embedder.Embed(ctx, []string{q}, opts.EmbedModel)
	if err != nil || len(embs) == 0 {
		p.logger.Printf("[WARN] web query embedding failed: %v", err)
		return nil, nil
	}

	hits, err := p.searcher.SearchWebChunks(ctx, embs[0], topK, opts.DomainWhitelist)
	if err != nil {
		return nil, fmt.Errorf("web chunk search: %w", err)
	}

	results := make([]Result, 0, len(hits))
	for _, h := range hits {
		title := h.Title
		if title == nil || *title == "" {
			title = h.Domain
		}
		url := h.PageURL
		results = append(results, Result{
			SourceType: SourceWeb,
			RefID:      RefID(SourceWeb, h.ChunkID),
			ChunkID:    h.ChunkID,
			Title:      title,
			URL:        &url,
			Domain:     h.Domain,
			Score:      h.Score,
			Text:       h.Text,
			Meta: map[string]any{
				"page_url":    h.PageURL,
				"chunk_index": h.ChunkIndex,
			},
		})
	}
	return results, nil
}
