package retrieval

import (
	"context"
	"fmt"
	"log"
	"strings"

	"cognihub-be/pkg/embedding"
	"cognihub-be/pkg/vector"
)

// DocProvider retrieves from the user document store, optionally
// diversifying the hit list with MMR.
type DocProvider struct {
	searcher DocumentSearcher
	embedder embedding.EmbeddingProvider
	logger   *log.Logger
}

var _ Provider = &DocProvider{}

func NewDocProvider(searcher DocumentSearcher, embedder embedding.EmbeddingProvider, logger *log.Logger) *DocProvider {
	return &DocProvider{
		searcher: searcher,
		embedder: embedder,
		logger:   logger,
	}
}

func (p *DocProvider) Name() string { return "doc" }

func (p *DocProvider) Retrieve(ctx context.Context, query string, topK int, opts Options) ([]Result, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, nil
	}
	topK = ClampTopK(topK)

	embs, err := p.embedder.Embed(ctx, []string{q}, opts.EmbedModel)
	if err != nil || len(embs) == 0 {
		p.logger.Printf("[WARN] doc query embedding failed: %v", err)
		return nil, nil
	}

	limit := topK
	if opts.UseMMR {
		limit = mmrPoolSize(topK)
	}

	filter := DocFilter{
		DocIDs:    opts.DocIDs,
		GroupName: opts.GroupName,
		Source:    opts.Source,
	}
	hits, err := p.searcher.SearchChunks(ctx, embs[0], limit, filter)
	if err != nil {
		return nil, fmt.Errorf("doc chunk search: %w", err)
	}

	if opts.UseMMR && len(hits) > 0 {
		hits = diversify(hits, opts.MMRLambda, topK)
	} else if len(hits) > topK {
		hits = hits[:topK]
	}

	results := make([]Result, 0, len(hits))
	for _, h := range hits {
		results = append(results, docHitToResult(h))
	}
	return results, nil
}

func diversify(hits []DocChunkHit, lambda *float64, topK int) []DocChunkHit {
	l := DefaultMMRLambda
	if lambda != nil {
		l = *lambda
	}
	pool := make([]vector.Candidate, len(hits))
	for i, h := range hits {
		pool[i] = vector.Candidate{
			ID:        h.ChunkID,
			Relevance: h.Score,
			Embedding: h.Embedding,
			Norm:      h.Norm,
		}
	}
	picked := vector.MMR(pool, l, topK)
	out := make([]DocChunkHit, 0, len(picked))
	for _, idx := range picked {
		out = append(out, hits[idx])
	}
	return out
}

func docHitToResult(h DocChunkHit) Result {
	display := h.Filename
	if h.Title != nil && *h.Title != "" {
		display = *h.Title
	}
	if h.Section != nil && *h.Section != "" {
		display = fmt.Sprintf("%s — %s", display, *h.Section)
	}

	return Result{
		SourceType: SourceDoc,
		RefID:      RefID(SourceDoc, h.ChunkID),
		ChunkID:    h.ChunkID,
		Title:      &display,
		URL:        nil,
		Domain:     nil,
		Score:      h.Score,
		Text:       h.Text,
		Meta: map[string]any{
			"doc_id":      h.DocID,
			"chunk_index": h.ChunkIndex,
			"doc_weight":  h.DocWeight,
			"filename":    h.Filename,
			"title":       h.Title,
			"author":      h.Author,
			"path":        h.Path,
			"source":      h.Source,
			"section":     h.Section,
		},
	}
}

func mmrPoolSize(topK int) int {
	pool := topK * 4
	if pool < 40 {
		pool = 40
	}
	if pool > TopKMax {
		pool = TopKMax
	}
	return pool
}
