package contract

import (
	"context"

	"cognihub-be/internal/entity"
	"cognihub-be/internal/repository/specification"
	"cognihub-be/pkg/rag/retrieval"
)

type WebPageRepository interface {
	// Upsert inserts the page or replaces an existing row with the
	// same URL.
	Upsert(ctx context.Context, page *entity.WebPage) error
	Delete(ctx context.Context, url string) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.WebPage, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.WebPage, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// ChunkCounts returns the number of chunks cached per page URL.
	ChunkCounts(ctx context.Context, urls []string) (map[string]int64, error)
}

type WebChunkRepository interface {
	CreateBulk(ctx context.Context, chunks []*entity.WebChunk) error
	DeleteByURL(ctx context.Context, url string) error
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// SearchWebChunks scores cached web chunks against the query
	// embedding. It satisfies the retrieval engine's WebSearcher
	// contract.
	SearchWebChunks(ctx context.Context, queryEmbedding []float32, limit int, domains []string) ([]retrieval.WebChunkHit, error)
}
