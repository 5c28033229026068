package contract

import (
	"context"

	"cognihub-be/internal/entity"
	"cognihub-be/internal/repository/specification"
	"cognihub-be/pkg/rag/retrieval"
)

type DocumentRepository interface {
	Create(ctx context.Context, doc *entity.Document) error
	Update(ctx context.Context, doc *entity.Document) error
	Delete(ctx context.Context, id int64) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Document, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Document, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// ChunkCounts returns the number of chunks per document id.
	ChunkCounts(ctx context.Context, docIDs []int64) (map[int64]int64, error)
}

type ChunkRepository interface {
	CreateBulk(ctx context.Context, chunks []*entity.Chunk) error
	DeleteByDocID(ctx context.Context, docID int64) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Chunk, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Chunk, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// Neighbors returns chunks of the same document whose chunk_index
	// lies within radius of the given chunk, ordered by chunk_index.
	Neighbors(ctx context.Context, chunkID int64, radius int) ([]*entity.Chunk, error)

	// SearchChunks scores candidate chunks against the query embedding
	// and returns them best-first. It satisfies the retrieval engine's
	// DocumentSearcher contract.
	SearchChunks(ctx context.Context, queryEmbedding []float32, limit int, filter retrieval.DocFilter) ([]retrieval.DocChunkHit, error)
}
