package retrieval

import "context"

// DocChunkHit is one scored chunk row from the document store. The store
// pre-filters candidates in SQL, scores them by weighted cosine similarity
// and returns them best-first with embeddings attached so providers can
// run MMR without a second round trip.
type DocChunkHit struct {
	ChunkID    int64
	DocID      int64
	ChunkIndex int
	Section    *string
	Text       string
	Score      float64
	DocWeight  float64
	Filename   string
	Title      *string
	Author     *string
	Path       *string
	Source     *string
	Embedding  []float32
	Norm       float64
}

// DocFilter narrows the chunk candidate set. Zero values mean unscoped:
// the store must search everything, never nothing.
type DocFilter struct {
	DocIDs    []int64
	GroupName *string
	Source    *string
}

// DocumentSearcher is the document store's similarity query contract.
type DocumentSearcher interface {
	SearchChunks(ctx context.Context, queryEmbedding []float32, limit int, filter DocFilter) ([]DocChunkHit, error)
}

// WebChunkHit is one scored chunk row from the cached web page store.
type WebChunkHit struct {
	ChunkID    int64
	PageURL    string
	Title      *string
	Domain     *string
	ChunkIndex int
	Text       string
	Score      float64
	Embedding  []float32
	Norm       float64
}

// WebSearcher is the web page store's similarity query contract. An empty
// domains slice means no domain restriction.
type WebSearcher interface {
	SearchWebChunks(ctx context.Context, queryEmbedding []float32, limit int, domains []string) ([]WebChunkHit, error)
}

// IngestDocumentRequest describes a document to store synchronously,
// chunks embedded inline. Used by the kiwix provider's persistent mode.
type IngestDocumentRequest struct {
	Filename   string
	Text       string
	EmbedModel string
	Source     *string
	Title      *string
	Author     *string
	Path       *string
	GroupName  *string
	Meta       map[string]any
}

// DocumentIngestor stores a document and its embedded chunks, returning
// the new document id.
type DocumentIngestor interface {
	IngestDocument(ctx context.Context, req IngestDocumentRequest) (int64, error)
}
