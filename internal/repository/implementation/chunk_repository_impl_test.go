package implementation

import (
	"context"
	"fmt"
	"testing"

	"cognihub-be/internal/entity"
	"cognihub-be/internal/model"
	"cognihub-be/internal/repository/specification"
	"cognihub-be/pkg/database"
	"cognihub-be/pkg/rag/retrieval"
	"cognihub-be/pkg/vector"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewGormDB(database.GormConfig{Path: ":memory:"})
	require.NoError(t, err, "open in-memory sqlite")
	require.NoError(t, db.AutoMigrate(
		&model.Document{},
		&model.Chunk{},
		&model.WebPage{},
		&model.WebChunk{},
		&model.Chat{},
		&model.ChatMessage{},
		&model.ResearchRun{},
		&model.ResearchSource{},
	))
	return db
}

// seedDoc stores a document with one chunk per embedding, norms
// precomputed the way the ingest pipeline does it.
func seedDoc(t *testing.T, db *gorm.DB, filename string, group *string, weight float64, embs ...[]float32) *entity.Document {
	t.Helper()
	ctx := context.Background()

	doc := &entity.Document{
		Filename:   filename,
		CreatedAt:  1700000000,
		EmbedModel: "nomic-embed-text",
		Weight:     weight,
		GroupName:  group,
	}
	require.NoError(t, NewDocumentRepository(db).Create(ctx, doc))

	chunks := make([]*entity.Chunk, len(embs))
	for i, emb := range embs {
		chunks[i] = &entity.Chunk{
			DocId:      doc.Id,
			ChunkIndex: i,
			Text:       fmt.Sprintf("%s chunk %d", filename, i),
			Embedding:  emb,
			Norm:       vector.Norm(emb),
		}
	}
	require.NoError(t, NewChunkRepository(db).CreateBulk(ctx, chunks))
	return doc
}

func TestSearchChunksUnscopedSearchesEverything(t *testing.T) {
	db := newTestDB(t)
	groupA, groupB := "alpha", "beta"
	seedDoc(t, db, "a.txt", &groupA, 1.0, []float32{1, 0})
	seedDoc(t, db, "b.txt", &groupB, 1.0, []float32{0.9, 0.1})

	repo := NewChunkRepository(db)
	hits, err := repo.SearchChunks(context.Background(), []float32{1, 0}, 10, retrieval.DocFilter{})
	require.NoError(t, err)

	// No filter means every chunk is a candidate, never zero.
	assert.Len(t, hits, 2)
}

func TestSearchChunksGroupAndSourceFilters(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	group := "research"
	seedDoc(t, db, "in-group.txt", &group, 1.0, []float32{1, 0})
	seedDoc(t, db, "no-group.txt", nil, 1.0, []float32{1, 0})

	source := "kiwix"
	doc := &entity.Document{Filename: "sourced.txt", CreatedAt: 1700000000, Weight: 1.0, Source: &source}
	require.NoError(t, NewDocumentRepository(db).Create(ctx, doc))
	require.NoError(t, NewChunkRepository(db).CreateBulk(ctx, []*entity.Chunk{{
		DocId: doc.Id, ChunkIndex: 0, Text: "sourced", Embedding: []float32{1, 0}, Norm: 1,
	}}))

	repo := NewChunkRepository(db)

	hits, err := repo.SearchChunks(ctx, []float32{1, 0}, 10, retrieval.DocFilter{GroupName: &group})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "in-group.txt", hits[0].Filename)

	hits, err = repo.SearchChunks(ctx, []float32{1, 0}, 10, retrieval.DocFilter{Source: &source})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "sourced.txt", hits[0].Filename)
}

func TestSearchChunksDocIDScope(t *testing.T) {
	db := newTestDB(t)
	docA := seedDoc(t, db, "a.txt", nil, 1.0, []float32{1, 0})
	seedDoc(t, db, "b.txt", nil, 1.0, []float32{1, 0})

	repo := NewChunkRepository(db)
	hits, err := repo.SearchChunks(context.Background(), []float32{1, 0}, 10, retrieval.DocFilter{DocIDs: []int64{docA.Id}})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, docA.Id, hits[0].DocID)
}

func TestSearchChunksWeightMultipliesScore(t *testing.T) {
	db := newTestDB(t)
	// Identical embeddings; only the document weight differs.
	seedDoc(t, db, "light.txt", nil, 1.0, []float32{1, 0})
	seedDoc(t, db, "heavy.txt", nil, 2.0, []float32{1, 0})

	repo := NewChunkRepository(db)
	hits, err := repo.SearchChunks(context.Background(), []float32{1, 0}, 10, retrieval.DocFilter{})
	require.NoError(t, err)
	require.Len(t, hits, 2)

	assert.Equal(t, "heavy.txt", hits[0].Filename)
	assert.InDelta(t, 2.0, hits[0].Score, 1e-9)
	assert.InDelta(t, 1.0, hits[1].Score, 1e-9)
}

func TestSearchChunksTieBreaksOnLowerChunkID(t *testing.T) {
	db := newTestDB(t)
	seedDoc(t, db, "doc.txt", nil, 1.0, []float32{1, 0}, []float32{1, 0}, []float32{1, 0})

	repo := NewChunkRepository(db)
	hits, err := repo.SearchChunks(context.Background(), []float32{1, 0}, 10, retrieval.DocFilter{})
	require.NoError(t, err)
	require.Len(t, hits, 3)

	for i := 1; i < len(hits); i++ {
		assert.Less(t, hits[i-1].ChunkID, hits[i].ChunkID, "equal scores must order by chunk id")
	}
}

func TestSearchChunksRanksByCosine(t *testing.T) {
	db := newTestDB(t)
	seedDoc(t, db, "doc.txt", nil, 1.0,
		[]float32{1, 0},     // aligned
		[]float32{0.5, 0.5}, // partial
		[]float32{0, 1},     // orthogonal
	)

	repo := NewChunkRepository(db)
	hits, err := repo.SearchChunks(context.Background(), []float32{1, 0}, 10, retrieval.DocFilter{})
	require.NoError(t, err)
	require.Len(t, hits, 3)

	assert.Equal(t, 0, hits[0].ChunkIndex)
	assert.Equal(t, 1, hits[1].ChunkIndex)
	assert.Equal(t, 2, hits[2].ChunkIndex)
	assert.InDelta(t, 1.0, hits[0].Score, 1e-6)
	assert.InDelta(t, 0.0, hits[2].Score, 1e-6)
}

func TestSearchChunksLimit(t *testing.T) {
	db := newTestDB(t)
	seedDoc(t, db, "doc.txt", nil, 1.0, []float32{1, 0}, []float32{1, 0}, []float32{1, 0})

	repo := NewChunkRepository(db)
	hits, err := repo.SearchChunks(context.Background(), []float32{1, 0}, 2, retrieval.DocFilter{})
	require.NoError(t, err)
	assert.Len(t, hits, 2)
}

func TestSearchChunksSkipsCorruptEmbedding(t *testing.T) {
	db := newTestDB(t)
	doc := seedDoc(t, db, "doc.txt", nil, 1.0, []float32{1, 0})

	// A blob whose length is not a multiple of four cannot decode.
	require.NoError(t, db.Create(&model.Chunk{
		DocId: doc.Id, ChunkIndex: 1, Text: "corrupt", Emb: []byte{1, 2, 3}, Norm: 1,
	}).Error)

	repo := NewChunkRepository(db)
	hits, err := repo.SearchChunks(context.Background(), []float32{1, 0}, 10, retrieval.DocFilter{})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "doc.txt chunk 0", hits[0].Text)
}

func TestSearchChunksZeroNormScoresZero(t *testing.T) {
	db := newTestDB(t)
	seedDoc(t, db, "doc.txt", nil, 1.0, []float32{0, 0})

	repo := NewChunkRepository(db)
	hits, err := repo.SearchChunks(context.Background(), []float32{1, 0}, 10, retrieval.DocFilter{})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Zero(t, hits[0].Score)
}

func TestNeighborsWindow(t *testing.T) {
	db := newTestDB(t)
	seedDoc(t, db, "doc.txt", nil, 1.0,
		[]float32{1, 0}, []float32{1, 0}, []float32{1, 0}, []float32{1, 0}, []float32{1, 0})

	repo := NewChunkRepository(db)
	ctx := context.Background()

	all, err := repo.FindAll(ctx, specification.OrderByChunkIndex{})
	require.NoError(t, err)
	require.Len(t, all, 5)
	center := all[2]

	neighbors, err := repo.Neighbors(ctx, center.Id, 1)
	require.NoError(t, err)
	require.Len(t, neighbors, 3)
	assert.Equal(t, 1, neighbors[0].ChunkIndex)
	assert.Equal(t, 2, neighbors[1].ChunkIndex)
	assert.Equal(t, 3, neighbors[2].ChunkIndex)

	// Radius zero returns just the chunk itself.
	self, err := repo.Neighbors(ctx, center.Id, 0)
	require.NoError(t, err)
	require.Len(t, self, 1)
	assert.Equal(t, center.Id, self[0].Id)

	// The window clips at document boundaries.
	edge, err := repo.Neighbors(ctx, all[0].Id, 2)
	require.NoError(t, err)
	assert.Len(t, edge, 3)
}

func TestNeighborsMissingChunk(t *testing.T) {
	db := newTestDB(t)
	repo := NewChunkRepository(db)

	neighbors, err := repo.Neighbors(context.Background(), 999, 1)
	require.NoError(t, err)
	assert.Nil(t, neighbors)
}

func TestNeighborsStayWithinDocument(t *testing.T) {
	db := newTestDB(t)
	seedDoc(t, db, "a.txt", nil, 1.0, []float32{1, 0}, []float32{1, 0})
	docB := seedDoc(t, db, "b.txt", nil, 1.0, []float32{1, 0}, []float32{1, 0})

	repo := NewChunkRepository(db)
	ctx := context.Background()

	bChunks, err := repo.FindAll(ctx, specification.ByDocID{DocID: docB.Id}, specification.OrderByChunkIndex{})
	require.NoError(t, err)
	require.Len(t, bChunks, 2)

	neighbors, err := repo.Neighbors(ctx, bChunks[0].Id, 5)
	require.NoError(t, err)
	require.Len(t, neighbors, 2)
	for _, n := range neighbors {
		assert.Equal(t, docB.Id, n.DocId)
	}
}

func TestDeleteByDocID(t *testing.T) {
	db := newTestDB(t)
	doc := seedDoc(t, db, "doc.txt", nil, 1.0, []float32{1, 0}, []float32{0, 1})
	keep := seedDoc(t, db, "keep.txt", nil, 1.0, []float32{1, 0})

	repo := NewChunkRepository(db)
	ctx := context.Background()
	require.NoError(t, repo.DeleteByDocID(ctx, doc.Id))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	remaining, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, keep.Id, remaining[0].DocId)
}
