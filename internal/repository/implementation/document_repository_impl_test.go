package implementation

import (
	"context"
	"testing"

	"cognihub-be/internal/entity"
	"cognihub-be/internal/repository/specification"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentChunkCounts(t *testing.T) {
	db := newTestDB(t)
	twoChunks := seedDoc(t, db, "two.txt", nil, 1.0, []float32{1, 0}, []float32{0, 1})
	empty := seedDoc(t, db, "empty.txt", nil, 1.0)

	repo := NewDocumentRepository(db)
	counts, err := repo.ChunkCounts(context.Background(), []int64{twoChunks.Id, empty.Id, 999})
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[twoChunks.Id])
	assert.Zero(t, counts[empty.Id])
	assert.Zero(t, counts[999])
}

func TestDocumentFindBySHA256(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewDocumentRepository(db)

	doc := &entity.Document{
		Filename:  "dedupe.txt",
		SHA256:    "abc123",
		CreatedAt: 1700000000,
		Weight:    1.0,
	}
	require.NoError(t, repo.Create(ctx, doc))

	got, err := repo.FindOne(ctx, specification.BySHA256{SHA256: "abc123"})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, doc.Id, got.Id)

	missing, err := repo.FindOne(ctx, specification.BySHA256{SHA256: "deadbeef"})
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestDocumentMetaRoundTrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewDocumentRepository(db)

	doc := &entity.Document{
		Filename:  "meta.txt",
		CreatedAt: 1700000000,
		Weight:    1.0,
		Meta:      map[string]interface{}{"origin": "upload", "pages": float64(3)},
	}
	require.NoError(t, repo.Create(ctx, doc))

	got, err := repo.FindOne(ctx, specification.ByID{ID: doc.Id})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "upload", got.Meta["origin"])
	assert.Equal(t, float64(3), got.Meta["pages"])
}

func TestDocumentUpdate(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewDocumentRepository(db)

	doc := seedDoc(t, db, "doc.txt", nil, 1.0, []float32{1, 0})
	title := "Renamed"
	doc.Title = &title
	doc.Weight = 2.5
	require.NoError(t, repo.Update(ctx, doc))

	got, err := repo.FindOne(ctx, specification.ByID{ID: doc.Id})
	require.NoError(t, err)
	require.NotNil(t, got)
	require.NotNil(t, got.Title)
	assert.Equal(t, "Renamed", *got.Title)
	assert.Equal(t, 2.5, got.Weight)
}
