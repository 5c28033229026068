package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"cognihub-be/internal/dto"
	"cognihub-be/internal/model"
	"cognihub-be/internal/repository/specification"
	"cognihub-be/internal/repository/unitofwork"
	"cognihub-be/pkg/database"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testTopic = "INGEST_DOCUMENT"

func newServiceDB(t *testing.T) (*gorm.DB, unitofwork.RepositoryFactory) {
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
	return db, unitofwork.NewRepositoryFactory(db)
}

// stubEmbedder returns a fixed two-dimensional vector per text.
type stubEmbedder struct {
	fail  bool
	calls int
}

func (s *stubEmbedder) Embed(ctx context.Context, texts []string, model string) ([][]float32, error) {
	s.calls++
	if s.fail {
		return nil, errors.New("embedder down")
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0}
	}
	return out, nil
}

func newIngestStack(t *testing.T) (unitofwork.RepositoryFactory, IDocumentService, *stubEmbedder) {
	t.Helper()
	_, uowFactory := newServiceDB(t)

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	t.Cleanup(func() { pubSub.Close() })

	embedder := &stubEmbedder{}
	consumer := NewConsumerService(pubSub, testTopic, uowFactory, embedder, nil)
	require.NoError(t, consumer.Consume(context.Background()))

	publisher := NewPublisherService(testTopic, pubSub)
	docService := NewDocumentService(uowFactory, publisher, embedder, "nomic-embed-text")
	return uowFactory, docService, embedder
}

func TestIngestPipelineStoresChunks(t *testing.T) {
	uowFactory, docService, _ := newIngestStack(t)
	ctx := context.Background()

	res, err := docService.Create(ctx, &dto.CreateDocumentRequest{
		Filename: "notes.md",
		Sections: []dto.SectionInput{
			{Label: "Intro", Text: "Mushrooms are fungi."},
			{Text: "They reproduce through spores."},
		},
	})
	require.NoError(t, err)
	require.NotZero(t, res.Id)

	uow := uowFactory.NewUnitOfWork(ctx)
	assert.Eventually(t, func() bool {
		count, err := uow.ChunkRepository().Count(ctx, specification.ByDocID{DocID: res.Id})
		return err == nil && count == 2
	}, 3*time.Second, 20*time.Millisecond, "consumer must embed and store both sections")

	chunks, err := uow.ChunkRepository().FindAll(ctx,
		specification.ByDocID{DocID: res.Id},
		specification.OrderByChunkIndex{},
	)
	require.NoError(t, err)
	require.Len(t, chunks, 2)

	require.NotNil(t, chunks[0].Section)
	assert.Equal(t, "Intro", *chunks[0].Section)
	assert.Nil(t, chunks[1].Section)
	assert.Equal(t, "Mushrooms are fungi.", chunks[0].Text)
	assert.NotEmpty(t, chunks[0].ChunkSHA)
	assert.InDelta(t, 1.0, chunks[0].Norm, 1e-6, "norm is precomputed at ingest")

	// The consumer learns the embedding dimension from the vectors.
	assert.Eventually(t, func() bool {
		doc, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: res.Id})
		return err == nil && doc != nil && doc.EmbedDim == 2
	}, 3*time.Second, 20*time.Millisecond)
}

func TestIngestPipelineReplacesChunksOnReingest(t *testing.T) {
	uowFactory, docService, _ := newIngestStack(t)
	ctx := context.Background()

	res, err := docService.Create(ctx, &dto.CreateDocumentRequest{
		Filename: "notes.md",
		Text:     "first version",
	})
	require.NoError(t, err)

	uow := uowFactory.NewUnitOfWork(ctx)
	assert.Eventually(t, func() bool {
		count, err := uow.ChunkRepository().Count(ctx, specification.ByDocID{DocID: res.Id})
		return err == nil && count == 1
	}, 3*time.Second, 20*time.Millisecond)

	// A second ingest for the same document replaces, never appends.
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()
	consumer := NewConsumerService(pubSub, testTopic, uowFactory, &stubEmbedder{}, nil)
	require.NoError(t, consumer.Consume(ctx))

	payload, err := json.Marshal(dto.IngestDocumentMessage{
		DocId:      res.Id,
		EmbedModel: "nomic-embed-text",
		Text:       "second version",
	})
	require.NoError(t, err)
	require.NoError(t, NewPublisherService(testTopic, pubSub).Publish(ctx, payload))

	assert.Eventually(t, func() bool {
		chunks, err := uow.ChunkRepository().FindAll(ctx, specification.ByDocID{DocID: res.Id})
		return err == nil && len(chunks) == 1 && chunks[0].Text == "second version"
	}, 3*time.Second, 20*time.Millisecond)
}

func TestIngestPipelineSkipsMissingDocument(t *testing.T) {
	_, uowFactory := newServiceDB(t)
	ctx := context.Background()

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()
	embedder := &stubEmbedder{}
	consumer := NewConsumerService(pubSub, testTopic, uowFactory, embedder, nil)
	require.NoError(t, consumer.Consume(ctx))

	payload, err := json.Marshal(dto.IngestDocumentMessage{DocId: 12345, Text: "orphan"})
	require.NoError(t, err)
	require.NoError(t, NewPublisherService(testTopic, pubSub).Publish(ctx, payload))

	// The message is acked without embedding anything.
	time.Sleep(200 * time.Millisecond)
	assert.Zero(t, embedder.calls)
}
