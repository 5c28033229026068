package service

import (
	"context"
	"strings"
	"testing"

	"cognihub-be/internal/constant"
	"cognihub-be/internal/dto"
	"cognihub-be/pkg/rag/retrieval"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentCreateRequiresBody(t *testing.T) {
	_, docService, embedder := newIngestStack(t)

	_, err := docService.Create(context.Background(), &dto.CreateDocumentRequest{Filename: "empty.md"})
	assert.ErrorIs(t, err, constant.ErrInvalidInput)
	assert.Zero(t, embedder.calls)
}

func TestDocumentIngestSynchronous(t *testing.T) {
	_, docService, _ := newIngestStack(t)
	ctx := context.Background()

	group := "kiwix"
	id, err := docService.IngestDocument(ctx, retrieval.IngestDocumentRequest{
		Filename:  "kiwix:Lichen",
		Text:      "Lichens are composite organisms.",
		GroupName: &group,
	})
	require.NoError(t, err)
	require.NotZero(t, id)

	// Unlike Create, chunks are queryable before any consumer runs.
	chunks, err := docService.Chunks(ctx, id)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "Lichens are composite organisms.", chunks[0].Text)

	doc, err := docService.Show(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 2, doc.EmbedDim)
	assert.Equal(t, int64(1), doc.ChunkCount)
	require.NotNil(t, doc.GroupName)
	assert.Equal(t, "kiwix", *doc.GroupName)
}

func TestDocumentIngestRequiresBody(t *testing.T) {
	_, docService, _ := newIngestStack(t)

	_, err := docService.IngestDocument(context.Background(), retrieval.IngestDocumentRequest{
		Filename: "blank.md",
		Text:     "   ",
	})
	assert.ErrorIs(t, err, constant.ErrInvalidInput)
}

func TestDocumentGetAllFilters(t *testing.T) {
	_, docService, _ := newIngestStack(t)
	ctx := context.Background()

	groupA, groupB := "biology", "history"
	source := "upload"
	_, err := docService.IngestDocument(ctx, retrieval.IngestDocumentRequest{
		Filename: "bio.md", Text: "cells divide", GroupName: &groupA, Source: &source,
	})
	require.NoError(t, err)
	_, err = docService.IngestDocument(ctx, retrieval.IngestDocumentRequest{
		Filename: "rome.md", Text: "empires fall", GroupName: &groupB,
	})
	require.NoError(t, err)

	docs, err := docService.GetAll(ctx, nil, nil)
	require.NoError(t, err)
	assert.Len(t, docs, 2)

	docs, err = docService.GetAll(ctx, &groupA, nil)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "bio.md", docs[0].Filename)

	docs, err = docService.GetAll(ctx, nil, &source)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "bio.md", docs[0].Filename)
}

func TestDocumentUpdate(t *testing.T) {
	_, docService, _ := newIngestStack(t)
	ctx := context.Background()

	id, err := docService.IngestDocument(ctx, retrieval.IngestDocumentRequest{
		Filename: "draft.md", Text: "draft body",
	})
	require.NoError(t, err)

	title := "Final Title"
	weight := 2.5
	_, err = docService.Update(ctx, &dto.UpdateDocumentRequest{Id: id, Title: &title, Weight: &weight})
	require.NoError(t, err)

	doc, err := docService.Show(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, doc.Title)
	assert.Equal(t, "Final Title", *doc.Title)
	assert.Equal(t, 2.5, doc.Weight)
}

func TestDocumentDeleteCascades(t *testing.T) {
	uowFactory, docService, _ := newIngestStack(t)
	ctx := context.Background()

	id, err := docService.IngestDocument(ctx, retrieval.IngestDocumentRequest{
		Filename: "doomed.md", Text: "short lived",
	})
	require.NoError(t, err)

	require.NoError(t, docService.Delete(ctx, id))

	_, err = docService.Show(ctx, id)
	assert.ErrorIs(t, err, constant.ErrNotFound)

	uow := uowFactory.NewUnitOfWork(ctx)
	count, err := uow.ChunkRepository().Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count, "chunks must not outlive their document")
}

func TestDocumentNeighbors(t *testing.T) {
	_, docService, _ := newIngestStack(t)
	ctx := context.Background()

	// Long enough to split into several chunks.
	text := strings.Repeat("lichen growth records from the northern survey. ", 120)
	id, err := docService.IngestDocument(ctx, retrieval.IngestDocumentRequest{
		Filename: "survey.md", Text: text,
	})
	require.NoError(t, err)

	chunks, err := docService.Chunks(ctx, id)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(chunks), 3)

	res, err := docService.Neighbors(ctx, chunks[1].Id, 1)
	require.NoError(t, err)
	assert.Equal(t, chunks[1].Id, res.ChunkId)
	require.Len(t, res.Neighbors, 3)
	assert.Equal(t, 0, res.Neighbors[0].ChunkIndex)
	assert.Equal(t, 2, res.Neighbors[2].ChunkIndex)
}

func TestDocumentNeighborsMissingChunk(t *testing.T) {
	_, docService, _ := newIngestStack(t)

	_, err := docService.Neighbors(context.Background(), 424242, 1)
	assert.ErrorIs(t, err, constant.ErrNotFound)
}
