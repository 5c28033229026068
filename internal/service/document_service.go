// FILE: internal/service/document_service.go
package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"cognihub-be/internal/constant"
	"cognihub-be/internal/dto"
	"cognihub-be/internal/entity"
	"cognihub-be/internal/repository/specification"
	"cognihub-be/internal/repository/unitofwork"
	"cognihub-be/pkg/embedding"
	"cognihub-be/pkg/rag/retrieval"
	"cognihub-be/pkg/vector"
)

type IDocumentService interface {
	Create(ctx context.Context, req *dto.CreateDocumentRequest) (*dto.CreateDocumentResponse, error)
	GetAll(ctx context.Context, group, source *string) ([]*dto.DocumentResponse, error)
	Show(ctx context.Context, id int64) (*dto.DocumentResponse, error)
	Update(ctx context.Context, req *dto.UpdateDocumentRequest) (*dto.UpdateDocumentResponse, error)
	Delete(ctx context.Context, id int64) error
	Chunks(ctx context.Context, docID int64) ([]*dto.ChunkResponse, error)
	Neighbors(ctx context.Context, chunkID int64, span int) (*dto.NeighborsResponse, error)

	// IngestDocument stores a document with its chunks synchronously,
	// satisfying the retrieval engine's DocumentIngestor contract.
	IngestDocument(ctx context.Context, req retrieval.IngestDocumentRequest) (int64, error)
}

type documentService struct {
	uowFactory        unitofwork.RepositoryFactory
	publisherService  IPublisherService
	embeddingProvider embedding.EmbeddingProvider
	embedModel        string
}

func NewDocumentService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	embeddingProvider embedding.EmbeddingProvider,
	embedModel string,
) IDocumentService {
	return &documentService{
		uowFactory:        uowFactory,
		publisherService:  publisherService,
		embeddingProvider: embeddingProvider,
		embedModel:        embedModel,
	}
}

func (c *documentService) Create(ctx context.Context, req *dto.CreateDocumentRequest) (*dto.CreateDocumentResponse, error) {
	text := req.Text
	if text == "" && len(req.Sections) > 0 {
		parts := make([]string, 0, len(req.Sections))
		for _, sec := range req.Sections {
			parts = append(parts, sec.Text)
		}
		text = strings.Join(parts, "\n\n")
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("document body is empty: %w", constant.ErrInvalidInput)
	}

	weight := 1.0
	if req.Weight != nil {
		weight = *req.Weight
	}

	sum := sha256.Sum256([]byte(text))

	uow := c.uowFactory.NewUnitOfWork(ctx)
	doc := entity.Document{
		Filename:   req.Filename,
		SHA256:     hex.EncodeToString(sum[:]),
		CreatedAt:  time.Now().Unix(),
		EmbedModel: c.embedModel,
		Weight:     weight,
		GroupName:  req.GroupName,
		Source:     req.Source,
		Title:      req.Title,
		Author:     req.Author,
		Path:       req.Path,
		Meta:       req.Meta,
	}

	if err := uow.DocumentRepository().Create(ctx, &doc); err != nil {
		return nil, err
	}

	msgPayload := dto.IngestDocumentMessage{
		DocId:      doc.Id,
		EmbedModel: c.embedModel,
		Text:       req.Text,
		Sections:   req.Sections,
	}
	msgJson, err := json.Marshal(msgPayload)
	if err != nil {
		return nil, err
	}

	if err := c.publisherService.Publish(ctx, msgJson); err != nil {
		return nil, err
	}

	return &dto.CreateDocumentResponse{Id: doc.Id}, nil
}

func (c *documentService) GetAll(ctx context.Context, group, source *string) ([]*dto.DocumentResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	specs := []specification.Specification{
		specification.OrderBy{Field: "created_at", Desc: true},
	}
	if group != nil {
		specs = append(specs, specification.ByGroupName{GroupName: *group})
	}
	if source != nil {
		specs = append(specs, specification.BySource{Source: *source})
	}

	docs, err := uow.DocumentRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, len(docs))
	for i, d := range docs {
		ids[i] = d.Id
	}
	counts, err := uow.DocumentRepository().ChunkCounts(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.DocumentResponse, len(docs))
	for i, d := range docs {
		d.ChunkCount = counts[d.Id]
		result[i] = documentToResponse(d)
	}
	return result, nil
}

func (c *documentService) Show(ctx context.Context, id int64) (*dto.DocumentResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	doc, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("document %d: %w", id, constant.ErrNotFound)
	}

	counts, err := uow.DocumentRepository().ChunkCounts(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	doc.ChunkCount = counts[id]

	return documentToResponse(doc), nil
}

func (c *documentService) Update(ctx context.Context, req *dto.UpdateDocumentRequest) (*dto.UpdateDocumentResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	doc, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: req.Id})
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("document %d: %w", req.Id, constant.ErrNotFound)
	}

	if req.Title != nil {
		doc.Title = req.Title
	}
	if req.Author != nil {
		doc.Author = req.Author
	}
	if req.GroupName != nil {
		doc.GroupName = req.GroupName
	}
	if req.Weight != nil {
		doc.Weight = *req.Weight
	}

	if err := uow.DocumentRepository().Update(ctx, doc); err != nil {
		return nil, err
	}

	return &dto.UpdateDocumentResponse{Id: doc.Id}, nil
}

func (c *documentService) Delete(ctx context.Context, id int64) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	doc, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if doc == nil {
		return fmt.Errorf("document %d: %w", id, constant.ErrNotFound)
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.ChunkRepository().DeleteByDocID(ctx, id); err != nil {
		return err
	}
	if err := uow.DocumentRepository().Delete(ctx, id); err != nil {
		return err
	}

	return uow.Commit()
}

func (c *documentService) Chunks(ctx context.Context, docID int64) ([]*dto.ChunkResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	doc, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: docID})
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("document %d: %w", docID, constant.ErrNotFound)
	}

	chunks, err := uow.ChunkRepository().FindAll(ctx,
		specification.ByDocID{DocID: docID},
		specification.OrderByChunkIndex{},
	)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.ChunkResponse, len(chunks))
	for i, ch := range chunks {
		result[i] = chunkToResponse(ch)
	}
	return result, nil
}

func (c *documentService) Neighbors(ctx context.Context, chunkID int64, span int) (*dto.NeighborsResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	neighbors, err := uow.ChunkRepository().Neighbors(ctx, chunkID, span)
	if err != nil {
		return nil, err
	}
	if neighbors == nil {
		return nil, fmt.Errorf("chunk %d: %w", chunkID, constant.ErrNotFound)
	}

	res := dto.NeighborsResponse{
		ChunkId:   chunkID,
		Neighbors: make([]dto.ChunkResponse, len(neighbors)),
	}
	for i, ch := range neighbors {
		res.Neighbors[i] = *chunkToResponse(ch)
	}
	return &res, nil
}

// IngestDocument is the synchronous path used when kiwix search results are
// persisted as regular documents: split, embed and store in one call.
func (c *documentService) IngestDocument(ctx context.Context, req retrieval.IngestDocumentRequest) (int64, error) {
	if strings.TrimSpace(req.Text) == "" {
		return 0, fmt.Errorf("document body is empty: %w", constant.ErrInvalidInput)
	}

	embedModel := req.EmbedModel
	if embedModel == "" {
		embedModel = c.embedModel
	}

	pieces := splitForIngest(dto.IngestDocumentMessage{Text: req.Text})
	texts := make([]string, len(pieces))
	for i, p := range pieces {
		texts[i] = p.text
	}

	vectors, err := c.embeddingProvider.Embed(ctx, texts, embedModel)
	if err != nil {
		return 0, fmt.Errorf("embed document chunks: %w", err)
	}
	if len(vectors) != len(pieces) {
		return 0, fmt.Errorf("embedding count mismatch: want %d got %d", len(pieces), len(vectors))
	}

	sum := sha256.Sum256([]byte(req.Text))
	embedDim := 0
	for _, v := range vectors {
		if len(v) > embedDim {
			embedDim = len(v)
		}
	}

	doc := entity.Document{
		Filename:   req.Filename,
		SHA256:     hex.EncodeToString(sum[:]),
		CreatedAt:  time.Now().Unix(),
		EmbedModel: embedModel,
		EmbedDim:   embedDim,
		Weight:     1.0,
		GroupName:  req.GroupName,
		Source:     req.Source,
		Title:      req.Title,
		Author:     req.Author,
		Path:       req.Path,
		Meta:       req.Meta,
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}
	defer uow.Rollback()

	if err := uow.DocumentRepository().Create(ctx, &doc); err != nil {
		return 0, err
	}

	newChunks := make([]*entity.Chunk, len(pieces))
	for i, p := range pieces {
		chunkSum := sha256.Sum256([]byte(p.text))
		newChunks[i] = &entity.Chunk{
			DocId:      doc.Id,
			ChunkIndex: i,
			Section:    p.section,
			Text:       p.text,
			Embedding:  vectors[i],
			Norm:       vector.Norm(vectors[i]),
			ChunkSHA:   hex.EncodeToString(chunkSum[:]),
		}
	}
	if err := uow.ChunkRepository().CreateBulk(ctx, newChunks); err != nil {
		return 0, err
	}

	if err := uow.Commit(); err != nil {
		return 0, err
	}

	log.Printf("[INFO] Ingested document %d (%q) with %d chunks", doc.Id, req.Filename, len(newChunks))
	return doc.Id, nil
}

func documentToResponse(d *entity.Document) *dto.DocumentResponse {
	return &dto.DocumentResponse{
		Id:         d.Id,
		Filename:   d.Filename,
		SHA256:     d.SHA256,
		CreatedAt:  d.CreatedAt,
		EmbedModel: d.EmbedModel,
		EmbedDim:   d.EmbedDim,
		Weight:     d.Weight,
		GroupName:  d.GroupName,
		Source:     d.Source,
		Title:      d.Title,
		Author:     d.Author,
		Path:       d.Path,
		Meta:       d.Meta,
		ChunkCount: d.ChunkCount,
	}
}

func chunkToResponse(ch *entity.Chunk) *dto.ChunkResponse {
	return &dto.ChunkResponse{
		Id:         ch.Id,
		DocId:      ch.DocId,
		ChunkIndex: ch.ChunkIndex,
		Section:    ch.Section,
		Text:       ch.Text,
		Norm:       ch.Norm,
	}
}
