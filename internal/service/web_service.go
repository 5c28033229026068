// FILE: internal/service/web_service.go
package service

import (
	"context"
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
	"cognihub-be/pkg/events"
	pktNats "cognihub-be/pkg/nats"
	"cognihub-be/pkg/utils"
	"cognihub-be/pkg/vector"
	"cognihub-be/pkg/webfetch"
)

const (
	webChunkSize    = 1500
	webChunkOverlap = 200

	webPageStatusOK = "ok"
)

type IWebService interface {
	Fetch(ctx context.Context, req *dto.FetchWebPageRequest) (*dto.FetchWebPageResponse, error)
	GetAll(ctx context.Context) ([]*dto.WebPageResponse, error)
	Delete(ctx context.Context, url string) error
}

type webService struct {
	uowFactory        unitofwork.RepositoryFactory
	fetcher           *webfetch.Fetcher
	embeddingProvider embedding.EmbeddingProvider
	embedModel        string
	eventPublisher    *pktNats.Publisher
}

func NewWebService(
	uowFactory unitofwork.RepositoryFactory,
	fetcher *webfetch.Fetcher,
	embeddingProvider embedding.EmbeddingProvider,
	embedModel string,
	eventPublisher *pktNats.Publisher,
) IWebService {
	return &webService{
		uowFactory:        uowFactory,
		fetcher:           fetcher,
		embeddingProvider: embeddingProvider,
		embedModel:        embedModel,
		eventPublisher:    eventPublisher,
	}
}

// Fetch retrieves a page, replaces its cached chunks and returns the new
// cache entry. Re-fetching the same URL is a full replace.
func (c *webService) Fetch(ctx context.Context, req *dto.FetchWebPageRequest) (*dto.FetchWebPageResponse, error) {
	page, err := c.fetcher.Fetch(ctx, req.URL)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, constant.ErrInvalidInput)
	}
	if strings.TrimSpace(page.Text) == "" {
		return nil, fmt.Errorf("page %s has no extractable text: %w", req.URL, constant.ErrInvalidInput)
	}

	parts := utils.SplitText(page.Text, webChunkSize, webChunkOverlap)
	vectors, err := c.embeddingProvider.Embed(ctx, parts, c.embedModel)
	if err != nil {
		return nil, fmt.Errorf("embed page chunks: %w", err)
	}
	if len(vectors) != len(parts) {
		return nil, fmt.Errorf("embedding count mismatch: want %d got %d", len(parts), len(vectors))
	}

	var title, domain *string
	if page.Title != "" {
		title = &page.Title
	}
	if page.Domain != "" {
		domain = &page.Domain
	}

	entry := entity.WebPage{
		URL:       page.URL,
		Title:     title,
		Domain:    domain,
		Content:   page.Text,
		FetchedAt: time.Now().Unix(),
		Status:    webPageStatusOK,
	}

	newChunks := make([]*entity.WebChunk, len(parts))
	for i, part := range parts {
		newChunks[i] = &entity.WebChunk{
			URL:        page.URL,
			ChunkIndex: i,
			Text:       part,
			Embedding:  vectors[i],
			Norm:       vector.Norm(vectors[i]),
		}
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.WebPageRepository().Upsert(ctx, &entry); err != nil {
		return nil, err
	}
	if err := uow.WebChunkRepository().DeleteByURL(ctx, page.URL); err != nil {
		return nil, err
	}
	if err := uow.WebChunkRepository().CreateBulk(ctx, newChunks); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	if err := c.eventPublisher.Publish(ctx, events.NewWebPageCached(page.URL, len(newChunks))); err != nil {
		log.Printf("[WARN] Failed to publish WEB_PAGE_CACHED event: %v", err)
	}

	return &dto.FetchWebPageResponse{
		URL:        page.URL,
		Title:      title,
		Domain:     domain,
		ChunkCount: len(newChunks),
	}, nil
}

func (c *webService) GetAll(ctx context.Context) ([]*dto.WebPageResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	pages, err := uow.WebPageRepository().FindAll(ctx,
		specification.OrderBy{Field: "fetched_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	urls := make([]string, len(pages))
	for i, p := range pages {
		urls[i] = p.URL
	}
	counts, err := uow.WebPageRepository().ChunkCounts(ctx, urls)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.WebPageResponse, len(pages))
	for i, p := range pages {
		result[i] = &dto.WebPageResponse{
			URL:        p.URL,
			Title:      p.Title,
			Domain:     p.Domain,
			FetchedAt:  p.FetchedAt,
			Status:     p.Status,
			ChunkCount: counts[p.URL],
		}
	}
	return result, nil
}

func (c *webService) Delete(ctx context.Context, url string) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	page, err := uow.WebPageRepository().FindOne(ctx, specification.FilterBy{Field: "url", Value: url})
	if err != nil {
		return err
	}
	if page == nil {
		return fmt.Errorf("page %s: %w", url, constant.ErrNotFound)
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.WebChunkRepository().DeleteByURL(ctx, url); err != nil {
		return err
	}
	if err := uow.WebPageRepository().Delete(ctx, url); err != nil {
		return err
	}

	return uow.Commit()
}
