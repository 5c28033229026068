// FILE: internal/service/status_service.go
package service

import (
	"context"
	"log"
	"time"

	"cognihub-be/internal/dto"
	"cognihub-be/internal/repository/unitofwork"
	"cognihub-be/pkg/cache"
)

const (
	statusCacheKey = "status"
	modelsCacheKey = "models"
)

// ModelLister is the slice of the Ollama client the status endpoints need.
type ModelLister interface {
	ListModels(ctx context.Context) ([]string, error)
}

type IStatusService interface {
	Status(ctx context.Context) (*dto.StatusResponse, error)
	Models(ctx context.Context) (*dto.ModelsResponse, error)
}

type statusService struct {
	uowFactory  unitofwork.RepositoryFactory
	modelLister ModelLister
	cache       *cache.Bounded
	cacheTTL    time.Duration
}

func NewStatusService(
	uowFactory unitofwork.RepositoryFactory,
	modelLister ModelLister,
	statusCache *cache.Bounded,
	cacheTTL time.Duration,
) IStatusService {
	return &statusService{
		uowFactory:  uowFactory,
		modelLister: modelLister,
		cache:       statusCache,
		cacheTTL:    cacheTTL,
	}
}

func (s *statusService) Status(ctx context.Context) (*dto.StatusResponse, error) {
	v, err := s.cache.Fetch(statusCacheKey, s.cacheTTL, func() (any, error) {
		return s.buildStatus(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*dto.StatusResponse), nil
}

func (s *statusService) Models(ctx context.Context) (*dto.ModelsResponse, error) {
	v, err := s.cache.Fetch(modelsCacheKey, s.cacheTTL, func() (any, error) {
		models, err := s.modelLister.ListModels(ctx)
		if err != nil {
			return nil, err
		}
		return &dto.ModelsResponse{Models: models}, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*dto.ModelsResponse), nil
}

func (s *statusService) buildStatus(ctx context.Context) (*dto.StatusResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	docs, err := uow.DocumentRepository().Count(ctx)
	if err != nil {
		return nil, err
	}
	chunks, err := uow.ChunkRepository().Count(ctx)
	if err != nil {
		return nil, err
	}
	pages, err := uow.WebPageRepository().Count(ctx)
	if err != nil {
		return nil, err
	}
	chats, err := uow.ChatRepository().Count(ctx)
	if err != nil {
		return nil, err
	}

	res := dto.StatusResponse{
		Documents: docs,
		Chunks:    chunks,
		WebPages:  pages,
		Chats:     chats,
	}

	// An unreachable Ollama is a status to report, not an error.
	models, err := s.modelLister.ListModels(ctx)
	if err != nil {
		log.Printf("[WARN] Ollama not reachable: %v", err)
		return &res, nil
	}
	res.OllamaReachable = true
	res.Models = models
	return &res, nil
}
