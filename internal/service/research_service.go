// FILE: internal/service/research_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"cognihub-be/internal/constant"
	"cognihub-be/internal/dto"
	"cognihub-be/internal/entity"
	"cognihub-be/internal/repository/specification"
	"cognihub-be/internal/repository/unitofwork"
	"cognihub-be/pkg/events"
	pktNats "cognihub-be/pkg/nats"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// researchTimeout bounds the background retrieval of a single run.
const researchTimeout = 2 * time.Minute

type IResearchService interface {
	Start(ctx context.Context, req *dto.StartResearchRequest) (*dto.StartResearchResponse, error)
	GetAll(ctx context.Context) ([]*dto.ResearchRunResponse, error)
	Show(ctx context.Context, id string) (*dto.ResearchRunResponse, error)
	Delete(ctx context.Context, id string) error
	UpdateSourceFlags(ctx context.Context, req *dto.UpdateSourceFlagsRequest) error
}

type researchService struct {
	uowFactory       unitofwork.RepositoryFactory
	retrievalService IRetrievalService
	eventPublisher   *pktNats.Publisher
}

func NewResearchService(
	uowFactory unitofwork.RepositoryFactory,
	retrievalService IRetrievalService,
	eventPublisher *pktNats.Publisher,
) IResearchService {
	return &researchService{
		uowFactory:       uowFactory,
		retrievalService: retrievalService,
		eventPublisher:   eventPublisher,
	}
}

func (r *researchService) Start(ctx context.Context, req *dto.StartResearchRequest) (*dto.StartResearchResponse, error) {
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return nil, fmt.Errorf("research question is empty: %w", constant.ErrInvalidInput)
	}

	run := entity.ResearchRun{
		Id:        strings.ReplaceAll(uuid.NewString(), "-", ""),
		Question:  question,
		Status:    entity.ResearchStatusRunning,
		CreatedAt: time.Now().Unix(),
	}

	uow := r.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ResearchRepository().CreateRun(ctx, &run); err != nil {
		return nil, err
	}

	go r.execute(run.Id, question, req.Options)

	return &dto.StartResearchResponse{Id: run.Id, Status: run.Status}, nil
}

// execute performs the retrieval for a run after the HTTP request that
// started it has already returned.
func (r *researchService) execute(runID, question string, options *dto.RetrieveRequest) {
	ctx, cancel := context.WithTimeout(context.Background(), researchTimeout)
	defer cancel()

	retrieveReq := dto.RetrieveRequest{}
	if options != nil {
		retrieveReq = *options
	}
	retrieveReq.Query = question

	res, err := r.retrievalService.Retrieve(ctx, &retrieveReq)
	if err != nil {
		log.Printf("[WARN] Research run %s failed: %v", runID, err)
		r.fail(ctx, runID)
		r.publishCompleted(ctx, runID, entity.ResearchStatusFailed, 0)
		return
	}

	sources := make([]*entity.ResearchSource, 0, len(res.Results))
	for _, hit := range res.Results {
		sources = append(sources, &entity.ResearchSource{
			RunId: runID,
			RefId: hit.RefID,
			Title: hit.Title,
			URL:   hit.URL,
		})
	}

	if err := r.complete(ctx, runID, sources); err != nil {
		log.Printf("[ERROR] Failed to record research run %s: %v", runID, err)
		r.fail(ctx, runID)
		r.publishCompleted(ctx, runID, entity.ResearchStatusFailed, 0)
		return
	}

	log.Printf("[SUCCESS] Research run %s completed with %d sources", runID, len(sources))
	r.publishCompleted(ctx, runID, entity.ResearchStatusCompleted, len(sources))
}

func (r *researchService) complete(ctx context.Context, runID string, sources []*entity.ResearchSource) error {
	uow := r.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.ResearchRepository().AddSources(ctx, sources); err != nil {
		return err
	}
	if err := uow.ResearchRepository().UpdateRunStatus(ctx, runID, entity.ResearchStatusCompleted); err != nil {
		return err
	}

	return uow.Commit()
}

func (r *researchService) fail(ctx context.Context, runID string) {
	uow := r.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ResearchRepository().UpdateRunStatus(ctx, runID, entity.ResearchStatusFailed); err != nil {
		log.Printf("[ERROR] Failed to mark research run %s as failed: %v", runID, err)
	}
}

func (r *researchService) publishCompleted(ctx context.Context, runID, status string, sourceCount int) {
	if err := r.eventPublisher.Publish(ctx, events.NewResearchCompleted(runID, status, sourceCount)); err != nil {
		log.Printf("[WARN] Failed to publish research.completed event for %s: %v", runID, err)
	}
}

func (r *researchService) GetAll(ctx context.Context) ([]*dto.ResearchRunResponse, error) {
	uow := r.uowFactory.NewUnitOfWork(ctx)

	runs, err := uow.ResearchRepository().FindAllRuns(ctx, specification.OrderBy{Field: "created_at", Desc: true})
	if err != nil {
		return nil, err
	}

	result := make([]*dto.ResearchRunResponse, len(runs))
	for i, run := range runs {
		result[i] = runToResponse(run, nil)
	}
	return result, nil
}

func (r *researchService) Show(ctx context.Context, id string) (*dto.ResearchRunResponse, error) {
	uow := r.uowFactory.NewUnitOfWork(ctx)

	run, err := uow.ResearchRepository().FindRun(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, fmt.Errorf("research run %s: %w", id, constant.ErrNotFound)
	}

	sources, err := uow.ResearchRepository().FindSources(ctx, id)
	if err != nil {
		return nil, err
	}

	return runToResponse(run, sources), nil
}

func (r *researchService) Delete(ctx context.Context, id string) error {
	uow := r.uowFactory.NewUnitOfWork(ctx)

	run, err := uow.ResearchRepository().FindRun(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if run == nil {
		return fmt.Errorf("research run %s: %w", id, constant.ErrNotFound)
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.ResearchRepository().DeleteSources(ctx, id); err != nil {
		return err
	}
	if err := uow.ResearchRepository().DeleteRun(ctx, id); err != nil {
		return err
	}

	return uow.Commit()
}

func (r *researchService) UpdateSourceFlags(ctx context.Context, req *dto.UpdateSourceFlagsRequest) error {
	if req.Pinned == nil && req.Excluded == nil {
		return fmt.Errorf("no source flags provided: %w", constant.ErrInvalidInput)
	}

	uow := r.uowFactory.NewUnitOfWork(ctx)
	err := uow.ResearchRepository().UpdateSourceFlags(ctx, req.RunId, req.RefId, req.Pinned, req.Excluded)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("research source %s/%s: %w", req.RunId, req.RefId, constant.ErrNotFound)
		}
		return err
	}
	return nil
}

func runToResponse(run *entity.ResearchRun, sources []*entity.ResearchSource) *dto.ResearchRunResponse {
	res := dto.ResearchRunResponse{
		Id:        run.Id,
		Question:  run.Question,
		Status:    run.Status,
		CreatedAt: run.CreatedAt,
		Sources:   make([]dto.ResearchSourceResponse, len(sources)),
	}
	for i, s := range sources {
		res.Sources[i] = dto.ResearchSourceResponse{
			RefId:    s.RefId,
			Title:    s.Title,
			URL:      s.URL,
			Pinned:   s.Pinned,
			Excluded: s.Excluded,
		}
	}
	return &res
}
