package implementation

import (
	"context"
	"errors"

	"cognihub-be/internal/entity"
	"cognihub-be/internal/mapper"
	"cognihub-be/internal/model"
	"cognihub-be/internal/repository/contract"
	"cognihub-be/internal/repository/specification"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ResearchRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ResearchMapper
}

func NewResearchRepository(db *gorm.DB) contract.ResearchRepository {
	return &ResearchRepositoryImpl{
		db:     db,
		mapper: mapper.NewResearchMapper(),
	}
}

func (r *ResearchRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ResearchRepositoryImpl) CreateRun(ctx context.Context, run *entity.ResearchRun) error {
	m := r.mapper.RunToModel(run)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*run = *r.mapper.RunToEntity(m)
	return nil
}

func (r *ResearchRepositoryImpl) UpdateRunStatus(ctx context.Context, runID string, status string) error {
	return r.db.WithContext(ctx).
		Model(&model.ResearchRun{}).
		Where("id = ?", runID).
		Update("status", status).Error
}

func (r *ResearchRepositoryImpl) DeleteRun(ctx context.Context, runID string) error {
	return r.db.WithContext(ctx).Delete(&model.ResearchRun{}, "id = ?", runID).Error
}

func (r *ResearchRepositoryImpl) FindRun(ctx context.Context, specs ...specification.Specification) (*entity.ResearchRun, error) {
	var m model.ResearchRun
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.RunToEntity(&m), nil
}

func (r *ResearchRepositoryImpl) FindAllRuns(ctx context.Context, specs ...specification.Specification) ([]*entity.ResearchRun, error) {
	var models []*model.ResearchRun
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.RunsToEntities(models), nil
}

func (r *ResearchRepositoryImpl) CountRuns(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.ResearchRun{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ResearchRepositoryImpl) AddSources(ctx context.Context, sources []*entity.ResearchSource) error {
	if len(sources) == 0 {
		return nil
	}
	models := r.mapper.SourcesToModels(sources)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(models, 100).Error
}

func (r *ResearchRepositoryImpl) FindSources(ctx context.Context, runID string) ([]*entity.ResearchSource, error) {
	var models []*model.ResearchSource
	err := r.db.WithContext(ctx).
		Where("run_id = ?", runID).
		Order("ref_id ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.SourcesToEntities(models), nil
}

func (r *ResearchRepositoryImpl) UpdateSourceFlags(ctx context.Context, runID, refID string, pinned, excluded *bool) error {
	updates := map[string]interface{}{}
	if pinned != nil {
		updates["pinned"] = *pinned
	}
	if excluded != nil {
		updates["excluded"] = *excluded
	}
	if len(updates) == 0 {
		return nil
	}

	result := r.db.WithContext(ctx).
		Model(&model.ResearchSource{}).
		Where("run_id = ? AND ref_id = ?", runID, refID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ResearchRepositoryImpl) DeleteSources(ctx context.Context, runID string) error {
	return r.db.WithContext(ctx).Where("run_id = ?", runID).Delete(&model.ResearchSource{}).Error
}
