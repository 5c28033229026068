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

type WebPageRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.WebPageMapper
}

func NewWebPageRepository(db *gorm.DB) contract.WebPageRepository {
	return &WebPageRepositoryImpl{
		db:     db,
		mapper: mapper.NewWebPageMapper(),
	}
}

func (r *WebPageRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *WebPageRepositoryImpl) Upsert(ctx context.Context, page *entity.WebPage) error {
	m := r.mapper.ToModel(page)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "url"}},
			UpdateAll: true,
		}).
		Create(m).Error
	if err != nil {
		return err
	}
	*page = *r.mapper.ToEntity(m)
	return nil
}

func (r *WebPageRepositoryImpl) Delete(ctx context.Context, url string) error {
	return r.db.WithContext(ctx).Where("url = ?", url).Delete(&model.WebPage{}).Error
}

func (r *WebPageRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.WebPage, error) {
	var m model.WebPage
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *WebPageRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.WebPage, error) {
	var models []*model.WebPage
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *WebPageRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.WebPage{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *WebPageRepositoryImpl) ChunkCounts(ctx context.Context, urls []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(urls))
	if len(urls) == 0 {
		return counts, nil
	}

	type row struct {
		URL string `gorm:"column:url"`
		N   int64  `gorm:"column:n"`
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&model.WebChunk{}).
		Select("url, COUNT(*) AS n").
		Where("url IN ?", urls).
		Group("url").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, rw := range rows {
		counts[rw.URL] = rw.N
	}
	return counts, nil
}
