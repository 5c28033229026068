package mapper

import (
	"cognihub-be/internal/entity"
	"cognihub-be/internal/model"
)

type ResearchMapper struct{}

func NewResearchMapper() *ResearchMapper {
	return &ResearchMapper{}
}

func (m *ResearchMapper) RunToEntity(r *model.ResearchRun) *entity.ResearchRun {
	if r == nil {
		return nil
	}

	return &entity.ResearchRun{
		Id:        r.Id,
		Question:  r.Question,
		Status:    r.Status,
		CreatedAt: r.CreatedAt,
	}
}

func (m *ResearchMapper) RunToModel(r *entity.ResearchRun) *model.ResearchRun {
	if r == nil {
		return nil
	}

	return &model.ResearchRun{
		Id:        r.Id,
		Question:  r.Question,
		Status:    r.Status,
		CreatedAt: r.CreatedAt,
	}
}

func (m *ResearchMapper) RunsToEntities(runs []*model.ResearchRun) []*entity.ResearchRun {
	entities := make([]*entity.ResearchRun, len(runs))
	for i, r := range runs {
		entities[i] = m.RunToEntity(r)
	}
	return entities
}

func (m *ResearchMapper) SourceToEntity(s *model.ResearchSource) *entity.ResearchSource {
	if s == nil {
		return nil
	}

	return &entity.ResearchSource{
		RunId:    s.RunId,
		RefId:    s.RefId,
		Title:    s.Title,
		URL:      s.URL,
		Pinned:   s.Pinned,
		Excluded: s.Excluded,
	}
}

func (m *ResearchMapper) SourceToModel(s *entity.ResearchSource) *model.ResearchSource {
	if s == nil {
		return nil
	}

	return &model.ResearchSource{
		RunId:    s.RunId,
		RefId:    s.RefId,
		Title:    s.Title,
		URL:      s.URL,
		Pinned:   s.Pinned,
		Excluded: s.Excluded,
	}
}

func (m *ResearchMapper) SourcesToEntities(sources []*model.ResearchSource) []*entity.ResearchSource {
	entities := make([]*entity.ResearchSource, len(sources))
	for i, s := range sources {
		entities[i] = m.SourceToEntity(s)
	}
	return entities
}

func (m *ResearchMapper) SourcesToModels(sources []*entity.ResearchSource) []*model.ResearchSource {
	models := make([]*model.ResearchSource, len(sources))
	for i, s := range sources {
		models[i] = m.SourceToModel(s)
	}
	return models
}
