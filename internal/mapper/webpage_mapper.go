package mapper

import (
	"cognihub-be/internal/entity"
	"cognihub-be/internal/model"
	"cognihub-be/pkg/vector"
)

type WebPageMapper struct{}

func NewWebPageMapper() *WebPageMapper {
	return &WebPageMapper{}
}

func (m *WebPageMapper) ToEntity(p *model.WebPage) *entity.WebPage {
	if p == nil {
		return nil
	}

	return &entity.WebPage{
		URL:       p.URL,
		Title:     p.Title,
		Domain:    p.Domain,
		Content:   p.Content,
		FetchedAt: p.FetchedAt,
		Status:    p.Status,
	}
}

func (m *WebPageMapper) ToModel(p *entity.WebPage) *model.WebPage {
	if p == nil {
		return nil
	}

	return &model.WebPage{
		URL:       p.URL,
		Title:     p.Title,
		Domain:    p.Domain,
		Content:   p.Content,
		FetchedAt: p.FetchedAt,
		Status:    p.Status,
	}
}

func (m *WebPageMapper) ToEntities(pages []*model.WebPage) []*entity.WebPage {
	entities := make([]*entity.WebPage, len(pages))
	for i, p := range pages {
		entities[i] = m.ToEntity(p)
	}
	return entities
}

type WebChunkMapper struct{}

func NewWebChunkMapper() *WebChunkMapper {
	return &WebChunkMapper{}
}

func (m *WebChunkMapper) ToEntity(c *model.WebChunk) *entity.WebChunk {
	if c == nil {
		return nil
	}

	emb, _ := vector.DecodeBlob(c.Emb)

	return &entity.WebChunk{
		Id:         c.Id,
		URL:        c.URL,
		ChunkIndex: c.ChunkIndex,
		Text:       c.Text,
		Embedding:  emb,
		Norm:       c.Norm,
	}
}

func (m *WebChunkMapper) ToModel(c *entity.WebChunk) *model.WebChunk {
	if c == nil {
		return nil
	}

	return &model.WebChunk{
		Id:         c.Id,
		URL:        c.URL,
		ChunkIndex: c.ChunkIndex,
		Text:       c.Text,
		Emb:        vector.EncodeBlob(c.Embedding),
		Norm:       c.Norm,
	}
}

func (m *WebChunkMapper) ToModels(chunks []*entity.WebChunk) []*model.WebChunk {
	models := make([]*model.WebChunk, len(chunks))
	for i, c := range chunks {
		models[i] = m.ToModel(c)
	}
	return models
}
