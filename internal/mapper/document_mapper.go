package mapper

import (
	"encoding/json"

	"cognihub-be/internal/entity"
	"cognihub-be/internal/model"
	"cognihub-be/pkg/vector"

	"gorm.io/datatypes"
)

type DocumentMapper struct{}

func NewDocumentMapper() *DocumentMapper {
	return &DocumentMapper{}
}

func (m *DocumentMapper) ToEntity(d *model.Document) *entity.Document {
	if d == nil {
		return nil
	}

	return &entity.Document{
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
		Meta:       jsonToMap(d.Meta),
	}
}

func (m *DocumentMapper) ToModel(d *entity.Document) *model.Document {
	if d == nil {
		return nil
	}

	return &model.Document{
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
		Meta:       mapToJSON(d.Meta),
	}
}

func (m *DocumentMapper) ToEntities(docs []*model.Document) []*entity.Document {
	entities := make([]*entity.Document, len(docs))
	for i, d := range docs {
		entities[i] = m.ToEntity(d)
	}
	return entities
}

type ChunkMapper struct{}

func NewChunkMapper() *ChunkMapper {
	return &ChunkMapper{}
}

func (m *ChunkMapper) ToEntity(c *model.Chunk) *entity.Chunk {
	if c == nil {
		return nil
	}

	// A corrupt blob maps to a nil embedding; it scores 0 everywhere
	// instead of failing the whole read.
	emb, _ := vector.DecodeBlob(c.Emb)

	return &entity.Chunk{
		Id:         c.Id,
		DocId:      c.DocId,
		ChunkIndex: c.ChunkIndex,
		Section:    c.Section,
		Text:       c.Text,
		Embedding:  emb,
		Norm:       c.Norm,
		ChunkSHA:   c.ChunkSHA,
	}
}

func (m *ChunkMapper) ToModel(c *entity.Chunk) *model.Chunk {
	if c == nil {
		return nil
	}

	return &model.Chunk{
		Id:         c.Id,
		DocId:      c.DocId,
		ChunkIndex: c.ChunkIndex,
		Section:    c.Section,
		Text:       c.Text,
		Emb:        vector.EncodeBlob(c.Embedding),
		Norm:       c.Norm,
		ChunkSHA:   c.ChunkSHA,
	}
}

func (m *ChunkMapper) ToEntities(chunks []*model.Chunk) []*entity.Chunk {
	entities := make([]*entity.Chunk, len(chunks))
	for i, c := range chunks {
		entities[i] = m.ToEntity(c)
	}
	return entities
}

func (m *ChunkMapper) ToModels(chunks []*entity.Chunk) []*model.Chunk {
	models := make([]*model.Chunk, len(chunks))
	for i, c := range chunks {
		models[i] = m.ToModel(c)
	}
	return models
}

func jsonToMap(j datatypes.JSON) map[string]interface{} {
	if len(j) == 0 {
		return nil
	}
	var out map[string]interface{}
	if err := json.Unmarshal(j, &out); err != nil {
		return nil
	}
	return out
}

func mapToJSON(m map[string]interface{}) datatypes.JSON {
	if len(m) == 0 {
		return nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil
	}
	return datatypes.JSON(b)
}
