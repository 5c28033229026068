package implementation

import (
	"context"
	"sort"

	"cognihub-be/internal/entity"
	"cognihub-be/internal/mapper"
	"cognihub-be/internal/model"
	"cognihub-be/internal/repository/contract"
	"cognihub-be/internal/repository/specification"
	"cognihub-be/pkg/rag/retrieval"
	"cognihub-be/pkg/vector"

	"gorm.io/gorm"
)

type WebChunkRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.WebChunkMapper
}

func NewWebChunkRepository(db *gorm.DB) contract.WebChunkRepository {
	return &WebChunkRepositoryImpl{
		db:     db,
		mapper: mapper.NewWebChunkMapper(),
	}
}

func (r *WebChunkRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *WebChunkRepositoryImpl) CreateBulk(ctx context.Context, chunks []*entity.WebChunk) error {
	if len(chunks) == 0 {
		return nil
	}
	models := r.mapper.ToModels(chunks)
	if err := r.db.WithContext(ctx).CreateInBatches(models, 100).Error; err != nil {
		return err
	}
	for i, m := range models {
		chunks[i].Id = m.Id
	}
	return nil
}

func (r *WebChunkRepositoryImpl) DeleteByURL(ctx context.Context, url string) error {
	return r.db.WithContext(ctx).Where("url = ?", url).Delete(&model.WebChunk{}).Error
}

func (r *WebChunkRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.WebChunk{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

type webChunkSearchRow struct {
	ID         int64   `gorm:"column:id"`
	URL        string  `gorm:"column:url"`
	ChunkIndex int     `gorm:"column:chunk_index"`
	Text       string  `gorm:"column:text"`
	Emb        []byte  `gorm:"column:emb"`
	Norm       float64 `gorm:"column:norm"`
	Title      *string `gorm:"column:title"`
	Domain     *string `gorm:"column:domain"`
}

// SearchWebChunks scores cached web chunks by cosine similarity. An empty
// domains slice searches every cached page.
func (r *WebChunkRepositoryImpl) SearchWebChunks(ctx context.Context, queryEmbedding []float32, limit int, domains []string) ([]retrieval.WebChunkHit, error) {
	query := r.db.WithContext(ctx).
		Table("web_chunks").
		Select("web_chunks.id, web_chunks.url, web_chunks.chunk_index, web_chunks.text, web_chunks.emb, web_chunks.norm, " +
			"web_pages.title, web_pages.domain").
		Joins("JOIN web_pages ON web_pages.url = web_chunks.url")

	if len(domains) > 0 {
		query = query.Where("web_pages.domain IN ?", domains)
	}

	var rows []webChunkSearchRow
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	queryNorm := vector.Norm(queryEmbedding)

	hits := make([]retrieval.WebChunkHit, 0, len(rows))
	for _, row := range rows {
		emb, err := vector.DecodeBlob(row.Emb)
		if err != nil {
			continue
		}
		score := vector.CosineWithNorms(queryEmbedding, queryNorm, emb, row.Norm)
		hits = append(hits, retrieval.WebChunkHit{
			ChunkID:    row.ID,
			PageURL:    row.URL,
			Title:      row.Title,
			Domain:     row.Domain,
			ChunkIndex: row.ChunkIndex,
			Text:       row.Text,
			Score:      score,
			Embedding:  emb,
			Norm:       row.Norm,
		})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].ChunkID < hits[j].ChunkID
	})

	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}
