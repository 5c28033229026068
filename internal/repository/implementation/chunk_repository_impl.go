package implementation

import (
	"context"
	"errors"
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

type ChunkRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChunkMapper
}

func NewChunkRepository(db *gorm.DB) contract.ChunkRepository {
	return &ChunkRepositoryImpl{
		db:     db,
		mapper: mapper.NewChunkMapper(),
	}
}

func (r *ChunkRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ChunkRepositoryImpl) CreateBulk(ctx context.Context, chunks []*entity.Chunk) error {
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

func (r *ChunkRepositoryImpl) DeleteByDocID(ctx context.Context, docID int64) error {
	return r.db.WithContext(ctx).Where("doc_id = ?", docID).Delete(&model.Chunk{}).Error
}

func (r *ChunkRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Chunk, error) {
	var m model.Chunk
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ChunkRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Chunk, error) {
	var models []*model.Chunk
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *ChunkRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Chunk{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ChunkRepositoryImpl) Neighbors(ctx context.Context, chunkID int64, radius int) ([]*entity.Chunk, error) {
	var center model.Chunk
	if err := r.db.WithContext(ctx).First(&center, chunkID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if radius < 0 {
		radius = 0
	}

	var models []*model.Chunk
	err := r.db.WithContext(ctx).
		Where("doc_id = ? AND chunk_index BETWEEN ? AND ?",
			center.DocId, center.ChunkIndex-radius, center.ChunkIndex+radius).
		Order("chunk_index ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

// chunkSearchRow is the join projection used by SearchChunks.
type chunkSearchRow struct {
	ID         int64   `gorm:"column:id"`
	DocID      int64   `gorm:"column:doc_id"`
	ChunkIndex int     `gorm:"column:chunk_index"`
	Section    *string `gorm:"column:section"`
	Text       string  `gorm:"column:text"`
	Emb        []byte  `gorm:"column:emb"`
	Norm       float64 `gorm:"column:norm"`
	Weight     float64 `gorm:"column:weight"`
	Filename   string  `gorm:"column:filename"`
	Title      *string `gorm:"column:title"`
	Author     *string `gorm:"column:author"`
	Path       *string `gorm:"column:path"`
	Source     *string `gorm:"column:source"`
}

// SearchChunks pre-filters candidates in SQL, then scores them in-process
// by weighted cosine similarity. No filter at all means every chunk is a
// candidate.
func (r *ChunkRepositoryImpl) SearchChunks(ctx context.Context, queryEmbedding []float32, limit int, filter retrieval.DocFilter) ([]retrieval.DocChunkHit, error) {
	query := r.db.WithContext(ctx).
		Table("chunks").
		Select("chunks.id, chunks.doc_id, chunks.chunk_index, chunks.section, chunks.text, chunks.emb, chunks.norm, " +
			"docs.weight, docs.filename, docs.title, docs.author, docs.path, docs.source").
		Joins("JOIN docs ON docs.id = chunks.doc_id")

	if len(filter.DocIDs) > 0 {
		query = query.Where("chunks.doc_id IN ?", filter.DocIDs)
	}
	if filter.GroupName != nil {
		query = query.Where("docs.group_name = ?", *filter.GroupName)
	}
	if filter.Source != nil {
		query = query.Where("docs.source = ?", *filter.Source)
	}

	var rows []chunkSearchRow
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	queryNorm := vector.Norm(queryEmbedding)

	hits := make([]retrieval.DocChunkHit, 0, len(rows))
	for _, row := range rows {
		emb, err := vector.DecodeBlob(row.Emb)
		if err != nil {
			continue
		}
		score := vector.CosineWithNorms(queryEmbedding, queryNorm, emb, row.Norm) * row.Weight
		hits = append(hits, retrieval.DocChunkHit{
			ChunkID:    row.ID,
			DocID:      row.DocID,
			ChunkIndex: row.ChunkIndex,
			Section:    row.Section,
			Text:       row.Text,
			Score:      score,
			DocWeight:  row.Weight,
			Filename:   row.Filename,
			Title:      row.Title,
			Author:     row.Author,
			Path:       row.Path,
			Source:     row.Source,
			Embedding:  emb,
			Norm:       row.Norm,
		})
	}

	sortHitsByScore(hits)

	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

// sortHitsByScore orders best-first, breaking score ties by lower chunk id
// so results are deterministic.
func sortHitsByScore(hits []retrieval.DocChunkHit) {
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].ChunkID < hits[j].ChunkID
	})
}
