package model

import "gorm.io/datatypes"

type Document struct {
	Id         int64   `gorm:"primaryKey;autoIncrement"`
	Filename   string  `gorm:"type:varchar(255);not null"`
	SHA256     string  `gorm:"column:sha256;type:varchar(64);index"`
	CreatedAt  int64   `gorm:"column:created_at;not null"`
	EmbedModel string  `gorm:"column:embed_model;type:varchar(128)"`
	EmbedDim   int     `gorm:"column:embed_dim"`
	Weight     float64 `gorm:"column:weight;default:1.0"`
	GroupName  *string `gorm:"column:group_name;type:varchar(128);index"`
	Source     *string `gorm:"column:source;type:varchar(64);index"`
	Title      *string `gorm:"type:varchar(512)"`
	Author     *string `gorm:"type:varchar(255)"`
	Path       *string `gorm:"type:varchar(1024)"`
	Meta       datatypes.JSON `gorm:"column:meta_json"`
}

func (Document) TableName() string {
	return "docs"
}

type Chunk struct {
	Id         int64   `gorm:"primaryKey;autoIncrement"`
	DocId      int64   `gorm:"column:doc_id;not null;index"`
	ChunkIndex int     `gorm:"column:chunk_index;not null"`
	Section    *string `gorm:"type:varchar(512)"`
	Text       string  `gorm:"type:text"`
	Emb        []byte  `gorm:"column:emb"`
	Norm       float64 `gorm:"column:norm"`
	ChunkSHA   string  `gorm:"column:chunk_sha;type:varchar(64)"`
}

func (Chunk) TableName() string {
	return "chunks"
}
