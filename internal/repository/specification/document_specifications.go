package specification

import "gorm.io/gorm"

type ByGroupName struct {
	GroupName string
}

func (s ByGroupName) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("group_name = ?", s.GroupName)
}

type BySource struct {
	Source string
}

func (s BySource) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("source = ?", s.Source)
}

type BySHA256 struct {
	SHA256 string
}

func (s BySHA256) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("sha256 = ?", s.SHA256)
}

type ByDocID struct {
	DocID int64
}

func (s ByDocID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("doc_id = ?", s.DocID)
}

type OrderByChunkIndex struct{}

func (s OrderByChunkIndex) Apply(db *gorm.DB) *gorm.DB {
	return db.Order("chunk_index ASC")
}
