package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByChatID struct {
	ChatID uuid.UUID
}

func (s ByChatID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("chat_id = ?", s.ChatID)
}

// NotArchived keeps the default chat listing free of archived chats.
type NotArchived struct{}

func (s NotArchived) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("archived = ?", false)
}

type ByPinned struct {
	Pinned bool
}

func (s ByPinned) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("pinned = ?", s.Pinned)
}

// TitleSearch matches chats whose title contains the query,
// case-insensitive.
type TitleSearch struct {
	Query string
}

func (s TitleSearch) Apply(db *gorm.DB) *gorm.DB {
	pattern := "%" + s.Query + "%"
	return db.Where("title LIKE ? COLLATE NOCASE", pattern)
}

// HasTag matches chats whose JSON tag array contains the tag. Tags are
// stored as a JSON string array, so a quoted substring match is exact
// per element.
type HasTag struct {
	Tag string
}

func (s HasTag) Apply(db *gorm.DB) *gorm.DB {
	pattern := `%"` + s.Tag + `"%`
	return db.Where("tags LIKE ?", pattern)
}

// UpToMessageID bounds message queries to ids at or below the given id.
type UpToMessageID struct {
	MessageID int64
}

func (s UpToMessageID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("id <= ?", s.MessageID)
}
