package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Chat struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Title     string         `gorm:"type:varchar(255);not null"`
	Pinned    bool           `gorm:"default:false"`
	Archived  bool           `gorm:"default:false"`
	Tags      datatypes.JSON `gorm:"column:tags"`
	Settings  datatypes.JSON `gorm:"column:settings"`
	Summary   *string        `gorm:"type:text"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
}

func (Chat) TableName() string {
	return "chats"
}

type ChatMessage struct {
	Id        int64          `gorm:"primaryKey;autoIncrement"`
	ChatId    uuid.UUID      `gorm:"type:uuid;not null;index"`
	Role      string         `gorm:"type:varchar(32);not null"`
	Content   string         `gorm:"type:text"`
	Meta      datatypes.JSON `gorm:"column:meta_json"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
