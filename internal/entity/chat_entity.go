package entity

import (
	"time"

	"github.com/google/uuid"
)

type Chat struct {
	Id        uuid.UUID
	Title     string
	Pinned    bool
	Archived  bool
	Tags      []string
	Settings  map[string]interface{}
	Summary   *string
	CreatedAt time.Time
	UpdatedAt *time.Time

	// MessageCount is hydrated on listing; it is not a stored column.
	MessageCount int64
}

type ChatMessage struct {
	Id        int64
	ChatId    uuid.UUID
	Role      string
	Content   string
	Meta      map[string]interface{}
	CreatedAt time.Time
}
