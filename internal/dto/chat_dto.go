package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateChatRequest struct {
	Title    string                 `json:"title"`
	Tags     []string               `json:"tags"`
	Settings map[string]interface{} `json:"settings"`
}

type CreateChatResponse struct {
	Id uuid.UUID `json:"id"`
}

type ChatResponse struct {
	Id           uuid.UUID              `json:"id"`
	Title        string                 `json:"title"`
	Pinned       bool                   `json:"pinned"`
	Archived     bool                   `json:"archived"`
	Tags         []string               `json:"tags"`
	Settings     map[string]interface{} `json:"settings,omitempty"`
	Summary      *string                `json:"summary,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    *time.Time             `json:"updated_at"`
	MessageCount int64                  `json:"message_count"`
}

type ChatMessageResponse struct {
	Id        int64                  `json:"id"`
	Role      string                 `json:"role"`
	Content   string                 `json:"content"`
	Meta      map[string]interface{} `json:"meta,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

type ChatDetailResponse struct {
	ChatResponse
	Messages []ChatMessageResponse `json:"messages"`
}

type ListChatsRequest struct {
	Query           string `query:"q"`
	Tag             string `query:"tag"`
	Pinned          *bool  `query:"pinned"`
	IncludeArchived bool   `query:"archived"`
}

type AppendMessageRequest struct {
	ChatId  uuid.UUID
	Role    string                 `json:"role" validate:"required,oneof=user assistant system"`
	Content string                 `json:"content" validate:"required"`
	Meta    map[string]interface{} `json:"meta"`
}

type AppendMessageResponse struct {
	Id int64 `json:"id"`
}

type PatchChatRequest struct {
	Id       uuid.UUID
	Title    *string                 `json:"title"`
	Tags     *[]string               `json:"tags"`
	Pinned   *bool                   `json:"pinned"`
	Archived *bool                   `json:"archived"`
	Settings *map[string]interface{} `json:"settings"`
}

type ForkChatRequest struct {
	ChatId uuid.UUID
	// UpToMessageId bounds the copy; nil copies every message.
	UpToMessageId *int64 `json:"up_to_message_id" validate:"omitempty,min=1"`
	Title         string `json:"title"`
}

type ForkChatResponse struct {
	Id       uuid.UUID `json:"id"`
	Messages int       `json:"messages"`
}

type SummarizeChatResponse struct {
	Summary   string `json:"summary"`
	Generated bool   `json:"generated"`
}

type ChatExportResponse struct {
	Chat     ChatResponse          `json:"chat"`
	Messages []ChatMessageResponse `json:"messages"`
}
