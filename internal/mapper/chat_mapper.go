package mapper

import (
	"encoding/json"
	"time"

	"cognihub-be/internal/entity"
	"cognihub-be/internal/model"

	"gorm.io/datatypes"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

func (m *ChatMapper) ToEntity(c *model.Chat) *entity.Chat {
	if c == nil {
		return nil
	}

	var updatedAt *time.Time
	if !c.UpdatedAt.IsZero() {
		t := c.UpdatedAt
		updatedAt = &t
	}

	return &entity.Chat{
		Id:        c.Id,
		Title:     c.Title,
		Pinned:    c.Pinned,
		Archived:  c.Archived,
		Tags:      jsonToTags(c.Tags),
		Settings:  jsonToMap(c.Settings),
		Summary:   c.Summary,
		CreatedAt: c.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *ChatMapper) ToModel(c *entity.Chat) *model.Chat {
	if c == nil {
		return nil
	}

	var updatedAt time.Time
	if c.UpdatedAt != nil {
		updatedAt = *c.UpdatedAt
	}

	return &model.Chat{
		Id:        c.Id,
		Title:     c.Title,
		Pinned:    c.Pinned,
		Archived:  c.Archived,
		Tags:      tagsToJSON(c.Tags),
		Settings:  mapToJSON(c.Settings),
		Summary:   c.Summary,
		CreatedAt: c.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *ChatMapper) ToEntities(chats []*model.Chat) []*entity.Chat {
	entities := make([]*entity.Chat, len(chats))
	for i, c := range chats {
		entities[i] = m.ToEntity(c)
	}
	return entities
}

type ChatMessageMapper struct{}

func NewChatMessageMapper() *ChatMessageMapper {
	return &ChatMessageMapper{}
}

func (m *ChatMessageMapper) ToEntity(msg *model.ChatMessage) *entity.ChatMessage {
	if msg == nil {
		return nil
	}

	return &entity.ChatMessage{
		Id:        msg.Id,
		ChatId:    msg.ChatId,
		Role:      msg.Role,
		Content:   msg.Content,
		Meta:      jsonToMap(msg.Meta),
		CreatedAt: msg.CreatedAt,
	}
}

func (m *ChatMessageMapper) ToModel(msg *entity.ChatMessage) *model.ChatMessage {
	if msg == nil {
		return nil
	}

	return &model.ChatMessage{
		Id:        msg.Id,
		ChatId:    msg.ChatId,
		Role:      msg.Role,
		Content:   msg.Content,
		Meta:      mapToJSON(msg.Meta),
		CreatedAt: msg.CreatedAt,
	}
}

func (m *ChatMessageMapper) ToEntities(msgs []*model.ChatMessage) []*entity.ChatMessage {
	entities := make([]*entity.ChatMessage, len(msgs))
	for i, msg := range msgs {
		entities[i] = m.ToEntity(msg)
	}
	return entities
}

func (m *ChatMessageMapper) ToModels(msgs []*entity.ChatMessage) []*model.ChatMessage {
	models := make([]*model.ChatMessage, len(msgs))
	for i, msg := range msgs {
		models[i] = m.ToModel(msg)
	}
	return models
}

func jsonToTags(j datatypes.JSON) []string {
	if len(j) == 0 {
		return nil
	}
	var tags []string
	if err := json.Unmarshal(j, &tags); err != nil {
		return nil
	}
	return tags
}

func tagsToJSON(tags []string) datatypes.JSON {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return nil
	}
	return datatypes.JSON(b)
}
