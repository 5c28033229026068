// FILE: internal/service/chat_service.go
package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"cognihub-be/internal/constant"
	"cognihub-be/internal/dto"
	"cognihub-be/internal/entity"
	"cognihub-be/internal/repository/specification"
	"cognihub-be/internal/repository/unitofwork"
	"cognihub-be/pkg/llm"

	"github.com/google/uuid"
)

const (
	defaultChatTitle    = "New chat"
	maxSummaryMessages  = 100
	summaryInstructions = "Summarize this chat in 8-12 bullet points, then list 5 actionable next steps.\n\n"
)

type IChatService interface {
	Create(ctx context.Context, req *dto.CreateChatRequest) (*dto.CreateChatResponse, error)
	GetAll(ctx context.Context, req *dto.ListChatsRequest) ([]*dto.ChatResponse, error)
	Show(ctx context.Context, id uuid.UUID) (*dto.ChatDetailResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Patch(ctx context.Context, req *dto.PatchChatRequest) (*dto.ChatResponse, error)
	Append(ctx context.Context, req *dto.AppendMessageRequest) (*dto.AppendMessageResponse, error)
	Clear(ctx context.Context, id uuid.UUID) error
	Fork(ctx context.Context, req *dto.ForkChatRequest) (*dto.ForkChatResponse, error)
	Export(ctx context.Context, id uuid.UUID, format string) (*dto.ChatExportResponse, string, error)
	Summarize(ctx context.Context, id uuid.UUID) (*dto.SummarizeChatResponse, error)
}

type chatService struct {
	uowFactory  unitofwork.RepositoryFactory
	llmProvider llm.LLMProvider
	chatModel   string
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	llmProvider llm.LLMProvider,
	chatModel string,
) IChatService {
	return &chatService{
		uowFactory:  uowFactory,
		llmProvider: llmProvider,
		chatModel:   chatModel,
	}
}

func (c *chatService) Create(ctx context.Context, req *dto.CreateChatRequest) (*dto.CreateChatResponse, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = defaultChatTitle
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)
	chat := entity.Chat{
		Id:        uuid.New(),
		Title:     title,
		Tags:      req.Tags,
		Settings:  req.Settings,
		CreatedAt: time.Now(),
	}

	if err := uow.ChatRepository().Create(ctx, &chat); err != nil {
		return nil, err
	}

	return &dto.CreateChatResponse{Id: chat.Id}, nil
}

func (c *chatService) GetAll(ctx context.Context, req *dto.ListChatsRequest) ([]*dto.ChatResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	specs := []specification.Specification{
		specification.OrderBy{Field: "pinned", Desc: true},
		specification.OrderBy{Field: "created_at", Desc: true},
	}
	if !req.IncludeArchived {
		specs = append(specs, specification.NotArchived{})
	}
	if req.Query != "" {
		specs = append(specs, specification.TitleSearch{Query: req.Query})
	}
	if req.Tag != "" {
		specs = append(specs, specification.HasTag{Tag: req.Tag})
	}
	if req.Pinned != nil {
		specs = append(specs, specification.ByPinned{Pinned: *req.Pinned})
	}

	chats, err := uow.ChatRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(chats))
	for i, ch := range chats {
		ids[i] = ch.Id
	}
	counts, err := uow.ChatRepository().MessageCounts(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.ChatResponse, len(chats))
	for i, ch := range chats {
		ch.MessageCount = counts[ch.Id]
		result[i] = chatToResponse(ch)
	}
	return result, nil
}

func (c *chatService) Show(ctx context.Context, id uuid.UUID) (*dto.ChatDetailResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	chat, err := uow.ChatRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if chat == nil {
		return nil, fmt.Errorf("chat %s: %w", id, constant.ErrNotFound)
	}

	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatID{ChatID: id},
		specification.OrderBy{Field: "id", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	chat.MessageCount = int64(len(messages))
	res := dto.ChatDetailResponse{
		ChatResponse: *chatToResponse(chat),
		Messages:     make([]dto.ChatMessageResponse, len(messages)),
	}
	for i, m := range messages {
		res.Messages[i] = *messageToResponse(m)
	}
	return &res, nil
}

func (c *chatService) Delete(ctx context.Context, id uuid.UUID) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	chat, err := uow.ChatRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if chat == nil {
		return fmt.Errorf("chat %s: %w", id, constant.ErrNotFound)
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.ChatMessageRepository().DeleteByChatID(ctx, id); err != nil {
		return err
	}
	if err := uow.ChatRepository().Delete(ctx, id); err != nil {
		return err
	}

	return uow.Commit()
}

func (c *chatService) Patch(ctx context.Context, req *dto.PatchChatRequest) (*dto.ChatResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	chat, err := uow.ChatRepository().FindOne(ctx, specification.ByID{ID: req.Id})
	if err != nil {
		return nil, err
	}
	if chat == nil {
		return nil, fmt.Errorf("chat %s: %w", req.Id, constant.ErrNotFound)
	}

	if req.Title != nil {
		chat.Title = *req.Title
	}
	if req.Tags != nil {
		chat.Tags = *req.Tags
	}
	if req.Pinned != nil {
		chat.Pinned = *req.Pinned
	}
	if req.Archived != nil {
		chat.Archived = *req.Archived
	}
	if req.Settings != nil {
		chat.Settings = *req.Settings
	}

	if err := uow.ChatRepository().Update(ctx, chat); err != nil {
		return nil, err
	}

	return chatToResponse(chat), nil
}

func (c *chatService) Append(ctx context.Context, req *dto.AppendMessageRequest) (*dto.AppendMessageResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	chat, err := uow.ChatRepository().FindOne(ctx, specification.ByID{ID: req.ChatId})
	if err != nil {
		return nil, err
	}
	if chat == nil {
		return nil, fmt.Errorf("chat %s: %w", req.ChatId, constant.ErrNotFound)
	}

	msg := entity.ChatMessage{
		ChatId:    req.ChatId,
		Role:      req.Role,
		Content:   req.Content,
		Meta:      req.Meta,
		CreatedAt: time.Now(),
	}
	if err := uow.ChatMessageRepository().Create(ctx, &msg); err != nil {
		return nil, err
	}

	return &dto.AppendMessageResponse{Id: msg.Id}, nil
}

func (c *chatService) Clear(ctx context.Context, id uuid.UUID) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	chat, err := uow.ChatRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if chat == nil {
		return fmt.Errorf("chat %s: %w", id, constant.ErrNotFound)
	}

	return uow.ChatMessageRepository().DeleteByChatID(ctx, id)
}

// Fork copies a chat and its messages up to an optional message id into a
// fresh chat titled "<original> (fork)".
func (c *chatService) Fork(ctx context.Context, req *dto.ForkChatRequest) (*dto.ForkChatResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	chat, err := uow.ChatRepository().FindOne(ctx, specification.ByID{ID: req.ChatId})
	if err != nil {
		return nil, err
	}
	if chat == nil {
		return nil, fmt.Errorf("chat %s: %w", req.ChatId, constant.ErrNotFound)
	}

	msgSpecs := []specification.Specification{
		specification.ByChatID{ChatID: req.ChatId},
		specification.OrderBy{Field: "id", Desc: false},
	}
	if req.UpToMessageId != nil {
		msgSpecs = append(msgSpecs, specification.UpToMessageID{MessageID: *req.UpToMessageId})
	}
	messages, err := uow.ChatMessageRepository().FindAll(ctx, msgSpecs...)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = chat.Title + " (fork)"
	}

	fork := entity.Chat{
		Id:        uuid.New(),
		Title:     title,
		Tags:      chat.Tags,
		Settings:  chat.Settings,
		CreatedAt: time.Now(),
	}

	copies := make([]*entity.ChatMessage, len(messages))
	for i, m := range messages {
		copies[i] = &entity.ChatMessage{
			ChatId:    fork.Id,
			Role:      m.Role,
			Content:   m.Content,
			Meta:      m.Meta,
			CreatedAt: time.Now(),
		}
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.ChatRepository().Create(ctx, &fork); err != nil {
		return nil, err
	}
	if err := uow.ChatMessageRepository().CreateBulk(ctx, copies); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	return &dto.ForkChatResponse{Id: fork.Id, Messages: len(copies)}, nil
}

// Export returns the chat as a structured payload plus, for the markdown
// format, a rendered string with role prefixes.
func (c *chatService) Export(ctx context.Context, id uuid.UUID, format string) (*dto.ChatExportResponse, string, error) {
	detail, err := c.Show(ctx, id)
	if err != nil {
		return nil, "", err
	}

	export := dto.ChatExportResponse{
		Chat:     detail.ChatResponse,
		Messages: detail.Messages,
	}

	if format != "markdown" {
		return &export, "", nil
	}

	lines := make([]string, 0, len(detail.Messages))
	for _, m := range detail.Messages {
		var prefix string
		switch m.Role {
		case "user":
			prefix = "**User:** "
		case "assistant":
			prefix = "**Assistant:** "
		default:
			prefix = "**System:** "
		}
		lines = append(lines, prefix+m.Content)
	}
	return &export, strings.Join(lines, "\n\n"), nil
}

// Summarize asks the LLM for a chat summary and stores it on the chat. A
// provider failure keeps the previous summary and reports Generated=false.
func (c *chatService) Summarize(ctx context.Context, id uuid.UUID) (*dto.SummarizeChatResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	chat, err := uow.ChatRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if chat == nil {
		return nil, fmt.Errorf("chat %s: %w", id, constant.ErrNotFound)
	}

	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatID{ChatID: id},
		specification.OrderBy{Field: "id", Desc: false},
	)
	if err != nil {
		return nil, err
	}
	if len(messages) > maxSummaryMessages {
		messages = messages[len(messages)-maxSummaryMessages:]
	}

	existing := ""
	if chat.Summary != nil {
		existing = *chat.Summary
	}
	if len(messages) == 0 {
		return &dto.SummarizeChatResponse{Summary: existing, Generated: false}, nil
	}

	var body strings.Builder
	for _, m := range messages {
		body.WriteString(m.Role)
		body.WriteString(": ")
		body.WriteString(m.Content)
		body.WriteString("\n")
	}

	opts := []llm.Option{llm.WithModel(c.modelFor(chat))}
	if temp, ok := chat.Settings["temperature"].(float64); ok {
		opts = append(opts, llm.WithTemperature(temp))
	}

	summary, err := c.llmProvider.Generate(ctx, summaryInstructions+body.String(), opts...)
	if err != nil {
		log.Printf("[WARN] Chat summary generation failed for %s: %v", id, err)
		return &dto.SummarizeChatResponse{Summary: existing, Generated: false}, nil
	}
	summary = strings.TrimSpace(summary)
	if summary == "" {
		return &dto.SummarizeChatResponse{Summary: existing, Generated: false}, nil
	}

	chat.Summary = &summary
	if err := uow.ChatRepository().Update(ctx, chat); err != nil {
		return nil, err
	}

	return &dto.SummarizeChatResponse{Summary: summary, Generated: true}, nil
}

func (c *chatService) modelFor(chat *entity.Chat) string {
	if m, ok := chat.Settings["model"].(string); ok && m != "" {
		return m
	}
	return c.chatModel
}

func chatToResponse(ch *entity.Chat) *dto.ChatResponse {
	return &dto.ChatResponse{
		Id:           ch.Id,
		Title:        ch.Title,
		Pinned:       ch.Pinned,
		Archived:     ch.Archived,
		Tags:         ch.Tags,
		Settings:     ch.Settings,
		Summary:      ch.Summary,
		CreatedAt:    ch.CreatedAt,
		UpdatedAt:    ch.UpdatedAt,
		MessageCount: ch.MessageCount,
	}
}

func messageToResponse(m *entity.ChatMessage) *dto.ChatMessageResponse {
	return &dto.ChatMessageResponse{
		Id:        m.Id,
		Role:      m.Role,
		Content:   m.Content,
		Meta:      m.Meta,
		CreatedAt: m.CreatedAt,
	}
}
