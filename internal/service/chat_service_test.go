package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"cognihub-be/internal/constant"
	"cognihub-be/internal/dto"
	"cognihub-be/internal/repository/unitofwork"
	"cognihub-be/pkg/llm"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubLLM returns a canned reply and records the prompt and options it saw.
type stubLLM struct {
	reply      string
	err        error
	lastPrompt string
	lastOpts   llm.Options
	calls      int
}

func (s *stubLLM) record(prompt string, options []llm.Option) {
	s.calls++
	s.lastPrompt = prompt
	s.lastOpts = llm.Options{}
	for _, opt := range options {
		opt(&s.lastOpts)
	}
}

func (s *stubLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	prompt := ""
	if len(history) > 0 {
		prompt = history[len(history)-1].Content
	}
	s.record(prompt, options)
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func (s *stubLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	s.record(prompt, options)
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func newChatStack(t *testing.T) (IChatService, *stubLLM, unitofwork.RepositoryFactory) {
	t.Helper()
	_, uowFactory := newServiceDB(t)
	llmStub := &stubLLM{reply: "- summary"}
	return NewChatService(uowFactory, llmStub, "llama3.1"), llmStub, uowFactory
}

func appendMsg(t *testing.T, svc IChatService, chatID uuid.UUID, role, content string) int64 {
	t.Helper()
	res, err := svc.Append(context.Background(), &dto.AppendMessageRequest{
		ChatId: chatID, Role: role, Content: content,
	})
	require.NoError(t, err)
	return res.Id
}

func TestChatCreateDefaultsTitle(t *testing.T) {
	svc, _, _ := newChatStack(t)
	ctx := context.Background()

	res, err := svc.Create(ctx, &dto.CreateChatRequest{Title: "   "})
	require.NoError(t, err)

	detail, err := svc.Show(ctx, res.Id)
	require.NoError(t, err)
	assert.Equal(t, "New chat", detail.Title)
}

func TestChatShowMissing(t *testing.T) {
	svc, _, _ := newChatStack(t)

	_, err := svc.Show(context.Background(), uuid.New())
	assert.ErrorIs(t, err, constant.ErrNotFound)
}

func TestChatListFilters(t *testing.T) {
	svc, _, _ := newChatStack(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, &dto.CreateChatRequest{Title: "Go questions", Tags: []string{"go"}})
	require.NoError(t, err)
	b, err := svc.Create(ctx, &dto.CreateChatRequest{Title: "Cooking", Tags: []string{"food"}})
	require.NoError(t, err)

	pinned := true
	_, err = svc.Patch(ctx, &dto.PatchChatRequest{Id: b.Id, Pinned: &pinned})
	require.NoError(t, err)

	archived := true
	c, err := svc.Create(ctx, &dto.CreateChatRequest{Title: "Old stuff"})
	require.NoError(t, err)
	_, err = svc.Patch(ctx, &dto.PatchChatRequest{Id: c.Id, Archived: &archived})
	require.NoError(t, err)

	// Archived chats are hidden by default; pinned chats sort first.
	chats, err := svc.GetAll(ctx, &dto.ListChatsRequest{})
	require.NoError(t, err)
	require.Len(t, chats, 2)
	assert.Equal(t, b.Id, chats[0].Id)

	chats, err = svc.GetAll(ctx, &dto.ListChatsRequest{IncludeArchived: true})
	require.NoError(t, err)
	assert.Len(t, chats, 3)

	chats, err = svc.GetAll(ctx, &dto.ListChatsRequest{Tag: "go"})
	require.NoError(t, err)
	require.Len(t, chats, 1)
	assert.Equal(t, a.Id, chats[0].Id)

	chats, err = svc.GetAll(ctx, &dto.ListChatsRequest{Query: "cook"})
	require.NoError(t, err)
	require.Len(t, chats, 1)
	assert.Equal(t, b.Id, chats[0].Id)
}

func TestChatAppendAndMessageCount(t *testing.T) {
	svc, _, _ := newChatStack(t)
	ctx := context.Background()

	res, err := svc.Create(ctx, &dto.CreateChatRequest{Title: "counted"})
	require.NoError(t, err)
	appendMsg(t, svc, res.Id, "user", "hello")
	appendMsg(t, svc, res.Id, "assistant", "hi")

	chats, err := svc.GetAll(ctx, &dto.ListChatsRequest{})
	require.NoError(t, err)
	require.Len(t, chats, 1)
	assert.Equal(t, int64(2), chats[0].MessageCount)

	detail, err := svc.Show(ctx, res.Id)
	require.NoError(t, err)
	require.Len(t, detail.Messages, 2)
	assert.Equal(t, "hello", detail.Messages[0].Content)
}

func TestChatAppendToMissingChat(t *testing.T) {
	svc, _, _ := newChatStack(t)

	_, err := svc.Append(context.Background(), &dto.AppendMessageRequest{
		ChatId: uuid.New(), Role: "user", Content: "lost",
	})
	assert.ErrorIs(t, err, constant.ErrNotFound)
}

func TestChatClearKeepsChat(t *testing.T) {
	svc, _, _ := newChatStack(t)
	ctx := context.Background()

	res, err := svc.Create(ctx, &dto.CreateChatRequest{Title: "cleared"})
	require.NoError(t, err)
	appendMsg(t, svc, res.Id, "user", "bye")

	require.NoError(t, svc.Clear(ctx, res.Id))

	detail, err := svc.Show(ctx, res.Id)
	require.NoError(t, err)
	assert.Empty(t, detail.Messages)
	assert.Equal(t, "cleared", detail.Title)
}

func TestChatFork(t *testing.T) {
	svc, _, _ := newChatStack(t)
	ctx := context.Background()

	res, err := svc.Create(ctx, &dto.CreateChatRequest{
		Title:    "origin",
		Tags:     []string{"work"},
		Settings: map[string]interface{}{"model": "mistral"},
	})
	require.NoError(t, err)
	firstID := appendMsg(t, svc, res.Id, "user", "one")
	appendMsg(t, svc, res.Id, "assistant", "two")
	appendMsg(t, svc, res.Id, "user", "three")

	fork, err := svc.Fork(ctx, &dto.ForkChatRequest{ChatId: res.Id})
	require.NoError(t, err)
	assert.Equal(t, 3, fork.Messages)

	detail, err := svc.Show(ctx, fork.Id)
	require.NoError(t, err)
	assert.Equal(t, "origin (fork)", detail.Title)
	assert.Equal(t, []string{"work"}, detail.Tags)
	assert.Equal(t, "mistral", detail.Settings["model"])
	require.Len(t, detail.Messages, 3)
	assert.Equal(t, "one", detail.Messages[0].Content)

	// Original stays untouched.
	original, err := svc.Show(ctx, res.Id)
	require.NoError(t, err)
	assert.Len(t, original.Messages, 3)

	// A bounded fork copies only messages up to the given id.
	bounded, err := svc.Fork(ctx, &dto.ForkChatRequest{
		ChatId: res.Id, UpToMessageId: &firstID, Title: "partial",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, bounded.Messages)

	detail, err = svc.Show(ctx, bounded.Id)
	require.NoError(t, err)
	assert.Equal(t, "partial", detail.Title)
	require.Len(t, detail.Messages, 1)
	assert.Equal(t, "one", detail.Messages[0].Content)
}

func TestChatExportMarkdown(t *testing.T) {
	svc, _, _ := newChatStack(t)
	ctx := context.Background()

	res, err := svc.Create(ctx, &dto.CreateChatRequest{Title: "exported"})
	require.NoError(t, err)
	appendMsg(t, svc, res.Id, "user", "What is MMR?")
	appendMsg(t, svc, res.Id, "assistant", "A diversity heuristic.")
	appendMsg(t, svc, res.Id, "system", "note")

	export, markdown, err := svc.Export(ctx, res.Id, "markdown")
	require.NoError(t, err)
	require.Len(t, export.Messages, 3)

	want := "**User:** What is MMR?\n\n**Assistant:** A diversity heuristic.\n\n**System:** note"
	assert.Equal(t, want, markdown)

	// The JSON format carries no rendered string.
	_, markdown, err = svc.Export(ctx, res.Id, "json")
	require.NoError(t, err)
	assert.Empty(t, markdown)
}

func TestChatSummarize(t *testing.T) {
	svc, llmStub, _ := newChatStack(t)
	ctx := context.Background()

	res, err := svc.Create(ctx, &dto.CreateChatRequest{
		Title:    "summarized",
		Settings: map[string]interface{}{"model": "qwen2.5", "temperature": 0.3},
	})
	require.NoError(t, err)
	appendMsg(t, svc, res.Id, "user", "tell me about fungi")
	appendMsg(t, svc, res.Id, "assistant", "they are great")

	llmStub.reply = "  - fungi basics\n- next steps  "
	sum, err := svc.Summarize(ctx, res.Id)
	require.NoError(t, err)
	assert.True(t, sum.Generated)
	assert.Equal(t, "- fungi basics\n- next steps", sum.Summary)

	// Prompt carries the transcript; options come from the chat settings.
	assert.Contains(t, llmStub.lastPrompt, "user: tell me about fungi")
	assert.Contains(t, llmStub.lastPrompt, "assistant: they are great")
	assert.True(t, strings.HasPrefix(llmStub.lastPrompt, "Summarize this chat"))
	assert.Equal(t, "qwen2.5", llmStub.lastOpts.Model)
	assert.Equal(t, 0.3, llmStub.lastOpts.Temperature)

	// The summary is stored on the chat.
	detail, err := svc.Show(ctx, res.Id)
	require.NoError(t, err)
	require.NotNil(t, detail.Summary)
	assert.Equal(t, "- fungi basics\n- next steps", *detail.Summary)
}

func TestChatSummarizeSoftFails(t *testing.T) {
	svc, llmStub, _ := newChatStack(t)
	ctx := context.Background()

	res, err := svc.Create(ctx, &dto.CreateChatRequest{Title: "flaky"})
	require.NoError(t, err)
	appendMsg(t, svc, res.Id, "user", "hello")

	llmStub.reply = "first summary"
	sum, err := svc.Summarize(ctx, res.Id)
	require.NoError(t, err)
	require.True(t, sum.Generated)

	// A provider failure keeps the previous summary.
	llmStub.err = errors.New("ollama offline")
	sum, err = svc.Summarize(ctx, res.Id)
	require.NoError(t, err, "an unreachable model must not fail the request")
	assert.False(t, sum.Generated)
	assert.Equal(t, "first summary", sum.Summary)
}

func TestChatSummarizeEmptyChat(t *testing.T) {
	svc, llmStub, _ := newChatStack(t)
	ctx := context.Background()

	res, err := svc.Create(ctx, &dto.CreateChatRequest{Title: "empty"})
	require.NoError(t, err)

	sum, err := svc.Summarize(ctx, res.Id)
	require.NoError(t, err)
	assert.False(t, sum.Generated)
	assert.Empty(t, sum.Summary)
	assert.Zero(t, llmStub.calls, "nothing to summarize, nothing to ask")
}

func TestChatDeleteCascades(t *testing.T) {
	svc, _, uowFactory := newChatStack(t)
	ctx := context.Background()

	res, err := svc.Create(ctx, &dto.CreateChatRequest{Title: "doomed"})
	require.NoError(t, err)
	appendMsg(t, svc, res.Id, "user", "so long")

	require.NoError(t, svc.Delete(ctx, res.Id))

	_, err = svc.Show(ctx, res.Id)
	assert.ErrorIs(t, err, constant.ErrNotFound)

	uow := uowFactory.NewUnitOfWork(ctx)
	count, err := uow.ChatMessageRepository().Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count, "messages must not outlive their chat")
}
