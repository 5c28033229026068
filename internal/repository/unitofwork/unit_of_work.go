package unitofwork

import (
	"context"

	"cognihub-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	DocumentRepository() contract.DocumentRepository
	ChunkRepository() contract.ChunkRepository
	WebPageRepository() contract.WebPageRepository
	WebChunkRepository() contract.WebChunkRepository
	ChatRepository() contract.ChatRepository
	ChatMessageRepository() contract.ChatMessageRepository
	ResearchRepository() contract.ResearchRepository
}
