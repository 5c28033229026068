package contract

import (
	"context"

	"cognihub-be/internal/entity"
	"cognihub-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ChatRepository interface {
	Create(ctx context.Context, chat *entity.Chat) error
	Update(ctx context.Context, chat *entity.Chat) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Chat, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Chat, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// MessageCounts returns the number of messages per chat id.
	MessageCounts(ctx context.Context, chatIDs []uuid.UUID) (map[uuid.UUID]int64, error)
}
