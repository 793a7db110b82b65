package contract

import (
	"context"

	"ai-knowledge-base-be/internal/entity"
	"ai-knowledge-base-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ChunkRepository interface {
	Create(ctx context.Context, chunk *entity.Chunk) error
	DeleteByItemId(ctx context.Context, itemId uuid.UUID) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Chunk, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
