package contract

import (
	"context"

	"ai-knowledge-base-be/internal/entity"
	"ai-knowledge-base-be/internal/repository/specification"

	"github.com/google/uuid"
)

// ItemRepository persists ingested items. Items are immutable after
// creation, so there is no update path.
type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Item, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Item, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
