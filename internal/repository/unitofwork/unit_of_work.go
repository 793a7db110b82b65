package unitofwork

import (
	"context"

	"ai-knowledge-base-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ItemRepository() contract.ItemRepository
	ChunkRepository() contract.ChunkRepository
}
