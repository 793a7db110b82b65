package service

import (
	"context"

	"ai-knowledge-base-be/internal/dto"
	"ai-knowledge-base-be/internal/pkg/apperror"
	"ai-knowledge-base-be/internal/repository/unitofwork"
	"ai-knowledge-base-be/pkg/vectorindex"
)

type ISystemService interface {
	Health(ctx context.Context) (*dto.HealthResponse, error)
	Reindex(ctx context.Context) (*dto.ReindexResponse, error)
}

type systemService struct {
	uowFactory     unitofwork.RepositoryFactory
	index          *vectorindex.Index
	rebuildService IRebuildService
}

func NewSystemService(
	uowFactory unitofwork.RepositoryFactory,
	index *vectorindex.Index,
	rebuildService IRebuildService,
) ISystemService {
	return &systemService{
		uowFactory:     uowFactory,
		index:          index,
		rebuildService: rebuildService,
	}
}

func (c *systemService) Health(ctx context.Context) (*dto.HealthResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	itemsCount, err := uow.ItemRepository().Count(ctx)
	if err != nil {
		return nil, apperror.NewStore("failed to count items", err)
	}

	status := "healthy"
	if c.rebuildService.Degraded() {
		status = "degraded"
	}

	return &dto.HealthResponse{
		Status:          status,
		ItemsCount:      itemsCount,
		VectorStoreSize: c.index.Size(),
	}, nil
}

func (c *systemService) Reindex(ctx context.Context) (*dto.ReindexResponse, error) {
	indexed, err := c.rebuildService.Rebuild(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.ReindexResponse{ChunksIndexed: indexed}, nil
}
