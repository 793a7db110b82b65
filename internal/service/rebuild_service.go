package service

import (
	"context"
	"sync/atomic"
	"time"

	"ai-knowledge-base-be/internal/pkg/apperror"
	"ai-knowledge-base-be/internal/pkg/logger"
	"ai-knowledge-base-be/internal/repository/specification"
	"ai-knowledge-base-be/internal/repository/unitofwork"
	"ai-knowledge-base-be/pkg/events"
	pktNats "ai-knowledge-base-be/pkg/nats"
	"ai-knowledge-base-be/pkg/vectorindex"
)

type IRebuildService interface {
	// Rebuild replays every stored chunk into the vector index and returns
	// the number of chunks indexed.
	Rebuild(ctx context.Context) (int, error)

	// Degraded reports whether the last rebuild failed, leaving the index
	// behind the store.
	Degraded() bool
}

type rebuildService struct {
	uowFactory     unitofwork.RepositoryFactory
	index          *vectorindex.Index
	eventPublisher *pktNats.Publisher
	logger         logger.ILogger
	degraded       atomic.Bool
}

func NewRebuildService(
	uowFactory unitofwork.RepositoryFactory,
	index *vectorindex.Index,
	eventPublisher *pktNats.Publisher,
	sysLogger logger.ILogger,
) IRebuildService {
	return &rebuildService{
		uowFactory:     uowFactory,
		index:          index,
		eventPublisher: eventPublisher,
		logger:         sysLogger,
	}
}

func (c *rebuildService) Rebuild(ctx context.Context) (int, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	chunks, err := uow.ChunkRepository().FindAll(ctx, specification.ReplayOrder{})
	if err != nil {
		c.degraded.Store(true)
		return 0, apperror.NewStore("failed to load chunks for rebuild", err)
	}

	records := make([]vectorindex.Record, 0, len(chunks))
	for _, chunk := range chunks {
		records = append(records, vectorindex.Record{
			Text: chunk.Text,
			Ref: vectorindex.ChunkRef{
				ChunkId: chunk.Id,
				ItemId:  chunk.ItemId,
				Ordinal: chunk.Ordinal,
			},
		})
	}

	if err := c.index.Rebuild(records); err != nil {
		c.degraded.Store(true)
		c.logger.Error("REINDEX", "Vector index rebuild failed", map[string]interface{}{
			"chunks":  len(records),
			"indexed": c.index.Size(),
			"error":   err.Error(),
		})
		return c.index.Size(), apperror.NewService("vector index rebuild failed", err)
	}

	c.degraded.Store(false)
	c.logger.Info("REINDEX", "Vector index rebuilt", map[string]interface{}{
		"chunks": len(records),
	})

	if c.eventPublisher != nil {
		evt := events.BaseEvent{
			Type:       events.TypeIndexRebuilt,
			Data:       map[string]interface{}{"chunks": len(records)},
			OccurredAt: time.Now(),
		}
		if err := c.eventPublisher.Publish(ctx, evt); err != nil {
			c.logger.Warn("REINDEX", "Failed to publish rebuild event", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	return len(records), nil
}

func (c *rebuildService) Degraded() bool {
	return c.degraded.Load()
}
