package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"ai-knowledge-base-be/internal/dto"
	"ai-knowledge-base-be/internal/entity"
	"ai-knowledge-base-be/internal/pkg/apperror"
	"ai-knowledge-base-be/internal/pkg/logger"
	"ai-knowledge-base-be/internal/repository/specification"
	"ai-knowledge-base-be/internal/repository/unitofwork"
	"ai-knowledge-base-be/pkg/events"
	pktNats "ai-knowledge-base-be/pkg/nats"
	"ai-knowledge-base-be/pkg/utils"
	"ai-knowledge-base-be/pkg/vectorindex"
	"ai-knowledge-base-be/pkg/webpage"

	"github.com/google/uuid"
)

const maxNoteContentChars = 50000

type IItemService interface {
	Ingest(ctx context.Context, req *dto.IngestItemRequest) (*dto.IngestItemResponse, error)
	GetAll(ctx context.Context, sourceKind string) ([]*dto.GetAllItemsResponse, error)
	Show(ctx context.Context, id uuid.UUID) (*dto.ShowItemResponse, error)
	Delete(ctx context.Context, id uuid.UUID) (*dto.DeleteItemResponse, error)
}

type itemService struct {
	uowFactory       unitofwork.RepositoryFactory
	index            *vectorindex.Index
	extractor        *webpage.Extractor
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
	logger           logger.ILogger
	chunkSize        int
	chunkOverlap     int
}

func NewItemService(
	uowFactory unitofwork.RepositoryFactory,
	index *vectorindex.Index,
	extractor *webpage.Extractor,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
	sysLogger logger.ILogger,
	chunkSize int,
	chunkOverlap int,
) IItemService {
	return &itemService{
		uowFactory:       uowFactory,
		index:            index,
		extractor:        extractor,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		logger:           sysLogger,
		chunkSize:        chunkSize,
		chunkOverlap:     chunkOverlap,
	}
}

func (c *itemService) Ingest(ctx context.Context, req *dto.IngestItemRequest) (*dto.IngestItemResponse, error) {
	content, url, err := c.resolveContent(ctx, req)
	if err != nil {
		return nil, err
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)
	item := entity.Item{
		Id:         uuid.New(),
		Content:    content,
		SourceKind: req.SourceKind,
		Url:        url,
		CreatedAt:  time.Now(),
	}

	if err := uow.ItemRepository().Create(ctx, &item); err != nil {
		return nil, apperror.NewStore("failed to store item", err)
	}

	chunks := utils.SplitText(content, c.chunkSize, c.chunkOverlap)
	c.logger.Info("INGESTION", "Content split into chunks", map[string]interface{}{
		"item_id": item.Id,
		"chunks":  len(chunks),
	})

	for i, text := range chunks {
		chunk := entity.Chunk{
			Id:        uuid.New(),
			ItemId:    item.Id,
			Text:      text,
			Ordinal:   i,
			CreatedAt: time.Now(),
		}
		if err := uow.ChunkRepository().Create(ctx, &chunk); err != nil {
			return nil, apperror.NewStore("failed to store chunk", err)
		}

		ref := vectorindex.ChunkRef{ChunkId: chunk.Id, ItemId: item.Id, Ordinal: i}
		if err := c.index.Add(text, ref); err != nil {
			// Earlier chunks stay persisted and indexed; the next rebuild
			// reconciles index and store.
			c.logger.Error("INGESTION", "Failed to index chunk", map[string]interface{}{
				"item_id": item.Id,
				"ordinal": i,
				"error":   err.Error(),
			})
			return nil, apperror.NewService("failed to index chunk", err)
		}
	}

	c.publishEvent(ctx, events.TypeItemIngested, map[string]interface{}{
		"item_id":     item.Id,
		"source_kind": item.SourceKind,
		"chunks":      len(chunks),
	})

	return &dto.IngestItemResponse{
		Id:         item.Id,
		ChunkCount: len(chunks),
	}, nil
}

// resolveContent validates the request and returns the text to ingest plus
// the source URL when the content was fetched from one.
func (c *itemService) resolveContent(ctx context.Context, req *dto.IngestItemRequest) (string, *string, error) {
	switch req.SourceKind {
	case entity.SourceKindNote:
		if strings.TrimSpace(req.Content) == "" {
			return "", nil, apperror.NewValidation("note content cannot be empty")
		}
		if utf8.RuneCountInString(req.Content) > maxNoteContentChars {
			return "", nil, apperror.NewValidation("note content too long (max 50,000 characters)")
		}
		return req.Content, nil, nil

	case entity.SourceKindUrl:
		if !strings.HasPrefix(req.Content, "http://") && !strings.HasPrefix(req.Content, "https://") {
			return "", nil, apperror.NewValidation("url must start with http:// or https://")
		}
		extracted, err := c.extractor.Extract(ctx, req.Content)
		if err != nil {
			return "", nil, apperror.NewService("failed to extract URL content", err)
		}
		url := req.Content
		return extracted, &url, nil

	default:
		return "", nil, apperror.NewValidation("source_kind must be 'note' or 'url'")
	}
}

func (c *itemService) GetAll(ctx context.Context, sourceKind string) ([]*dto.GetAllItemsResponse, error) {
	if sourceKind != "" && sourceKind != entity.SourceKindNote && sourceKind != entity.SourceKindUrl {
		return nil, apperror.NewValidation("source_kind must be 'note' or 'url'")
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)

	specs := []specification.Specification{
		specification.OrderBy{Field: "created_at", Desc: true},
	}
	if sourceKind != "" {
		specs = append(specs, specification.BySourceKind{Kind: sourceKind})
	}

	items, err := uow.ItemRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, apperror.NewStore("failed to list items", err)
	}

	response := make([]*dto.GetAllItemsResponse, 0, len(items))
	for _, item := range items {
		response = append(response, &dto.GetAllItemsResponse{
			Id:         item.Id,
			Content:    item.Content,
			SourceKind: item.SourceKind,
			Url:        item.Url,
			CreatedAt:  item.CreatedAt,
		})
	}
	return response, nil
}

func (c *itemService) Show(ctx context.Context, id uuid.UUID) (*dto.ShowItemResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	item, err := uow.ItemRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, apperror.NewStore("failed to load item", err)
	}
	if item == nil {
		return nil, apperror.NewNotFound(fmt.Sprintf("item %s not found", id))
	}

	chunkCount, err := uow.ChunkRepository().Count(ctx, specification.ByItemID{ItemID: id})
	if err != nil {
		return nil, apperror.NewStore("failed to count chunks", err)
	}

	return &dto.ShowItemResponse{
		Id:         item.Id,
		Content:    item.Content,
		SourceKind: item.SourceKind,
		Url:        item.Url,
		ChunkCount: chunkCount,
		CreatedAt:  item.CreatedAt,
	}, nil
}

func (c *itemService) Delete(ctx context.Context, id uuid.UUID) (*dto.DeleteItemResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	item, err := uow.ItemRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, apperror.NewStore("failed to load item", err)
	}
	if item == nil {
		return nil, apperror.NewNotFound(fmt.Sprintf("item %s not found", id))
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, apperror.NewStore("failed to begin transaction", err)
	}
	defer uow.Rollback()

	if err := uow.ChunkRepository().DeleteByItemId(ctx, id); err != nil {
		return nil, apperror.NewStore("failed to delete chunks", err)
	}
	if err := uow.ItemRepository().Delete(ctx, id); err != nil {
		return nil, apperror.NewStore("failed to delete item", err)
	}
	if err := uow.Commit(); err != nil {
		return nil, apperror.NewStore("failed to commit delete", err)
	}

	// Queue a rebuild so the deleted item's vectors drop out of the index.
	// Searches in the gap are covered by the missing-item filter.
	payload := dto.PublishReindexMessage{Reason: "item_deleted", ItemId: &id}
	payloadJson, _ := json.Marshal(payload)
	if err := c.publisherService.Publish(ctx, payloadJson); err != nil {
		c.logger.Warn("ITEMS", "Failed to queue reindex after delete", map[string]interface{}{
			"item_id": id,
			"error":   err.Error(),
		})
	}

	c.publishEvent(ctx, events.TypeItemDeleted, map[string]interface{}{
		"item_id":     id,
		"source_kind": item.SourceKind,
	})

	return &dto.DeleteItemResponse{Id: id}, nil
}

func (c *itemService) publishEvent(ctx context.Context, eventType string, data map[string]interface{}) {
	if c.eventPublisher == nil {
		return
	}
	evt := events.BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now(),
	}
	if err := c.eventPublisher.Publish(ctx, evt); err != nil {
		c.logger.Warn("ITEMS", "Failed to publish event", map[string]interface{}{
			"type":  eventType,
			"error": err.Error(),
		})
	}
}
