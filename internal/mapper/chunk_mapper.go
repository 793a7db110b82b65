package mapper

import (
	"ai-knowledge-base-be/internal/entity"
	"ai-knowledge-base-be/internal/model"
)

type ChunkMapper struct{}

func NewChunkMapper() *ChunkMapper {
	return &ChunkMapper{}
}

func (m *ChunkMapper) ToEntity(chunk *model.Chunk) *entity.Chunk {
	if chunk == nil {
		return nil
	}

	return &entity.Chunk{
		Id:        chunk.Id,
		ItemId:    chunk.ItemId,
		Text:      chunk.Text,
		Ordinal:   chunk.Ordinal,
		CreatedAt: chunk.CreatedAt,
	}
}

func (m *ChunkMapper) ToModel(chunk *entity.Chunk) *model.Chunk {
	if chunk == nil {
		return nil
	}

	return &model.Chunk{
		Id:        chunk.Id,
		ItemId:    chunk.ItemId,
		Text:      chunk.Text,
		Ordinal:   chunk.Ordinal,
		CreatedAt: chunk.CreatedAt,
	}
}

func (m *ChunkMapper) ToEntities(chunks []*model.Chunk) []*entity.Chunk {
	entities := make([]*entity.Chunk, len(chunks))
	for i, chunk := range chunks {
		entities[i] = m.ToEntity(chunk)
	}
	return entities
}

func (m *ChunkMapper) ToModels(chunks []*entity.Chunk) []*model.Chunk {
	models := make([]*model.Chunk, len(chunks))
	for i, chunk := range chunks {
		models[i] = m.ToModel(chunk)
	}
	return models
}
