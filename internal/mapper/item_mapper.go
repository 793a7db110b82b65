package mapper

import (
	"ai-knowledge-base-be/internal/entity"
	"ai-knowledge-base-be/internal/model"
)

type ItemMapper struct{}

func NewItemMapper() *ItemMapper {
	return &ItemMapper{}
}

func (m *ItemMapper) ToEntity(item *model.Item) *entity.Item {
	if item == nil {
		return nil
	}

	return &entity.Item{
		Id:         item.Id,
		Content:    item.Content,
		SourceKind: item.SourceKind,
		Url:        item.Url,
		CreatedAt:  item.CreatedAt,
	}
}

func (m *ItemMapper) ToModel(item *entity.Item) *model.Item {
	if item == nil {
		return nil
	}

	return &model.Item{
		Id:         item.Id,
		Content:    item.Content,
		SourceKind: item.SourceKind,
		Url:        item.Url,
		CreatedAt:  item.CreatedAt,
	}
}

func (m *ItemMapper) ToEntities(items []*model.Item) []*entity.Item {
	entities := make([]*entity.Item, len(items))
	for i, item := range items {
		entities[i] = m.ToEntity(item)
	}
	return entities
}

func (m *ItemMapper) ToModels(items []*entity.Item) []*model.Item {
	models := make([]*model.Item, len(items))
	for i, item := range items {
		models[i] = m.ToModel(item)
	}
	return models
}
