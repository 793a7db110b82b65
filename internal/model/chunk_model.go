package model

import (
	"time"

	"github.com/google/uuid"
)

type Chunk struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ItemId    uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_chunks_item_ordinal"`
	Item      Item      `gorm:"foreignKey:ItemId;references:Id;constraint:OnDelete:CASCADE"`
	Text      string    `gorm:"type:text;not null"`
	Ordinal   int       `gorm:"not null;uniqueIndex:idx_chunks_item_ordinal"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Chunk) TableName() string {
	return "chunks"
}
