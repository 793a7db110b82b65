package model

import (
	"time"

	"github.com/google/uuid"
)

type Item struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Content    string    `gorm:"type:text;not null"`
	SourceKind string    `gorm:"type:varchar(16);not null;index"`
	Url        *string   `gorm:"type:text"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

func (Item) TableName() string {
	return "items"
}
