package dto

import (
	"time"

	"github.com/google/uuid"
)

type IngestItemRequest struct {
	Content    string `json:"content" validate:"required"`
	SourceKind string `json:"source_kind" validate:"required,oneof=note url"`
}

type IngestItemResponse struct {
	Id         uuid.UUID `json:"id"`
	ChunkCount int       `json:"chunk_count"`
}

type GetAllItemsResponse struct {
	Id         uuid.UUID `json:"id"`
	Content    string    `json:"content"`
	SourceKind string    `json:"source_kind"`
	Url        *string   `json:"url,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type ShowItemResponse struct {
	Id         uuid.UUID `json:"id"`
	Content    string    `json:"content"`
	SourceKind string    `json:"source_kind"`
	Url        *string   `json:"url,omitempty"`
	ChunkCount int64     `json:"chunk_count"`
	CreatedAt  time.Time `json:"created_at"`
}

type DeleteItemResponse struct {
	Id uuid.UUID `json:"id"`
}
