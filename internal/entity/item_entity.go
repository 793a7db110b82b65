package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	SourceKindNote = "note"
	SourceKindUrl  = "url"
)

// Item is a unit of ingested content. Immutable after creation except
// deletion; deleting it cascades to its chunks.
type Item struct {
	Id         uuid.UUID
	Content    string
	SourceKind string
	Url        *string
	CreatedAt  time.Time
}
