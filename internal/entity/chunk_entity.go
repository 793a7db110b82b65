package entity

import (
	"time"

	"github.com/google/uuid"
)

// Chunk is one word-window of an item's text. Ordinal is the 0-based
// position of the window within the item.
type Chunk struct {
	Id        uuid.UUID
	ItemId    uuid.UUID
	Text      string
	Ordinal   int
	CreatedAt time.Time
}
