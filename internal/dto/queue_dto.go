package dto

import (
	"github.com/google/uuid"
)

// PublishReindexMessage asks the background consumer to rebuild the vector
// index from the chunk table.
type PublishReindexMessage struct {
	Reason string     `json:"reason"`
	ItemId *uuid.UUID `json:"item_id,omitempty"`
}
