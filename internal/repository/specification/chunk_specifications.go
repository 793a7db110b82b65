package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByItemID filters chunks by their owning item.
type ByItemID struct {
	ItemID uuid.UUID
}

func (s ByItemID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("item_id = ?", s.ItemID)
}

// ReplayOrder returns chunks in the stable order used to repopulate the
// vector index: insertion time first, made fully deterministic by the
// unique (item_id, ordinal) pair.
type ReplayOrder struct{}

func (s ReplayOrder) Apply(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC").Order("item_id ASC").Order("ordinal ASC")
}
