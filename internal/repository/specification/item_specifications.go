package specification

import (
	"gorm.io/gorm"
)

// BySourceKind filters items by their source kind ("note" or "url").
type BySourceKind struct {
	Kind string
}

func (s BySourceKind) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("source_kind = ?", s.Kind)
}
