package dto

import (
	"github.com/google/uuid"
)

type QueryRequest struct {
	Question   string `json:"question" validate:"required"`
	MaxResults int    `json:"max_results" validate:"omitempty,min=1,max=10"` // defaults to 5 when omitted
}

// QuerySourceDTO is one cited source. Content is a snippet, not the full
// item text.
type QuerySourceDTO struct {
	ItemId         uuid.UUID `json:"item_id"`
	Content        string    `json:"content"`
	SourceKind     string    `json:"source_kind"`
	Url            *string   `json:"url,omitempty"`
	RelevanceScore float64   `json:"relevance_score"`
}

type QueryResponse struct {
	Question string           `json:"question"`
	Answer   string           `json:"answer"`
	Sources  []QuerySourceDTO `json:"sources"`
}
