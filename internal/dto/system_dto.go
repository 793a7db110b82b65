package dto

type HealthResponse struct {
	Status          string `json:"status"` // "healthy" | "degraded"
	ItemsCount      int64  `json:"items_count"`
	VectorStoreSize int    `json:"vector_store_size"`
}

type ReindexResponse struct {
	ChunksIndexed int `json:"chunks_indexed"`
}
