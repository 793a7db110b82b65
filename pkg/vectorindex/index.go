package vectorindex

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/google/uuid"

	"ai-knowledge-base-be/pkg/embedding"
)

// ChunkRef identifies an indexed chunk and its position within the owning
// item.
type ChunkRef struct {
	ChunkId uuid.UUID
	ItemId  uuid.UUID
	Ordinal int
}

// Record is what the index stores per chunk alongside its vector.
type Record struct {
	Text string
	Ref  ChunkRef
}

// SearchResult is a single scored hit.
type SearchResult struct {
	Record Record
	Score  float64
}

// Searcher is the read-side contract the retrieval path depends on, so the
// brute-force index can later be swapped for an approximate one.
type Searcher interface {
	Search(query string, k int) ([]SearchResult, error)
}

// Index holds embeddings and chunk records in two index-aligned slices and
// scans them brute force on search. Position i of both slices always refers
// to the same chunk; every mutation happens under mu so the slices cannot
// skew. The index is a cache over the relational store, rebuilt on startup.
type Index struct {
	mu        sync.RWMutex
	provider  embedding.EmbeddingProvider
	dimension int
	vectors   [][]float32
	records   []Record
}

var _ Searcher = &Index{}

func New(provider embedding.EmbeddingProvider, dimension int) *Index {
	return &Index{
		provider:  provider,
		dimension: dimension,
	}
}

// Add embeds text and appends vector and record together. The write lock is
// held across the embedding call so append order equals call order and a
// failed embedding appends nothing.
func (ix *Index) Add(text string, ref ChunkRef) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return ix.appendLocked(text, ref)
}

func (ix *Index) appendLocked(text string, ref ChunkRef) error {
	res, err := ix.provider.Generate(text, embedding.TaskTypeDocument)
	if err != nil {
		return fmt.Errorf("embed chunk: %w", err)
	}

	vec := res.Embedding.Values
	if len(vec) != ix.dimension {
		return fmt.Errorf("embedding has dimension %d, index expects %d", len(vec), ix.dimension)
	}

	ix.vectors = append(ix.vectors, vec)
	ix.records = append(ix.records, Record{Text: text, Ref: ref})
	return nil
}

// Search embeds the query and returns the k best-scoring records in
// descending score order; score ties keep insertion order. An empty index or
// k <= 0 yields an empty result without touching the provider.
func (ix *Index) Search(query string, k int) ([]SearchResult, error) {
	ix.mu.RLock()
	empty := len(ix.records) == 0
	ix.mu.RUnlock()
	if empty || k <= 0 {
		return nil, nil
	}

	res, err := ix.provider.Generate(query, embedding.TaskTypeQuery)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	queryVec := res.Embedding.Values

	ix.mu.RLock()
	scored := make([]SearchResult, len(ix.records))
	for i, vec := range ix.vectors {
		scored[i] = SearchResult{
			Record: ix.records[i],
			Score:  CosineSimilarity(queryVec, vec),
		}
	}
	ix.mu.RUnlock()

	sort.SliceStable(scored, func(a, b int) bool {
		return scored[a].Score > scored[b].Score
	})

	if k < len(scored) {
		scored = scored[:k]
	}
	return scored, nil
}

// Rebuild replaces the whole index contents with the given chunks,
// re-embedding each one. The write lock is held for the entire pass, so
// readers never observe a half-built index. On error the index keeps the
// chunks embedded so far; the caller decides whether a degraded index is
// acceptable.
func (ix *Index) Rebuild(chunks []Record) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	ix.vectors = nil
	ix.records = nil

	for _, chunk := range chunks {
		if err := ix.appendLocked(chunk.Text, chunk.Ref); err != nil {
			return fmt.Errorf("rebuild at chunk %s: %w", chunk.Ref.ChunkId, err)
		}
	}
	return nil
}

// Clear empties both slices.
func (ix *Index) Clear() {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.vectors = nil
	ix.records = nil
}

// Size reports the current record count.
func (ix *Index) Size() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.records)
}

// CosineSimilarity computes dot(a,b)/(norm(a)*norm(b)) in float64. Zero-norm
// inputs and length mismatches score 0 rather than NaN.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
