package search

import (
	"context"
	"fmt"
	"log"

	"ai-knowledge-base-be/internal/entity"
	"ai-knowledge-base-be/internal/repository/specification"
	"ai-knowledge-base-be/internal/repository/unitofwork"
	"ai-knowledge-base-be/pkg/vectorindex"

	"github.com/google/uuid"
)

// Evidence is one grounded hit: the indexed chunk, its owning item and the
// similarity score the chunk matched with.
type Evidence struct {
	Chunk vectorindex.Record
	Item  *entity.Item
	Score float64
}

// Orchestrator turns a question into deduplicated, hydrated evidence ready
// for answer generation.
type Orchestrator struct {
	index  vectorindex.Searcher
	logger *log.Logger
}

func NewOrchestrator(index vectorindex.Searcher, logger *log.Logger) *Orchestrator {
	return &Orchestrator{
		index:  index,
		logger: logger,
	}
}

// Execute searches the vector index, keeps only the best chunk per item and
// resolves each surviving hit to its stored item. Hits whose item no longer
// exists are dropped silently; the index may lag the store until the next
// rebuild. The returned hit count is the raw result count before
// deduplication, so callers can tell "nothing matched" apart from
// "everything matched was stale".
func (o *Orchestrator) Execute(ctx context.Context, uow unitofwork.UnitOfWork, question string, maxResults int) ([]Evidence, int, error) {
	results, err := o.index.Search(question, maxResults)
	if err != nil {
		return nil, 0, fmt.Errorf("vector search failed: %w", err)
	}
	o.logger.Printf("[SEARCH] Raw hits for question: %d", len(results))

	if len(results) == 0 {
		return nil, 0, nil
	}

	deduped := deduplicateByItem(results)
	if len(deduped) < len(results) {
		o.logger.Printf("[SEARCH] Deduplicated %d hits down to %d items", len(results), len(deduped))
	}

	evidence, err := o.hydrate(ctx, uow, deduped)
	if err != nil {
		return nil, len(results), err
	}
	return evidence, len(results), nil
}

// deduplicateByItem keeps the first hit per item. Results arrive sorted by
// score, so the survivor is always the item's best chunk.
func deduplicateByItem(results []vectorindex.SearchResult) []vectorindex.SearchResult {
	seen := make(map[uuid.UUID]bool)
	kept := make([]vectorindex.SearchResult, 0, len(results))
	for _, result := range results {
		if seen[result.Record.Ref.ItemId] {
			continue
		}
		seen[result.Record.Ref.ItemId] = true
		kept = append(kept, result)
	}
	return kept
}

func (o *Orchestrator) hydrate(ctx context.Context, uow unitofwork.UnitOfWork, results []vectorindex.SearchResult) ([]Evidence, error) {
	evidence := make([]Evidence, 0, len(results))
	for _, result := range results {
		item, err := uow.ItemRepository().FindOne(ctx, specification.ByID{ID: result.Record.Ref.ItemId})
		if err != nil {
			return nil, fmt.Errorf("item lookup failed: %w", err)
		}
		if item == nil {
			o.logger.Printf("[SEARCH] Dropping hit for missing item %s", result.Record.Ref.ItemId)
			continue
		}
		evidence = append(evidence, Evidence{
			Chunk: result.Record,
			Item:  item,
			Score: result.Score,
		})
	}
	return evidence, nil
}
