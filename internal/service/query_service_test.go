package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"ai-knowledge-base-be/internal/constant"
	"ai-knowledge-base-be/internal/dto"
	"ai-knowledge-base-be/internal/entity"
	"ai-knowledge-base-be/internal/pkg/apperror"
	"ai-knowledge-base-be/pkg/vectorindex"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestQueryService(factory *fakeRepositoryFactory, searcher *stubSearcher, model *stubLLM) IQueryService {
	return NewQueryService(factory, searcher, model, 0.7, 800)
}

func searchHit(text string, itemId uuid.UUID, ordinal int, score float64) vectorindex.SearchResult {
	return vectorindex.SearchResult{
		Record: vectorindex.Record{
			Text: text,
			Ref:  vectorindex.ChunkRef{ChunkId: uuid.New(), ItemId: itemId, Ordinal: ordinal},
		},
		Score: score,
	}
}

func TestQueryRejectsEmptyQuestion(t *testing.T) {
	svc := newTestQueryService(newFakeFactory(), &stubSearcher{}, &stubLLM{})

	for _, question := range []string{"", "   \n\t "} {
		_, err := svc.Query(context.Background(), &dto.QueryRequest{Question: question})
		require.Error(t, err)
		assert.True(t, apperror.IsKind(err, apperror.KindValidation))
	}
}

func TestQueryRejectsOutOfRangeMaxResults(t *testing.T) {
	svc := newTestQueryService(newFakeFactory(), &stubSearcher{}, &stubLLM{})

	for _, maxResults := range []int{-3, 11} {
		_, err := svc.Query(context.Background(), &dto.QueryRequest{Question: "q", MaxResults: maxResults})
		require.Error(t, err)
		assert.True(t, apperror.IsKind(err, apperror.KindValidation))
		assert.Contains(t, err.Error(), "between 1 and 10")
	}
}

func TestQueryNoHitsReturnsCannedAnswer(t *testing.T) {
	searcher := &stubSearcher{}
	model := &stubLLM{answer: "should not be used"}
	svc := newTestQueryService(newFakeFactory(), searcher, model)

	resp, err := svc.Query(context.Background(), &dto.QueryRequest{Question: "anything new?"})

	require.NoError(t, err)
	assert.Equal(t, constant.NoRelevantInformationAnswer, resp.Answer)
	assert.NotNil(t, resp.Sources)
	assert.Empty(t, resp.Sources)
	assert.Equal(t, defaultMaxResults, searcher.lastK)
	assert.Nil(t, model.history)
}

func TestQueryAnswersAndDeduplicatesSources(t *testing.T) {
	itemA := &entity.Item{Id: uuid.New(), Content: "alpha", SourceKind: entity.SourceKindNote}
	urlB := "https://example.com/beta"
	itemB := &entity.Item{Id: uuid.New(), Content: "beta", SourceKind: entity.SourceKindUrl, Url: &urlB}

	factory := newFakeFactory()
	factory.uow.itemRepo.items[itemA.Id] = itemA
	factory.uow.itemRepo.items[itemB.Id] = itemB

	searcher := &stubSearcher{results: []vectorindex.SearchResult{
		searchHit("alpha best chunk", itemA.Id, 0, 0.91),
		searchHit("beta chunk", itemB.Id, 0, 0.84),
		searchHit("alpha weaker chunk", itemA.Id, 1, 0.62),
	}}
	model := &stubLLM{answer: "Grounded answer."}
	svc := newTestQueryService(factory, searcher, model)

	resp, err := svc.Query(context.Background(), &dto.QueryRequest{Question: "what is alpha?", MaxResults: 3})

	require.NoError(t, err)
	assert.Equal(t, "Grounded answer.", resp.Answer)
	assert.Equal(t, "what is alpha?", resp.Question)
	assert.Equal(t, 3, searcher.lastK)

	require.Len(t, resp.Sources, 2)
	assert.Equal(t, itemA.Id, resp.Sources[0].ItemId)
	assert.Equal(t, "alpha best chunk", resp.Sources[0].Content)
	assert.InDelta(t, 0.91, resp.Sources[0].RelevanceScore, 1e-9)
	assert.Equal(t, itemB.Id, resp.Sources[1].ItemId)
	require.NotNil(t, resp.Sources[1].Url)
	assert.Equal(t, urlB, *resp.Sources[1].Url)

	// The model saw the deduplicated context, not the weaker duplicate.
	require.Len(t, model.history, 2)
	assert.Contains(t, model.history[1].Content, "alpha best chunk")
	assert.NotContains(t, model.history[1].Content, "alpha weaker chunk")
	assert.InDelta(t, 0.7, model.options.Temperature, 1e-9)
	assert.Equal(t, 800, model.options.MaxTokens)
}

func TestQueryTruncatesLongSourceSnippets(t *testing.T) {
	item := &entity.Item{Id: uuid.New(), Content: "long", SourceKind: entity.SourceKindNote}
	factory := newFakeFactory()
	factory.uow.itemRepo.items[item.Id] = item

	longChunk := strings.Repeat("x", 250)
	searcher := &stubSearcher{results: []vectorindex.SearchResult{
		searchHit(longChunk, item.Id, 0, 0.8),
	}}
	svc := newTestQueryService(factory, searcher, &stubLLM{answer: "ok"})

	resp, err := svc.Query(context.Background(), &dto.QueryRequest{Question: "q"})

	require.NoError(t, err)
	require.Len(t, resp.Sources, 1)
	content := resp.Sources[0].Content
	assert.True(t, strings.HasSuffix(content, "..."))
	assert.Equal(t, sourceSnippetRunes+3, utf8.RuneCountInString(content))
}

func TestQuerySearchFailureIsRetrievalError(t *testing.T) {
	searcher := &stubSearcher{err: errors.New("provider down")}
	svc := newTestQueryService(newFakeFactory(), searcher, &stubLLM{})

	_, err := svc.Query(context.Background(), &dto.QueryRequest{Question: "q"})

	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindRetrieval))
	assert.Contains(t, err.Error(), "knowledge base search failed")
}

func TestQueryGenerationFailureIsRetrievalError(t *testing.T) {
	item := &entity.Item{Id: uuid.New(), Content: "alpha", SourceKind: entity.SourceKindNote}
	factory := newFakeFactory()
	factory.uow.itemRepo.items[item.Id] = item

	searcher := &stubSearcher{results: []vectorindex.SearchResult{
		searchHit("alpha chunk", item.Id, 0, 0.9),
	}}
	svc := newTestQueryService(factory, searcher, &stubLLM{err: errors.New("model offline")})

	_, err := svc.Query(context.Background(), &dto.QueryRequest{Question: "q"})

	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindRetrieval))
	assert.Contains(t, err.Error(), "answer generation failed")
}

func TestQueryStaleHitsStillPromptTheModel(t *testing.T) {
	// Hits whose items were deleted are dropped from evidence but still
	// count as matches, so the model answers with an empty context instead
	// of the canned no-information reply.
	searcher := &stubSearcher{results: []vectorindex.SearchResult{
		searchHit("orphaned chunk", uuid.New(), 0, 0.9),
	}}
	model := &stubLLM{answer: "Nothing in the context."}
	svc := newTestQueryService(newFakeFactory(), searcher, model)

	resp, err := svc.Query(context.Background(), &dto.QueryRequest{Question: "q"})

	require.NoError(t, err)
	assert.Equal(t, "Nothing in the context.", resp.Answer)
	assert.Empty(t, resp.Sources)
	require.Len(t, model.history, 2)
}
