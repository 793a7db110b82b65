package service

import (
	"context"
	"errors"
	"sync"

	"ai-knowledge-base-be/internal/entity"
	"ai-knowledge-base-be/internal/repository/contract"
	"ai-knowledge-base-be/internal/repository/specification"
	"ai-knowledge-base-be/internal/repository/unitofwork"
	"ai-knowledge-base-be/pkg/embedding"
	"ai-knowledge-base-be/pkg/llm"
	"ai-knowledge-base-be/pkg/vectorindex"

	"github.com/google/uuid"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}

func (nopLogger) Info(module, message string, details map[string]interface{}) {}

func (nopLogger) Warn(module, message string, details map[string]interface{}) {}

func (nopLogger) Error(module, message string, details map[string]interface{}) {}

type fakeItemRepository struct {
	items       map[uuid.UUID]*entity.Item
	findAllResp []*entity.Item
	findAllSpec []specification.Specification
	countResp   int64
	createErr   error
	findErr     error
	deleted     []uuid.UUID
}

func newFakeItemRepository() *fakeItemRepository {
	return &fakeItemRepository{items: make(map[uuid.UUID]*entity.Item)}
}

func (r *fakeItemRepository) Create(ctx context.Context, item *entity.Item) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.items[item.Id] = item
	return nil
}

func (r *fakeItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.items, id)
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *fakeItemRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Item, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, spec := range specs {
		if byID, ok := spec.(specification.ByID); ok {
			return r.items[byID.ID], nil
		}
	}
	return nil, nil
}

func (r *fakeItemRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Item, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	r.findAllSpec = specs
	return r.findAllResp, nil
}

func (r *fakeItemRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return r.countResp, nil
}

var _ contract.ItemRepository = &fakeItemRepository{}

type fakeChunkRepository struct {
	created         []*entity.Chunk
	createErr       error
	deletedByItemId []uuid.UUID
	findAllResp     []*entity.Chunk
	findAllSpec     []specification.Specification
	findErr         error
	countResp       int64
}

func (r *fakeChunkRepository) Create(ctx context.Context, chunk *entity.Chunk) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.created = append(r.created, chunk)
	return nil
}

func (r *fakeChunkRepository) DeleteByItemId(ctx context.Context, itemId uuid.UUID) error {
	r.deletedByItemId = append(r.deletedByItemId, itemId)
	return nil
}

func (r *fakeChunkRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Chunk, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	r.findAllSpec = specs
	return r.findAllResp, nil
}

func (r *fakeChunkRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return r.countResp, nil
}

var _ contract.ChunkRepository = &fakeChunkRepository{}

type fakeUnitOfWork struct {
	itemRepo  *fakeItemRepository
	chunkRepo *fakeChunkRepository
	begun     int
	committed int
	rolled    int
}

func (u *fakeUnitOfWork) Begin(ctx context.Context) error {
	u.begun++
	return nil
}

func (u *fakeUnitOfWork) Commit() error {
	u.committed++
	return nil
}

func (u *fakeUnitOfWork) Rollback() error {
	u.rolled++
	return nil
}

func (u *fakeUnitOfWork) ItemRepository() contract.ItemRepository { return u.itemRepo }

func (u *fakeUnitOfWork) ChunkRepository() contract.ChunkRepository { return u.chunkRepo }

type fakeRepositoryFactory struct {
	uow *fakeUnitOfWork
}

func newFakeFactory() *fakeRepositoryFactory {
	return &fakeRepositoryFactory{uow: &fakeUnitOfWork{
		itemRepo:  newFakeItemRepository(),
		chunkRepo: &fakeChunkRepository{},
	}}
}

func (f *fakeRepositoryFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

type stubEmbedder struct {
	mu    sync.Mutex
	dim   int
	fail  map[string]bool
	calls int
}

func (s *stubEmbedder) Generate(text string, taskType string) (*embedding.EmbeddingResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.fail[text] {
		return nil, errors.New("embedding unavailable")
	}
	values := make([]float32, s.dim)
	values[0] = 1
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: values},
	}, nil
}

type stubSearcher struct {
	results   []vectorindex.SearchResult
	err       error
	lastQuery string
	lastK     int
}

func (s *stubSearcher) Search(query string, k int) ([]vectorindex.SearchResult, error) {
	s.lastQuery = query
	s.lastK = k
	if s.err != nil {
		return nil, s.err
	}
	return s.results, nil
}

type stubLLM struct {
	history []llm.Message
	options llm.Options
	answer  string
	err     error
}

func (s *stubLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	s.history = history
	for _, opt := range options {
		opt(&s.options)
	}
	if s.err != nil {
		return "", s.err
	}
	return s.answer, nil
}

func (s *stubLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return s.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, options...)
}

type fakePublisher struct {
	mu       sync.Mutex
	payloads [][]byte
	err      error
}

func (p *fakePublisher) Publish(ctx context.Context, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.payloads = append(p.payloads, payload)
	return nil
}

func (p *fakePublisher) published() [][]byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([][]byte(nil), p.payloads...)
}

type fakeRebuildService struct {
	mu       sync.Mutex
	calls    int
	indexed  int
	err      error
	degraded bool
}

func (f *fakeRebuildService) Rebuild(ctx context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	return f.indexed, nil
}

func (f *fakeRebuildService) Degraded() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.degraded
}

func (f *fakeRebuildService) rebuildCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
