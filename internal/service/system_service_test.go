package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"ai-knowledge-base-be/internal/dto"
	"ai-knowledge-base-be/internal/entity"
	"ai-knowledge-base-be/internal/pkg/apperror"
	"ai-knowledge-base-be/internal/repository/specification"
	"ai-knowledge-base-be/pkg/vectorindex"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storedChunk(text string, ordinal int) *entity.Chunk {
	return &entity.Chunk{Id: uuid.New(), ItemId: uuid.New(), Text: text, Ordinal: ordinal}
}

func TestRebuildReplaysStoredChunks(t *testing.T) {
	factory := newFakeFactory()
	factory.uow.chunkRepo.findAllResp = []*entity.Chunk{
		storedChunk("first chunk", 0),
		storedChunk("second chunk", 1),
		storedChunk("third chunk", 0),
	}

	index := vectorindex.New(&stubEmbedder{dim: 3}, 3)
	svc := NewRebuildService(factory, index, nil, nopLogger{})

	indexed, err := svc.Rebuild(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, indexed)
	assert.Equal(t, 3, index.Size())
	assert.False(t, svc.Degraded())

	specs := factory.uow.chunkRepo.findAllSpec
	require.Len(t, specs, 1)
	assert.Equal(t, specification.ReplayOrder{}, specs[0])
}

func TestRebuildStoreFailureMarksDegraded(t *testing.T) {
	factory := newFakeFactory()
	factory.uow.chunkRepo.findErr = assert.AnError

	index := vectorindex.New(&stubEmbedder{dim: 3}, 3)
	svc := NewRebuildService(factory, index, nil, nopLogger{})

	_, err := svc.Rebuild(context.Background())
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindStore))
	assert.True(t, svc.Degraded())

	// A later successful rebuild brings the service back to healthy.
	factory.uow.chunkRepo.findErr = nil
	factory.uow.chunkRepo.findAllResp = []*entity.Chunk{storedChunk("only chunk", 0)}

	indexed, err := svc.Rebuild(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, indexed)
	assert.False(t, svc.Degraded())
}

func TestRebuildEmbeddingFailureMarksDegraded(t *testing.T) {
	factory := newFakeFactory()
	factory.uow.chunkRepo.findAllResp = []*entity.Chunk{
		storedChunk("good chunk", 0),
		storedChunk("poison chunk", 1),
	}

	embedder := &stubEmbedder{dim: 3, fail: map[string]bool{"poison chunk": true}}
	index := vectorindex.New(embedder, 3)
	svc := NewRebuildService(factory, index, nil, nopLogger{})

	_, err := svc.Rebuild(context.Background())

	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindService))
	assert.True(t, svc.Degraded())
	// The chunks replayed before the failure stay searchable.
	assert.Equal(t, 1, index.Size())
}

func TestHealthReflectsDegradedIndex(t *testing.T) {
	factory := newFakeFactory()
	factory.uow.itemRepo.countResp = 7

	index := vectorindex.New(&stubEmbedder{dim: 3}, 3)
	require.NoError(t, index.Add("a chunk", vectorindex.ChunkRef{ChunkId: uuid.New(), ItemId: uuid.New(), Ordinal: 0}))
	require.NoError(t, index.Add("b chunk", vectorindex.ChunkRef{ChunkId: uuid.New(), ItemId: uuid.New(), Ordinal: 0}))

	rebuild := &fakeRebuildService{degraded: true}
	svc := NewSystemService(factory, index, rebuild)

	resp, err := svc.Health(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "degraded", resp.Status)
	assert.Equal(t, int64(7), resp.ItemsCount)
	assert.Equal(t, 2, resp.VectorStoreSize)

	rebuild.degraded = false
	resp, err = svc.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "healthy", resp.Status)
}

func TestReindexReturnsIndexedCount(t *testing.T) {
	factory := newFakeFactory()
	index := vectorindex.New(&stubEmbedder{dim: 3}, 3)
	rebuild := &fakeRebuildService{indexed: 9}
	svc := NewSystemService(factory, index, rebuild)

	resp, err := svc.Reindex(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 9, resp.ChunksIndexed)
	assert.Equal(t, 1, rebuild.rebuildCalls())
}

func TestConsumerRebuildsOnReindexMessage(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	rebuild := &fakeRebuildService{indexed: 2}

	consumer := NewConsumerService(pubSub, "reindex.requested", rebuild)
	require.NoError(t, consumer.Consume(context.Background()))

	payload, err := json.Marshal(dto.PublishReindexMessage{Reason: "item_deleted"})
	require.NoError(t, err)
	require.NoError(t, pubSub.Publish("reindex.requested", message.NewMessage(watermill.NewUUID(), payload)))

	assert.Eventually(t, func() bool {
		return rebuild.rebuildCalls() == 1
	}, time.Second, 10*time.Millisecond)
}
