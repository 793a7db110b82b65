package integration

import (
	"context"
	"log"
	"os"
	"testing"

	"ai-knowledge-base-be/internal/entity"
	"ai-knowledge-base-be/internal/repository/specification"
	"ai-knowledge-base-be/internal/repository/unitofwork"
	"ai-knowledge-base-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	// Verify Wiring
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.ItemRepository())
	assert.NotNil(t, uow.ChunkRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)
	t.Log("Successfully connected to DB and initialized UnitOfWork Factory")

	// Verify Data Access (implies columns exist)
	t.Run("Check Item Repository", func(t *testing.T) {
		count, err := uow.ItemRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("Item count: %d", count)
	})

	t.Run("Check Chunk Repository", func(t *testing.T) {
		count, err := uow.ChunkRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("Chunk count: %d", count)
	})

	t.Run("Check Transactional Item Ingest", func(t *testing.T) {
		ctx := context.Background()
		err := uow.Begin(ctx)
		assert.NoError(t, err)
		// Rollback instead of commit keeps the database clean.
		defer uow.Rollback()

		itemId := uuid.New()
		item := &entity.Item{
			Id:         itemId,
			Content:    "integration test content about gopher tunnels",
			SourceKind: entity.SourceKindNote,
		}
		err = uow.ItemRepository().Create(ctx, item)
		assert.NoError(t, err)

		for i, text := range []string{"integration test content", "content about gopher tunnels"} {
			err = uow.ChunkRepository().Create(ctx, &entity.Chunk{
				Id:      uuid.New(),
				ItemId:  itemId,
				Text:    text,
				Ordinal: i,
			})
			assert.NoError(t, err)
		}

		count, err := uow.ChunkRepository().Count(ctx, specification.ByItemID{ItemID: itemId})
		assert.NoError(t, err)
		assert.EqualValues(t, 2, count)

		found, err := uow.ItemRepository().FindOne(ctx, specification.ByID{ID: itemId})
		assert.NoError(t, err)
		if assert.NotNil(t, found) {
			assert.Equal(t, entity.SourceKindNote, found.SourceKind)
		}

		t.Log("Successfully created Item with Chunks in Transaction")
	})
}
