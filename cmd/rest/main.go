package main

import (
	"context"
	"log"

	"ai-knowledge-base-be/internal/bootstrap"
	"ai-knowledge-base-be/internal/config"
	"ai-knowledge-base-be/internal/server"
	"ai-knowledge-base-be/internal/tracer"
	"ai-knowledge-base-be/pkg/database"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Warm the vector index from stored chunks
	// Not fatal on failure, the API starts degraded and a reindex can
	// recover it later.
	if indexed, err := container.RebuildService.Rebuild(context.Background()); err != nil {
		log.Printf("[WARN] Startup index rebuild failed, starting degraded: %v", err)
	} else {
		log.Printf("[INFO] Vector index warmed with %d chunks", indexed)
	}

	// 5. Start Background Services
	// Note: In a larger app, we might use an errgroup or supervisor here
	go func() {
		log.Println("Background: Starting Consumer Service...")
		if err := container.ConsumerService.Consume(context.Background()); err != nil {
			log.Printf("Background Consumer Error: %v", err)
		}
	}()

	// 6. Initialize Server
	srv := server.New(cfg, container)

	// 7. Run Server
	log.Fatal(srv.Run())
}
