package main

import (
	"context"
	"encoding/json"
	"log"
	"os"

	"kb-assistant-be/internal/config"
	"kb-assistant-be/internal/pkg/logger"
	"kb-assistant-be/internal/repository/implementation"
	"kb-assistant-be/internal/service"
	"kb-assistant-be/pkg/database"
	"kb-assistant-be/pkg/embedding"
)

type seedDocument struct {
	Key  string `json:"key"`
	Text string `json:"text"`
}

type seedCollection struct {
	Slug        string         `json:"slug"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Documents   []seedDocument `json:"documents"`
}

func main() {
	seedPath := "seed/collections.json"
	if len(os.Args) > 1 {
		seedPath = os.Args[1]
	}

	raw, err := os.ReadFile(seedPath)
	if err != nil {
		log.Fatalf("Error: Failed to read seed file %s: %v", seedPath, err)
	}

	var seeds []seedCollection
	if err := json.Unmarshal(raw, &seeds); err != nil {
		log.Fatalf("Error: Failed to parse seed file: %v", err)
	}

	cfg := config.Load()

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatalf("Error: Failed to connect to database: %v", err)
	}

	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.EmbeddingModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Ai.GeminiApiKey)
	}

	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, false)
	defer sysLogger.Sync()

	ingestService := service.NewIngestService(
		implementation.NewCollectionRepository(db),
		implementation.NewPassageEmbeddingRepository(db),
		embeddingProvider,
		sysLogger,
	)

	ctx := context.Background()
	totalPassages := 0

	for _, seed := range seeds {
		if _, err := ingestService.RegisterCollection(ctx, seed.Slug, seed.Name, seed.Description); err != nil {
			log.Fatalf("Error: Failed to register collection %s: %v", seed.Slug, err)
		}
		log.Printf("Collection ready: %s", seed.Slug)

		for _, doc := range seed.Documents {
			n, err := ingestService.IngestDocument(ctx, seed.Slug, doc.Key, doc.Text)
			if err != nil {
				log.Fatalf("Error: Failed to ingest %s into %s: %v", doc.Key, seed.Slug, err)
			}
			totalPassages += n
			log.Printf("Ingested %s (%d passages)", doc.Key, n)
		}
	}

	log.Printf("✅ Seed completed: %d collections, %d passages", len(seeds), totalPassages)
}
