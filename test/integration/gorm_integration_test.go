package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"kb-assistant-be/internal/entity"
	"kb-assistant-be/internal/repository/implementation"
	"kb-assistant-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormRepositories(t *testing.T) {
	// Load .env from root
	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	require.NoError(t, err, "Failed to connect to DB")

	sqlDB, _ := gormDB.DB()
	require.NoError(t, sqlDB.Ping())

	ctx := context.Background()
	collectionRepo := implementation.NewCollectionRepository(gormDB)
	passageRepo := implementation.NewPassageEmbeddingRepository(gormDB)
	turnLogRepo := implementation.NewTurnLogRepository(gormDB)

	slug := "it-test-" + uuid.NewString()[:8]

	t.Run("collection create and find", func(t *testing.T) {
		collection := &entity.Collection{
			Id:          uuid.New(),
			Slug:        slug,
			Name:        "Integration Test Collection",
			Description: "Temporary collection created by the integration suite",
			CreatedAt:   time.Now(),
		}
		require.NoError(t, collectionRepo.Create(ctx, collection))

		found, err := collectionRepo.FindBySlug(ctx, slug)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, collection.Id, found.Id)

		all, err := collectionRepo.FindAll(ctx)
		require.NoError(t, err)
		assert.NotEmpty(t, all)
	})

	t.Run("passage embedding search", func(t *testing.T) {
		collection, err := collectionRepo.FindBySlug(ctx, slug)
		require.NoError(t, err)
		require.NotNil(t, collection)

		vector := make([]float32, 768)
		vector[0] = 1

		embedding := &entity.PassageEmbedding{
			Id:             uuid.New(),
			PassageKey:     "it-doc#0",
			Document:       "Integration test passage.",
			EmbeddingValue: vector,
			CollectionId:   collection.Id,
			CreatedAt:      time.Now(),
		}
		require.NoError(t, passageRepo.CreateBulk(ctx, []*entity.PassageEmbedding{embedding}))

		count, err := passageRepo.CountByCollectionId(ctx, collection.Id)
		require.NoError(t, err)
		assert.EqualValues(t, 1, count)

		scored, err := passageRepo.SearchSimilarWithScore(ctx, vector, 5, slug)
		require.NoError(t, err)
		require.Len(t, scored, 1)
		assert.Equal(t, "it-doc#0", scored[0].Embedding.PassageKey)
		assert.Equal(t, slug, scored[0].CollectionSlug)
		assert.InDelta(t, 1.0, scored[0].Similarity, 0.001, "identical vectors should score ~1")

		require.NoError(t, passageRepo.DeleteByCollectionId(ctx, collection.Id))
	})

	t.Run("turn log create and query", func(t *testing.T) {
		userId := "it-user-" + uuid.NewString()[:8]
		turnLog := &entity.TurnLog{
			Id:                uuid.New(),
			UserId:            userId,
			Outcome:           "answered",
			RoutedCollections: []string{slug},
			CandidateCount:    3,
			SelectedCount:     1,
			ElapsedMs:         120,
			CreatedAt:         time.Now(),
		}
		require.NoError(t, turnLogRepo.Create(ctx, turnLog))

		recent, err := turnLogRepo.FindRecentByUserId(ctx, userId, 10)
		require.NoError(t, err)
		require.Len(t, recent, 1)
		assert.Equal(t, "answered", recent[0].Outcome)
		assert.Equal(t, []string{slug}, recent[0].RoutedCollections)
	})
}
