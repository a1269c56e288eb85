package integration

import (
	"context"
	"log"
	"os"
	"testing"

	"studybuddy-be/internal/entity"
	"studybuddy-be/internal/repository/unitofwork"
	"studybuddy-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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

	assert.NotNil(t, uow.UserRepository())
	assert.NotNil(t, uow.DocumentChunkRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)
	t.Log("Successfully connected to DB and initialized UnitOfWork Factory")

	t.Run("Check User Repository", func(t *testing.T) {
		count, err := uow.UserRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("User count: %d", count)
	})

	t.Run("Check Document Chunk Repository", func(t *testing.T) {
		// Count implies the table and vector column exist
		count, err := uow.DocumentChunkRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("DocumentChunk count: %d", count)
	})

	t.Run("Check Transactional Chunk Insert", func(t *testing.T) {
		ctx := context.Background()

		// A chunk needs the full user -> session -> document chain.
		userId := uuid.New()
		user := &entity.User{
			Id:           userId,
			Email:        "test-integration-" + uuid.New().String() + "@example.com",
			PasswordHash: "not-a-real-hash",
			FullName:     "Integration Test User",
		}
		require.NoError(t, uow.UserRepository().Create(ctx, user))

		sessionId := uuid.New()
		session := &entity.StudySession{
			Id:      sessionId,
			UserId:  userId,
			Title:   "Integration Session",
			Subject: "integration",
		}
		require.NoError(t, uow.StudySessionRepository().Create(ctx, session))

		documentId := uuid.New()
		doc := &entity.Document{
			Id:               documentId,
			SessionId:        sessionId,
			UserId:           userId,
			Filename:         documentId.String() + ".txt",
			OriginalFilename: "integration.txt",
			FilePath:         "/tmp/integration.txt",
			MimeType:         "text/plain",
			ProcessingStatus: "pending",
		}
		require.NoError(t, uow.DocumentRepository().Create(ctx, doc))

		// Transaction Test
		err = uow.Begin(ctx)
		assert.NoError(t, err)
		defer uow.Rollback()

		embedding := make([]float32, 768)
		embedding[0] = 1.0
		chunks := []*entity.DocumentChunk{
			{
				DocumentId: documentId,
				SessionId:  sessionId,
				ChunkIndex: 0,
				Content:    "integration chunk",
				Embedding:  embedding,
				Metadata:   map[string]interface{}{"source": "integration.txt", "chunk_index": 0},
			},
		}

		err = uow.DocumentChunkRepository().CreateBulk(ctx, chunks)
		assert.NoError(t, err)

		err = uow.DocumentRepository().MarkCompleted(ctx, documentId, len(chunks))
		assert.NoError(t, err)

		err = uow.Commit()
		assert.NoError(t, err)

		// The vector index must be usable for session-scoped search.
		hits, err := uow.DocumentChunkRepository().SearchSimilarWithScore(ctx, sessionId, embedding, 5, 0.5)
		assert.NoError(t, err)
		assert.NotEmpty(t, hits)

		t.Log("Successfully stored and searched an embedded chunk in a transaction")
	})
}
