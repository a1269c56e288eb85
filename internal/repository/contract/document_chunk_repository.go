package contract

import (
	"context"

	"studybuddy-be/internal/entity"
	"studybuddy-be/internal/repository/specification"

	"github.com/google/uuid"
)

// ScoredChunk wraps a DocumentChunk with its cosine similarity to the query
// vector and the display name of the originating document.
type ScoredChunk struct {
	Chunk        *entity.DocumentChunk
	DocumentName string
	Similarity   float64 // 1 - cosine_distance, effectively 0.0..1.0 for text embeddings
}

type DocumentChunkRepository interface {
	CreateBulk(ctx context.Context, chunks []*entity.DocumentChunk) error
	DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DocumentChunk, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// SearchSimilarWithScore runs a session-scoped nearest-neighbor search
	// over embedded chunks, ordered by descending similarity and filtered
	// to similarity >= threshold.
	SearchSimilarWithScore(ctx context.Context, sessionId uuid.UUID, embedding []float32, limit int, threshold float64) ([]*ScoredChunk, error)
	// HasEmbeddedChunks is a cheap existence check used to skip retrieval
	// entirely for sessions without a corpus.
	HasEmbeddedChunks(ctx context.Context, sessionId uuid.UUID) (bool, error)
}
