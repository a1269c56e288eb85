package rag

import (
	"context"

	"studybuddy-be/internal/pkg/logger"
	"studybuddy-be/pkg/embedding"

	"github.com/google/uuid"
)

// Retriever embeds the query and fetches the nearest chunks scoped to
// the session. Zero candidates above the threshold is a valid outcome;
// the turn falls through to general answering.
type Retriever struct {
	embedder  embedding.Provider
	topK      int
	threshold float64
	logger    logger.ILogger
}

func NewRetriever(embedder embedding.Provider, topK int, threshold float64, log logger.ILogger) *Retriever {
	if topK <= 0 {
		topK = 5
	}
	return &Retriever{
		embedder:  embedder,
		topK:      topK,
		threshold: threshold,
		logger:    log,
	}
}

func (r *Retriever) Retrieve(ctx context.Context, searcher ChunkSearcher, sessionId uuid.UUID, query string) ([]*RetrievedChunk, error) {
	vector, err := r.embedder.EmbedOne(ctx, query)
	if err != nil {
		return nil, err
	}

	scored, err := searcher.SearchSimilarWithScore(ctx, sessionId, vector, r.topK, r.threshold)
	if err != nil {
		return nil, err
	}

	chunks := make([]*RetrievedChunk, len(scored))
	for i, s := range scored {
		chunks[i] = &RetrievedChunk{
			Id:           s.Chunk.Id,
			Content:      s.Chunk.Content,
			DocumentId:   s.Chunk.DocumentId,
			DocumentName: s.DocumentName,
			ChunkIndex:   s.Chunk.ChunkIndex,
			Similarity:   s.Similarity,
			Metadata:     s.Chunk.Metadata,
		}
	}

	r.logger.Debug("rag.retriever", "similarity search finished", map[string]interface{}{
		"session_id": sessionId,
		"hits":       len(chunks),
		"k":          r.topK,
		"threshold":  r.threshold,
	})
	return chunks, nil
}
