package rag

import (
	"context"

	"studybuddy-be/internal/repository/contract"
	"studybuddy-be/pkg/llm"

	"github.com/google/uuid"
)

// Route is the router's decision for a turn.
type Route int

const (
	RouteDirect Route = iota
	RouteRetrieve
)

func (r Route) String() string {
	if r == RouteRetrieve {
		return "retrieve"
	}
	return "direct"
}

// TurnInput is everything the caller supplies for one chat turn.
type TurnInput struct {
	SessionId uuid.UUID
	UserId    uuid.UUID
	Query     string
	History   []llm.Message // chronological, excluding the current query
}

// RetrievedChunk is a transient search hit, alive only for the duration
// of one turn.
type RetrievedChunk struct {
	Id           uuid.UUID
	Content      string
	DocumentId   uuid.UUID
	DocumentName string
	ChunkIndex   int
	Similarity   float64
	Metadata     map[string]interface{}
}

// SourceRef is one citation attached to the generated answer.
type SourceRef struct {
	ChunkId      uuid.UUID
	DocumentName string
	Similarity   float64
}

// TurnState carries a turn through the pipeline. Fields are filled in
// progressively: Route by the router, Retrieved/HasContext by the
// retrieval step, Response/Sources by the generator.
type TurnState struct {
	Input      TurnInput
	Route      Route
	Retrieved  []*RetrievedChunk
	HasContext bool
	Response   string
	Sources    []SourceRef
}

// TurnResult is what the orchestrator hands back to the caller.
type TurnResult struct {
	Response string
	Sources  []SourceRef
}

// ChunkSearcher is the slice of the chunk repository the pipeline needs.
// contract.DocumentChunkRepository satisfies it.
type ChunkSearcher interface {
	SearchSimilarWithScore(ctx context.Context, sessionId uuid.UUID, embedding []float32, limit int, threshold float64) ([]*contract.ScoredChunk, error)
	HasEmbeddedChunks(ctx context.Context, sessionId uuid.UUID) (bool, error)
}
