package rag

import (
	"context"

	"studybuddy-be/internal/pkg/logger"
	"studybuddy-be/internal/repository/memory"
	"studybuddy-be/pkg/embedding"
	"studybuddy-be/pkg/llm"
)

// Orchestrator sequences Router -> (Retriever) -> Generator for one chat
// turn. It owns the per-turn state and is the only component allowed to
// skip the retrieval step. One instance is built at bootstrap and shared
// across requests; it holds no mutable state between turns.
type Orchestrator struct {
	router    *Router
	retriever *Retriever
	generator *Generator
	logger    logger.ILogger
}

func NewOrchestrator(
	llmProvider llm.LLMProvider,
	embedder embedding.Provider,
	corpusCache *memory.CorpusCache,
	topK int,
	scoreThreshold float64,
	log logger.ILogger,
) *Orchestrator {
	return &Orchestrator{
		router:    NewRouter(llmProvider, corpusCache, log),
		retriever: NewRetriever(embedder, topK, scoreThreshold, log),
		generator: NewGenerator(llmProvider, log),
		logger:    log,
	}
}

// Run executes a full turn. Errors from any stage propagate to the
// caller, which decides the user-visible failure; no partial result is
// returned.
func (o *Orchestrator) Run(ctx context.Context, searcher ChunkSearcher, input TurnInput) (*TurnResult, error) {
	state := &TurnState{Input: input}

	route, err := o.router.Decide(ctx, searcher, input.SessionId, input.Query)
	if err != nil {
		return nil, err
	}
	state.Route = route

	if route == RouteRetrieve {
		chunks, err := o.retriever.Retrieve(ctx, searcher, input.SessionId, input.Query)
		if err != nil {
			return nil, err
		}
		state.Retrieved = chunks
		state.HasContext = len(chunks) > 0
	}

	if err := o.generator.Generate(ctx, state); err != nil {
		return nil, err
	}

	o.logger.Info("rag.orchestrator", "turn completed", map[string]interface{}{
		"session_id":  input.SessionId,
		"route":       state.Route.String(),
		"has_context": state.HasContext,
		"sources":     len(state.Sources),
	})

	return &TurnResult{
		Response: state.Response,
		Sources:  state.Sources,
	}, nil
}
