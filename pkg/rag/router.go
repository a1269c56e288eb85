package rag

import (
	"context"
	"strings"

	"studybuddy-be/internal/constant"
	"studybuddy-be/internal/pkg/logger"
	"studybuddy-be/internal/repository/memory"
	"studybuddy-be/pkg/llm"

	"github.com/google/uuid"
)

// Router decides whether a query needs document retrieval. Sessions
// without an embedded corpus are always routed direct, without paying
// for a classification call.
type Router struct {
	llmProvider llm.LLMProvider
	corpusCache *memory.CorpusCache
	logger      logger.ILogger
}

func NewRouter(llmProvider llm.LLMProvider, corpusCache *memory.CorpusCache, log logger.ILogger) *Router {
	return &Router{
		llmProvider: llmProvider,
		corpusCache: corpusCache,
		logger:      log,
	}
}

func (r *Router) Decide(ctx context.Context, searcher ChunkSearcher, sessionId uuid.UUID, query string) (Route, error) {
	hasCorpus, cached := r.corpusCache.Get(sessionId)
	if !cached {
		var err error
		hasCorpus, err = searcher.HasEmbeddedChunks(ctx, sessionId)
		if err != nil {
			return RouteDirect, err
		}
		r.corpusCache.Set(sessionId, hasCorpus)
	}

	if !hasCorpus {
		return RouteDirect, nil
	}

	// Temperature 0 keeps the classification label stable across turns.
	label, err := r.llmProvider.Chat(ctx, []llm.Message{
		{Role: "system", Content: constant.RouterSystemPrompt},
		{Role: "user", Content: query},
	}, llm.WithTemperature(0))
	if err != nil {
		return RouteDirect, err
	}

	// Anything other than the exact retrieve label degrades to a direct
	// answer instead of failing the turn.
	decision := strings.ToLower(strings.TrimSpace(label))
	if decision == constant.RouterLabelRetrieve {
		return RouteRetrieve, nil
	}
	if decision != constant.RouterLabelDirect {
		r.logger.Warn("rag.router", "unexpected router label, falling back to direct", map[string]interface{}{
			"label":      label,
			"session_id": sessionId,
		})
	}
	return RouteDirect, nil
}
