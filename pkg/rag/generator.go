package rag

import (
	"context"
	"fmt"
	"strings"

	"studybuddy-be/internal/constant"
	"studybuddy-be/internal/pkg/logger"
	"studybuddy-be/pkg/llm"
)

// Generator produces the final answer. Mode selection is solely
// state.HasContext: grounded (RAG) when retrieval produced chunks,
// general otherwise. It is never re-decided here.
type Generator struct {
	llmProvider llm.LLMProvider
	logger      logger.ILogger
}

func NewGenerator(llmProvider llm.LLMProvider, log logger.ILogger) *Generator {
	return &Generator{
		llmProvider: llmProvider,
		logger:      log,
	}
}

func (g *Generator) Generate(ctx context.Context, state *TurnState) error {
	var systemPrompt string
	var sources []SourceRef

	if state.HasContext && len(state.Retrieved) > 0 {
		systemPrompt = fmt.Sprintf(constant.RAGSystemPromptTemplate, buildContextBlock(state.Retrieved))
		sources = make([]SourceRef, len(state.Retrieved))
		for i, chunk := range state.Retrieved {
			sources[i] = SourceRef{
				ChunkId:      chunk.Id,
				DocumentName: chunk.DocumentName,
				Similarity:   chunk.Similarity,
			}
		}
	} else {
		systemPrompt = constant.GeneralSystemPrompt
	}

	history := make([]llm.Message, 0, len(state.Input.History)+2)
	history = append(history, llm.Message{Role: "system", Content: systemPrompt})
	history = append(history, state.Input.History...)
	history = append(history, llm.Message{Role: "user", Content: state.Input.Query})

	response, err := g.llmProvider.Chat(ctx, history)
	if err != nil {
		return err
	}

	state.Response = response
	state.Sources = sources
	return nil
}

// buildContextBlock concatenates chunk contents, each prefixed by its
// originating document's display name.
func buildContextBlock(chunks []*RetrievedChunk) string {
	parts := make([]string, len(chunks))
	for i, chunk := range chunks {
		parts[i] = fmt.Sprintf("[%s]: %s", chunk.DocumentName, chunk.Content)
	}
	return strings.Join(parts, "\n\n")
}
