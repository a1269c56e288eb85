package rag

import (
	"context"
	"errors"
	"strings"
	"testing"

	"studybuddy-be/internal/constant"
	"studybuddy-be/internal/entity"
	"studybuddy-be/internal/repository/contract"
	"studybuddy-be/internal/repository/memory"
	"studybuddy-be/pkg/llm"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

// fakeLLM replays queued responses and records every chat call along
// with the options it carried.
type fakeLLM struct {
	responses []string
	err       error
	calls     [][]llm.Message
	callOpts  []llm.Options
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	var opts llm.Options
	for _, o := range options {
		o(&opts)
	}
	f.calls = append(f.calls, history)
	f.callOpts = append(f.callOpts, opts)
	if f.err != nil {
		return "", f.err
	}
	if len(f.responses) == 0 {
		return "", errors.New("fakeLLM: no response queued")
	}
	response := f.responses[0]
	f.responses = f.responses[1:]
	return response, nil
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return f.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, options...)
}

type fakeSearcher struct {
	hasChunks bool
	hasErr    error
	scored    []*contract.ScoredChunk
	searchErr error

	hasCalls    int
	searchCalls int
}

func (f *fakeSearcher) HasEmbeddedChunks(ctx context.Context, sessionId uuid.UUID) (bool, error) {
	f.hasCalls++
	return f.hasChunks, f.hasErr
}

func (f *fakeSearcher) SearchSimilarWithScore(ctx context.Context, sessionId uuid.UUID, embedding []float32, limit int, threshold float64) ([]*contract.ScoredChunk, error) {
	f.searchCalls++
	return f.scored, f.searchErr
}

type fakeEmbedder struct {
	vector []float32
	err    error
	calls  int
}

func (f *fakeEmbedder) EmbedOne(ctx context.Context, text string) ([]float32, error) {
	f.calls++
	return f.vector, f.err
}

func (f *fakeEmbedder) EmbedMany(ctx context.Context, texts []string) ([][]float32, error) {
	f.calls++
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = f.vector
	}
	return out, f.err
}

func (f *fakeEmbedder) Dimension() int { return len(f.vector) }

func TestRouterNoCorpusSkipsClassifier(t *testing.T) {
	llmFake := &fakeLLM{responses: []string{"retrieve"}}
	searcher := &fakeSearcher{hasChunks: false}
	router := NewRouter(llmFake, memory.NewCorpusCache(), nopLogger{})

	route, err := router.Decide(context.Background(), searcher, uuid.New(), "what is dns?")
	require.NoError(t, err)
	assert.Equal(t, RouteDirect, route)
	assert.Empty(t, llmFake.calls, "no classifier call for empty corpus")
	assert.Equal(t, 1, searcher.hasCalls)
}

func TestRouterCachesCorpusFlag(t *testing.T) {
	llmFake := &fakeLLM{responses: []string{"direct", "direct"}}
	searcher := &fakeSearcher{hasChunks: true}
	router := NewRouter(llmFake, memory.NewCorpusCache(), nopLogger{})
	sessionId := uuid.New()

	_, err := router.Decide(context.Background(), searcher, sessionId, "q1")
	require.NoError(t, err)
	_, err = router.Decide(context.Background(), searcher, sessionId, "q2")
	require.NoError(t, err)

	assert.Equal(t, 1, searcher.hasCalls, "second turn should hit the cache")
}

func TestRouterLabelHandling(t *testing.T) {
	tests := []struct {
		name  string
		label string
		want  Route
	}{
		{name: "exact retrieve", label: "retrieve", want: RouteRetrieve},
		{name: "padded uppercase", label: "  RETRIEVE \n", want: RouteRetrieve},
		{name: "direct", label: "direct", want: RouteDirect},
		{name: "garbage degrades to direct", label: "I think you should retrieve documents", want: RouteDirect},
		{name: "empty", label: "", want: RouteDirect},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llmFake := &fakeLLM{responses: []string{tt.label}}
			searcher := &fakeSearcher{hasChunks: true}
			router := NewRouter(llmFake, memory.NewCorpusCache(), nopLogger{})

			route, err := router.Decide(context.Background(), searcher, uuid.New(), "query")
			require.NoError(t, err)
			assert.Equal(t, tt.want, route)
			require.Len(t, llmFake.calls, 1)

			// Classification runs at temperature 0 for stable labels.
			require.NotNil(t, llmFake.callOpts[0].Temperature)
			assert.Zero(t, *llmFake.callOpts[0].Temperature)
		})
	}
}

func TestRouterSearcherErrorPropagates(t *testing.T) {
	searcher := &fakeSearcher{hasErr: errors.New("db down")}
	router := NewRouter(&fakeLLM{}, memory.NewCorpusCache(), nopLogger{})

	_, err := router.Decide(context.Background(), searcher, uuid.New(), "query")
	assert.Error(t, err)
}

func TestGeneratorGroundedMode(t *testing.T) {
	chunkA := uuid.New()
	chunkB := uuid.New()
	state := &TurnState{
		Input: TurnInput{
			SessionId: uuid.New(),
			Query:     "explain osmosis",
			History: []llm.Message{
				{Role: "user", Content: "hi"},
				{Role: "assistant", Content: "hello"},
			},
		},
		Route:      RouteRetrieve,
		HasContext: true,
		Retrieved: []*RetrievedChunk{
			{Id: chunkA, DocumentName: "biology.pdf", Content: "Osmosis moves water.", Similarity: 0.91},
			{Id: chunkB, DocumentName: "notes.txt", Content: "Membranes are selective.", Similarity: 0.72},
		},
	}

	llmFake := &fakeLLM{responses: []string{"Osmosis is passive transport of water."}}
	gen := NewGenerator(llmFake, nopLogger{})

	require.NoError(t, gen.Generate(context.Background(), state))

	assert.Equal(t, "Osmosis is passive transport of water.", state.Response)
	require.Len(t, state.Sources, 2)
	assert.Equal(t, chunkA, state.Sources[0].ChunkId)
	assert.Equal(t, "biology.pdf", state.Sources[0].DocumentName)
	assert.Equal(t, 0.91, state.Sources[0].Similarity)
	assert.Equal(t, chunkB, state.Sources[1].ChunkId)

	require.Len(t, llmFake.calls, 1)
	messages := llmFake.calls[0]
	// system + 2 history + current query
	require.Len(t, messages, 4)
	assert.Equal(t, "system", messages[0].Role)
	assert.Contains(t, messages[0].Content, "[biology.pdf]: Osmosis moves water.")
	assert.Contains(t, messages[0].Content, "[notes.txt]: Membranes are selective.")
	assert.Equal(t, "explain osmosis", messages[3].Content)
}

func TestGeneratorGeneralMode(t *testing.T) {
	state := &TurnState{
		Input: TurnInput{Query: "tell me a joke"},
		Route: RouteDirect,
	}

	llmFake := &fakeLLM{responses: []string{"Why did the packet cross the router?"}}
	gen := NewGenerator(llmFake, nopLogger{})

	require.NoError(t, gen.Generate(context.Background(), state))

	assert.Nil(t, state.Sources)
	require.Len(t, llmFake.calls, 1)
	assert.Equal(t, constant.GeneralSystemPrompt, llmFake.calls[0][0].Content)
}

func TestGeneratorEmptyRetrievalFallsBackToGeneral(t *testing.T) {
	state := &TurnState{
		Input:      TurnInput{Query: "question"},
		Route:      RouteRetrieve,
		Retrieved:  nil,
		HasContext: false,
	}

	llmFake := &fakeLLM{responses: []string{"answer"}}
	gen := NewGenerator(llmFake, nopLogger{})

	require.NoError(t, gen.Generate(context.Background(), state))
	assert.Nil(t, state.Sources)
}

func TestRetrieverMapsScoredChunks(t *testing.T) {
	chunkId := uuid.New()
	docId := uuid.New()
	searcher := &fakeSearcher{
		scored: []*contract.ScoredChunk{
			{
				Chunk: &entity.DocumentChunk{
					Id:         chunkId,
					DocumentId: docId,
					ChunkIndex: 3,
					Content:    "content",
					Metadata:   map[string]interface{}{"source": "doc.pdf"},
				},
				DocumentName: "doc.pdf",
				Similarity:   0.8,
			},
		},
	}
	embedder := &fakeEmbedder{vector: []float32{0.1, 0.2}}
	r := NewRetriever(embedder, 5, 0.5, nopLogger{})

	chunks, err := r.Retrieve(context.Background(), searcher, uuid.New(), "query")
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, chunkId, chunks[0].Id)
	assert.Equal(t, "doc.pdf", chunks[0].DocumentName)
	assert.Equal(t, 3, chunks[0].ChunkIndex)
	assert.Equal(t, 0.8, chunks[0].Similarity)
	assert.Equal(t, 1, embedder.calls)
}

func TestOrchestratorDirectPathSkipsEmbedder(t *testing.T) {
	llmFake := &fakeLLM{responses: []string{"direct answer"}}
	searcher := &fakeSearcher{hasChunks: false}
	embedder := &fakeEmbedder{vector: []float32{0.1}}

	o := NewOrchestrator(llmFake, embedder, memory.NewCorpusCache(), 5, 0.5, nopLogger{})

	result, err := o.Run(context.Background(), searcher, TurnInput{
		SessionId: uuid.New(),
		Query:     "what is tcp?",
	})
	require.NoError(t, err)
	assert.Equal(t, "direct answer", result.Response)
	assert.Empty(t, result.Sources)
	assert.Zero(t, embedder.calls)
	assert.Zero(t, searcher.searchCalls)
	// Only the generation call, no classifier.
	assert.Len(t, llmFake.calls, 1)
}

func TestOrchestratorRetrievePathEndToEnd(t *testing.T) {
	chunkId := uuid.New()
	llmFake := &fakeLLM{responses: []string{"retrieve", "grounded answer"}}
	searcher := &fakeSearcher{
		hasChunks: true,
		scored: []*contract.ScoredChunk{
			{
				Chunk:        &entity.DocumentChunk{Id: chunkId, Content: "fact", ChunkIndex: 0},
				DocumentName: "lecture.pdf",
				Similarity:   0.95,
			},
		},
	}
	embedder := &fakeEmbedder{vector: []float32{0.3, 0.4}}

	o := NewOrchestrator(llmFake, embedder, memory.NewCorpusCache(), 5, 0.5, nopLogger{})

	result, err := o.Run(context.Background(), searcher, TurnInput{
		SessionId: uuid.New(),
		Query:     "what did lecture one cover?",
	})
	require.NoError(t, err)
	assert.Equal(t, "grounded answer", result.Response)
	require.Len(t, result.Sources, 1)
	assert.Equal(t, chunkId, result.Sources[0].ChunkId)
	assert.Equal(t, "lecture.pdf", result.Sources[0].DocumentName)

	require.Len(t, llmFake.calls, 2)
	assert.True(t, strings.Contains(llmFake.calls[1][0].Content, "[lecture.pdf]: fact"))
	assert.NotNil(t, llmFake.callOpts[0].Temperature)
	assert.Nil(t, llmFake.callOpts[1].Temperature, "generation uses the provider default temperature")
	assert.Equal(t, 1, embedder.calls)
	assert.Equal(t, 1, searcher.searchCalls)
}

func TestOrchestratorRetrieveWithNoHitsAnswersGenerally(t *testing.T) {
	llmFake := &fakeLLM{responses: []string{"retrieve", "best effort answer"}}
	searcher := &fakeSearcher{hasChunks: true, scored: nil}
	embedder := &fakeEmbedder{vector: []float32{0.3}}

	o := NewOrchestrator(llmFake, embedder, memory.NewCorpusCache(), 5, 0.5, nopLogger{})

	result, err := o.Run(context.Background(), searcher, TurnInput{
		SessionId: uuid.New(),
		Query:     "query",
	})
	require.NoError(t, err)
	assert.Equal(t, "best effort answer", result.Response)
	assert.Empty(t, result.Sources)
}

func TestOrchestratorStageErrorPropagates(t *testing.T) {
	searchFailure := errors.New("pgvector unavailable")
	llmFake := &fakeLLM{responses: []string{"retrieve"}}
	searcher := &fakeSearcher{hasChunks: true, searchErr: searchFailure}
	embedder := &fakeEmbedder{vector: []float32{0.3}}

	o := NewOrchestrator(llmFake, embedder, memory.NewCorpusCache(), 5, 0.5, nopLogger{})

	_, err := o.Run(context.Background(), searcher, TurnInput{SessionId: uuid.New(), Query: "q"})
	assert.ErrorIs(t, err, searchFailure)
}
