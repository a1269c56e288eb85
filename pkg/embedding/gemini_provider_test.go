package embedding

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testVector(dim int, fill float32) []float32 {
	v := make([]float32, dim)
	for i := range v {
		v[i] = fill
	}
	return v
}

func TestEmbedManyBatches(t *testing.T) {
	var gotReq geminiBatchEmbedRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "batchEmbedContents")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		res := geminiBatchEmbedResponse{
			Embeddings: []geminiEmbedding{
				{Values: testVector(4, 0.1)},
				{Values: testVector(4, 0.2)},
			},
		}
		json.NewEncoder(w).Encode(res)
	}))
	defer srv.Close()

	p := NewGeminiProvider("key", "text-embedding-004", 4).WithBaseURL(srv.URL)

	vectors, err := p.EmbedMany(context.Background(), []string{"chunk one", "chunk two"})
	require.NoError(t, err)
	require.Len(t, vectors, 2)
	assert.Equal(t, testVector(4, 0.1), vectors[0])
	assert.Equal(t, testVector(4, 0.2), vectors[1])

	require.Len(t, gotReq.Requests, 2)
	assert.Equal(t, TaskTypeDocument, gotReq.Requests[0].TaskType)
	assert.Equal(t, "chunk one", gotReq.Requests[0].Content.Parts[0].Text)
}

func TestEmbedManyEmptyInput(t *testing.T) {
	p := NewGeminiProvider("key", "text-embedding-004", 4)
	vectors, err := p.EmbedMany(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, vectors)
}

func TestEmbedOneUsesQueryTaskType(t *testing.T) {
	var gotReq geminiEmbedRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "embedContent")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		json.NewEncoder(w).Encode(geminiEmbedResponse{
			Embedding: geminiEmbedding{Values: testVector(4, 0.5)},
		})
	}))
	defer srv.Close()

	p := NewGeminiProvider("key", "text-embedding-004", 4).WithBaseURL(srv.URL)

	vector, err := p.EmbedOne(context.Background(), "what is osmosis?")
	require.NoError(t, err)
	assert.Equal(t, testVector(4, 0.5), vector)
	assert.Equal(t, TaskTypeQuery, gotReq.TaskType)
}

func TestEmbedDimensionMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(geminiEmbedResponse{
			Embedding: geminiEmbedding{Values: testVector(3, 0.5)},
		})
	}))
	defer srv.Close()

	p := NewGeminiProvider("key", "text-embedding-004", 768).WithBaseURL(srv.URL)

	_, err := p.EmbedOne(context.Background(), "query")
	require.Error(t, err)

	var providerErr *ProviderError
	require.True(t, errors.As(err, &providerErr))
	assert.Contains(t, providerErr.Message, "dimension")
}

func TestEmbedUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	p := NewGeminiProvider("key", "text-embedding-004", 4).WithBaseURL(srv.URL)

	_, err := p.EmbedMany(context.Background(), []string{"chunk"})
	require.Error(t, err)

	var providerErr *ProviderError
	require.True(t, errors.As(err, &providerErr))
	assert.Equal(t, http.StatusTooManyRequests, providerErr.StatusCode)
}

func TestEmbedManyCountMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(geminiBatchEmbedResponse{
			Embeddings: []geminiEmbedding{{Values: testVector(4, 0.1)}},
		})
	}))
	defer srv.Close()

	p := NewGeminiProvider("key", "text-embedding-004", 4).WithBaseURL(srv.URL)

	_, err := p.EmbedMany(context.Background(), []string{"a", "b"})
	require.Error(t, err)

	var providerErr *ProviderError
	assert.True(t, errors.As(err, &providerErr))
}
