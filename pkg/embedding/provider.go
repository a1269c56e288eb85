package embedding

import (
	"context"
	"fmt"
)

// Task types for asymmetric embedding models: documents and queries are
// embedded differently.
const (
	TaskTypeDocument = "RETRIEVAL_DOCUMENT"
	TaskTypeQuery    = "RETRIEVAL_QUERY"
)

// Provider converts text into fixed-dimension vectors. It is a remote
// dependency; all failures surface as *ProviderError and retry policy is
// the caller's concern.
type Provider interface {
	// EmbedMany embeds a batch of document chunks in one call.
	EmbedMany(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedOne embeds a single query string.
	EmbedOne(ctx context.Context, text string) ([]float32, error)

	// Dimension returns the provider's output vector dimension.
	Dimension() int
}

// ProviderError wraps any failure talking to the embedding backend
// (network, rate limit, malformed response).
type ProviderError struct {
	StatusCode int // 0 when the request never got a response
	Message    string
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("embedding provider error (status %d): %s", e.StatusCode, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("embedding provider error: %v", e.Err)
	}
	return fmt.Sprintf("embedding provider error: %s", e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
