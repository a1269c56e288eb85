package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1"

type GeminiProvider struct {
	apiKey    string
	model     string
	dimension int
	baseURL   string
	client    *http.Client
}

// NewGeminiProvider builds a provider for the Gemini embedContent API.
// model is e.g. "text-embedding-004" (768 dimensions).
func NewGeminiProvider(apiKey, model string, dimension int) *GeminiProvider {
	return &GeminiProvider{
		apiKey:    apiKey,
		model:     model,
		dimension: dimension,
		baseURL:   defaultGeminiBaseURL,
		client:    &http.Client{},
	}
}

// WithBaseURL overrides the API endpoint, mainly for tests.
func (p *GeminiProvider) WithBaseURL(baseURL string) *GeminiProvider {
	p.baseURL = baseURL
	return p
}

func (p *GeminiProvider) Dimension() int {
	return p.dimension
}

type geminiContentPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiContentPart `json:"parts"`
}

type geminiEmbedRequest struct {
	Model    string        `json:"model"`
	Content  geminiContent `json:"content"`
	TaskType string        `json:"taskType,omitempty"`
}

type geminiBatchEmbedRequest struct {
	Requests []geminiEmbedRequest `json:"requests"`
}

type geminiEmbedding struct {
	Values []float32 `json:"values"`
}

type geminiEmbedResponse struct {
	Embedding geminiEmbedding `json:"embedding"`
}

type geminiBatchEmbedResponse struct {
	Embeddings []geminiEmbedding `json:"embeddings"`
}

func (p *GeminiProvider) EmbedMany(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	batch := geminiBatchEmbedRequest{
		Requests: make([]geminiEmbedRequest, len(texts)),
	}
	for i, text := range texts {
		batch.Requests[i] = geminiEmbedRequest{
			Model:    "models/" + p.model,
			Content:  geminiContent{Parts: []geminiContentPart{{Text: text}}},
			TaskType: TaskTypeDocument,
		}
	}

	endpoint := fmt.Sprintf("%s/models/%s:batchEmbedContents", p.baseURL, p.model)
	body, err := p.post(ctx, endpoint, batch)
	if err != nil {
		return nil, err
	}

	var res geminiBatchEmbedResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, &ProviderError{Message: "invalid batch embedding response", Err: err}
	}
	if len(res.Embeddings) != len(texts) {
		return nil, &ProviderError{
			Message: fmt.Sprintf("expected %d embeddings, got %d", len(texts), len(res.Embeddings)),
		}
	}

	vectors := make([][]float32, len(res.Embeddings))
	for i, e := range res.Embeddings {
		if len(e.Values) != p.dimension {
			return nil, &ProviderError{
				Message: fmt.Sprintf("embedding %d has dimension %d, expected %d", i, len(e.Values), p.dimension),
			}
		}
		vectors[i] = e.Values
	}
	return vectors, nil
}

func (p *GeminiProvider) EmbedOne(ctx context.Context, text string) ([]float32, error) {
	req := geminiEmbedRequest{
		Model:    "models/" + p.model,
		Content:  geminiContent{Parts: []geminiContentPart{{Text: text}}},
		TaskType: TaskTypeQuery,
	}

	endpoint := fmt.Sprintf("%s/models/%s:embedContent", p.baseURL, p.model)
	body, err := p.post(ctx, endpoint, req)
	if err != nil {
		return nil, err
	}

	var res geminiEmbedResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, &ProviderError{Message: "invalid embedding response", Err: err}
	}
	if len(res.Embedding.Values) != p.dimension {
		return nil, &ProviderError{
			Message: fmt.Sprintf("embedding has dimension %d, expected %d", len(res.Embedding.Values), p.dimension),
		}
	}
	return res.Embedding.Values, nil
}

func (p *GeminiProvider) post(ctx context.Context, endpoint string, payload interface{}) ([]byte, error) {
	payloadJson, err := json.Marshal(payload)
	if err != nil {
		return nil, &ProviderError{Message: "failed to marshal request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(payloadJson))
	if err != nil {
		return nil, &ProviderError{Message: "failed to build request", Err: err}
	}
	req.Header.Set("x-goog-api-key", p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := p.client.Do(req)
	if err != nil {
		return nil, &ProviderError{Err: err}
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, &ProviderError{Err: err}
	}

	if res.StatusCode != http.StatusOK {
		return nil, &ProviderError{
			StatusCode: res.StatusCode,
			Message:    string(resBody),
		}
	}
	return resBody, nil
}
