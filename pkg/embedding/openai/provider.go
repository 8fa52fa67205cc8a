package openai

import (
	"context"
	"fmt"

	"classroom-ai-be/pkg/embedding"

	sdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type OpenAIProvider struct {
	client sdk.Client
	Model  string
}

var _ embedding.Provider = &OpenAIProvider{}

func NewOpenAIProvider(apiKey, baseURL, model string) *OpenAIProvider {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if model == "" {
		model = "text-embedding-3-small"
	}
	return &OpenAIProvider{
		client: sdk.NewClient(opts...),
		Model:  model,
	}
}

func (p *OpenAIProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	resp, err := p.client.Embeddings.New(ctx, sdk.EmbeddingNewParams{
		Input: sdk.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
		Model: sdk.EmbeddingModel(p.Model),
	})
	if err != nil {
		return nil, fmt.Errorf("openai embeddings: %w", err)
	}

	// the API may return data out of order; index is authoritative
	vectors := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || int(d.Index) >= len(texts) {
			return nil, fmt.Errorf("openai embeddings: index %d out of range", d.Index)
		}
		vectors[d.Index] = embedding.ToFloat32(d.Embedding)
	}
	for i, v := range vectors {
		if v == nil {
			return nil, fmt.Errorf("%w: missing embedding %d", embedding.ErrCountMismatch, i)
		}
	}

	if err := embedding.CheckBatch(texts, vectors); err != nil {
		return nil, err
	}
	return vectors, nil
}
