package ai

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

const (
	// DefaultEmbeddingModel is the OpenAI model used for generating embeddings
	DefaultEmbeddingModel = openai.AdaEmbeddingV2
	// DefaultEmbeddingDimensions is the expected dimension of embeddings from ada-002
	DefaultEmbeddingDimensions = 1536
)

var (
	// ErrEmptyText is returned when text is empty
	ErrEmptyText = errors.New("text cannot be empty")
	// ErrWrongDimensions is returned when an embedding has unexpected dimensions
	ErrWrongDimensions = errors.New("embedding has wrong dimensions")
)

// EmbeddingAPI defines the interface for embedding generation
type EmbeddingAPI interface {
	CreateEmbeddings(ctx context.Context, req openai.EmbeddingRequestConverter) (openai.EmbeddingResponse, error)
}

// EmbeddingClient generates embeddings for knowledge-entry descriptions
type EmbeddingClient struct {
	api        EmbeddingAPI
	model      openai.EmbeddingModel
	dimensions int
}

// NewEmbeddingClient creates an embedding client using defaults
func NewEmbeddingClient(apiKey string) *EmbeddingClient {
	return &EmbeddingClient{
		api:        openai.NewClient(apiKey),
		model:      DefaultEmbeddingModel,
		dimensions: DefaultEmbeddingDimensions,
	}
}

// NewEmbeddingClientWithAPI creates an embedding client with an explicit API implementation (for testing)
func NewEmbeddingClientWithAPI(api EmbeddingAPI) *EmbeddingClient {
	return &EmbeddingClient{
		api:        api,
		model:      DefaultEmbeddingModel,
		dimensions: DefaultEmbeddingDimensions,
	}
}

// GenerateEmbedding generates an embedding for the given text
func (c *EmbeddingClient) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, ErrEmptyText
	}

	resp, err := c.api.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: c.model,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, errors.New("no embedding data returned")
	}

	embedding := resp.Data[0].Embedding
	if len(embedding) != c.dimensions {
		return nil, ErrWrongDimensions
	}
	return embedding, nil
}
