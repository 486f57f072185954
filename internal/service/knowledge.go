package service

import (
	"context"

	"github.com/cloo-solutions/vigilai/internal/domain"
	"github.com/cloo-solutions/vigilai/internal/telemetry"
)

// Embedder generates embedding vectors for text
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// KnowledgeService exposes the aggregated knowledge graph and semantic
// search over it.
type KnowledgeService struct {
	knowledgeRepo KnowledgeRepositoryInterface
	embedder      Embedder
}

// NewKnowledgeService creates a new KnowledgeService. embedder may be
// nil, in which case similarity search is unavailable.
func NewKnowledgeService(knowledgeRepo KnowledgeRepositoryInterface, embedder Embedder) *KnowledgeService {
	return &KnowledgeService{
		knowledgeRepo: knowledgeRepo,
		embedder:      embedder,
	}
}

// Graph returns all knowledge entries ordered by occurrence count, then
// recency.
func (s *KnowledgeService) Graph(ctx context.Context) ([]*domain.KnowledgeEntry, error) {
	ctx, span := telemetry.StartSpan(ctx, "KnowledgeService.Graph", telemetry.SpanAttributes{
		Operation: "graph",
	})
	defer span.End()

	return s.knowledgeRepo.ListRanked(ctx)
}

// Similar returns the knowledge entries closest to the query text by
// embedding distance. Entries without an embedding are skipped.
func (s *KnowledgeService) Similar(ctx context.Context, query string, limit int) ([]*domain.KnowledgeEntry, error) {
	ctx, span := telemetry.StartSpan(ctx, "KnowledgeService.Similar", telemetry.SpanAttributes{
		Operation: "similar",
	})
	defer span.End()

	if s.embedder == nil {
		return nil, domain.ErrSearchNotConfigured
	}
	if query == "" {
		return nil, domain.ErrEmptyQuery
	}
	if limit <= 0 {
		limit = 10
	}

	embedding, err := s.embedder.GenerateEmbedding(ctx, query)
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	return s.knowledgeRepo.SearchSimilar(ctx, embedding, limit)
}
