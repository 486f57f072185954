package jobs

import (
	"context"
	"fmt"
	"log"

	"github.com/cloo-solutions/vigilai/internal/domain"
)

const (
	// BatchSize is the number of knowledge entries embedded per poll
	BatchSize = 25
)

// KnowledgeEmbeddingRepository defines the persistence interface for
// knowledge entry embeddings
type KnowledgeEmbeddingRepository interface {
	ListUnembedded(ctx context.Context, limit int) ([]*domain.KnowledgeEntry, error)
	UpdateEmbedding(ctx context.Context, id int64, embedding []float32) error
}

// EmbeddingGenerator defines the interface for generating embeddings
type EmbeddingGenerator interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// EmbeddingWorker backfills embeddings for knowledge entries that do not
// have one yet, so new and re-described entries become searchable.
type EmbeddingWorker struct {
	repo      KnowledgeEmbeddingRepository
	generator EmbeddingGenerator
}

// NewEmbeddingWorker creates a new EmbeddingWorker instance
func NewEmbeddingWorker(repo KnowledgeEmbeddingRepository, generator EmbeddingGenerator) *EmbeddingWorker {
	return &EmbeddingWorker{
		repo:      repo,
		generator: generator,
	}
}

// ProcessJobs implements the JobProcessor interface
func (w *EmbeddingWorker) ProcessJobs(ctx context.Context) error {
	entries, err := w.repo.ListUnembedded(ctx, BatchSize)
	if err != nil {
		return fmt.Errorf("failed to fetch unembedded entries: %w", err)
	}

	if len(entries) == 0 {
		return nil
	}

	log.Printf("Embedding %d knowledge entries", len(entries))

	for _, entry := range entries {
		text := embeddingText(entry)

		embedding, err := w.generator.GenerateEmbedding(ctx, text)
		if err != nil {
			// Leave the entry unembedded; the next poll retries it.
			log.Printf("Failed to embed knowledge entry %d: %v", entry.ID, err)
			continue
		}

		if err := w.repo.UpdateEmbedding(ctx, entry.ID, embedding); err != nil {
			log.Printf("Failed to store embedding for knowledge entry %d: %v", entry.ID, err)
		}
	}

	return nil
}

// embeddingText builds the text embedded for a knowledge entry. The
// machine and issue type are included so searches like "pump safety"
// match entries whose description mentions neither word.
func embeddingText(entry *domain.KnowledgeEntry) string {
	return fmt.Sprintf("%s %s: %s", entry.MachineID, entry.IssueType, entry.Description)
}
