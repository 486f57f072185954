package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/cloo-solutions/vigilai/internal/domain"
)

type KnowledgeRepository struct {
	db dbtx
}

func NewKnowledgeRepository(pool *pgxpool.Pool) *KnowledgeRepository {
	return &KnowledgeRepository{db: pool}
}

func NewKnowledgeRepositoryWithTx(tx pgx.Tx) *KnowledgeRepository {
	return &KnowledgeRepository{db: tx}
}

// Upsert records one observation of an issue. The insert and the
// occurrence bump are a single statement, so concurrent observations of
// the same key cannot race into duplicate rows or lost counts.
func (r *KnowledgeRepository) Upsert(ctx context.Context, key domain.KnowledgeKey, severity domain.Severity, entityTags []domain.Entity, observedAt time.Time) error {
	if entityTags == nil {
		entityTags = []domain.Entity{}
	}
	tags, err := json.Marshal(entityTags)
	if err != nil {
		return fmt.Errorf("failed to marshal entity tags: %w", err)
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO knowledge_entries
			(machine_id, issue_type, description, severity, first_seen, last_seen, occurrence_count, entity_tags)
		 VALUES ($1, $2, $3, $4, $5, $5, 1, $6)
		 ON CONFLICT (machine_id, issue_type, description) DO UPDATE SET
			occurrence_count = knowledge_entries.occurrence_count + 1,
			last_seen = EXCLUDED.last_seen,
			severity = EXCLUDED.severity,
			entity_tags = EXCLUDED.entity_tags`,
		key.MachineID, key.IssueType, key.Description, severity, observedAt, tags,
	)
	return err
}

// GetByKey fetches one entry by its aggregation key.
func (r *KnowledgeRepository) GetByKey(ctx context.Context, key domain.KnowledgeKey) (*domain.KnowledgeEntry, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, machine_id, issue_type, description, severity, first_seen, last_seen, occurrence_count, entity_tags
		 FROM knowledge_entries
		 WHERE machine_id = $1 AND issue_type = $2 AND description = $3`,
		key.MachineID, key.IssueType, key.Description,
	)
	entry, err := scanKnowledgeEntry(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrKnowledgeEntryNotFound
		}
		return nil, err
	}
	return entry, nil
}

// ListRanked returns all entries, most frequent first, ties broken by
// recency.
func (r *KnowledgeRepository) ListRanked(ctx context.Context) ([]*domain.KnowledgeEntry, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, machine_id, issue_type, description, severity, first_seen, last_seen, occurrence_count, entity_tags
		 FROM knowledge_entries
		 ORDER BY occurrence_count DESC, last_seen DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanKnowledgeRows(rows)
}

// ListUnembedded returns entries that do not have an embedding yet,
// oldest first.
func (r *KnowledgeRepository) ListUnembedded(ctx context.Context, limit int) ([]*domain.KnowledgeEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.Query(ctx,
		`SELECT id, machine_id, issue_type, description, severity, first_seen, last_seen, occurrence_count, entity_tags
		 FROM knowledge_entries
		 WHERE embedding IS NULL
		 ORDER BY first_seen ASC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanKnowledgeRows(rows)
}

func (r *KnowledgeRepository) UpdateEmbedding(ctx context.Context, id int64, embedding []float32) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE knowledge_entries SET embedding = $1 WHERE id = $2`,
		pgvector.NewVector(embedding), id,
	)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrKnowledgeEntryNotFound
	}
	return nil
}

// SearchSimilar returns the entries nearest to the query embedding by
// cosine distance. Entries without an embedding are excluded.
func (r *KnowledgeRepository) SearchSimilar(ctx context.Context, embedding []float32, limit int) ([]*domain.KnowledgeEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.db.Query(ctx,
		`SELECT id, machine_id, issue_type, description, severity, first_seen, last_seen, occurrence_count, entity_tags
		 FROM knowledge_entries
		 WHERE embedding IS NOT NULL
		 ORDER BY embedding <=> $1
		 LIMIT $2`,
		pgvector.NewVector(embedding), limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanKnowledgeRows(rows)
}

type knowledgeScanner interface {
	Scan(dest ...any) error
}

func scanKnowledgeEntry(row knowledgeScanner) (*domain.KnowledgeEntry, error) {
	var e domain.KnowledgeEntry
	var tags []byte
	err := row.Scan(&e.ID, &e.MachineID, &e.IssueType, &e.Description, &e.Severity,
		&e.FirstSeen, &e.LastSeen, &e.OccurrenceCount, &tags)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(tags, &e.EntityTags); err != nil {
		return nil, fmt.Errorf("failed to unmarshal entity tags for entry %d: %w", e.ID, err)
	}
	return &e, nil
}

func scanKnowledgeRows(rows pgx.Rows) ([]*domain.KnowledgeEntry, error) {
	var results []*domain.KnowledgeEntry
	for rows.Next() {
		entry, err := scanKnowledgeEntry(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, entry)
	}
	return results, rows.Err()
}
