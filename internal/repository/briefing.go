package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cloo-solutions/vigilai/internal/domain"
	"github.com/cloo-solutions/vigilai/internal/pagination"
	"github.com/cloo-solutions/vigilai/internal/service"
)

type BriefingRepository struct {
	db dbtx
}

func NewBriefingRepository(pool *pgxpool.Pool) *BriefingRepository {
	return &BriefingRepository{db: pool}
}

func NewBriefingRepositoryWithTx(tx pgx.Tx) *BriefingRepository {
	return &BriefingRepository{db: tx}
}

func (r *BriefingRepository) Create(ctx context.Context, b *domain.Briefing) error {
	structured, err := json.Marshal(b.Structured)
	if err != nil {
		return fmt.Errorf("failed to marshal structured briefing: %w", err)
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO briefings (id, raw_text, structured, created_at, shift_label, author)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		b.ID, b.RawText, structured, b.CreatedAt, nullableString(b.ShiftLabel), nullableString(b.Author),
	)
	return err
}

func (r *BriefingRepository) GetByID(ctx context.Context, id string) (*domain.Briefing, error) {
	var b domain.Briefing
	var structured []byte
	var shiftLabel, author *string
	err := r.db.QueryRow(ctx,
		`SELECT id, raw_text, structured, created_at, shift_label, author
		 FROM briefings WHERE id = $1`,
		id,
	).Scan(&b.ID, &b.RawText, &structured, &b.CreatedAt, &shiftLabel, &author)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBriefingNotFound
		}
		return nil, err
	}

	if err := json.Unmarshal(structured, &b.Structured); err != nil {
		return nil, fmt.Errorf("failed to unmarshal structured briefing %s: %w", id, err)
	}
	if shiftLabel != nil {
		b.ShiftLabel = *shiftLabel
	}
	if author != nil {
		b.Author = *author
	}
	return &b, nil
}

func (r *BriefingRepository) ListWithCursor(ctx context.Context, cursor *pagination.Cursor, limit int) (*service.BriefingPageResult, error) {
	if limit <= 0 {
		limit = 20
	}

	var rows pgx.Rows
	var err error

	if cursor != nil {
		rows, err = r.db.Query(ctx,
			`SELECT id, raw_text, structured, created_at, shift_label, author
			 FROM briefings
			 WHERE (created_at, id) < ($1, $2)
			 ORDER BY created_at DESC, id DESC
			 LIMIT $3`,
			cursor.Timestamp, cursor.LastID, limit+1,
		)
	} else {
		rows, err = r.db.Query(ctx,
			`SELECT id, raw_text, structured, created_at, shift_label, author
			 FROM briefings
			 ORDER BY created_at DESC, id DESC
			 LIMIT $1`,
			limit+1,
		)
	}

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items, err := scanBriefingRows(rows)
	if err != nil {
		return nil, err
	}

	hasMore := len(items) > limit
	if hasMore {
		items = items[:limit]
	}

	var nextCursor string
	if hasMore && len(items) > 0 {
		lastItem := items[len(items)-1]
		nextCursor = pagination.EncodeCursor(lastItem.ID, lastItem.CreatedAt)
	}

	return &service.BriefingPageResult{
		Items:      items,
		NextCursor: nextCursor,
		HasMore:    hasMore,
	}, nil
}

func (r *BriefingRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM briefings WHERE id = $1)`,
		id,
	).Scan(&exists)
	return exists, err
}

func (r *BriefingRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM briefings`).Scan(&count)
	return count, err
}

func scanBriefingRows(rows pgx.Rows) ([]*domain.Briefing, error) {
	var results []*domain.Briefing
	for rows.Next() {
		var b domain.Briefing
		var structured []byte
		var shiftLabel, author *string
		if err := rows.Scan(&b.ID, &b.RawText, &structured, &b.CreatedAt, &shiftLabel, &author); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(structured, &b.Structured); err != nil {
			return nil, fmt.Errorf("failed to unmarshal structured briefing %s: %w", b.ID, err)
		}
		if shiftLabel != nil {
			b.ShiftLabel = *shiftLabel
		}
		if author != nil {
			b.Author = *author
		}
		results = append(results, &b)
	}
	return results, rows.Err()
}
