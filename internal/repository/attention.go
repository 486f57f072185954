package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cloo-solutions/vigilai/internal/domain"
)

type AttentionRepository struct {
	db dbtx
}

func NewAttentionRepository(pool *pgxpool.Pool) *AttentionRepository {
	return &AttentionRepository{db: pool}
}

func NewAttentionRepositoryWithTx(tx pgx.Tx) *AttentionRepository {
	return &AttentionRepository{db: tx}
}

func (r *AttentionRepository) CreateBatch(ctx context.Context, logs []*domain.AttentionLog) error {
	for _, l := range logs {
		err := r.db.QueryRow(ctx,
			`INSERT INTO attention_logs
				(briefing_id, item_index, avg_engagement, avg_focus, time_spent_ms, flagged_missed, logged_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 RETURNING id`,
			l.BriefingID, l.ItemIndex, l.AvgEngagement, l.AvgFocus, l.TimeSpentMS, l.FlaggedMissed, l.LoggedAt,
		).Scan(&l.ID)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *AttentionRepository) ListMissed(ctx context.Context, briefingID string) ([]*domain.AttentionLog, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, briefing_id, item_index, avg_engagement, avg_focus, time_spent_ms, flagged_missed, logged_at
		 FROM attention_logs
		 WHERE briefing_id = $1 AND flagged_missed
		 ORDER BY item_index ASC, id ASC`,
		briefingID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*domain.AttentionLog
	for rows.Next() {
		var l domain.AttentionLog
		if err := rows.Scan(&l.ID, &l.BriefingID, &l.ItemIndex, &l.AvgEngagement, &l.AvgFocus,
			&l.TimeSpentMS, &l.FlaggedMissed, &l.LoggedAt); err != nil {
			return nil, err
		}
		results = append(results, &l)
	}
	return results, rows.Err()
}
