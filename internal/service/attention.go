package service

import (
	"context"
	"time"

	"github.com/cloo-solutions/vigilai/internal/domain"
	"github.com/cloo-solutions/vigilai/internal/telemetry"
)

// AttentionService records reading-attention telemetry for briefings and
// derives the missed flag from the engagement and focus thresholds.
type AttentionService struct {
	attentionRepo AttentionRepositoryInterface
	briefingRepo  BriefingRepositoryInterface
	txRunner      TxRunnerInterface
}

// NewAttentionService creates a new AttentionService
func NewAttentionService(
	attentionRepo AttentionRepositoryInterface,
	briefingRepo BriefingRepositoryInterface,
	txRunner TxRunnerInterface,
) *AttentionService {
	return &AttentionService{
		attentionRepo: attentionRepo,
		briefingRepo:  briefingRepo,
		txRunner:      txRunner,
	}
}

// AttentionSample is one per-item reading measurement from the client
type AttentionSample struct {
	ItemIndex     int     `json:"item_index"`
	AvgEngagement float64 `json:"avg_engagement"`
	AvgFocus      float64 `json:"avg_focus"`
	TimeSpentMs   int64   `json:"time_spent_ms"`
}

// LogBatch stores a batch of attention samples for a briefing. The
// flagged_missed value is always derived server-side; the whole batch is
// written atomically. Returns the number of samples flagged as missed.
func (s *AttentionService) LogBatch(ctx context.Context, briefingID string, samples []AttentionSample) (int, error) {
	ctx, span := telemetry.StartSpan(ctx, "AttentionService.LogBatch", telemetry.SpanAttributes{
		BriefingID: briefingID,
		Operation:  "log_attention",
	})
	defer span.End()

	now := time.Now().UTC()
	missed := 0

	err := s.txRunner.WithTx(ctx, func(repos TxRepositories) error {
		exists, err := repos.Briefings().Exists(ctx, briefingID)
		if err != nil {
			return err
		}
		if !exists {
			return domain.ErrBriefingNotFound
		}

		logs := make([]*domain.AttentionLog, 0, len(samples))
		for _, sample := range samples {
			if sample.ItemIndex < 0 {
				return domain.ErrInvalidItemIndex
			}
			flagged := domain.MissedAttention(sample.AvgEngagement, sample.AvgFocus)
			if flagged {
				missed++
			}
			logs = append(logs, &domain.AttentionLog{
				BriefingID:    briefingID,
				ItemIndex:     sample.ItemIndex,
				AvgEngagement: sample.AvgEngagement,
				AvgFocus:      sample.AvgFocus,
				TimeSpentMS:   sample.TimeSpentMs,
				FlaggedMissed: flagged,
				LoggedAt:      now,
			})
		}

		return repos.Attention().CreateBatch(ctx, logs)
	})
	if err != nil {
		return 0, err
	}

	return missed, nil
}

// ListMissed returns the attention logs flagged as missed for a briefing
func (s *AttentionService) ListMissed(ctx context.Context, briefingID string) ([]*domain.AttentionLog, error) {
	ctx, span := telemetry.StartSpan(ctx, "AttentionService.ListMissed", telemetry.SpanAttributes{
		BriefingID: briefingID,
		Operation:  "list_missed",
	})
	defer span.End()

	exists, err := s.briefingRepo.Exists(ctx, briefingID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrBriefingNotFound
	}

	return s.attentionRepo.ListMissed(ctx, briefingID)
}
