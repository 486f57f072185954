package domain

import "time"

// Attention thresholds below which an item counts as missed.
const (
	MinEngagement = 0.4
	MinFocus      = 0.35
)

// AttentionLog records how an incoming worker engaged with one briefing
// item. FlaggedMissed is always derived server-side, never supplied.
type AttentionLog struct {
	ID            int64
	BriefingID    string
	ItemIndex     int
	AvgEngagement float64
	AvgFocus      float64
	TimeSpentMS   int64
	FlaggedMissed bool
	LoggedAt      time.Time
}

// MissedAttention reports whether an item was effectively skipped.
// Either signal dropping below its threshold flags the item, regardless
// of the other.
func MissedAttention(avgEngagement, avgFocus float64) bool {
	return avgEngagement < MinEngagement || avgFocus < MinFocus
}
