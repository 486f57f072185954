package domain

import "time"

// Knowledge key sentinels used when an item carries no usable value.
const (
	UnknownMachine   = "Unknown"
	DefaultIssueType = string(CategoryGeneral)
)

// KnowledgeEntry is a durable cross-briefing aggregate of one recurring
// issue. Exactly one entry exists per (MachineID, IssueType, Description)
// triple; repeated observations bump OccurrenceCount and overwrite
// Severity and EntityTags. FirstSeen never changes after creation.
type KnowledgeEntry struct {
	ID              int64
	MachineID       string
	IssueType       string
	Description     string
	Severity        Severity
	FirstSeen       time.Time
	LastSeen        time.Time
	OccurrenceCount int
	EntityTags      []Entity
}

// KnowledgeKey identifies a KnowledgeEntry. Matching is exact and
// case-sensitive on all three fields.
type KnowledgeKey struct {
	MachineID   string
	IssueType   string
	Description string
}

// KnowledgeKeyFor derives the aggregation key for a briefing item,
// applying the sentinel defaults for absent fields. Missing fields are
// defaulted, never rejected.
func KnowledgeKeyFor(item *BriefingItem) KnowledgeKey {
	key := KnowledgeKey{
		MachineID:   item.MachineID,
		IssueType:   string(item.Category),
		Description: item.Title,
	}
	if key.MachineID == "" {
		key.MachineID = UnknownMachine
	}
	if key.IssueType == "" {
		key.IssueType = DefaultIssueType
	}
	return key
}
