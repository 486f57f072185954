package domain

import (
	"fmt"
	"time"
)

// Category classifies a briefing item by the kind of issue it reports
type Category string

const (
	CategorySafety      Category = "safety"
	CategoryMaintenance Category = "maintenance"
	CategoryQuality     Category = "quality"
	CategoryProduction  Category = "production"
	CategoryGeneral     Category = "general"
)

// Severity grades how urgently an item needs attention
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// EntityType is the kind of manufacturing entity recognized in text
type EntityType string

const (
	EntityTypeMachine     EntityType = "machine"
	EntityTypePart        EntityType = "part"
	EntityTypeFailureMode EntityType = "failure_mode"
)

// Entity is a named entity recognized in briefing text
type Entity struct {
	Text string     `json:"text"`
	Type EntityType `json:"type"`
}

// EntitySet groups extracted entities by type. Each list is internally
// deduplicated; the three lists are independent and may overlap in text.
type EntitySet struct {
	Machines     []Entity `json:"machines"`
	Parts        []Entity `json:"parts"`
	FailureModes []Entity `json:"failure_modes"`
}

// BriefingItem is one issue extracted from a briefing. Items are created
// once by structuring and never edited in place; the tagger attaches
// entities and everything downstream reads them.
type BriefingItem struct {
	ID             int      `json:"id"`
	MachineID      string   `json:"machine_id"`
	Category       Category `json:"category"`
	Severity       Severity `json:"severity"`
	Title          string   `json:"title"`
	Details        string   `json:"details"`
	ActionRequired string   `json:"action_required"`
	Entities       []Entity `json:"entities"`
}

// StructuredBriefing is the parsed form of one raw submission, persisted
// verbatim alongside the raw text.
type StructuredBriefing struct {
	Summary           string         `json:"summary"`
	Items             []BriefingItem `json:"items"`
	MachinesMentioned []string       `json:"machines_mentioned"`
	RecurringPatterns []string       `json:"recurring_patterns"`
	Entities          *EntitySet     `json:"entities,omitempty"`
}

// Briefing is a persisted shift-handoff record
type Briefing struct {
	ID         string
	RawText    string
	Structured *StructuredBriefing
	CreatedAt  time.Time
	ShiftLabel string
	Author     string
}

// ValidateBriefing validates a Briefing instance
func ValidateBriefing(b *Briefing) error {
	if b == nil {
		return fmt.Errorf("briefing cannot be nil")
	}
	if b.ID == "" {
		return fmt.Errorf("briefing ID is required")
	}
	if b.RawText == "" {
		return fmt.Errorf("briefing RawText is required")
	}
	if b.Structured == nil {
		return fmt.Errorf("briefing Structured is required")
	}
	return nil
}

// IsValidCategory checks if a Category is one of the known values
func IsValidCategory(c Category) bool {
	switch c {
	case CategorySafety, CategoryMaintenance, CategoryQuality,
		CategoryProduction, CategoryGeneral:
		return true
	}
	return false
}

// IsValidSeverity checks if a Severity is one of the known values
func IsValidSeverity(s Severity) bool {
	switch s {
	case SeverityCritical, SeverityWarning, SeverityInfo:
		return true
	}
	return false
}

// IsValidEntityType checks if an EntityType is one of the known values
func IsValidEntityType(t EntityType) bool {
	switch t {
	case EntityTypeMachine, EntityTypePart, EntityTypeFailureMode:
		return true
	}
	return false
}

// AllEntities returns the set flattened into one list in machine, part,
// failure-mode order. The lists are concatenated as-is, without
// cross-list deduplication.
func (s *EntitySet) AllEntities() []Entity {
	if s == nil {
		return nil
	}
	all := make([]Entity, 0, len(s.Machines)+len(s.Parts)+len(s.FailureModes))
	all = append(all, s.Machines...)
	all = append(all, s.Parts...)
	all = append(all, s.FailureModes...)
	return all
}
