// Package nlp implements the deterministic fallback pipeline used when
// the AI delegate is unavailable: sentence-level briefing structuring,
// keyword/pattern entity extraction, and item-to-entity tagging.
package nlp

import (
	"fmt"
	"strings"

	"github.com/cloo-solutions/vigilai/internal/domain"
)

const (
	// titleMaxRunes is the cut-off beyond which item titles are truncated.
	titleMaxRunes = 60

	fallbackMachineID = "Unspecified"
	fallbackAction    = "Review and address as needed"
)

// classificationRule assigns a category and severity to any sentence
// containing one of its keywords.
type classificationRule struct {
	keywords []string
	category domain.Category
	severity domain.Severity
}

// classificationRules is evaluated top to bottom; the first rule with a
// matching keyword wins and no further rules are consulted. Sentences
// matching no rule fall through to general/info.
var classificationRules = []classificationRule{
	{
		keywords: []string{"danger", "safety", "hazard", "leak", "warning"},
		category: domain.CategorySafety,
		severity: domain.SeverityCritical,
	},
	{
		keywords: []string{"broken", "fail", "repair", "fix", "maintenance", "vibrat"},
		category: domain.CategoryMaintenance,
		severity: domain.SeverityWarning,
	},
	{
		keywords: []string{"defect", "quality", "inspect", "reject"},
		category: domain.CategoryQuality,
		severity: domain.SeverityWarning,
	},
	{
		keywords: []string{"output", "rate", "target", "production", "slow"},
		category: domain.CategoryProduction,
		severity: domain.SeverityInfo,
	},
}

// StructureBriefing segments raw briefing text into classified items.
// One item is produced per non-empty period-delimited sentence, in
// source order. The result is fully deterministic: identical input
// always yields identical output. Empty or whitespace-only input yields
// zero items.
func StructureBriefing(raw string) *domain.StructuredBriefing {
	sentences := splitSentences(raw)

	items := make([]domain.BriefingItem, 0, len(sentences))
	for i, sentence := range sentences {
		category, severity := classifySentence(sentence)
		items = append(items, domain.BriefingItem{
			ID:             i + 1,
			MachineID:      fallbackMachineID,
			Category:       category,
			Severity:       severity,
			Title:          truncateTitle(sentence),
			Details:        sentence,
			ActionRequired: fallbackAction,
			Entities:       []domain.Entity{},
		})
	}

	return &domain.StructuredBriefing{
		Summary:           fmt.Sprintf("Shift briefing with %d items parsed.", len(items)),
		Items:             items,
		MachinesMentioned: []string{},
		RecurringPatterns: []string{},
	}
}

// splitSentences normalizes newlines to sentence breaks and splits on
// periods, dropping empty fragments. No merging and no further NLP.
func splitSentences(raw string) []string {
	normalized := strings.ReplaceAll(raw, "\n", ". ")

	var sentences []string
	for _, fragment := range strings.Split(normalized, ".") {
		if s := strings.TrimSpace(fragment); s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

func classifySentence(sentence string) (domain.Category, domain.Severity) {
	lower := strings.ToLower(sentence)
	for _, rule := range classificationRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(lower, keyword) {
				return rule.category, rule.severity
			}
		}
	}
	return domain.CategoryGeneral, domain.SeverityInfo
}

// truncateTitle shortens a sentence to titleMaxRunes runes, marking the
// cut with an ellipsis. Sentences at or under the limit pass through
// unchanged.
func truncateTitle(sentence string) string {
	runes := []rune(sentence)
	if len(runes) <= titleMaxRunes {
		return sentence
	}
	return string(runes[:titleMaxRunes]) + "..."
}
