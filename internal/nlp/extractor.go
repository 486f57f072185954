package nlp

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/cloo-solutions/vigilai/internal/domain"
)

// machinePattern recognizes machine/line identifiers: "Machine 7",
// "Line 3 conveyor", "Pump A-12", "Conveyor West", "Station 4" and
// "<word> Station" forms.
var machinePattern = regexp.MustCompile(
	`(?i)\b(machine\s+\d+[a-z]?|line\s+\d+[a-z]?\s*\w*|pump\s+[a-z]+-?\d+|` +
		`conveyor\s+\w+|station\s+\w+|[a-z]+\s+station)\b`)

// partVocabulary lists mechanical-component terms recognized by
// substring membership.
var partVocabulary = []string{
	"bearing", "belt", "conveyor belt", "motor", "valve", "seal", "gasket",
	"pump", "filter", "sensor", "gear", "shaft", "coupling", "brake",
	"compressor", "nozzle", "feed mechanism", "packaging station", "roller",
}

// failureVocabulary lists problem/symptom terms. Entries overlap on
// purpose ("leak" is a substring of "oil leak"); a shorter term is never
// suppressed when a longer one also matches.
var failureVocabulary = []string{
	"grinding noise", "noise", "vibration", "leak", "oil leak", "oil slick",
	"temperature spike", "overheating", "jam", "stuck", "broken", "crack",
	"misalignment", "corrosion", "wear", "defect", "failure", "malfunction",
	"pressure drop", "cavitation",
}

// ExtractEntities recognizes machine, part and failure-mode entities in
// raw briefing text. All matching is case-insensitive. Each of the three
// result lists is deduplicated and ordered by first occurrence.
func ExtractEntities(raw string) *domain.EntitySet {
	return &domain.EntitySet{
		Machines:     extractMachines(raw),
		Parts:        matchVocabulary(raw, partVocabulary, domain.EntityTypePart),
		FailureModes: matchVocabulary(raw, failureVocabulary, domain.EntityTypeFailureMode),
	}
}

// extractMachines collects machine pattern matches normalized to a
// canonical display form (trimmed, title-cased), deduplicated on the
// normalized text.
func extractMachines(raw string) []domain.Entity {
	matches := machinePattern.FindAllString(raw, -1)

	seen := make(map[string]bool, len(matches))
	machines := make([]domain.Entity, 0, len(matches))
	for _, m := range matches {
		text := titleCase(strings.TrimSpace(m))
		if seen[text] {
			continue
		}
		seen[text] = true
		machines = append(machines, domain.Entity{Text: text, Type: domain.EntityTypeMachine})
	}
	return machines
}

// matchVocabulary includes each vocabulary term found anywhere in the
// lower-cased text, at most once, in vocabulary order.
func matchVocabulary(raw string, vocabulary []string, entityType domain.EntityType) []domain.Entity {
	lower := strings.ToLower(raw)

	entities := make([]domain.Entity, 0, 4)
	for _, term := range vocabulary {
		if strings.Contains(lower, term) {
			entities = append(entities, domain.Entity{Text: term, Type: entityType})
		}
	}
	return entities
}

// titleCase uppercases the first letter of every word and lowercases the
// rest, treating any non-letter as a word boundary ("pump a-1" becomes
// "Pump A-1").
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
		} else {
			b.WriteRune(r)
			prevLetter = false
		}
	}
	return b.String()
}
