package nlp

import (
	"strings"

	"github.com/cloo-solutions/vigilai/internal/domain"
)

// TagItems annotates each item with the entities whose text appears in
// it. Matching is pure lowercase substring containment against the
// item's title and details; no tokenization or word-boundary checks. An
// entity may attach to any number of items and an item may collect any
// number of entities, in entity-list order (machines, parts, failure
// modes). Items are modified in place.
func TagItems(items []domain.BriefingItem, entities *domain.EntitySet) {
	all := entities.AllEntities()

	for i := range items {
		itemText := strings.ToLower(items[i].Title + " " + items[i].Details)

		matched := make([]domain.Entity, 0, len(all))
		for _, ent := range all {
			if strings.Contains(itemText, strings.ToLower(ent.Text)) {
				matched = append(matched, ent)
			}
		}
		items[i].Entities = matched
	}
}
