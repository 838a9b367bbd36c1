package search

import (
	"sort"

	"github.com/recallio/recall/pkg/models"
)

// Blend merges ranked result sets into a flat list of labeled context
// items. Sections keep the order they were supplied in, empty sections are
// omitted, and a text appearing in more than one section is kept only at
// its first appearance. When the combined results exceed maxTotal, the
// lowest-scoring items are dropped across all sections; the survivors keep
// their section order. maxTotal <= 0 means unbounded.
func Blend(sets []models.ResultSet, maxTotal int) []models.ContextItem {
	type candidate struct {
		item  models.ContextItem
		score float64
		order int
	}

	seen := make(map[string]struct{})
	var candidates []candidate
	for _, set := range sets {
		for _, result := range set.Results {
			if _, dup := seen[result.Record.Text]; dup {
				continue
			}
			seen[result.Record.Text] = struct{}{}
			candidates = append(candidates, candidate{
				item:  models.ContextItem{Label: set.Label, Text: result.Record.Text},
				score: result.Score,
				order: len(candidates),
			})
		}
	}

	if maxTotal > 0 && len(candidates) > maxTotal {
		// rank candidates by score to pick survivors; a tie survives at its
		// earlier appearance
		byScore := make([]candidate, len(candidates))
		copy(byScore, candidates)
		sort.SliceStable(byScore, func(i, j int) bool {
			return byScore[i].score > byScore[j].score
		})

		keep := make(map[int]struct{}, maxTotal)
		for _, c := range byScore[:maxTotal] {
			keep[c.order] = struct{}{}
		}

		kept := candidates[:0]
		for _, c := range candidates {
			if _, ok := keep[c.order]; ok {
				kept = append(kept, c)
			}
		}
		candidates = kept
	}

	items := make([]models.ContextItem, len(candidates))
	for i, c := range candidates {
		items[i] = c.item
	}
	return items
}
