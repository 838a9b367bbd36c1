// Package search ranks vector records against a query embedding and blends
// ranked results from multiple stores into a bounded context block.
package search

import (
	"fmt"
	"math"
	"sort"

	"github.com/viterin/vek/vek32"

	"github.com/recallio/recall/pkg/models"
)

// CosineSimilarity scores two equal-width vectors. A zero-magnitude vector
// on either side scores 0 rather than NaN, so padding or empty-text
// embeddings sink to the bottom of any ranking.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, models.NewDataIntegrityError(
			fmt.Sprintf("cannot compare embeddings of width %d and %d", len(a), len(b)), nil,
		)
	}
	if len(a) == 0 {
		return 0, nil
	}

	score := float64(vek32.CosineSimilarity(a, b))
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return 0, nil
	}
	return score, nil
}

// Rank scores every record against the query embedding and returns the topK
// best in descending score order. Equal scores keep insertion order. topK
// larger than the record count returns everything; an empty store returns an
// empty slice.
func Rank(queryEmbedding []float32, records []models.VectorRecord, topK int) ([]models.RankedResult, error) {
	if topK <= 0 || len(records) == 0 {
		return []models.RankedResult{}, nil
	}

	ranked := make([]models.RankedResult, len(records))
	for i, record := range records {
		score, err := CosineSimilarity(queryEmbedding, record.Embedding)
		if err != nil {
			return nil, err
		}
		ranked[i] = models.RankedResult{Record: record, Score: score}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if topK < len(ranked) {
		ranked = ranked[:topK]
	}
	return ranked, nil
}
