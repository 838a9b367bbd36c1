package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recallio/recall/pkg/models"
)

func resultSet(label string, results ...models.RankedResult) models.ResultSet {
	return models.ResultSet{Label: label, Results: results}
}

func ranked(text string, score float64) models.RankedResult {
	return models.RankedResult{Record: models.VectorRecord{Text: text}, Score: score}
}

func labels(items []models.ContextItem) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Label
	}
	return out
}

func texts(items []models.ContextItem) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Text
	}
	return out
}

func TestBlend_KeepsSectionOrder(t *testing.T) {
	items := Blend([]models.ResultSet{
		resultSet("Relevant memory", ranked("likes tea", 0.9)),
		resultSet("Relevant documents", ranked("tea is a beverage", 0.8), ranked("tea ceremony", 0.7)),
	}, 6)

	require.Len(t, items, 3)
	assert.Equal(t, []string{"Relevant memory", "Relevant documents", "Relevant documents"}, labels(items))
	assert.Equal(t, []string{"likes tea", "tea is a beverage", "tea ceremony"}, texts(items))
}

func TestBlend_OmitsEmptySections(t *testing.T) {
	items := Blend([]models.ResultSet{
		resultSet("Relevant memory"),
		resultSet("Relevant documents",
			ranked("doc one", 0.9), ranked("doc two", 0.8), ranked("doc three", 0.7)),
	}, 6)

	require.Len(t, items, 3)
	for _, item := range items {
		assert.Equal(t, "Relevant documents", item.Label)
	}
}

func TestBlend_DedupesExactTextToFirstAppearance(t *testing.T) {
	items := Blend([]models.ResultSet{
		resultSet("Relevant memory", ranked("shared fact", 0.5)),
		resultSet("Relevant documents", ranked("shared fact", 0.9), ranked("unique doc", 0.4)),
	}, 6)

	require.Len(t, items, 2)
	assert.Equal(t, "Relevant memory", items[0].Label)
	assert.Equal(t, "shared fact", items[0].Text)
	assert.Equal(t, "unique doc", items[1].Text)
}

func TestBlend_CapDropsLowestScoresAcrossSections(t *testing.T) {
	items := Blend([]models.ResultSet{
		resultSet("Relevant memory", ranked("m1", 0.9), ranked("m2", 0.2)),
		resultSet("Relevant documents", ranked("d1", 0.8), ranked("d2", 0.3)),
	}, 3)

	// m2 has the lowest score and is the one dropped; survivors keep their
	// section order
	require.Len(t, items, 3)
	assert.Equal(t, []string{"m1", "d1", "d2"}, texts(items))
}

func TestBlend_CapTieDropsLaterAppearance(t *testing.T) {
	items := Blend([]models.ResultSet{
		resultSet("Relevant memory", ranked("m1", 0.5)),
		resultSet("Relevant documents", ranked("d1", 0.5), ranked("d2", 0.5)),
	}, 2)

	require.Len(t, items, 2)
	assert.Equal(t, []string{"m1", "d1"}, texts(items))
}

func TestBlend_UnboundedAndEmptyInput(t *testing.T) {
	assert.Empty(t, Blend(nil, 6))
	assert.Empty(t, Blend([]models.ResultSet{resultSet("Relevant memory")}, 0))

	items := Blend([]models.ResultSet{
		resultSet("Relevant documents", ranked("a", 0.1), ranked("b", 0.2)),
	}, 0)
	assert.Len(t, items, 2)
}
