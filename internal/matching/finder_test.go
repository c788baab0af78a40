package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindMatchesBestCandidate(t *testing.T) {
	newRecords := []Record{
		{ID: "u1", Name: "Farmlands Te Puke"},
	}
	historical := []Record{
		{ID: "5", Name: "Farmlands - Te Puke"},
		{ID: "6", Name: "Farmlands - Te Awamutu"},
	}

	matches := FindMatches(newRecords, historical, 0.5)

	require.Len(t, matches, 1)
	assert.Equal(t, "u1", matches[0].SourceID)
	assert.Equal(t, "5", matches[0].TargetID)
	assert.GreaterOrEqual(t, matches[0].Score, 0.7)
	assert.Equal(t, MatchExact, matches[0].MatchType)
}

func TestFindMatchesThreshold(t *testing.T) {
	newRecords := []Record{
		{ID: "u1", Name: "Farmlands Kamo"},
		{ID: "u2", Name: "Completely Unrelated Name"},
	}
	historical := []Record{
		{ID: "1", Name: "Farmlands - Kamo"},
		{ID: "2", Name: "Wellington Hardware"},
	}

	matches := FindMatches(newRecords, historical, 0.5)

	// u2 has no candidate at or above the threshold; that is not an error
	require.Len(t, matches, 1)
	assert.Equal(t, "u1", matches[0].SourceID)
	for _, m := range matches {
		assert.GreaterOrEqual(t, m.Score, 0.5)
	}
}

func TestFindMatchesOneMatchPerNewRecord(t *testing.T) {
	newRecords := []Record{
		{ID: "u1", Name: "Farmlands Kamo"},
	}
	historical := []Record{
		{ID: "1", Name: "Farmlands - Kamo"},
		{ID: "2", Name: "Farmlands Kamo Ltd"},
		{ID: "3", Name: "Farmlands:Kamo"},
	}

	matches := FindMatches(newRecords, historical, 0.3)

	seen := make(map[string]int)
	for _, m := range matches {
		seen[m.SourceID]++
	}
	for id, count := range seen {
		assert.Equal(t, 1, count, "new record %s must appear at most once", id)
	}
}

func TestFindMatchesTieBreakByID(t *testing.T) {
	newRecords := []Record{
		{ID: "u1", Name: "Farmlands Kamo"},
	}
	// Two candidates with identical names score identically; the lower id
	// must win regardless of input order
	historical := []Record{
		{ID: "9", Name: "Farmlands - Kamo"},
		{ID: "3", Name: "Farmlands - Kamo"},
	}

	matches := FindMatches(newRecords, historical, 0.5)
	require.Len(t, matches, 1)
	assert.Equal(t, "3", matches[0].TargetID)

	// Reversed input, same winner
	reversed := []Record{historical[1], historical[0]}
	matches = FindMatches(newRecords, reversed, 0.5)
	require.Len(t, matches, 1)
	assert.Equal(t, "3", matches[0].TargetID)
}

func TestFindMatchesOrderedByScoreDescending(t *testing.T) {
	newRecords := []Record{
		{ID: "u1", Name: "Farmlands Kamo"},
		{ID: "u2", Name: "Brand Outlet"},
	}
	historical := []Record{
		{ID: "1", Name: "Farmlands - Kamo"},
		{ID: "2", Name: "The Brand Outlet - Cashier1"},
	}

	matches := FindMatches(newRecords, historical, 0.3)

	require.GreaterOrEqual(t, len(matches), 2)
	for i := 1; i < len(matches); i++ {
		assert.GreaterOrEqual(t, matches[i-1].Score, matches[i].Score)
	}
}

func TestFindMatchesSkipsSelfAndEmptyNames(t *testing.T) {
	newRecords := []Record{
		{ID: "u1", Name: "Farmlands Kamo"},
		{ID: "u2", Name: ""},
	}
	historical := []Record{
		{ID: "u1", Name: "Farmlands Kamo"}, // same id as new record
		{ID: "2", Name: ""},
	}

	matches := FindMatches(newRecords, historical, 0.3)
	assert.Empty(t, matches)
}

func TestFindMatchesDegenerateInputs(t *testing.T) {
	assert.Empty(t, FindMatches(nil, nil, 0.5))
	assert.Empty(t, FindMatches([]Record{}, []Record{{ID: "1", Name: "x"}}, 0.5))
	assert.Empty(t, FindMatches([]Record{{ID: "1", Name: "x"}}, []Record{}, 0.5))
}
