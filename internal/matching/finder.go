package matching

import "sort"

// Record is a minimal {id, name} pair supplied by the data-access layer.
type Record struct {
	ID   string
	Name string
}

// CustomerMatch represents a potential customer match. It is computed fresh
// on each invocation and never persisted.
type CustomerMatch struct {
	SourceID   string    `json:"source_id"`
	SourceName string    `json:"source_name"`
	TargetID   string    `json:"target_id"`
	TargetName string    `json:"target_name"`
	Score      float64   `json:"similarity_score"`
	MatchType  MatchType `json:"match_type"`
}

// FindMatches pairs each newly-imported record against the historical set
// and keeps the single best-scoring candidate per new record, filtered by
// minScore. Results are ordered by descending score.
//
// Historical candidates are scanned in id order, so an exact score tie
// resolves to the lowest id reproducibly rather than depending on input
// ordering. A new record with no candidate at or above minScore simply
// produces no match.
func FindMatches(newRecords, historicalRecords []Record, minScore float64) []CustomerMatch {
	candidates := make([]Record, len(historicalRecords))
	copy(candidates, historicalRecords)
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].ID < candidates[j].ID })

	var matches []CustomerMatch

	for _, rec := range newRecords {
		if rec.Name == "" {
			continue
		}

		var best *CustomerMatch
		bestScore := 0.0

		for _, cand := range candidates {
			if cand.Name == "" || cand.ID == rec.ID {
				continue
			}

			score := Similarity(rec.Name, cand.Name)
			if score >= minScore && score > bestScore {
				bestScore = score
				best = &CustomerMatch{
					SourceID:   rec.ID,
					SourceName: rec.Name,
					TargetID:   cand.ID,
					TargetName: cand.Name,
					Score:      score,
					MatchType:  Classify(score),
				}
			}
		}

		if best != nil {
			matches = append(matches, *best)
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	return matches
}
