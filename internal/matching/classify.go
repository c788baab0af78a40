package matching

// MatchType is the qualitative bucket a similarity score falls into,
// used for human review of candidate merges.
type MatchType string

const (
	MatchExact  MatchType = "exact"
	MatchHigh   MatchType = "high"
	MatchMedium MatchType = "medium"
	MatchLow    MatchType = "low"
)

// Classify buckets a similarity score into a match tier.
func Classify(score float64) MatchType {
	switch {
	case score >= 0.95:
		return MatchExact
	case score >= 0.7:
		return MatchHigh
	case score >= 0.5:
		return MatchMedium
	default:
		return MatchLow
	}
}

// Rank orders tiers for monotonicity checks and sorting: low < medium <
// high < exact.
func (t MatchType) Rank() int {
	switch t {
	case MatchExact:
		return 3
	case MatchHigh:
		return 2
	case MatchMedium:
		return 1
	default:
		return 0
	}
}
