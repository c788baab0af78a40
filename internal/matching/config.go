package matching

// Config defines the thresholds used by the dedup workflow.
type Config struct {
	// MinScore is the default similarity floor for surfacing a match.
	MinScore float64
	// MinScoreFloor / MinScoreCeiling bound operator-adjustable thresholds.
	MinScoreFloor   float64
	MinScoreCeiling float64
}

// DedupConfig defines the default matching behavior for customer dedup.
var DedupConfig = Config{
	MinScore:        0.5,
	MinScoreFloor:   0.3,
	MinScoreCeiling: 0.9,
}

// ClampMinScore snaps an operator-supplied threshold into the allowed range.
func (c Config) ClampMinScore(score float64) float64 {
	if score < c.MinScoreFloor {
		return c.MinScoreFloor
	}
	if score > c.MinScoreCeiling {
		return c.MinScoreCeiling
	}
	return score
}
