package matching

import "strings"

// Similarity scores how likely two customer names refer to the same
// business, in [0,1]. The score blends four signals:
//
//  1. character-level sequence ratio over the normalized names
//  2. Jaccard index of the significant-word sets
//  3. word-match ratio against the smaller word set
//  4. a substring bonus when one normalized name contains the other
//
// Edit distance alone fails on reordered words ("Farmlands Kamo" vs
// "Kamo Farmlands"); word overlap alone fails on near-identical
// single-token names. The blend covers both, and the substring bonus
// rescues strict abbreviations.
//
// The function is pure and symmetric in its arguments.
func Similarity(name1, name2 string) float64 {
	norm1 := Normalize(name1)
	norm2 := Normalize(name2)

	if norm1 == "" || norm2 == "" {
		return 0.0
	}

	// Exact match after normalization
	if norm1 == norm2 {
		return 1.0
	}

	seqScore := sequenceRatio(norm1, norm2)

	parts1 := partSet(name1)
	parts2 := partSet(name2)

	var jaccard, wordMatch float64
	if len(parts1) > 0 && len(parts2) > 0 {
		intersection := 0
		for p := range parts1 {
			if parts2[p] {
				intersection++
			}
		}
		union := len(parts1) + len(parts2) - intersection
		jaccard = float64(intersection) / float64(union)

		smaller := len(parts1)
		if len(parts2) < smaller {
			smaller = len(parts2)
		}
		wordMatch = float64(intersection) / float64(smaller)
	}

	var substring float64
	if strings.Contains(norm1, norm2) || strings.Contains(norm2, norm1) {
		substring = 0.3
	}

	score := seqScore*0.4 + jaccard*0.3 + wordMatch*0.2 + substring*0.1
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// sequenceRatio is the classic 2*M/T similarity ratio, with M the length of
// the longest common subsequence of the two strings and T the sum of their
// lengths. Computed over runes so the ratio is stable for non-ASCII input.
func sequenceRatio(a, b string) float64 {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 && len(rb) == 0 {
		return 1.0
	}
	if len(ra) == 0 || len(rb) == 0 {
		return 0.0
	}

	// Single-row LCS dynamic program
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			if ra[i-1] == rb[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}

	lcs := prev[len(rb)]
	return 2.0 * float64(lcs) / float64(len(ra)+len(rb))
}
