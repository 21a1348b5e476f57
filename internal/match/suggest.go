package match

// SuggestThreshold is the minimum normalized similarity for a suggestion.
const SuggestThreshold = 0.6

// Suggest returns the candidate most similar to name, or "" when none reaches
// SuggestThreshold. Ties keep the earlier candidate.
func Suggest(name string, candidates []string) string {
	var (
		best      string
		bestScore float64
	)

	for _, c := range candidates {
		if c == name {
			continue
		}

		if score := Score(name, c); score > bestScore {
			best, bestScore = c, score
		}
	}

	if bestScore < SuggestThreshold {
		return ""
	}

	return best
}
