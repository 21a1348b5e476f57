package match

import "unicode/utf8"

// Distance returns the edit distance between a and b counted in runes:
// the fewest insertions, deletions and substitutions turning one into the other.
func Distance(a, b string) int {
	if a == b {
		return 0
	}

	ra, rb := []rune(a), []rune(b)
	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}

	if len(ra) == 0 {
		return len(rb)
	}

	row := make([]int, len(ra)+1)
	for i := range row {
		row[i] = i
	}

	for j, cb := range rb {
		diag := row[0]
		row[0] = j + 1

		for i, ca := range ra {
			above := row[i+1]

			cost := 1
			if ca == cb {
				cost = 0
			}

			row[i+1] = min(above+1, row[i]+1, diag+cost)
			diag = above
		}
	}

	return row[len(ra)]
}

// Similarity maps Distance onto [0, 1]: 1 for equal strings, 0 when every
// rune of the longer one has to change.
func Similarity(a, b string) float64 {
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 1
	}

	return 1 - float64(Distance(a, b))/float64(longest)
}

// Score is Similarity of two identifiers after NormalizeIdent, so that
// "order_id", "orderID" and "order-id" all match.
func Score(a, b string) float64 {
	return Similarity(NormalizeIdent(a), NormalizeIdent(b))
}
