// Package toolfilter suggests the closest advertised tool name for a name
// the server does not offer.
package toolfilter

// maxSuggestDistance is the largest edit distance still offered as a
// "did you mean" suggestion.
const maxSuggestDistance = 3

// LevenshteinDistance returns the edit distance between a and b, counted in
// runes. Comparison is case-sensitive.
func LevenshteinDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

// SuggestTool returns the available name closest to name, or "" when none
// is within maxSuggestDistance edits.
func SuggestTool(name string, available []string) string {
	best, bestDist := "", maxSuggestDistance+1
	for _, t := range available {
		if d := LevenshteinDistance(name, t); d < bestDist {
			best, bestDist = t, d
		}
	}
	return best
}
