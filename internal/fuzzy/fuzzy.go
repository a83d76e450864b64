// Package fuzzy picks "did you mean" candidates for misspelled flag
// names.
package fuzzy

import "strings"

// FindBestFlag returns the candidate closest to input within
// maxDistance edits, or "" when nothing is close enough. Comparison is
// case-insensitive; ties go to the lexicographically smaller candidate
// so suggestions are stable regardless of candidate order.
func FindBestFlag(input string, candidates []string, maxDistance int) string {
	if len(input) < 2 {
		return ""
	}
	in := strings.ToLower(input)
	best := ""
	bestDist := maxDistance + 1
	for _, c := range candidates {
		cl := strings.ToLower(c)
		if cl == in {
			continue
		}
		d := levenshtein(in, cl, maxDistance)
		if d < bestDist || (d == bestDist && best != "" && c < best) {
			best = c
			bestDist = d
		}
	}
	if bestDist > maxDistance {
		return ""
	}
	return best
}

// levenshtein computes the edit distance between a and b, giving up
// with limit+1 as soon as the distance is known to exceed limit.
func levenshtein(a, b string, limit int) int {
	if d := len(a) - len(b); d > limit || -d > limit {
		return limit + 1
	}
	if len(a) > len(b) {
		a, b = b, a
	}
	prev := make([]int, len(a)+1)
	cur := make([]int, len(a)+1)
	for i := range prev {
		prev[i] = i
	}
	for i := 1; i <= len(b); i++ {
		cur[0] = i
		rowMin := i
		for j := 1; j <= len(a); j++ {
			cost := 1
			if a[j-1] == b[i-1] {
				cost = 0
			}
			v := prev[j-1] + cost
			if d := prev[j] + 1; d < v {
				v = d
			}
			if d := cur[j-1] + 1; d < v {
				v = d
			}
			cur[j] = v
			if v < rowMin {
				rowMin = v
			}
		}
		if rowMin > limit {
			return limit + 1
		}
		prev, cur = cur, prev
	}
	return prev[len(a)]
}
