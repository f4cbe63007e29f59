// Package suggest ranks candidate strings by similarity to a target, used for
// "did you mean" hints on unknown commands.
package suggest

import (
	"sort"
	"strings"
)

// threshold is the minimum similarity score for a candidate to be suggested.
const threshold = 0.5

// FindSimilar returns up to maxResults candidates similar to target, best
// match first. Ties break alphabetically so output is deterministic.
func FindSimilar(target string, candidates []string, maxResults int) []string {
	if target == "" || maxResults <= 0 {
		return nil
	}

	type scored struct {
		name  string
		score float64
	}
	ranked := make([]scored, 0, len(candidates))
	for _, name := range candidates {
		if score := similarity(target, name); score > threshold {
			ranked = append(ranked, scored{name: name, score: score})
		}
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score == ranked[j].score {
			return ranked[i].name < ranked[j].name
		}
		return ranked[i].score > ranked[j].score
	})

	if len(ranked) > maxResults {
		ranked = ranked[:maxResults]
	}
	result := make([]string, len(ranked))
	for i, s := range ranked {
		result[i] = s.name
	}
	return result
}

// similarity scores two strings in [0, 1]: 1 for an exact match, 0.9 for a
// prefix match, otherwise a normalized edit-distance score.
func similarity(a, b string) float64 {
	a = strings.ToLower(a)
	b = strings.ToLower(b)
	if a == b {
		return 1.0
	}
	if strings.HasPrefix(b, a) {
		return 0.9
	}
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	return 1.0 - float64(editDistance(a, b))/float64(maxLen)
}

// editDistance is the Levenshtein distance, computed with two rolling rows.
func editDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
