// Package fuzzy ranks candidate names by edit distance for "did you mean"
// suggestions on unknown flags and subcommands.
package fuzzy

import (
	"sort"
	"strings"
)

// minInputLen guards against suggesting on one-character typos like "-x",
// where nearly everything is within distance 2.
const minInputLen = 2

// Match pairs a candidate with its distance and a quality score in [0,1].
type Match struct {
	Value    string
	Distance int
	Score    float64
}

// Closest returns the best candidate within maxDistance edits of input, or
// the empty string when nothing qualifies.
func Closest(input string, candidates []string, maxDistance int) string {
	ranked := Rank(input, candidates, maxDistance)
	if len(ranked) == 0 {
		return ""
	}
	return ranked[0].Value
}

// Rank returns all candidates within maxDistance of input, best first.
// Comparison is case-insensitive; exact matches are skipped since they are
// not typos.
func Rank(input string, candidates []string, maxDistance int) []Match {
	if len(strings.TrimLeft(input, "-")) < minInputLen {
		return nil
	}
	lowered := strings.ToLower(input)

	var ranked []Match
	for _, cand := range candidates {
		candLower := strings.ToLower(cand)
		if candLower == lowered {
			continue
		}
		d := distance(lowered, candLower, maxDistance)
		if d > maxDistance {
			continue
		}
		ranked = append(ranked, Match{Value: cand, Distance: d, Score: score(lowered, candLower, d)})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score == ranked[j].Score {
			return ranked[i].Distance < ranked[j].Distance
		}
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// score blends edit distance with prefix overlap and length similarity.
// Prefix overlap dominates ties: "--prot" should prefer "--proto" over
// "--port" at equal distance.
func score(input, cand string, dist int) float64 {
	longest := max(len(input), len(cand))
	if longest == 0 {
		return 1
	}
	s := 1 - float64(dist)/float64(longest)

	prefix := 0
	for prefix < min(len(input), len(cand)) && input[prefix] == cand[prefix] {
		prefix++
	}
	if prefix > 0 {
		s += 0.3 * float64(prefix) / float64(min(len(input), len(cand)))
	}

	diff := len(input) - len(cand)
	if diff < 0 {
		diff = -diff
	}
	s += 0.2 * (1 - float64(diff)/float64(longest))

	if s > 1 {
		s = 1
	}
	return s
}

// distance is a two-row Levenshtein with early exit once every cell in a row
// exceeds limit; callers only care whether the result is within limit.
func distance(a, b string, limit int) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}
	diff := len(a) - len(b)
	if diff < 0 {
		diff = -diff
	}
	if diff > limit {
		return limit + 1
	}
	if len(a) > len(b) {
		a, b = b, a
	}

	prev := make([]int, len(a)+1)
	curr := make([]int, len(a)+1)
	for i := range prev {
		prev[i] = i
	}

	for i := 1; i <= len(b); i++ {
		curr[0] = i
		rowMin := i
		for j := 1; j <= len(a); j++ {
			cost := 0
			if a[j-1] != b[i-1] {
				cost = 1
			}
			curr[j] = min(curr[j-1]+1, min(prev[j]+1, prev[j-1]+cost))
			if curr[j] < rowMin {
				rowMin = curr[j]
			}
		}
		if rowMin > limit {
			return limit + 1
		}
		prev, curr = curr, prev
	}
	return prev[len(a)]
}
