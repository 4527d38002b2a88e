package analyzer

import (
	"sort"
	"strings"

	"github.com/hbollon/go-edlib"
)

const (
	maxSuggestions      = 5
	suggestionThreshold = 0.5
)

// Suggest returns up to five candidates that look like name, best first.
// Matching is case-insensitive; a candidate containing name (or contained by
// it) always qualifies.
func Suggest(name string, candidates []string) []string {
	if name == "" || len(candidates) == 0 {
		return nil
	}
	target := strings.ToLower(name)

	type scored struct {
		name  string
		score float64
	}
	var matches []scored
	seen := make(map[string]bool, len(candidates))

	for _, c := range candidates {
		if c == name || seen[c] {
			continue
		}
		seen[c] = true

		lower := strings.ToLower(c)
		score := similarity(target, lower)
		if strings.Contains(lower, target) || strings.Contains(target, lower) {
			score = max(score, suggestionThreshold)
		}
		if score >= suggestionThreshold {
			matches = append(matches, scored{name: c, score: score})
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].score != matches[j].score {
			return matches[i].score > matches[j].score
		}
		return matches[i].name < matches[j].name
	})

	out := make([]string, 0, min(len(matches), maxSuggestions))
	for i := 0; i < len(matches) && i < maxSuggestions; i++ {
		out = append(out, matches[i].name)
	}
	return out
}

// similarity is Levenshtein similarity in [0, 1].
func similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}
	score, err := edlib.StringsSimilarity(a, b, edlib.Levenshtein)
	if err != nil {
		return 0.0
	}
	return float64(score)
}
