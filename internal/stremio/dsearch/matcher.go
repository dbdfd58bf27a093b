package stremio_dsearch

import (
	"cmp"
	"slices"
	"unicode/utf8"

	"github.com/nguyenvanvutlv/resolver/internal/util"
	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
)

// shorter keys or queries are noise
const minMatchCharLength = 2

const scoreEpsilon = 1e-9

func isMatchable(s string) bool {
	return utf8.RuneCountInString(s) >= minMatchCharLength
}

// similarity is in [0, 1]; both query and keys are already normalized.
func similarity(query, title, name string) float64 {
	score := 0.0
	if isMatchable(title) {
		if util.MaxLevenshteinDistance(0, query, title, nil) {
			return 1
		}
		score = max(
			util.LevenshteinSimilarity(query, title),
			float64(fuzzy.Ratio(query, title))/100,
			float64(fuzzy.TokenSetRatio(query, title))/100,
		)
	}
	if isMatchable(name) {
		score = max(score, float64(fuzzy.PartialRatio(query, name))/100)
	}
	return score
}

// Match keeps the candidates whose parsed title or display name is within
// threshold of query, best match first. An empty query keeps every candidate
// as is.
func Match(candidates []Candidate, query string, threshold float64) []Candidate {
	normalizer := util.NewStringNormalizer()
	q := normalizer.Normalize(query)
	if q == "" {
		return candidates
	}

	matched := []Candidate{}
	if !isMatchable(q) {
		return matched
	}

	for i := range candidates {
		c := candidates[i]
		score := similarity(q, normalizer.Normalize(c.Title()), normalizer.Normalize(c.Name))
		if score > 0 && 1-score <= threshold+scoreEpsilon {
			c.Score = score
			matched = append(matched, c)
		}
	}

	slices.SortStableFunc(matched, func(a, b Candidate) int {
		return cmp.Compare(b.Score, a.Score)
	})

	return matched
}
