package util

import (
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// StringNormalizer is not safe for concurrent use.
type StringNormalizer struct {
	t transform.Transformer
}

func NewStringNormalizer() *StringNormalizer {
	return &StringNormalizer{
		t: transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC),
	}
}

// Normalize folds accents, lowercases, turns punctuation into spaces and
// collapses whitespace: "Amélie (2001)" -> "amelie 2001".
func (sn *StringNormalizer) Normalize(str string) string {
	folded, _, err := transform.String(sn.t, str)
	if err != nil {
		folded = str
	}
	folded = strings.ToLower(folded)
	folded = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			return r
		}
		if r == '\'' {
			return -1
		}
		return ' '
	}, folded)
	return strings.Join(strings.Fields(folded), " ")
}

// LevenshteinSimilarity returns 1 - distance/maxLen over runes, in [0, 1].
func LevenshteinSimilarity(a, b string) float64 {
	maxLen := max(len([]rune(a)), len([]rune(b)))
	if maxLen == 0 {
		return 1
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(maxLen)
}

func MaxLevenshteinDistance(maxDistance int, a, b string, normalizer *StringNormalizer) bool {
	if normalizer != nil {
		a, b = normalizer.Normalize(a), normalizer.Normalize(b)
	}
	return levenshtein.ComputeDistance(a, b) <= maxDistance
}
