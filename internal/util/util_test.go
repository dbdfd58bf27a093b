package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringNormalizer(t *testing.T) {
	sn := NewStringNormalizer()
	for _, tc := range []struct {
		input  string
		result string
	}{
		{"Amélie (2001)", "amelie 2001"},
		{"The.Lord.of.the.Rings", "the lord of the rings"},
		{"  Spider-Man:  No Way Home ", "spider man no way home"},
		{"Schindler's List", "schindlers list"},
		{"", ""},
	} {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.result, sn.Normalize(tc.input))
		})
	}
}

func TestLevenshteinSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, LevenshteinSimilarity("", ""))
	assert.Equal(t, 1.0, LevenshteinSimilarity("inception", "inception"))
	assert.InDelta(t, 1-1.0/9, LevenshteinSimilarity("inception", "incepton"), 0.0001)
	assert.Less(t, LevenshteinSimilarity("inception", "unrelated movie"), 0.5)
}

func TestMaxLevenshteinDistance(t *testing.T) {
	sn := NewStringNormalizer()
	assert.True(t, MaxLevenshteinDistance(0, "Amélie", "amelie", sn))
	assert.True(t, MaxLevenshteinDistance(1, "inception", "incepton", nil))
	assert.False(t, MaxLevenshteinDistance(1, "inception", "interception", nil))
}

func TestToSize(t *testing.T) {
	for _, tc := range []struct {
		bytes  int64
		result string
	}{
		{0, "Unknown"},
		{512, "512 B"},
		{1024, "1.00 KiB"},
		{1610612736, "1.50 GiB"},
	} {
		t.Run(tc.result, func(t *testing.T) {
			assert.Equal(t, tc.result, ToSize(tc.bytes))
		})
	}
}

func TestParseTorrentTitle(t *testing.T) {
	r := ParseTorrentTitle("Inception.2010.1080p.BluRay.x264-GROUP.mkv")
	assert.Equal(t, "Inception", r.Title)
	assert.Equal(t, "2010", r.Year)
	assert.Equal(t, "1080p", r.Resolution)

	r = ParseTorrentTitle("Show.Name.S02E05.720p.WEB.mkv")
	assert.Equal(t, []int{2}, r.Seasons)
	assert.Equal(t, []int{5}, r.Episodes)
}

func TestSet(t *testing.T) {
	s := NewSet("a", "b")
	s.Add("a")
	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Has("b"))
	assert.False(t, s.Has("c"))
}
