package stremio_dsearch

import (
	"testing"

	"github.com/MunifTanjim/go-ptt"
	"github.com/nguyenvanvutlv/resolver/store"
	"github.com/stretchr/testify/assert"
)

func TestYearMatches(t *testing.T) {
	meta := &CanonicalMeta{Title: "Movie", Year: 2020, Id: "tt22478818"}
	for _, tc := range []struct {
		name  string
		item  string
		meta  *CanonicalMeta
		match bool
	}{
		{"same year", "Movie.2020.1080p.mkv", meta, true},
		{"other year", "Movie.1999.1080p.mkv", meta, false},
		{"no parsed year", "Movie.1080p.mkv", meta, true},
		{"unknown canonical year", "Movie.1999.1080p.mkv", &CanonicalMeta{Title: "Movie", Id: "tt22478818"}, true},
		{"embedded id wins over year", "Movie (1999) {imdb-tt22478818}.mkv", meta, true},
		{"embedded imdbid wins over year", "Movie (1999) [imdbid-tt22478818].mkv", meta, true},
		{"other embedded id", "Movie (1999) {imdb-tt0000001}.mkv", meta, false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			c := NewCandidate(store.StoreNameRealDebrid, &store.Item{Id: "1", Name: tc.item})
			assert.Equal(t, tc.match, YearMatches(&c, tc.meta))
		})
	}
}

func TestSeasonMatches(t *testing.T) {
	for _, tc := range []struct {
		name    string
		seasons []int
		match   bool
	}{
		{"single season", []int{2}, true},
		{"other season", []int{1}, false},
		{"multi season pack", []int{1, 2, 3}, true},
		{"no parsed season", nil, true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			c := &Candidate{Name: "Show", Info: &ptt.Result{Title: "Show", Seasons: tc.seasons}}
			assert.Equal(t, tc.match, SeasonMatches(c, 2))
		})
	}

	assert.True(t, SeasonMatches(&Candidate{Name: "Show"}, 2))
}

func episodeFile(id string, seasons, episodes []int) VideoFile {
	return VideoFile{Id: id, Name: id, Info: &ptt.Result{Seasons: seasons, Episodes: episodes}}
}

func TestEpisodeMatches(t *testing.T) {
	item := &ExpandedItem{
		Candidate: Candidate{Source: store.StoreNameTorBox, Id: "pack"},
		Files: []VideoFile{
			episodeFile("s1e5", []int{1}, []int{5}),
			episodeFile("s2e4", []int{2}, []int{4}),
			episodeFile("s2e5", []int{2}, []int{5}),
			episodeFile("s2e5e6", []int{2}, []int{5, 6}),
			episodeFile("s3e5", []int{3}, []int{5}),
			episodeFile("no season", nil, []int{5}),
			episodeFile("no episode", []int{2}, nil),
			{Id: "no info", Name: "no info"},
		},
	}

	t.Run("narrows to the episode", func(t *testing.T) {
		narrowed, ok := EpisodeMatches(item, 2, 5)
		assert.True(t, ok)
		ids := []string{}
		for _, f := range narrowed.Files {
			ids = append(ids, f.Id)
		}
		assert.Equal(t, []string{"s2e5", "s2e5e6"}, ids)
		assert.Equal(t, "pack", narrowed.Id)
	})

	t.Run("leaves input untouched", func(t *testing.T) {
		_, _ = EpisodeMatches(item, 2, 5)
		assert.Len(t, item.Files, 8)
	})

	t.Run("no matching file", func(t *testing.T) {
		narrowed, ok := EpisodeMatches(item, 4, 1)
		assert.False(t, ok)
		assert.Empty(t, narrowed.Files)
	})
}
