package stremio_dsearch

import (
	"testing"

	"github.com/nguyenvanvutlv/resolver/stremio"
	"github.com/stretchr/testify/assert"
)

func TestParseMediaRequest(t *testing.T) {
	for _, tc := range []struct {
		name        string
		contentType string
		id          string
		expected    *MediaRequest
		unsupported bool
		invalid     bool
	}{
		{name: "movie", contentType: "movie", id: "tt1375666", expected: &MediaRequest{Kind: stremio.ContentTypeMovie, Id: "tt1375666"}},
		{name: "series", contentType: "series", id: "tt0903747:2:5", expected: &MediaRequest{Kind: stremio.ContentTypeSeries, Id: "tt0903747", Season: 2, Episode: 5}},
		{name: "movie ignores suffix", contentType: "movie", id: "tt1375666:1:1", expected: &MediaRequest{Kind: stremio.ContentTypeMovie, Id: "tt1375666"}},
		{name: "non imdb id", contentType: "movie", id: "kitsu:123", unsupported: true},
		{name: "bare prefix", contentType: "movie", id: "tt", unsupported: true},
		{name: "non numeric", contentType: "movie", id: "ttabc", unsupported: true},
		{name: "series without episode", contentType: "series", id: "tt0903747:2", invalid: true},
		{name: "series without season", contentType: "series", id: "tt0903747", invalid: true},
		{name: "bad season", contentType: "series", id: "tt0903747:x:5", invalid: true},
		{name: "negative episode", contentType: "series", id: "tt0903747:2:-1", invalid: true},
		{name: "other type", contentType: "channel", id: "tt0903747", invalid: true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			req, err := ParseMediaRequest(tc.contentType, tc.id)
			switch {
			case tc.unsupported:
				assert.ErrorIs(t, err, ErrUnsupportedId)
			case tc.invalid:
				assert.Error(t, err)
				assert.NotErrorIs(t, err, ErrUnsupportedId)
			default:
				assert.NoError(t, err)
				assert.Equal(t, tc.expected, req)
			}
		})
	}
}

func TestMediaRequestString(t *testing.T) {
	assert.Equal(t, "tt1375666", MediaRequest{Kind: stremio.ContentTypeMovie, Id: "tt1375666"}.String())
	assert.Equal(t, "tt0903747:2:5", MediaRequest{Kind: stremio.ContentTypeSeries, Id: "tt0903747", Season: 2, Episode: 5}.String())
}
