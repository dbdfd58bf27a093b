package stremio_dsearch

import (
	"errors"
	"strconv"
	"strings"

	"github.com/nguyenvanvutlv/resolver/stremio"
)

var ErrUnsupportedId = errors.New("unsupported id")

type MediaRequest struct {
	Kind stremio.ContentType
	// imdb id
	Id      string
	Season  int
	Episode int
}

func (req MediaRequest) IsSeries() bool {
	return req.Kind == stremio.ContentTypeSeries
}

func (req MediaRequest) String() string {
	if !req.IsSeries() {
		return req.Id
	}
	return req.Id + ":" + strconv.Itoa(req.Season) + ":" + strconv.Itoa(req.Episode)
}

// ParseMediaRequest accepts `tt123` for movies and `tt123:2:5` for series.
func ParseMediaRequest(contentType, id string) (*MediaRequest, error) {
	if !strings.HasPrefix(id, "tt") {
		return nil, ErrUnsupportedId
	}

	imdbId, seasonEpisode, hasSeasonEpisode := strings.Cut(id, ":")
	if len(imdbId) < 3 {
		return nil, ErrUnsupportedId
	}
	if _, err := strconv.Atoi(imdbId[2:]); err != nil {
		return nil, ErrUnsupportedId
	}

	switch stremio.ContentType(contentType) {
	case stremio.ContentTypeMovie:
		return &MediaRequest{Kind: stremio.ContentTypeMovie, Id: imdbId}, nil

	case stremio.ContentTypeSeries:
		if !hasSeasonEpisode {
			return nil, errors.New("missing season and episode: " + id)
		}
		seasonStr, episodeStr, ok := strings.Cut(seasonEpisode, ":")
		if !ok {
			return nil, errors.New("missing episode: " + id)
		}
		season, err := strconv.Atoi(seasonStr)
		if err != nil || season < 0 {
			return nil, errors.New("invalid season: " + seasonStr)
		}
		episode, err := strconv.Atoi(episodeStr)
		if err != nil || episode < 0 {
			return nil, errors.New("invalid episode: " + episodeStr)
		}
		return &MediaRequest{
			Kind:    stremio.ContentTypeSeries,
			Id:      imdbId,
			Season:  season,
			Episode: episode,
		}, nil

	default:
		return nil, errors.New("unsupported type: " + contentType)
	}
}
