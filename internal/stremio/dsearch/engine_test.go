package stremio_dsearch

import (
	"context"
	"errors"
	"testing"

	"github.com/nguyenvanvutlv/resolver/core"
	stremio_transformer "github.com/nguyenvanvutlv/resolver/internal/stremio/transformer"
	"github.com/nguyenvanvutlv/resolver/store"
	"github.com/nguyenvanvutlv/resolver/stremio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

var inception = &CanonicalMeta{Title: "Inception", Year: 2010, Id: "tt1375666"}

func torrentWithFile(id, name string, size int64) store.Item {
	return store.Item{
		Id:    id,
		Name:  name,
		Size:  size,
		Kind:  store.ItemKindTorrent,
		Files: []store.File{videoFile(id+"-f", name+".mkv", size, "https://host.example.com/"+id)},
	}
}

func movieRequest() *MediaRequest {
	return &MediaRequest{Kind: stremio.ContentTypeMovie, Id: inception.Id}
}

func newTestEngine(s store.Store, meta MetaResolver) *Engine {
	return NewEngine(&EngineConfig{
		Store:      s,
		Meta:       meta,
		Threshold:  0.3,
		Referencer: testSigner(),
	})
}

func groupsOf(result *Result) []string {
	groups := []string{}
	for _, d := range result.Streams {
		groups = append(groups, d.BingeGroup)
	}
	return groups
}

func inceptionLibrary() *fakeStore {
	s := newFakeStore(
		torrentWithFile("1", "Inception.2010.1080p.BluRay.x264", 10*gib),
		torrentWithFile("2", "Inception.1999.720p.WEB", 3*gib),
		torrentWithFile("3", "Inception (1999) {imdb-tt1375666}", 5*gib),
		torrentWithFile("4", "Zootopia.2016.2160p", 30*gib),
		store.Item{Id: "5", Name: "Inception.2010.2160p.UHD", Kind: store.ItemKindTorrent},
	)
	s.details["5"] = &store.GetItemData{Item: store.Item{Id: "5", Files: []store.File{
		videoFile("5-a", "Inception.2010.2160p.UHD.mkv", 20*gib, ""),
		videoFile("5-b", "Inception.2010.2160p.UHD.nfo", 1, ""),
	}}}
	return s
}

func TestEngine_Movie(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	s := inceptionLibrary()
	meta := &fakeMeta{meta: inception}

	result, err := newTestEngine(s, meta).Resolve(context.Background(), movieRequest())
	require.NoError(t, err)

	assert.Equal(t, inception, result.Meta)
	assert.False(t, result.IsPartial())
	assert.Equal(t, []string{"realdebrid|5", "realdebrid|1", "realdebrid|3"}, groupsOf(result))
	assert.Equal(t, []string{"Inception"}, s.listQueries)
	assert.Equal(t, 0, s.getCallsOf("2"))
	assert.Equal(t, 1, s.getCallsOf("5"))
	assert.Empty(t, s.unlocked)

	stream := result.ToStreams()[0]
	assert.Equal(t, "Inception.2010.2160p.UHD.mkv", stream.BehaviorHints.Filename)
	claims, err := testSigner().Verify(tokenOf(t, stream.URL))
	require.NoError(t, err)
	assert.Equal(t, AccessToken{ItemId: "5", FileId: "5-a"}, claims.AccessToken())
}

func TestEngine_Idempotent(t *testing.T) {
	s := inceptionLibrary()
	engine := newTestEngine(s, &fakeMeta{meta: inception})

	first, err := engine.Resolve(context.Background(), movieRequest())
	require.NoError(t, err)
	second, err := engine.Resolve(context.Background(), movieRequest())
	require.NoError(t, err)

	assert.Equal(t, first.ToStreams(), second.ToStreams())
}

func TestEngine_Series(t *testing.T) {
	s := newFakeStore(
		store.Item{Id: "s2", Name: "Breaking.Bad.S02.1080p.BluRay", Kind: store.ItemKindTorrent, Files: []store.File{
			videoFile("e4", "Breaking.Bad.S02E04.1080p.mkv", 2*gib, ""),
			videoFile("e5", "Breaking.Bad.S02E05.1080p.mkv", 2*gib, ""),
		}},
		store.Item{Id: "s1", Name: "Breaking.Bad.S01.720p", Kind: store.ItemKindTorrent, Files: []store.File{
			videoFile("e5", "Breaking.Bad.S01E05.720p.mkv", gib, ""),
		}},
		store.Item{Id: "e5", Name: "Breaking.Bad.S02E05.720p.mkv", Size: gib, Kind: store.ItemKindDownload, Link: "https://cdn.example.com/e5.mkv"},
		store.Item{Id: "s3", Name: "Breaking.Bad.S03.1080p", Kind: store.ItemKindTorrent, Files: []store.File{
			videoFile("e5", "Breaking.Bad.S03E05.1080p.mkv", 2*gib, ""),
		}},
	)
	meta := &fakeMeta{meta: &CanonicalMeta{Title: "Breaking Bad", Year: 2008, Id: "tt0903747"}}
	req := &MediaRequest{Kind: stremio.ContentTypeSeries, Id: "tt0903747", Season: 2, Episode: 5}

	result, err := newTestEngine(s, meta).Resolve(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, result.Streams, 2)
	assert.Equal(t, "realdebrid|s2", result.Streams[0].BingeGroup)
	assert.Equal(t, "Breaking.Bad.S02E05.1080p.mkv", result.Streams[0].Filename)
	assert.Contains(t, result.Streams[0].Title, "\n🎞️ Breaking.Bad.S02E05.1080p.mkv")
	assert.Equal(t, "realdebrid|e5", result.Streams[1].BingeGroup)
}

func TestEngine_PartialFailure(t *testing.T) {
	s := newFakeStore()
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		s.items = append(s.items, store.Item{Id: id, Name: "Inception.2010.1080p." + id, Kind: store.ItemKindTorrent})
		s.details[id] = &store.GetItemData{Item: store.Item{Id: id, Files: []store.File{
			videoFile(id+"-f", "Inception.2010.1080p."+id+".mkv", gib, ""),
		}}}
	}
	s.getErrs["c"] = core.NewError(core.ErrorCodeBadGateway, "store is busy")

	result, err := newTestEngine(s, &fakeMeta{meta: inception}).Resolve(context.Background(), movieRequest())
	require.NoError(t, err)

	assert.Len(t, result.Streams, 4)
	assert.True(t, result.IsPartial())
	require.Len(t, result.Failures, 1)
	assert.Equal(t, PhaseExpanding, result.Failures[0].Phase)
	assert.Equal(t, "c", result.Failures[0].CandidateId)
}

func TestEngine_PanicIsAFailure(t *testing.T) {
	s := inceptionLibrary()
	s.panicsOn = "5"

	result, err := newTestEngine(s, &fakeMeta{meta: inception}).Resolve(context.Background(), movieRequest())
	require.NoError(t, err)

	assert.Equal(t, []string{"realdebrid|1", "realdebrid|3"}, groupsOf(result))
	require.Len(t, result.Failures, 1)
	assert.Equal(t, "5", result.Failures[0].CandidateId)
}

func TestEngine_NoMeta(t *testing.T) {
	for name, meta := range map[string]*CanonicalMeta{
		"unknown title": nil,
		"blank title":   {Title: "  "},
	} {
		t.Run(name, func(t *testing.T) {
			s := inceptionLibrary()

			result, err := newTestEngine(s, &fakeMeta{meta: meta}).Resolve(context.Background(), movieRequest())
			require.NoError(t, err)

			assert.Nil(t, result.Meta)
			assert.Empty(t, result.Streams)
			assert.NotNil(t, result.Streams)
			assert.Equal(t, 0, s.listCalls)
		})
	}
}

func TestEngine_Errors(t *testing.T) {
	t.Run("meta failure", func(t *testing.T) {
		s := inceptionLibrary()
		metaErr := core.NewError(core.ErrorCodeMetaUnavailable, "cinemeta is down")

		_, err := newTestEngine(s, &fakeMeta{err: metaErr}).Resolve(context.Background(), movieRequest())

		var rerr *ResolveError
		require.ErrorAs(t, err, &rerr)
		assert.Equal(t, PhaseResolvingMeta, rerr.Phase)
		assert.ErrorIs(t, err, metaErr)
		assert.Equal(t, 0, s.listCalls)
	})

	t.Run("auth failure", func(t *testing.T) {
		s := inceptionLibrary()
		s.listErr = core.NewError(core.ErrorCodeUnauthorized, "bad token")

		_, err := newTestEngine(s, &fakeMeta{meta: inception}).Resolve(context.Background(), movieRequest())

		var rerr *ResolveError
		require.ErrorAs(t, err, &rerr)
		assert.Equal(t, PhaseFetchingCandidates, rerr.Phase)
		assert.Equal(t, core.ErrorCodeUnauthorized, core.ErrorCodeOf(err))
		assert.Equal(t, "failed while fetching candidates: "+s.listErr.Error(), err.Error())
	})

	t.Run("transient listing failure", func(t *testing.T) {
		s := inceptionLibrary()
		s.listErr = errors.New("connection reset")

		result, err := newTestEngine(s, &fakeMeta{meta: inception}).Resolve(context.Background(), movieRequest())
		require.NoError(t, err)

		assert.Empty(t, result.Streams)
		require.Len(t, result.Failures, 1)
		assert.Equal(t, PhaseFetchingCandidates, result.Failures[0].Phase)
	})

	t.Run("canceled", func(t *testing.T) {
		s := inceptionLibrary()
		s.listErr = context.Canceled
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := newTestEngine(s, &fakeMeta{meta: inception}).Resolve(ctx, movieRequest())
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestEngine_FilterAndSort(t *testing.T) {
	s := newFakeStore(
		torrentWithFile("hd", "Inception.2010.720p.WEB", 8*gib),
		torrentWithFile("fhd", "Inception.2010.1080p.WEB", 4*gib),
		torrentWithFile("uhd", "Inception.2010.2160p.WEB", 2*gib),
	)

	filter, err := stremio_transformer.StreamFilterBlob(`Resolution >= "1080p"`).Parse()
	require.NoError(t, err)
	sort, err := stremio_transformer.ParseStreamSort("resolution")
	require.NoError(t, err)

	engine := NewEngine(&EngineConfig{
		Store:      s,
		Meta:       &fakeMeta{meta: inception},
		Threshold:  0.3,
		Filter:     filter,
		Sort:       sort,
		Referencer: testSigner(),
	})
	result, err := engine.Resolve(context.Background(), movieRequest())
	require.NoError(t, err)
	assert.Equal(t, []string{"realdebrid|uhd", "realdebrid|fhd"}, groupsOf(result))

	result, err = newTestEngine(s, &fakeMeta{meta: inception}).Resolve(context.Background(), movieRequest())
	require.NoError(t, err)
	assert.Equal(t, []string{"realdebrid|hd", "realdebrid|fhd", "realdebrid|uhd"}, groupsOf(result))
}

func TestResolveError(t *testing.T) {
	err := &ResolveError{Phase: PhaseExpanding, Err: errors.New("boom")}
	assert.Equal(t, "failed while expanding: boom", err.Error())
	assert.Equal(t, "boom", errors.Unwrap(err).Error())
}
