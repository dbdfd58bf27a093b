package stremio_transformer

import (
	"testing"

	"github.com/MunifTanjim/go-ptt"
	"github.com/nguyenvanvutlv/resolver/internal/util"
	"github.com/stretchr/testify/assert"
)

const gib = 1024 * 1024 * 1024

type metaSource struct {
	kind      string
	storeCode string
	storeName string
	itemName  string
	fileName  string
	fileSize  int64
	info      ptt.Result
}

// meta builds the filter environment of one playable file, the same way a
// stream descriptor is assembled from a store item.
func (src metaSource) meta() *StreamMeta {
	info := src.info
	return &StreamMeta{
		Result:   &info,
		ItemName: src.itemName,
		ItemKind: src.kind,
		File: StreamMetaFile{
			Name: src.fileName,
			Size: util.ToSize(src.fileSize),
		},
		Store: StreamMetaStore{Code: src.storeCode, Name: src.storeName},
	}
}

var (
	rdRemux = metaSource{
		kind:      "torrent",
		storeCode: "rd",
		storeName: "realdebrid",
		itemName:  "Dune.Part.Two.2024.2160p.BluRay.REMUX.HEVC-GRP",
		fileName:  "Dune.Part.Two.2024.2160p.BluRay.REMUX.HEVC-GRP.mkv",
		fileSize:  62 * gib,
		info:      ptt.Result{Resolution: "4k", Quality: "BluRay REMUX"},
	}
	adWeb = metaSource{
		kind:      "download",
		storeCode: "ad",
		storeName: "alldebrid",
		itemName:  "Dune.Part.Two.2024.720p.WEB-DL.mkv",
		fileName:  "Dune.Part.Two.2024.720p.WEB-DL.mkv",
		fileSize:  3 * gib / 2,
		info:      ptt.Result{Resolution: "720p", Quality: "WEB-DL"},
	}
	pmEpisode = metaSource{
		kind:      "torrent",
		storeCode: "pm",
		storeName: "premiumize",
		itemName:  "Severance.S02.HDTV [9.8 GB]",
		fileName:  "Severance.S02E05.mkv",
		info:      ptt.Result{Quality: "HDTV", Size: "9.8 GB"},
	}
)

func TestStreamFilter_Match_Resolution(t *testing.T) {
	for _, tc := range []struct {
		name     string
		filter   StreamFilterBlob
		source   metaSource
		expected bool
	}{
		{"4k ranks as 2160p", `Resolution == "2160p"`, rdRemux, true},
		{"4k above 1080p", `Resolution > "1080p"`, rdRemux, true},
		{"720p below 1080p", `Resolution >= "1080p"`, adWeb, false},
		{"720p at most 720p", `Resolution <= "720p" && ItemKind == "download"`, adWeb, true},
		{"unknown ranks lowest", `Resolution < "480p"`, pmEpisode, true},
		{"unknown not above sd", `Resolution > "sd"`, pmEpisode, false},
		{"per store floor", `Store.Code != "rd" || Resolution >= "4k"`, rdRemux, true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			sf, err := tc.filter.Parse()
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, sf.Match(tc.source.meta()))
		})
	}
}

func TestStreamFilter_Match_Quality(t *testing.T) {
	for _, tc := range []struct {
		name     string
		filter   StreamFilterBlob
		source   metaSource
		expected bool
	}{
		{"case insensitive", `Quality == "bluray remux"`, rdRemux, true},
		{"remux above web-dl", `Quality > "WEB-DL"`, rdRemux, true},
		{"web-dl not above bluray", `Quality > "BluRay"`, adWeb, false},
		{"web-dl at least webrip", `Quality >= "WEBRip" && Store.Name == "alldebrid"`, adWeb, true},
		{"hdtv below web", `Quality < "WEB"`, pmEpisode, true},
		{"torrents need web-dl", `ItemKind != "torrent" || Quality >= "WEB-DL"`, pmEpisode, false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			sf, err := tc.filter.Parse()
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, sf.Match(tc.source.meta()))
		})
	}
}

func TestStreamFilter_Match_Size(t *testing.T) {
	for _, tc := range []struct {
		name     string
		filter   StreamFilterBlob
		source   metaSource
		expected bool
	}{
		{"title size", `Size == "9.8 GB"`, pmEpisode, true},
		{"title size above", `Size > "10 GB"`, pmEpisode, false},
		{"no title size", `Size > "1 MB"`, rdRemux, false},
		{"title size with store", `Store.Code == "pm" && Size < "10 GiB"`, pmEpisode, true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			sf, err := tc.filter.Parse()
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, sf.Match(tc.source.meta()))
		})
	}
}

func TestStreamFilter_Match_FileSize(t *testing.T) {
	for _, tc := range []struct {
		name     string
		filter   StreamFilterBlob
		source   metaSource
		expected bool
	}{
		{"iec against si", `File.Size > "60 GB"`, rdRemux, true},
		{"exact iec", `File.Size == "62 GiB"`, rdRemux, true},
		{"download under cap", `ItemKind == "download" && File.Size < "2 GB"`, adWeb, true},
		{"download over floor", `File.Size >= "2 GB"`, adWeb, false},
		{"unknown size ranks lowest", `File.Size < "1 MB"`, pmEpisode, true},
		{"unknown size not above zero", `File.Size > "0 B"`, pmEpisode, false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			sf, err := tc.filter.Parse()
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, sf.Match(tc.source.meta()))
		})
	}
}

func TestStreamFilter_Match_Meta(t *testing.T) {
	meta := &StreamMeta{
		Result:     &ptt.Result{Resolution: "1080p", Codec: "x265"},
		ItemName:   "Inception.2010.1080p.BluRay.x265-GRP",
		ItemKind:   "torrent",
		MatchScore: 0.95,
		File:       StreamMetaFile{Name: "Inception.mkv", Size: "12.40 GiB"},
		Store:      StreamMetaStore{Code: "rd", Name: "realdebrid"},
	}

	for _, tc := range []struct {
		name     string
		filter   StreamFilterBlob
		expected bool
	}{
		{"empty", ``, true},
		{"store", `Store.Code == "rd"`, true},
		{"kind", `ItemKind == "download"`, false},
		{"score", `MatchScore > 0.9`, true},
		{"codec", `Codec != "x265"`, false},
		{"name", `ItemName contains "BluRay" && File.Size < "20 GB"`, true},
		{"undefined variable", `Unknown == "x" || Resolution >= "720p"`, true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			sf, err := tc.filter.Parse()
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, sf.Match(meta))
		})
	}

	_, err := StreamFilterBlob(`Resolution >=`).Parse()
	assert.Error(t, err)
}
