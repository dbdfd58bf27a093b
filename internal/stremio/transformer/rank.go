package stremio_transformer

import (
	"strconv"
	"strings"

	"github.com/nguyenvanvutlv/resolver/internal/util"
)

func getResolutionRank(resolution string) int64 {
	r := strings.ToLower(strings.TrimSpace(resolution))
	switch r {
	case "":
		return 0
	case "8k":
		return 4320
	case "4k", "uhd":
		return 2160
	case "2k":
		return 1440
	case "sd":
		return 480
	}
	if n, err := strconv.ParseInt(strings.TrimSuffix(strings.TrimSuffix(r, "p"), "i"), 10, 64); err == nil {
		return n
	}
	return 0
}

var qualityRank = map[string]int64{
	"bluray remux": 100,
	"remux":        100,
	"bluray":       90,
	"web-dl":       80,
	"web":          75,
	"webrip":       70,
	"brrip":        65,
	"bdrip":        65,
	"hdrip":        60,
	"dvd":          50,
	"dvdrip":       45,
	"hdtv":         40,
	"satrip":       30,
	"tvrip":        25,
	"ppvrip":       20,
	"r5":           15,
	"scr":          10,
	"telecine":     5,
	"telesync":     4,
	"cam":          1,
}

func getQualityRank(quality string) int64 {
	return qualityRank[strings.ToLower(strings.TrimSpace(quality))]
}

func getSizeRank(size string) int64 {
	if size == "" {
		return 0
	}
	return max(util.ParseSize(size), 0)
}
