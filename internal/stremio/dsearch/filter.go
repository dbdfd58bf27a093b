package stremio_dsearch

import (
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/nguyenvanvutlv/resolver/internal/util"
)

// e.g. `Movie (2023) {imdb-tt22478818}` or `Movie [imdbid-tt22478818]`
var embeddedIdRegex = regexp.MustCompile(`(?i)[{\[]imdb(?:id)?-(tt\d+)[}\]]`)

func embeddedId(name string) string {
	if m := embeddedIdRegex.FindStringSubmatch(name); m != nil {
		return strings.ToLower(m[1])
	}
	return ""
}

// YearMatches lets an embedded id equal to meta.Id win over the year. An
// unknown year on either side does not disqualify.
func YearMatches(c *Candidate, meta *CanonicalMeta) bool {
	if meta.Id != "" && embeddedId(c.Name) == strings.ToLower(meta.Id) {
		return true
	}
	if c.Info == nil || c.Info.Year == "" || meta.Year == 0 {
		return true
	}
	year := util.SafeParseInt(c.Info.Year, 0)
	if year == 0 {
		// ranges like "2001-2004"
		from, to, ok := strings.Cut(c.Info.Year, "-")
		if !ok {
			return true
		}
		fromYear, toYear := util.SafeParseInt(from, 0), util.SafeParseInt(to, 0)
		if fromYear == 0 || toYear == 0 {
			return true
		}
		return fromYear <= meta.Year && meta.Year <= toYear
	}
	return year == meta.Year
}

func SeasonMatches(c *Candidate, season int) bool {
	if c.Info == nil || len(c.Info.Seasons) == 0 {
		return true
	}
	return slices.Contains(c.Info.Seasons, season)
}

func fileMatchesEpisode(f *VideoFile, season, episode int) bool {
	if f.Info == nil || len(f.Info.Seasons) == 0 || len(f.Info.Episodes) == 0 {
		return false
	}
	return f.Info.Seasons[0] == season && slices.Contains(f.Info.Episodes, episode)
}

// EpisodeMatches returns a copy of item holding only the files of the given
// season and episode. Files without parsed season or episode are dropped.
// item itself is left untouched.
func EpisodeMatches(item *ExpandedItem, season, episode int) (*ExpandedItem, bool) {
	narrowed := &ExpandedItem{Candidate: item.Candidate, Files: []VideoFile{}}
	for i := range item.Files {
		if fileMatchesEpisode(&item.Files[i], season, episode) {
			narrowed.Files = append(narrowed.Files, item.Files[i])
		}
	}
	return narrowed, len(narrowed.Files) > 0
}

// describes a year for logs
func yearString(year int) string {
	if year == 0 {
		return "unknown"
	}
	return strconv.Itoa(year)
}
