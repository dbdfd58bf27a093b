package stremio_transformer

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

type Sortable interface {
	GetMatchScore() float64
	GetSize() int64
	GetResolution() string
	GetQuality() string
	// unique, used to break ties
	GetSortKey() string
}

type sortField struct {
	name       string
	descending bool
}

type StreamSort struct {
	Blob   string
	fields []sortField
}

const DefaultStreamSort = "score,size"

var sortFieldComparators = map[string]func(a, b Sortable) int{
	"score": func(a, b Sortable) int {
		return cmp.Compare(a.GetMatchScore(), b.GetMatchScore())
	},
	"size": func(a, b Sortable) int {
		return cmp.Compare(a.GetSize(), b.GetSize())
	},
	"resolution": func(a, b Sortable) int {
		return cmp.Compare(getResolutionRank(a.GetResolution()), getResolutionRank(b.GetResolution()))
	},
	"quality": func(a, b Sortable) int {
		return cmp.Compare(getQualityRank(a.GetQuality()), getQualityRank(b.GetQuality()))
	},
}

// ParseStreamSort parses a comma separated field list. Fields sort best
// first (higher value first); a `-` prefix reverses a field.
func ParseStreamSort(blob string) (*StreamSort, error) {
	if strings.TrimSpace(blob) == "" {
		blob = DefaultStreamSort
	}
	ss := &StreamSort{Blob: blob}
	seen := map[string]struct{}{}
	for part := range strings.SplitSeq(blob, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		field := sortField{name: part, descending: true}
		if name, ok := strings.CutPrefix(part, "-"); ok {
			field = sortField{name: name, descending: false}
		}
		if _, ok := sortFieldComparators[field.name]; !ok {
			return nil, fmt.Errorf("unknown sort field: %q", field.name)
		}
		if _, ok := seen[field.name]; ok {
			continue
		}
		seen[field.name] = struct{}{}
		ss.fields = append(ss.fields, field)
	}
	return ss, nil
}

func (ss *StreamSort) compare(a, b Sortable) int {
	for _, f := range ss.fields {
		c := sortFieldComparators[f.name](a, b)
		if f.descending {
			c = -c
		}
		if c != 0 {
			return c
		}
	}
	return strings.Compare(a.GetSortKey(), b.GetSortKey())
}

// SortStreams orders streams totally: configured fields, then sort key.
func SortStreams[T Sortable](streams []T, ss *StreamSort) {
	if ss == nil {
		ss, _ = ParseStreamSort("")
	}
	slices.SortStableFunc(streams, func(a, b T) int {
		return ss.compare(a, b)
	})
}
