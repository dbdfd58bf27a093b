package store

import (
	"slices"
	"strings"
)

// Paginate applies params.Offset/params.Limit over already collected items.
func Paginate(items []Item, params *ListItemsParams) *ListItemsData {
	data := &ListItemsData{TotalItems: len(items)}
	if params.Offset >= len(items) {
		data.Items = []Item{}
		return data
	}
	items = items[params.Offset:]
	if params.Limit > 0 && params.Limit < len(items) {
		items = items[:params.Limit]
	}
	data.Items = items
	return data
}

// SortByAddedAt orders newest first.
func SortByAddedAt(items []Item) {
	slices.SortStableFunc(items, func(a, b Item) int {
		return b.AddedAt.Compare(a.AddedAt)
	})
}

func FileNameFromPath(path string) string {
	path = strings.TrimRight(path, "/")
	if i := strings.LastIndex(path, "/"); i != -1 {
		return path[i+1:]
	}
	return path
}
