package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPaginate(t *testing.T) {
	items := []Item{{Id: "1"}, {Id: "2"}, {Id: "3"}}
	for _, tc := range []struct {
		name   string
		limit  int
		offset int
		ids    []string
	}{
		{"no limit", 0, 0, []string{"1", "2", "3"}},
		{"limit", 2, 0, []string{"1", "2"}},
		{"offset", 2, 2, []string{"3"}},
		{"offset past end", 2, 5, []string{}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			data := Paginate(items, &ListItemsParams{Limit: tc.limit, Offset: tc.offset})
			ids := []string{}
			for _, item := range data.Items {
				ids = append(ids, item.Id)
			}
			assert.Equal(t, tc.ids, ids)
			assert.Equal(t, 3, data.TotalItems)
		})
	}
}

func TestSortByAddedAt(t *testing.T) {
	now := time.Now()
	items := []Item{{Id: "old", AddedAt: now.Add(-time.Hour)}, {Id: "new", AddedAt: now}}
	SortByAddedAt(items)
	assert.Equal(t, "new", items[0].Id)
}

func TestStoreCode(t *testing.T) {
	assert.Equal(t, StoreNameRealDebrid, StoreCodeRealDebrid.Name())
	assert.Equal(t, StoreCodeTorBox, StoreNameTorBox.Code())
	assert.Equal(t, "RD", StoreCodeRealDebrid.Label())
	assert.False(t, StoreCode("xx").IsValid())
	assert.Equal(t, "Movie.mkv", FileNameFromPath("/Folder/Movie.mkv"))
}
