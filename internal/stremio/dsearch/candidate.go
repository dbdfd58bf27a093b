package stremio_dsearch

import (
	"time"

	"github.com/MunifTanjim/go-ptt"
	"github.com/nguyenvanvutlv/resolver/internal/util"
	"github.com/nguyenvanvutlv/resolver/store"
)

type CanonicalMeta struct {
	Title string
	// 0 when unknown
	Year int
	Id   string
}

type Candidate struct {
	Source    store.StoreName
	Id        string
	Name      string
	Info      *ptt.Result
	Size      int64
	CreatedAt time.Time
	Kind      store.ItemKind
	Link      string
	// nil when the listing did not carry files
	Files []store.File
	Score float64
}

func NewCandidate(source store.StoreName, item *store.Item) Candidate {
	return Candidate{
		Source:    source,
		Id:        item.Id,
		Name:      item.Name,
		Info:      util.ParseTorrentTitle(item.Name),
		Size:      item.Size,
		CreatedAt: item.AddedAt,
		Kind:      item.Kind,
		Link:      item.Link,
		Files:     item.Files,
	}
}

func (c *Candidate) Title() string {
	if c.Info != nil && c.Info.Title != "" {
		return c.Info.Title
	}
	return c.Name
}

// AccessToken is resolved into a playable link only at playback time: either
// a ready backend link, or the item/file pair the backend unlocks lazily.
type AccessToken struct {
	Link   string
	ItemId string
	FileId string
}

func (t AccessToken) IsDeferred() bool {
	return t.Link == ""
}

type VideoFile struct {
	Id          string
	Name        string
	Size        int64
	CreatedAt   time.Time
	Info        *ptt.Result
	AccessToken AccessToken
}

type ExpandedItem struct {
	Candidate
	Files []VideoFile
}

// Largest returns the biggest file, the first one on ties.
func (item *ExpandedItem) Largest() *VideoFile {
	var largest *VideoFile
	for i := range item.Files {
		if largest == nil || item.Files[i].Size > largest.Size {
			largest = &item.Files[i]
		}
	}
	return largest
}
