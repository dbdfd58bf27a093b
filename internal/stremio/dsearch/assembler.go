package stremio_dsearch

import (
	"strings"

	stremio_transformer "github.com/nguyenvanvutlv/resolver/internal/stremio/transformer"
	"github.com/nguyenvanvutlv/resolver/internal/util"
	"github.com/nguyenvanvutlv/resolver/stremio"
)

const addonName = "DebridSearch"

type StreamDescriptor struct {
	Name       string
	Title      string
	URL        string
	BingeGroup string
	Filename   string
	VideoSize  int64

	Score      float64
	Resolution string
	Quality    string

	meta *stremio_transformer.StreamMeta
}

func (d *StreamDescriptor) GetMatchScore() float64 { return d.Score }
func (d *StreamDescriptor) GetSize() int64         { return d.VideoSize }
func (d *StreamDescriptor) GetResolution() string  { return d.Resolution }
func (d *StreamDescriptor) GetQuality() string     { return d.Quality }
func (d *StreamDescriptor) GetSortKey() string     { return d.BingeGroup + "\x00" + d.URL }

func (d *StreamDescriptor) ToStream() stremio.Stream {
	return stremio.Stream{
		Name:  d.Name,
		Title: d.Title,
		URL:   d.URL,
		BehaviorHints: &stremio.StreamBehaviorHints{
			BingeGroup: d.BingeGroup,
			Filename:   d.Filename,
			VideoSize:  d.VideoSize,
		},
	}
}

func GroupingKey(item *ExpandedItem) string {
	return string(item.Source) + "|" + item.Id
}

func resolutionOf(item *ExpandedItem, file *VideoFile) string {
	if file.Info != nil && file.Info.Resolution != "" {
		return file.Info.Resolution
	}
	if item.Info != nil && item.Info.Resolution != "" {
		return item.Info.Resolution
	}
	return ""
}

// Assemble describes the largest file of item, which for series must
// already be narrowed to the requested episode.
func Assemble(item *ExpandedItem, req *MediaRequest, ref Referencer) (*StreamDescriptor, error) {
	file := item.Largest()
	if file == nil {
		return nil, nil
	}

	url, err := ref.Reference(item, file)
	if err != nil {
		return nil, err
	}

	resolution := resolutionOf(item, file)
	displayResolution := resolution
	if displayResolution == "" {
		displayResolution = "Unknown"
	}

	var title strings.Builder
	if item.Kind.IsSingleFile() {
		title.WriteString("⬇️ Debrid Download")
	} else {
		title.WriteString("⬆️ User Upload")
	}
	title.WriteString("\n📦 " + util.ToSize(file.Size))
	title.WriteString("\n📄 " + item.Name)
	if req.IsSeries() {
		title.WriteString("\n🎞️ " + file.Name)
	}

	quality := ""
	if file.Info != nil && file.Info.Quality != "" {
		quality = file.Info.Quality
	} else if item.Info != nil {
		quality = item.Info.Quality
	}

	code := item.Source.Code()
	d := &StreamDescriptor{
		Name:       "[" + code.Label() + " (Your Media)] " + addonName + " " + displayResolution,
		Title:      title.String(),
		URL:        url,
		BingeGroup: GroupingKey(item),
		Filename:   file.Name,
		VideoSize:  file.Size,
		Score:      item.Score,
		Resolution: resolution,
		Quality:    quality,
	}
	d.meta = &stremio_transformer.StreamMeta{
		Result:     file.Info,
		ItemName:   item.Name,
		ItemKind:   string(item.Kind),
		MatchScore: item.Score,
		File: stremio_transformer.StreamMetaFile{
			Name: file.Name,
			Size: util.ToSize(file.Size),
		},
		Store: stremio_transformer.StreamMetaStore{
			Code: string(code),
			Name: string(item.Source),
		},
	}
	return d, nil
}
