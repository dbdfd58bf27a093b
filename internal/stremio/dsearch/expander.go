package stremio_dsearch

import (
	"context"

	"github.com/nguyenvanvutlv/resolver/core"
	"github.com/nguyenvanvutlv/resolver/internal/logger"
	"github.com/nguyenvanvutlv/resolver/internal/util"
	"github.com/nguyenvanvutlv/resolver/store"
)

type Expander struct {
	Store  store.Store
	Params store.Ctx
	Log    *logger.Logger
}

func (e *Expander) getLog() *logger.Logger {
	if e.Log == nil {
		return log
	}
	return e.Log
}

func parseFileInfo(f *store.File) *VideoFile {
	vf := &VideoFile{
		Id:   f.Id,
		Name: f.Name,
		Size: f.Size,
		Info: util.ParseTorrentTitle(f.Name),
	}
	if len(vf.Info.Seasons) == 0 && f.Path != "" && f.Path != f.Name {
		// season is sometimes only in the folder name
		if pathInfo := util.ParseTorrentTitle(f.Path); len(pathInfo.Seasons) > 0 {
			info := *vf.Info
			info.Seasons = pathInfo.Seasons
			vf.Info = &info
		}
	}
	return vf
}

func toVideoFiles(c *Candidate, files []store.File) []VideoFile {
	videos := []VideoFile{}
	for i := range files {
		f := &files[i]
		if !f.Selected {
			continue
		}
		if !core.HasVideoExtension(f.Name) && !core.HasVideoExtension(f.Path) {
			continue
		}
		vf := parseFileInfo(f)
		vf.CreatedAt = c.CreatedAt
		if f.Link != "" {
			vf.AccessToken = AccessToken{Link: f.Link}
		} else {
			vf.AccessToken = AccessToken{ItemId: c.Id, FileId: f.Id}
		}
		videos = append(videos, *vf)
	}
	return videos
}

func singleFileOf(c *Candidate) []VideoFile {
	if !core.HasVideoExtension(c.Name) && !core.HasVideoExtension(c.Link) {
		return []VideoFile{}
	}
	token := AccessToken{Link: c.Link}
	if c.Link == "" {
		token = AccessToken{ItemId: c.Id}
	}
	return []VideoFile{{
		Id:          c.Id,
		Name:        c.Name,
		Size:        c.Size,
		CreatedAt:   c.CreatedAt,
		Info:        c.Info,
		AccessToken: token,
	}}
}

func (e *Expander) fetchFiles(ctx context.Context, c *Candidate) ([]store.File, error) {
	data, err := e.Store.GetItem(ctx, &store.GetItemParams{Ctx: e.Params, Id: c.Id})
	if err != nil {
		return nil, err
	}
	if !data.NeedsFileSelection {
		return data.Files, nil
	}
	selector, ok := e.Store.(store.FileSelector)
	if !ok {
		return data.Files, nil
	}
	if err := selector.SelectAllFiles(ctx, &store.SelectFilesParams{Ctx: e.Params, Id: c.Id}); err != nil {
		e.getLog().Warn("failed to select files", "id", c.Id, "error", err)
	}
	// a failed refresh keeps the files already known, they still resolve
	// through the deferred item/file token
	refreshed, err := e.Store.GetItem(ctx, &store.GetItemParams{Ctx: e.Params, Id: c.Id})
	if err != nil {
		e.getLog().Warn("failed to refresh item", "id", c.Id, "error", err)
		return data.Files, nil
	}
	return refreshed.Files, nil
}

// Expand lists the playable video files of c. It returns nil, nil when c has
// none. Links are never unlocked here.
func (e *Expander) Expand(ctx context.Context, c *Candidate) (*ExpandedItem, error) {
	item := &ExpandedItem{Candidate: *c}

	switch {
	case c.Kind.IsSingleFile():
		item.Files = singleFileOf(c)
	case c.Files != nil:
		item.Files = toVideoFiles(c, c.Files)
	default:
		files, err := e.fetchFiles(ctx, c)
		if err != nil {
			return nil, err
		}
		item.Files = toVideoFiles(c, files)
	}

	if len(item.Files) == 0 {
		return nil, nil
	}
	return item, nil
}
