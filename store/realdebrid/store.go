package realdebrid

import (
	"context"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/nguyenvanvutlv/resolver/core"
	"github.com/nguyenvanvutlv/resolver/internal/request"
	"github.com/nguyenvanvutlv/resolver/store"
	"golang.org/x/sync/errgroup"
)

type StoreClientConfig struct {
	BaseURL     string
	HTTPClient  *http.Client
	RetryPolicy *request.RetryPolicy
}

type StoreClient struct {
	Name   store.StoreName
	client *APIClient
}

func NewStoreClient(config *StoreClientConfig) *StoreClient {
	if config == nil {
		config = &StoreClientConfig{}
	}
	return &StoreClient{
		Name: store.StoreNameRealDebrid,
		client: NewAPIClient(&APIClientConfig{
			BaseURL:     config.BaseURL,
			HTTPClient:  config.HTTPClient,
			RetryPolicy: config.RetryPolicy,
		}),
	}
}

func (s *StoreClient) GetName() store.StoreName {
	return s.Name
}

func (s *StoreClient) GetUser(ctx context.Context, params *store.GetUserParams) (*store.User, error) {
	res, err := s.client.GetUser(ctx, &GetUserParams{Ctx: params.Ctx})
	if err != nil {
		return nil, err
	}
	user := &store.User{
		Id:                 strconv.Itoa(res.Id),
		Email:              res.Email,
		SubscriptionStatus: store.UserSubscriptionStatusExpired,
	}
	if res.Type == "premium" {
		user.SubscriptionStatus = store.UserSubscriptionStatusPremium
	}
	return user, nil
}

func torrentToItem(t *ListTorrentsDataItem) store.Item {
	return store.Item{
		Id:      t.Id,
		Name:    t.Filename,
		Hash:    strings.ToLower(t.Hash),
		Size:    t.Bytes,
		AddedAt: t.Added,
		Kind:    store.ItemKindTorrent,
	}
}

func downloadToItem(d *ListDownloadsDataItem) store.Item {
	return store.Item{
		Id:      d.Id,
		Name:    d.Filename,
		Size:    d.Filesize,
		AddedAt: d.Generated,
		Kind:    store.ItemKindDownload,
		Link:    d.Download,
	}
}

// ListItems merges torrents and downloads. RealDebrid has no search, so
// params.Query is left to the caller.
func (s *StoreClient) ListItems(ctx context.Context, params *store.ListItemsParams) (*store.ListItemsData, error) {
	var torrents []ListTorrentsDataItem
	var downloads []ListDownloadsDataItem

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		torrents, err = s.client.ListTorrents(gctx, &ListTorrentsParams{Ctx: params.Ctx})
		return err
	})
	g.Go(func() (err error) {
		downloads, err = s.client.ListDownloads(gctx, &ListDownloadsParams{Ctx: params.Ctx})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	items := make([]store.Item, 0, len(torrents)+len(downloads))
	for i := range torrents {
		items = append(items, torrentToItem(&torrents[i]))
	}
	for i := range downloads {
		if downloads[i].Download == "" {
			continue
		}
		items = append(items, downloadToItem(&downloads[i]))
	}
	store.SortByAddedAt(items)
	return store.Paginate(items, params), nil
}

func toItemData(t *GetTorrentInfoData) *store.GetItemData {
	data := &store.GetItemData{
		Item: store.Item{
			Id:      t.Id,
			Name:    t.Filename,
			Hash:    strings.ToLower(t.Hash),
			Size:    t.Bytes,
			AddedAt: t.Added,
			Kind:    store.ItemKindTorrent,
			Files:   make([]store.File, 0, len(t.Files)),
		},
	}

	// links are in the order of the selected files
	linkIdx := 0
	hasSelectedVideo := false
	for _, f := range t.Files {
		file := store.File{
			Id:       strconv.Itoa(f.Id),
			Name:     store.FileNameFromPath(f.Path),
			Path:     f.Path,
			Size:     f.Bytes,
			Selected: f.Selected == 1,
		}
		if file.Selected {
			if linkIdx < len(t.Links) {
				file.Link = t.Links[linkIdx]
			}
			linkIdx++
			if core.HasVideoExtension(file.Path) {
				hasSelectedVideo = true
			}
		}
		data.Files = append(data.Files, file)
	}

	data.NeedsFileSelection = t.Status == TorrentStatusDownloaded && (len(t.Links) == 0 || !hasSelectedVideo)
	return data
}

func (s *StoreClient) GetItem(ctx context.Context, params *store.GetItemParams) (*store.GetItemData, error) {
	t, err := s.client.GetTorrentInfo(ctx, &GetTorrentInfoParams{Ctx: params.Ctx, Id: params.Id})
	if err != nil {
		return nil, err
	}
	return toItemData(t), nil
}

func (s *StoreClient) SelectAllFiles(ctx context.Context, params *store.SelectFilesParams) error {
	return s.client.SelectTorrentFiles(ctx, &SelectTorrentFilesParams{Ctx: params.Ctx, Id: params.Id, Files: "all"})
}

func isDownloadLink(link string) bool {
	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	return strings.Contains(u.Hostname(), ".download.real-debrid.")
}

func (s *StoreClient) findFileLink(ctx context.Context, params *store.UnlockLinkParams) (string, error) {
	data, err := s.GetItem(ctx, &store.GetItemParams{Ctx: params.Ctx, Id: params.ItemId})
	if err != nil {
		return "", err
	}
	if data.NeedsFileSelection {
		if err := s.SelectAllFiles(ctx, &store.SelectFilesParams{Ctx: params.Ctx, Id: params.ItemId}); err != nil {
			return "", err
		}
		if data, err = s.GetItem(ctx, &store.GetItemParams{Ctx: params.Ctx, Id: params.ItemId}); err != nil {
			return "", err
		}
	}
	idx := slices.IndexFunc(data.Files, func(f store.File) bool {
		return f.Id == params.FileId
	})
	if idx == -1 || data.Files[idx].Link == "" {
		return "", core.NewError(core.ErrorCodeNotFound, "file link not found").WithStoreName(string(s.Name))
	}
	return data.Files[idx].Link, nil
}

func (s *StoreClient) UnlockLink(ctx context.Context, params *store.UnlockLinkParams) (*store.UnlockLinkData, error) {
	link := params.Link
	if link == "" {
		if params.ItemId == "" || params.FileId == "" {
			return nil, core.NewError(core.ErrorCodeBadRequest, "missing link").WithStoreName(string(s.Name))
		}
		var err error
		if link, err = s.findFileLink(ctx, params); err != nil {
			return nil, err
		}
	}
	if isDownloadLink(link) {
		return &store.UnlockLinkData{Link: link}, nil
	}
	res, err := s.client.UnrestrictLink(ctx, &UnrestrictLinkParams{Ctx: params.Ctx, Link: link})
	if err != nil {
		return nil, err
	}
	return &store.UnlockLinkData{Link: res.Download}, nil
}
