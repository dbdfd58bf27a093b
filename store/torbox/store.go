package torbox

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/nguyenvanvutlv/resolver/core"
	"github.com/nguyenvanvutlv/resolver/internal/request"
	"github.com/nguyenvanvutlv/resolver/store"
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
		Name: store.StoreNameTorBox,
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
	if res.IsSubscribed {
		user.SubscriptionStatus = store.UserSubscriptionStatusPremium
	}
	return user, nil
}

func torrentToItem(t *Torrent) store.Item {
	item := store.Item{
		Id:      strconv.Itoa(t.Id),
		Name:    t.Name,
		Hash:    strings.ToLower(t.Hash),
		Size:    t.Size,
		AddedAt: t.CreatedAt,
		Kind:    store.ItemKindTorrent,
		Files:   make([]store.File, 0, len(t.Files)),
	}
	for _, f := range t.Files {
		name := f.ShortName
		if name == "" {
			name = store.FileNameFromPath(f.Name)
		}
		item.Files = append(item.Files, store.File{
			Id:       strconv.Itoa(f.Id),
			Name:     name,
			Path:     f.Name,
			Size:     f.Size,
			Selected: true,
		})
	}
	return item
}

// ListItems returns torrents with their files, so no detail round trip is
// needed for them.
func (s *StoreClient) ListItems(ctx context.Context, params *store.ListItemsParams) (*store.ListItemsData, error) {
	torrents, err := s.client.ListTorrents(ctx, &ListTorrentsParams{Ctx: params.Ctx})
	if err != nil {
		return nil, err
	}
	items := make([]store.Item, 0, len(torrents))
	for i := range torrents {
		if !torrents[i].DownloadPresent {
			continue
		}
		items = append(items, torrentToItem(&torrents[i]))
	}
	store.SortByAddedAt(items)
	return store.Paginate(items, params), nil
}

func (s *StoreClient) GetItem(ctx context.Context, params *store.GetItemParams) (*store.GetItemData, error) {
	t, err := s.client.GetTorrent(ctx, &GetTorrentParams{Ctx: params.Ctx, Id: params.Id})
	if err != nil {
		return nil, err
	}
	return &store.GetItemData{Item: torrentToItem(t)}, nil
}

func (s *StoreClient) UnlockLink(ctx context.Context, params *store.UnlockLinkParams) (*store.UnlockLinkData, error) {
	if params.Link != "" {
		return &store.UnlockLinkData{Link: params.Link}, nil
	}
	if params.ItemId == "" || params.FileId == "" {
		return nil, core.NewError(core.ErrorCodeBadRequest, "missing torrent or file id").WithStoreName(string(s.Name))
	}
	link, err := s.client.RequestDownloadLink(ctx, &RequestDownloadLinkParams{
		Ctx:       params.Ctx,
		TorrentId: params.ItemId,
		FileId:    params.FileId,
	})
	if err != nil {
		return nil, err
	}
	return &store.UnlockLinkData{Link: link}, nil
}
