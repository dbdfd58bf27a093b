package debridlink

import (
	"context"
	"net/http"
	"strings"
	"time"

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
		Name: store.StoreNameDebridLink,
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
	res, err := s.client.GetAccountInfo(ctx, &GetAccountInfoParams{Ctx: params.Ctx})
	if err != nil {
		return nil, err
	}
	user := &store.User{
		Id:                 res.Pseudo,
		Email:              res.Email,
		SubscriptionStatus: store.UserSubscriptionStatusExpired,
	}
	if res.AccountType == 1 {
		user.SubscriptionStatus = store.UserSubscriptionStatusPremium
	}
	return user, nil
}

func torrentToItem(t *SeedboxTorrent) store.Item {
	item := store.Item{
		Id:      t.Id,
		Name:    t.Name,
		Hash:    strings.ToLower(t.HashString),
		Size:    t.TotalSize,
		AddedAt: time.Unix(t.Created, 0).UTC(),
		Kind:    store.ItemKindTorrent,
		Files:   make([]store.File, 0, len(t.Files)),
	}
	for _, f := range t.Files {
		if f.DownloadPercent < 100 {
			continue
		}
		item.Files = append(item.Files, store.File{
			Id:       f.Id,
			Name:     store.FileNameFromPath(f.Name),
			Path:     f.Name,
			Size:     f.Size,
			Link:     f.DownloadURL,
			Selected: true,
		})
	}
	return item
}

func (s *StoreClient) ListItems(ctx context.Context, params *store.ListItemsParams) (*store.ListItemsData, error) {
	torrents, err := s.client.ListSeedboxTorrents(ctx, &ListSeedboxTorrentsParams{Ctx: params.Ctx})
	if err != nil {
		return nil, err
	}
	items := make([]store.Item, 0, len(torrents))
	for i := range torrents {
		items = append(items, torrentToItem(&torrents[i]))
	}
	store.SortByAddedAt(items)
	return store.Paginate(items, params), nil
}

func (s *StoreClient) GetItem(ctx context.Context, params *store.GetItemParams) (*store.GetItemData, error) {
	torrents, err := s.client.ListSeedboxTorrents(ctx, &ListSeedboxTorrentsParams{Ctx: params.Ctx, Ids: params.Id})
	if err != nil {
		return nil, err
	}
	for i := range torrents {
		if torrents[i].Id == params.Id {
			return &store.GetItemData{Item: torrentToItem(&torrents[i])}, nil
		}
	}
	return nil, core.NewError(core.ErrorCodeNotFound, "torrent not found").WithStoreName(string(s.Name))
}

// UnlockLink returns links as-is, seedbox download urls are already direct.
func (s *StoreClient) UnlockLink(ctx context.Context, params *store.UnlockLinkParams) (*store.UnlockLinkData, error) {
	if params.Link != "" {
		return &store.UnlockLinkData{Link: params.Link}, nil
	}
	data, err := s.GetItem(ctx, &store.GetItemParams{Ctx: params.Ctx, Id: params.ItemId})
	if err != nil {
		return nil, err
	}
	for _, f := range data.Files {
		if f.Id == params.FileId && f.Link != "" {
			return &store.UnlockLinkData{Link: f.Link}, nil
		}
	}
	return nil, core.NewError(core.ErrorCodeNotFound, "file link not found").WithStoreName(string(s.Name))
}
