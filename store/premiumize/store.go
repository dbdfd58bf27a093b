package premiumize

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
		Name: store.StoreNamePremiumize,
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
		Id:                 res.CustomerId.String(),
		SubscriptionStatus: store.UserSubscriptionStatusExpired,
	}
	if time.Unix(res.PremiumUntil, 0).After(time.Now()) {
		user.SubscriptionStatus = store.UserSubscriptionStatusPremium
	}
	return user, nil
}

func toItem(id, name string, size, createdAt int64) store.Item {
	return store.Item{
		Id:      id,
		Name:    name,
		Size:    size,
		AddedAt: time.Unix(createdAt, 0).UTC(),
		Kind:    store.ItemKindTorrent,
	}
}

func (s *StoreClient) searchItems(ctx context.Context, params *store.ListItemsParams) ([]store.Item, error) {
	content, err := s.client.SearchFolder(ctx, &SearchFolderParams{Ctx: params.Ctx, Query: params.Query})
	if err != nil {
		return nil, err
	}
	items := make([]store.Item, 0, len(content))
	for i := range content {
		if c := &content[i]; c.Type == FolderContentTypeFile {
			items = append(items, toItem(c.Id, c.Name, c.Size, c.CreatedAt))
		}
	}
	return items, nil
}

func (s *StoreClient) listAllItems(ctx context.Context, params *store.ListItemsParams) ([]store.Item, error) {
	files, err := s.client.ListAllItems(ctx, &ListAllItemsParams{Ctx: params.Ctx})
	if err != nil {
		return nil, err
	}
	items := make([]store.Item, 0, len(files))
	for i := range files {
		f := &files[i]
		items = append(items, toItem(f.Id, f.Name, f.Size, f.CreatedAt))
	}
	return items, nil
}

// ListItems uses the native folder search when params.Query is set. The
// search is keyword based, so when it finds nothing the whole library is
// returned unsearched and left to client side matching.
func (s *StoreClient) ListItems(ctx context.Context, params *store.ListItemsParams) (*store.ListItemsData, error) {
	var items []store.Item
	var err error
	isSearched := false
	if params.Query != "" {
		if items, err = s.searchItems(ctx, params); err != nil {
			return nil, err
		}
		isSearched = len(items) > 0
	}
	if !isSearched {
		if items, err = s.listAllItems(ctx, params); err != nil {
			return nil, err
		}
	}
	store.SortByAddedAt(items)
	data := store.Paginate(items, params)
	data.IsSearched = isSearched
	return data, nil
}

func (s *StoreClient) GetItem(ctx context.Context, params *store.GetItemParams) (*store.GetItemData, error) {
	res, err := s.client.GetItemDetails(ctx, &GetItemDetailsParams{Ctx: params.Ctx, Id: params.Id})
	if err != nil {
		return nil, err
	}
	data := &store.GetItemData{Item: toItem(res.Id, res.Name, res.Size, res.CreatedAt)}
	data.Hash = strings.ToLower(res.Id)
	data.Files = []store.File{}
	link := res.DirectLink
	if link == "" {
		link = res.StreamLink
	}
	if link == "" {
		link = res.Link
	}
	if link != "" && (core.HasVideoExtension(link) || core.HasVideoExtension(res.Name)) {
		data.Files = append(data.Files, store.File{
			Id:       res.Id,
			Name:     res.Name,
			Path:     res.Name,
			Size:     res.Size,
			Link:     link,
			Selected: true,
		})
	}
	return data, nil
}

// UnlockLink returns links as-is, premiumize links are already direct.
func (s *StoreClient) UnlockLink(ctx context.Context, params *store.UnlockLinkParams) (*store.UnlockLinkData, error) {
	if params.Link != "" {
		return &store.UnlockLinkData{Link: params.Link}, nil
	}
	data, err := s.GetItem(ctx, &store.GetItemParams{Ctx: params.Ctx, Id: params.ItemId})
	if err != nil {
		return nil, err
	}
	if len(data.Files) == 0 {
		return nil, core.NewError(core.ErrorCodeNotFound, "file link not found").WithStoreName(string(s.Name))
	}
	return &store.UnlockLinkData{Link: data.Files[0].Link}, nil
}
