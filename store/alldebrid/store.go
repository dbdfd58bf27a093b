package alldebrid

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

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
		Name: store.StoreNameAllDebrid,
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
		Id:                 res.User.Username,
		Email:              res.User.Email,
		SubscriptionStatus: store.UserSubscriptionStatusExpired,
	}
	if res.User.IsPremium {
		user.SubscriptionStatus = store.UserSubscriptionStatusPremium
	} else if res.User.IsTrial {
		user.SubscriptionStatus = store.UserSubscriptionStatusTrial
	}
	return user, nil
}

func magnetToItem(m *Magnet) store.Item {
	return store.Item{
		Id:      strconv.Itoa(m.Id),
		Name:    m.Filename,
		Hash:    strings.ToLower(m.Hash),
		Size:    m.Size,
		AddedAt: time.Unix(m.CompletionDate, 0).UTC(),
		Kind:    store.ItemKindTorrent,
	}
}

func savedLinkToItem(l *SavedLink) store.Item {
	name := l.Filename
	if name == "" {
		name = store.FileNameFromPath(l.Link)
	}
	return store.Item{
		Id:      l.Link,
		Name:    name,
		Size:    l.Size,
		AddedAt: time.Unix(l.Date, 0).UTC(),
		Kind:    store.ItemKindDirect,
		Link:    l.Link,
	}
}

// ListItems merges ready magnets and saved links.
func (s *StoreClient) ListItems(ctx context.Context, params *store.ListItemsParams) (*store.ListItemsData, error) {
	var magnets []Magnet
	var links []SavedLink

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		magnets, err = s.client.GetMagnetStatus(gctx, &GetMagnetStatusParams{Ctx: params.Ctx})
		return err
	})
	g.Go(func() (err error) {
		links, err = s.client.ListSavedLinks(gctx, &ListSavedLinksParams{Ctx: params.Ctx})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	items := make([]store.Item, 0, len(magnets)+len(links))
	for i := range magnets {
		if magnets[i].StatusCode != MagnetStatusCodeReady {
			continue
		}
		items = append(items, magnetToItem(&magnets[i]))
	}
	for i := range links {
		items = append(items, savedLinkToItem(&links[i]))
	}
	store.SortByAddedAt(items)
	return store.Paginate(items, params), nil
}

func (s *StoreClient) GetItem(ctx context.Context, params *store.GetItemParams) (*store.GetItemData, error) {
	magnets, err := s.client.GetMagnetStatus(ctx, &GetMagnetStatusParams{Ctx: params.Ctx, Id: params.Id})
	if err != nil {
		return nil, err
	}
	if len(magnets) == 0 {
		return nil, core.NewError(core.ErrorCodeNotFound, "magnet not found").WithStoreName(string(s.Name))
	}
	m := &magnets[0]
	data := &store.GetItemData{Item: magnetToItem(m)}
	data.Files = make([]store.File, 0, len(m.Links))
	for i, l := range m.Links {
		data.Files = append(data.Files, store.File{
			Id:       strconv.Itoa(i),
			Name:     l.Filename,
			Path:     l.Filename,
			Size:     l.Size,
			Link:     l.Link,
			Selected: true,
		})
	}
	return data, nil
}

func (s *StoreClient) UnlockLink(ctx context.Context, params *store.UnlockLinkParams) (*store.UnlockLinkData, error) {
	link := params.Link
	if link == "" {
		data, err := s.GetItem(ctx, &store.GetItemParams{Ctx: params.Ctx, Id: params.ItemId})
		if err != nil {
			return nil, err
		}
		for _, f := range data.Files {
			if f.Id == params.FileId {
				link = f.Link
				break
			}
		}
		if link == "" {
			return nil, core.NewError(core.ErrorCodeNotFound, "file link not found").WithStoreName(string(s.Name))
		}
	}
	res, err := s.client.UnlockLink(ctx, &UnlockLinkParams{Ctx: params.Ctx, Link: link})
	if err != nil {
		return nil, err
	}
	return &store.UnlockLinkData{Link: res.Link}, nil
}
