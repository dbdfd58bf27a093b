package stremio_dsearch

import (
	"context"
	"net/url"
	"sync"

	"github.com/nguyenvanvutlv/resolver/core"
	"github.com/nguyenvanvutlv/resolver/store"
)

type fakeStore struct {
	name store.StoreName

	mu      sync.Mutex
	items   []store.Item
	listErr error
	// by item id
	details map[string]*store.GetItemData
	getErrs map[string]error
	// returned from the second GetItem onwards
	refreshErrs map[string]error
	panicsOn    string

	listCalls   int
	listQueries []string
	getCalls    map[string]int
	unlocked    []store.UnlockLinkParams
}

func newFakeStore(items ...store.Item) *fakeStore {
	return &fakeStore{
		name:        store.StoreNameRealDebrid,
		items:       items,
		details:     map[string]*store.GetItemData{},
		getErrs:     map[string]error{},
		refreshErrs: map[string]error{},
		getCalls:    map[string]int{},
	}
}

func (s *fakeStore) GetName() store.StoreName {
	return s.name
}

func (s *fakeStore) GetUser(ctx context.Context, params *store.GetUserParams) (*store.User, error) {
	if params.APIKey != "good-token" {
		return nil, core.NewError(core.ErrorCodeUnauthorized, "bad token")
	}
	return &store.User{Id: "1", Email: "user@example.com", SubscriptionStatus: store.UserSubscriptionStatusPremium}, nil
}

func (s *fakeStore) ListItems(ctx context.Context, params *store.ListItemsParams) (*store.ListItemsData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCalls++
	s.listQueries = append(s.listQueries, params.Query)
	if s.listErr != nil {
		return nil, s.listErr
	}
	return store.Paginate(s.items, params), nil
}

func (s *fakeStore) GetItem(ctx context.Context, params *store.GetItemParams) (*store.GetItemData, error) {
	s.mu.Lock()
	s.getCalls[params.Id]++
	calls := s.getCalls[params.Id]
	data, err := s.details[params.Id], s.getErrs[params.Id]
	if calls > 1 && s.refreshErrs[params.Id] != nil {
		err = s.refreshErrs[params.Id]
	}
	panics := s.panicsOn == params.Id
	s.mu.Unlock()

	if panics {
		panic("unexpected payload for " + params.Id)
	}
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, core.NewError(core.ErrorCodeNotFound, "item not found")
	}
	if data.NeedsFileSelection && calls > 1 {
		if refreshed := s.details[params.Id+"#selected"]; refreshed != nil {
			return refreshed, nil
		}
	}
	return data, nil
}

func (s *fakeStore) UnlockLink(ctx context.Context, params *store.UnlockLinkParams) (*store.UnlockLinkData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unlocked = append(s.unlocked, *params)
	if params.Link != "" {
		return &store.UnlockLinkData{Link: params.Link + "?unlocked=1"}, nil
	}
	return &store.UnlockLinkData{Link: "https://cdn.example.com/" + params.ItemId + "/" + params.FileId}, nil
}

func (s *fakeStore) getCallsOf(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getCalls[id]
}

type selectingStore struct {
	*fakeStore
	selectCalls map[string]int
	selectErr   error
}

func (s *selectingStore) SelectAllFiles(ctx context.Context, params *store.SelectFilesParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectCalls[params.Id]++
	return s.selectErr
}

type fakeMeta struct {
	mu    sync.Mutex
	meta  *CanonicalMeta
	err   error
	calls int
}

func (m *fakeMeta) Resolve(ctx context.Context, req *MediaRequest) (*CanonicalMeta, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if m.meta == nil {
		return nil, nil
	}
	meta := *m.meta
	return &meta, nil
}

var errUnauthorizedList = core.NewError(core.ErrorCodeUnauthorized, "bad token")

const testSecret = "test-secret"

func testSigner() *LinkSigner {
	baseURL, _ := url.Parse("http://localhost:7000")
	return &LinkSigner{Secret: []byte(testSecret), BaseURL: baseURL, UserData: "ud"}
}

func videoFile(id, name string, size int64, link string) store.File {
	return store.File{Id: id, Name: name, Path: "/" + name, Size: size, Link: link, Selected: true}
}
