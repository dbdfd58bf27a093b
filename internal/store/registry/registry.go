package store_registry

import (
	"sync"

	"github.com/nguyenvanvutlv/resolver/core"
	"github.com/nguyenvanvutlv/resolver/store"
	"github.com/nguyenvanvutlv/resolver/store/alldebrid"
	"github.com/nguyenvanvutlv/resolver/store/debridlink"
	"github.com/nguyenvanvutlv/resolver/store/premiumize"
	"github.com/nguyenvanvutlv/resolver/store/realdebrid"
	"github.com/nguyenvanvutlv/resolver/store/torbox"
)

var constructors = map[store.StoreName]func() store.Store{
	store.StoreNameAllDebrid:  func() store.Store { return alldebrid.NewStoreClient(nil) },
	store.StoreNameDebridLink: func() store.Store { return debridlink.NewStoreClient(nil) },
	store.StoreNamePremiumize: func() store.Store { return premiumize.NewStoreClient(nil) },
	store.StoreNameRealDebrid: func() store.Store { return realdebrid.NewStoreClient(nil) },
	store.StoreNameTorBox:     func() store.Store { return torbox.NewStoreClient(nil) },
}

var (
	mu     sync.Mutex
	stores = map[store.StoreName]store.Store{}
)

// GetStore returns the shared client for name. Clients hold no user state,
// only the per-store outbound limiter.
func GetStore(name store.StoreName) (store.Store, error) {
	construct, ok := constructors[name]
	if !ok {
		return nil, core.NewError(core.ErrorCodeBadRequest, "unsupported store: "+string(name))
	}

	mu.Lock()
	defer mu.Unlock()

	if s, ok := stores[name]; ok {
		return s, nil
	}
	s := construct()
	stores[name] = s
	return s, nil
}

func GetStoreByCode(code store.StoreCode) (store.Store, error) {
	if !code.IsValid() {
		return nil, core.NewError(core.ErrorCodeBadRequest, "unsupported store code: "+string(code))
	}
	return GetStore(code.Name())
}

// Register replaces the client used for name.
func Register(name store.StoreName, s store.Store) {
	mu.Lock()
	defer mu.Unlock()
	stores[name] = s
}

func Names() []store.StoreName {
	return []store.StoreName{
		store.StoreNameRealDebrid,
		store.StoreNameAllDebrid,
		store.StoreNamePremiumize,
		store.StoreNameTorBox,
		store.StoreNameDebridLink,
	}
}
