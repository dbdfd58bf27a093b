package context

import (
	"context"
	"net/http"

	"github.com/nguyenvanvutlv/resolver/internal/logger"
	"github.com/nguyenvanvutlv/resolver/store"
)

type storeContextKey struct{}

type StoreContext struct {
	Store          store.Store
	StoreAuthToken string
	ClientIP       string
	Log            *logger.Logger
}

// Params returns the credential carrier every store call expects.
func (ctx *StoreContext) Params() store.Ctx {
	return store.Ctx{APIKey: ctx.StoreAuthToken, ClientIP: ctx.ClientIP}
}

func GetStoreContext(r *http.Request) *StoreContext {
	ctx, _ := r.Context().Value(storeContextKey{}).(*StoreContext)
	return ctx
}

func SetStoreContext(r *http.Request, ctx *StoreContext) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), storeContextKey{}, ctx))
}
