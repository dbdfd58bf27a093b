package endpoint

import (
	"net/http"
	"strings"

	"github.com/nguyenvanvutlv/resolver/core"
	"github.com/nguyenvanvutlv/resolver/internal/context"
	"github.com/nguyenvanvutlv/resolver/internal/server"
	"github.com/nguyenvanvutlv/resolver/internal/shared"
	store_registry "github.com/nguyenvanvutlv/resolver/internal/store/registry"
	"github.com/nguyenvanvutlv/resolver/store"
)

const (
	headerStoreName          = "X-Store-Name"
	headerStoreAuthorization = "X-Store-Authorization"
)

func StoreMiddleware(middlewares ...shared.MiddlewareFunc) shared.MiddlewareFunc {
	return shared.Middleware(append([]shared.MiddlewareFunc{shared.EnableCORS}, middlewares...)...)
}

// getStoreAuthToken accepts both `Bearer <token>` and a bare token.
func getStoreAuthToken(r *http.Request) string {
	authorization := strings.TrimSpace(r.Header.Get(headerStoreAuthorization))
	if token, ok := strings.CutPrefix(authorization, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return authorization
}

func StoreContext(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rCtx := server.GetReqCtx(r)
		ctx := &context.StoreContext{
			StoreAuthToken: getStoreAuthToken(r),
			ClientIP:       core.GetClientIP(r),
			Log:            rCtx.Log,
		}

		if name := strings.TrimSpace(r.Header.Get(headerStoreName)); name != "" {
			s, err := store_registry.GetStore(store.StoreName(strings.ToLower(name)))
			if err != nil {
				shared.SendError(w, r, err)
				return
			}
			ctx.Store = s
			ctx.Log = rCtx.Log.With("store", s.GetName())
		}

		next(w, context.SetStoreContext(r, ctx))
	}
}

func StoreRequired(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := context.GetStoreContext(r)
		if ctx == nil || ctx.Store == nil {
			shared.ErrorBadRequest(r, "missing store").Send(w, r)
			return
		}
		if ctx.StoreAuthToken == "" {
			shared.ErrorUnauthorized(r).Send(w, r)
			return
		}
		next(w, r)
	}
}
