package stremio_dsearch

import (
	"net/http"
	"strconv"

	"github.com/go-chi/httprate"
	"github.com/nguyenvanvutlv/resolver/core"
	"github.com/nguyenvanvutlv/resolver/internal/config"
	"github.com/nguyenvanvutlv/resolver/internal/logger"
	"github.com/nguyenvanvutlv/resolver/internal/shared"
)

var log = logger.Scoped("stremio/dsearch")

func keyByRequestIP(r *http.Request) (string, error) {
	return core.GetRequestIP(r), nil
}

func withResolveRateLimit(next http.HandlerFunc) http.HandlerFunc {
	window := config.DSearch.ResolveRateWindow
	limit := httprate.Limit(
		config.DSearch.ResolveRateLimit,
		window,
		httprate.WithKeyFuncs(keyByRequestIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Retry-After", strconv.Itoa(int(window.Seconds())))
			shared.ErrorTooManyRequests(r).Send(w, r)
		}),
	)
	return limit(next).ServeHTTP
}

func AddEndpoints(mux *http.ServeMux) {
	withCors := shared.Middleware(shared.EnableCORS)

	mux.HandleFunc("/stremio/dsearch/{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/stremio/dsearch/configure", http.StatusFound)
	})

	mux.HandleFunc("/stremio/dsearch/manifest.json", withCors(handleManifest))
	mux.HandleFunc("/stremio/dsearch/{userData}/manifest.json", withCors(handleManifest))

	mux.HandleFunc("/stremio/dsearch/configure", handleConfigure)
	mux.HandleFunc("/stremio/dsearch/{userData}/configure", handleConfigure)

	mux.HandleFunc("/stremio/dsearch/{userData}/stream/{contentType}/{id}", withCors(handleStream))

	mux.HandleFunc("/stremio/dsearch/{userData}/catalog/{contentType}/{id}", withCors(handleCatalog))
	mux.HandleFunc("/stremio/dsearch/{userData}/catalog/{contentType}/{id}/{extra}", withCors(handleCatalog))

	resolve := withCors(withResolveRateLimit(handleResolve))
	mux.HandleFunc("/stremio/dsearch/{userData}/_/resolve/{token}", resolve)
	mux.HandleFunc("/stremio/dsearch/{userData}/_/resolve/{token}/{fileName}", resolve)
}
