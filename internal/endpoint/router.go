package endpoint

import (
	"net/http"

	"github.com/nguyenvanvutlv/resolver/internal/server"
	stremio_dsearch "github.com/nguyenvanvutlv/resolver/internal/stremio/dsearch"
)

func NewRouter() http.Handler {
	mux := http.NewServeMux()

	AddHealthEndpoints(mux)
	AddMetricsEndpoint(mux)
	AddStoreEndpoints(mux)
	stremio_dsearch.AddEndpoints(mux)

	mux.HandleFunc("/{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/stremio/dsearch/configure", http.StatusFound)
	})

	return server.RootMiddleware(mux)
}
