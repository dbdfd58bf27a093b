package endpoint

import (
	"net/http"

	"github.com/nguyenvanvutlv/resolver/internal/server"
	"github.com/nguyenvanvutlv/resolver/internal/shared"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HealthData struct {
	Status string `json:"status"`
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	if !shared.IsMethod(r, http.MethodGet) && !shared.IsMethod(r, http.MethodHead) {
		shared.ErrorMethodNotAllowed(r).Send(w, r)
		return
	}

	server.GetReqCtx(r).NoRequestLog = true
	shared.SendResponse(w, r, http.StatusOK, &HealthData{Status: "ok"}, nil)
}

func AddHealthEndpoints(mux *http.ServeMux) {
	mux.HandleFunc("/health", handleHealth)
}

func AddMetricsEndpoint(mux *http.ServeMux) {
	metrics := promhttp.Handler()
	mux.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		server.GetReqCtx(r).NoRequestLog = true
		metrics.ServeHTTP(w, r)
	})
}
