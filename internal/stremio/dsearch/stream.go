package stremio_dsearch

import (
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/nguyenvanvutlv/resolver/internal/cinemeta"
	"github.com/nguyenvanvutlv/resolver/internal/config"
	"github.com/nguyenvanvutlv/resolver/internal/metrics"
	"github.com/nguyenvanvutlv/resolver/internal/shared"
	"github.com/nguyenvanvutlv/resolver/stremio"
)

const partialResultHeader = "X-Resolver-Partial"

var (
	metaResolver     MetaResolver
	metaResolverOnce sync.Once
)

// created on first use so that a loaded config file applies
func getMetaResolver() MetaResolver {
	metaResolverOnce.Do(func() {
		if metaResolver == nil {
			metaResolver = &CinemetaResolver{Client: cinemeta.NewClient(nil)}
		}
	})
	return metaResolver
}

func getPathValue(r *http.Request, name string) string {
	return strings.TrimSuffix(r.PathValue(name), ".json")
}

func newLinkSigner(ud *UserData) *LinkSigner {
	return &LinkSigner{
		Secret:   []byte(config.DSearch.LinkSecret),
		BaseURL:  config.BaseURL,
		UserData: ud.GetEncoded(),
	}
}

func handleStream(w http.ResponseWriter, r *http.Request) {
	if !shared.IsMethod(r, http.MethodGet) && !shared.IsMethod(r, http.MethodHead) {
		shared.ErrorMethodNotAllowed(r).Send(w, r)
		return
	}

	ud, err := getUserData(r)
	if err != nil {
		shared.SendError(w, r, err)
		return
	}

	ctx, err := ud.GetRequestContext(r)
	if err != nil {
		shared.SendError(w, r, err)
		return
	}

	contentType := r.PathValue("contentType")
	id := getPathValue(r, "id")

	req, err := ParseMediaRequest(contentType, id)
	if err != nil {
		shared.ErrorBadRequest(r, err.Error()).Send(w, r)
		return
	}

	engine := NewEngine(&EngineConfig{
		Store:       ctx.Store,
		StoreParams: ctx.Params(),
		Meta:        getMetaResolver(),
		Threshold:   config.DSearch.MatchThreshold,
		Filter:      ctx.Filter,
		Sort:        ctx.Sort,
		Referencer:  newLinkSigner(ud),
		Log:         ctx.Log,
	})

	result, err := engine.Resolve(r.Context(), req)
	if err != nil {
		ctx.Log.Error("failed to resolve streams", "error", err, "id", id)
		shared.SendError(w, r, err)
		return
	}

	if result.IsPartial() {
		storeName := string(ctx.Store.GetName())
		for _, f := range result.Failures {
			ctx.Log.Warn("partial failure", "phase", f.Phase, "candidate", f.CandidateId, "error", f.Err)
			metrics.RecordPartialFailure(storeName, string(f.Phase))
		}
		w.Header().Set(partialResultHeader, strconv.Itoa(len(result.Failures)))
	}

	ctx.Log.Debug("resolved streams", "id", id, "count", len(result.Streams))

	shared.SendJSON(w, r, http.StatusOK, &stremio.StreamHandlerResponse{
		Streams: result.ToStreams(),
	})
}
