package stremio_dsearch

import (
	"context"
	"net/http"
	"net/url"

	"github.com/nguyenvanvutlv/resolver/internal/config"
	"github.com/nguyenvanvutlv/resolver/internal/shared"
	"github.com/nguyenvanvutlv/resolver/internal/util"
	"github.com/nguyenvanvutlv/resolver/store"
	"github.com/nguyenvanvutlv/resolver/stremio"
)

type catalogExtra struct {
	search string
	skip   int
}

// parseCatalogExtra reads `search=...&skip=...`.
func parseCatalogExtra(extra string) catalogExtra {
	ce := catalogExtra{}
	if extra == "" {
		return ce
	}
	q, err := url.ParseQuery(extra)
	if err != nil {
		return ce
	}
	ce.search = q.Get("search")
	ce.skip = max(util.SafeParseInt(q.Get("skip"), 0), 0)
	return ce
}

func toMetaPreview(source store.StoreName, id, name string) stremio.MetaPreview {
	return stremio.MetaPreview{
		Id:   string(source) + ":" + id,
		Type: stremio.ContentTypeOther,
		Name: name,
	}
}

func fetchCatalog(ctx context.Context, rc *RequestContext, extra catalogExtra) (*stremio.CatalogHandlerResponse, error) {
	pageSize := config.DSearch.CatalogPageSize
	source := rc.Store.GetName()
	res := &stremio.CatalogHandlerResponse{Metas: []stremio.MetaPreview{}}

	if extra.search == "" {
		data, err := rc.Store.ListItems(ctx, &store.ListItemsParams{
			Ctx:    rc.Params(),
			Limit:  pageSize,
			Offset: extra.skip,
		})
		if err != nil {
			return nil, err
		}
		for i := range data.Items {
			res.Metas = append(res.Metas, toMetaPreview(source, data.Items[i].Id, data.Items[i].Name))
		}
		return res, nil
	}

	data, err := rc.Store.ListItems(ctx, &store.ListItemsParams{
		Ctx:   rc.Params(),
		Query: extra.search,
	})
	if err != nil {
		return nil, err
	}

	candidates := make([]Candidate, len(data.Items))
	for i := range data.Items {
		candidates[i] = NewCandidate(source, &data.Items[i])
	}
	if !data.IsSearched {
		candidates = Match(candidates, extra.search, config.DSearch.MatchThreshold)
	}

	for i := extra.skip; i < len(candidates) && i < extra.skip+pageSize; i++ {
		res.Metas = append(res.Metas, toMetaPreview(source, candidates[i].Id, candidates[i].Name))
	}
	return res, nil
}

func handleCatalog(w http.ResponseWriter, r *http.Request) {
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

	if r.PathValue("contentType") != string(stremio.ContentTypeOther) || getPathValue(r, "id") != catalogId {
		shared.ErrorNotFound(r).Send(w, r)
		return
	}

	extra := parseCatalogExtra(getPathValue(r, "extra"))
	res, err := fetchCatalog(r.Context(), ctx, extra)
	if err != nil {
		ctx.Log.Error("failed to fetch catalog", "error", err)
		shared.SendError(w, r, err)
		return
	}

	shared.SendJSON(w, r, http.StatusOK, res)
}
