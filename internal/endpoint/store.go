package endpoint

import (
	"net/http"
	"strings"

	"github.com/nguyenvanvutlv/resolver/internal/context"
	"github.com/nguyenvanvutlv/resolver/internal/shared"
	"github.com/nguyenvanvutlv/resolver/internal/util"
	"github.com/nguyenvanvutlv/resolver/store"
)

const maxListLimit = 500

func handleStoreUser(w http.ResponseWriter, r *http.Request) {
	if !shared.IsMethod(r, http.MethodGet) {
		shared.ErrorMethodNotAllowed(r).Send(w, r)
		return
	}

	ctx := context.GetStoreContext(r)
	user, err := ctx.Store.GetUser(r.Context(), &store.GetUserParams{Ctx: ctx.Params()})
	shared.SendResponse(w, r, http.StatusOK, user, err)
}

func handleStoreItems(w http.ResponseWriter, r *http.Request) {
	if !shared.IsMethod(r, http.MethodGet) {
		shared.ErrorMethodNotAllowed(r).Send(w, r)
		return
	}

	queryParams := r.URL.Query()
	limit := util.SafeParseInt(queryParams.Get("limit"), 100)
	if limit < 1 || limit > maxListLimit {
		shared.ErrorBadRequest(r, "limit must be within [1, 500]").Send(w, r)
		return
	}
	offset := util.SafeParseInt(queryParams.Get("offset"), 0)
	if offset < 0 {
		shared.ErrorBadRequest(r, "offset must not be negative").Send(w, r)
		return
	}

	ctx := context.GetStoreContext(r)
	data, err := ctx.Store.ListItems(r.Context(), &store.ListItemsParams{
		Ctx:    ctx.Params(),
		Query:  strings.TrimSpace(queryParams.Get("query")),
		Limit:  limit,
		Offset: offset,
	})
	if err == nil && data.Items == nil {
		data.Items = []store.Item{}
	}
	shared.SendResponse(w, r, http.StatusOK, data, err)
}

func handleStoreItem(w http.ResponseWriter, r *http.Request) {
	if !shared.IsMethod(r, http.MethodGet) {
		shared.ErrorMethodNotAllowed(r).Send(w, r)
		return
	}

	ctx := context.GetStoreContext(r)
	data, err := ctx.Store.GetItem(r.Context(), &store.GetItemParams{
		Ctx: ctx.Params(),
		Id:  r.PathValue("itemId"),
	})
	shared.SendResponse(w, r, http.StatusOK, data, err)
}

type UnlockLinkPayload struct {
	Link   string `json:"link"`
	ItemId string `json:"item_id"`
	FileId string `json:"file_id"`
}

func handleStoreLinkUnlock(w http.ResponseWriter, r *http.Request) {
	if !shared.IsMethod(r, http.MethodPost) {
		shared.ErrorMethodNotAllowed(r).Send(w, r)
		return
	}

	payload := &UnlockLinkPayload{}
	if err := shared.ReadRequestBodyJSON(r, payload); err != nil {
		shared.SendError(w, r, err)
		return
	}
	if payload.Link == "" && payload.ItemId == "" {
		shared.ErrorBadRequest(r, "missing link or item_id").Send(w, r)
		return
	}

	ctx := context.GetStoreContext(r)
	data, err := ctx.Store.UnlockLink(r.Context(), &store.UnlockLinkParams{
		Ctx:    ctx.Params(),
		Link:   payload.Link,
		ItemId: payload.ItemId,
		FileId: payload.FileId,
	})
	if err != nil {
		ctx.Log.Error("failed to unlock link", "error", err)
	}
	shared.SendResponse(w, r, http.StatusOK, data, err)
}

func AddStoreEndpoints(mux *http.ServeMux) {
	withStore := StoreMiddleware(StoreContext, StoreRequired)

	mux.HandleFunc("/v0/store/user", withStore(handleStoreUser))
	mux.HandleFunc("/v0/store/items", withStore(handleStoreItems))
	mux.HandleFunc("/v0/store/items/{itemId}", withStore(handleStoreItem))
	mux.HandleFunc("/v0/store/link/unlock", withStore(handleStoreLinkUnlock))
}
