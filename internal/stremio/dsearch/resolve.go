package stremio_dsearch

import (
	"net/http"

	"github.com/nguyenvanvutlv/resolver/core"
	"github.com/nguyenvanvutlv/resolver/internal/metrics"
	"github.com/nguyenvanvutlv/resolver/internal/shared"
	"github.com/nguyenvanvutlv/resolver/store"
)

func handleResolve(w http.ResponseWriter, r *http.Request) {
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

	claims, err := newLinkSigner(ud).Verify(r.PathValue("token"))
	if err != nil {
		ctx.Log.Warn("invalid playback token", "error", err)
		shared.ErrorUnauthorized(r).WithCause(err).Send(w, r)
		return
	}
	if claims.StoreCode != ud.StoreCode {
		shared.SendError(w, r, core.NewError(core.ErrorCodeForbidden, "playback token belongs to another store"))
		return
	}

	storeName := string(ctx.Store.GetName())
	token := claims.AccessToken()
	data, err := ctx.Store.UnlockLink(r.Context(), &store.UnlockLinkParams{
		Ctx:    ctx.Params(),
		Link:   token.Link,
		ItemId: token.ItemId,
		FileId: token.FileId,
	})
	if err != nil {
		metrics.RecordUnlock(storeName, "error")
		ctx.Log.Error("failed to unlock link", "error", err, "item", token.ItemId, "file", token.FileId)
		shared.SendError(w, r, err)
		return
	}
	metrics.RecordUnlock(storeName, "ok")

	http.Redirect(w, r, data.Link, http.StatusFound)
}
