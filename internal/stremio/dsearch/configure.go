package stremio_dsearch

import (
	"errors"
	"net/http"
	"strings"

	"github.com/nguyenvanvutlv/resolver/core"
	"github.com/nguyenvanvutlv/resolver/internal/config"
	"github.com/nguyenvanvutlv/resolver/internal/server"
	"github.com/nguyenvanvutlv/resolver/internal/shared"
	"github.com/nguyenvanvutlv/resolver/store"
)

func getManifestURL(ud *UserData) string {
	return strings.TrimSuffix(config.BaseURL.String(), "/") + "/stremio/dsearch/" + ud.GetEncoded() + "/manifest.json"
}

func sendPage(w http.ResponseWriter, r *http.Request, td *TemplateData) {
	page, err := getPage(td)
	if err != nil {
		shared.SendError(w, r, err)
		return
	}
	shared.SendHTML(w, http.StatusOK, page.Bytes())
}

func handleConfigure(w http.ResponseWriter, r *http.Request) {
	if !shared.IsMethod(r, http.MethodGet) && !shared.IsMethod(r, http.MethodPost) {
		shared.ErrorMethodNotAllowed(r).Send(w, r)
		return
	}

	ud, err := getUserData(r)
	if err != nil {
		shared.SendError(w, r, err)
		return
	}

	td := getTemplateData(ud)

	if !shared.IsMethod(r, http.MethodPost) {
		sendPage(w, r, td)
		return
	}

	var uderr *userDataError
	if err := ud.Validate(); errors.As(err, &uderr) {
		td.setFieldError(uderr.field, uderr.msg)
		sendPage(w, r, td)
		return
	}

	ctx, err := ud.GetRequestContext(r)
	if err != nil {
		td.Error = err.Error()
		sendPage(w, r, td)
		return
	}

	if _, err := ctx.Store.GetUser(r.Context(), &store.GetUserParams{Ctx: ctx.Params()}); err != nil {
		log := server.GetReqCtx(r).Log
		log.Warn("failed to validate store token", "error", err, "store", ud.StoreCode)
		if core.IsAuthError(err) {
			td.setFieldError("token", "invalid token")
		} else {
			td.Error = "unable to reach " + string(ctx.Store.GetName())
		}
		sendPage(w, r, td)
		return
	}

	td.ManifestURL = getManifestURL(ud)
	td.InstallURL = "stremio://" + strings.TrimPrefix(strings.TrimPrefix(td.ManifestURL, "https://"), "http://")
	sendPage(w, r, td)
}
