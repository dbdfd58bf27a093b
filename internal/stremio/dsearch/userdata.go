package stremio_dsearch

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/nguyenvanvutlv/resolver/core"
	"github.com/nguyenvanvutlv/resolver/internal/context"
	"github.com/nguyenvanvutlv/resolver/internal/server"
	"github.com/nguyenvanvutlv/resolver/internal/shared"
	store_registry "github.com/nguyenvanvutlv/resolver/internal/store/registry"
	stremio_transformer "github.com/nguyenvanvutlv/resolver/internal/stremio/transformer"
	"github.com/nguyenvanvutlv/resolver/store"
)

type UserData struct {
	StoreCode   store.StoreCode `json:"store"`
	StoreToken  string          `json:"token"`
	Filter      string          `json:"filter,omitempty"`
	Sort        string          `json:"sort,omitempty"`
	ShowCatalog bool            `json:"catalog,omitempty"`

	encoded string
}

func (ud *UserData) GetEncoded() string {
	return ud.encoded
}

func (ud *UserData) Encode() (string, error) {
	blob, err := json.Marshal(ud)
	if err != nil {
		return "", err
	}
	ud.encoded = base64.RawURLEncoding.EncodeToString(blob)
	return ud.encoded, nil
}

func (ud UserData) HasRequiredValues() bool {
	return ud.StoreCode != "" && ud.StoreToken != ""
}

type userDataError struct {
	field string
	msg   string
}

func (uderr *userDataError) Error() string {
	return uderr.field + ": " + uderr.msg
}

// Validate reports the first invalid field.
func (ud *UserData) Validate() error {
	if !ud.StoreCode.IsValid() {
		return &userDataError{field: "store", msg: "invalid store: " + string(ud.StoreCode)}
	}
	if strings.TrimSpace(ud.StoreToken) == "" {
		return &userDataError{field: "token", msg: "missing token"}
	}
	if _, err := stremio_transformer.StreamFilterBlob(ud.Filter).Parse(); err != nil {
		return &userDataError{field: "filter", msg: err.Error()}
	}
	if _, err := stremio_transformer.ParseStreamSort(ud.Sort); err != nil {
		return &userDataError{field: "sort", msg: err.Error()}
	}
	return nil
}

func decodeUserData(encoded string) (*UserData, error) {
	blob, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(encoded, "="))
	if err != nil {
		return nil, core.NewError(core.ErrorCodeBadRequest, "malformed user data").WithCause(err)
	}
	ud := &UserData{}
	if err := json.Unmarshal(blob, ud); err != nil {
		return nil, core.NewError(core.ErrorCodeBadRequest, "malformed user data").WithCause(err)
	}
	ud.encoded = encoded
	return ud, nil
}

func getUserData(r *http.Request) (*UserData, error) {
	if shared.IsMethod(r, http.MethodPost) {
		if err := r.ParseForm(); err != nil {
			return nil, core.NewError(core.ErrorCodeBadRequest, "invalid form").WithCause(err)
		}
		ud := &UserData{
			StoreCode:   store.StoreCode(strings.TrimSpace(r.Form.Get("store"))),
			StoreToken:  strings.TrimSpace(r.Form.Get("token")),
			Filter:      strings.TrimSpace(r.Form.Get("filter")),
			Sort:        strings.TrimSpace(r.Form.Get("sort")),
			ShowCatalog: r.Form.Get("catalog") == "on",
		}
		if _, err := ud.Encode(); err != nil {
			return nil, err
		}
		return ud, nil
	}

	encoded := r.PathValue("userData")
	if encoded == "" {
		return &UserData{}, nil
	}
	return decodeUserData(encoded)
}

type RequestContext struct {
	*context.StoreContext
	UserData *UserData
	Filter   *stremio_transformer.StreamFilter
	Sort     *stremio_transformer.StreamSort
}

func (ud *UserData) GetRequestContext(r *http.Request) (*RequestContext, error) {
	rCtx := server.GetReqCtx(r)
	rCtx.RedactURLPathValues(r, "userData")

	if err := ud.Validate(); err != nil {
		return nil, core.NewError(core.ErrorCodeBadRequest, err.Error())
	}

	s, err := store_registry.GetStoreByCode(ud.StoreCode)
	if err != nil {
		return nil, err
	}

	ctx := &RequestContext{
		StoreContext: &context.StoreContext{
			Store:          s,
			StoreAuthToken: ud.StoreToken,
			ClientIP:       core.GetClientIP(r),
			Log:            rCtx.Log,
		},
		UserData: ud,
	}
	// both parsed fine in Validate
	ctx.Filter, _ = stremio_transformer.StreamFilterBlob(ud.Filter).Parse()
	ctx.Sort, _ = stremio_transformer.ParseStreamSort(ud.Sort)
	return ctx, nil
}
