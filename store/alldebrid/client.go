package alldebrid

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/nguyenvanvutlv/resolver/core"
	"github.com/nguyenvanvutlv/resolver/internal/request"
	"github.com/nguyenvanvutlv/resolver/store"
)

const (
	DefaultBaseURL = "https://api.alldebrid.com"
	agent          = "resolver"
)

type ErrorCode string

const (
	ErrorCodeAuthMissingAPIKey ErrorCode = "AUTH_MISSING_APIKEY"
	ErrorCodeAuthBadAPIKey     ErrorCode = "AUTH_BAD_APIKEY"
	ErrorCodeAuthBlocked       ErrorCode = "AUTH_BLOCKED"
	ErrorCodeAuthUserBanned    ErrorCode = "AUTH_USER_BANNED"
	ErrorCodeMustBePremium     ErrorCode = "MUST_BE_PREMIUM"
	ErrorCodeMagnetInvalidId   ErrorCode = "MAGNET_INVALID_ID"
	ErrorCodeLinkHostNotSup    ErrorCode = "LINK_HOST_NOT_SUPPORTED"
	ErrorCodeLinkDown          ErrorCode = "LINK_DOWN"
)

type ResponseError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

type Response[T any] struct {
	Status string         `json:"status"`
	Data   T              `json:"data"`
	Error  *ResponseError `json:"error,omitempty"`
}

func parseError(statusCode int, body []byte) error {
	res := &Response[json.RawMessage]{}
	if err := json.Unmarshal(body, res); err != nil || res.Status != "error" || res.Error == nil {
		return nil
	}
	var code core.ErrorCode
	switch res.Error.Code {
	case ErrorCodeAuthMissingAPIKey, ErrorCodeAuthBadAPIKey:
		code = core.ErrorCodeUnauthorized
	case ErrorCodeAuthBlocked, ErrorCodeAuthUserBanned, ErrorCodeMustBePremium:
		code = core.ErrorCodeForbidden
	case ErrorCodeMagnetInvalidId:
		code = core.ErrorCodeNotFound
	default:
		code = core.ErrorCodeBadGateway
	}
	return core.NewError(code, string(res.Error.Code)+": "+res.Error.Message).WithStoreName(string(store.StoreNameAllDebrid))
}

type APIClientConfig struct {
	BaseURL     string
	HTTPClient  *http.Client
	RetryPolicy *request.RetryPolicy
}

type APIClient struct {
	client *request.Client
}

func NewAPIClient(conf *APIClientConfig) *APIClient {
	if conf.BaseURL == "" {
		conf.BaseURL = DefaultBaseURL
	}
	return &APIClient{
		client: request.NewClient(&request.ClientConfig{
			Service:     string(store.StoreNameAllDebrid),
			BaseURL:     conf.BaseURL,
			HTTPClient:  conf.HTTPClient,
			RetryPolicy: conf.RetryPolicy,
			Limiter:     request.NewStoreLimiter(),
			ParseError:  parseError,
		}),
	}
}

func (c APIClient) Request(ctx context.Context, path string, params request.Params, query url.Values, v any) error {
	if query == nil {
		query = url.Values{}
	}
	query.Set("agent", agent)
	_, err := c.client.Do(ctx, &request.Request{
		Method: http.MethodGet,
		Path:   path,
		Query:  query,
		Ctx:    params.GetContext(),
	}, v)
	return err
}

type GetUserData struct {
	User struct {
		Username  string `json:"username"`
		Email     string `json:"email"`
		IsPremium bool   `json:"isPremium"`
		IsTrial   bool   `json:"isTrial"`
	} `json:"user"`
}

type GetUserParams struct {
	request.Ctx
}

func (c APIClient) GetUser(ctx context.Context, params *GetUserParams) (*GetUserData, error) {
	res := &Response[GetUserData]{}
	if err := c.Request(ctx, "/v4/user", params, nil, res); err != nil {
		return nil, err
	}
	return &res.Data, nil
}

const MagnetStatusCodeReady = 4

type MagnetLink struct {
	Link     string `json:"link"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
}

type Magnet struct {
	Id             int          `json:"id"`
	Filename       string       `json:"filename"`
	Size           int64        `json:"size"`
	Hash           string       `json:"hash"`
	Status         string       `json:"status"`
	StatusCode     int          `json:"statusCode"`
	UploadDate     int64        `json:"uploadDate"`
	CompletionDate int64        `json:"completionDate"`
	Links          []MagnetLink `json:"links"`
}

// magnets is an array when listing and an object when fetched by id
type magnets []Magnet

func (m *magnets) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		magnet := Magnet{}
		if err := json.Unmarshal(data, &magnet); err != nil {
			return err
		}
		*m = magnets{magnet}
		return nil
	}
	items := []Magnet{}
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	*m = items
	return nil
}

type GetMagnetStatusData struct {
	Magnets magnets `json:"magnets"`
}

type GetMagnetStatusParams struct {
	request.Ctx
	Id string
}

func (c APIClient) GetMagnetStatus(ctx context.Context, params *GetMagnetStatusParams) ([]Magnet, error) {
	query := url.Values{}
	if params.Id != "" {
		query.Set("id", params.Id)
	}
	res := &Response[GetMagnetStatusData]{}
	if err := c.Request(ctx, "/v4/magnet/status", params, query, res); err != nil {
		return nil, err
	}
	return res.Data.Magnets, nil
}

type SavedLink struct {
	Link     string `json:"link"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
	Date     int64  `json:"date"`
	Host     string `json:"host"`
}

type ListSavedLinksParams struct {
	request.Ctx
}

func (c APIClient) ListSavedLinks(ctx context.Context, params *ListSavedLinksParams) ([]SavedLink, error) {
	res := &Response[struct {
		Links []SavedLink `json:"links"`
	}]{}
	if err := c.Request(ctx, "/v4/user/links", params, nil, res); err != nil {
		return nil, err
	}
	return res.Data.Links, nil
}

type UnlockLinkData struct {
	Link     string `json:"link"`
	Filename string `json:"filename"`
	Filesize int64  `json:"filesize"`
}

type UnlockLinkParams struct {
	request.Ctx
	Link string
}

func (c APIClient) UnlockLink(ctx context.Context, params *UnlockLinkParams) (*UnlockLinkData, error) {
	query := url.Values{}
	query.Set("link", params.Link)
	res := &Response[UnlockLinkData]{}
	if err := c.Request(ctx, "/v4/link/unlock", params, query, res); err != nil {
		return nil, err
	}
	return &res.Data, nil
}
