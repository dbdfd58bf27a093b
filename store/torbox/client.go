package torbox

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/nguyenvanvutlv/resolver/core"
	"github.com/nguyenvanvutlv/resolver/internal/request"
	"github.com/nguyenvanvutlv/resolver/store"
)

const DefaultBaseURL = "https://api.torbox.app/v1/api"

type ErrorCode string

const (
	ErrorCodeAuthError             ErrorCode = "AUTH_ERROR"
	ErrorCodeBadToken              ErrorCode = "BAD_TOKEN"
	ErrorCodeNoAuth                ErrorCode = "NO_AUTH"
	ErrorCodePlanRestrictedFeature ErrorCode = "PLAN_RESTRICTED_FEATURE"
	ErrorCodeItemNotFound          ErrorCode = "ITEM_NOT_FOUND"
)

type Response[T any] struct {
	Success bool      `json:"success"`
	Error   ErrorCode `json:"error,omitempty"`
	Detail  string    `json:"detail"`
	Data    T         `json:"data,omitempty"`
}

func parseError(statusCode int, body []byte) error {
	res := &Response[json.RawMessage]{}
	if err := json.Unmarshal(body, res); err != nil || res.Success || res.Error == "" {
		return nil
	}
	code := core.ErrorCodeBadGateway
	switch res.Error {
	case ErrorCodeAuthError, ErrorCodeBadToken, ErrorCodeNoAuth:
		code = core.ErrorCodeUnauthorized
	case ErrorCodePlanRestrictedFeature:
		code = core.ErrorCodeForbidden
	case ErrorCodeItemNotFound:
		code = core.ErrorCodeNotFound
	}
	return core.NewError(code, string(res.Error)+": "+res.Detail).WithStoreName(string(store.StoreNameTorBox))
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
			Service:     string(store.StoreNameTorBox),
			BaseURL:     conf.BaseURL,
			HTTPClient:  conf.HTTPClient,
			RetryPolicy: conf.RetryPolicy,
			Limiter:     request.NewStoreLimiter(),
			ParseError:  parseError,
		}),
	}
}

func (c APIClient) Request(ctx context.Context, path string, params request.Params, query url.Values, v any) error {
	_, err := c.client.Do(ctx, &request.Request{
		Method: http.MethodGet,
		Path:   path,
		Query:  query,
		Ctx:    params.GetContext(),
	}, v)
	return err
}

type GetUserData struct {
	Id               int    `json:"id"`
	Email            string `json:"email"`
	Plan             int    `json:"plan"`
	IsSubscribed     bool   `json:"is_subscribed"`
	PremiumExpiresAt string `json:"premium_expires_at"`
}

type GetUserParams struct {
	request.Ctx
}

func (c APIClient) GetUser(ctx context.Context, params *GetUserParams) (*GetUserData, error) {
	res := &Response[GetUserData]{}
	if err := c.Request(ctx, "/user/me", params, nil, res); err != nil {
		return nil, err
	}
	return &res.Data, nil
}

type TorrentFile struct {
	Id        int    `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"short_name"`
	Size      int64  `json:"size"`
	MimeType  string `json:"mimetype"`
}

type Torrent struct {
	Id               int           `json:"id"`
	Hash             string        `json:"hash"`
	Name             string        `json:"name"`
	Size             int64         `json:"size"`
	CreatedAt        time.Time     `json:"created_at"`
	DownloadFinished bool          `json:"download_finished"`
	DownloadPresent  bool          `json:"download_present"`
	Files            []TorrentFile `json:"files"`
}

type ListTorrentsParams struct {
	request.Ctx
}

func (c APIClient) ListTorrents(ctx context.Context, params *ListTorrentsParams) ([]Torrent, error) {
	query := url.Values{}
	query.Set("bypass_cache", "true")
	res := &Response[[]Torrent]{}
	if err := c.Request(ctx, "/torrents/mylist", params, query, res); err != nil {
		return nil, err
	}
	return res.Data, nil
}

type GetTorrentParams struct {
	request.Ctx
	Id string
}

func (c APIClient) GetTorrent(ctx context.Context, params *GetTorrentParams) (*Torrent, error) {
	query := url.Values{}
	query.Set("bypass_cache", "true")
	query.Set("id", params.Id)
	res := &Response[*Torrent]{}
	if err := c.Request(ctx, "/torrents/mylist", params, query, res); err != nil {
		return nil, err
	}
	if res.Data == nil {
		return nil, core.NewError(core.ErrorCodeNotFound, "torrent not found").WithStoreName(string(store.StoreNameTorBox))
	}
	return res.Data, nil
}

type RequestDownloadLinkParams struct {
	request.Ctx
	TorrentId string
	FileId    string
}

func (c APIClient) RequestDownloadLink(ctx context.Context, params *RequestDownloadLinkParams) (string, error) {
	query := url.Values{}
	query.Set("token", params.APIKey)
	query.Set("torrent_id", params.TorrentId)
	query.Set("file_id", params.FileId)
	if params.ClientIP != "" {
		query.Set("user_ip", params.ClientIP)
	}
	res := &Response[string]{}
	if err := c.Request(ctx, "/torrents/requestdl", params, query, res); err != nil {
		return "", err
	}
	return res.Data, nil
}
