package debridlink

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/nguyenvanvutlv/resolver/core"
	"github.com/nguyenvanvutlv/resolver/internal/request"
	"github.com/nguyenvanvutlv/resolver/store"
)

const (
	DefaultBaseURL = "https://debrid-link.com/api/v2"

	perPage  = 50
	maxPages = 20
)

type ErrorCode string

const (
	ErrorCodeBadToken         ErrorCode = "badToken"
	ErrorCodeNotDebrid        ErrorCode = "notDebrid"
	ErrorCodeAccountLocked    ErrorCode = "accountLocked"
	ErrorCodeNotFreeAccess    ErrorCode = "notFreeAccess"
	ErrorCodeNotPremium       ErrorCode = "notPremium"
	ErrorCodeFileNotFound     ErrorCode = "fileNotFound"
	ErrorCodeTorrentNotFound  ErrorCode = "torrentNotFound"
	ErrorCodeUnauthorizedUser ErrorCode = "unauthorized_client"
)

type Pagination struct {
	Page  int `json:"page"`
	Pages int `json:"pages"`
	Next  int `json:"next"`
}

type Response[T any] struct {
	Success    bool        `json:"success"`
	Error      ErrorCode   `json:"error,omitempty"`
	Value      T           `json:"value"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

func parseError(statusCode int, body []byte) error {
	res := &Response[json.RawMessage]{}
	if err := json.Unmarshal(body, res); err != nil || res.Success || res.Error == "" {
		return nil
	}
	code := core.ErrorCodeBadGateway
	switch res.Error {
	case ErrorCodeBadToken, ErrorCodeUnauthorizedUser:
		code = core.ErrorCodeUnauthorized
	case ErrorCodeAccountLocked, ErrorCodeNotFreeAccess, ErrorCodeNotPremium, ErrorCodeNotDebrid:
		code = core.ErrorCodeForbidden
	case ErrorCodeFileNotFound, ErrorCodeTorrentNotFound:
		code = core.ErrorCodeNotFound
	}
	return core.NewError(code, string(res.Error)).WithStoreName(string(store.StoreNameDebridLink))
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
			Service:     string(store.StoreNameDebridLink),
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

type GetAccountInfoData struct {
	Pseudo      string `json:"pseudo"`
	Email       string `json:"email"`
	AccountType int    `json:"accountType"`
	PremiumLeft int64  `json:"premiumLeft"`
}

type GetAccountInfoParams struct {
	request.Ctx
}

func (c APIClient) GetAccountInfo(ctx context.Context, params *GetAccountInfoParams) (*GetAccountInfoData, error) {
	res := &Response[GetAccountInfoData]{}
	if err := c.Request(ctx, "/account/infos", params, nil, res); err != nil {
		return nil, err
	}
	return &res.Value, nil
}

type SeedboxFile struct {
	Id              string `json:"id"`
	Name            string `json:"name"`
	Size            int64  `json:"size"`
	DownloadURL     string `json:"downloadUrl"`
	DownloadPercent int    `json:"downloadPercent"`
}

type SeedboxTorrent struct {
	Id              string        `json:"id"`
	Name            string        `json:"name"`
	HashString      string        `json:"hashString"`
	TotalSize       int64         `json:"totalSize"`
	Created         int64         `json:"created"`
	DownloadPercent float64       `json:"downloadPercent"`
	Files           []SeedboxFile `json:"files"`
}

type ListSeedboxTorrentsParams struct {
	request.Ctx
	// optional, comma separated
	Ids string
}

func (c APIClient) ListSeedboxTorrents(ctx context.Context, params *ListSeedboxTorrentsParams) ([]SeedboxTorrent, error) {
	torrents := []SeedboxTorrent{}
	for page := 0; page < maxPages; page++ {
		query := url.Values{}
		query.Set("page", strconv.Itoa(page))
		query.Set("perPage", strconv.Itoa(perPage))
		if params.Ids != "" {
			query.Set("ids", params.Ids)
		}
		res := &Response[[]SeedboxTorrent]{}
		if err := c.Request(ctx, "/seedbox/list", params, query, res); err != nil {
			return nil, err
		}
		torrents = append(torrents, res.Value...)
		if res.Pagination == nil || res.Pagination.Next < 0 || res.Pagination.Next <= page || len(res.Value) == 0 {
			break
		}
	}
	return torrents, nil
}
