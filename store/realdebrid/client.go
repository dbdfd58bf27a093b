package realdebrid

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/alitto/pond/v2"
	"github.com/nguyenvanvutlv/resolver/core"
	"github.com/nguyenvanvutlv/resolver/internal/request"
	"github.com/nguyenvanvutlv/resolver/internal/util"
	"github.com/nguyenvanvutlv/resolver/store"
)

const (
	DefaultBaseURL = "https://api.real-debrid.com/rest/1.0"

	pageSize = 500
	maxPages = 20
)

var pageFetchPool = pond.NewPool(5)

type ErrorCode int

const (
	ErrorCodeUnknownResource   ErrorCode = 7
	ErrorCodeBadToken          ErrorCode = 8
	ErrorCodePermissionDenied  ErrorCode = 9
	ErrorCodeHosterUnavailable ErrorCode = 20
)

type ResponseError struct {
	Err       string    `json:"error"`
	ErrorCode ErrorCode `json:"error_code"`
}

func parseError(statusCode int, body []byte) error {
	if statusCode < 400 {
		return nil
	}
	rerr := &ResponseError{}
	if err := json.Unmarshal(body, rerr); err != nil || rerr.Err == "" {
		return nil
	}
	var code core.ErrorCode
	switch rerr.ErrorCode {
	case ErrorCodeBadToken:
		code = core.ErrorCodeUnauthorized
	case ErrorCodePermissionDenied, ErrorCodeHosterUnavailable:
		code = core.ErrorCodeForbidden
	case ErrorCodeUnknownResource:
		code = core.ErrorCodeNotFound
	default:
		code = core.ErrorCodeBadGateway
	}
	return core.NewError(code, rerr.Err+" ("+strconv.Itoa(int(rerr.ErrorCode))+")").WithStoreName(string(store.StoreNameRealDebrid))
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
			Service:     string(store.StoreNameRealDebrid),
			BaseURL:     conf.BaseURL,
			HTTPClient:  conf.HTTPClient,
			RetryPolicy: conf.RetryPolicy,
			Limiter:     request.NewStoreLimiter(),
			ParseError:  parseError,
		}),
	}
}

func (c APIClient) Request(ctx context.Context, method, path string, params request.Params, query, form url.Values, v any) (*request.Response, error) {
	reqCtx := params.GetContext()
	if reqCtx.ClientIP != "" {
		if query == nil {
			query = url.Values{}
		}
		query.Set("ip", reqCtx.ClientIP)
	}
	return c.client.Do(ctx, &request.Request{
		Method: method,
		Path:   path,
		Query:  query,
		Form:   form,
		Ctx:    reqCtx,
	}, v)
}

// listAllPages walks a `page`/`limit` endpoint, using X-Total-Count from the
// first page to fetch the remaining ones concurrently.
func listAllPages[T any](ctx context.Context, c *APIClient, path string, params request.Params) ([]T, error) {
	fetch := func(page int) ([]T, *request.Response, error) {
		items := []T{}
		query := url.Values{}
		query.Set("page", strconv.Itoa(page))
		query.Set("limit", strconv.Itoa(pageSize))
		res, err := c.Request(ctx, http.MethodGet, path, params, query, nil, &items)
		return items, res, err
	}

	first, res, err := fetch(1)
	if err != nil {
		return nil, err
	}
	if res.StatusCode == http.StatusNoContent || len(first) < pageSize {
		return first, nil
	}

	total := util.SafeParseInt(res.Header.Get("X-Total-Count"), len(first))
	pages := min((total+pageSize-1)/pageSize, maxPages)
	if pages <= 1 {
		return first, nil
	}

	results := make([][]T, pages)
	errs := make([]error, pages)
	results[0] = first

	group := pageFetchPool.NewGroup()
	for page := 2; page <= pages; page++ {
		group.Submit(func() {
			results[page-1], _, errs[page-1] = fetch(page)
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	items := make([]T, 0, total)
	for _, r := range results {
		items = append(items, r...)
	}
	return items, nil
}
