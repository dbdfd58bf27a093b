package premiumize

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/nguyenvanvutlv/resolver/core"
	"github.com/nguyenvanvutlv/resolver/internal/request"
	"github.com/nguyenvanvutlv/resolver/store"
)

const DefaultBaseURL = "https://www.premiumize.me/api"

type ResponseStatus string

const (
	ResponseStatusSuccess ResponseStatus = "success"
	ResponseStatusError   ResponseStatus = "error"
)

type ResponseContainer struct {
	Status  ResponseStatus `json:"status"`
	Message string         `json:"message,omitempty"`
}

func parseError(statusCode int, body []byte) error {
	res := &ResponseContainer{}
	if err := json.Unmarshal(body, res); err != nil || res.Status != ResponseStatusError {
		return nil
	}
	msg := strings.ToLower(res.Message)
	code := core.ErrorCodeBadGateway
	switch {
	case strings.Contains(msg, "not logged in"), strings.Contains(msg, "apikey"), strings.Contains(msg, "auth"):
		code = core.ErrorCodeUnauthorized
	case strings.Contains(msg, "premium"), strings.Contains(msg, "banned"):
		code = core.ErrorCodeForbidden
	case strings.Contains(msg, "not found"):
		code = core.ErrorCodeNotFound
	}
	return core.NewError(code, res.Message).WithStoreName(string(store.StoreNamePremiumize))
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
			Service:          string(store.StoreNamePremiumize),
			BaseURL:          conf.BaseURL,
			HTTPClient:       conf.HTTPClient,
			RetryPolicy:      conf.RetryPolicy,
			APIKeyQueryParam: "apikey",
			Limiter:          request.NewStoreLimiter(),
			ParseError:       parseError,
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
	ResponseContainer
	CustomerId   json.Number `json:"customer_id"`
	PremiumUntil int64       `json:"premium_until"`
}

type GetAccountInfoParams struct {
	request.Ctx
}

func (c APIClient) GetAccountInfo(ctx context.Context, params *GetAccountInfoParams) (*GetAccountInfoData, error) {
	data := &GetAccountInfoData{}
	if err := c.Request(ctx, "/account/info", params, nil, data); err != nil {
		return nil, err
	}
	return data, nil
}

type ListAllItem struct {
	Id         string `json:"id"`
	Name       string `json:"name"`
	CreatedAt  int64  `json:"created_at"`
	Size       int64  `json:"size"`
	MimeType   string `json:"mime_type"`
	Link       string `json:"link"`
	StreamLink string `json:"stream_link"`
	Path       string `json:"path"`
}

type ListAllItemsParams struct {
	request.Ctx
}

func (c APIClient) ListAllItems(ctx context.Context, params *ListAllItemsParams) ([]ListAllItem, error) {
	data := &struct {
		ResponseContainer
		Files []ListAllItem `json:"files"`
	}{}
	if err := c.Request(ctx, "/item/listall", params, nil, data); err != nil {
		return nil, err
	}
	return data.Files, nil
}

type FolderContentType string

const (
	FolderContentTypeFile   FolderContentType = "file"
	FolderContentTypeFolder FolderContentType = "folder"
)

type SearchFolderItem struct {
	Id         string            `json:"id"`
	Name       string            `json:"name"`
	Type       FolderContentType `json:"type"`
	Size       int64             `json:"size"`
	CreatedAt  int64             `json:"created_at"`
	Link       string            `json:"link"`
	StreamLink string            `json:"stream_link"`
}

type SearchFolderParams struct {
	request.Ctx
	Query string
}

func (c APIClient) SearchFolder(ctx context.Context, params *SearchFolderParams) ([]SearchFolderItem, error) {
	query := url.Values{}
	query.Set("q", params.Query)
	data := &struct {
		ResponseContainer
		Content []SearchFolderItem `json:"content"`
	}{}
	if err := c.Request(ctx, "/folder/search", params, query, data); err != nil {
		return nil, err
	}
	return data.Content, nil
}

type GetItemDetailsData struct {
	Id         string `json:"id"`
	Name       string `json:"name"`
	Size       int64  `json:"size"`
	CreatedAt  int64  `json:"created_at"`
	Link       string `json:"link"`
	StreamLink string `json:"stream_link"`
	DirectLink string `json:"directlink"`
}

type GetItemDetailsParams struct {
	request.Ctx
	Id string
}

func (c APIClient) GetItemDetails(ctx context.Context, params *GetItemDetailsParams) (*GetItemDetailsData, error) {
	query := url.Values{}
	query.Set("id", params.Id)
	data := &GetItemDetailsData{}
	if err := c.Request(ctx, "/item/details", params, query, data); err != nil {
		return nil, err
	}
	return data, nil
}
