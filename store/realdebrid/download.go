package realdebrid

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/nguyenvanvutlv/resolver/internal/request"
)

type ListDownloadsDataItem struct {
	Id         string    `json:"id"`
	Filename   string    `json:"filename"`
	MimeType   string    `json:"mimeType"`
	Filesize   int64     `json:"filesize"`
	Link       string    `json:"link"`
	Host       string    `json:"host"`
	Download   string    `json:"download"`
	Streamable int       `json:"streamable"`
	Generated  time.Time `json:"generated"`
}

type ListDownloadsParams struct {
	request.Ctx
}

func (c APIClient) ListDownloads(ctx context.Context, params *ListDownloadsParams) ([]ListDownloadsDataItem, error) {
	return listAllPages[ListDownloadsDataItem](ctx, &c, "/downloads", params)
}

type UnrestrictLinkData struct {
	Id       string `json:"id"`
	Filename string `json:"filename"`
	Filesize int64  `json:"filesize"`
	Link     string `json:"link"`
	Host     string `json:"host"`
	Download string `json:"download"`
}

type UnrestrictLinkParams struct {
	request.Ctx
	Link string
}

func (c APIClient) UnrestrictLink(ctx context.Context, params *UnrestrictLinkParams) (*UnrestrictLinkData, error) {
	form := url.Values{}
	form.Set("link", params.Link)
	data := &UnrestrictLinkData{}
	_, err := c.Request(ctx, http.MethodPost, "/unrestrict/link", params, nil, form, data)
	if err != nil {
		return nil, err
	}
	return data, nil
}

type GetUserData struct {
	Id         int       `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	Type       string    `json:"type"`
	Expiration time.Time `json:"expiration"`
}

type GetUserParams struct {
	request.Ctx
}

func (c APIClient) GetUser(ctx context.Context, params *GetUserParams) (*GetUserData, error) {
	data := &GetUserData{}
	_, err := c.Request(ctx, http.MethodGet, "/user", params, nil, nil, data)
	if err != nil {
		return nil, err
	}
	return data, nil
}
