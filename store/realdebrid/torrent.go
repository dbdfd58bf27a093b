package realdebrid

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/nguyenvanvutlv/resolver/internal/request"
)

type TorrentStatus string

const (
	TorrentStatusDownloaded TorrentStatus = "downloaded"
)

type ListTorrentsDataItem struct {
	Id       string        `json:"id"`
	Filename string        `json:"filename"`
	Hash     string        `json:"hash"`
	Bytes    int64         `json:"bytes"`
	Host     string        `json:"host"`
	Progress float64       `json:"progress"`
	Status   TorrentStatus `json:"status"`
	Added    time.Time     `json:"added"`
	Links    []string      `json:"links"`
	Ended    *time.Time    `json:"ended,omitempty"`
}

type ListTorrentsParams struct {
	request.Ctx
}

func (c APIClient) ListTorrents(ctx context.Context, params *ListTorrentsParams) ([]ListTorrentsDataItem, error) {
	return listAllPages[ListTorrentsDataItem](ctx, &c, "/torrents", params)
}

type TorrentFile struct {
	Id       int    `json:"id"`
	Path     string `json:"path"`
	Bytes    int64  `json:"bytes"`
	Selected int    `json:"selected"`
}

type GetTorrentInfoData struct {
	Id               string        `json:"id"`
	Filename         string        `json:"filename"`
	OriginalFilename string        `json:"original_filename"`
	Hash             string        `json:"hash"`
	Bytes            int64         `json:"bytes"`
	Status           TorrentStatus `json:"status"`
	Added            time.Time     `json:"added"`
	Files            []TorrentFile `json:"files"`
	Links            []string      `json:"links"`
}

type GetTorrentInfoParams struct {
	request.Ctx
	Id string
}

func (c APIClient) GetTorrentInfo(ctx context.Context, params *GetTorrentInfoParams) (*GetTorrentInfoData, error) {
	data := &GetTorrentInfoData{}
	_, err := c.Request(ctx, http.MethodGet, "/torrents/info/"+url.PathEscape(params.Id), params, nil, nil, data)
	if err != nil {
		return nil, err
	}
	return data, nil
}

type SelectTorrentFilesParams struct {
	request.Ctx
	Id string
	// comma separated file ids or "all"
	Files string
}

func (c APIClient) SelectTorrentFiles(ctx context.Context, params *SelectTorrentFilesParams) error {
	form := url.Values{}
	form.Set("files", params.Files)
	_, err := c.Request(ctx, http.MethodPost, "/torrents/selectFiles/"+url.PathEscape(params.Id), params, nil, form, nil)
	return err
}
