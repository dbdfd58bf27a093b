package cinemeta

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"unicode"

	"github.com/nguyenvanvutlv/resolver/core"
	"github.com/nguyenvanvutlv/resolver/internal/config"
	"github.com/nguyenvanvutlv/resolver/internal/logger"
	"github.com/nguyenvanvutlv/resolver/internal/request"
)

var log = logger.Scoped("cinemeta")

type ContentType string

const (
	ContentTypeMovie  ContentType = "movie"
	ContentTypeSeries ContentType = "series"
)

// Year accepts `2010`, `"2010"` and ranges like `"2008–2013"` (first year).
type Year int

func (y *Year) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*y = 0
		return nil
	}
	if data[0] != '"' {
		var n int
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*y = Year(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	digits := strings.FieldsFunc(s, func(r rune) bool { return !unicode.IsDigit(r) })
	if len(digits) > 0 && len(digits[0]) == 4 {
		n, _ := strconv.Atoi(digits[0])
		*y = Year(n)
	} else {
		*y = 0
	}
	return nil
}

type Meta struct {
	Id          string      `json:"id"`
	IMDBId      string      `json:"imdb_id"`
	Type        ContentType `json:"type"`
	Name        string      `json:"name"`
	Year        Year        `json:"year"`
	ReleaseInfo string      `json:"releaseInfo"`
}

type getMetaResponse struct {
	Meta *Meta `json:"meta"`
}

type ClientConfig struct {
	BaseURL     string
	HTTPClient  *http.Client
	RetryPolicy *request.RetryPolicy
}

type Client struct {
	client   *request.Client
	attempts int
}

func NewClient(conf *ClientConfig) *Client {
	if conf == nil {
		conf = &ClientConfig{}
	}
	baseURL := conf.BaseURL
	if baseURL == "" {
		baseURL = config.Cinemeta.BaseURL
	}
	policy := request.DefaultRetryPolicy()
	if conf.RetryPolicy != nil {
		policy = *conf.RetryPolicy
	}
	return &Client{
		client: request.NewClient(&request.ClientConfig{
			Service:     "cinemeta",
			BaseURL:     baseURL,
			HTTPClient:  conf.HTTPClient,
			RetryPolicy: &policy,
		}),
		attempts: max(policy.Attempts, 1),
	}
}

// GetMeta returns nil without error when cinemeta does not know the title.
func (c *Client) GetMeta(ctx context.Context, contentType ContentType, id string) (*Meta, error) {
	if contentType == "" || id == "" {
		return nil, core.NewError(core.ErrorCodeBadRequest, "type and id are required")
	}

	resp := &getMetaResponse{}
	_, err := c.client.Do(ctx, &request.Request{
		Method: http.MethodGet,
		Path:   "/meta/" + string(contentType) + "/" + id + ".json",
	}, resp)
	if err != nil {
		if core.ErrorCodeOf(err) == core.ErrorCodeNotFound {
			return nil, nil
		}
		var exhausted *request.ExhaustedError
		if errors.As(err, &exhausted) {
			log.Error("all attempts failed", "type", contentType, "id", id, "attempts", exhausted.Attempts, "error", exhausted.Err)
			return nil, core.NewError(core.ErrorCodeMetaUnavailable, fmt.Sprintf("unable to reach cinemeta after %d attempts: %s", exhausted.Attempts, exhausted.Reason())).WithCause(err)
		}
		if ctx.Err() != nil {
			return nil, err
		}
		return nil, core.NewError(core.ErrorCodeMetaUnavailable, "unable to fetch metadata from cinemeta").WithCause(err)
	}
	if resp.Meta == nil || resp.Meta.Name == "" {
		return nil, nil
	}
	if resp.Meta.Year == 0 && resp.Meta.ReleaseInfo != "" {
		var year Year
		if err := year.UnmarshalJSON([]byte(strconv.Quote(resp.Meta.ReleaseInfo))); err == nil {
			resp.Meta.Year = year
		}
	}
	return resp.Meta, nil
}
