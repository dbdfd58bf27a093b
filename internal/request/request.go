package request

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/nguyenvanvutlv/resolver/core"
	"github.com/nguyenvanvutlv/resolver/internal/config"
	"github.com/nguyenvanvutlv/resolver/internal/metrics"
	"github.com/sethvargo/go-retry"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

type Ctx struct {
	APIKey   string `json:"-"`
	ClientIP string `json:"-"`
}

func (ctx *Ctx) GetContext() *Ctx {
	return ctx
}

type Params interface {
	GetContext() *Ctx
}

type RetryPolicy struct {
	Attempts int
	Delay    time.Duration
	Timeout  time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		Attempts: config.HTTP.RetryAttempts,
		Delay:    config.HTTP.RetryDelay,
		Timeout:  config.HTTP.Timeout,
	}
}

// ErrorParser inspects every response. It returns nil when the response is
// not an error, which lets backends report failures inside 200 bodies.
type ErrorParser func(statusCode int, body []byte) error

type ClientConfig struct {
	Service          string
	BaseURL          string
	HTTPClient       *http.Client
	UserAgent        string
	APIKeyQueryParam string
	RetryPolicy      *RetryPolicy
	Limiter          *rate.Limiter
	ParseError       ErrorParser
}

type Client struct {
	service          string
	baseURL          *url.URL
	httpClient       *http.Client
	userAgent        string
	apiKeyQueryParam string
	retryPolicy      RetryPolicy
	limiter          *rate.Limiter
	parseError       ErrorParser
}

func NewClient(conf *ClientConfig) *Client {
	baseURL, err := url.Parse(strings.TrimSuffix(conf.BaseURL, "/"))
	if err != nil {
		panic(fmt.Sprintf("invalid base url for %s: %v", conf.Service, err))
	}

	c := &Client{
		service:          conf.Service,
		baseURL:          baseURL,
		httpClient:       conf.HTTPClient,
		userAgent:        conf.UserAgent,
		apiKeyQueryParam: conf.APIKeyQueryParam,
		limiter:          conf.Limiter,
		parseError:       conf.ParseError,
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}
	if c.userAgent == "" {
		c.userAgent = config.HTTP.UserAgent
	}
	if conf.RetryPolicy != nil {
		c.retryPolicy = *conf.RetryPolicy
	} else {
		c.retryPolicy = DefaultRetryPolicy()
	}
	if c.retryPolicy.Attempts < 1 {
		c.retryPolicy.Attempts = 1
	}
	return c
}

type Request struct {
	Method string
	Path   string
	Query  url.Values
	Form   url.Values
	Ctx    *Ctx
}

type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

type ExhaustedError struct {
	Attempts int
	Err      error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("gave up after %d attempts: %v", e.Attempts, e.Err)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Err
}

// Reason is a short description of the last failure, "timed out" for
// per-attempt timeouts.
func (e *ExhaustedError) Reason() string {
	if IsTimeout(e.Err) {
		return "timed out"
	}
	var cerr *core.Error
	if errors.As(e.Err, &cerr) {
		if cerr.Cause != nil {
			return cerr.Cause.Error()
		}
		return cerr.Msg
	}
	return e.Err.Error()
}

func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func (c *Client) newHTTPRequest(ctx context.Context, req *Request) (*http.Request, error) {
	u := c.baseURL.JoinPath(req.Path)
	query := url.Values{}
	for k, v := range req.Query {
		query[k] = v
	}
	if req.Ctx != nil && req.Ctx.APIKey != "" && c.apiKeyQueryParam != "" {
		query.Set(c.apiKeyQueryParam, req.Ctx.APIKey)
	}
	u.RawQuery = query.Encode()

	var body io.Reader
	if req.Form != nil {
		body = strings.NewReader(req.Form.Encode())
	}
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	r, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, err
	}
	if req.Form != nil {
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	r.Header.Set("Accept", "application/json")
	r.Header.Set("User-Agent", c.userAgent)
	return r, nil
}

func (c *Client) httpClientFor(req *Request) *http.Client {
	if req.Ctx == nil || req.Ctx.APIKey == "" || c.apiKeyQueryParam != "" {
		return c.httpClient
	}
	client := *c.httpClient
	client.Transport = &oauth2.Transport{
		Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: req.Ctx.APIKey}),
		Base:   c.httpClient.Transport,
	}
	return &client
}

func (c *Client) newError(code core.ErrorCode, msg string) *core.Error {
	return core.NewError(code, msg).WithStoreName(c.service)
}

func (c *Client) statusError(statusCode int) (*core.Error, bool) {
	msg := "received status " + strconv.Itoa(statusCode)
	switch {
	case statusCode == http.StatusUnauthorized:
		return c.newError(core.ErrorCodeUnauthorized, msg), false
	case statusCode == http.StatusForbidden:
		return c.newError(core.ErrorCodeForbidden, msg), false
	case statusCode == http.StatusNotFound:
		return c.newError(core.ErrorCodeNotFound, msg), false
	case statusCode == http.StatusTooManyRequests:
		return c.newError(core.ErrorCodeTooManyRequests, msg), true
	case statusCode >= 500:
		return c.newError(core.ErrorCodeBadGateway, msg), true
	default:
		return c.newError(core.ErrorCodeBadGateway, msg), false
	}
}

func isRetryableStatus(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests || statusCode >= 500
}

func (c *Client) attempt(ctx context.Context, req *Request) (*Response, bool, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, false, err
		}
	}

	attemptCtx, cancel := context.WithTimeout(ctx, c.retryPolicy.Timeout)
	defer cancel()

	r, err := c.newHTTPRequest(attemptCtx, req)
	if err != nil {
		return nil, false, c.newError(core.ErrorCodeInternalServerError, "failed to create request").WithCause(err)
	}

	res, err := c.httpClientFor(req).Do(r)
	if err != nil {
		metrics.ObserveOutboundRequest(c.service, "error")
		if ctx.Err() != nil {
			return nil, false, ctx.Err()
		}
		return nil, true, c.newError(core.ErrorCodeBadGateway, "request failed").WithCause(err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		metrics.ObserveOutboundRequest(c.service, "error")
		if ctx.Err() != nil {
			return nil, false, ctx.Err()
		}
		return nil, true, c.newError(core.ErrorCodeBadGateway, "failed to read response").WithCause(err)
	}
	metrics.ObserveOutboundRequest(c.service, strconv.Itoa(res.StatusCode))

	response := &Response{StatusCode: res.StatusCode, Header: res.Header, Body: body}

	if c.parseError != nil {
		if err := c.parseError(res.StatusCode, body); err != nil {
			retryable := isRetryableStatus(res.StatusCode)
			switch core.ErrorCodeOf(err) {
			case core.ErrorCodeUnauthorized, core.ErrorCodeForbidden, core.ErrorCodeNotFound, core.ErrorCodeBadRequest:
				retryable = false
			}
			return response, retryable, err
		}
	}
	if res.StatusCode >= 400 {
		err, retryable := c.statusError(res.StatusCode)
		return response, retryable, err
	}
	return response, false, nil
}

// Do sends req following the retry policy and decodes a JSON body into v
// (when v is not nil). Only transport failures, timeouts, 429 and 5xx are
// retried.
func (c *Client) Do(ctx context.Context, req *Request, v any) (*Response, error) {
	attempts := 0
	var lastRetryable bool
	var response *Response

	backoff := retry.WithMaxRetries(uint64(c.retryPolicy.Attempts-1), retry.NewConstant(c.retryPolicy.Delay))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempts++
		res, retryable, err := c.attempt(ctx, req)
		response, lastRetryable = res, retryable
		if err != nil && retryable {
			return retry.RetryableError(err)
		}
		return err
	})
	if err != nil {
		if lastRetryable && ctx.Err() == nil {
			return response, c.newError(core.ErrorCodeBadGateway, fmt.Sprintf("unable to reach %s", c.service)).WithCause(&ExhaustedError{Attempts: attempts, Err: err})
		}
		return response, err
	}

	if v != nil && response.StatusCode != http.StatusNoContent && len(response.Body) > 0 {
		if err := json.Unmarshal(response.Body, v); err != nil {
			return response, c.newError(core.ErrorCodeBadGateway, "failed to decode response").WithCause(err)
		}
	}
	return response, nil
}
