package request

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nguyenvanvutlv/resolver/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fastPolicy = &RetryPolicy{Attempts: 3, Delay: time.Millisecond, Timeout: 200 * time.Millisecond}

func TestClientDo(t *testing.T) {
	t.Run("retries 5xx then succeeds", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) < 3 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
			_ = json.NewEncoder(w).Encode(map[string]string{"id": "42"})
		}))
		defer srv.Close()

		c := NewClient(&ClientConfig{Service: "test", BaseURL: srv.URL, RetryPolicy: fastPolicy})
		var data struct {
			Id string `json:"id"`
		}
		_, err := c.Do(context.Background(), &Request{Path: "/user", Ctx: &Ctx{APIKey: "secret"}}, &data)
		require.NoError(t, err)
		assert.Equal(t, "42", data.Id)
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("never retries auth errors", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()

		c := NewClient(&ClientConfig{Service: "test", BaseURL: srv.URL, RetryPolicy: fastPolicy})
		_, err := c.Do(context.Background(), &Request{Path: "/user"}, nil)
		assert.Equal(t, core.ErrorCodeUnauthorized, core.ErrorCodeOf(err))
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("error parser sees 200 bodies", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"status":"error","error":{"code":"AUTH_BAD_APIKEY"}}`))
		}))
		defer srv.Close()

		c := NewClient(&ClientConfig{
			Service:     "test",
			BaseURL:     srv.URL,
			RetryPolicy: fastPolicy,
			ParseError: func(statusCode int, body []byte) error {
				return core.NewError(core.ErrorCodeUnauthorized, string(body))
			},
		})
		_, err := c.Do(context.Background(), &Request{Path: "/user"}, nil)
		assert.True(t, core.IsAuthError(err))
	})

	t.Run("per-attempt timeout exhausts attempts", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		}))
		defer srv.Close()

		c := NewClient(&ClientConfig{Service: "test", BaseURL: srv.URL, RetryPolicy: &RetryPolicy{Attempts: 2, Delay: time.Millisecond, Timeout: 50 * time.Millisecond}})
		_, err := c.Do(context.Background(), &Request{Path: "/slow"}, nil)
		require.Error(t, err)

		var exhausted *ExhaustedError
		require.True(t, errors.As(err, &exhausted))
		assert.Equal(t, 2, exhausted.Attempts)
		assert.Equal(t, "timed out", exhausted.Reason())
		assert.Equal(t, core.ErrorCodeBadGateway, core.ErrorCodeOf(err))
		assert.Equal(t, int32(2), calls.Load())
	})

	t.Run("api key as query param", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Empty(t, r.Header.Get("Authorization"))
			assert.Equal(t, "secret", r.URL.Query().Get("apikey"))
			assert.Equal(t, "x", r.URL.Query().Get("q"))
			w.WriteHeader(http.StatusNoContent)
		}))
		defer srv.Close()

		c := NewClient(&ClientConfig{Service: "test", BaseURL: srv.URL, RetryPolicy: fastPolicy, APIKeyQueryParam: "apikey"})
		res, err := c.Do(context.Background(), &Request{Path: "/search", Query: map[string][]string{"q": {"x"}}, Ctx: &Ctx{APIKey: "secret"}}, &struct{}{})
		require.NoError(t, err)
		assert.Equal(t, http.StatusNoContent, res.StatusCode)
	})

	t.Run("cancelled context stops retrying", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		c := NewClient(&ClientConfig{Service: "test", BaseURL: srv.URL, RetryPolicy: fastPolicy})
		_, err := c.Do(ctx, &Request{Path: "/"}, nil)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
