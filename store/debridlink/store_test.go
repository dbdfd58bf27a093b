package debridlink

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nguyenvanvutlv/resolver/core"
	"github.com/nguyenvanvutlv/resolver/internal/request"
	"github.com/nguyenvanvutlv/resolver/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, mux *http.ServeMux) *StoreClient {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return NewStoreClient(&StoreClientConfig{
		BaseURL:     srv.URL,
		RetryPolicy: &request.RetryPolicy{Attempts: 2, Delay: time.Millisecond, Timeout: time.Second},
	})
}

func TestListItems(t *testing.T) {
	var calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /seedbox/list", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		switch r.URL.Query().Get("page") {
		case "0":
			_, _ = w.Write([]byte(`{"success":true,"value":[
				{"id":"a1","name":"Inception.2010.1080p","hashString":"AA","totalSize":10,"created":1700000000,
				 "files":[{"id":"a1-0","name":"Inception.2010.1080p.mkv","size":10,"downloadUrl":"https://dl.debrid-link.com/a1-0","downloadPercent":100},
				          {"id":"a1-1","name":"partial.mkv","size":1,"downloadUrl":"","downloadPercent":40}]}
			],"pagination":{"page":0,"pages":2,"next":1}}`))
		default:
			_, _ = w.Write([]byte(`{"success":true,"value":[
				{"id":"b2","name":"Show.S01","hashString":"BB","totalSize":20,"created":1600000000,"files":[]}
			],"pagination":{"page":1,"pages":2,"next":-1}}`))
		}
	})

	s := newTestStore(t, mux)
	data, err := s.ListItems(context.Background(), &store.ListItemsParams{Ctx: store.Ctx{APIKey: "key"}})
	require.NoError(t, err)
	require.Len(t, data.Items, 2)
	assert.Equal(t, int32(2), calls.Load())
	require.Len(t, data.Items[0].Files, 1)
	assert.Equal(t, "https://dl.debrid-link.com/a1-0", data.Items[0].Files[0].Link)
	assert.Equal(t, "b2", data.Items[1].Id)
}

func TestErrorMapping(t *testing.T) {
	for _, tc := range []struct {
		code   string
		result core.ErrorCode
	}{
		{"badToken", core.ErrorCodeUnauthorized},
		{"accountLocked", core.ErrorCodeForbidden},
		{"notFreeAccess", core.ErrorCodeForbidden},
		{"serverNotAllowed", core.ErrorCodeBadGateway},
	} {
		t.Run(tc.code, func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("GET /account/infos", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"success":false,"error":"` + tc.code + `"}`))
			})
			_, err := newTestStore(t, mux).GetUser(context.Background(), &store.GetUserParams{Ctx: store.Ctx{APIKey: "key"}})
			assert.Equal(t, tc.result, core.ErrorCodeOf(err))
		})
	}
}
