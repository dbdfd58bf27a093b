package server

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/nguyenvanvutlv/resolver/internal/logger"
)

type reqCtxKey struct{}

type ReqCtx struct {
	RequestId    string
	StartTime    time.Time
	ReqMethod    string
	ReqPath      string
	ReqQuery     url.Values
	NoRequestLog bool
	Log          *logger.Logger
	Error        error
}

// RedactURLPathValues hides secret path segments in the request log.
func (ctx *ReqCtx) RedactURLPathValues(r *http.Request, names ...string) {
	for _, name := range names {
		if value := r.PathValue(name); value != "" {
			ctx.ReqPath = replaceFirst(ctx.ReqPath, value, "{"+name+"}")
		}
	}
}

func GetReqCtx(r *http.Request) *ReqCtx {
	if ctx, ok := r.Context().Value(reqCtxKey{}).(*ReqCtx); ok {
		return ctx
	}
	return &ReqCtx{Log: log}
}

func setReqCtx(r *http.Request, ctx *ReqCtx) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), reqCtxKey{}, ctx))
}
