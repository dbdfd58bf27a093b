package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/nguyenvanvutlv/resolver/internal/logger"
	"github.com/rs/xid"
)

var log = logger.Scoped("server")

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

func replaceFirst(s, old, repl string) string {
	return strings.Replace(s, old, repl, 1)
}

// RootMiddleware attaches a request context with a request id and writes one
// log line per request once the handler returns.
func RootMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestId := r.Header.Get("X-Request-Id")
		if requestId == "" {
			requestId = xid.New().String()
		}
		w.Header().Set("X-Request-Id", requestId)

		ctx := &ReqCtx{
			RequestId: requestId,
			StartTime: time.Now(),
			ReqMethod: r.Method,
			ReqPath:   r.URL.Path,
			ReqQuery:  r.URL.Query(),
		}
		ctx.Log = log.WithCtx(r.Context(), "req.id", requestId)

		rec := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rec, setReqCtx(r, ctx))

		if ctx.NoRequestLog {
			return
		}

		args := []any{
			"req.method", ctx.ReqMethod,
			"req.path", ctx.ReqPath,
			"res.status", rec.statusCode,
			"latency", time.Since(ctx.StartTime).String(),
		}
		if len(ctx.ReqQuery) > 0 {
			args = append(args, "req.query", ctx.ReqQuery.Encode())
		}
		switch {
		case ctx.Error != nil:
			ctx.Log.Error("request completed", append(args, "error", ctx.Error)...)
		case rec.statusCode >= 500:
			ctx.Log.Error("request completed", args...)
		default:
			ctx.Log.Info("request completed", args...)
		}
	})
}
