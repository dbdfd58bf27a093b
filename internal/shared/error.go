package shared

import (
	"errors"
	"net/http"

	"github.com/nguyenvanvutlv/resolver/core"
	"github.com/nguyenvanvutlv/resolver/internal/server"
)

type APIError struct {
	Err *core.Error
}

func (e *APIError) Error() string {
	return e.Err.Error()
}

func (e *APIError) Unwrap() error {
	return e.Err
}

func (e *APIError) WithCause(cause error) *APIError {
	e.Err.WithCause(cause)
	return e
}

func (e *APIError) Send(w http.ResponseWriter, r *http.Request) {
	SendError(w, r, e)
}

func newAPIError(code core.ErrorCode, msg string) *APIError {
	return &APIError{Err: core.NewError(code, msg)}
}

func ErrorBadRequest(r *http.Request, msg string) *APIError {
	if msg == "" {
		msg = "Bad Request"
	}
	return newAPIError(core.ErrorCodeBadRequest, msg)
}

func ErrorUnauthorized(r *http.Request) *APIError {
	return newAPIError(core.ErrorCodeUnauthorized, "Unauthorized")
}

func ErrorNotFound(r *http.Request) *APIError {
	return newAPIError(core.ErrorCodeNotFound, "Not Found")
}

func ErrorMethodNotAllowed(r *http.Request) *APIError {
	return newAPIError(core.ErrorCodeMethodNotAllowed, "Method Not Allowed")
}

func ErrorInternalServerError(r *http.Request, msg string) *APIError {
	if msg == "" {
		msg = "Internal Server Error"
	}
	return newAPIError(core.ErrorCodeInternalServerError, msg)
}

func ErrorTooManyRequests(r *http.Request) *APIError {
	return newAPIError(core.ErrorCodeTooManyRequests, "Too Many Requests")
}

type errorBody struct {
	Error *core.Error `json:"error"`
}

// SendError writes err as `{"error":{"code","message"}}`. Errors outside the
// core taxonomy are reported as internal server errors.
func SendError(w http.ResponseWriter, r *http.Request, err error) {
	var e *core.Error
	if !errors.As(err, &e) {
		e = core.NewError(core.ErrorCodeInternalServerError, "Internal Server Error").WithCause(err)
	}
	server.GetReqCtx(r).Error = err
	SendJSON(w, r, e.GetStatusCode(), &errorBody{Error: e})
}
